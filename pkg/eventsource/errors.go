package eventsource

import "fmt"

// TransportError reports a connection that could not be established, or one
// that was interrupted while the response body was being read.
type TransportError struct{ Err error }

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError reports a response rejected by the open validator, e.g. a
// non-2xx status or a wrong content type.
type ValidationError struct{ Err error }

func (e *ValidationError) Error() string { return fmt.Sprintf("validating response: %v", e.Err) }
func (e *ValidationError) Unwrap() error { return e.Err }

// DecodeError reports a structurally unrecoverable stream, such as a single
// line growing past the parser's limit. Malformed individual field lines are
// never a DecodeError; the assembler drops those silently.
type DecodeError struct{ Err error }

func (e *DecodeError) Error() string { return fmt.Sprintf("decoding stream: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// HandlerError reports an error raised by a caller-supplied close handler.
type HandlerError struct{ Err error }

func (e *HandlerError) Error() string { return fmt.Sprintf("handler: %v", e.Err) }
func (e *HandlerError) Unwrap() error { return e.Err }
