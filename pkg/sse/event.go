// Package sse implements incremental decoding of Server-Sent Events streams.
// Raw bytes go in, in whatever chunk sizes the network produces, and fully
// dispatched messages come out. The decode pipeline is a line splitter feeding
// a message assembler; Parser composes the two over an io.Reader.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Message represents a single dispatched SSE event, delimited by a blank line
// in the stream.
//
// Fields are pointers because the protocol distinguishes "field not present"
// from "field present with an empty value". An empty-string ID is a legitimate
// resumption token and must not collapse into "no id seen".
type Message struct {
	// ID is the value of the "id:" field, or nil if no valid id field
	// appeared in this message.
	ID *string

	// Event is the SSE event type from the "event:" field.
	// Nil means the default, unlabeled event type.
	Event *string

	// Data is the concatenated contents of all "data:" lines for this
	// message, joined with "\n" in arrival order. Nil if no data field
	// appeared.
	Data *string

	// Retry is the reconnection interval in milliseconds from a "retry:"
	// field, present only when the field value parsed as a base-10 integer.
	Retry *int
}
