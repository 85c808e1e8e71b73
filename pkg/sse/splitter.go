package sse

// Splitter turns an arbitrary sequence of byte chunks into complete text
// lines. It recognizes the three SSE line terminators (LF, CR, CRLF) even
// when the terminator itself is split across two chunks, and carries the
// unterminated tail of each chunk over to the next.
//
// Because lines are only materialized at terminator boundaries, and no
// UTF-8 continuation byte ever equals '\n' or '\r', multi-byte code points
// split across chunk boundaries are reassembled intact.
type Splitter struct {
	// tail holds the bytes of the current, not-yet-terminated line.
	tail []byte

	// pendingCR is set when the last byte of the previous chunk was a CR.
	// The line break has already been emitted; the flag only decides
	// whether an LF at the start of the next chunk belongs to the same
	// CRLF terminator and must be swallowed.
	pendingCR bool
}

// Push consumes one chunk and returns every complete line it finished,
// without terminators, in arrival order. Empty chunks are a no-op.
func (s *Splitter) Push(chunk []byte) []string {
	if s.pendingCR {
		s.pendingCR = false
		if len(chunk) > 0 && chunk[0] == '\n' {
			chunk = chunk[1:]
		}
	}

	var lines []string
	for i := 0; i < len(chunk); i++ {
		c := chunk[i]
		if c != '\n' && c != '\r' {
			s.tail = append(s.tail, c)
			continue
		}

		lines = append(lines, string(s.tail))
		s.tail = s.tail[:0]

		if c == '\r' {
			if i == len(chunk)-1 {
				s.pendingCR = true
			} else if chunk[i+1] == '\n' {
				i++
			}
		}
	}
	return lines
}

// Pending returns the byte length of the unterminated tail.
func (s *Splitter) Pending() int {
	return len(s.tail)
}

// End signals end of stream and reports whether a non-empty unterminated
// tail was discarded. SSE requires a trailing blank line to dispatch, so an
// unterminated tail represents a truncated message and is never emitted as
// a final line.
func (s *Splitter) End() bool {
	dropped := len(s.tail) > 0
	s.tail = nil
	s.pendingCR = false
	return dropped
}
