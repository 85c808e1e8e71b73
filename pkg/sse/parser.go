package sse

import (
	"errors"
	"io"
)

// maxLineBytes caps the accumulated length of a single SSE line.
const maxLineBytes = 1 << 20

// ErrLineTooLong is returned by Parser.Next when a single line exceeds
// maxLineBytes without a terminator. The stream is structurally
// unrecoverable at that point.
var ErrLineTooLong = errors.New("sse: line exceeds maximum length")

// Parser composes a Splitter and an Assembler over an io.Reader, yielding
// dispatched messages as bytes arrive. A Parser is bound to one connection
// attempt and is not restartable; build a fresh one per connection.
type Parser struct {
	r        io.Reader
	splitter Splitter
	asm      Assembler
	buf      []byte
	queue    []*Message
	err      error
}

// NewParser creates a Parser reading from r, typically a response body.
func NewParser(r io.Reader) *Parser {
	return &Parser{
		r:   r,
		buf: make([]byte, 8*1024),
	}
}

// Next returns the next dispatched message. It returns io.EOF when the
// underlying stream ends cleanly, and the read error otherwise. Once Next
// has returned an error it returns the same error on every further call.
func (p *Parser) Next() (*Message, error) {
	for {
		if len(p.queue) > 0 {
			msg := p.queue[0]
			p.queue = p.queue[1:]
			return msg, nil
		}
		if p.err != nil {
			return nil, p.err
		}

		n, err := p.r.Read(p.buf)
		if n > 0 {
			for _, line := range p.splitter.Push(p.buf[:n]) {
				if msg, ok := p.asm.Feed(line); ok {
					p.queue = append(p.queue, msg)
				}
			}
			if p.splitter.Pending() > maxLineBytes {
				p.err = ErrLineTooLong
				p.splitter.End()
				continue
			}
		}
		if err != nil {
			// An unterminated tail is a truncated message; the
			// in-progress buffer is discarded with it.
			p.splitter.End()
			p.err = err
		}
	}
}
