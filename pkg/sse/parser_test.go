package sse

import (
	"errors"
	"io"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// drain reads messages until the parser errors, returning both.
func drain(p *Parser) ([]*Message, error) {
	var msgs []*Message
	for {
		msg, err := p.Next()
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
}

var _ = Describe("Parser", func() {
	It("decodes a stream of messages and ends with io.EOF", func() {
		input := "event: greeting\ndata: hello\n\ndata: world\n\n"
		msgs, err := drain(NewParser(strings.NewReader(input)))
		Expect(err).To(MatchError(io.EOF))
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[0].Event).To(HaveValue(Equal("greeting")))
		Expect(msgs[0].Data).To(HaveValue(Equal("hello")))
		Expect(msgs[1].Event).To(BeNil())
		Expect(msgs[1].Data).To(HaveValue(Equal("world")))
	})

	It("decodes identically when the stream arrives one byte at a time", func() {
		input := ": comment\r\nid: 7\r\nevent: tick\r\ndata: caf\xc3\xa9\r\ndata: bar\r\n\r\n"

		whole, err := drain(NewParser(strings.NewReader(input)))
		Expect(err).To(MatchError(io.EOF))

		bytewise, err := drain(NewParser(iotest.OneByteReader(strings.NewReader(input))))
		Expect(err).To(MatchError(io.EOF))

		Expect(bytewise).To(Equal(whole))
		Expect(bytewise).To(HaveLen(1))
		Expect(bytewise[0].ID).To(HaveValue(Equal("7")))
		Expect(bytewise[0].Data).To(HaveValue(Equal("café\nbar")))
	})

	It("discards a truncated trailing message", func() {
		// No blank line after the final data field, so it never dispatches.
		input := "data: complete\n\ndata: truncated"
		msgs, err := drain(NewParser(strings.NewReader(input)))
		Expect(err).To(MatchError(io.EOF))
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Data).To(HaveValue(Equal("complete")))
	})

	It("discards a terminated but undispatched message at stream end", func() {
		input := "data: complete\n\ndata: no blank line\n"
		msgs, err := drain(NewParser(strings.NewReader(input)))
		Expect(err).To(MatchError(io.EOF))
		Expect(msgs).To(HaveLen(1))
	})

	It("surfaces mid-stream read errors", func() {
		readErr := errors.New("connection reset")
		r := io.MultiReader(strings.NewReader("data: ok\n\n"), iotest.ErrReader(readErr))
		msgs, err := drain(NewParser(r))
		Expect(err).To(MatchError(readErr))
		Expect(msgs).To(HaveLen(1))
	})

	It("returns the same error on repeated calls after failure", func() {
		p := NewParser(strings.NewReader(""))
		_, err := p.Next()
		Expect(err).To(MatchError(io.EOF))
		_, err = p.Next()
		Expect(err).To(MatchError(io.EOF))
	})

	It("fails with ErrLineTooLong on an unbounded line", func() {
		p := NewParser(io.MultiReader(
			strings.NewReader("data: "),
			strings.NewReader(strings.Repeat("x", maxLineBytes+1)),
		))
		_, err := drain(p)
		Expect(err).To(MatchError(ErrLineTooLong))
	})
})
