package sse

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// feedAll feeds lines through a fresh Assembler and collects dispatches.
func feedAll(lines ...string) []*Message {
	var a Assembler
	var msgs []*Message
	for _, line := range lines {
		if msg, ok := a.Feed(line); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

var _ = Describe("Assembler", func() {
	It("dispatches a data message on a blank line", func() {
		msgs := feedAll("data: hello", "")
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Data).To(HaveValue(Equal("hello")))
		Expect(msgs[0].Event).To(BeNil())
		Expect(msgs[0].ID).To(BeNil())
		Expect(msgs[0].Retry).To(BeNil())
	})

	It("treats a blank line over an empty buffer as a no-op", func() {
		Expect(feedAll("", "", "")).To(BeEmpty())
	})

	It("joins multiple data lines with newline in arrival order", func() {
		msgs := feedAll("data: a", "data: b", "")
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Data).To(HaveValue(Equal("a\nb")))
	})

	It("ignores comment lines entirely", func() {
		msgs := feedAll(": this is ignored", "data: hello", "")
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Data).To(HaveValue(Equal("hello")))
	})

	It("does not dispatch for a lone comment between blank lines", func() {
		Expect(feedAll(": keep-alive", "")).To(BeEmpty())
	})

	It("strips exactly one leading space after the colon", func() {
		msgs := feedAll("data:  two spaces", "")
		Expect(msgs[0].Data).To(HaveValue(Equal(" two spaces")))
	})

	It("handles a field with no space after the colon", func() {
		msgs := feedAll("data:no-space", "")
		Expect(msgs[0].Data).To(HaveValue(Equal("no-space")))
	})

	It("treats a line with no colon as a field name with empty value", func() {
		msgs := feedAll("data", "")
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Data).To(HaveValue(Equal("")))
	})

	It("lets the last event field win before dispatch", func() {
		msgs := feedAll("event: first", "event: second", "data: x", "")
		Expect(msgs[0].Event).To(HaveValue(Equal("second")))
	})

	It("dispatches an event-only message", func() {
		msgs := feedAll("event: ping", "")
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Event).To(HaveValue(Equal("ping")))
		Expect(msgs[0].Data).To(BeNil())
	})

	Describe("id field", func() {
		It("distinguishes an empty id from no id at all", func() {
			msgs := feedAll("id:", "data: a", "", "data: b", "")
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[0].ID).To(HaveValue(Equal("")))
			Expect(msgs[1].ID).To(BeNil())
		})

		It("drops id values containing NUL", func() {
			msgs := feedAll("id: bad\x00id", "data: x", "")
			Expect(msgs[0].ID).To(BeNil())
		})

		It("keeps an earlier valid id when a NUL id follows", func() {
			msgs := feedAll("id: good", "id: bad\x00", "data: x", "")
			Expect(msgs[0].ID).To(HaveValue(Equal("good")))
		})
	})

	Describe("retry field", func() {
		It("parses a base-10 integer", func() {
			msgs := feedAll("retry: 2500", "")
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Retry).To(HaveValue(Equal(2500)))
		})

		It("ignores a non-numeric value", func() {
			Expect(feedAll("retry: soon", "")).To(BeEmpty())
		})

		It("ignores a negative value", func() {
			msgs := feedAll("retry: -50", "data: x", "")
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Retry).To(BeNil())
		})

		It("ignores an explicitly signed value", func() {
			msgs := feedAll("retry: +50", "data: x", "")
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Retry).To(BeNil())
		})
	})

	It("ignores unknown fields", func() {
		msgs := feedAll("foo: bar", "data: hello", "")
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Data).To(HaveValue(Equal("hello")))
	})

	It("resets the buffer after each dispatch", func() {
		msgs := feedAll("event: a", "data: 1", "", "data: 2", "")
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[1].Event).To(BeNil())
		Expect(msgs[1].Data).To(HaveValue(Equal("2")))
	})
})
