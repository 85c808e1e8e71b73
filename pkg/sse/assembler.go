package sse

import (
	"strconv"
	"strings"
)

// Assembler groups a sequence of lines into SSE messages. Fields accumulate
// into an in-progress buffer until a blank line dispatches it. The buffer is
// tied to one connection's parse session and must not be reused across
// connections; a fresh Assembler starts empty.
type Assembler struct {
	id    *string
	event *string
	retry *int
	data  []string
	// hasData distinguishes "no data field" from "data field with empty
	// value"; len(data) covers it, but the name keeps intent obvious.
	hasData bool
}

// Feed processes one line. When the line completes a message (a blank line
// with at least one field accumulated) it returns the dispatched message and
// true, and resets the buffer. A blank line over an empty buffer is a no-op.
func (a *Assembler) Feed(line string) (*Message, bool) {
	if line == "" {
		return a.dispatch()
	}

	// Lines starting with ':' are comments.
	if strings.HasPrefix(line, ":") {
		return nil, false
	}

	field, value, found := strings.Cut(line, ":")
	if found {
		// A single leading space after the colon is stripped; any
		// further spaces are part of the value.
		value = strings.TrimPrefix(value, " ")
	}

	switch field {
	case "data":
		a.data = append(a.data, value)
		a.hasData = true
	case "event":
		// Last occurrence before dispatch wins.
		a.event = &value
	case "id":
		// IDs containing NUL are a protocol violation and dropped
		// silently. An empty value is a valid id.
		if strings.IndexByte(value, 0) == -1 {
			a.id = &value
		}
	case "retry":
		// The wire grammar permits ASCII digits only. Signed values are
		// rejected with everything else non-numeric; a negative interval
		// would turn the reconnect backoff into a busy loop.
		if ms, err := strconv.Atoi(value); err == nil && ms >= 0 && value[0] != '+' {
			a.retry = &ms
		}
	default:
		// Unknown fields are ignored per the SSE spec.
	}
	return nil, false
}

func (a *Assembler) dispatch() (*Message, bool) {
	if a.id == nil && a.event == nil && a.retry == nil && !a.hasData {
		return nil, false
	}

	msg := &Message{
		ID:    a.id,
		Event: a.event,
		Retry: a.retry,
	}
	if a.hasData {
		joined := strings.Join(a.data, "\n")
		msg.Data = &joined
	}

	*a = Assembler{}
	return msg, true
}
