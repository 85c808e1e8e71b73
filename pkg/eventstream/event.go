package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/priyankark/fetch-event-source/pkg/sse"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeMessageReceived is emitted for every data-bearing SSE
	// message the subscription delivers.
	EventTypeMessageReceived = "fes.message.received"
)

// MessageReceivedEvent is a transport-neutral envelope for one decoded SSE
// message.
type MessageReceivedEvent struct {
	SchemaVersion int            `json:"schema_version"`
	EventType     string         `json:"event_type"`
	EventID       string         `json:"event_id"`
	EmittedAt     time.Time      `json:"emitted_at"`
	Source        EventSource    `json:"source"`
	Message       MessagePayload `json:"message"`
}

// EventSource identifies the stream the message came from.
type EventSource struct {
	Target string `json:"target"`
}

// MessagePayload mirrors the dispatched SSE message. Pointer fields keep the
// present/absent distinction through JSON (omitted when absent).
type MessagePayload struct {
	ID      *string `json:"id,omitempty"`
	Event   *string `json:"event,omitempty"`
	Data    string  `json:"data"`
	RetryMs *int    `json:"retry_ms,omitempty"`
}

// NewMessageReceivedEvent wraps a dispatched message in a v1 envelope with a
// fresh event id.
func NewMessageReceivedEvent(target string, msg sse.Message) *MessageReceivedEvent {
	payload := MessagePayload{
		ID:      msg.ID,
		Event:   msg.Event,
		RetryMs: msg.Retry,
	}
	if msg.Data != nil {
		payload.Data = *msg.Data
	}

	return &MessageReceivedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeMessageReceived,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        EventSource{Target: target},
		Message:       payload,
	}
}
