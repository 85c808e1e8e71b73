// Package nop provides a no-op eventstream publisher for use when no broker
// is configured.
package nop

import (
	"context"

	"github.com/priyankark/fetch-event-source/pkg/eventstream"
)

// Publisher discards every event. It still validates its input so callers
// exercise the same contract as the real publishers.
type Publisher struct{}

// New returns a no-op publisher.
func New() *Publisher {
	return &Publisher{}
}

// PublishMessage validates the event and drops it.
func (p *Publisher) PublishMessage(_ context.Context, event *eventstream.MessageReceivedEvent) error {
	if event == nil {
		return eventstream.ErrNilMessageEvent
	}
	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
