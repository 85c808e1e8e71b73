// Package eventstream defines the republishing side of the client: decoded
// SSE messages can be forwarded to an event stream backend (Kafka) so that a
// subscription doubles as a bridge into existing pipelines.
package eventstream

import "context"

// Publisher publishes received-message events to an event stream backend.
type Publisher interface {
	PublishMessage(ctx context.Context, event *MessageReceivedEvent) error
	Close() error
}
