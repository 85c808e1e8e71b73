package eventsource

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/priyankark/fetch-event-source/pkg/logger"
	"github.com/priyankark/fetch-event-source/pkg/sse"
	"github.com/priyankark/fetch-event-source/pkg/visibility"
)

// Transport issues one HTTP request and returns the response. The request
// carries the attempt's context; canceling it must make an in-flight call
// fail promptly. The default is http.DefaultClient.Do.
type Transport func(*http.Request) (*http.Response, error)

type config struct {
	method       string
	body         []byte
	headers      map[string]string
	transport    Transport
	onOpen       func(*http.Response) error
	onMessage    func(sse.Message)
	onClose      func() error
	onError      func(error) (time.Duration, error)
	monitor      visibility.Monitor
	noPause      bool
	initialRetry time.Duration
	logger       *slog.Logger
}

// Option configures a subscription created with Subscribe.
type Option func(*config)

func newConfig(opts []Option) config {
	c := config{
		method:       http.MethodGet,
		transport:    http.DefaultClient.Do,
		onOpen:       ValidateResponse,
		initialRetry: DefaultRetryInterval,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithMethod sets the HTTP method. Defaults to GET.
func WithMethod(method string) Option {
	return func(c *config) { c.method = method }
}

// WithBody sets the request body, re-sent on every reconnection attempt.
func WithBody(body []byte) Option {
	return func(c *config) { c.body = body }
}

// WithHeaders sets request headers. The map is copied; later mutation by the
// caller does not leak into connection attempts.
func WithHeaders(headers map[string]string) Option {
	return func(c *config) {
		c.headers = make(map[string]string, len(headers))
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithTransport replaces the HTTP transport, mainly for tests.
func WithTransport(t Transport) Option {
	return func(c *config) { c.transport = t }
}

// WithOnOpen replaces the default open validator (ValidateResponse). A
// returned error is treated as a ValidationError and routed through the
// error policy.
func WithOnOpen(fn func(*http.Response) error) Option {
	return func(c *config) { c.onOpen = fn }
}

// WithOnMessage registers the handler invoked for every data-bearing
// message, in dispatch order. Messages carrying only id/event/retry fields
// update resumption state but are not forwarded.
func WithOnMessage(fn func(sse.Message)) Option {
	return func(c *config) { c.onMessage = fn }
}

// WithOnClose registers the handler invoked when the server closes the
// stream cleanly. Returning a non-nil error routes a HandlerError through
// the error policy; returning nil ends the subscription successfully.
func WithOnClose(fn func() error) Option {
	return func(c *config) { c.onClose = fn }
}

// WithOnError registers the error policy. For each failure it returns the
// delay before the next attempt: a positive delay is used as-is, zero means
// "use the current retry interval", and a non-nil error aborts the
// subscription with that error. Without a policy every failure retries
// after the current retry interval.
func WithOnError(fn func(error) (time.Duration, error)) Option {
	return func(c *config) { c.onError = fn }
}

// WithVisibilityMonitor wires a host visibility signal: the subscription
// pauses while hidden and reconnects immediately on return to foreground.
func WithVisibilityMonitor(m visibility.Monitor) Option {
	return func(c *config) { c.monitor = m }
}

// WithoutVisibilityPause keeps the subscription connected even while the
// configured monitor reports hidden.
func WithoutVisibilityPause() Option {
	return func(c *config) { c.noPause = true }
}

// WithInitialRetry overrides the starting retry interval
// (DefaultRetryInterval). Server "retry:" fields still take precedence once
// received.
func WithInitialRetry(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.initialRetry = d
		}
	}
}

// WithLogger attaches a logger. The subscription is silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
