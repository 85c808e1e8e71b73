// Package eventsource provides a resilient Server-Sent Events client: it
// opens a long-lived HTTP request, decodes the body incrementally via
// pkg/sse, and reconnects automatically, replaying the last received event
// id and honoring server-directed or caller-directed retry delays.
package eventsource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/priyankark/fetch-event-source/pkg/sse"
)

// DefaultRetryInterval is the reconnection backoff used until a server
// "retry:" field or WithInitialRetry overrides it.
const DefaultRetryInterval = time.Second

// errAttemptAborted marks a controller-initiated abort (visibility change).
// It bypasses the error policy; the run loop decides what happens next.
var errAttemptAborted = errors.New("eventsource: attempt aborted")

// Subscribe opens an event stream at url and blocks until the subscription
// permanently ends. It returns nil on a normal server close and on external
// cancellation via ctx, and returns the originating error when the error
// policy decides a failure is fatal.
//
// Exactly one connection attempt and at most one pending retry timer exist
// at any time; canceling ctx aborts the in-flight request, discards any
// pending timer and deregisters the visibility listener, idempotently.
func Subscribe(ctx context.Context, url string, opts ...Option) error {
	cfg := newConfig(opts)
	s := &subscription{
		cfg:           cfg,
		url:           url,
		retryInterval: cfg.initialRetry,
		wake:          make(chan struct{}, 1),
	}
	return s.run(ctx)
}

// subscription is the connection lifecycle controller for one Subscribe
// call. The run loop is the single writer of resumption state; the
// visibility callback only flips paused and cancels the current attempt.
type subscription struct {
	cfg config
	url string

	lastEventID   *string
	retryInterval time.Duration

	mu            sync.Mutex
	paused        bool
	cancelAttempt context.CancelFunc

	// wake coalesces foreground notifications; capacity 1.
	wake chan struct{}
}

func (s *subscription) run(ctx context.Context) error {
	if s.cfg.monitor != nil && !s.cfg.noPause {
		s.mu.Lock()
		s.paused = s.cfg.monitor.Hidden()
		s.mu.Unlock()

		unsubscribe := s.cfg.monitor.Subscribe(s.onVisibilityChange)
		defer unsubscribe()
	}

	for {
		if !s.waitVisible(ctx) {
			return nil
		}

		err := s.attempt(ctx)
		switch {
		case ctx.Err() != nil:
			// External cancellation never enters the error policy.
			return nil
		case err == nil:
			s.cfg.logger.Debug("stream closed", "url", s.url)
			return nil
		case errors.Is(err, errAttemptAborted):
			// Visibility abort: waitVisible holds while hidden and the
			// next attempt starts immediately on foreground, bypassing
			// the retry timer.
			continue
		}

		delay, fatal := s.nextDelay(err)
		if fatal != nil {
			s.cfg.logger.Warn("subscription failed", "url", s.url, "error", fatal)
			return fatal
		}

		s.cfg.logger.Debug("scheduling reconnect", "url", s.url, "delay", delay)
		if !s.retryWait(ctx, delay) {
			return nil
		}
	}
}

// waitVisible blocks while the subscription is paused. It reports false when
// ctx was canceled.
func (s *subscription) waitVisible(ctx context.Context) bool {
	for {
		s.mu.Lock()
		paused := s.paused
		s.mu.Unlock()
		if !paused {
			return true
		}

		s.cfg.logger.Debug("paused while hidden", "url", s.url)
		select {
		case <-ctx.Done():
			return false
		case <-s.wake:
		}
	}
}

// retryWait sleeps for delay, or returns early on foreground wake. It
// reports false when ctx was canceled.
func (s *subscription) retryWait(ctx context.Context, delay time.Duration) bool {
	// Drop a stale wakeup so it cannot cut this wait short.
	select {
	case <-s.wake:
	default:
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-s.wake:
		return true
	case <-timer.C:
		return true
	}
}

func (s *subscription) onVisibilityChange(hidden bool) {
	s.mu.Lock()
	s.paused = hidden
	cancel := s.cancelAttempt
	s.mu.Unlock()

	// Either transition aborts the current attempt; a stale connection is
	// useless after backgrounding and replaced on foregrounding.
	if cancel != nil {
		cancel()
	}
	if !hidden {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// attempt runs one CONNECTING/OPEN cycle. It returns nil on a normal server
// close, errAttemptAborted on a controller-initiated abort, and a typed
// error for the policy otherwise.
func (s *subscription) attempt(ctx context.Context) error {
	actx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.cancelAttempt = cancel
	paused := s.paused
	s.mu.Unlock()
	if paused {
		// Hidden transition raced with attempt start; abort immediately.
		cancel()
	}
	defer func() {
		s.mu.Lock()
		s.cancelAttempt = nil
		s.mu.Unlock()
	}()

	var body io.Reader
	if len(s.cfg.body) > 0 {
		body = bytes.NewReader(s.cfg.body)
	}
	req, err := http.NewRequestWithContext(actx, s.cfg.method, s.url, body)
	if err != nil {
		return &TransportError{Err: err}
	}

	// Headers are copied into each attempt's request; the config map is
	// never handed to the transport.
	for k, v := range s.cfg.headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", ContentType)
	}
	if req.Header.Get("Cache-Control") == "" {
		req.Header.Set("Cache-Control", "no-cache")
	}
	if s.lastEventID != nil {
		req.Header.Set("Last-Event-ID", *s.lastEventID)
	}

	s.cfg.logger.Debug("connecting", "url", s.url, "method", s.cfg.method)

	resp, err := s.cfg.transport(req)
	if err != nil {
		return s.classify(actx, ctx, &TransportError{Err: err})
	}
	defer resp.Body.Close()

	if err := s.cfg.onOpen(resp); err != nil {
		return &ValidationError{Err: err}
	}
	s.cfg.logger.Debug("stream open", "url", s.url, "status", resp.StatusCode)

	parser := sse.NewParser(resp.Body)
	for {
		msg, err := parser.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if s.cfg.onClose != nil {
					if cerr := s.cfg.onClose(); cerr != nil {
						return &HandlerError{Err: cerr}
					}
				}
				return nil
			}
			if errors.Is(err, sse.ErrLineTooLong) {
				return &DecodeError{Err: err}
			}
			return s.classify(actx, ctx, &TransportError{Err: err})
		}

		if msg.ID != nil {
			s.lastEventID = msg.ID
		}
		if msg.Retry != nil {
			s.retryInterval = time.Duration(*msg.Retry) * time.Millisecond
		}
		if msg.Data != nil && s.cfg.onMessage != nil {
			s.cfg.onMessage(*msg)
		}
	}
}

// classify rewrites errors caused by a controller-initiated abort as
// errAttemptAborted. External cancellation is left alone; the run loop
// recognizes it via ctx.Err().
func (s *subscription) classify(actx, ctx context.Context, err error) error {
	if actx.Err() != nil && ctx.Err() == nil {
		return errAttemptAborted
	}
	return err
}

// nextDelay applies the error policy: a positive caller delay wins, zero
// falls back to the current retry interval, and a non-nil error is fatal.
func (s *subscription) nextDelay(err error) (time.Duration, error) {
	s.cfg.logger.Debug("stream error", "url", s.url, "error", err)
	if s.cfg.onError == nil {
		return s.retryInterval, nil
	}
	delay, fatal := s.cfg.onError(err)
	if fatal != nil {
		return 0, fatal
	}
	if delay <= 0 {
		return s.retryInterval, nil
	}
	return delay, nil
}
