// Package visibility models the host environment's foreground/background
// state as an injectable capability, so the subscription lifecycle can pause
// while the application is hidden without the core depending on any real
// host integration.
package visibility

import "sync"

// Monitor reports whether the host environment is currently hidden
// (backgrounded) and notifies subscribers when that changes.
type Monitor interface {
	// Hidden returns true while the environment is backgrounded.
	Hidden() bool

	// Subscribe registers fn to be called on every visibility change.
	// The returned cancel func deregisters it and is safe to call more
	// than once.
	Subscribe(fn func(hidden bool)) (cancel func())
}

// Nop returns a Monitor for environments with no visibility signal: never
// hidden, never notifies.
func Nop() Monitor {
	return nopMonitor{}
}

type nopMonitor struct{}

func (nopMonitor) Hidden() bool                       { return false }
func (nopMonitor) Subscribe(func(hidden bool)) func() { return func() {} }

// Manual is a Monitor driven by explicit Set calls. Host integrations flip
// it when the application moves between foreground and background; tests use
// it to exercise pause and resume behavior.
type Manual struct {
	mu     sync.Mutex
	hidden bool
	subs   map[int]func(bool)
	nextID int
}

// NewManual creates a Manual monitor that starts visible.
func NewManual() *Manual {
	return &Manual{subs: make(map[int]func(bool))}
}

// Hidden reports the last value passed to Set.
func (m *Manual) Hidden() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hidden
}

// Set updates the hidden state and notifies subscribers on change.
// Setting the current value again is a no-op.
func (m *Manual) Set(hidden bool) {
	m.mu.Lock()
	if m.hidden == hidden {
		m.mu.Unlock()
		return
	}
	m.hidden = hidden
	fns := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	// Callbacks run outside the lock so they may call back into Manual.
	for _, fn := range fns {
		fn(hidden)
	}
}

// Subscribe registers fn for change notifications.
func (m *Manual) Subscribe(fn func(hidden bool)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}
