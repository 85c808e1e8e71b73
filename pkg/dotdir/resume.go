package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	resumeFile = "resume.json"
)

// ResumeState is the persisted per-stream resume state. It records the last
// event id a tail of the stream dispatched, so a later run can resume with a
// Last-Event-ID header instead of replaying the whole stream.
type ResumeState struct {
	// Streams maps a stream URL to its last seen event id.
	Streams map[string]StreamState `json:"streams"`
}

// StreamState is the resume record for a single stream URL.
type StreamState struct {
	// LastEventID is the id of the last dispatched message. An empty
	// string is a real id the server sent, not an absent one; absent ids
	// never produce a record.
	LastEventID string    `json:"last_event_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoadResumeState loads the resume state from a target .fes/resume.json.
// Returns nil, nil if no resume state exists.
// If overrideDir is non-empty, it is used instead of the default ~/.fes/ location.
func (m *Manager) LoadResumeState(overrideDir string) (*ResumeState, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return nil, nil
	}

	path := filepath.Join(dir, resumeFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading resume state: %w", err)
	}

	state := &ResumeState{}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing resume state: %w", err)
	}

	return state, nil
}

// SaveResume records the last event id for a stream URL and persists the
// state to .fes/resume.json, creating the directory if needed.
func (m *Manager) SaveResume(url, lastEventID string, overrideDir string) error {
	if url == "" {
		return errors.New("cannot save resume state for empty url")
	}

	state, err := m.LoadResumeState(overrideDir)
	if err != nil {
		return err
	}
	if state == nil {
		state = &ResumeState{}
	}
	if state.Streams == nil {
		state.Streams = make(map[string]StreamState)
	}

	state.Streams[url] = StreamState{
		LastEventID: lastEventID,
		UpdatedAt:   time.Now().UTC(),
	}

	dir, err := m.EnsureTarget(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling resume state: %w", err)
	}

	path := filepath.Join(dir, resumeFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing resume state: %w", err)
	}

	return nil
}

// LastEventID returns the recorded last event id for a stream URL, or
// ok=false when the stream has no resume record.
func (m *Manager) LastEventID(url, overrideDir string) (string, bool, error) {
	state, err := m.LoadResumeState(overrideDir)
	if err != nil {
		return "", false, err
	}
	if state == nil {
		return "", false, nil
	}

	s, ok := state.Streams[url]
	return s.LastEventID, ok, nil
}

// ClearResume removes the resume record for a stream URL. Passing an empty
// url removes the whole resume file.
// Returns nil if nothing was recorded.
func (m *Manager) ClearResume(url, overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}
	if dir == "" {
		return nil
	}

	path := filepath.Join(dir, resumeFile)

	if url == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing resume state: %w", err)
		}
		return nil
	}

	state, err := m.LoadResumeState(overrideDir)
	if err != nil {
		return err
	}
	if state == nil || state.Streams == nil {
		return nil
	}

	delete(state.Streams, url)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling resume state: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing resume state: %w", err)
	}

	return nil
}
