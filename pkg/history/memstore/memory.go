// Package memstore is an in-memory history.Store for tests and small runs.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/S2thend/cursor-history-mcp/pkg/history"
	"github.com/S2thend/cursor-history-mcp/pkg/internalerr"
)

// Store is an in-memory implementation of history.Store.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	sessions map[string]history.Session
	messages []history.Message
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		nextID:   1,
		sessions: make(map[string]history.Session),
	}
}

// Close implements history.Store.
func (s *Store) Close() error { return nil }

// UpsertSession inserts or replaces a session by ID.
func (s *Store) UpsertSession(ctx context.Context, sess history.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session ID required: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// GetSession returns a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (history.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok, nil
}

// ListSessions returns sessions ordered by most recent activity.
func (s *Store) ListSessions(ctx context.Context, opts history.ListOptions) ([]history.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []history.Session
	for _, sess := range s.sessions {
		if opts.Workspace != "" && sess.Workspace != opts.Workspace {
			continue
		}
		result = append(result, sess)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastActivity.Equal(result[j].LastActivity) {
			return result[i].ID < result[j].ID
		}
		return result[i].LastActivity.After(result[j].LastActivity)
	})
	return pageSessions(result, opts.Limit, opts.Offset), nil
}

// DeleteSession removes a session and its messages. Deleting a missing
// session is a no-op.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return nil
	}
	delete(s.sessions, id)

	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.SessionID != id {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return nil
}

// AppendMessage stores a message under an existing session and assigns its ID.
func (s *Store) AppendMessage(ctx context.Context, m history.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[m.SessionID]; !ok {
		return fmt.Errorf("session %q: %w", m.SessionID, internalerr.ErrNotFound)
	}
	m.ID = s.nextID
	s.nextID++
	s.messages = append(s.messages, m)
	return nil
}

// ListMessages returns one session's messages in creation order.
func (s *Store) ListMessages(ctx context.Context, sessionID string, limit, offset int) ([]history.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []history.Message
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			result = append(result, m)
		}
	}
	sortMessages(result)
	return pageMessages(result, limit, offset), nil
}

// MessagesByYear returns messages created in the given UTC calendar year,
// in creation order.
func (s *Store) MessagesByYear(ctx context.Context, q history.YearQuery) ([]history.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []history.Message
	for _, m := range s.messages {
		if m.CreatedAt.UTC().Year() != q.Year {
			continue
		}
		if q.Role != "" && m.Role != q.Role {
			continue
		}
		if q.Workspace != "" {
			sess, ok := s.sessions[m.SessionID]
			if !ok || sess.Workspace != q.Workspace {
				continue
			}
		}
		result = append(result, m)
	}
	sortMessages(result)
	return pageMessages(result, q.Limit, q.Offset), nil
}

func sortMessages(msgs []history.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}

func pageMessages(msgs []history.Message, limit, offset int) []history.Message {
	if offset > 0 {
		if offset >= len(msgs) {
			return nil
		}
		msgs = msgs[offset:]
	}
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	out := make([]history.Message, len(msgs))
	copy(out, msgs)
	return out
}

func pageSessions(sessions []history.Session, limit, offset int) []history.Session {
	if offset > 0 {
		if offset >= len(sessions) {
			return nil
		}
		sessions = sessions[offset:]
	}
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	out := make([]history.Session, len(sessions))
	copy(out, sessions)
	return out
}
