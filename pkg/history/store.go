// Package history defines the storage contract for recorded chat sessions
// and their messages, plus the collector that feeds a year of user
// utterances into the summary engine.
package history

import (
	"context"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Session is one recorded conversation.
type Session struct {
	ID           string
	Workspace    string
	Title        string
	StartedAt    time.Time
	LastActivity time.Time
}

// Message is one utterance inside a session.
type Message struct {
	ID        int64
	SessionID string
	Role      string
	Text      string
	CreatedAt time.Time
}

// ListOptions pages and filters session listings. A zero Workspace matches
// every workspace.
type ListOptions struct {
	Workspace string
	Limit     int
	Offset    int
}

// YearQuery selects messages from one calendar year, in creation order.
// Empty Workspace or Role match everything.
type YearQuery struct {
	Year      int
	Workspace string
	Role      string
	Limit     int
	Offset    int
}

// Store is the interface for persisting and querying chat history.
//
// Listing methods treat a non-positive limit as unlimited. AppendMessage
// requires the referenced session to exist; DeleteSession also removes the
// session's messages and is a no-op for unknown IDs. Year selection uses the
// UTC calendar year of each message's creation time.
type Store interface {
	Close() error

	// Sessions
	UpsertSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, bool, error)
	ListSessions(ctx context.Context, opts ListOptions) ([]Session, error)
	DeleteSession(ctx context.Context, id string) error

	// Messages
	AppendMessage(ctx context.Context, m Message) error
	ListMessages(ctx context.Context, sessionID string, limit, offset int) ([]Message, error)
	MessagesByYear(ctx context.Context, q YearQuery) ([]Message, error)
}
