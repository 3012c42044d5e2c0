package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/S2thend/cursor-history-mcp/pkg/history"
	"github.com/S2thend/cursor-history-mcp/pkg/internalerr"
)

func openTestStore(t *testing.T) history.Store {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func utc(month time.Month, day, hour int) time.Time {
	return time.Date(2025, month, day, hour, 0, 0, 0, time.UTC)
}

func TestSQLiteSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	sess := history.Session{
		ID:           "sess-1",
		Workspace:    "acme-api",
		Title:        "migrating the queue",
		StartedAt:    utc(time.March, 3, 9),
		LastActivity: utc(time.March, 3, 10),
	}
	if err := st.UpsertSession(ctx, sess); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}

	got, found, err := st.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !found {
		t.Fatal("session should be found")
	}
	if got.ID != sess.ID || got.Workspace != sess.Workspace || got.Title != sess.Title {
		t.Errorf("got %+v, want %+v", got, sess)
	}
	if !got.StartedAt.Equal(sess.StartedAt) || !got.LastActivity.Equal(sess.LastActivity) {
		t.Errorf("timestamps should survive the round trip: %+v", got)
	}

	if _, found, err := st.GetSession(ctx, "missing"); err != nil || found {
		t.Errorf("missing session: found=%v err=%v", found, err)
	}

	if err := st.UpsertSession(ctx, history.Session{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty session ID should be rejected, got %v", err)
	}
}

func TestSQLiteUpsertSessionReplaces(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.UpsertSession(ctx, history.Session{ID: "sess-1", Title: "old", LastActivity: utc(time.May, 1, 1)}); err != nil {
		t.Fatalf("first UpsertSession: %v", err)
	}
	if err := st.UpsertSession(ctx, history.Session{ID: "sess-1", Title: "new", LastActivity: utc(time.May, 2, 1)}); err != nil {
		t.Fatalf("second UpsertSession: %v", err)
	}

	got, _, err := st.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Title != "new" || !got.LastActivity.Equal(utc(time.May, 2, 1)) {
		t.Errorf("session should be replaced, got %+v", got)
	}

	all, err := st.ListSessions(ctx, history.ListOptions{})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("upsert must not duplicate sessions: %+v", all)
	}
}

func TestSQLiteListSessions(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	seed := []history.Session{
		{ID: "a", Workspace: "one", LastActivity: utc(time.January, 10, 0)},
		{ID: "b", Workspace: "two", LastActivity: utc(time.February, 10, 0)},
		{ID: "c", Workspace: "one", LastActivity: utc(time.March, 10, 0)},
	}
	for _, sess := range seed {
		if err := st.UpsertSession(ctx, sess); err != nil {
			t.Fatalf("UpsertSession: %v", err)
		}
	}

	all, err := st.ListSessions(ctx, history.ListOptions{})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[1].ID != "b" || all[2].ID != "a" {
		t.Errorf("sessions not ordered by recent activity: %+v", all)
	}

	one, err := st.ListSessions(ctx, history.ListOptions{Workspace: "one", Limit: 1})
	if err != nil {
		t.Fatalf("ListSessions(one): %v", err)
	}
	if len(one) != 1 || one[0].ID != "c" {
		t.Errorf("workspace filter with limit wrong: %+v", one)
	}
}

func TestSQLiteMessages(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.UpsertSession(ctx, history.Session{ID: "sess-1"}); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}

	texts := []string{"first", "second", "third"}
	for i, text := range texts {
		msg := history.Message{
			SessionID: "sess-1",
			Role:      history.RoleUser,
			Text:      text,
			CreatedAt: utc(time.April, 1, 9+i),
		}
		if err := st.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("AppendMessage(%s): %v", text, err)
		}
	}

	msgs, err := st.ListMessages(ctx, "sess-1", 0, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	for i, m := range msgs {
		if m.Text != texts[i] {
			t.Errorf("message %d = %q, want %q", i, m.Text, texts[i])
		}
		if m.ID == 0 {
			t.Error("message IDs should be assigned by the store")
		}
		if !m.CreatedAt.Equal(utc(time.April, 1, 9+i)) {
			t.Errorf("message %d timestamp wrong: %v", i, m.CreatedAt)
		}
	}

	page, err := st.ListMessages(ctx, "sess-1", 1, 1)
	if err != nil {
		t.Fatalf("ListMessages(paged): %v", err)
	}
	if len(page) != 1 || page[0].Text != "second" {
		t.Errorf("paging wrong: %+v", page)
	}

	err = st.AppendMessage(ctx, history.Message{SessionID: "ghost", Role: history.RoleUser, Text: "x"})
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("append to missing session should be ErrNotFound, got %v", err)
	}
}

func TestSQLiteMessagesByYear(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.UpsertSession(ctx, history.Session{ID: "sess-a", Workspace: "alpha"}); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}
	if err := st.UpsertSession(ctx, history.Session{ID: "sess-b", Workspace: "beta"}); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}

	seed := []history.Message{
		{SessionID: "sess-a", Role: history.RoleUser, Text: "alpha 2025", CreatedAt: utc(time.June, 1, 8)},
		{SessionID: "sess-a", Role: history.RoleAssistant, Text: "reply", CreatedAt: utc(time.June, 1, 8)},
		{SessionID: "sess-b", Role: history.RoleUser, Text: "beta 2025", CreatedAt: utc(time.June, 2, 8)},
		{SessionID: "sess-a", Role: history.RoleUser, Text: "alpha 2024",
			CreatedAt: time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)},
		{SessionID: "sess-a", Role: history.RoleUser, Text: "new year's eve",
			CreatedAt: time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)},
	}
	for _, msg := range seed {
		if err := st.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	users, err := st.MessagesByYear(ctx, history.YearQuery{Year: 2025, Role: history.RoleUser})
	if err != nil {
		t.Fatalf("MessagesByYear: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("got %d user messages for 2025, want 3: %+v", len(users), users)
	}
	if users[0].Text != "alpha 2025" || users[2].Text != "new year's eve" {
		t.Errorf("year filter should keep creation order: %+v", users)
	}

	alpha, err := st.MessagesByYear(ctx, history.YearQuery{Year: 2025, Role: history.RoleUser, Workspace: "alpha"})
	if err != nil {
		t.Fatalf("MessagesByYear(alpha): %v", err)
	}
	if len(alpha) != 2 {
		t.Errorf("workspace filter wrong: %+v", alpha)
	}

	paged, err := st.MessagesByYear(ctx, history.YearQuery{Year: 2025, Role: history.RoleUser, Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("MessagesByYear(paged): %v", err)
	}
	if len(paged) != 1 || paged[0].Text != "beta 2025" {
		t.Errorf("paging wrong: %+v", paged)
	}
}

func TestSQLiteDeleteSessionCascades(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.UpsertSession(ctx, history.Session{ID: "sess-1"}); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}
	if err := st.AppendMessage(ctx, history.Message{SessionID: "sess-1", Role: history.RoleUser, Text: "gone soon", CreatedAt: utc(time.May, 1, 1)}); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	if err := st.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := st.DeleteSession(ctx, "sess-1"); err != nil {
		t.Errorf("deleting a missing session should be a no-op, got %v", err)
	}

	if _, found, _ := st.GetSession(ctx, "sess-1"); found {
		t.Error("session should be gone")
	}
	msgs, err := st.ListMessages(ctx, "sess-1", 0, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("cascade should remove the session's messages: %+v", msgs)
	}
}

func TestSQLiteReopenPersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.UpsertSession(ctx, history.Session{ID: "sess-1", Title: "persisted"}); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, found, err := reopened.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !found || got.Title != "persisted" {
		t.Errorf("data should survive reopen: found=%v got=%+v", found, got)
	}
}
