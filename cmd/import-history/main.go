package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/S2thend/cursor-history-mcp/internal/transcript"
	"github.com/S2thend/cursor-history-mcp/pkg/history"
	"github.com/S2thend/cursor-history-mcp/pkg/history/sqlite"
)

func main() {
	var (
		dbPath   = flag.String("db", "", "Database path (required)")
		dataPath = flag.String("data", "", "Input JSONL chat export (required)")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}
	if *dataPath == "" {
		log.Fatal("--data required")
	}

	ctx := context.Background()

	entries, err := transcript.LoadFromJSONL(*dataPath)
	if err != nil {
		log.Fatal("Failed to load export:", err)
	}

	log.Printf("Loaded %d entries from %s", len(entries), *dataPath)

	store, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer store.Close()

	// First pass: fold entries into session records.
	sessions := make(map[string]history.Session)
	valid := entries[:0]
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			log.Printf("Skipping entry %d: %v", i, err)
			continue
		}
		valid = append(valid, entry)

		s, ok := sessions[entry.SessionID]
		if !ok {
			s = history.Session{
				ID:           entry.SessionID,
				StartedAt:    entry.Timestamp,
				LastActivity: entry.Timestamp,
			}
		}
		if s.Workspace == "" {
			s.Workspace = entry.Workspace
		}
		if s.Title == "" {
			s.Title = entry.Title
		}
		if entry.Timestamp.Before(s.StartedAt) {
			s.StartedAt = entry.Timestamp
		}
		if entry.Timestamp.After(s.LastActivity) {
			s.LastActivity = entry.Timestamp
		}
		sessions[entry.SessionID] = s
	}

	for _, s := range sessions {
		if err := store.UpsertSession(ctx, s); err != nil {
			log.Fatalf("Failed to upsert session %s: %v", s.ID, err)
		}
	}

	// Second pass: append messages in export order.
	imported := 0
	for i, entry := range valid {
		msg := history.Message{
			SessionID: entry.SessionID,
			Role:      strings.ToLower(strings.TrimSpace(entry.Role)),
			Text:      transcript.StripHTML(entry.Text),
			CreatedAt: entry.Timestamp,
		}
		if err := store.AppendMessage(ctx, msg); err != nil {
			log.Printf("Failed to import entry %d: %v", i, err)
			continue
		}

		imported++
		if imported%500 == 0 {
			log.Printf("Imported %d/%d messages...", imported, len(valid))
		}
	}

	log.Printf("✓ Import complete: %d messages across %d sessions", imported, len(sessions))
}
