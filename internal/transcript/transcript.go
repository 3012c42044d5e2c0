// Package transcript loads chat history exports in JSONL form, one
// message per line, as produced by editor chat export tooling.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Entry is a single exported chat message.
type Entry struct {
	SessionID string    `json:"session_id"`
	Workspace string    `json:"workspace"`
	Title     string    `json:"title"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks if the entry has the fields an import needs.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.SessionID) == "" {
		return errors.New("entry session_id is required")
	}

	if strings.TrimSpace(e.Role) == "" {
		return errors.New("entry role is required")
	}

	if strings.TrimSpace(e.Text) == "" {
		return errors.New("entry text is required")
	}

	if e.Timestamp.IsZero() {
		return errors.New("entry timestamp is required")
	}

	return nil
}

// LoadFromJSONL loads entries from a JSONL export with proper error handling
func LoadFromJSONL(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var entries []Entry
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no valid entries found in %s", path)
	}

	return entries, nil
}

// StripHTML flattens rich-text export markup to plain text. Some export
// formats wrap message bodies in HTML; the analytics layer wants words.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
