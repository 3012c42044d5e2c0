package sanitize

import (
	"time"
	"unicode/utf8"
)

// Record is one sanitized utterance tagged with its calendar metadata.
// Immutable once created; derived 1:1 from a raw utterance.
type Record struct {
	Content        string
	OriginalLength int
	Timestamp      time.Time
	Month          string // "YYYY-MM"
	Week           int    // ISO 8601 week, 1..53
}

// Process sanitizes one raw utterance and tags it with its month key and
// ISO week number. OriginalLength is the rune count of the text before
// sanitization; length buckets downstream are computed from it.
func (s *Sanitizer) Process(text string, ts time.Time, maxLength int) Record {
	_, week := ts.ISOWeek()
	return Record{
		Content:        s.Sanitize(text, maxLength),
		OriginalLength: utf8.RuneCountInString(text),
		Timestamp:      ts,
		Month:          ts.Format("2006-01"),
		Week:           week,
	}
}
