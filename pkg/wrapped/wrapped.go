// Package wrapped turns a year of timestamped chat utterances into a
// sanitized, statistically summarized, topic-clustered annual summary.
//
// The pipeline runs in a fixed order: sanitize and tag every in-year record,
// compute monthly and length statistics, extract ranked keywords, cluster
// weekly documents into topics, and select safe sample questions. No step
// fails on malformed text; insufficient data degrades to empty results noted
// in the output.
package wrapped

import (
	"crypto/rand"
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/samples"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/sanitize"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/stats"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/tokenize"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/topics"
)

// RawRecord is one user utterance before any processing.
type RawRecord struct {
	Text      string
	Timestamp time.Time
}

// Engine generates annual summaries. Configure mask rules and extra
// stopwords before the first Generate call; after that, Generate is safe for
// concurrent use.
type Engine struct {
	sanitizer      *sanitize.Sanitizer
	extraStopwords []string

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates an Engine with the default masking rules.
func New() *Engine {
	return NewWithSanitizer(sanitize.New())
}

// NewWithSanitizer creates an Engine around a caller-configured sanitizer,
// typically one extended with deployment-specific mask rules.
func NewWithSanitizer(s *sanitize.Sanitizer) *Engine {
	return &Engine{
		sanitizer: s,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// AddStopwords registers additional stopwords merged into the active
// language set on every run.
func (e *Engine) AddStopwords(words ...string) {
	e.extraStopwords = append(e.extraStopwords, words...)
}

// Sanitizer exposes the engine's sanitizer, e.g. for re-validating output.
func (e *Engine) Sanitizer() *sanitize.Sanitizer {
	return e.sanitizer
}

// Generate runs the full pipeline over records and returns the summary for
// cfg.Year. Records outside that year are ignored. The only error condition
// is an invalid configuration; malformed or hostile text never fails, and
// insufficient data yields a structured summary with an explanatory note.
func (e *Engine) Generate(cfg Config, records []RawRecord) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	tok := tokenize.New(cfg.Language)
	for _, word := range e.extraStopwords {
		tok.AddStopword(word)
	}

	processed := make([]sanitize.Record, 0, len(records))
	for _, raw := range records {
		if raw.Timestamp.Year() != cfg.Year {
			continue
		}
		processed = append(processed, e.sanitizer.Process(raw.Text, raw.Timestamp, cfg.MaxContentLength))
	}

	summary := &Summary{
		Meta: Meta{
			ReportID:    e.newReportID(),
			GeneratedAt: time.Now().UTC(),
			Year:        cfg.Year,
			Language:    cfg.Language,
			Workspace:   cfg.Workspace,
		},
		Keywords: Keywords{
			Unigrams: []stats.KeywordItem{},
			Bigrams:  []stats.KeywordItem{},
		},
		Topics: []topics.Topic{},
		Safety: Safety{
			Filters: e.sanitizer.FilterNames(),
			Guarantees: []string{
				"no unmasked paths, urls, emails, ips, or secret-shaped tokens",
				"sample questions re-validated against every masking rule",
			},
		},
		Notes: []string{},
	}

	summary.Stats, summary.LengthBuckets = stats.Calculate(processed)
	summary.Samples = samples.Set{Questions: []string{}, MaxLength: cfg.MaxSampleLength}

	if len(processed) == 0 {
		summary.Notes = append(summary.Notes, fmt.Sprintf("no records found for %d", cfg.Year))
		return summary, nil
	}

	contents := make([]string, len(processed))
	for i, rec := range processed {
		contents[i] = rec.Content
	}
	summary.Keywords.Unigrams, summary.Keywords.Bigrams = stats.ExtractKeywords(
		contents, tok, stats.DefaultTopUnigrams, stats.DefaultTopBigrams)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := mathrand.New(mathrand.NewSource(seed))
	summary.Topics = topics.Extract(processed, cfg.Year, tok, cfg.TopicsCount, rng)
	if len(processed) < topics.MinRecordsForTopics {
		summary.Notes = append(summary.Notes,
			fmt.Sprintf("topic extraction skipped: fewer than %d questions found", topics.MinRecordsForTopics))
	}

	summary.Samples = samples.Select(processed, e.sanitizer, cfg.MaxSamples, cfg.MaxSampleLength)

	return summary, nil
}

// newReportID mints a monotonic ULID. MonotonicEntropy is not safe for
// concurrent readers, hence the lock.
func (e *Engine) newReportID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Now(), e.entropy).String()
}
