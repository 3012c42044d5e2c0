package wrapped

import (
	"fmt"

	"github.com/S2thend/cursor-history-mcp/pkg/internalerr"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/tokenize"
)

// Validation bounds.
const (
	minYear = 2000
	maxYear = 2100

	minSampleCount = 1
	maxSampleCount = 20

	minSampleLen = 40
	maxSampleLen = 500

	minTopics = 1
	maxTopics = 10

	minContentLen = 100
	maxContentLen = 10000
)

// Config controls a single summary generation run. Out-of-range values are
// rejected by Validate, never clamped.
type Config struct {
	// Year is the calendar year under analysis. Range: [2000, 2100].
	Year int

	// Language selects the stopword and question-word tables ("en" or "es").
	// Default: "en"
	Language string

	// Workspace is an optional label echoed into Meta. It does not filter
	// records; callers that want per-workspace summaries filter before
	// handing records to the engine.
	Workspace string

	// MaxSamples caps the sample question list. Range: [1, 20]. Default: 5
	MaxSamples int

	// MaxSampleLength caps sample content length in runes.
	// Range: [40, 500]. Default: 160
	MaxSampleLength int

	// TopicsCount is the requested cluster count. The engine may return
	// fewer topics than requested. Range: [1, 10]. Default: 5
	TopicsCount int

	// MaxContentLength truncates sanitized record content, in runes.
	// Range: [100, 10000]. Default: 2000
	MaxContentLength int

	// Seed fixes the clustering seed for reproducible runs. Zero derives a
	// seed from the clock.
	Seed int64
}

// DefaultConfig returns a Config for the given year with default bounds.
func DefaultConfig(year int) Config {
	return Config{
		Year:             year,
		Language:         tokenize.DefaultLanguage,
		MaxSamples:       5,
		MaxSampleLength:  160,
		TopicsCount:      5,
		MaxContentLength: 2000,
	}
}

// Validate checks every bound and names the violated constraint. All
// violations wrap internalerr.ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Year < minYear || c.Year > maxYear {
		return fmt.Errorf("year %d outside [%d, %d]: %w", c.Year, minYear, maxYear, internalerr.ErrInvalidConfig)
	}
	if !tokenize.Supported(c.Language) {
		return fmt.Errorf("unsupported language %q: %w", c.Language, internalerr.ErrInvalidConfig)
	}
	if c.MaxSamples < minSampleCount || c.MaxSamples > maxSampleCount {
		return fmt.Errorf("maxSamples %d outside [%d, %d]: %w", c.MaxSamples, minSampleCount, maxSampleCount, internalerr.ErrInvalidConfig)
	}
	if c.MaxSampleLength < minSampleLen || c.MaxSampleLength > maxSampleLen {
		return fmt.Errorf("maxSampleLength %d outside [%d, %d]: %w", c.MaxSampleLength, minSampleLen, maxSampleLen, internalerr.ErrInvalidConfig)
	}
	if c.TopicsCount < minTopics || c.TopicsCount > maxTopics {
		return fmt.Errorf("topicsCount %d outside [%d, %d]: %w", c.TopicsCount, minTopics, maxTopics, internalerr.ErrInvalidConfig)
	}
	if c.MaxContentLength < minContentLen || c.MaxContentLength > maxContentLen {
		return fmt.Errorf("maxContentLength %d outside [%d, %d]: %w", c.MaxContentLength, minContentLen, maxContentLen, internalerr.ErrInvalidConfig)
	}
	return nil
}
