package wrapped

import (
	"time"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/samples"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/stats"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/topics"
)

// Summary is the complete sanitized data package for one year of history.
// Everything in it is derived; nothing references raw record content except
// the re-validated sample questions.
type Summary struct {
	Meta          Meta                `json:"meta"`
	Stats         stats.Stats         `json:"stats"`
	LengthBuckets stats.LengthBuckets `json:"lengthBuckets"`
	Keywords      Keywords            `json:"keywords"`
	Topics        []topics.Topic      `json:"topics"`
	Samples       samples.Set         `json:"samples"`
	Safety        Safety              `json:"safety"`
	Notes         []string            `json:"notes"`
}

// Meta identifies one generated summary.
type Meta struct {
	ReportID    string    `json:"reportId"`
	GeneratedAt time.Time `json:"generatedAt"`
	Year        int       `json:"year"`
	Language    string    `json:"language"`
	Workspace   string    `json:"workspace,omitempty"`
}

// Keywords carries the ranked unigram and bigram frequency lists.
type Keywords struct {
	Unigrams []stats.KeywordItem `json:"unigrams"`
	Bigrams  []stats.KeywordItem `json:"bigrams"`
}

// Safety enumerates the masking filters that were applied and the guarantees
// the output claims, so consumers can verify the claims against the content.
type Safety struct {
	Filters    []string `json:"filters"`
	Guarantees []string `json:"guarantees"`
}
