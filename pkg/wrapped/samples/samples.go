package samples

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/sanitize"
)

// minSampleLength rejects near-empty fragments that read as noise.
const minSampleLength = 20

// Set is the selected group of representative sanitized snippets.
type Set struct {
	Questions []string `json:"questions"`
	MaxLength int      `json:"maxLength"`
}

// interrogatives marks question openers in both supported languages; a
// single combined table since openers rarely collide across them.
var interrogatives = map[string]struct{}{
	"how": {}, "what": {}, "why": {}, "when": {}, "where": {}, "which": {},
	"who": {}, "whose": {}, "can": {}, "could": {}, "should": {}, "would": {},
	"will": {}, "does": {}, "do": {}, "did": {}, "is": {}, "are": {}, "am": {},
	"cómo": {}, "como": {}, "qué": {}, "que": {}, "por": {}, "cuándo": {},
	"cuando": {}, "dónde": {}, "donde": {}, "cuál": {}, "cual": {},
	"quién": {}, "quien": {}, "puedo": {}, "puede": {}, "es": {}, "son": {},
	"hay": {}, "debería": {}, "deberia": {},
}

// Select picks up to maxSamples safe, deduplicated snippets from the
// sanitized records. Question-format text ranks above the rest; within a
// rank shorter content wins. Selection is deterministic for a given input
// order, and every candidate is re-validated against the sanitizer before
// being surfaced.
func Select(records []sanitize.Record, s *sanitize.Sanitizer, maxSamples, maxSampleLength int) Set {
	set := Set{Questions: []string{}, MaxLength: maxSampleLength}
	if maxSamples <= 0 {
		return set
	}

	type candidate struct {
		text     string
		length   int
		question bool
	}
	var candidates []candidate
	for _, rec := range records {
		text := strings.TrimSpace(rec.Content)
		length := utf8.RuneCountInString(text)
		if length < minSampleLength || length > maxSampleLength {
			continue
		}
		if sanitize.PlaceholderOnly(text) {
			continue
		}
		if s.ContainsSensitiveContent(text) {
			continue
		}
		candidates = append(candidates, candidate{
			text:     text,
			length:   length,
			question: isQuestion(text),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].question != candidates[j].question {
			return candidates[i].question
		}
		return candidates[i].length < candidates[j].length
	})

	seen := make(map[string]struct{}, maxSamples)
	for _, c := range candidates {
		key := strings.ToLower(c.text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		set.Questions = append(set.Questions, c.text)
		if len(set.Questions) == maxSamples {
			break
		}
	}
	return set
}

// isQuestion treats trailing question marks and recognized interrogative
// openers as question format.
func isQuestion(text string) bool {
	if strings.HasSuffix(text, "?") {
		return true
	}
	first := strings.ToLower(firstWord(text))
	_, ok := interrogatives[first]
	return ok
}

func firstWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], ",.:;!")
}
