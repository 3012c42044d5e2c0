package stats

import (
	"sort"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/sanitize"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/tokenize"
)

// Length bucket boundaries, applied to the original pre-sanitization length.
const (
	shortMax  = 100
	mediumMax = 280
)

// Default keyword table sizes.
const (
	DefaultTopUnigrams = 50
	DefaultTopBigrams  = 30
)

// Stats summarizes yearly volume and cadence.
type Stats struct {
	TotalQuestions      int            `json:"totalQuestions"`
	ActiveMonths        int            `json:"activeMonths"`
	MonthlyDistribution map[string]int `json:"monthlyDistribution"`
}

// LengthBuckets partitions records by original content length:
// short <= 100, medium 101-280, long >= 281.
type LengthBuckets struct {
	Short  int `json:"short"`
	Medium int `json:"medium"`
	Long   int `json:"long"`
}

// KeywordItem is one ranked term with its corpus count.
type KeywordItem struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Calculate computes volume statistics and length buckets over sanitized
// records. Months with zero records are absent from the distribution, so
// ActiveMonths is simply the number of distinct month keys.
func Calculate(records []sanitize.Record) (Stats, LengthBuckets) {
	s := Stats{
		TotalQuestions:      len(records),
		MonthlyDistribution: make(map[string]int),
	}
	var buckets LengthBuckets
	for _, rec := range records {
		s.MonthlyDistribution[rec.Month]++
		switch {
		case rec.OriginalLength <= shortMax:
			buckets.Short++
		case rec.OriginalLength <= mediumMax:
			buckets.Medium++
		default:
			buckets.Long++
		}
	}
	s.ActiveMonths = len(s.MonthlyDistribution)
	return s, buckets
}

// ExtractKeywords builds global top-unigram and top-bigram tables from
// stopword-filtered tokens. The sort is stable and ties keep
// first-encountered order, so output is deterministic for a given input
// ordering.
func ExtractKeywords(texts []string, tok *tokenize.Tokenizer, topUnigrams, topBigrams int) ([]KeywordItem, []KeywordItem) {
	uniCounts := make(map[string]int)
	biCounts := make(map[string]int)
	var uniOrder, biOrder []string

	for _, text := range texts {
		tokens := tok.WithoutStopwords(text)
		for _, t := range tokens {
			if _, seen := uniCounts[t]; !seen {
				uniOrder = append(uniOrder, t)
			}
			uniCounts[t]++
		}
		for _, b := range tokenize.Bigrams(tokens) {
			if _, seen := biCounts[b]; !seen {
				biOrder = append(biOrder, b)
			}
			biCounts[b]++
		}
	}

	return topN(uniOrder, uniCounts, topUnigrams), topN(biOrder, biCounts, topBigrams)
}

// topN ranks terms by descending count, capped at n.
func topN(order []string, counts map[string]int, n int) []KeywordItem {
	items := make([]KeywordItem, 0, len(order))
	for _, term := range order {
		items = append(items, KeywordItem{Term: term, Count: counts[term]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}
