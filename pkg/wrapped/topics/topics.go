package topics

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/sanitize"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/tokenize"
)

// Degradation thresholds: below MinRecordsForTopics records no topics are
// extracted at all, and clusters whose share of the year's volume falls
// under MinTopicShare are dropped.
const (
	MinRecordsForTopics = 50
	MinTopicShare       = 0.02
)

// Trend is a topic's question volume split across the three year periods.
// Components sum to ~1 for topics with member questions, else all zero.
type Trend struct {
	Early float64 `json:"early"`
	Mid   float64 `json:"mid"`
	Late  float64 `json:"late"`
}

// Topic is the user-facing synthesis of one cluster.
type Topic struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Share    float64  `json:"share"`
	Keywords []string `json:"keywords"`
	Trend    Trend    `json:"trend"`
}

// Extract discovers up to k topics for the year. With fewer than
// MinRecordsForTopics qualifying records it returns an empty list
// immediately; the caller records that condition in user-facing notes.
// Surviving topics are sorted by descending share and renumbered 0..n-1.
func Extract(records []sanitize.Record, year int, tok *tokenize.Tokenizer, k int, rng *rand.Rand) []Topic {
	topics := []Topic{}

	yearTotal := 0
	for _, rec := range records {
		if rec.Timestamp.Year() == year {
			yearTotal++
		}
	}
	if yearTotal < MinRecordsForTopics {
		return topics
	}

	docs := AggregateByWeek(records, year)
	if len(docs) == 0 {
		return topics
	}
	if k > len(docs) {
		k = len(docs)
	}
	if k < 1 {
		k = 1
	}

	vectors, _ := Vectorize(docs, tok, DefaultMinDF, DefaultMaxDFRatio)
	clusters := KMeans(vectors, k, DefaultMaxIterations, rng)

	for _, cluster := range clusters {
		questions := 0
		var early, mid, late int
		for _, m := range cluster.Members {
			doc := docs[m]
			questions += doc.QuestionCount
			switch doc.Period {
			case PeriodEarly:
				early += doc.QuestionCount
			case PeriodMid:
				mid += doc.QuestionCount
			case PeriodLate:
				late += doc.QuestionCount
			}
		}

		share := float64(questions) / float64(yearTotal)
		if share < MinTopicShare {
			continue
		}

		var trend Trend
		if questions > 0 {
			trend = Trend{
				Early: float64(early) / float64(questions),
				Mid:   float64(mid) / float64(questions),
				Late:  float64(late) / float64(questions),
			}
		}

		topics = append(topics, Topic{
			Name:     topicName(cluster.TopTerms),
			Share:    share,
			Keywords: cluster.TopTerms,
			Trend:    trend,
		})
	}

	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Share > topics[j].Share })
	for i := range topics {
		topics[i].ID = i
	}
	return topics
}

// topicName renders a display name from the cluster's strongest terms: the
// capitalized primary term, joined with the second by " & " when present.
// Hyphens read as spaces.
func topicName(terms []string) string {
	if len(terms) == 0 {
		return "General"
	}
	name := capitalize(strings.ReplaceAll(terms[0], "-", " "))
	if len(terms) > 1 {
		name += " & " + strings.ReplaceAll(terms[1], "-", " ")
	}
	return name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
