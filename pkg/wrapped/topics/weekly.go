package topics

import (
	"sort"
	"strings"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped/sanitize"
)

// Year periods, derived solely from the ISO week number. The raw 17/35
// thresholds approximate Jan-Apr / May-Aug / Sep-Dec and are kept as-is
// for comparability across years.
const (
	PeriodEarly = "early"
	PeriodMid   = "mid"
	PeriodLate  = "late"
)

// WeekDocument concatenates one ISO week's sanitized contents into a single
// pseudo-document for topic discovery.
type WeekDocument struct {
	Week          int
	Year          int
	Period        string
	Content       string
	QuestionCount int
}

// AggregateByWeek groups the year's records by ISO week. Weeks with no
// records produce no document; results are sorted ascending by week number.
func AggregateByWeek(records []sanitize.Record, year int) []WeekDocument {
	type group struct {
		parts []string
		count int
	}
	byWeek := make(map[int]*group)

	for _, rec := range records {
		if rec.Timestamp.Year() != year {
			continue
		}
		g, ok := byWeek[rec.Week]
		if !ok {
			g = &group{}
			byWeek[rec.Week] = g
		}
		if rec.Content != "" {
			g.parts = append(g.parts, rec.Content)
		}
		g.count++
	}

	docs := make([]WeekDocument, 0, len(byWeek))
	for week, g := range byWeek {
		docs = append(docs, WeekDocument{
			Week:          week,
			Year:          year,
			Period:        weekPeriod(week),
			Content:       strings.Join(g.parts, " "),
			QuestionCount: g.count,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Week < docs[j].Week })
	return docs
}

func weekPeriod(week int) string {
	switch {
	case week <= 17:
		return PeriodEarly
	case week <= 35:
		return PeriodMid
	default:
		return PeriodLate
	}
}
