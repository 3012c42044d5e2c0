package history

import (
	"context"
	"fmt"

	"github.com/S2thend/cursor-history-mcp/pkg/wrapped"
)

// Collection limits.
const (
	// DefaultMaxRecords caps how many utterances one collection run pulls.
	DefaultMaxRecords = 50000

	defaultPageSize = 500
)

// Collector pages a year of user utterances out of a Store and adapts them
// to engine records.
type Collector struct {
	Store Store

	// MaxRecords overrides DefaultMaxRecords when positive.
	MaxRecords int

	// PageSize overrides the per-query page size when positive.
	PageSize int
}

// Cap returns the effective record limit for this collector.
func (c *Collector) Cap() int {
	if c.MaxRecords > 0 {
		return c.MaxRecords
	}
	return DefaultMaxRecords
}

// CollectYear returns the year's user utterances in store order, capped at
// Cap(). The second return reports whether the cap cut the year short.
func (c *Collector) CollectYear(ctx context.Context, year int, workspace string) ([]wrapped.RawRecord, bool, error) {
	max := c.Cap()
	page := c.PageSize
	if page <= 0 {
		page = defaultPageSize
	}

	var records []wrapped.RawRecord
	offset := 0
	for {
		limit := page
		if remaining := max - len(records); remaining < limit {
			// One past the cap, so truncation is observable.
			limit = remaining + 1
		}

		messages, err := c.Store.MessagesByYear(ctx, YearQuery{
			Year:      year,
			Workspace: workspace,
			Role:      RoleUser,
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			return nil, false, fmt.Errorf("collect year %d: %w", year, err)
		}

		for _, m := range messages {
			if len(records) == max {
				return records, true, nil
			}
			records = append(records, wrapped.RawRecord{Text: m.Text, Timestamp: m.CreatedAt})
		}

		if len(messages) < limit {
			return records, false, nil
		}
		offset += len(messages)
	}
}
