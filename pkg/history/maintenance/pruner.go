// Package maintenance holds retention housekeeping for history stores.
package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/S2thend/cursor-history-mcp/pkg/history"
)

// DefaultRetention keeps roughly two years of history, enough for one
// annual summary plus the year in progress.
const DefaultRetention = 2 * 365 * 24 * time.Hour

// Pruner deletes sessions whose last activity predates the retention window.
type Pruner struct {
	Store     history.Store
	Retention time.Duration // non-positive means DefaultRetention
}

// Result summarizes a pruning run.
type Result struct {
	Scanned int
	Deleted int
	Errors  int
}

// Prune walks every session and removes the stale ones; messages are
// deleted with their session. Per-session failures are counted, not fatal.
func (p *Pruner) Prune(ctx context.Context, now time.Time) (Result, error) {
	var res Result
	if p.Store == nil {
		return res, errors.New("pruner: store required")
	}

	retention := p.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := now.Add(-retention)

	sessions, err := p.Store.ListSessions(ctx, history.ListOptions{})
	if err != nil {
		return res, err
	}

	for _, sess := range sessions {
		res.Scanned++
		if !sess.LastActivity.Before(cutoff) {
			continue
		}
		if err := p.Store.DeleteSession(ctx, sess.ID); err != nil {
			res.Errors++
			continue
		}
		res.Deleted++
	}
	return res, nil
}
