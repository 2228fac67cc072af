// Package notify delivers operational reports from the snapshot refresh
// job to a chat channel.
package notify

import (
	"context"
	"time"
)

// RefreshReport summarizes one snapshot refresh cycle.
type RefreshReport struct {
	Refreshed int
	Failed    []string
	Duration  time.Duration

	// Stopped is set when the cycle ended early on the daily API limit.
	Stopped bool
}

// OK reports whether the cycle completed without failures.
func (r *RefreshReport) OK() bool {
	return len(r.Failed) == 0 && !r.Stopped
}

// Notifier delivers refresh reports.
type Notifier interface {
	SendRefreshReport(ctx context.Context, report *RefreshReport) error
}
