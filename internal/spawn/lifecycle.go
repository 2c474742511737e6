package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Lifecycle removes spawns past their expiry.
type Lifecycle struct {
	reaper SpawnReaper
}

// NewLifecycle creates a lifecycle manager over reaper.
func NewLifecycle(reaper SpawnReaper) *Lifecycle {
	return &Lifecycle{reaper: reaper}
}

// ExpireNow deletes every spawn with expires_at < now and returns how many
// were removed. Calling it again with the same or a later now is safe.
func (l *Lifecycle) ExpireNow(ctx context.Context, now time.Time) (int64, error) {
	n, err := l.reaper.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("deleting spawns expired before %s: %w", now.Format(time.RFC3339), err)
	}
	if n > 0 {
		slog.Debug("expired spawns removed", "count", n, "now", now.Format(time.RFC3339))
	}
	return n, nil
}
