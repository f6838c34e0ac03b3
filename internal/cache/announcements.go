package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const announcementTTL = 48 * time.Hour

// ExpiryAnnouncements remembers which items were already announced as
// expiring on a given calendar day.
// Key format: expiry:announced:<evidence_id>:<YYYY-MM-DD>
type ExpiryAnnouncements struct {
	client *redis.Client
	loc    *time.Location
}

// NewExpiryAnnouncements wraps client. Days are cut in loc, UTC when nil.
func NewExpiryAnnouncements(client *redis.Client, loc *time.Location) *ExpiryAnnouncements {
	if loc == nil {
		loc = time.UTC
	}
	return &ExpiryAnnouncements{client: client, loc: loc}
}

// Claim reports whether the caller is the first to announce evidenceID on
// the day containing at.
func (a *ExpiryAnnouncements) Claim(ctx context.Context, evidenceID string, at time.Time) (bool, error) {
	ok, err := a.client.SetNX(ctx, a.key(evidenceID, at), "1", announcementTTL).Result()
	if err != nil {
		return false, fmt.Errorf("claim announcement: %w", err)
	}
	return ok, nil
}

func (a *ExpiryAnnouncements) key(evidenceID string, at time.Time) string {
	return fmt.Sprintf("expiry:announced:%s:%s", evidenceID, at.In(a.loc).Format("2006-01-02"))
}
