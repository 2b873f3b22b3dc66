package rsmq

import (
	"context"
	"time"
)

// now returns the authoritative current time as milliseconds since the
// Unix epoch, sourced from Redis's TIME command. The client never trusts
// its own clock: seconds_hidden/delay windows are computed against this
// value so that skewed client clocks can't desynchronize visibility.
func (r *Rsmq) now(ctx context.Context) (int64, error) {
	t, err := r.client.Time(ctx).Result()
	if err != nil {
		return 0, newRedisError("time", err)
	}
	return t.UnixMilli(), nil
}
