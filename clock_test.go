package rsmq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow_TracksServerTime(t *testing.T) {
	r := newTestRsmq(t)
	ctx := context.Background()

	ms, err := r.now(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), time.UnixMilli(ms), 5*time.Second)
}
