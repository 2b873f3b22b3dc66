package rsmq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRsmq_DefaultsToStandardNamespace(t *testing.T) {
	r := newTestRsmq(t)
	assert.Equal(t, DefaultNamespace, r.keys.ns)
	assert.False(t, r.realtime)
}

func TestWithNamespace(t *testing.T) {
	r := newTestRsmq(t, WithNamespace("custom:"))
	assert.Equal(t, "custom:", r.keys.ns)
}

func TestWithRealtime(t *testing.T) {
	r := newTestRsmq(t, WithRealtime(true))
	assert.True(t, r.realtime)
}

func TestClone_SharesClientAndSettings(t *testing.T) {
	r := newTestRsmq(t, WithNamespace("custom:"), WithRealtime(true))
	clone := r.Clone()

	assert.Equal(t, r.keys, clone.keys)
	assert.Equal(t, r.realtime, clone.realtime)

	ctx := context.Background()
	require.NoError(t, clone.CreateQueue(ctx, "jobs", CreateQueueParams{}))

	// The original handle sees the queue created through the clone, since
	// both share the same underlying Redis client.
	_, err := r.GetQueueAttributes(ctx, "jobs")
	require.NoError(t, err)
}
