package rsmq

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// newTestRsmq spins up an in-memory Redis (miniredis, which evaluates Lua
// scripts like a real server) and returns a handle over it.
func newTestRsmq(t *testing.T, opts ...Option) *Rsmq {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return NewRsmq(client, opts...)
}

// randomQueueName gives parallel subtests non-colliding queue names without
// coupling them to the 32-character message-id format.
func randomQueueName(t *testing.T, prefix string) string {
	t.Helper()
	return prefix + "-" + uuid.NewString()
}
