package rsmq

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Rsmq is a handle onto one RSMQ-compatible Redis keyspace. It holds no
// connection-pool state of its own: the supplied redis.UniversalClient
// owns the transport, so a handle may be freely cloned and used
// concurrently across goroutines.
type Rsmq struct {
	client   redis.UniversalClient
	keys     keySchema
	realtime bool
	logger   *slog.Logger

	receiveScript   *redis.Script
	changeVisScript *redis.Script
	popScript       *redis.Script
}

// Option configures a handle at construction time.
type Option func(*Rsmq)

// WithNamespace overrides the default "rsmq:" key prefix, letting multiple
// logical RSMQ instances share one Redis database.
func WithNamespace(ns string) Option {
	return func(r *Rsmq) { r.keys = keySchema{ns: ns} }
}

// WithRealtime enables the {ns}rt:{qname} PUBLISH notification after every
// successful send.
func WithRealtime(enabled bool) Option {
	return func(r *Rsmq) { r.realtime = enabled }
}

// WithLogger attaches a logger for diagnostic events. The only event logged
// is a failed realtime publish (at Warn); script cache misses are handled
// inside go-redis and are not logged. The logger is never consulted to
// suppress or alter a returned error.
func WithLogger(l *slog.Logger) Option {
	return func(r *Rsmq) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRsmq creates a handle over an existing Redis client. Connection
// concerns (host, port, db, password, pooling, TLS) are the caller's via
// client's own construction — out of scope for this package.
func NewRsmq(client redis.UniversalClient, opts ...Option) *Rsmq {
	r := &Rsmq{
		client: client,
		keys:   keySchema{ns: DefaultNamespace},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.receiveScript = redis.NewScript(receiveScriptBody)
	r.changeVisScript = redis.NewScript(changeVisibilityScriptBody)
	r.popScript = redis.NewScript(popScriptBody)

	return r
}

// Clone returns a new handle sharing the same underlying Redis client,
// namespace, realtime setting and logger. Clones are independently usable
// concurrently.
func (r *Rsmq) Clone() *Rsmq {
	clone := *r
	return &clone
}
