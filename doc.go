// Package rsmq implements the protocol layer of a Redis Simple Message
// Queue (RSMQ) client: durable, at-least-once, visibility-timeout queues
// on top of a shared Redis keyspace, wire-compatible with other RSMQ
// implementations.
//
// A handle is constructed over a caller-supplied redis.UniversalClient —
// this package owns no connection pool, TLS configuration, or retry
// policy beyond the one NOSCRIPT reload each script call is allowed:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	q := rsmq.NewRsmq(client, rsmq.WithNamespace("rsmq:"))
//
//	if err := q.CreateQueue(ctx, "jobs", rsmq.CreateQueueParams{}); err != nil {
//	    // rsmq.IsQueueExists(err) is safe to ignore for idempotent setup
//	}
//
//	id, err := q.SendMessageBytes(ctx, "jobs", []byte("hello"), nil)
//
//	msg, err := q.ReceiveMessageBytes(ctx, "jobs", nil)
//	if msg != nil {
//	    _, err = q.DeleteMessage(ctx, "jobs", msg.ID)
//	}
//
// Callers who want a typed payload rather than raw bytes use the generic
// ReceiveMessage/PopMessage/SendMessage functions with a Decoder/Encoder.
package rsmq
