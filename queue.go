package rsmq

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// QueueAttributes describes a queue's configuration and live counters.
type QueueAttributes struct {
	Vt         int64
	Delay      int64
	Maxsize    int64
	TotalRecv  int64
	TotalSent  int64
	Created    int64
	Modified   int64
	Msgs       int64
	HiddenMsgs int64
}

// CreateQueueParams are the optional overrides accepted by CreateQueue.
// A nil field takes its documented default.
type CreateQueueParams struct {
	Vt      *int64
	Delay   *int64
	Maxsize *int64
}

// CreateQueue creates qname with the given attribute overrides (or their
// defaults), failing with ErrQueueExists if the queue hash already holds
// a vt field. The existence check and the writes run inside a WATCH/MULTI/EXEC
// transaction so a racing CreateQueue on the same name can't both succeed.
func (r *Rsmq) CreateQueue(ctx context.Context, qname string, params CreateQueueParams) error {
	const op = "create_queue"
	if err := validateQname(op, qname); err != nil {
		return err
	}

	vt := int64(defaultVt)
	if params.Vt != nil {
		vt = *params.Vt
	}
	if err := validateVt(op, vt); err != nil {
		return err
	}

	delay := int64(defaultDelay)
	if params.Delay != nil {
		delay = *params.Delay
	}
	if err := validateDelay(op, delay); err != nil {
		return err
	}

	maxsize := int64(defaultMaxsize)
	if params.Maxsize != nil {
		maxsize = *params.Maxsize
	}
	if err := validateMaxsize(op, maxsize); err != nil {
		return err
	}

	hashKey := r.keys.queueHashKey(qname)

	nowMs, err := r.now(ctx)
	if err != nil {
		return err
	}
	nowSec := nowMs / 1000

	txf := func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, hashKey, "vt").Result()
		if err != nil {
			return err
		}
		if exists {
			return ErrQueueExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSetNX(ctx, hashKey, "vt", vt)
			pipe.HSetNX(ctx, hashKey, "delay", delay)
			pipe.HSetNX(ctx, hashKey, "maxsize", maxsize)
			pipe.HSetNX(ctx, hashKey, "created", nowSec)
			pipe.HSetNX(ctx, hashKey, "modified", nowSec)
			pipe.SAdd(ctx, r.keys.queueSetKey(), qname)
			return nil
		})
		return err
	}

	if err := r.client.Watch(ctx, txf, hashKey); err != nil {
		if err == ErrQueueExists {
			return newError(op, KindQueueExists, fmt.Errorf("queue %q already exists", qname))
		}
		return newRedisError(op, err)
	}

	return nil
}

// DeleteQueue removes qname's hash, message index and queue-set membership
// in one transaction, failing with ErrQueueNotFound if it did not exist.
func (r *Rsmq) DeleteQueue(ctx context.Context, qname string) error {
	const op = "delete_queue"
	if err := validateQname(op, qname); err != nil {
		return err
	}

	hashKey := r.keys.queueHashKey(qname)
	indexKey := r.keys.queueIndexKey(qname)

	pipe := r.client.TxPipeline()
	delCmd := pipe.Del(ctx, hashKey)
	pipe.Del(ctx, indexKey)
	pipe.SRem(ctx, r.keys.queueSetKey(), qname)
	if _, err := pipe.Exec(ctx); err != nil {
		return newRedisError(op, err)
	}

	if delCmd.Val() == 0 {
		return newError(op, KindQueueNotFound, fmt.Errorf("queue %q not found", qname))
	}
	return nil
}

// ListQueues returns every queue name known in this namespace; callers
// must not rely on any particular ordering.
func (r *Rsmq) ListQueues(ctx context.Context) ([]string, error) {
	const op = "list_queues"
	names, err := r.client.SMembers(ctx, r.keys.queueSetKey()).Result()
	if err != nil {
		return nil, newRedisError(op, err)
	}
	return names, nil
}

// GetQueueAttributes returns qname's configuration and live counters,
// failing with ErrQueueNotFound if the queue does not exist.
func (r *Rsmq) GetQueueAttributes(ctx context.Context, qname string) (*QueueAttributes, error) {
	const op = "get_queue_attributes"
	if err := validateQname(op, qname); err != nil {
		return nil, err
	}

	hashKey := r.keys.queueHashKey(qname)
	indexKey := r.keys.queueIndexKey(qname)

	pipe := r.client.Pipeline()
	existsCmd := pipe.Exists(ctx, hashKey)
	hgetCmd := pipe.HMGet(ctx, hashKey, "vt", "delay", "maxsize", "totalrecv", "totalsent", "created", "modified")
	cardCmd := pipe.ZCard(ctx, indexKey)
	timeCmd := pipe.Time(ctx)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, newRedisError(op, err)
	}

	if existsCmd.Val() == 0 {
		return nil, newError(op, KindQueueNotFound, fmt.Errorf("queue %q not found", qname))
	}

	vals := hgetCmd.Val()
	for i, v := range vals {
		// totalrecv (3) and totalsent (4) are absent until the first
		// receive/send; they read as 0.
		if v == nil && i != 3 && i != 4 {
			return nil, newError(op, KindQueueNotFound, fmt.Errorf("queue %q is missing required attributes", qname))
		}
	}

	nowMs := timeCmd.Val().UnixMilli()
	hiddenCmd := r.client.ZCount(ctx, indexKey, fmt.Sprintf("%d", nowMs), "+inf")
	hiddenCount, err := hiddenCmd.Result()
	if err != nil {
		return nil, newRedisError(op, err)
	}

	attrs := &QueueAttributes{
		Msgs:       cardCmd.Val(),
		HiddenMsgs: hiddenCount,
	}
	fields := []*int64{&attrs.Vt, &attrs.Delay, &attrs.Maxsize, &attrs.TotalRecv, &attrs.TotalSent, &attrs.Created, &attrs.Modified}
	for i, f := range fields {
		if vals[i] == nil {
			continue
		}
		n, err := parseInt64(vals[i])
		if err != nil {
			return nil, newRedisError(op, err)
		}
		*f = n
	}

	return attrs, nil
}

// SetQueueAttributesParams are the attributes set_queue_attributes may
// change; at least one must be non-nil.
type SetQueueAttributesParams struct {
	Vt      *int64
	Delay   *int64
	Maxsize *int64
}

// SetQueueAttributes updates the present fields of qname (plus modified),
// returning the refreshed attributes. It fails with ErrNoAttributeSupplied
// if all three fields are nil, or ErrQueueNotFound if qname does not
// exist.
func (r *Rsmq) SetQueueAttributes(ctx context.Context, qname string, params SetQueueAttributesParams) (*QueueAttributes, error) {
	const op = "set_queue_attributes"
	if err := validateQname(op, qname); err != nil {
		return nil, err
	}
	if params.Vt == nil && params.Delay == nil && params.Maxsize == nil {
		return nil, newError(op, KindNoAttributeSupplied, fmt.Errorf("no attribute supplied for queue %q", qname))
	}

	if params.Vt != nil {
		if err := validateVt(op, *params.Vt); err != nil {
			return nil, err
		}
	}
	if params.Delay != nil {
		if err := validateDelay(op, *params.Delay); err != nil {
			return nil, err
		}
	}
	if params.Maxsize != nil {
		if err := validateMaxsize(op, *params.Maxsize); err != nil {
			return nil, err
		}
	}

	hashKey := r.keys.queueHashKey(qname)
	exists, err := r.client.Exists(ctx, hashKey).Result()
	if err != nil {
		return nil, newRedisError(op, err)
	}
	if exists == 0 {
		return nil, newError(op, KindQueueNotFound, fmt.Errorf("queue %q not found", qname))
	}

	nowMs, err := r.now(ctx)
	if err != nil {
		return nil, err
	}

	fields := make([]interface{}, 0, 8)
	if params.Vt != nil {
		fields = append(fields, "vt", *params.Vt)
	}
	if params.Delay != nil {
		fields = append(fields, "delay", *params.Delay)
	}
	if params.Maxsize != nil {
		fields = append(fields, "maxsize", *params.Maxsize)
	}
	fields = append(fields, "modified", nowMs/1000)

	if err := r.client.HSet(ctx, hashKey, fields...).Err(); err != nil {
		return nil, newRedisError(op, err)
	}

	return r.GetQueueAttributes(ctx, qname)
}
