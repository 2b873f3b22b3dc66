package rsmq

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is a message returned by ReceiveMessageBytes or PopMessageBytes.
type Message struct {
	ID      string
	Message []byte
	RC      int64
	FR      int64
	Sent    time.Time
}

// SendMessageBytes enqueues payload onto qname, returning the new
// message's 32-character id. delay overrides the queue's default delay
// when non-nil.
func (r *Rsmq) SendMessageBytes(ctx context.Context, qname string, payload []byte, delay *int64) (string, error) {
	const op = "send_message"
	if err := validateQname(op, qname); err != nil {
		return "", err
	}

	hashKey := r.keys.queueHashKey(qname)
	pipe := r.client.Pipeline()
	vtCmd := pipe.HMGet(ctx, hashKey, "vt", "delay", "maxsize")
	timeCmd := pipe.Time(ctx)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return "", newRedisError(op, err)
	}

	vals, err := vtCmd.Result()
	if err != nil {
		return "", newRedisError(op, err)
	}
	if vals[0] == nil || vals[1] == nil || vals[2] == nil {
		return "", newError(op, KindQueueNotFound, fmt.Errorf("queue %q not found", qname))
	}

	queueDelay, err := parseInt64(vals[1])
	if err != nil {
		return "", newRedisError(op, err)
	}
	maxsize, err := parseInt64(vals[2])
	if err != nil {
		return "", newRedisError(op, err)
	}

	d := queueDelay
	if delay != nil {
		d = *delay
	}
	if err := validateDelay(op, d); err != nil {
		return "", err
	}

	if maxsize != maxsizeUnlimited && int64(len(payload)) > maxsize {
		return "", newError(op, KindMessageTooLong,
			fmt.Errorf("payload of %d bytes exceeds maxsize %d", len(payload), maxsize))
	}

	nowMs := timeCmd.Val().UnixMilli()
	visibleAt := nowMs + d*1000

	id, err := r.nextMessageID(ctx, qname, nowMs)
	if err != nil {
		return "", err
	}

	indexKey := r.keys.queueIndexKey(qname)
	sendPipe := r.client.Pipeline()
	sendPipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(visibleAt), Member: id})
	sendPipe.HSet(ctx, hashKey, id, payload)
	sendPipe.HIncrBy(ctx, hashKey, "totalsent", 1)
	var cardCmd *redis.IntCmd
	if r.realtime {
		cardCmd = sendPipe.ZCard(ctx, indexKey)
	}
	if _, err := sendPipe.Exec(ctx); err != nil {
		return "", newRedisError(op, err)
	}

	if r.realtime && cardCmd != nil {
		if err := r.client.Publish(ctx, r.keys.realtimeChannel(qname), cardCmd.Val()).Err(); err != nil {
			r.logger.Warn("rsmq: realtime publish failed", "qname", qname, "error", err)
		}
	}

	return id, nil
}

// ReceiveMessageBytes makes one currently-visible message on qname hidden
// for secondsHidden seconds (or the queue's default vt when nil) and
// returns it, or (nil, nil) if no message is currently visible.
func (r *Rsmq) ReceiveMessageBytes(ctx context.Context, qname string, secondsHidden *int64) (*Message, error) {
	const op = "receive_message"
	if err := validateQname(op, qname); err != nil {
		return nil, err
	}

	hashKey := r.keys.queueHashKey(qname)
	pipe := r.client.Pipeline()
	vtCmd := pipe.HGet(ctx, hashKey, "vt")
	timeCmd := pipe.Time(ctx)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, newRedisError(op, err)
	}

	queueVt, err := vtCmd.Result()
	if err == redis.Nil {
		return nil, newError(op, KindQueueNotFound, fmt.Errorf("queue %q not found", qname))
	} else if err != nil {
		return nil, newRedisError(op, err)
	}

	h := mustParseInt64(queueVt)
	if secondsHidden != nil {
		h = *secondsHidden
	}
	if err := validateSecondsHidden(op, h); err != nil {
		return nil, err
	}

	nowMs := timeCmd.Val().UnixMilli()
	newVisibleAt := nowMs + h*1000

	res, err := r.receiveScript.Run(ctx, r.client,
		[]string{r.keys.queueIndexKey(qname), hashKey}, nowMs, newVisibleAt).Result()
	if err != nil {
		return nil, newRedisError(op, err)
	}

	return decodeScriptMessage(op, res)
}

// PopMessageBytes is ReceiveMessageBytes immediately followed by
// DeleteMessage, performed atomically server-side. secondsHidden does not
// apply since the message never becomes visible to anyone else.
func (r *Rsmq) PopMessageBytes(ctx context.Context, qname string) (*Message, error) {
	const op = "pop_message"
	if err := validateQname(op, qname); err != nil {
		return nil, err
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

	res, err := r.popScript.Run(ctx, r.client,
		[]string{r.keys.queueIndexKey(qname), hashKey}, nowMs).Result()
	if err != nil {
		return nil, newRedisError(op, err)
	}

	return decodeScriptMessage(op, res)
}

// ChangeMessageVisibility rehides a message for secondsHidden seconds from
// now, even if it is currently visible.
func (r *Rsmq) ChangeMessageVisibility(ctx context.Context, qname, id string, secondsHidden int64) error {
	const op = "change_message_visibility"
	if err := validateQname(op, qname); err != nil {
		return err
	}
	if err := validateMessageID(op, id); err != nil {
		return err
	}
	if err := validateSecondsHidden(op, secondsHidden); err != nil {
		return err
	}

	nowMs, err := r.now(ctx)
	if err != nil {
		return err
	}
	newVisibleAt := nowMs + secondsHidden*1000

	res, err := r.changeVisScript.Run(ctx, r.client,
		[]string{r.keys.queueIndexKey(qname)}, id, newVisibleAt).Result()
	if err != nil {
		return newRedisError(op, err)
	}

	changed, err := parseInt64(res)
	if err != nil {
		return newRedisError(op, err)
	}
	if changed == 0 {
		return newError(op, KindMessageNotFound, fmt.Errorf("message %q not found in queue %q", id, qname))
	}
	return nil
}

// DeleteMessage removes id from qname. It reports false (never an error)
// if id was already gone, matching RSMQ's idempotent delete semantics.
func (r *Rsmq) DeleteMessage(ctx context.Context, qname, id string) (bool, error) {
	const op = "delete_message"
	if err := validateQname(op, qname); err != nil {
		return false, err
	}
	if err := validateMessageID(op, id); err != nil {
		return false, err
	}

	indexKey := r.keys.queueIndexKey(qname)
	hashKey := r.keys.queueHashKey(qname)

	pipe := r.client.Pipeline()
	zremCmd := pipe.ZRem(ctx, indexKey, id)
	hdelCmd := pipe.HDel(ctx, hashKey, id, rcField(id), frField(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, newRedisError(op, err)
	}

	return zremCmd.Val() == 1 && hdelCmd.Val() >= 1, nil
}

// decodeScriptMessage parses the {id, payload, rc, fr} reply shared by S1
// and S3 into a Message, or returns (nil, nil) for an empty reply.
func decodeScriptMessage(op string, res interface{}) (*Message, error) {
	items, ok := res.([]interface{})
	if !ok {
		return nil, newRedisError(op, fmt.Errorf("unexpected script reply type %T", res))
	}
	if len(items) == 0 {
		return nil, nil
	}
	if len(items) != 4 {
		return nil, newRedisError(op, fmt.Errorf("unexpected script reply length %d", len(items)))
	}

	id, ok := items[0].(string)
	if !ok {
		return nil, newRedisError(op, fmt.Errorf("unexpected id reply type %T", items[0]))
	}

	// A nil payload means the hash field was never written or was already
	// deleted by a racing delete_message racing send's non-atomic writes.
	// Treat it as "message gone" rather than surfacing a decode error.
	if items[1] == nil {
		return nil, nil
	}
	payload, err := toBytes(items[1])
	if err != nil {
		return nil, newRedisError(op, fmt.Errorf("unexpected payload reply type %T", items[1]))
	}

	rc, err := parseInt64(items[2])
	if err != nil {
		return nil, newRedisError(op, err)
	}
	fr, err := parseInt64(items[3])
	if err != nil {
		return nil, newRedisError(op, err)
	}

	sentMs, _ := parseIDTimestamp(id)

	return &Message{
		ID:      id,
		Message: payload,
		RC:      rc,
		FR:      fr,
		Sent:    time.UnixMilli(sentMs),
	}, nil
}

func toBytes(v interface{}) ([]byte, error) {
	switch t := v.(type) {
	case string:
		return []byte(t), nil
	case []byte:
		return t, nil
	default:
		return nil, fmt.Errorf("not a string: %T", v)
	}
}

func parseInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	case []byte:
		return strconv.ParseInt(string(t), 10, 64)
	case nil:
		return 0, fmt.Errorf("nil value")
	default:
		return 0, fmt.Errorf("unexpected numeric reply type %T", v)
	}
}

func mustParseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
