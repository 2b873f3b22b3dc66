package rsmq

// The three Lua scripts below are RSMQ's sole units of server-side
// atomicity. Each is wrapped in a *redis.Script at construction time;
// go-redis's Script.Run already performs
// EVALSHA-then-EVAL-on-NOSCRIPT-then-cache-SHA, the idiomatic go-redis
// way to cache the SHA and retry once on NOSCRIPT without hand-rolling
// it.

const (
	// receiveScriptBody implements S1: atomically claim the next visible
	// message and rehide it.
	//
	// Keys:
	//   KEYS[1] - queue message index (sorted set)
	//   KEYS[2] - queue hash (attributes + payloads)
	//
	// Args:
	//   ARGV[1] - now, in milliseconds
	//   ARGV[2] - new visible-at time for the received message, in milliseconds
	//
	// Returns:
	//   {} if no message is currently visible, else {id, payload, rc, fr}.
	// payload may be false (Lua nil) if the hash field was never written or
	// was already deleted by a racing delete_message — callers must treat
	// that as "message gone" rather than an error.
	receiveScriptBody = `
local indexKey = KEYS[1]
local hashKey = KEYS[2]
local now = tonumber(ARGV[1])
local newVisibleAt = ARGV[2]

local ids = redis.call('ZRANGEBYSCORE', indexKey, '-inf', now, 'LIMIT', 0, 1)
if #ids == 0 then
    return {}
end
local id = ids[1]

redis.call('ZADD', indexKey, newVisibleAt, id)

local rc = redis.call('HINCRBY', hashKey, id .. ':rc', 1)
local payload = redis.call('HGET', hashKey, id)

local fr
if rc == 1 then
    fr = now
    redis.call('HSET', hashKey, id .. ':fr', fr)
else
    fr = redis.call('HGET', hashKey, id .. ':fr')
end

redis.call('HINCRBY', hashKey, 'totalrecv', 1)

return {id, payload, rc, fr}
`

	// changeVisibilityScriptBody implements S2: rescore an in-flight
	// message's visible-at time if it still exists.
	//
	// Keys:
	//   KEYS[1] - queue message index (sorted set)
	//
	// Args:
	//   ARGV[1] - message id
	//   ARGV[2] - new visible-at time, in milliseconds
	//
	// Returns:
	//   1 if the id was present and rescored, 0 if unknown.
	changeVisibilityScriptBody = `
local indexKey = KEYS[1]
local id = ARGV[1]
local newVisibleAt = ARGV[2]

if redis.call('ZSCORE', indexKey, id) then
    redis.call('ZADD', indexKey, newVisibleAt, id)
    return 1
end
return 0
`

	// popScriptBody implements S3: identical to receive through the
	// totalrecv increment, but removes every trace of the message instead
	// of rescoring it.
	//
	// Keys:
	//   KEYS[1] - queue message index (sorted set)
	//   KEYS[2] - queue hash (attributes + payloads)
	//
	// Args:
	//   ARGV[1] - now, in milliseconds
	//
	// Returns:
	//   {} if no message is currently visible, else {id, payload, rc, fr}.
	popScriptBody = `
local indexKey = KEYS[1]
local hashKey = KEYS[2]
local now = tonumber(ARGV[1])

local ids = redis.call('ZRANGEBYSCORE', indexKey, '-inf', now, 'LIMIT', 0, 1)
if #ids == 0 then
    return {}
end
local id = ids[1]

local rc = redis.call('HINCRBY', hashKey, id .. ':rc', 1)
local payload = redis.call('HGET', hashKey, id)

local fr
if rc == 1 then
    fr = now
    redis.call('HSET', hashKey, id .. ':fr', fr)
else
    fr = redis.call('HGET', hashKey, id .. ':fr')
end

redis.call('HINCRBY', hashKey, 'totalrecv', 1)

redis.call('ZREM', indexKey, id)
redis.call('HDEL', hashKey, id, id .. ':rc', id .. ':fr')

return {id, payload, rc, fr}
`
)
