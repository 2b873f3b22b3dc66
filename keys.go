package rsmq

import "fmt"

// DefaultNamespace is the key prefix used when a handle is constructed
// without WithNamespace.
const DefaultNamespace = "rsmq:"

// keySchema derives the Redis key names for a given namespace. Every
// operation in this package goes through these helpers; no key is ever
// constructed inline elsewhere.
type keySchema struct {
	ns string
}

// queueSetKey is the set of all known queue names in this namespace.
func (k keySchema) queueSetKey() string {
	return k.ns + "QUEUES"
}

// queueHashKey is the hash holding queue attributes and message payloads
// for qname.
func (k keySchema) queueHashKey(qname string) string {
	return k.ns + qname + ":Q"
}

// queueIndexKey is the sorted set of in-flight message ids for qname,
// scored by their visible-at time in milliseconds.
func (k keySchema) queueIndexKey(qname string) string {
	return k.ns + qname
}

// realtimeChannel is the pub/sub channel carrying post-send message counts.
func (k keySchema) realtimeChannel(qname string) string {
	return k.ns + "rt:" + qname
}

func rcField(id string) string { return fmt.Sprintf("%s:rc", id) }
func frField(id string) string { return fmt.Sprintf("%s:fr", id) }
