// Package oplog records the operations issued against a backend database.
//
// Database and Collection wrap the backend contracts and emit one Event per
// public call, before the call is delegated. Every event carries the
// database name under "db".
package oplog

import (
	"context"
	"errors"
)

var (
	ErrNoSink       = errors.New("oplog: sink is required")
	ErrNoDatabase   = errors.New("oplog: database is required")
	ErrNoCollection = errors.New("oplog: collection is required")
)

// Event is one structured log entry. The operation is the key mapped to true,
// e.g. {"find": true, "query": ..., "db": "app"}.
type Event map[string]any

// Operation returns the name of the operation the event describes.
func (e Event) Operation() string {
	for _, op := range operations {
		if v, ok := e[op].(bool); ok && v {
			return op
		}
	}
	return ""
}

func (e Event) Database() string {
	s, _ := e["db"].(string)
	return s
}

func (e Event) Collection() string {
	s, _ := e["collection"].(string)
	return s
}

// Sink receives events synchronously.
type Sink interface {
	Log(ctx context.Context, e Event)
}

type SinkFunc func(ctx context.Context, e Event)

func (f SinkFunc) Log(ctx context.Context, e Event) { f(ctx, e) }

// callable reports whether s can receive events. A nil SinkFunc cannot.
func callable(s Sink) bool {
	if s == nil {
		return false
	}
	if f, ok := s.(SinkFunc); ok && f == nil {
		return false
	}
	return true
}

type multiSink []Sink

func (m multiSink) Log(ctx context.Context, e Event) {
	for _, s := range m {
		s.Log(ctx, e)
	}
}

// Multi fans every event out to each callable sink in order.
func Multi(sinks ...Sink) Sink {
	var out multiSink
	for _, s := range sinks {
		if callable(s) {
			out = append(out, s)
		}
	}
	return out
}

const (
	opSelectCollection  = "selectCollection"
	opCommand           = "command"
	opCreateCollection  = "createCollection"
	opDropCollection    = "dropCollection"
	opListCollections   = "listCollections"
	opDrop              = "drop"
	opProfilingLevel    = "getProfilingLevel"
	opSetProfilingLevel = "setProfilingLevel"

	opFind          = "find"
	opFindAndUpdate = "findAndUpdate"
	opFindAndRemove = "findAndRemove"
	opInsert        = "insert"
	opUpdate        = "update"
	opRemove        = "remove"
	opGroup         = "group"
	opMapReduce     = "mapReduce"
	opDistinct      = "distinct"
	opNear          = "near"
)

var operations = []string{
	opSelectCollection, opCommand, opCreateCollection, opDropCollection,
	opListCollections, opDrop, opProfilingLevel, opSetProfilingLevel,
	opFind, opFindAndUpdate, opFindAndRemove, opInsert, opUpdate, opRemove,
	opGroup, opMapReduce, opDistinct, opNear,
}
