// Package backend defines the collection and database capabilities the query
// dispatcher consumes, and implements them on top of the official MongoDB driver.
package backend

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Iterator is a restartable, lazily-evaluated sequence of documents.
//
// Rewind (re)starts the sequence and positions it on the first document.
// Next advances; on an unstarted iterator it starts the sequence first.
type Iterator interface {
	Rewind(ctx context.Context) error
	Valid() bool
	Current() bson.M
	Key() any
	Next(ctx context.Context) error

	// Count returns the number of matching documents. When foundOnly is true
	// the limit and skip applied to the iterator are taken into account.
	Count(ctx context.Context, foundOnly bool) (int64, error)
	First(ctx context.Context) (bson.M, error)
	Last(ctx context.Context) (bson.M, error)
	ToArray(ctx context.Context) ([]bson.M, error)
	// SingleResult returns the first document, or nil when there is none.
	SingleResult(ctx context.Context) (bson.M, error)

	Err() error
	Close(ctx context.Context) error
}

// Cursor is an Iterator that can still be shaped before iteration begins.
// Shaping calls made after iteration started apply on the next Rewind.
type Cursor interface {
	Iterator

	Limit(n int64) Cursor
	Skip(n int64) Cursor
	Sort(spec bson.D) Cursor
	Immortal(v bool) Cursor
	SlaveOkay(v bool) Cursor
	Snapshot() Cursor
	Hint(keyPattern bson.D) Cursor
}

// WriteResult summarizes an insert, update or remove.
type WriteResult struct {
	InsertedID    any
	MatchedCount  int64
	ModifiedCount int64
	UpsertedCount int64
	UpsertedID    any
	DeletedCount  int64
}

// MapReduceResult holds exactly one of Cursor (output collection) or
// Document (inline reply).
type MapReduceResult struct {
	Cursor   Cursor
	Document bson.M
}

// Collection is the capability set of a single collection.
type Collection interface {
	Name() string

	Find(ctx context.Context, filter, projection bson.D, opts Options) (Cursor, error)
	// FindAndUpdate and FindAndRemove return a nil document when nothing matched.
	FindAndUpdate(ctx context.Context, filter bson.D, update any, opts Options) (bson.M, error)
	FindAndRemove(ctx context.Context, filter bson.D, opts Options) (bson.M, error)
	Insert(ctx context.Context, doc any, opts Options) (WriteResult, error)
	Update(ctx context.Context, filter bson.D, update any, opts Options) (WriteResult, error)
	Remove(ctx context.Context, filter bson.D, opts Options) (WriteResult, error)
	Group(ctx context.Context, keys bson.D, initial bson.M, reduce string, filter bson.D, opts Options) (bson.M, error)
	MapReduce(ctx context.Context, mapFn, reduceFn string, filter bson.D, opts Options) (MapReduceResult, error)
	Distinct(ctx context.Context, field string, filter bson.D, opts Options) ([]any, error)
	Near(ctx context.Context, point []float64, filter bson.D, opts Options) (Iterator, error)
}

// Database is the capability set of a database.
type Database interface {
	Name() string
	Collection(name string) Collection

	Command(ctx context.Context, cmd bson.D) (bson.M, error)
	CreateCollection(ctx context.Context, name string) error
	DropCollection(ctx context.Context, name string) error
	ListCollections(ctx context.Context) ([]string, error)
	Drop(ctx context.Context) error
	ProfilingLevel(ctx context.Context) (int, error)
	SetProfilingLevel(ctx context.Context, level int) (int, error)
}
