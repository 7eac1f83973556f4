// Package query executes declarative operation descriptors against a
// backend collection.
//
// A Query starts unexecuted. The first read operation dispatches the
// descriptor to the matching backend call exactly once and caches the
// outcome; every later read reuses it. Execution options only take effect on
// that first execution.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mongoquery/backend"
)

// DefaultPrefix is the operator prefix used when none is configured.
const DefaultPrefix = "$"

// ExecOption adjusts the backend options of the first execution.
type ExecOption func(*backend.Options)

// WithMaxTime bounds the server-side run time of the backend call.
func WithMaxTime(d time.Duration) ExecOption {
	return func(o *backend.Options) { o.MaxTime = d }
}

// WithComment attaches comment to the backend call for profiling.
func WithComment(comment string) ExecOption {
	return func(o *backend.Options) { o.Comment = comment }
}

// WithBatchSize sets the cursor batch size of iterator results.
func WithBatchSize(n int32) ExecOption {
	return func(o *backend.Options) { o.BatchSize = n }
}

// Query pairs a Descriptor with the collection it runs against and caches
// the outcome of its single execution. It is safe for concurrent use.
type Query struct {
	db     backend.Database
	coll   backend.Collection
	desc   Descriptor
	prefix string

	mu       sync.Mutex
	executed bool
	result   *Result
	err      error
}

// New returns an unexecuted Query. db may be nil; prefix defaults to
// DefaultPrefix.
func New(db backend.Database, coll backend.Collection, d Descriptor, prefix string) (*Query, error) {
	if d == nil || d.isNil() {
		return nil, fmt.Errorf("%w: nil descriptor", ErrUnknownOperation)
	}
	if coll == nil {
		return nil, ErrNoCollection
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Query{db: db, coll: coll, desc: d, prefix: prefix}, nil
}

func (q *Query) Type() Type                     { return q.desc.Type() }
func (q *Query) Descriptor() Descriptor         { return q.desc }
func (q *Query) Database() backend.Database     { return q.db }
func (q *Query) Collection() backend.Collection { return q.coll }
func (q *Query) Prefix() string                 { return q.prefix }

// Executed reports whether the descriptor has been dispatched.
func (q *Query) Executed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.executed
}

// Execute dispatches the descriptor on first call and returns the cached
// outcome afterwards. A failed execution is cached as well.
func (q *Query) Execute(ctx context.Context, opts ...ExecOption) (*Result, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.executed {
		return q.result, q.err
	}

	var base backend.Options
	for _, opt := range opts {
		opt(&base)
	}
	q.result, q.err = q.execute(ctx, base)
	q.executed = true
	return q.result, q.err
}

// Iterator returns the cached iterator. An operation that produced nothing
// yields an empty iterator; a scalar result yields ErrNotIterable.
func (q *Query) Iterator(ctx context.Context, opts ...ExecOption) (backend.Iterator, error) {
	res, err := q.Execute(ctx, opts...)
	if err != nil {
		return nil, err
	}
	switch res.Kind() {
	case IteratorResult:
		return res.Iterator(), nil
	case NoResult:
		return backend.NewSliceIterator(nil), nil
	default:
		return nil, fmt.Errorf("%w: %s returned a %s result", ErrNotIterable, q.Type(), res.Kind())
	}
}
