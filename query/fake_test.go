package query_test

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"mongoquery/backend"
)

type call struct {
	Name string
	Args []any
}

type fakeCursor struct {
	*backend.SliceIterator
	calls []call
}

func newFakeCursor(docs ...bson.M) *fakeCursor {
	return &fakeCursor{SliceIterator: backend.NewSliceIterator(docs)}
}

func (c *fakeCursor) record(name string, args ...any) backend.Cursor {
	c.calls = append(c.calls, call{Name: name, Args: args})
	return c
}

func (c *fakeCursor) Limit(n int64) backend.Cursor       { return c.record("limit", n) }
func (c *fakeCursor) Skip(n int64) backend.Cursor        { return c.record("skip", n) }
func (c *fakeCursor) Sort(spec bson.D) backend.Cursor    { return c.record("sort", spec) }
func (c *fakeCursor) Immortal(v bool) backend.Cursor     { return c.record("immortal", v) }
func (c *fakeCursor) SlaveOkay(v bool) backend.Cursor    { return c.record("slaveOkay", v) }
func (c *fakeCursor) Snapshot() backend.Cursor           { return c.record("snapshot") }
func (c *fakeCursor) Hint(pattern bson.D) backend.Cursor { return c.record("hint", pattern) }

func (c *fakeCursor) names() []string {
	out := make([]string, 0, len(c.calls))
	for _, cl := range c.calls {
		out = append(out, cl.Name)
	}
	return out
}

// fakeCollection records every backend call and returns canned results.
type fakeCollection struct {
	mu    sync.Mutex
	calls []call

	cursor    *fakeCursor
	document  bson.M
	write     backend.WriteResult
	mapReduce backend.MapReduceResult
	values    []any
	near      backend.Iterator
	err       error
}

func (c *fakeCollection) record(name string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call{Name: name, Args: args})
}

func (c *fakeCollection) Calls() []call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]call(nil), c.calls...)
}

func (c *fakeCollection) Name() string { return "users" }

func (c *fakeCollection) Find(ctx context.Context, filter, projection bson.D, opts backend.Options) (backend.Cursor, error) {
	c.record("find", filter, projection, opts)
	if c.err != nil {
		return nil, c.err
	}
	if c.cursor == nil {
		c.cursor = newFakeCursor()
	}
	return c.cursor, nil
}

func (c *fakeCollection) FindAndUpdate(ctx context.Context, filter bson.D, update any, opts backend.Options) (bson.M, error) {
	c.record("findAndUpdate", filter, update, opts)
	return c.document, c.err
}

func (c *fakeCollection) FindAndRemove(ctx context.Context, filter bson.D, opts backend.Options) (bson.M, error) {
	c.record("findAndRemove", filter, opts)
	return c.document, c.err
}

func (c *fakeCollection) Insert(ctx context.Context, doc any, opts backend.Options) (backend.WriteResult, error) {
	c.record("insert", doc, opts)
	return c.write, c.err
}

func (c *fakeCollection) Update(ctx context.Context, filter bson.D, update any, opts backend.Options) (backend.WriteResult, error) {
	c.record("update", filter, update, opts)
	return c.write, c.err
}

func (c *fakeCollection) Remove(ctx context.Context, filter bson.D, opts backend.Options) (backend.WriteResult, error) {
	c.record("remove", filter, opts)
	return c.write, c.err
}

func (c *fakeCollection) Group(ctx context.Context, keys bson.D, initial bson.M, reduce string, filter bson.D, opts backend.Options) (bson.M, error) {
	c.record("group", keys, initial, reduce, filter, opts)
	return c.document, c.err
}

func (c *fakeCollection) MapReduce(ctx context.Context, mapFn, reduceFn string, filter bson.D, opts backend.Options) (backend.MapReduceResult, error) {
	c.record("mapReduce", mapFn, reduceFn, filter, opts)
	return c.mapReduce, c.err
}

func (c *fakeCollection) Distinct(ctx context.Context, field string, filter bson.D, opts backend.Options) ([]any, error) {
	c.record("distinct", field, filter, opts)
	return c.values, c.err
}

func (c *fakeCollection) Near(ctx context.Context, point []float64, filter bson.D, opts backend.Options) (backend.Iterator, error) {
	c.record("near", point, filter, opts)
	return c.near, c.err
}

var (
	_ backend.Cursor     = (*fakeCursor)(nil)
	_ backend.Collection = (*fakeCollection)(nil)
)
