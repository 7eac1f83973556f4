package oplog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"mongoquery/backend"
)

// Collection logs every collection-level call before delegating it.
type Collection struct {
	coll backend.Collection
	db   string
	sink Sink
}

// NewCollection wraps a collection that was not obtained through Database.
func NewCollection(coll backend.Collection, dbName string, sink Sink) (*Collection, error) {
	if coll == nil {
		return nil, ErrNoCollection
	}
	if !callable(sink) {
		return nil, ErrNoSink
	}
	return &Collection{coll: coll, db: dbName, sink: sink}, nil
}

func (c *Collection) Unwrap() backend.Collection { return c.coll }

func (c *Collection) log(ctx context.Context, e Event, opts backend.Options) {
	if m := opts.Map(); len(m) > 0 {
		e["options"] = m
	}
	e["db"] = c.db
	e["collection"] = c.coll.Name()
	c.sink.Log(ctx, e)
}

func (c *Collection) Name() string { return c.coll.Name() }

func (c *Collection) Find(ctx context.Context, filter, projection bson.D, opts backend.Options) (backend.Cursor, error) {
	c.log(ctx, Event{opFind: true, "query": filter, "fields": projection}, opts)
	return c.coll.Find(ctx, filter, projection, opts)
}

func (c *Collection) FindAndUpdate(ctx context.Context, filter bson.D, update any, opts backend.Options) (bson.M, error) {
	c.log(ctx, Event{opFindAndUpdate: true, "query": filter, "newObj": update}, opts)
	return c.coll.FindAndUpdate(ctx, filter, update, opts)
}

func (c *Collection) FindAndRemove(ctx context.Context, filter bson.D, opts backend.Options) (bson.M, error) {
	c.log(ctx, Event{opFindAndRemove: true, "query": filter}, opts)
	return c.coll.FindAndRemove(ctx, filter, opts)
}

func (c *Collection) Insert(ctx context.Context, doc any, opts backend.Options) (backend.WriteResult, error) {
	c.log(ctx, Event{opInsert: true, "document": doc}, opts)
	return c.coll.Insert(ctx, doc, opts)
}

func (c *Collection) Update(ctx context.Context, filter bson.D, update any, opts backend.Options) (backend.WriteResult, error) {
	c.log(ctx, Event{opUpdate: true, "query": filter, "newObj": update}, opts)
	return c.coll.Update(ctx, filter, update, opts)
}

func (c *Collection) Remove(ctx context.Context, filter bson.D, opts backend.Options) (backend.WriteResult, error) {
	c.log(ctx, Event{opRemove: true, "query": filter}, opts)
	return c.coll.Remove(ctx, filter, opts)
}

func (c *Collection) Group(ctx context.Context, keys bson.D, initial bson.M, reduce string, filter bson.D, opts backend.Options) (bson.M, error) {
	c.log(ctx, Event{opGroup: true, "keys": keys, "initial": initial, "reduce": reduce, "query": filter}, opts)
	return c.coll.Group(ctx, keys, initial, reduce, filter, opts)
}

func (c *Collection) MapReduce(ctx context.Context, mapFn, reduceFn string, filter bson.D, opts backend.Options) (backend.MapReduceResult, error) {
	c.log(ctx, Event{opMapReduce: true, "map": mapFn, "reduce": reduceFn, "query": filter}, opts)
	return c.coll.MapReduce(ctx, mapFn, reduceFn, filter, opts)
}

func (c *Collection) Distinct(ctx context.Context, field string, filter bson.D, opts backend.Options) ([]any, error) {
	c.log(ctx, Event{opDistinct: true, "field": field, "query": filter}, opts)
	return c.coll.Distinct(ctx, field, filter, opts)
}

func (c *Collection) Near(ctx context.Context, point []float64, filter bson.D, opts backend.Options) (backend.Iterator, error) {
	c.log(ctx, Event{opNear: true, "point": point, "query": filter}, opts)
	return c.coll.Near(ctx, point, filter, opts)
}

var _ backend.Collection = (*Collection)(nil)
