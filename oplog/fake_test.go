package oplog_test

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"mongoquery/backend"
	"mongoquery/oplog"
)

// trace records sink events and backend calls in the order they happen.
type trace struct {
	steps  []string
	events []oplog.Event
}

func (t *trace) sink() oplog.Sink {
	return oplog.SinkFunc(func(_ context.Context, e oplog.Event) {
		t.steps = append(t.steps, "log:"+e.Operation())
		t.events = append(t.events, e)
	})
}

func (t *trace) call(name string) { t.steps = append(t.steps, "call:"+name) }

type fakeDatabase struct {
	name string
	t    *trace
}

func (d *fakeDatabase) Name() string { return d.name }

func (d *fakeDatabase) Collection(name string) backend.Collection {
	d.t.call("collection")
	return &fakeCollection{name: name, t: d.t}
}

func (d *fakeDatabase) Command(context.Context, bson.D) (bson.M, error) {
	d.t.call("command")
	return bson.M{"ok": 1}, nil
}

func (d *fakeDatabase) CreateCollection(context.Context, string) error {
	d.t.call("createCollection")
	return nil
}

func (d *fakeDatabase) DropCollection(context.Context, string) error {
	d.t.call("dropCollection")
	return nil
}

func (d *fakeDatabase) ListCollections(context.Context) ([]string, error) {
	d.t.call("listCollections")
	return []string{"a", "b"}, nil
}

func (d *fakeDatabase) Drop(context.Context) error {
	d.t.call("drop")
	return nil
}

func (d *fakeDatabase) ProfilingLevel(context.Context) (int, error) {
	d.t.call("getProfilingLevel")
	return 1, nil
}

func (d *fakeDatabase) SetProfilingLevel(context.Context, int) (int, error) {
	d.t.call("setProfilingLevel")
	return 0, nil
}

type fakeCollection struct {
	name string
	t    *trace
}

func (c *fakeCollection) Name() string { return c.name }

func (c *fakeCollection) Find(context.Context, bson.D, bson.D, backend.Options) (backend.Cursor, error) {
	c.t.call("find")
	return nil, nil
}

func (c *fakeCollection) FindAndUpdate(context.Context, bson.D, any, backend.Options) (bson.M, error) {
	c.t.call("findAndUpdate")
	return bson.M{"_id": 1}, nil
}

func (c *fakeCollection) FindAndRemove(context.Context, bson.D, backend.Options) (bson.M, error) {
	c.t.call("findAndRemove")
	return nil, nil
}

func (c *fakeCollection) Insert(context.Context, any, backend.Options) (backend.WriteResult, error) {
	c.t.call("insert")
	return backend.WriteResult{InsertedID: 1}, nil
}

func (c *fakeCollection) Update(context.Context, bson.D, any, backend.Options) (backend.WriteResult, error) {
	c.t.call("update")
	return backend.WriteResult{MatchedCount: 1}, nil
}

func (c *fakeCollection) Remove(context.Context, bson.D, backend.Options) (backend.WriteResult, error) {
	c.t.call("remove")
	return backend.WriteResult{DeletedCount: 1}, nil
}

func (c *fakeCollection) Group(context.Context, bson.D, bson.M, string, bson.D, backend.Options) (bson.M, error) {
	c.t.call("group")
	return bson.M{"retval": bson.A{}}, nil
}

func (c *fakeCollection) MapReduce(context.Context, string, string, bson.D, backend.Options) (backend.MapReduceResult, error) {
	c.t.call("mapReduce")
	return backend.MapReduceResult{Document: bson.M{"results": bson.A{}}}, nil
}

func (c *fakeCollection) Distinct(context.Context, string, bson.D, backend.Options) ([]any, error) {
	c.t.call("distinct")
	return []any{"x"}, nil
}

func (c *fakeCollection) Near(context.Context, []float64, bson.D, backend.Options) (backend.Iterator, error) {
	c.t.call("near")
	return backend.NewSliceIterator(nil), nil
}
