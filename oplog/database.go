package oplog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"mongoquery/backend"
)

// Database logs every database-level call and hands out logging collections.
type Database struct {
	db   backend.Database
	sink Sink
}

func NewDatabase(db backend.Database, sink Sink) (*Database, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}
	if !callable(sink) {
		return nil, ErrNoSink
	}
	return &Database{db: db, sink: sink}, nil
}

// Unwrap returns the decorated database.
func (d *Database) Unwrap() backend.Database { return d.db }

func (d *Database) log(ctx context.Context, e Event) {
	e["db"] = d.db.Name()
	d.sink.Log(ctx, e)
}

func (d *Database) Name() string { return d.db.Name() }

func (d *Database) Collection(name string) backend.Collection {
	d.log(context.Background(), Event{opSelectCollection: true, "name": name})
	return &Collection{coll: d.db.Collection(name), db: d.db.Name(), sink: d.sink}
}

func (d *Database) Command(ctx context.Context, cmd bson.D) (bson.M, error) {
	d.log(ctx, Event{opCommand: true, "data": cmd})
	return d.db.Command(ctx, cmd)
}

func (d *Database) CreateCollection(ctx context.Context, name string) error {
	d.log(ctx, Event{opCreateCollection: true, "name": name})
	return d.db.CreateCollection(ctx, name)
}

func (d *Database) DropCollection(ctx context.Context, name string) error {
	d.log(ctx, Event{opDropCollection: true, "name": name})
	return d.db.DropCollection(ctx, name)
}

func (d *Database) ListCollections(ctx context.Context) ([]string, error) {
	d.log(ctx, Event{opListCollections: true})
	return d.db.ListCollections(ctx)
}

func (d *Database) Drop(ctx context.Context) error {
	d.log(ctx, Event{opDrop: true})
	return d.db.Drop(ctx)
}

func (d *Database) ProfilingLevel(ctx context.Context) (int, error) {
	d.log(ctx, Event{opProfilingLevel: true})
	return d.db.ProfilingLevel(ctx)
}

func (d *Database) SetProfilingLevel(ctx context.Context, level int) (int, error) {
	d.log(ctx, Event{opSetProfilingLevel: true, "level": level})
	return d.db.SetProfilingLevel(ctx, level)
}

var _ backend.Database = (*Database)(nil)
