package backend

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// driverIterator adapts a *mongo.Cursor to Iterator. The cursor is opened
// lazily and reopened on every Rewind.
type driverIterator struct {
	open  func(ctx context.Context) (*mongo.Cursor, error)
	count func(ctx context.Context, foundOnly bool) (int64, error)

	cur     *mongo.Cursor
	current bson.M
	pos     int
	err     error
}

func (it *driverIterator) Rewind(ctx context.Context) error {
	if it.cur != nil {
		_ = it.cur.Close(ctx)
		it.cur = nil
	}
	it.current, it.pos, it.err = nil, -1, nil

	cur, err := it.open(ctx)
	if err != nil {
		it.err = err
		return err
	}
	it.cur = cur
	return it.advance(ctx)
}

func (it *driverIterator) advance(ctx context.Context) error {
	if !it.cur.Next(ctx) {
		it.current = nil
		it.err = it.cur.Err()
		return it.err
	}
	var doc bson.M
	if err := it.cur.Decode(&doc); err != nil {
		it.current = nil
		it.err = fmt.Errorf("decode document: %w", err)
		return it.err
	}
	it.current = doc
	it.pos++
	return nil
}

func (it *driverIterator) Valid() bool { return it.current != nil }

func (it *driverIterator) Current() bson.M { return it.current }

func (it *driverIterator) Key() any {
	if it.current == nil {
		return nil
	}
	if id, ok := it.current["_id"]; ok {
		return id
	}
	return it.pos
}

func (it *driverIterator) Next(ctx context.Context) error {
	if it.cur == nil {
		return it.Rewind(ctx)
	}
	if it.current == nil {
		return it.err
	}
	return it.advance(ctx)
}

func (it *driverIterator) Count(ctx context.Context, foundOnly bool) (int64, error) {
	return it.count(ctx, foundOnly)
}

func (it *driverIterator) First(ctx context.Context) (bson.M, error) {
	if err := it.Rewind(ctx); err != nil {
		return nil, err
	}
	return it.current, nil
}

func (it *driverIterator) Last(ctx context.Context) (bson.M, error) {
	if err := it.Rewind(ctx); err != nil {
		return nil, err
	}
	var last bson.M
	for it.Valid() {
		last = it.current
		if err := it.advance(ctx); err != nil {
			return nil, err
		}
	}
	return last, nil
}

func (it *driverIterator) ToArray(ctx context.Context) ([]bson.M, error) {
	var out []bson.M
	if err := it.Rewind(ctx); err != nil {
		return nil, err
	}
	for it.Valid() {
		out = append(out, it.current)
		if err := it.advance(ctx); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (it *driverIterator) SingleResult(ctx context.Context) (bson.M, error) {
	return it.First(ctx)
}

func (it *driverIterator) Err() error { return it.err }

func (it *driverIterator) Close(ctx context.Context) error {
	if it.cur == nil {
		return nil
	}
	err := it.cur.Close(ctx)
	it.cur = nil
	it.current = nil
	return err
}

// findCursor accumulates find options until the driver query is issued.
type findCursor struct {
	driverIterator

	coll      *mongo.Collection
	filter    bson.D
	opts      *options.FindOptions
	hint      bson.D
	slaveOkay bool
}

func newFindCursor(coll *mongo.Collection, filter, projection bson.D, o Options) *findCursor {
	if filter == nil {
		filter = bson.D{}
	}
	opts := options.Find()
	if len(projection) > 0 {
		opts.SetProjection(projection)
	}
	if o.MaxTime > 0 {
		opts.SetMaxTime(o.MaxTime)
	}
	if o.Comment != "" {
		opts.SetComment(o.Comment)
	}
	if o.BatchSize > 0 {
		opts.SetBatchSize(o.BatchSize)
	}

	c := &findCursor{coll: coll, filter: filter, opts: opts}
	c.open = func(ctx context.Context) (*mongo.Cursor, error) {
		target, err := c.target()
		if err != nil {
			return nil, err
		}
		return target.Find(ctx, c.filter, c.opts)
	}
	c.count = c.countDocuments
	return c
}

// target applies the read preference implied by slaveOkay.
func (c *findCursor) target() (*mongo.Collection, error) {
	if !c.slaveOkay {
		return c.coll, nil
	}
	return c.coll.Clone(options.Collection().SetReadPreference(readpref.SecondaryPreferred()))
}

func (c *findCursor) countDocuments(ctx context.Context, foundOnly bool) (int64, error) {
	coll, err := c.target()
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, c.filter, c.countOptions(foundOnly))
}

// countOptions carries the hint and time limit over to the count. Limit and
// skip apply only when foundOnly is set.
func (c *findCursor) countOptions(foundOnly bool) *options.CountOptions {
	opts := options.Count()
	if c.hint != nil {
		opts.SetHint(c.hint)
	}
	if c.opts.MaxTime != nil {
		opts.SetMaxTime(*c.opts.MaxTime)
	}
	if foundOnly {
		if c.opts.Limit != nil && *c.opts.Limit != 0 {
			limit := *c.opts.Limit
			if limit < 0 {
				limit = -limit
			}
			opts.SetLimit(limit)
		}
		if c.opts.Skip != nil {
			opts.SetSkip(*c.opts.Skip)
		}
	}
	return opts
}

// SingleResult runs the query with a limit of one, leaving the cursor's own
// limit untouched.
func (c *findCursor) SingleResult(ctx context.Context) (bson.M, error) {
	coll, err := c.target()
	if err != nil {
		return nil, err
	}
	opts := *c.opts
	opts.SetLimit(-1)
	cur, err := coll.Find(ctx, c.filter, &opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return nil, cur.Err()
	}
	var doc bson.M
	if err := cur.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func (c *findCursor) Limit(n int64) Cursor {
	c.opts.SetLimit(n)
	return c
}

func (c *findCursor) Skip(n int64) Cursor {
	c.opts.SetSkip(n)
	return c
}

func (c *findCursor) Sort(spec bson.D) Cursor {
	c.opts.SetSort(spec)
	return c
}

func (c *findCursor) Immortal(v bool) Cursor {
	c.opts.SetNoCursorTimeout(v)
	return c
}

func (c *findCursor) SlaveOkay(v bool) Cursor {
	c.slaveOkay = v
	return c
}

func (c *findCursor) Snapshot() Cursor {
	c.opts.SetSnapshot(true)
	return c
}

// Hint sets the index hint. The server accepts a single hint, so the last
// call wins.
func (c *findCursor) Hint(keyPattern bson.D) Cursor {
	c.hint = keyPattern
	c.opts.SetHint(keyPattern)
	return c
}

var _ Cursor = (*findCursor)(nil)
