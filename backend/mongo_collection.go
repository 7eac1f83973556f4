package backend

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection implements Collection on a *mongo.Collection.
type MongoCollection struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewCollection(coll *mongo.Collection) *MongoCollection {
	return &MongoCollection{db: coll.Database(), coll: coll}
}

func (c *MongoCollection) Name() string { return c.coll.Name() }

// Driver returns the wrapped driver collection.
func (c *MongoCollection) Driver() *mongo.Collection { return c.coll }

func (c *MongoCollection) Find(ctx context.Context, filter, projection bson.D, opts Options) (Cursor, error) {
	return newFindCursor(c.coll, filter, projection, opts), nil
}

func (c *MongoCollection) FindAndUpdate(ctx context.Context, filter bson.D, update any, opts Options) (bson.M, error) {
	fo := options.FindOneAndUpdate()
	if len(opts.Sort) > 0 {
		fo.SetSort(opts.Sort)
	}
	if len(opts.Fields) > 0 {
		fo.SetProjection(opts.Fields)
	}
	if opts.Upsert {
		fo.SetUpsert(true)
	}
	if opts.New {
		fo.SetReturnDocument(options.After)
	}
	if opts.MaxTime > 0 {
		fo.SetMaxTime(opts.MaxTime)
	}
	if opts.Comment != "" {
		fo.SetComment(opts.Comment)
	}
	return decodeSingle(c.coll.FindOneAndUpdate(ctx, orEmpty(filter), update, fo))
}

func (c *MongoCollection) FindAndRemove(ctx context.Context, filter bson.D, opts Options) (bson.M, error) {
	fo := options.FindOneAndDelete()
	if len(opts.Sort) > 0 {
		fo.SetSort(opts.Sort)
	}
	if len(opts.Fields) > 0 {
		fo.SetProjection(opts.Fields)
	}
	if opts.MaxTime > 0 {
		fo.SetMaxTime(opts.MaxTime)
	}
	if opts.Comment != "" {
		fo.SetComment(opts.Comment)
	}
	return decodeSingle(c.coll.FindOneAndDelete(ctx, orEmpty(filter), fo))
}

func (c *MongoCollection) Insert(ctx context.Context, doc any, opts Options) (WriteResult, error) {
	io := options.InsertOne()
	if opts.Comment != "" {
		io.SetComment(opts.Comment)
	}
	res, err := c.coll.InsertOne(ctx, doc, io)
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{InsertedID: res.InsertedID}, nil
}

func (c *MongoCollection) Update(ctx context.Context, filter bson.D, update any, opts Options) (WriteResult, error) {
	uo := options.Update()
	if opts.Upsert {
		uo.SetUpsert(true)
	}
	if opts.Comment != "" {
		uo.SetComment(opts.Comment)
	}

	var (
		res *mongo.UpdateResult
		err error
	)
	if opts.Multiple {
		res, err = c.coll.UpdateMany(ctx, orEmpty(filter), update, uo)
	} else {
		res, err = c.coll.UpdateOne(ctx, orEmpty(filter), update, uo)
	}
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (c *MongoCollection) Remove(ctx context.Context, filter bson.D, opts Options) (WriteResult, error) {
	do := options.Delete()
	if opts.Comment != "" {
		do.SetComment(opts.Comment)
	}

	var (
		res *mongo.DeleteResult
		err error
	)
	if opts.JustOne {
		res, err = c.coll.DeleteOne(ctx, orEmpty(filter), do)
	} else {
		res, err = c.coll.DeleteMany(ctx, orEmpty(filter), do)
	}
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{DeletedCount: res.DeletedCount}, nil
}

// Group runs the legacy group command and returns its reply.
func (c *MongoCollection) Group(ctx context.Context, keys bson.D, initial bson.M, reduce string, filter bson.D, opts Options) (bson.M, error) {
	return runCommand(ctx, c.db, groupCommand(c.coll.Name(), keys, initial, reduce, filter, opts))
}

func groupCommand(ns string, keys bson.D, initial bson.M, reduce string, filter bson.D, opts Options) bson.D {
	if initial == nil {
		initial = bson.M{}
	}
	spec := bson.D{
		{Key: "ns", Value: ns},
		{Key: "key", Value: orEmpty(keys)},
		{Key: "initial", Value: initial},
		{Key: "$reduce", Value: primitive.JavaScript(reduce)},
	}
	if len(filter) > 0 {
		spec = append(spec, bson.E{Key: "cond", Value: filter})
	}
	if opts.Finalize != "" {
		spec = append(spec, bson.E{Key: "finalize", Value: primitive.JavaScript(opts.Finalize)})
	}
	cmd := bson.D{{Key: "group", Value: spec}}
	if opts.MaxTime > 0 {
		cmd = append(cmd, bson.E{Key: "maxTimeMS", Value: opts.MaxTime.Milliseconds()})
	}
	return cmd
}

// MapReduce runs the mapReduce command. With opts.Out set the result is a
// cursor over the output collection, otherwise the inline reply.
func (c *MongoCollection) MapReduce(ctx context.Context, mapFn, reduceFn string, filter bson.D, opts Options) (MapReduceResult, error) {
	reply, err := runCommand(ctx, c.db, mapReduceCommand(c.coll.Name(), mapFn, reduceFn, filter, opts))
	if err != nil {
		return MapReduceResult{}, err
	}
	if opts.Out == "" {
		return MapReduceResult{Document: reply}, nil
	}
	outColl := c.db.Collection(opts.Out)
	return MapReduceResult{Cursor: newFindCursor(outColl, nil, nil, Options{BatchSize: opts.BatchSize})}, nil
}

// mapReduceCommand builds the command document. opts.Sort, when set, sorts
// the input documents before they are mapped.
func mapReduceCommand(name, mapFn, reduceFn string, filter bson.D, opts Options) bson.D {
	var out any = bson.D{{Key: "inline", Value: 1}}
	if opts.Out != "" {
		out = opts.Out
	}
	cmd := bson.D{
		{Key: "mapReduce", Value: name},
		{Key: "map", Value: primitive.JavaScript(mapFn)},
		{Key: "reduce", Value: primitive.JavaScript(reduceFn)},
		{Key: "query", Value: orEmpty(filter)},
		{Key: "out", Value: out},
	}
	if len(opts.Sort) > 0 {
		cmd = append(cmd, bson.E{Key: "sort", Value: opts.Sort})
	}
	if opts.Finalize != "" {
		cmd = append(cmd, bson.E{Key: "finalize", Value: primitive.JavaScript(opts.Finalize)})
	}
	if opts.MaxTime > 0 {
		cmd = append(cmd, bson.E{Key: "maxTimeMS", Value: opts.MaxTime.Milliseconds()})
	}
	return cmd
}

func (c *MongoCollection) Distinct(ctx context.Context, field string, filter bson.D, opts Options) ([]any, error) {
	do := options.Distinct()
	if opts.MaxTime > 0 {
		do.SetMaxTime(opts.MaxTime)
	}
	if opts.Comment != "" {
		do.SetComment(opts.Comment)
	}
	return c.coll.Distinct(ctx, field, orEmpty(filter), do)
}

// Near runs a $geoNear aggregation. Distances are reported in the "dis" field.
func (c *MongoCollection) Near(ctx context.Context, point []float64, filter bson.D, opts Options) (Iterator, error) {
	base, pipeline, err := nearPipelines(point, filter, opts)
	if err != nil {
		return nil, err
	}

	ao := options.Aggregate()
	if opts.MaxTime > 0 {
		ao.SetMaxTime(opts.MaxTime)
	}
	if opts.BatchSize > 0 {
		ao.SetBatchSize(opts.BatchSize)
	}
	if opts.Comment != "" {
		ao.SetComment(opts.Comment)
	}

	it := &driverIterator{}
	it.open = func(ctx context.Context) (*mongo.Cursor, error) {
		return c.coll.Aggregate(ctx, pipeline, ao)
	}
	it.count = func(ctx context.Context, foundOnly bool) (int64, error) {
		p := base
		if foundOnly {
			p = pipeline
		}
		counted := append(append(mongo.Pipeline{}, p...), bson.D{{Key: "$count", Value: "n"}})
		cur, err := c.coll.Aggregate(ctx, counted, ao)
		if err != nil {
			return 0, err
		}
		defer cur.Close(ctx)
		if !cur.Next(ctx) {
			return 0, cur.Err()
		}
		var row struct {
			N int64 `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return 0, err
		}
		return row.N, nil
	}
	return it, nil
}

// nearPipelines returns the bare $geoNear stage and the pipeline that also
// applies opts.Num. Counting over base ignores the limit.
func nearPipelines(point []float64, filter bson.D, opts Options) (base, pipeline mongo.Pipeline, err error) {
	if len(point) != 2 {
		return nil, nil, fmt.Errorf("near point must have 2 coordinates, got %d", len(point))
	}
	geo := bson.D{
		{Key: "near", Value: bson.A{point[0], point[1]}},
		{Key: "distanceField", Value: "dis"},
		{Key: "spherical", Value: opts.Spherical},
	}
	if len(filter) > 0 {
		geo = append(geo, bson.E{Key: "query", Value: filter})
	}
	if opts.MaxDistance > 0 {
		geo = append(geo, bson.E{Key: "maxDistance", Value: opts.MaxDistance})
	}
	base = mongo.Pipeline{{{Key: "$geoNear", Value: geo}}}
	pipeline = base
	if opts.Num > 0 {
		pipeline = append(mongo.Pipeline{}, base...)
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: opts.Num}})
	}
	return base, pipeline, nil
}

func decodeSingle(res *mongo.SingleResult) (bson.M, error) {
	var doc bson.M
	err := res.Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func runCommand(ctx context.Context, db *mongo.Database, cmd bson.D) (bson.M, error) {
	var reply bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func orEmpty(d bson.D) bson.D {
	if d == nil {
		return bson.D{}
	}
	return d
}

var _ Collection = (*MongoCollection)(nil)
