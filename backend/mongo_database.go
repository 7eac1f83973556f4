package backend

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDatabase implements Database on a *mongo.Database.
type MongoDatabase struct {
	db *mongo.Database
}

func NewDatabase(db *mongo.Database) *MongoDatabase {
	return &MongoDatabase{db: db}
}

func (d *MongoDatabase) Name() string { return d.db.Name() }

// Driver returns the wrapped driver database.
func (d *MongoDatabase) Driver() *mongo.Database { return d.db }

func (d *MongoDatabase) Collection(name string) Collection {
	return NewCollection(d.db.Collection(name))
}

func (d *MongoDatabase) Command(ctx context.Context, cmd bson.D) (bson.M, error) {
	return runCommand(ctx, d.db, cmd)
}

func (d *MongoDatabase) CreateCollection(ctx context.Context, name string) error {
	return d.db.CreateCollection(ctx, name)
}

func (d *MongoDatabase) DropCollection(ctx context.Context, name string) error {
	return d.db.Collection(name).Drop(ctx)
}

func (d *MongoDatabase) ListCollections(ctx context.Context) ([]string, error) {
	return d.db.ListCollectionNames(ctx, bson.D{})
}

func (d *MongoDatabase) Drop(ctx context.Context) error {
	return d.db.Drop(ctx)
}

func (d *MongoDatabase) ProfilingLevel(ctx context.Context) (int, error) {
	return d.profile(ctx, -1)
}

// SetProfilingLevel returns the previous level.
func (d *MongoDatabase) SetProfilingLevel(ctx context.Context, level int) (int, error) {
	return d.profile(ctx, level)
}

func (d *MongoDatabase) profile(ctx context.Context, level int) (int, error) {
	var reply struct {
		Was int `bson:"was"`
	}
	err := d.db.RunCommand(ctx, bson.D{{Key: "profile", Value: level}}).Decode(&reply)
	if err != nil {
		return 0, err
	}
	return reply.Was, nil
}

var _ Database = (*MongoDatabase)(nil)
