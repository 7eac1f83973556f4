package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	schemaVersionCollection = "odm_schema_version"
	operationLogCollection  = "odm_operation_log"
)

type mongoMigrationOp struct {
	Collection string
	Index      mongo.IndexModel
}

var mongoMigrations = map[int][]mongoMigrationOp{
	1: {
		{schemaVersionCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "num", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{operationLogCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{operationLogCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "date_created", Value: -1}},
			Options: options.Index().SetName("idx_odm_operation_log_date_created"),
		}},
		{operationLogCollection, mongo.IndexModel{
			Keys: bson.D{
				{Key: "database_name", Value: 1},
				{Key: "collection_name", Value: 1},
				{Key: "operation", Value: 1},
			},
			Options: options.Index().SetName("idx_odm_operation_log_operation"),
		}},
	},
}

func (d *MongoDriver) migrateMongo(ctx context.Context) error {
	currentVersion := d.getSchemaVersion(ctx)
	maxVersion := latestVersion(mongoMigrations)

	if currentVersion >= maxVersion {
		return nil
	}

	for v := currentVersion + 1; v <= maxVersion; v++ {
		ops, ok := mongoMigrations[v]
		if !ok {
			continue
		}

		for _, op := range ops {
			coll := d.db().Collection(op.Collection)
			if _, err := coll.Indexes().CreateOne(ctx, op.Index); err != nil {
				// Ignore duplicate index errors
				if !mongo.IsDuplicateKeyError(err) {
					return err
				}
			}
		}

		svColl := d.db().Collection(schemaVersionCollection)
		_, err := svColl.ReplaceOne(
			ctx,
			bson.M{"num": currentVersion},
			bson.M{"num": v},
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return err
		}
		currentVersion = v
	}

	return nil
}

func (d *MongoDriver) getSchemaVersion(ctx context.Context) int {
	svColl := d.db().Collection(schemaVersionCollection)
	var doc struct {
		Num int `bson:"num"`
	}
	err := svColl.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "num", Value: -1}})).Decode(&doc)
	if err != nil {
		// mongo.ErrNoDocuments means nothing has been migrated yet
		return 0
	}
	return doc.Num
}
