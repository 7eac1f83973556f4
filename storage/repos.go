package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const repoTimeout = 5 * time.Second

// Record is one persisted operation-log entry. Payload is the event encoded
// as relaxed extended JSON.
type Record struct {
	ID          uuid.UUID
	Database    string
	Collection  string
	Operation   string
	Payload     string
	DateCreated time.Time
}

type EventRepo interface {
	Insert(ctx context.Context, rec Record) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
}

func decodeAnyTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return parseTimeString(x)
	case []byte:
		return parseTimeString(string(x))
	default:
		return time.Time{}, false
	}
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05", // SQLite datetime('now')
		"2006-01-02 15:04:05.999999999",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func withRepoTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, repoTimeout)
}

// SQL repo

type sqlEventRepo struct {
	db      *sql.DB
	dialect string
}

func (r *sqlEventRepo) Insert(ctx context.Context, rec Record) error {
	ctx, cancel := withRepoTimeout(ctx)
	defer cancel()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.DateCreated.IsZero() {
		rec.DateCreated = time.Now()
	}

	ph := make([]string, 6)
	for i := range ph {
		ph[i] = placeholder(r.dialect, i+1)
	}
	query := fmt.Sprintf(
		"INSERT INTO odm_operation_log (uuid, database_name, collection_name, operation, payload, date_created) VALUES (%s)",
		strings.Join(ph, ", "),
	)
	_, err := r.db.ExecContext(ctx, query,
		rec.ID.String(), rec.Database, rec.Collection, rec.Operation, rec.Payload,
		rec.DateCreated.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (r *sqlEventRepo) Recent(ctx context.Context, limit int) ([]Record, error) {
	ctx, cancel := withRepoTimeout(ctx)
	defer cancel()

	query := "SELECT uuid, database_name, collection_name, operation, payload, date_created FROM odm_operation_log ORDER BY id DESC LIMIT " + placeholder(r.dialect, 1)
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec         Record
			id          string
			dateCreated any
		)
		if err := rows.Scan(&id, &rec.Database, &rec.Collection, &rec.Operation, &rec.Payload, &dateCreated); err != nil {
			return nil, err
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse record uuid %q: %w", id, err)
		}
		rec.DateCreated, _ = decodeAnyTime(dateCreated)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MongoDB repo

type mongoEventRepo struct {
	coll *mongo.Collection
}

type mongoRecord struct {
	UUID        string    `bson:"uuid"`
	Database    string    `bson:"database_name"`
	Collection  string    `bson:"collection_name"`
	Operation   string    `bson:"operation"`
	Payload     string    `bson:"payload"`
	DateCreated time.Time `bson:"date_created"`
}

func (r *mongoEventRepo) Insert(ctx context.Context, rec Record) error {
	ctx, cancel := withRepoTimeout(ctx)
	defer cancel()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.DateCreated.IsZero() {
		rec.DateCreated = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, mongoRecord{
		UUID:        rec.ID.String(),
		Database:    rec.Database,
		Collection:  rec.Collection,
		Operation:   rec.Operation,
		Payload:     rec.Payload,
		DateCreated: rec.DateCreated,
	})
	return err
}

func (r *mongoEventRepo) Recent(ctx context.Context, limit int) ([]Record, error) {
	ctx, cancel := withRepoTimeout(ctx)
	defer cancel()

	cur, err := r.coll.Find(
		ctx,
		bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "date_created", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Record
	for cur.Next(ctx) {
		var doc mongoRecord
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(doc.UUID)
		if err != nil {
			return nil, fmt.Errorf("parse record uuid %q: %w", doc.UUID, err)
		}
		out = append(out, Record{
			ID:          id,
			Database:    doc.Database,
			Collection:  doc.Collection,
			Operation:   doc.Operation,
			Payload:     doc.Payload,
			DateCreated: doc.DateCreated,
		})
	}
	return out, cur.Err()
}
