// Package odm wires a MongoDB database, the operation log and its persistent
// store into a single entry point for building queries.
package odm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"mongoquery/backend"
	"mongoquery/oplog"
	"mongoquery/query"
	"mongoquery/storage"
)

var ErrNoDatabase = errors.New("odm: no database configured")

// ODM holds the logging database that queries run against and the storage
// behind the operation log.
type ODM struct {
	Config *Config

	Storage *storage.Manager
	Logger  *logrus.Logger

	client *mongo.Client
	raw    backend.Database
	db     *oplog.Database
	sinks  []oplog.Sink
	errs   []error
}

// Option configures an ODM in New.
type Option func(*ODM)

// New applies opts and fills the remaining defaults from the environment.
func New(opts ...Option) (*ODM, error) {
	m := &ODM{
		Config: newConfig(),
	}

	for _, opt := range opts {
		opt(m)
	}
	if err := errors.Join(m.errs...); err != nil {
		return nil, err
	}

	// Defaults
	if m.Logger == nil {
		logger, err := newLogger(m.Config.Log)
		if err != nil {
			return nil, err
		}
		m.Logger = logger
	}
	if m.Storage == nil {
		m.Storage = storage.NewManager()
	}
	if m.raw == nil && m.client != nil && m.Config.Database != "" {
		m.raw = backend.NewDatabase(m.client.Database(m.Config.Database))
	}
	if m.raw == nil {
		return nil, ErrNoDatabase
	}

	sinks := []oplog.Sink{oplog.NewLogrusSink(m.Logger)}
	if m.Storage.Started() {
		repo, err := m.Storage.Events()
		if err != nil {
			return nil, err
		}
		store := oplog.NewStoreSink(repo)
		store.ErrorLog = m.Logger
		sinks = append(sinks, store)
	}
	sinks = append(sinks, m.sinks...)

	db, err := oplog.NewDatabase(m.raw, oplog.Multi(sinks...))
	if err != nil {
		return nil, err
	}
	m.db = db
	return m, nil
}

// WithClient selects Config.Database on client. WithDatabase and
// WithMongoDatabase take precedence.
func WithClient(client *mongo.Client) Option {
	return func(m *ODM) { m.client = client }
}

func WithMongoDatabase(db *mongo.Database) Option {
	return func(m *ODM) {
		m.raw = backend.NewDatabase(db)
		m.Config.Database = db.Name()
	}
}

// WithDatabase uses db as is, for callers that bring their own backend.
func WithDatabase(db backend.Database) Option {
	return func(m *ODM) {
		m.raw = db
		m.Config.Database = db.Name()
	}
}

// WithStorageConn persists the operation log through conn, a *sql.DB or a
// *mongo.Database.
func WithStorageConn(conn any) Option {
	return func(m *ODM) {
		m.Storage = storage.NewManager()
		if err := m.Storage.Start(conn); err != nil {
			m.errs = append(m.errs, fmt.Errorf("odm: storage: %w", err))
		}
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(m *ODM) { m.Logger = logger }
}

// WithSink adds a sink next to the logrus and store sinks.
func WithSink(sink oplog.Sink) Option {
	return func(m *ODM) {
		if sink != nil {
			m.sinks = append(m.sinks, sink)
		}
	}
}

func WithPrefix(prefix string) Option {
	return func(m *ODM) { m.Config.Prefix = prefix }
}

// Database returns the logging database every query runs against.
func (m *ODM) Database() backend.Database { return m.db }

// Query builds an unexecuted query on the named collection.
func (m *ODM) Query(collection string, d query.Descriptor) (*query.Query, error) {
	return query.New(m.db, m.db.Collection(collection), d, m.Config.Prefix)
}

// Execute builds a query and executes it right away, bounded server-side by
// Config.Timeout.
func (m *ODM) Execute(ctx context.Context, collection string, d query.Descriptor, opts ...query.ExecOption) (*query.Query, error) {
	q, err := m.Query(collection, d)
	if err != nil {
		return nil, err
	}
	if m.Config.Timeout > 0 {
		opts = append([]query.ExecOption{query.WithMaxTime(m.Config.Timeout)}, opts...)
	}
	if _, err := q.Execute(ctx, opts...); err != nil {
		return q, err
	}
	return q, nil
}

// Recent returns the newest persisted operation-log records.
func (m *ODM) Recent(ctx context.Context, limit int) ([]storage.Record, error) {
	repo, err := m.Storage.Events()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = m.Config.RecentLimit
	}
	return repo.Recent(ctx, limit)
}
