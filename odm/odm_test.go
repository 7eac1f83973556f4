package odm_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	_ "modernc.org/sqlite"

	"mongoquery/backend"
	"mongoquery/odm"
	"mongoquery/oplog"
	"mongoquery/query"
	"mongoquery/storage"
)

type stubDatabase struct {
	colls map[string]*stubCollection
}

func newStubDatabase() *stubDatabase {
	return &stubDatabase{colls: map[string]*stubCollection{}}
}

func (d *stubDatabase) Name() string { return "shop" }

func (d *stubDatabase) Collection(name string) backend.Collection {
	c, ok := d.colls[name]
	if !ok {
		c = &stubCollection{name: name}
		d.colls[name] = c
	}
	return c
}

func (d *stubDatabase) Command(context.Context, bson.D) (bson.M, error)     { return bson.M{"ok": 1}, nil }
func (d *stubDatabase) CreateCollection(context.Context, string) error      { return nil }
func (d *stubDatabase) DropCollection(context.Context, string) error        { return nil }
func (d *stubDatabase) ListCollections(context.Context) ([]string, error)   { return nil, nil }
func (d *stubDatabase) Drop(context.Context) error                          { return nil }
func (d *stubDatabase) ProfilingLevel(context.Context) (int, error)         { return 0, nil }
func (d *stubDatabase) SetProfilingLevel(context.Context, int) (int, error) { return 0, nil }

// stubCollection keeps the arguments of the last call.
type stubCollection struct {
	name   string
	filter bson.D
	opts   backend.Options
	docs   []bson.M
}

func (c *stubCollection) Name() string { return c.name }

func (c *stubCollection) Find(_ context.Context, filter, _ bson.D, opts backend.Options) (backend.Cursor, error) {
	c.filter, c.opts = filter, opts
	return &stubCursor{SliceIterator: backend.NewSliceIterator(c.docs)}, nil
}

func (c *stubCollection) FindAndUpdate(_ context.Context, filter bson.D, _ any, opts backend.Options) (bson.M, error) {
	c.filter, c.opts = filter, opts
	return nil, nil
}

func (c *stubCollection) FindAndRemove(_ context.Context, filter bson.D, opts backend.Options) (bson.M, error) {
	c.filter, c.opts = filter, opts
	return nil, nil
}

func (c *stubCollection) Insert(_ context.Context, doc any, opts backend.Options) (backend.WriteResult, error) {
	c.opts = opts
	c.docs = append(c.docs, doc.(bson.M))
	return backend.WriteResult{InsertedID: len(c.docs)}, nil
}

func (c *stubCollection) Update(_ context.Context, filter bson.D, _ any, opts backend.Options) (backend.WriteResult, error) {
	c.filter, c.opts = filter, opts
	return backend.WriteResult{}, nil
}

func (c *stubCollection) Remove(_ context.Context, filter bson.D, opts backend.Options) (backend.WriteResult, error) {
	c.filter, c.opts = filter, opts
	return backend.WriteResult{}, nil
}

func (c *stubCollection) Group(_ context.Context, _ bson.D, _ bson.M, _ string, filter bson.D, opts backend.Options) (bson.M, error) {
	c.filter, c.opts = filter, opts
	return bson.M{}, nil
}

func (c *stubCollection) MapReduce(_ context.Context, _, _ string, filter bson.D, opts backend.Options) (backend.MapReduceResult, error) {
	c.filter, c.opts = filter, opts
	return backend.MapReduceResult{Document: bson.M{}}, nil
}

func (c *stubCollection) Distinct(_ context.Context, _ string, filter bson.D, opts backend.Options) ([]any, error) {
	c.filter, c.opts = filter, opts
	return nil, nil
}

func (c *stubCollection) Near(_ context.Context, _ []float64, filter bson.D, opts backend.Options) (backend.Iterator, error) {
	c.filter, c.opts = filter, opts
	return backend.NewSliceIterator(nil), nil
}

type stubCursor struct {
	*backend.SliceIterator
}

func (c *stubCursor) Limit(int64) backend.Cursor    { return c }
func (c *stubCursor) Skip(int64) backend.Cursor     { return c }
func (c *stubCursor) Sort(bson.D) backend.Cursor    { return c }
func (c *stubCursor) Immortal(bool) backend.Cursor  { return c }
func (c *stubCursor) SlaveOkay(bool) backend.Cursor { return c }
func (c *stubCursor) Snapshot() backend.Cursor      { return c }
func (c *stubCursor) Hint(bson.D) backend.Cursor    { return c }

func quietLogger() *logrus.Logger {
	logger, _ := logtest.NewNullLogger()
	return logger
}

func TestNewRequiresDatabase(t *testing.T) {
	_, err := odm.New(odm.WithLogger(quietLogger()))
	require.ErrorIs(t, err, odm.ErrNoDatabase)
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	_, err := odm.New(odm.WithDatabase(newStubDatabase()), odm.WithStorageConn(42))
	require.ErrorIs(t, err, storage.ErrNoAdapter)
}

func TestNewRejectsBadLogConfig(t *testing.T) {
	t.Setenv("ODM_LOG_LEVEL", "loud")
	_, err := odm.New(odm.WithDatabase(newStubDatabase()))
	require.Error(t, err)

	t.Setenv("ODM_LOG_LEVEL", "debug")
	t.Setenv("ODM_LOG_FORMAT", "xml")
	_, err = odm.New(odm.WithDatabase(newStubDatabase()))
	require.Error(t, err)

	t.Setenv("ODM_LOG_FORMAT", "json")
	m, err := odm.New(odm.WithDatabase(newStubDatabase()))
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, m.Logger.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, m.Logger.Formatter)
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("ODM_COMMAND_PREFIX", "#")
	t.Setenv("ODM_TIMEOUT", "250ms")

	stub := newStubDatabase()
	m, err := odm.New(odm.WithDatabase(stub), odm.WithLogger(quietLogger()))
	require.NoError(t, err)
	require.Equal(t, "#", m.Config.Prefix)
	require.Equal(t, 250*time.Millisecond, m.Config.Timeout)
	require.Equal(t, "shop", m.Config.Database)

	q, err := m.Execute(context.Background(), "orders", &query.Find{
		Criteria: query.Criteria{
			Filter: bson.D{{Key: "status", Value: "open"}},
			Where:  "this.total > 10",
		},
	})
	require.NoError(t, err)
	require.True(t, q.Executed())

	coll := stub.colls["orders"]
	require.Equal(t, bson.D{
		{Key: "status", Value: "open"},
		{Key: "#where", Value: "this.total > 10"},
	}, coll.filter)
	require.Equal(t, 250*time.Millisecond, coll.opts.MaxTime)
}

func TestQueryIsLazy(t *testing.T) {
	stub := newStubDatabase()
	m, err := odm.New(odm.WithDatabase(stub), odm.WithLogger(quietLogger()), odm.WithPrefix("$"))
	require.NoError(t, err)

	q, err := m.Query("orders", &query.Find{})
	require.NoError(t, err)
	require.False(t, q.Executed())
	require.Zero(t, stub.colls["orders"].opts.MaxTime)
	require.IsType(t, &oplog.Collection{}, q.Collection())
	require.Same(t, m.Database(), q.Database())
}

func TestEventsReachEverySink(t *testing.T) {
	db, err := sql.Open("sqlite", "file:odm_facade_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	var seen []string
	m, err := odm.New(
		odm.WithDatabase(newStubDatabase()),
		odm.WithStorageConn(db),
		odm.WithLogger(logger),
		odm.WithSink(oplog.SinkFunc(func(_ context.Context, e oplog.Event) { seen = append(seen, e.Operation()) })),
	)
	require.NoError(t, err)
	require.NoError(t, m.Storage.Build())

	ctx := context.Background()
	_, err = m.Execute(ctx, "orders", &query.Insert{NewObj: bson.M{"sku": "A-1"}})
	require.NoError(t, err)

	require.Equal(t, []string{"selectCollection", "insert"}, seen)
	require.Len(t, hook.AllEntries(), 2)
	require.Equal(t, "mongo insert", hook.LastEntry().Message)

	recs, err := m.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "insert", recs[0].Operation)
	require.Equal(t, "orders", recs[0].Collection)
	require.Equal(t, "shop", recs[0].Database)
	require.Equal(t, "selectCollection", recs[1].Operation)
}

func TestRecentWithoutStorage(t *testing.T) {
	m, err := odm.New(odm.WithDatabase(newStubDatabase()), odm.WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = m.Recent(context.Background(), 5)
	require.ErrorIs(t, err, storage.ErrNotStarted)
}
