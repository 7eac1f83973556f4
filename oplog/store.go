package oplog

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"mongoquery/storage"
)

// StoreSink persists events through a storage.EventRepo. Failures are never
// returned to the caller of the logged operation; they go to ErrorLog.
type StoreSink struct {
	repo     storage.EventRepo
	ErrorLog log.FieldLogger
	now      func() time.Time
}

func NewStoreSink(repo storage.EventRepo) *StoreSink {
	return &StoreSink{repo: repo, ErrorLog: log.StandardLogger(), now: time.Now}
}

func (s *StoreSink) Log(ctx context.Context, e Event) {
	rec, err := s.record(e)
	if err != nil {
		s.ErrorLog.WithError(err).WithField("op", e.Operation()).Warn("oplog: encode event")
		return
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		s.ErrorLog.WithError(err).WithField("op", rec.Operation).Warn("oplog: persist event")
	}
}

func (s *StoreSink) record(e Event) (storage.Record, error) {
	payload, err := bson.MarshalExtJSON(bson.M(e), false, false)
	if err != nil {
		return storage.Record{}, err
	}
	return storage.Record{
		ID:          uuid.New(),
		Database:    e.Database(),
		Collection:  e.Collection(),
		Operation:   e.Operation(),
		Payload:     string(payload),
		DateCreated: s.now(),
	}, nil
}
