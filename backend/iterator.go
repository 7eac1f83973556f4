package backend

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// SliceIterator iterates over documents already held in memory.
type SliceIterator struct {
	docs []bson.M
	pos  int
}

func NewSliceIterator(docs []bson.M) *SliceIterator {
	return &SliceIterator{docs: docs}
}

func (it *SliceIterator) Rewind(ctx context.Context) error {
	it.pos = 0
	return nil
}

func (it *SliceIterator) Valid() bool { return it.pos < len(it.docs) }

func (it *SliceIterator) Current() bson.M {
	if !it.Valid() {
		return nil
	}
	return it.docs[it.pos]
}

// Key returns the _id of the current document, or its position when it has none.
func (it *SliceIterator) Key() any {
	doc := it.Current()
	if doc == nil {
		return nil
	}
	if id, ok := doc["_id"]; ok {
		return id
	}
	return it.pos
}

func (it *SliceIterator) Next(ctx context.Context) error {
	if it.pos < len(it.docs) {
		it.pos++
	}
	return nil
}

func (it *SliceIterator) Count(ctx context.Context, foundOnly bool) (int64, error) {
	return int64(len(it.docs)), nil
}

func (it *SliceIterator) First(ctx context.Context) (bson.M, error) {
	if len(it.docs) == 0 {
		return nil, nil
	}
	return it.docs[0], nil
}

func (it *SliceIterator) Last(ctx context.Context) (bson.M, error) {
	if len(it.docs) == 0 {
		return nil, nil
	}
	return it.docs[len(it.docs)-1], nil
}

func (it *SliceIterator) ToArray(ctx context.Context) ([]bson.M, error) {
	out := make([]bson.M, len(it.docs))
	copy(out, it.docs)
	return out, nil
}

func (it *SliceIterator) SingleResult(ctx context.Context) (bson.M, error) {
	return it.First(ctx)
}

func (it *SliceIterator) Err() error { return nil }

func (it *SliceIterator) Close(ctx context.Context) error { return nil }

var _ Iterator = (*SliceIterator)(nil)
