package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Count counts the matching documents. With foundOnly the limit and skip of
// the cursor are honored.
func (q *Query) Count(ctx context.Context, foundOnly bool) (int64, error) {
	it, err := q.Iterator(ctx)
	if err != nil {
		return 0, err
	}
	return it.Count(ctx, foundOnly)
}

// SingleResult returns one document, or nil when nothing matched. Options
// only apply if the query has not been executed yet.
func (q *Query) SingleResult(ctx context.Context, opts ...ExecOption) (bson.M, error) {
	res, err := q.Execute(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if doc, ok := res.Document(); ok {
		return doc, nil
	}
	it, err := q.Iterator(ctx)
	if err != nil {
		return nil, err
	}
	return it.SingleResult(ctx)
}

func (q *Query) ToArray(ctx context.Context) ([]bson.M, error) {
	it, err := q.Iterator(ctx)
	if err != nil {
		return nil, err
	}
	return it.ToArray(ctx)
}

func (q *Query) First(ctx context.Context) (bson.M, error) {
	it, err := q.Iterator(ctx)
	if err != nil {
		return nil, err
	}
	return it.First(ctx)
}

func (q *Query) Last(ctx context.Context) (bson.M, error) {
	it, err := q.Iterator(ctx)
	if err != nil {
		return nil, err
	}
	return it.Last(ctx)
}

func (q *Query) Rewind(ctx context.Context) error {
	it, err := q.Iterator(ctx)
	if err != nil {
		return err
	}
	return it.Rewind(ctx)
}

func (q *Query) Next(ctx context.Context) error {
	it, err := q.Iterator(ctx)
	if err != nil {
		return err
	}
	return it.Next(ctx)
}

func (q *Query) Valid(ctx context.Context) (bool, error) {
	it, err := q.Iterator(ctx)
	if err != nil {
		return false, err
	}
	return it.Valid(), nil
}

func (q *Query) Current(ctx context.Context) (bson.M, error) {
	it, err := q.Iterator(ctx)
	if err != nil {
		return nil, err
	}
	return it.Current(), nil
}

func (q *Query) Key(ctx context.Context) (any, error) {
	it, err := q.Iterator(ctx)
	if err != nil {
		return nil, err
	}
	return it.Key(), nil
}

// Close releases the cached iterator, if any.
func (q *Query) Close(ctx context.Context) error {
	q.mu.Lock()
	res := q.result
	q.mu.Unlock()
	if res == nil || res.Iterator() == nil {
		return nil
	}
	return res.Iterator().Close(ctx)
}
