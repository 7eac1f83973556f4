package query

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"mongoquery/backend"
)

func (q *Query) execute(ctx context.Context, base backend.Options) (*Result, error) {
	switch d := q.desc.(type) {
	case *Find:
		filter := d.filter()
		if d.Where != "" {
			filter = append(filter, bson.E{Key: q.prefix + "where", Value: d.Where})
		}
		cur, err := q.coll.Find(ctx, filter, d.Select, base)
		if err != nil {
			return nil, err
		}
		return iteratorResult(prepareCursor(cur, &d.Criteria, d.Limit, d.Skip)), nil

	case *FindAndUpdate:
		opts := base
		opts.Sort = d.Sort
		opts.Fields = d.Select
		opts.Upsert = d.Upsert
		opts.New = d.New
		doc, err := q.coll.FindAndUpdate(ctx, d.filter(), d.NewObj, opts)
		if err != nil {
			return nil, err
		}
		return documentResult(doc), nil

	case *FindAndRemove:
		opts := base
		opts.Sort = d.Sort
		opts.Fields = d.Select
		doc, err := q.coll.FindAndRemove(ctx, d.filter(), opts)
		if err != nil {
			return nil, err
		}
		return documentResult(doc), nil

	case *Insert:
		wr, err := q.coll.Insert(ctx, d.NewObj, base)
		if err != nil {
			return nil, err
		}
		return scalarResult(wr), nil

	case *Update:
		opts := base
		opts.Upsert = d.Upsert
		opts.Multiple = d.Multiple
		wr, err := q.coll.Update(ctx, d.filter(), d.NewObj, opts)
		if err != nil {
			return nil, err
		}
		return scalarResult(wr), nil

	case *Remove:
		opts := base
		opts.JustOne = d.JustOne
		wr, err := q.coll.Remove(ctx, d.filter(), opts)
		if err != nil {
			return nil, err
		}
		return scalarResult(wr), nil

	case *Group:
		opts := base
		opts.Finalize = d.Finalize
		doc, err := q.coll.Group(ctx, d.Keys, d.Initial, d.Reduce, d.filter(), opts)
		if err != nil {
			return nil, err
		}
		return documentResult(doc), nil

	case *MapReduce:
		opts := base
		opts.Out = d.Out
		opts.Finalize = d.Finalize
		res, err := q.coll.MapReduce(ctx, d.Map, d.Reduce, d.filter(), opts)
		if err != nil {
			return nil, err
		}
		if res.Cursor != nil {
			return iteratorResult(prepareCursor(res.Cursor, &d.Criteria, d.Limit, d.Skip)), nil
		}
		return documentResult(res.Document), nil

	case *DistinctField:
		values, err := q.coll.Distinct(ctx, d.Field, d.filter(), base)
		if err != nil {
			return nil, err
		}
		return scalarResult(values), nil

	case *GeoLocation:
		opts := base
		if d.Limit != 0 {
			opts.Num = d.Limit
		}
		opts.MaxDistance = d.MaxDistance
		opts.Spherical = d.Spherical
		it, err := q.coll.Near(ctx, d.Near, d.filter(), opts)
		if err != nil {
			return nil, err
		}
		return iteratorResult(it), nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownOperation, q.desc)
	}
}

// prepareCursor issues every shaping call before the cursor reaches the caller.
func prepareCursor(cur backend.Cursor, c *Criteria, limit, skip int64) backend.Cursor {
	if cur == nil {
		return nil
	}
	if limit != 0 {
		cur = cur.Limit(limit)
	}
	if skip != 0 {
		cur = cur.Skip(skip)
	}
	if len(c.Sort) > 0 {
		cur = cur.Sort(c.Sort)
	}
	cur = cur.Immortal(c.Immortal)
	cur = cur.SlaveOkay(c.SlaveOkay)
	if c.Snapshot {
		cur = cur.Snapshot()
	}
	for _, hint := range c.Hints {
		cur = cur.Hint(hint)
	}
	return cur
}
