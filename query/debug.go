package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Debug returns the criteria of the descriptor with absent entries removed.
// It does not execute the query.
func (q *Query) Debug() bson.M {
	out := bson.M{}
	c := q.desc.criteria()
	if c == nil {
		return out
	}
	if len(c.Filter) > 0 {
		out["filter"] = c.Filter
	}
	if len(c.Sort) > 0 {
		out["sort"] = c.Sort
	}
	if c.Where != "" {
		out["where"] = c.Where
	}
	if c.Snapshot {
		out["snapshot"] = true
	}
	if c.Immortal {
		out["immortal"] = true
	}
	if c.SlaveOkay {
		out["slaveOkay"] = true
	}
	if len(c.Hints) > 0 {
		out["hints"] = c.Hints
	}
	return out
}

// DebugField returns a single entry of Debug.
func (q *Query) DebugField(name string) (any, error) {
	v, ok := q.Debug()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return v, nil
}
