package backend

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Options carries the per-call settings shaped by the dispatcher. A zero value
// means the option is absent.
type Options struct {
	Sort     bson.D
	Fields   bson.D
	Upsert   bool
	New      bool
	Multiple bool
	JustOne  bool

	// Num caps the number of geo results.
	Num         int64
	MaxDistance float64
	Spherical   bool

	// Out names the map/reduce output collection; empty means inline.
	Out      string
	Finalize string

	MaxTime   time.Duration
	Comment   string
	BatchSize int32
}

// Map returns the options that are present, keyed by their wire names.
func (o Options) Map() bson.M {
	m := bson.M{}
	if len(o.Sort) > 0 {
		m["sort"] = o.Sort
	}
	if len(o.Fields) > 0 {
		m["fields"] = o.Fields
	}
	if o.Upsert {
		m["upsert"] = true
	}
	if o.New {
		m["new"] = true
	}
	if o.Multiple {
		m["multiple"] = true
	}
	if o.JustOne {
		m["justOne"] = true
	}
	if o.Num != 0 {
		m["num"] = o.Num
	}
	if o.MaxDistance != 0 {
		m["maxDistance"] = o.MaxDistance
	}
	if o.Spherical {
		m["spherical"] = true
	}
	if o.Out != "" {
		m["out"] = o.Out
	}
	if o.Finalize != "" {
		m["finalize"] = o.Finalize
	}
	if o.MaxTime > 0 {
		m["maxTimeMS"] = o.MaxTime.Milliseconds()
	}
	if o.Comment != "" {
		m["comment"] = o.Comment
	}
	if o.BatchSize > 0 {
		m["batchSize"] = o.BatchSize
	}
	return m
}
