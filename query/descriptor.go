package query

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Criteria selects the documents an operation applies to. Empty values are
// treated as absent.
type Criteria struct {
	Filter bson.D
	Sort   bson.D
	// Where is a JavaScript predicate merged into the filter of a find.
	Where     string
	Snapshot  bool
	Immortal  bool
	SlaveOkay bool
	Hints     []bson.D
}

// filter returns a copy of the filter so callers may append to it.
func (c *Criteria) filter() bson.D {
	out := make(bson.D, 0, len(c.Filter)+1)
	return append(out, c.Filter...)
}

// Descriptor is the declarative description of one database operation.
// The set of implementations is closed: Find, FindAndUpdate, FindAndRemove,
// Insert, Update, Remove, Group, MapReduce, DistinctField and GeoLocation.
type Descriptor interface {
	Type() Type
	criteria() *Criteria
	isNil() bool
}

// Find selects documents and returns a shaped cursor. Limit and Skip are
// applied when non-zero.
type Find struct {
	Criteria
	Select bson.D
	Limit  int64
	Skip   int64
}

// FindAndUpdate atomically updates one document and returns it.
type FindAndUpdate struct {
	Criteria
	Select bson.D
	NewObj any
	Upsert bool
	// New returns the document as it is after the update.
	New bool
}

// FindAndRemove atomically removes one document and returns it.
type FindAndRemove struct {
	Criteria
	Select bson.D
}

// Insert adds NewObj to the collection. It has no criteria.
type Insert struct {
	NewObj any
}

// Update modifies the first matching document, or all of them with Multiple.
type Update struct {
	Criteria
	NewObj   any
	Upsert   bool
	Multiple bool
}

// Remove deletes the matching documents, or only the first with JustOne.
type Remove struct {
	Criteria
	JustOne bool
}

// Group aggregates documents by Keys using a JavaScript reduce function.
type Group struct {
	Criteria
	Keys     bson.D
	Initial  bson.M
	Reduce   string
	Finalize string
}

// MapReduce runs JavaScript map and reduce functions. With Out set the
// results land in that collection and are returned as a cursor; Sort, Limit
// and Skip shape that cursor over the {_id, value} output documents. Inline
// results are returned unshaped.
type MapReduce struct {
	Criteria
	Map      string
	Reduce   string
	Finalize string
	Out      string
	Limit    int64
	Skip     int64
}

// DistinctField lists the distinct values of Field among matching documents.
type DistinctField struct {
	Criteria
	Field string
}

// GeoLocation finds documents near a legacy coordinate pair.
type GeoLocation struct {
	Criteria
	Near        []float64
	Limit       int64
	MaxDistance float64
	Spherical   bool
}

func (*Find) Type() Type          { return TypeFind }
func (*FindAndUpdate) Type() Type { return TypeFindAndUpdate }
func (*FindAndRemove) Type() Type { return TypeFindAndRemove }
func (*Insert) Type() Type        { return TypeInsert }
func (*Update) Type() Type        { return TypeUpdate }
func (*Remove) Type() Type        { return TypeRemove }
func (*Group) Type() Type         { return TypeGroup }
func (*MapReduce) Type() Type     { return TypeMapReduce }
func (*DistinctField) Type() Type { return TypeDistinctField }
func (*GeoLocation) Type() Type   { return TypeGeoLocation }

func (d *Find) criteria() *Criteria          { return &d.Criteria }
func (d *FindAndUpdate) criteria() *Criteria { return &d.Criteria }
func (d *FindAndRemove) criteria() *Criteria { return &d.Criteria }
func (d *Insert) criteria() *Criteria        { return nil }
func (d *Update) criteria() *Criteria        { return &d.Criteria }
func (d *Remove) criteria() *Criteria        { return &d.Criteria }
func (d *Group) criteria() *Criteria         { return &d.Criteria }
func (d *MapReduce) criteria() *Criteria     { return &d.Criteria }
func (d *DistinctField) criteria() *Criteria { return &d.Criteria }
func (d *GeoLocation) criteria() *Criteria   { return &d.Criteria }

func (d *Find) isNil() bool          { return d == nil }
func (d *FindAndUpdate) isNil() bool { return d == nil }
func (d *FindAndRemove) isNil() bool { return d == nil }
func (d *Insert) isNil() bool        { return d == nil }
func (d *Update) isNil() bool        { return d == nil }
func (d *Remove) isNil() bool        { return d == nil }
func (d *Group) isNil() bool         { return d == nil }
func (d *MapReduce) isNil() bool     { return d == nil }
func (d *DistinctField) isNil() bool { return d == nil }
func (d *GeoLocation) isNil() bool   { return d == nil }
