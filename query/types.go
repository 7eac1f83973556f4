package query

// Type identifies the kind of operation a Descriptor describes.
type Type int

const (
	TypeFind Type = iota + 1
	TypeFindAndUpdate
	TypeFindAndRemove
	TypeInsert
	TypeUpdate
	TypeRemove
	TypeGroup
	TypeMapReduce
	TypeDistinctField
	TypeGeoLocation
)

var typeNames = map[Type]string{
	TypeFind:          "find",
	TypeFindAndUpdate: "findAndUpdate",
	TypeFindAndRemove: "findAndRemove",
	TypeInsert:        "insert",
	TypeUpdate:        "update",
	TypeRemove:        "remove",
	TypeGroup:         "group",
	TypeMapReduce:     "mapReduce",
	TypeDistinctField: "distinct",
	TypeGeoLocation:   "near",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}
