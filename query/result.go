package query

import (
	"go.mongodb.org/mongo-driver/bson"

	"mongoquery/backend"
)

// ResultKind tags the shape of an execution outcome.
type ResultKind int

const (
	NoResult ResultKind = iota
	IteratorResult
	ScalarResult
)

func (k ResultKind) String() string {
	switch k {
	case IteratorResult:
		return "iterator"
	case ScalarResult:
		return "scalar"
	default:
		return "none"
	}
}

// Result is the memoized outcome of executing a Descriptor. It holds either
// an iterator or a scalar value (bson.M, backend.WriteResult or []any).
type Result struct {
	kind  ResultKind
	iter  backend.Iterator
	value any
}

func iteratorResult(it backend.Iterator) *Result {
	if it == nil {
		return &Result{kind: NoResult}
	}
	return &Result{kind: IteratorResult, iter: it}
}

func scalarResult(v any) *Result {
	return &Result{kind: ScalarResult, value: v}
}

// documentResult treats a nil document as no result.
func documentResult(doc bson.M) *Result {
	if doc == nil {
		return &Result{kind: NoResult}
	}
	return scalarResult(doc)
}

func (r *Result) Kind() ResultKind { return r.kind }

// Iterator returns the iterator, or nil for non-iterator results.
func (r *Result) Iterator() backend.Iterator { return r.iter }

// Value returns the scalar value, or nil for non-scalar results.
func (r *Result) Value() any { return r.value }

// Document returns the scalar value when it is a document.
func (r *Result) Document() (bson.M, bool) {
	doc, ok := r.value.(bson.M)
	return doc, ok
}

// WriteResult returns the scalar value when it is a write summary.
func (r *Result) WriteResult() (backend.WriteResult, bool) {
	wr, ok := r.value.(backend.WriteResult)
	return wr, ok
}

// Values returns the scalar value when it is a list of distinct values.
func (r *Result) Values() ([]any, bool) {
	vs, ok := r.value.([]any)
	return vs, ok
}
