package domain

import "slices"

// LimitType tells which end of the result a query limit applies to.
type LimitType uint8

// Limit types.
const (
	LimitToFirst LimitType = iota
	LimitToLast
)

// OrderBy is one ordering of a legacy query.
type OrderBy struct {
	Field     FieldPath
	Direction Direction
}

// Bound is a query cursor: a position in the query ordering.
type Bound struct {
	// Position holds one value per leading order by.
	Position []Value
	// Inclusive tells whether documents at the position are part of the
	// result.
	Inclusive bool
}

// Query is a legacy, non pipeline query. Limit <= 0 means no limit.
type Query struct {
	Path            ResourcePath
	CollectionGroup string
	Filters         []Filter
	ExplicitOrderBy []OrderBy
	Limit           int64
	LimitType       LimitType
	StartAt         *Bound
	EndAt           *Bound
}

// IsCollectionGroupQuery reports whether q spans every collection with the
// given id.
func (q Query) IsCollectionGroupQuery() bool { return q.CollectionGroup != "" }

// IsDocumentQuery reports whether q reads a single document by path.
func (q Query) IsDocumentQuery() bool {
	return len(q.Path) > 0 && len(q.Path)%2 == 0 && q.CollectionGroup == "" && len(q.Filters) == 0
}

// InequalityFields returns the fields of every inequality filter, sorted
// and without duplicates.
func (q Query) InequalityFields() []FieldPath {
	var res []FieldPath
	for _, f := range q.Filters {
		for _, ff := range f.FlattenedFilters() {
			if !ff.IsInequality() {
				continue
			}
			if !slices.ContainsFunc(res, ff.Field().Equal) {
				res = append(res, ff.Field())
			}
		}
	}
	slices.SortFunc(res, FieldPath.Compare)
	return res
}

// NormalizedOrderBy returns the explicit orderings followed by any
// inequality field not already ordered and finally the document key. The
// implicit orderings use the direction of the last explicit one.
func (q Query) NormalizedOrderBy() []OrderBy {
	res := make([]OrderBy, 0, len(q.ExplicitOrderBy)+2)
	seen := make([]FieldPath, 0, len(q.ExplicitOrderBy))
	for _, o := range q.ExplicitOrderBy {
		res = append(res, o)
		seen = append(seen, o.Field)
	}

	dir := Ascending
	if len(q.ExplicitOrderBy) > 0 {
		dir = q.ExplicitOrderBy[len(q.ExplicitOrderBy)-1].Direction
	}

	for _, f := range q.InequalityFields() {
		if !f.IsKeyField() && !slices.ContainsFunc(seen, f.Equal) {
			res = append(res, OrderBy{Field: f, Direction: dir})
			seen = append(seen, f)
		}
	}

	if !slices.ContainsFunc(seen, KeyFieldPath.Equal) {
		res = append(res, OrderBy{Field: KeyFieldPath, Direction: dir})
	}
	return res
}
