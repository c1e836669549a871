package domain

// Operator is the comparison operator of a field filter.
type Operator string

// Field filter operators.
const (
	OpLessThan         Operator = "<"
	OpLessThanEqual    Operator = "<="
	OpEqual            Operator = "=="
	OpNotEqual         Operator = "!="
	OpGreaterThan      Operator = ">"
	OpGreaterThanEqual Operator = ">="
	OpArrayContains    Operator = "array-contains"
	OpIn               Operator = "in"
	OpNotIn            Operator = "not-in"
	OpArrayContainsAny Operator = "array-contains-any"
)

// CompositeOperator joins the children of a composite filter.
type CompositeOperator string

// Composite filter operators.
const (
	OpAnd CompositeOperator = "and"
	OpOr  CompositeOperator = "or"
)

// Filter is a boolean condition over a single document. Filters are
// immutable and safe for concurrent use.
type Filter interface {
	// Matches reports whether doc satisfies the filter.
	Matches(doc Document) bool
	// FlattenedFilters returns every field filter in the tree, in order.
	FlattenedFilters() []FieldFilter
	// Filters returns the direct children of a composite filter, or the
	// filter itself for a field filter.
	Filters() []Filter
	// CanonicalID returns the cache key form of the filter.
	CanonicalID() string
	// Equal reports whether other has the same structure.
	Equal(other Filter) bool
	// String returns a human readable form of the filter.
	String() string
}

// FieldFilter compares one document field against a value.
type FieldFilter interface {
	Filter
	// Field returns the compared field.
	Field() FieldPath
	// Op returns the comparison operator.
	Op() Operator
	// Value returns the operand.
	Value() Value
	// IsInequality reports whether the operator is a range or not-equal
	// operator.
	IsInequality() bool
}

// CompositeFilter combines filters with AND or OR.
type CompositeFilter interface {
	Filter
	// Op returns the composite operator.
	Op() CompositeOperator
	// IsConjunction reports whether the operator is AND.
	IsConjunction() bool
	// IsDisjunction reports whether the operator is OR.
	IsDisjunction() bool
	// IsFlat reports whether every child is a field filter.
	IsFlat() bool
	// IsFlatConjunction reports whether the filter is a flat AND.
	IsFlatConjunction() bool
}
