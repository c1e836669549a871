package matcher

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// FieldFilter implements [domain.FieldFilter]. The match function is chosen
// by [Matcher.NewFieldFilter] from the field and operator.
type FieldFilter struct {
	field    domain.FieldPath
	op       domain.Operator
	value    domain.Value
	keys     []domain.DocumentKey
	matches  func(domain.Document) bool
	comparer domain.Comparer
	hasher   domain.Hasher
}

// Field implements [domain.FieldFilter].
func (f *FieldFilter) Field() domain.FieldPath { return f.field }

// Op implements [domain.FieldFilter].
func (f *FieldFilter) Op() domain.Operator { return f.op }

// Value implements [domain.FieldFilter].
func (f *FieldFilter) Value() domain.Value { return f.value }

// IsInequality implements [domain.FieldFilter].
func (f *FieldFilter) IsInequality() bool {
	switch f.op {
	case domain.OpLessThan, domain.OpLessThanEqual, domain.OpGreaterThan,
		domain.OpGreaterThanEqual, domain.OpNotEqual, domain.OpNotIn:
		return true
	}
	return false
}

// Matches implements [domain.Filter].
func (f *FieldFilter) Matches(doc domain.Document) bool {
	return f.matches(doc)
}

// FlattenedFilters implements [domain.Filter].
func (f *FieldFilter) FlattenedFilters() []domain.FieldFilter {
	return []domain.FieldFilter{f}
}

// Filters implements [domain.Filter].
func (f *FieldFilter) Filters() []domain.Filter {
	return []domain.Filter{f}
}

// CanonicalID implements [domain.Filter].
func (f *FieldFilter) CanonicalID() string {
	return f.field.CanonicalString() + string(f.op) + f.hasher.CanonicalID(f.value)
}

// Equal implements [domain.Filter].
func (f *FieldFilter) Equal(other domain.Filter) bool {
	o, ok := other.(domain.FieldFilter)
	return ok && o.Op() == f.op && o.Field().Equal(f.field) && f.comparer.Equal(o.Value(), f.value)
}

func (f *FieldFilter) String() string {
	return fmt.Sprintf("%s %s %s", f.field.CanonicalString(), f.op, f.hasher.CanonicalID(f.value))
}

// checkOperator panics for operators the filter cannot evaluate.
func (f *FieldFilter) checkOperator() {
	switch f.op {
	case domain.OpLessThan, domain.OpLessThanEqual, domain.OpEqual, domain.OpNotEqual,
		domain.OpGreaterThan, domain.OpGreaterThanEqual, domain.OpArrayContains,
		domain.OpIn, domain.OpNotIn, domain.OpArrayContainsAny:
		return
	}
	panic(fmt.Sprintf("unknown operator %q", f.op))
}

func (f *FieldFilter) matchesComparison(comp int) bool {
	switch f.op {
	case domain.OpLessThan:
		return comp < 0
	case domain.OpLessThanEqual:
		return comp <= 0
	case domain.OpEqual:
		return comp == 0
	case domain.OpNotEqual:
		return comp != 0
	case domain.OpGreaterThan:
		return comp > 0
	case domain.OpGreaterThanEqual:
		return comp >= 0
	}
	panic(fmt.Sprintf("operator %q is not a comparison", f.op))
}

// matchesValue compares fields of the operand's type order only, except
// for != which matches every non-null value of another type.
func (f *FieldFilter) matchesValue(doc domain.Document) bool {
	other, ok := doc.Field(f.field)
	if !ok {
		return false
	}
	if f.op == domain.OpNotEqual {
		return !other.IsNull() && f.matchesComparison(f.comparer.Compare(other, f.value))
	}
	return f.comparer.TypeOrder(other) == f.comparer.TypeOrder(f.value) &&
		f.matchesComparison(f.comparer.Compare(other, f.value))
}

func (f *FieldFilter) matchesKey(doc domain.Document) bool {
	return f.matchesComparison(doc.Key().Compare(f.keys[0]))
}

func (f *FieldFilter) matchesKeyIn(doc domain.Document) bool {
	return slices.ContainsFunc(f.keys, doc.Key().Equal)
}

func (f *FieldFilter) matchesKeyNotIn(doc domain.Document) bool {
	return !f.matchesKeyIn(doc)
}

func (f *FieldFilter) matchesArrayContains(doc domain.Document) bool {
	other, ok := doc.Field(f.field)
	return ok && other.IsArray() && f.contains(other.AsArray(), f.value)
}

func (f *FieldFilter) matchesIn(doc domain.Document) bool {
	other, ok := doc.Field(f.field)
	return ok && f.contains(f.value.AsArray(), other)
}

// matchesNotIn never matches when the operand holds null.
func (f *FieldFilter) matchesNotIn(doc domain.Document) bool {
	if f.contains(f.value.AsArray(), domain.Null()) {
		return false
	}
	other, ok := doc.Field(f.field)
	return ok && !other.IsNull() && !f.contains(f.value.AsArray(), other)
}

func (f *FieldFilter) matchesArrayContainsAny(doc domain.Document) bool {
	other, ok := doc.Field(f.field)
	if !ok || !other.IsArray() {
		return false
	}
	for _, v := range f.value.AsArray() {
		if f.contains(other.AsArray(), v) {
			return true
		}
	}
	return false
}

func (f *FieldFilter) contains(haystack []domain.Value, needle domain.Value) bool {
	return slices.ContainsFunc(haystack, func(v domain.Value) bool {
		return f.comparer.Equal(v, needle)
	})
}

// CompositeFilter implements [domain.CompositeFilter]. Its flattened
// filters are computed when it is built.
type CompositeFilter struct {
	op        domain.CompositeOperator
	filters   []domain.Filter
	flattened []domain.FieldFilter
}

// Op implements [domain.CompositeFilter].
func (c *CompositeFilter) Op() domain.CompositeOperator { return c.op }

// IsConjunction implements [domain.CompositeFilter].
func (c *CompositeFilter) IsConjunction() bool { return c.op == domain.OpAnd }

// IsDisjunction implements [domain.CompositeFilter].
func (c *CompositeFilter) IsDisjunction() bool { return c.op == domain.OpOr }

// IsFlat implements [domain.CompositeFilter].
func (c *CompositeFilter) IsFlat() bool {
	for _, f := range c.filters {
		if _, ok := f.(domain.CompositeFilter); ok {
			return false
		}
	}
	return true
}

// IsFlatConjunction implements [domain.CompositeFilter].
func (c *CompositeFilter) IsFlatConjunction() bool {
	return c.IsFlat() && c.IsConjunction()
}

// Matches implements [domain.Filter].
func (c *CompositeFilter) Matches(doc domain.Document) bool {
	if c.IsConjunction() {
		for _, f := range c.filters {
			if !f.Matches(doc) {
				return false
			}
		}
		return true
	}
	for _, f := range c.filters {
		if f.Matches(doc) {
			return true
		}
	}
	return false
}

// FlattenedFilters implements [domain.Filter].
func (c *CompositeFilter) FlattenedFilters() []domain.FieldFilter {
	return c.flattened
}

// Filters implements [domain.Filter].
func (c *CompositeFilter) Filters() []domain.Filter {
	return c.filters
}

// CanonicalID implements [domain.Filter]. A flat conjunction has the same
// id as the equivalent list of separate filters.
func (c *CompositeFilter) CanonicalID() string {
	ids := make([]string, len(c.filters))
	for i, f := range c.filters {
		ids[i] = f.CanonicalID()
	}
	joined := strings.Join(ids, ",")
	if c.IsFlatConjunction() {
		return joined
	}
	return string(c.op) + "(" + joined + ")"
}

// Equal implements [domain.Filter]. Children must be equal in order.
func (c *CompositeFilter) Equal(other domain.Filter) bool {
	o, ok := other.(domain.CompositeFilter)
	if !ok || o.Op() != c.op {
		return false
	}
	return slices.EqualFunc(c.filters, o.Filters(), func(a, b domain.Filter) bool {
		return a.Equal(b)
	})
}

func (c *CompositeFilter) String() string {
	parts := make([]string, len(c.filters))
	for i, f := range c.filters {
		parts[i] = f.String()
	}
	return string(c.op) + " {" + strings.Join(parts, " ,") + "}"
}
