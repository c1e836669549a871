// Package matcher contains the default [domain.Matcher] implementation: the
// filter engine matching single documents against field and composite
// filters.
package matcher

import (
	"fmt"
	"slices"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/hasher"
)

// Matcher implements [domain.Matcher].
type Matcher struct {
	comparer domain.Comparer
	hasher   domain.Hasher
}

// NewMatcher returns a new implementation of domain.Matcher.
func NewMatcher(options ...domain.MatcherOption) domain.Matcher {
	opts := domain.MatcherOptions{
		Comparer: comparer.NewComparer(),
		Hasher:   hasher.NewHasher(),
	}
	for _, option := range options {
		option(&opts)
	}
	return &Matcher{
		comparer: opts.Comparer,
		hasher:   opts.Hasher,
	}
}

// NewFieldFilter implements [domain.Matcher].
func (m *Matcher) NewFieldFilter(field domain.FieldPath, op domain.Operator, value domain.Value) domain.FieldFilter {
	f := &FieldFilter{
		field:    field,
		op:       op,
		value:    value,
		comparer: m.comparer,
		hasher:   m.hasher,
	}
	f.checkOperator()

	if field.IsKeyField() {
		switch op {
		case domain.OpIn:
			f.keys = extractKeys(op, value)
			f.matches = f.matchesKeyIn
		case domain.OpNotIn:
			f.keys = extractKeys(op, value)
			f.matches = f.matchesKeyNotIn
		case domain.OpArrayContains, domain.OpArrayContainsAny:
			panic(fmt.Sprintf("%s is not supported on %s", op, domain.KeyFieldName))
		default:
			f.keys = []domain.DocumentKey{keyOf(op, value)}
			f.matches = f.matchesKey
		}
		return f
	}

	switch op {
	case domain.OpArrayContains:
		f.matches = f.matchesArrayContains
	case domain.OpIn:
		mustBeArray(op, value)
		f.matches = f.matchesIn
	case domain.OpNotIn:
		mustBeArray(op, value)
		f.matches = f.matchesNotIn
	case domain.OpArrayContainsAny:
		mustBeArray(op, value)
		f.matches = f.matchesArrayContainsAny
	default:
		f.matches = f.matchesValue
	}
	return f
}

// NewCompositeFilter implements [domain.Matcher].
func (m *Matcher) NewCompositeFilter(op domain.CompositeOperator, filters ...domain.Filter) domain.CompositeFilter {
	if op != domain.OpAnd && op != domain.OpOr {
		panic(fmt.Sprintf("unknown composite operator %q", op))
	}
	c := &CompositeFilter{
		op:      op,
		filters: slices.Clone(filters),
	}
	for _, child := range c.filters {
		c.flattened = append(c.flattened, child.FlattenedFilters()...)
	}
	return c
}

// WithAddedFilters implements [domain.Matcher].
func (m *Matcher) WithAddedFilters(f domain.CompositeFilter, others ...domain.Filter) domain.CompositeFilter {
	return m.NewCompositeFilter(f.Op(), append(slices.Clone(f.Filters()), others...)...)
}

func extractKeys(op domain.Operator, value domain.Value) []domain.DocumentKey {
	mustBeArray(op, value)
	elems := value.AsArray()
	keys := make([]domain.DocumentKey, len(elems))
	for i, e := range elems {
		keys[i] = keyOf(op, e)
	}
	return keys
}

func keyOf(op domain.Operator, v domain.Value) domain.DocumentKey {
	if !v.IsReference() {
		panic(fmt.Sprintf("%s filter on %s needs references, got %s", op, domain.KeyFieldName, v.Kind()))
	}
	key, err := domain.ParseDocumentKey(v.AsString())
	if err != nil {
		panic(fmt.Sprintf("%s filter on %s: %v", op, domain.KeyFieldName, err))
	}
	return key
}

func mustBeArray(op domain.Operator, v domain.Value) {
	if !v.IsArray() {
		panic(fmt.Sprintf("%s filter needs an array operand, got %s", op, v.Kind()))
	}
}
