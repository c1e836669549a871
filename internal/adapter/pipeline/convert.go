package pipeline

import (
	"fmt"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

var comparisons = map[domain.Operator]string{
	domain.OpLessThan:         domain.FuncLt,
	domain.OpLessThanEqual:    domain.FuncLte,
	domain.OpGreaterThan:      domain.FuncGt,
	domain.OpGreaterThanEqual: domain.FuncGte,
	domain.OpEqual:            domain.FuncEq,
	domain.OpNotEqual:         domain.FuncNeq,
	domain.OpArrayContains:    domain.FuncArrayContains,
}

func exists(f domain.Field) domain.Expr {
	return domain.NewFunction(domain.FuncExists, f)
}

func and(conds ...domain.Expr) domain.Expr { return domain.NewFunction(domain.FuncAnd, conds...) }

func or(conds ...domain.Expr) domain.Expr { return domain.NewFunction(domain.FuncOr, conds...) }

func not(cond domain.Expr) domain.Expr { return domain.NewFunction(domain.FuncNot, cond) }

// constants turns the elements of an array operand into a list of
// constants.
func constants(v domain.Value) domain.Expr {
	var elems []domain.Value
	if v.IsArray() {
		elems = v.AsArray()
	}
	exprs := make([]domain.Expr, len(elems))
	for i, e := range elems {
		exprs[i] = domain.NewConstant(e)
	}
	return domain.ListOfExprs{Exprs: exprs}
}

// ToFilterCondition converts a filter into an equivalent condition. Every
// field filter also requires the field to exist. It panics on filter
// implementations it does not know.
func ToFilterCondition(f domain.Filter) domain.Expr {
	switch x := f.(type) {
	case domain.FieldFilter:
		return fieldCondition(x)
	case domain.CompositeFilter:
		children := x.Filters()
		conds := make([]domain.Expr, len(children))
		for i, c := range children {
			conds[i] = ToFilterCondition(c)
		}
		if x.IsDisjunction() {
			return or(conds...)
		}
		return and(conds...)
	}
	panic(fmt.Sprintf("unknown filter type %T", f))
}

func fieldCondition(f domain.FieldFilter) domain.Expr {
	field := domain.Field{Path: f.Field()}
	value := f.Value()

	switch {
	case value.IsNaN() && f.Op() == domain.OpEqual:
		return and(exists(field), domain.NewFunction(domain.FuncIsNaN, field))
	case value.IsNaN() && f.Op() == domain.OpNotEqual:
		return and(exists(field), domain.NewFunction(domain.FuncIsNotNaN, field))
	case value.IsNull() && f.Op() == domain.OpEqual:
		return and(exists(field), domain.NewFunction(domain.FuncIsNull, field))
	case value.IsNull() && f.Op() == domain.OpNotEqual:
		return and(exists(field), domain.NewFunction(domain.FuncIsNotNull, field))
	}

	if name, ok := comparisons[f.Op()]; ok {
		return and(exists(field), domain.NewFunction(name, field, domain.NewConstant(value)))
	}
	switch f.Op() {
	case domain.OpIn:
		return and(exists(field), domain.NewFunction(domain.FuncEqAny, field, constants(value)))
	case domain.OpNotIn:
		return and(exists(field), not(domain.NewFunction(domain.FuncEqAny, field, constants(value))))
	case domain.OpArrayContainsAny:
		return and(exists(field), domain.NewFunction(domain.FuncArrayContainsAny, field, constants(value)))
	}
	panic(fmt.Sprintf("unknown operator %q", f.Op()))
}

func reverse(orderings []domain.Ordering) []domain.Ordering {
	res := make([]domain.Ordering, len(orderings))
	for i, o := range orderings {
		dir := domain.Descending
		if o.Direction == domain.Descending {
			dir = domain.Ascending
		}
		res[i] = domain.Ordering{Expr: o.Expr, Direction: dir}
	}
	return res
}

// ToPipeline converts a legacy query into a pipeline returning the same
// documents in the same order.
func ToPipeline(q domain.Query) domain.Pipeline {
	var stages []domain.Stage
	switch {
	case q.IsCollectionGroupQuery():
		stages = append(stages, domain.CollectionGroupSource{CollectionID: q.CollectionGroup})
	case q.IsDocumentQuery():
		stages = append(stages, domain.DocumentsSource{Paths: []string{q.Path.CanonicalString()}})
	default:
		stages = append(stages, domain.CollectionSource{Path: q.Path.CanonicalString()})
	}

	for _, f := range q.Filters {
		stages = append(stages, domain.Where{Condition: ToFilterCondition(f)})
	}

	orders := q.NormalizedOrderBy()
	conds := make([]domain.Expr, len(orders))
	orderings := make([]domain.Ordering, len(orders))
	for i, o := range orders {
		field := domain.Field{Path: o.Field}
		conds[i] = exists(field)
		orderings[i] = domain.Ordering{Expr: field, Direction: o.Direction}
	}
	if len(conds) == 1 {
		stages = append(stages, domain.Where{Condition: conds[0]})
	} else {
		stages = append(stages, domain.Where{Condition: and(conds...)})
	}

	// cursors are plain conditions, so they do not depend on the sort
	// direction used to pick the last documents
	var cursors []domain.Stage
	if q.StartAt != nil && len(q.StartAt.Position) > 0 {
		cursors = append(cursors, domain.Where{Condition: cursorCondition(*q.StartAt, orderings, true)})
	}
	if q.EndAt != nil && len(q.EndAt.Position) > 0 {
		cursors = append(cursors, domain.Where{Condition: cursorCondition(*q.EndAt, orderings, false)})
	}

	if q.LimitType == domain.LimitToLast && q.Limit > 0 {
		stages = append(stages, domain.Sort{Orderings: reverse(orderings)})
		stages = append(stages, cursors...)
		stages = append(stages,
			domain.Limit{N: q.Limit, Converted: true},
			domain.Sort{Orderings: orderings},
		)
		return domain.Pipeline{Stages: stages}
	}

	stages = append(stages, domain.Sort{Orderings: orderings})
	stages = append(stages, cursors...)
	if q.Limit > 0 {
		stages = append(stages, domain.Limit{N: q.Limit})
	}
	return domain.Pipeline{Stages: stages}
}

// cursorCondition keeps the documents after (start) or before (end) the
// bound position in the query order. Positions compare lexicographically:
// a document passes on the first ordering where it differs from the
// position, and ties on every ordering pass only if the bound is inclusive.
func cursorCondition(b domain.Bound, orderings []domain.Ordering, start bool) domain.Expr {
	n := min(len(b.Position), len(orderings))
	branches := make([]domain.Expr, 0, n)
	for i := range n {
		conds := make([]domain.Expr, 0, i+1)
		for j := range i {
			conds = append(conds, domain.NewFunction(domain.FuncEq, orderings[j].Expr, domain.NewConstant(b.Position[j])))
		}

		after := start == (orderings[i].Direction != domain.Descending)
		var name string
		switch {
		case after && i == n-1 && b.Inclusive:
			name = domain.FuncGte
		case after:
			name = domain.FuncGt
		case i == n-1 && b.Inclusive:
			name = domain.FuncLte
		default:
			name = domain.FuncLt
		}
		conds = append(conds, domain.NewFunction(name, orderings[i].Expr, domain.NewConstant(b.Position[i])))

		if len(conds) == 1 {
			branches = append(branches, conds[0])
		} else {
			branches = append(branches, and(conds...))
		}
	}
	if len(branches) == 1 {
		return branches[0]
	}
	return or(branches...)
}
