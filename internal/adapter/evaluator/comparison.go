package evaluator

import (
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

type ternary uint8

const (
	ternaryFalse ternary = iota
	ternaryTrue
	ternaryNull
)

func (t ternary) result() domain.EvalResult {
	if t == ternaryNull {
		return domain.NullResult()
	}
	return domain.BoolResult(t == ternaryTrue)
}

func (e *Evaluator) eq(vals []domain.Value) domain.EvalResult {
	return e.strictEquals(vals[0], vals[1]).result()
}

func (e *Evaluator) neq(vals []domain.Value) domain.EvalResult {
	switch e.strictEquals(vals[0], vals[1]) {
	case ternaryTrue:
		return domain.BoolResult(false)
	case ternaryFalse:
		return domain.BoolResult(true)
	}
	return domain.NullResult()
}

// strictEquals compares like [domain.Comparer.Equal], except that a null
// nested in arrays or maps makes the outcome unknown unless some other
// element already differs.
func (e *Evaluator) strictEquals(a, b domain.Value) ternary {
	if a.IsNull() || b.IsNull() {
		return ternaryNull
	}
	if e.comparer.TypeOrder(a) != e.comparer.TypeOrder(b) {
		return ternaryFalse
	}

	switch {
	case a.IsArray() && b.IsArray():
		ae, be := a.AsArray(), b.AsArray()
		if len(ae) != len(be) {
			return ternaryFalse
		}
		res := ternaryTrue
		for i := range ae {
			switch e.strictEquals(ae[i], be[i]) {
			case ternaryFalse:
				return ternaryFalse
			case ternaryNull:
				res = ternaryNull
			}
		}
		return res
	case a.IsMap() && b.IsMap():
		am, bm := a.AsMap(), b.AsMap()
		if len(am) != len(bm) {
			return ternaryFalse
		}
		res := ternaryTrue
		for k, av := range am {
			bv, ok := bm[k]
			if !ok {
				return ternaryFalse
			}
			switch e.strictEquals(av, bv) {
			case ternaryFalse:
				return ternaryFalse
			case ternaryNull:
				res = ternaryNull
			}
		}
		return res
	}

	if e.comparer.Equal(a, b) {
		return ternaryTrue
	}
	return ternaryFalse
}

// ordering builds the range comparisons. Values of different type order
// and NaN are never in range.
func (e *Evaluator) ordering(accept func(int) bool) func([]domain.Value) domain.EvalResult {
	return func(vals []domain.Value) domain.EvalResult {
		a, b := vals[0], vals[1]
		if e.comparer.TypeOrder(a) != e.comparer.TypeOrder(b) || a.IsNaN() || b.IsNaN() {
			return domain.BoolResult(false)
		}
		return domain.BoolResult(accept(e.comparer.Compare(a, b)))
	}
}
