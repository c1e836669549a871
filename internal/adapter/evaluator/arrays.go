package evaluator

import (
	"maps"
	"slices"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

func (e *Evaluator) contains(haystack []domain.Value, v domain.Value) bool {
	return slices.ContainsFunc(haystack, func(h domain.Value) bool {
		return e.comparer.Equal(h, v)
	})
}

func (e *Evaluator) arrayContains(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsArray() {
		return domain.ErrorResult()
	}
	return domain.BoolResult(e.contains(vals[0].AsArray(), vals[1]))
}

// haystack evaluates the array searched by the array_contains family.
func (e *Evaluator) haystack(doc domain.Document, expr domain.Expr) ([]domain.Value, domain.EvalResult, bool) {
	r := e.Evaluate(expr, doc)
	switch {
	case r.IsNull():
		return nil, r, false
	case !r.IsValue() || !r.Value().IsArray():
		return nil, domain.ErrorResult(), false
	}
	return r.Value().AsArray(), domain.EvalResult{}, true
}

func (e *Evaluator) arrayContainsAny(doc domain.Document, params []domain.Expr) domain.EvalResult {
	haystack, res, ok := e.haystack(doc, params[0])
	if !ok {
		return res
	}
	cands, ok := e.candidates(doc, params[1])
	if !ok {
		return domain.ErrorResult()
	}

	failed := false
	for _, c := range cands {
		if c.IsErrorOrUnset() {
			failed = true
			continue
		}
		if e.contains(haystack, c.Value()) {
			return domain.BoolResult(true)
		}
	}
	if failed {
		return domain.ErrorResult()
	}
	return domain.BoolResult(false)
}

func (e *Evaluator) arrayContainsAll(doc domain.Document, params []domain.Expr) domain.EvalResult {
	haystack, res, ok := e.haystack(doc, params[0])
	if !ok {
		return res
	}
	cands, ok := e.candidates(doc, params[1])
	if !ok {
		return domain.ErrorResult()
	}

	failed := false
	for _, c := range cands {
		if c.IsErrorOrUnset() {
			failed = true
			continue
		}
		if !e.contains(haystack, c.Value()) {
			return domain.BoolResult(false)
		}
	}
	if failed {
		return domain.ErrorResult()
	}
	return domain.BoolResult(true)
}

func arrayLength(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsArray() {
		return domain.ErrorResult()
	}
	return domain.ValueResult(domain.Int(int64(len(vals[0].AsArray()))))
}

func arrayReverse(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsArray() {
		return domain.ErrorResult()
	}
	res := slices.Clone(vals[0].AsArray())
	slices.Reverse(res)
	return domain.ValueResult(domain.Array(res...))
}

func arrayConcat(vals []domain.Value) domain.EvalResult {
	var res []domain.Value
	for _, v := range vals {
		if !v.IsArray() {
			return domain.ErrorResult()
		}
		res = append(res, v.AsArray()...)
	}
	return domain.ValueResult(domain.Array(res...))
}

// arrayGet reads an element by offset, counting from the end when the
// offset is negative. Offsets out of range are unset.
func (e *Evaluator) arrayGet(doc domain.Document, params []domain.Expr) domain.EvalResult {
	vals, res, ok := e.operands(doc, params)
	if !ok {
		return res
	}
	if !vals[0].IsArray() || !vals[1].IsInteger() {
		return domain.ErrorResult()
	}
	arr, off := vals[0].AsArray(), vals[1].AsInt()
	if off < 0 {
		off += int64(len(arr))
	}
	if off < 0 || off >= int64(len(arr)) {
		return domain.UnsetResult()
	}
	return domain.ValueResult(arr[off])
}

// mapGet returns unset for keys the map does not have.
func (e *Evaluator) mapGet(doc domain.Document, params []domain.Expr) domain.EvalResult {
	vals, res, ok := e.operands(doc, params)
	if !ok {
		return res
	}
	if !vals[0].IsMap() || !vals[1].IsString() {
		return domain.ErrorResult()
	}
	v, ok := vals[0].AsMap()[vals[1].AsString()]
	if !ok {
		return domain.UnsetResult()
	}
	return domain.ValueResult(v)
}

// mapMerge merges maps left to right; later keys win.
func mapMerge(vals []domain.Value) domain.EvalResult {
	res := map[string]domain.Value{}
	for _, v := range vals {
		if !v.IsMap() {
			return domain.ErrorResult()
		}
		maps.Copy(res, v.AsMap())
	}
	return domain.ValueResult(domain.PlainMap(res))
}

func mapRemove(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsMap() {
		return domain.ErrorResult()
	}
	res := maps.Clone(vals[0].AsMap())
	for _, k := range vals[1:] {
		if !k.IsString() {
			return domain.ErrorResult()
		}
		delete(res, k.AsString())
	}
	return domain.ValueResult(domain.PlainMap(res))
}
