package evaluator

import (
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// and is false as soon as any operand is false, even if other operands
// fail. Otherwise any operand that is not a boolean makes it an error.
func (e *Evaluator) and(doc domain.Document, params []domain.Expr) domain.EvalResult {
	failed := false
	for _, p := range params {
		r := e.Evaluate(p, doc)
		switch {
		case r.IsFalse():
			return domain.BoolResult(false)
		case !r.IsTrue():
			failed = true
		}
	}
	if failed {
		return domain.ErrorResult()
	}
	return domain.BoolResult(true)
}

// or mirrors and: true wins over every failure.
func (e *Evaluator) or(doc domain.Document, params []domain.Expr) domain.EvalResult {
	failed := false
	for _, p := range params {
		r := e.Evaluate(p, doc)
		switch {
		case r.IsTrue():
			return domain.BoolResult(true)
		case !r.IsFalse():
			failed = true
		}
	}
	if failed {
		return domain.ErrorResult()
	}
	return domain.BoolResult(false)
}

func (e *Evaluator) xor(doc domain.Document, params []domain.Expr) domain.EvalResult {
	res := false
	for _, p := range params {
		r := e.Evaluate(p, doc)
		if !r.IsValue() || !r.Value().IsBoolean() {
			return domain.ErrorResult()
		}
		res = res != r.Value().AsBool()
	}
	return domain.BoolResult(res)
}

func (e *Evaluator) not(doc domain.Document, params []domain.Expr) domain.EvalResult {
	r := e.Evaluate(params[0], doc)
	if !r.IsValue() || !r.Value().IsBoolean() {
		return domain.ErrorResult()
	}
	return domain.BoolResult(!r.Value().AsBool())
}

func (e *Evaluator) cond(doc domain.Document, params []domain.Expr) domain.EvalResult {
	if e.Evaluate(params[0], doc).IsTrue() {
		return e.Evaluate(params[1], doc)
	}
	return e.Evaluate(params[2], doc)
}

// exists is true for every present value, null included.
func (e *Evaluator) exists(doc domain.Document, params []domain.Expr) domain.EvalResult {
	r := e.Evaluate(params[0], doc)
	switch r.Kind() {
	case domain.ResultError:
		return domain.ErrorResult()
	case domain.ResultUnset:
		return domain.BoolResult(false)
	}
	return domain.BoolResult(true)
}

func (e *Evaluator) isAbsent(doc domain.Document, params []domain.Expr) domain.EvalResult {
	r := e.Evaluate(params[0], doc)
	if r.IsError() {
		return domain.ErrorResult()
	}
	return domain.BoolResult(r.IsUnset())
}

// isNaN only accepts numbers. Null is not a number either.
func (e *Evaluator) isNaN(doc domain.Document, params []domain.Expr) domain.EvalResult {
	r := e.Evaluate(params[0], doc)
	if !r.IsValue() || !r.Value().IsNumber() {
		return domain.ErrorResult()
	}
	return domain.BoolResult(r.Value().IsNaN())
}

func (e *Evaluator) isNotNaN(doc domain.Document, params []domain.Expr) domain.EvalResult {
	r := e.isNaN(doc, params)
	if r.IsError() {
		return r
	}
	return domain.BoolResult(r.IsFalse())
}

func (e *Evaluator) isNull(doc domain.Document, params []domain.Expr) domain.EvalResult {
	return domain.BoolResult(e.Evaluate(params[0], doc).IsNull())
}

func (e *Evaluator) isNotNull(doc domain.Document, params []domain.Expr) domain.EvalResult {
	return domain.BoolResult(e.Evaluate(params[0], doc).IsValue())
}

func (e *Evaluator) isError(doc domain.Document, params []domain.Expr) domain.EvalResult {
	return domain.BoolResult(e.Evaluate(params[0], doc).IsError())
}

func (e *Evaluator) ifError(doc domain.Document, params []domain.Expr) domain.EvalResult {
	if r := e.Evaluate(params[0], doc); !r.IsError() {
		return r
	}
	return e.Evaluate(params[1], doc)
}

// eqAny is null for a null search value. A failing candidate only matters
// when no other candidate matches.
func (e *Evaluator) eqAny(doc domain.Document, params []domain.Expr) domain.EvalResult {
	search := e.Evaluate(params[0], doc)
	switch {
	case search.IsErrorOrUnset():
		return domain.ErrorResult()
	case search.IsNull():
		return domain.NullResult()
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
		if e.comparer.Equal(search.Value(), c.Value()) {
			return domain.BoolResult(true)
		}
	}
	if failed {
		return domain.ErrorResult()
	}
	return domain.BoolResult(false)
}

func (e *Evaluator) notEqAny(doc domain.Document, params []domain.Expr) domain.EvalResult {
	r := e.eqAny(doc, params)
	if !r.IsValue() {
		return r
	}
	return domain.BoolResult(r.IsFalse())
}

// logicalExtreme returns logical_maximum for sign 1 and logical_minimum
// for sign -1. Null, unset and failing operands are skipped and the first
// of equal operands wins.
func (e *Evaluator) logicalExtreme(sign int) evalFn {
	return func(doc domain.Document, params []domain.Expr) domain.EvalResult {
		var best domain.Value
		found := false
		for _, p := range params {
			r := e.Evaluate(p, doc)
			if !r.IsValue() {
				continue
			}
			if !found || e.comparer.Compare(r.Value(), best)*sign > 0 {
				best = r.Value()
				found = true
			}
		}
		if !found {
			return domain.NullResult()
		}
		return domain.ValueResult(best)
	}
}
