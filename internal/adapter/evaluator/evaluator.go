// Package evaluator contains the default [domain.Evaluator] implementation,
// an interpreter running expression trees against single documents.
package evaluator

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/fieldnavigator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/metrics"
	"golang.org/x/text/language"
)

// variadic is the maxParams of functions without an upper bound.
const variadic = -1

type evalFn func(domain.Document, []domain.Expr) domain.EvalResult

type function struct {
	minParams int
	maxParams int
	eval      evalFn
}

// Evaluator implements [domain.Evaluator].
type Evaluator struct {
	comparer       domain.Comparer
	fieldNavigator domain.FieldNavigator
	lang           language.Tag
	functions      map[string]function
}

// NewEvaluator returns a new implementation of domain.Evaluator.
func NewEvaluator(options ...domain.EvaluatorOption) domain.Evaluator {
	opts := domain.EvaluatorOptions{
		Comparer:       comparer.NewComparer(),
		FieldNavigator: fieldnavigator.NewFieldNavigator(),
	}
	for _, option := range options {
		option(&opts)
	}

	lang := language.Und
	if opts.Language != "" {
		tag, err := language.Parse(opts.Language)
		if err != nil {
			glog.Warningf("unknown language %q, using the root locale: %v", opts.Language, err)
		} else {
			lang = tag
		}
	}

	e := &Evaluator{
		comparer:       opts.Comparer,
		fieldNavigator: opts.FieldNavigator,
		lang:           lang,
	}
	e.functions = map[string]function{
		domain.FuncAdd:      {2, variadic, e.strict(e.arithmetic(addOp))},
		domain.FuncSubtract: {2, 2, e.strict(e.arithmetic(subtractOp))},
		domain.FuncMultiply: {2, variadic, e.strict(e.arithmetic(multiplyOp))},
		domain.FuncDivide:   {2, 2, e.strict(e.arithmetic(divideOp))},
		domain.FuncMod:      {2, 2, e.strict(e.arithmetic(modOp))},

		domain.FuncEq:  {2, 2, e.strict(e.eq)},
		domain.FuncNeq: {2, 2, e.strict(e.neq)},
		domain.FuncLt:  {2, 2, e.strict(e.ordering(func(c int) bool { return c < 0 }))},
		domain.FuncLte: {2, 2, e.strict(e.ordering(func(c int) bool { return c <= 0 }))},
		domain.FuncGt:  {2, 2, e.strict(e.ordering(func(c int) bool { return c > 0 }))},
		domain.FuncGte: {2, 2, e.strict(e.ordering(func(c int) bool { return c >= 0 }))},

		domain.FuncEqAny:          {2, 2, e.eqAny},
		domain.FuncNotEqAny:       {2, 2, e.notEqAny},
		domain.FuncAnd:            {1, variadic, e.and},
		domain.FuncOr:             {1, variadic, e.or},
		domain.FuncXor:            {1, variadic, e.xor},
		domain.FuncNot:            {1, 1, e.not},
		domain.FuncCond:           {3, 3, e.cond},
		domain.FuncExists:         {1, 1, e.exists},
		domain.FuncIsAbsent:       {1, 1, e.isAbsent},
		domain.FuncIsNaN:          {1, 1, e.isNaN},
		domain.FuncIsNotNaN:       {1, 1, e.isNotNaN},
		domain.FuncIsNull:         {1, 1, e.isNull},
		domain.FuncIsNotNull:      {1, 1, e.isNotNull},
		domain.FuncIsError:        {1, 1, e.isError},
		domain.FuncIfError:        {2, 2, e.ifError},
		domain.FuncLogicalMaximum: {1, variadic, e.logicalExtreme(1)},
		domain.FuncLogicalMinimum: {1, variadic, e.logicalExtreme(-1)},

		domain.FuncStrConcat:     {1, variadic, e.strict(e.strConcat)},
		domain.FuncStrContains:   {2, 2, e.strict(stringTest(strContains))},
		domain.FuncStartsWith:    {2, 2, e.strict(stringTest(startsWith))},
		domain.FuncEndsWith:      {2, 2, e.strict(stringTest(endsWith))},
		domain.FuncLike:          {2, 2, e.strict(e.like)},
		domain.FuncRegexContains: {2, 2, e.strict(e.regexContains)},
		domain.FuncRegexMatch:    {2, 2, e.strict(e.regexMatch)},
		domain.FuncToLower:       {1, 1, e.strict(e.toLower)},
		domain.FuncToUpper:       {1, 1, e.strict(e.toUpper)},
		domain.FuncTrim:          {1, 1, e.strict(trim)},
		domain.FuncCharLength:    {1, 1, e.strict(charLength)},
		domain.FuncByteLength:    {1, 1, e.strict(byteLength)},
		domain.FuncReverse:       {1, 1, e.strict(reverse)},
		domain.FuncReplaceFirst:  {3, 3, e.strict(replace(1))},
		domain.FuncReplaceAll:    {3, 3, e.strict(replace(-1))},
		domain.FuncSubstr:        {2, 3, e.strict(substr)},

		domain.FuncArrayContains:    {2, 2, e.strict(e.arrayContains)},
		domain.FuncArrayContainsAll: {2, 2, e.arrayContainsAll},
		domain.FuncArrayContainsAny: {2, 2, e.arrayContainsAny},
		domain.FuncArrayLength:      {1, 1, e.strict(arrayLength)},
		domain.FuncArrayReverse:     {1, 1, e.strict(arrayReverse)},
		domain.FuncArrayConcat:      {1, variadic, e.strict(arrayConcat)},
		domain.FuncArrayGet:         {2, 2, e.arrayGet},

		domain.FuncMapGet:    {2, 2, e.mapGet},
		domain.FuncMapMerge:  {1, variadic, e.strict(mapMerge)},
		domain.FuncMapRemove: {2, variadic, e.strict(mapRemove)},

		domain.FuncCosineDistance:    {2, 2, e.strict(distance(cosineDistance))},
		domain.FuncDotProduct:        {2, 2, e.strict(distance(dotProduct))},
		domain.FuncEuclideanDistance: {2, 2, e.strict(distance(euclideanDistance))},
		domain.FuncManhattanDistance: {2, 2, e.strict(distance(manhattanDistance))},
		domain.FuncVectorLength:      {1, 1, e.strict(vectorLength)},

		domain.FuncUnixMicrosToTs:  {1, 1, e.strict(unixToTimestamp(microsecond))},
		domain.FuncUnixMillisToTs:  {1, 1, e.strict(unixToTimestamp(millisecond))},
		domain.FuncUnixSecondsToTs: {1, 1, e.strict(unixToTimestamp(second))},
		domain.FuncTsToUnixMicros:  {1, 1, e.strict(timestampToUnix(microsecond))},
		domain.FuncTsToUnixMillis:  {1, 1, e.strict(timestampToUnix(millisecond))},
		domain.FuncTsToUnixSeconds: {1, 1, e.strict(timestampToUnix(second))},
		domain.FuncTimestampAdd:    {3, 3, e.strict(timestampShift(1))},
		domain.FuncTimestampSub:    {3, 3, e.strict(timestampShift(-1))},

		domain.FuncDocumentID: {1, 1, e.strict(documentID)},

		// aggregate markers have no per-document value
		domain.FuncCount:   {0, 1, aggregate},
		domain.FuncSum:     {1, 1, aggregate},
		domain.FuncAvg:     {1, 1, aggregate},
		domain.FuncMinimum: {1, 1, aggregate},
		domain.FuncMaximum: {1, 1, aggregate},
	}
	return e
}

// Evaluate implements [domain.Evaluator]. It panics on expression variants
// and function names it does not know, and on calls with the wrong number
// of parameters.
func (e *Evaluator) Evaluate(expr domain.Expr, doc domain.Document) domain.EvalResult {
	switch x := expr.(type) {
	case domain.Field:
		return e.field(x, doc)
	case domain.Constant:
		return domain.ValueResult(x.Value)
	case domain.Function:
		return e.call(x, doc)
	case domain.ListOfExprs:
		return e.list(x, doc)
	}
	panic(fmt.Sprintf("unknown expression type %T", expr))
}

// Check walks expr and returns an [domain.ErrInvalidPipeline] for the first
// expression Evaluate would panic on.
func (e *Evaluator) Check(expr domain.Expr) error {
	switch x := expr.(type) {
	case domain.Field, domain.Constant:
		return nil
	case domain.Function:
		f, ok := e.functions[x.Name]
		if !ok {
			return domain.ErrInvalidPipeline{Reason: fmt.Sprintf("unknown function %q", x.Name)}
		}
		n := len(x.Params)
		if n < f.minParams || (f.maxParams != variadic && n > f.maxParams) {
			return domain.ErrInvalidPipeline{
				Reason: fmt.Sprintf("function %q called with %d parameters", x.Name, n),
			}
		}
		for _, p := range x.Params {
			if err := e.Check(p); err != nil {
				return err
			}
		}
		return nil
	case domain.ListOfExprs:
		for _, p := range x.Exprs {
			if err := e.Check(p); err != nil {
				return err
			}
		}
		return nil
	}
	return domain.ErrInvalidPipeline{Reason: fmt.Sprintf("unknown expression type %T", expr)}
}

func (e *Evaluator) field(f domain.Field, doc domain.Document) domain.EvalResult {
	if len(f.Path) == 1 {
		switch f.Path[0] {
		case domain.KeyFieldName:
			if doc.Key().IsEmpty() {
				return domain.UnsetResult()
			}
			return domain.ValueResult(domain.Reference(doc.Key().String()))
		case domain.UpdateTimeFieldName:
			return domain.ValueResult(domain.TimestampValue(doc.UpdateTime()))
		case domain.CreateTimeFieldName:
			return domain.ValueResult(domain.TimestampValue(doc.CreateTime()))
		}
	}

	v, ok := e.fieldNavigator.GetField(doc.Data(), f.Path)
	if !ok {
		return domain.UnsetResult()
	}
	return domain.ValueResult(v)
}

func (e *Evaluator) call(fn domain.Function, doc domain.Document) domain.EvalResult {
	f, ok := e.functions[fn.Name]
	if !ok {
		panic(fmt.Sprintf("unknown function %q", fn.Name))
	}
	n := len(fn.Params)
	if n < f.minParams || (f.maxParams != variadic && n > f.maxParams) {
		panic(fmt.Sprintf("function %q called with %d parameters", fn.Name, n))
	}
	return f.eval(doc, fn.Params)
}

// list evaluates an array literal. Null elements are kept.
func (e *Evaluator) list(l domain.ListOfExprs, doc domain.Document) domain.EvalResult {
	vals := make([]domain.Value, len(l.Exprs))
	for i, x := range l.Exprs {
		r := e.Evaluate(x, doc)
		if r.IsErrorOrUnset() {
			return domain.ErrorResult()
		}
		vals[i] = r.Value()
	}
	return domain.ValueResult(domain.Array(vals...))
}

// operands evaluates every parameter. If any of them is an error or unset
// the call is an error, otherwise if any of them is null the call is null.
// The last result reports whether vals can be used.
func (e *Evaluator) operands(doc domain.Document, params []domain.Expr) ([]domain.Value, domain.EvalResult, bool) {
	vals := make([]domain.Value, len(params))
	null := false
	for i, p := range params {
		r := e.Evaluate(p, doc)
		switch r.Kind() {
		case domain.ResultError, domain.ResultUnset:
			return nil, domain.ErrorResult(), false
		case domain.ResultNull:
			null = true
		}
		vals[i] = r.Value()
	}
	if null {
		return nil, domain.NullResult(), false
	}
	return vals, domain.EvalResult{}, true
}

// strict wraps functions that only run over concrete values.
func (e *Evaluator) strict(fn func([]domain.Value) domain.EvalResult) evalFn {
	return func(doc domain.Document, params []domain.Expr) domain.EvalResult {
		vals, res, ok := e.operands(doc, params)
		if !ok {
			return res
		}
		return fn(vals)
	}
}

// candidates evaluates the right side of a membership test. List literals
// are evaluated element by element so that a failing element does not hide
// a match; any other expression must yield an array.
func (e *Evaluator) candidates(doc domain.Document, expr domain.Expr) ([]domain.EvalResult, bool) {
	if l, ok := expr.(domain.ListOfExprs); ok {
		res := make([]domain.EvalResult, len(l.Exprs))
		for i, x := range l.Exprs {
			res[i] = e.Evaluate(x, doc)
		}
		return res, true
	}

	r := e.Evaluate(expr, doc)
	if !r.IsValue() || !r.Value().IsArray() {
		return nil, false
	}
	elems := r.Value().AsArray()
	res := make([]domain.EvalResult, len(elems))
	for i, v := range elems {
		res[i] = domain.ValueResult(v)
	}
	return res, true
}

func (e *Evaluator) invalidPattern(fn, pattern string, err error) domain.EvalResult {
	glog.Warningf("invalid %s pattern %q: %v", fn, pattern, err)
	metrics.EvaluationErrors.WithLabelValues(fn).Inc()
	return domain.ErrorResult()
}

func aggregate(domain.Document, []domain.Expr) domain.EvalResult {
	return domain.ErrorResult()
}
