package evaluator

import (
	"math"

	"github.com/cockroachdb/apd/v3"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// decimalContext rounds decimal results the way BSON decimal128 does.
var decimalContext = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(34)
	c.MaxExponent = 6144
	c.MinExponent = -6143
	return c
}()

type arithOp struct {
	ints     func(a, b int64) (int64, bool)
	doubles  func(a, b float64) (float64, bool)
	decimals func(d, a, b *apd.Decimal) (apd.Condition, error)
}

var (
	addOp = arithOp{
		ints: func(a, b int64) (int64, bool) {
			r := a + b
			return r, (b >= 0) == (r >= a)
		},
		doubles:  func(a, b float64) (float64, bool) { return a + b, true },
		decimals: decimalContext.Add,
	}
	subtractOp = arithOp{
		ints: func(a, b int64) (int64, bool) {
			r := a - b
			return r, (b >= 0) == (r <= a)
		},
		doubles:  func(a, b float64) (float64, bool) { return a - b, true },
		decimals: decimalContext.Sub,
	}
	multiplyOp = arithOp{
		ints: func(a, b int64) (int64, bool) {
			if a == 0 || b == 0 {
				return 0, true
			}
			if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
				return 0, false
			}
			r := a * b
			return r, r/b == a
		},
		doubles:  func(a, b float64) (float64, bool) { return a * b, true },
		decimals: decimalContext.Mul,
	}
	// integer division truncates; doubles follow IEEE 754, so dividing by
	// a signed zero yields a signed infinity.
	divideOp = arithOp{
		ints: func(a, b int64) (int64, bool) {
			if b == 0 || (a == math.MinInt64 && b == -1) {
				return 0, false
			}
			return a / b, true
		},
		doubles:  func(a, b float64) (float64, bool) { return a / b, true },
		decimals: decimalContext.Quo,
	}
	// the remainder takes the sign of the dividend.
	modOp = arithOp{
		ints: func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a % b, true
		},
		doubles: func(a, b float64) (float64, bool) {
			if b == 0 {
				return 0, false
			}
			return math.Mod(a, b), true
		},
		decimals: decimalContext.Rem,
	}
)

// arithmetic folds numeric operands from left to right. Integers overflow
// into errors, doubles never fail and any decimal operand turns the whole
// operation decimal.
func (e *Evaluator) arithmetic(op arithOp) func([]domain.Value) domain.EvalResult {
	return func(vals []domain.Value) domain.EvalResult {
		acc := vals[0]
		if !acc.IsNumber() {
			return domain.ErrorResult()
		}
		for _, v := range vals[1:] {
			if !v.IsNumber() {
				return domain.ErrorResult()
			}
			var ok bool
			if acc, ok = op.apply(acc, v); !ok {
				return domain.ErrorResult()
			}
		}
		return domain.ValueResult(acc)
	}
}

func (op arithOp) apply(a, b domain.Value) (domain.Value, bool) {
	switch {
	case a.Kind() == domain.KindDecimal128 || b.Kind() == domain.KindDecimal128:
		d := new(apd.Decimal)
		if _, err := op.decimals(d, toDecimal(a), toDecimal(b)); err != nil {
			return domain.Value{}, false
		}
		return domain.Decimal128(d), true
	case a.IsDouble() || b.IsDouble():
		f, ok := op.doubles(a.AsFloat(), b.AsFloat())
		return domain.Double(f), ok
	}
	i, ok := op.ints(a.AsInt(), b.AsInt())
	return domain.Int(i), ok
}

func toDecimal(v domain.Value) *apd.Decimal {
	switch v.Kind() {
	case domain.KindDecimal128:
		return v.AsDecimal()
	case domain.KindInteger, domain.KindInt32:
		return apd.New(v.AsInt(), 0)
	}

	f := v.AsDouble()
	switch {
	case math.IsNaN(f):
		return &apd.Decimal{Form: apd.NaN}
	case math.IsInf(f, 0):
		return &apd.Decimal{Form: apd.Infinite, Negative: f < 0}
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return &apd.Decimal{Form: apd.NaN}
	}
	return d
}
