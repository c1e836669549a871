package evaluator

import (
	"math"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// Representable timestamps go from 0001-01-01T00:00:00Z to
// 9999-12-31T23:59:59.999999999Z.
const (
	minTimestampSeconds = -62135596800
	maxTimestampSeconds = 253402300799
)

const nanosPerSecond = 1_000_000_000

// timeUnit is the number of nanoseconds in a unit.
type timeUnit int64

const (
	microsecond timeUnit = 1_000
	millisecond timeUnit = 1_000_000
	second      timeUnit = nanosPerSecond
	minute               = 60 * second
	hour                 = 60 * minute
	day                  = 24 * hour
)

var timeUnits = map[string]timeUnit{
	"microsecond": microsecond,
	"millisecond": millisecond,
	"second":      second,
	"minute":      minute,
	"hour":        hour,
	"day":         day,
}

func validTimestamp(ts domain.Timestamp) bool {
	return ts.Seconds >= minTimestampSeconds && ts.Seconds <= maxTimestampSeconds &&
		ts.Nanos >= 0 && ts.Nanos < nanosPerSecond
}

func floorDiv(a, b int64) (int64, int64) {
	q, r := a/b, a%b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

// duration splits n units into whole seconds and remaining nanoseconds.
// The nanoseconds are never negative.
func (u timeUnit) duration(n int64) (domain.Timestamp, bool) {
	if u < second {
		perSecond := int64(second / u)
		s, rest := floorDiv(n, perSecond)
		return domain.Timestamp{Seconds: s, Nanos: int32(rest * int64(u))}, true
	}
	s, ok := multiplyOp.ints(n, int64(u/second))
	return domain.Timestamp{Seconds: s}, ok
}

func unixToTimestamp(u timeUnit) func([]domain.Value) domain.EvalResult {
	return func(vals []domain.Value) domain.EvalResult {
		if !vals[0].IsInteger() {
			return domain.ErrorResult()
		}
		ts, ok := u.duration(vals[0].AsInt())
		if !ok || !validTimestamp(ts) {
			return domain.ErrorResult()
		}
		return domain.ValueResult(domain.TimestampValue(ts))
	}
}

// timestampToUnix drops any precision below the unit, rounding down.
func timestampToUnix(u timeUnit) func([]domain.Value) domain.EvalResult {
	return func(vals []domain.Value) domain.EvalResult {
		if !vals[0].IsTimestamp() {
			return domain.ErrorResult()
		}
		ts := vals[0].AsTimestamp()
		if !validTimestamp(ts) {
			return domain.ErrorResult()
		}
		// in range, seconds times a million still fits an int64
		perSecond := int64(second / u)
		return domain.ValueResult(domain.Int(ts.Seconds*perSecond + int64(ts.Nanos)/int64(u)))
	}
}

// timestampShift builds timestamp_add for sign 1 and timestamp_sub for
// sign -1.
func timestampShift(sign int64) func([]domain.Value) domain.EvalResult {
	return func(vals []domain.Value) domain.EvalResult {
		if !vals[0].IsTimestamp() || !vals[1].IsString() || !vals[2].IsInteger() {
			return domain.ErrorResult()
		}
		u, ok := timeUnits[vals[1].AsString()]
		if !ok {
			return domain.ErrorResult()
		}
		amount := vals[2].AsInt()
		if sign < 0 {
			if amount == math.MinInt64 {
				return domain.ErrorResult()
			}
			amount = -amount
		}

		delta, ok := u.duration(amount)
		if !ok {
			return domain.ErrorResult()
		}
		ts := vals[0].AsTimestamp()
		s, ok := addOp.ints(ts.Seconds, delta.Seconds)
		if !ok {
			return domain.ErrorResult()
		}
		nanos := int64(ts.Nanos) + int64(delta.Nanos)
		if nanos >= nanosPerSecond {
			nanos -= nanosPerSecond
			if s, ok = addOp.ints(s, 1); !ok {
				return domain.ErrorResult()
			}
		}

		res := domain.Timestamp{Seconds: s, Nanos: int32(nanos)}
		if !validTimestamp(res) {
			return domain.ErrorResult()
		}
		return domain.ValueResult(domain.TimestampValue(res))
	}
}

// documentID returns the last segment of a document reference.
func documentID(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsReference() {
		return domain.ErrorResult()
	}
	key, err := domain.ParseDocumentKey(vals[0].AsString())
	if err != nil {
		return domain.ErrorResult()
	}
	return domain.ValueResult(domain.String(key.ID()))
}
