package hasher

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// writeHashKey writes the form of v hashed by [Hasher.Hash]. Unlike the
// canonical id, it starts with the type order of v and writes every member of
// the number family as the float64 it rounds to.
func writeHashKey(sb *strings.Builder, v domain.Value) {
	sb.WriteString(strconv.FormatInt(int64(v.Kind().TypeOrder()), 10))
	sb.WriteByte(':')

	switch v.Kind() {
	case domain.KindNull, domain.KindMinKey, domain.KindMaxKey, domain.KindMaxValue:
	case domain.KindBoolean:
		sb.WriteString(strconv.FormatBool(v.AsBool()))
	case domain.KindInteger, domain.KindInt32, domain.KindDouble, domain.KindDecimal128:
		writeFloatKey(sb, v.AsFloat())
	case domain.KindTimestamp, domain.KindServerTimestamp:
		ts := v.AsTimestamp()
		sb.WriteString(strconv.FormatInt(ts.Seconds, 10))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatInt(int64(ts.Nanos), 10))
	case domain.KindBsonTimestamp:
		ts := v.AsBsonTimestamp()
		sb.WriteString(strconv.FormatUint(uint64(ts.Seconds), 10))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatUint(uint64(ts.Increment), 10))
	case domain.KindString, domain.KindBsonObjectID, domain.KindReference:
		sb.WriteString(strconv.Quote(v.AsString()))
	case domain.KindBytes:
		sb.WriteString(strconv.Quote(string(v.AsBytes())))
	case domain.KindBsonBinary:
		b := v.AsBsonBinary()
		sb.WriteString(strconv.Itoa(int(b.Subtype)))
		sb.WriteByte(',')
		sb.WriteString(strconv.Quote(string(b.Data)))
	case domain.KindGeoPoint:
		g := v.AsGeoPoint()
		writeFloatKey(sb, g.Latitude)
		sb.WriteByte(',')
		writeFloatKey(sb, g.Longitude)
	case domain.KindRegex:
		r := v.AsRegex()
		sb.WriteString(strconv.Quote(r.Pattern))
		sb.WriteByte(',')
		sb.WriteString(strconv.Quote(r.Options))
	case domain.KindArray:
		sb.WriteByte('[')
		for i, e := range v.AsArray() {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeHashKey(sb, e)
		}
		sb.WriteByte(']')
	case domain.KindVector:
		sb.WriteByte('[')
		for i, f := range v.AsVector() {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeFloatKey(sb, f)
		}
		sb.WriteByte(']')
	case domain.KindMap:
		m := v.AsMap()
		sb.WriteByte('{')
		for i, k := range slices.Sorted(maps.Keys(m)) {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			writeHashKey(sb, m[k])
		}
		sb.WriteByte('}')
	default:
		panic("invalid value kind " + v.Kind().String())
	}
}

// writeFloatKey writes f with every NaN and both zeros folded together,
// matching how the comparer orders them.
func writeFloatKey(sb *strings.Builder, f float64) {
	switch {
	case math.IsNaN(f):
		sb.WriteString("NaN")
	case f == 0:
		sb.WriteByte('0')
	default:
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
}
