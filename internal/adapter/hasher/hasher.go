// Package hasher contains the default [domain.Hasher] implementation, which
// produces canonical ids and order-consistent hashes of values.
package hasher

import (
	"encoding/base64"
	"hash/fnv"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// Hasher implements domain.Hasher.
type Hasher struct{}

// NewHasher returns a new implementation of domain.Hasher.
func NewHasher() domain.Hasher {
	return &Hasher{}
}

// Hash implements domain.Hasher. Values that compare equal under the total
// order hash the same, so 1, 1.0, int32 1 and decimal 1 share a hash, as do
// null and the min key.
func (h *Hasher) Hash(v domain.Value) uint64 {
	var sb strings.Builder
	writeHashKey(&sb, v)
	hasher := fnv.New64a()
	// hash.Hash never returns an error on Write
	_, _ = hasher.Write([]byte(sb.String()))
	return hasher.Sum64()
}

// CanonicalID implements domain.Hasher. Extended kinds are written in their
// reserved-key map shape. Strings are written as they are, so a string may
// share the canonical id of a value of another kind: "1" and 1, "true" and
// true, "null" and null.
func (h *Hasher) CanonicalID(v domain.Value) string {
	var sb strings.Builder
	h.canonify(&sb, v)
	return sb.String()
}

func (h *Hasher) canonify(sb *strings.Builder, v domain.Value) {
	switch v.Kind() {
	case domain.KindNull:
		sb.WriteString("null")
	case domain.KindBoolean:
		sb.WriteString(strconv.FormatBool(v.AsBool()))
	case domain.KindInteger:
		sb.WriteString(strconv.FormatInt(v.AsInt(), 10))
	case domain.KindDouble:
		sb.WriteString(FormatNumber(v.AsDouble()))
	case domain.KindTimestamp:
		ts := v.AsTimestamp()
		sb.WriteString("time(")
		sb.WriteString(strconv.FormatInt(ts.Seconds, 10))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatInt(int64(ts.Nanos), 10))
		sb.WriteByte(')')
	case domain.KindString:
		sb.WriteString(v.AsString())
	case domain.KindBytes:
		sb.WriteString(base64.StdEncoding.EncodeToString(v.AsBytes()))
	case domain.KindReference:
		sb.WriteString(canonifyReference(v.AsString()))
	case domain.KindGeoPoint:
		g := v.AsGeoPoint()
		sb.WriteString("geo(")
		sb.WriteString(FormatNumber(g.Latitude))
		sb.WriteByte(',')
		sb.WriteString(FormatNumber(g.Longitude))
		sb.WriteByte(')')
	case domain.KindArray:
		sb.WriteByte('[')
		for i, e := range v.AsArray() {
			if i > 0 {
				sb.WriteByte(',')
			}
			h.canonify(sb, e)
		}
		sb.WriteByte(']')
	case domain.KindMap:
		h.canonifyMap(sb, v.AsMap())
	default:
		wire, ok := v.WireMap()
		if !ok {
			panic("invalid value kind " + v.Kind().String())
		}
		h.canonifyMap(sb, wire)
	}
}

func (h *Hasher) canonifyMap(sb *strings.Builder, m map[string]domain.Value) {
	sb.WriteByte('{')
	for i, k := range slices.Sorted(maps.Keys(m)) {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte(':')
		h.canonify(sb, m[k])
	}
	sb.WriteByte('}')
}

func canonifyReference(ref string) string {
	if k, err := domain.ParseDocumentKey(ref); err == nil {
		return k.String()
	}
	return ref
}

// FormatNumber formats a double the way JavaScript prints numbers: integral
// values have no fraction, very large and very small magnitudes use an
// exponent and -0 prints as 0.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[0]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + string(sign) + exp
}
