// Package comparer contains the default [domain.Comparer] implementation: the
// total order and equality relation over document values.
package comparer

import (
	"bytes"
	"cmp"
	"fmt"
	"maps"
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// Comparer implements domain.Comparer.
type Comparer struct{}

// NewComparer returns a new implementation of domain.Comparer.
func NewComparer() domain.Comparer {
	return &Comparer{}
}

// TypeOrder implements domain.Comparer.
func (c *Comparer) TypeOrder(v domain.Value) domain.TypeOrder {
	return v.Kind().TypeOrder()
}

// Equal implements domain.Comparer. NaN is never equal to anything and
// zeros of different signs are only equal when neither is a double -0.
func (c *Comparer) Equal(a, b domain.Value) bool {
	if c.TypeOrder(a) != c.TypeOrder(b) {
		return false
	}

	switch a.Kind() {
	case domain.KindNull, domain.KindMinKey, domain.KindMaxKey, domain.KindMaxValue:
		return true
	case domain.KindBoolean:
		return a.AsBool() == b.AsBool()
	case domain.KindInteger, domain.KindInt32, domain.KindDouble, domain.KindDecimal128:
		return c.numberEquals(a, b)
	case domain.KindTimestamp, domain.KindServerTimestamp:
		return a.AsTimestamp() == b.AsTimestamp()
	case domain.KindBsonTimestamp:
		return a.AsBsonTimestamp() == b.AsBsonTimestamp()
	case domain.KindString, domain.KindReference, domain.KindBsonObjectID:
		return a.AsString() == b.AsString()
	case domain.KindBytes:
		return bytes.Equal(a.AsBytes(), b.AsBytes())
	case domain.KindBsonBinary:
		ab, bb := a.AsBsonBinary(), b.AsBsonBinary()
		return ab.Subtype == bb.Subtype && bytes.Equal(ab.Data, bb.Data)
	case domain.KindGeoPoint:
		return a.AsGeoPoint() == b.AsGeoPoint()
	case domain.KindRegex:
		return a.AsRegex() == b.AsRegex()
	case domain.KindArray:
		return slices.EqualFunc(a.AsArray(), b.AsArray(), c.Equal)
	case domain.KindVector:
		return slices.EqualFunc(a.AsVector(), b.AsVector(), doubleEquals)
	case domain.KindMap:
		return c.mapEquals(a.AsMap(), b.AsMap())
	}
	panic(fmt.Sprintf("invalid value kind %s", a.Kind()))
}

// Compare implements domain.Comparer. Values are ordered by type order
// first. NaN sorts before every other number.
func (c *Comparer) Compare(a, b domain.Value) int {
	if comp := cmp.Compare(c.TypeOrder(a), c.TypeOrder(b)); comp != 0 {
		return comp
	}

	switch a.Kind() {
	case domain.KindNull, domain.KindMinKey, domain.KindMaxKey, domain.KindMaxValue:
		return 0
	case domain.KindBoolean:
		return compareBool(a.AsBool(), b.AsBool())
	case domain.KindInteger, domain.KindInt32, domain.KindDouble, domain.KindDecimal128:
		return c.compareNumbers(a, b)
	case domain.KindTimestamp, domain.KindServerTimestamp:
		return a.AsTimestamp().Compare(b.AsTimestamp())
	case domain.KindBsonTimestamp:
		at, bt := a.AsBsonTimestamp(), b.AsBsonTimestamp()
		if comp := cmp.Compare(at.Seconds, bt.Seconds); comp != 0 {
			return comp
		}
		return cmp.Compare(at.Increment, bt.Increment)
	case domain.KindString, domain.KindBsonObjectID:
		return strings.Compare(a.AsString(), b.AsString())
	case domain.KindBytes:
		return bytes.Compare(a.AsBytes(), b.AsBytes())
	case domain.KindBsonBinary:
		ab, bb := a.AsBsonBinary(), b.AsBsonBinary()
		if comp := cmp.Compare(ab.Subtype, bb.Subtype); comp != 0 {
			return comp
		}
		return bytes.Compare(ab.Data, bb.Data)
	case domain.KindReference:
		return compareReferences(a.AsString(), b.AsString())
	case domain.KindGeoPoint:
		ag, bg := a.AsGeoPoint(), b.AsGeoPoint()
		if comp := cmp.Compare(ag.Latitude, bg.Latitude); comp != 0 {
			return comp
		}
		return cmp.Compare(ag.Longitude, bg.Longitude)
	case domain.KindRegex:
		ar, br := a.AsRegex(), b.AsRegex()
		if comp := strings.Compare(ar.Pattern, br.Pattern); comp != 0 {
			return comp
		}
		return strings.Compare(ar.Options, br.Options)
	case domain.KindArray:
		return c.compareArray(a.AsArray(), b.AsArray())
	case domain.KindVector:
		av, bv := a.AsVector(), b.AsVector()
		if comp := cmp.Compare(len(av), len(bv)); comp != 0 {
			return comp
		}
		// cmp.Compare already sorts NaN first
		return slices.Compare(av, bv)
	case domain.KindMap:
		return c.compareMaps(a.AsMap(), b.AsMap())
	}
	panic(fmt.Sprintf("invalid value kind %s", a.Kind()))
}

func (c *Comparer) compareArray(a, b []domain.Value) int {
	for i := range min(len(a), len(b)) {
		if comp := c.Compare(a[i], b[i]); comp != 0 {
			return comp
		}
	}

	// Common section was identical, longest one wins
	return cmp.Compare(len(a), len(b))
}

func (c *Comparer) compareMaps(a, b map[string]domain.Value) int {
	aKeys := slices.Sorted(maps.Keys(a))
	bKeys := slices.Sorted(maps.Keys(b))

	for i := range min(len(aKeys), len(bKeys)) {
		if comp := strings.Compare(aKeys[i], bKeys[i]); comp != 0 {
			return comp
		}
		if comp := c.Compare(a[aKeys[i]], b[bKeys[i]]); comp != 0 {
			return comp
		}
	}

	return cmp.Compare(len(aKeys), len(bKeys))
}

func (c *Comparer) mapEquals(a, b map[string]domain.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !c.Equal(av, bv) {
			return false
		}
	}
	return true
}

func (c *Comparer) numberEquals(a, b domain.Value) bool {
	if a.IsNaN() || b.IsNaN() {
		return false
	}
	if a.IsInteger() && b.IsInteger() {
		return a.AsInt() == b.AsInt()
	}
	if a.IsDouble() && b.IsDouble() {
		return doubleEquals(a.AsDouble(), b.AsDouble())
	}
	if isNegativeZero(a) != isNegativeZero(b) && isZero(a) && isZero(b) {
		return false
	}
	return c.compareNumbers(a, b) == 0
}

// compareNumbers orders the number family. Integers and doubles are compared
// exactly through big.Float, decimals through apd.
func (c *Comparer) compareNumbers(a, b domain.Value) int {
	aNaN, bNaN := a.IsNaN(), b.IsNaN()
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	}

	if a.IsInteger() && b.IsInteger() {
		return cmp.Compare(a.AsInt(), b.AsInt())
	}

	if a.Kind() == domain.KindDecimal128 || b.Kind() == domain.KindDecimal128 {
		return asDecimal(a).Cmp(asDecimal(b))
	}

	return asBigFloat(a).Cmp(asBigFloat(b))
}

func asBigFloat(v domain.Value) *big.Float {
	r := new(big.Float)
	if v.IsInteger() {
		return r.SetInt64(v.AsInt())
	}
	return r.SetFloat64(v.AsDouble())
}

func asDecimal(v domain.Value) *apd.Decimal {
	switch v.Kind() {
	case domain.KindDecimal128:
		return v.AsDecimal()
	case domain.KindInteger, domain.KindInt32:
		return apd.New(v.AsInt(), 0)
	}
	f := v.AsDouble()
	if math.IsInf(f, 0) {
		return &apd.Decimal{Form: apd.Infinite, Negative: f < 0}
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		panic(fmt.Sprintf("converting %v to decimal: %v", f, err))
	}
	return d
}

func doubleEquals(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return a == b && math.Signbit(a) == math.Signbit(b)
}

func isZero(v domain.Value) bool {
	return v.AsFloat() == 0
}

func isNegativeZero(v domain.Value) bool {
	switch v.Kind() {
	case domain.KindDouble:
		return v.AsDouble() == 0 && math.Signbit(v.AsDouble())
	case domain.KindDecimal128:
		d := v.AsDecimal()
		return d.IsZero() && d.Negative
	}
	return false
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if a {
		return 1
	}
	return -1
}

// compareReferences compares document paths segment by segment.
func compareReferences(a, b string) int {
	aSegs := strings.Split(a, "/")
	bSegs := strings.Split(b, "/")
	return slices.Compare(aSegs, bSegs)
}
