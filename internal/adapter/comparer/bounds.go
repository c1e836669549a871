package comparer

import (
	"fmt"
	"math"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// minSafeSeconds is the smallest timestamp second used as a range bound.
const minSafeSeconds = -9007199254740991

var (
	minBoolean         = domain.Bool(false)
	minNumber          = domain.Double(math.NaN())
	minTimestamp       = domain.TimestampValue(domain.Timestamp{Seconds: minSafeSeconds})
	minServerTimestamp = domain.ServerTimestamp(domain.Timestamp{Seconds: minSafeSeconds}, nil)
	minBsonTimestamp   = domain.BsonTimestampValue(0, 0)
	minString          = domain.String("")
	minBytes           = domain.Bytes([]byte{})
	minBsonBinary      = domain.BsonBinaryValue(0, []byte{})
	minReference       = domain.Reference("")
	minObjectID        = domain.ObjectID("")
	minGeoPoint        = domain.Geo(-90, -180)
	minRegex           = domain.RegexValue("", "")
	minArray           = domain.Array()
	minVector          = domain.Vector()
	minMap             = domain.PlainMap(nil)
)

// LowerBound implements domain.Comparer. It returns the smallest value of
// the kind of v, an inclusive lower bound for every value of that kind.
func (c *Comparer) LowerBound(v domain.Value) domain.Value {
	switch v.Kind() {
	case domain.KindNull:
		return domain.Null()
	case domain.KindMinKey:
		return domain.MinKey()
	case domain.KindBoolean:
		return minBoolean
	case domain.KindInteger, domain.KindInt32, domain.KindDouble, domain.KindDecimal128:
		return minNumber
	case domain.KindTimestamp:
		return minTimestamp
	case domain.KindBsonTimestamp:
		return minBsonTimestamp
	case domain.KindServerTimestamp:
		return minServerTimestamp
	case domain.KindString:
		return minString
	case domain.KindBytes:
		return minBytes
	case domain.KindBsonBinary:
		return minBsonBinary
	case domain.KindReference:
		return minReference
	case domain.KindBsonObjectID:
		return minObjectID
	case domain.KindGeoPoint:
		return minGeoPoint
	case domain.KindRegex:
		return minRegex
	case domain.KindArray:
		return minArray
	case domain.KindVector:
		return minVector
	case domain.KindMap:
		return minMap
	case domain.KindMaxKey:
		return domain.MaxKey()
	case domain.KindMaxValue:
		return domain.MaxValue()
	}
	panic(fmt.Sprintf("invalid value kind %s", v.Kind()))
}

// UpperBound implements domain.Comparer. It returns the smallest value of
// the kind ranked after the kind of v, an exclusive upper bound for every
// value of the kind of v. Server timestamps are never stored, so the upper
// bound of a bson timestamp skips their rank.
func (c *Comparer) UpperBound(v domain.Value) domain.Value {
	switch v.Kind() {
	case domain.KindNull, domain.KindMinKey:
		return minBoolean
	case domain.KindBoolean:
		return minNumber
	case domain.KindInteger, domain.KindInt32, domain.KindDouble, domain.KindDecimal128:
		return minTimestamp
	case domain.KindTimestamp:
		return minBsonTimestamp
	case domain.KindBsonTimestamp, domain.KindServerTimestamp:
		return minString
	case domain.KindString:
		return minBytes
	case domain.KindBytes:
		return minBsonBinary
	case domain.KindBsonBinary:
		return minReference
	case domain.KindReference:
		return minObjectID
	case domain.KindBsonObjectID:
		return minGeoPoint
	case domain.KindGeoPoint:
		return minRegex
	case domain.KindRegex:
		return minArray
	case domain.KindArray:
		return minVector
	case domain.KindVector:
		return minMap
	case domain.KindMap:
		return domain.MaxKey()
	case domain.KindMaxKey, domain.KindMaxValue:
		return domain.MaxValue()
	}
	panic(fmt.Sprintf("invalid value kind %s", v.Kind()))
}

// CompareLowerBounds orders range starts. On equal values an inclusive
// bound sorts before an exclusive one.
func (c *Comparer) CompareLowerBounds(a, b domain.IndexBound) int {
	if comp := c.Compare(a.Value, b.Value); comp != 0 {
		return comp
	}
	switch {
	case a.Inclusive && !b.Inclusive:
		return -1
	case !a.Inclusive && b.Inclusive:
		return 1
	}
	return 0
}

// CompareUpperBounds orders range ends. On equal values an inclusive bound
// sorts after an exclusive one.
func (c *Comparer) CompareUpperBounds(a, b domain.IndexBound) int {
	if comp := c.Compare(a.Value, b.Value); comp != 0 {
		return comp
	}
	switch {
	case a.Inclusive && !b.Inclusive:
		return 1
	case !a.Inclusive && b.Inclusive:
		return -1
	}
	return 0
}
