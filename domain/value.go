package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Kind identifies which variant of the value union a [Value] holds.
type Kind uint8

// Value kinds. The zero Kind is KindNull, so the zero Value is null.
const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindDouble
	KindInt32
	KindDecimal128
	KindTimestamp
	KindServerTimestamp
	KindBsonTimestamp
	KindString
	KindBytes
	KindBsonBinary
	KindReference
	KindBsonObjectID
	KindGeoPoint
	KindRegex
	KindArray
	KindVector
	KindMap
	KindMinKey
	KindMaxKey
	KindMaxValue
)

var kindNames = [...]string{
	KindNull:            "null",
	KindBoolean:         "boolean",
	KindInteger:         "integer",
	KindDouble:          "double",
	KindInt32:           "int32",
	KindDecimal128:      "decimal128",
	KindTimestamp:       "timestamp",
	KindServerTimestamp: "server_timestamp",
	KindBsonTimestamp:   "bson_timestamp",
	KindString:          "string",
	KindBytes:           "bytes",
	KindBsonBinary:      "bson_binary",
	KindReference:       "reference",
	KindBsonObjectID:    "bson_object_id",
	KindGeoPoint:        "geo_point",
	KindRegex:           "regex",
	KindArray:           "array",
	KindVector:          "vector",
	KindMap:             "map",
	KindMinKey:          "min_key",
	KindMaxKey:          "max_key",
	KindMaxValue:        "max_value",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Timestamp is a point in time with nanosecond precision, stored as seconds
// since the Unix epoch and a non-negative nanosecond offset.
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// TimestampFromTime converts t to a Timestamp.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Time returns ts as a UTC [time.Time].
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// Compare returns -1, 0 or 1 if ts is before, equal to or after o.
func (ts Timestamp) Compare(o Timestamp) int {
	switch {
	case ts.Seconds < o.Seconds:
		return -1
	case ts.Seconds > o.Seconds:
		return 1
	case ts.Nanos < o.Nanos:
		return -1
	case ts.Nanos > o.Nanos:
		return 1
	}
	return 0
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// BsonTimestamp is the BSON internal timestamp: seconds and an ordinal.
type BsonTimestamp struct {
	Seconds   uint32
	Increment uint32
}

// BsonBinary is BSON binary data with its subtype.
type BsonBinary struct {
	Subtype byte
	Data    []byte
}

// Regex is a BSON regular expression.
type Regex struct {
	Pattern string
	Options string
}

type serverTimestamp struct {
	localWriteTime Timestamp
	previous       *Value
}

// Value is one document field value. It is a closed tagged union; the
// variant is reported by [Value.Kind]. Values are immutable once built and
// the zero Value is null.
type Value struct {
	kind Kind
	n    int64   // boolean, integer, int32
	f    float64 // double
	s    string  // string, reference, object id
	p    any     // payload of composite kinds
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBoolean}
	if b {
		v.n = 1
	}
	return v
}

// Int returns a 64-bit integer value.
func Int(i int64) Value { return Value{kind: KindInteger, n: i} }

// Int32 returns a BSON 32-bit integer value.
func Int32(i int32) Value { return Value{kind: KindInt32, n: int64(i)} }

// Double returns a double value.
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

// Decimal128 returns a BSON decimal value. d is copied.
func Decimal128(d *apd.Decimal) Value {
	c := new(apd.Decimal).Set(d)
	return Value{kind: KindDecimal128, p: c}
}

// ParseDecimal128 parses s as a BSON decimal value.
func ParseDecimal128(s string) (Value, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Value{}, fmt.Errorf("parsing decimal128 %q: %w", s, err)
	}
	return Value{kind: KindDecimal128, p: d}, nil
}

// TimestampValue returns a timestamp value.
func TimestampValue(ts Timestamp) Value { return Value{kind: KindTimestamp, p: ts} }

// ServerTimestamp returns a pending server timestamp written locally at
// localWriteTime. previous, if not nil, is the value the field held before.
func ServerTimestamp(localWriteTime Timestamp, previous *Value) Value {
	st := serverTimestamp{localWriteTime: localWriteTime}
	if previous != nil {
		prev := *previous
		st.previous = &prev
	}
	return Value{kind: KindServerTimestamp, p: st}
}

// BsonTimestampValue returns a BSON timestamp value.
func BsonTimestampValue(seconds, increment uint32) Value {
	return Value{kind: KindBsonTimestamp, p: BsonTimestamp{Seconds: seconds, Increment: increment}}
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bytes returns a bytes value. b is not copied.
func Bytes(b []byte) Value { return Value{kind: KindBytes, p: b} }

// BsonBinaryValue returns a BSON binary value.
func BsonBinaryValue(subtype byte, data []byte) Value {
	return Value{kind: KindBsonBinary, p: BsonBinary{Subtype: subtype, Data: data}}
}

// Reference returns a reference to the document at path.
func Reference(path string) Value { return Value{kind: KindReference, s: path} }

// ObjectID returns a BSON ObjectId value from its hex representation.
func ObjectID(hex string) Value { return Value{kind: KindBsonObjectID, s: hex} }

// Geo returns a geo point value.
func Geo(lat, lon float64) Value {
	return Value{kind: KindGeoPoint, p: GeoPoint{Latitude: lat, Longitude: lon}}
}

// RegexValue returns a BSON regular expression value.
func RegexValue(pattern, options string) Value {
	return Value{kind: KindRegex, p: Regex{Pattern: pattern, Options: options}}
}

// Array returns an array value holding vals.
func Array(vals ...Value) Value {
	if vals == nil {
		vals = []Value{}
	}
	return Value{kind: KindArray, p: vals}
}

// Vector returns a vector value.
func Vector(vals ...float64) Value {
	if vals == nil {
		vals = []float64{}
	}
	return Value{kind: KindVector, p: vals}
}

// Map returns a map value. If m has one of the reserved-key shapes it is
// classified as the extended type it encodes (see [ClassifyMap]).
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	if v, ok := ClassifyMap(m); ok {
		return v
	}
	return Value{kind: KindMap, p: m}
}

// PlainMap returns a map value without reserved-key classification.
func PlainMap(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, p: m}
}

// MinKey returns the BSON MinKey value.
func MinKey() Value { return Value{kind: KindMinKey} }

// MaxKey returns the BSON MaxKey value.
func MaxKey() Value { return Value{kind: KindMaxKey} }

// MaxValue returns the internal sentinel that sorts after every value.
func MaxValue() Value { return Value{kind: KindMaxValue} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

func (v Value) mustBe(kinds ...Kind) {
	for _, k := range kinds {
		if v.kind == k {
			return
		}
	}
	panic(fmt.Sprintf("value of kind %s accessed as %v", v.kind, kinds))
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() bool {
	v.mustBe(KindBoolean)
	return v.n != 0
}

// AsInt returns the integer held by an integer or int32 value.
func (v Value) AsInt() int64 {
	v.mustBe(KindInteger, KindInt32)
	return v.n
}

// AsDouble returns the double held by v.
func (v Value) AsDouble() float64 {
	v.mustBe(KindDouble)
	return v.f
}

// AsFloat returns any number-family value as a float64. Decimal values
// outside the float64 range become infinities.
func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindInteger, KindInt32:
		return float64(v.n)
	case KindDouble:
		return v.f
	case KindDecimal128:
		d := v.p.(*apd.Decimal)
		switch d.Form {
		case apd.NaN, apd.NaNSignaling:
			return math.NaN()
		case apd.Infinite:
			if d.Negative {
				return math.Inf(-1)
			}
			return math.Inf(1)
		}
		f, err := d.Float64()
		if err != nil {
			if d.Negative {
				return math.Inf(-1)
			}
			return math.Inf(1)
		}
		return f
	}
	panic(fmt.Sprintf("value of kind %s is not a number", v.kind))
}

// AsDecimal returns the decimal held by v. The result must not be modified.
func (v Value) AsDecimal() *apd.Decimal {
	v.mustBe(KindDecimal128)
	return v.p.(*apd.Decimal)
}

// AsTimestamp returns the timestamp of a timestamp value, or the local
// write time of a server timestamp.
func (v Value) AsTimestamp() Timestamp {
	switch v.kind {
	case KindTimestamp:
		return v.p.(Timestamp)
	case KindServerTimestamp:
		return v.p.(serverTimestamp).localWriteTime
	}
	panic(fmt.Sprintf("value of kind %s is not a timestamp", v.kind))
}

// PreviousValue returns the value a server timestamp replaced, if known.
func (v Value) PreviousValue() (Value, bool) {
	v.mustBe(KindServerTimestamp)
	prev := v.p.(serverTimestamp).previous
	if prev == nil {
		return Value{}, false
	}
	return *prev, true
}

// AsBsonTimestamp returns the BSON timestamp held by v.
func (v Value) AsBsonTimestamp() BsonTimestamp {
	v.mustBe(KindBsonTimestamp)
	return v.p.(BsonTimestamp)
}

// AsString returns the text of a string, reference or object id value.
func (v Value) AsString() string {
	v.mustBe(KindString, KindReference, KindBsonObjectID)
	return v.s
}

// AsBytes returns the bytes of a bytes value or the data of a BSON binary.
func (v Value) AsBytes() []byte {
	switch v.kind {
	case KindBytes:
		return v.p.([]byte)
	case KindBsonBinary:
		return v.p.(BsonBinary).Data
	}
	panic(fmt.Sprintf("value of kind %s has no bytes", v.kind))
}

// AsBsonBinary returns the BSON binary held by v.
func (v Value) AsBsonBinary() BsonBinary {
	v.mustBe(KindBsonBinary)
	return v.p.(BsonBinary)
}

// AsGeoPoint returns the geo point held by v.
func (v Value) AsGeoPoint() GeoPoint {
	v.mustBe(KindGeoPoint)
	return v.p.(GeoPoint)
}

// AsRegex returns the regular expression held by v.
func (v Value) AsRegex() Regex {
	v.mustBe(KindRegex)
	return v.p.(Regex)
}

// AsArray returns the elements of v. The result must not be modified.
func (v Value) AsArray() []Value {
	v.mustBe(KindArray)
	return v.p.([]Value)
}

// AsVector returns the components of v. The result must not be modified.
func (v Value) AsVector() []float64 {
	v.mustBe(KindVector)
	return v.p.([]float64)
}

// AsMap returns the fields of v. The result must not be modified.
func (v Value) AsMap() map[string]Value {
	v.mustBe(KindMap)
	return v.p.(map[string]Value)
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsBoolean reports whether v is a boolean.
func (v Value) IsBoolean() bool { return v.kind == KindBoolean }

// IsTrue reports whether v is the boolean true.
func (v Value) IsTrue() bool { return v.kind == KindBoolean && v.n != 0 }

// IsFalse reports whether v is the boolean false.
func (v Value) IsFalse() bool { return v.kind == KindBoolean && v.n == 0 }

// IsNumber reports whether v belongs to the number family.
func (v Value) IsNumber() bool {
	switch v.kind {
	case KindInteger, KindDouble, KindInt32, KindDecimal128:
		return true
	}
	return false
}

// IsInteger reports whether v is a 64 or 32-bit integer.
func (v Value) IsInteger() bool { return v.kind == KindInteger || v.kind == KindInt32 }

// IsDouble reports whether v is a double.
func (v Value) IsDouble() bool { return v.kind == KindDouble }

// IsNaN reports whether v is a double or decimal NaN.
func (v Value) IsNaN() bool {
	switch v.kind {
	case KindDouble:
		return math.IsNaN(v.f)
	case KindDecimal128:
		f := v.p.(*apd.Decimal).Form
		return f == apd.NaN || f == apd.NaNSignaling
	}
	return false
}

// IsString reports whether v is a string.
func (v Value) IsString() bool { return v.kind == KindString }

// IsTimestamp reports whether v is a timestamp.
func (v Value) IsTimestamp() bool { return v.kind == KindTimestamp }

// IsReference reports whether v is a document reference.
func (v Value) IsReference() bool { return v.kind == KindReference }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// IsVector reports whether v is a vector.
func (v Value) IsVector() bool { return v.kind == KindVector }

// IsMap reports whether v is a plain map.
func (v Value) IsMap() bool { return v.kind == KindMap }
