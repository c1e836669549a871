package data

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	goreflect "github.com/goccy/go-reflect"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// FromGo converts a Go value to a [domain.Value]. Maps are classified, so a
// Go map with a reserved-key shape becomes the extended value it encodes.
// Structs are read through their exported fields, renamed by the
// [TagName] tag.
func FromGo(in any) (domain.Value, error) {
	if v, ok := fromSimple(in); ok {
		return v, nil
	}
	return fromReflect(goreflect.ValueNoEscapeOf(in))
}

func fromSimple(in any) (domain.Value, bool) {
	switch t := in.(type) {
	case nil:
		return domain.Null(), true
	case domain.Value:
		return t, true
	case bool:
		return domain.Bool(t), true
	case string:
		return domain.String(t), true
	case int:
		return domain.Int(int64(t)), true
	case int64:
		return domain.Int(t), true
	case float64:
		return domain.Double(t), true
	case []byte:
		if t == nil {
			return domain.Null(), true
		}
		return domain.Bytes(t), true
	case time.Time:
		return domain.TimestampValue(domain.TimestampFromTime(t)), true
	case domain.Timestamp:
		return domain.TimestampValue(t), true
	case domain.GeoPoint:
		return domain.Geo(t.Latitude, t.Longitude), true
	case domain.DocumentKey:
		return domain.Reference(t.String()), true
	case domain.BsonTimestamp:
		return domain.BsonTimestampValue(t.Seconds, t.Increment), true
	case domain.BsonBinary:
		return domain.BsonBinaryValue(t.Subtype, t.Data), true
	case domain.Regex:
		return domain.RegexValue(t.Pattern, t.Options), true
	case *apd.Decimal:
		if t == nil {
			return domain.Null(), true
		}
		return domain.Decimal128(t), true
	case map[string]domain.Value:
		return domain.Map(t), true
	case []domain.Value:
		return domain.Array(t...), true
	}
	return domain.Value{}, false
}

func fromReflect(r goreflect.Value) (domain.Value, error) {
	for r.Kind() == reflect.Pointer || r.Kind() == goreflect.Interface {
		if r.IsNil() {
			return domain.Null(), nil
		}
		r = r.Elem()
	}
	if r.Kind() == goreflect.Invalid {
		return domain.Null(), nil
	}
	if v, ok := fromSimple(r.Interface()); ok {
		return v, nil
	}

	switch r.Kind() {
	case goreflect.Bool:
		return domain.Bool(r.Bool()), nil
	case goreflect.Int, goreflect.Int8, goreflect.Int16, goreflect.Int32, goreflect.Int64:
		return domain.Int(r.Int()), nil
	case goreflect.Uint, goreflect.Uint8, goreflect.Uint16, goreflect.Uint32, goreflect.Uint64, goreflect.Uintptr:
		u := r.Uint()
		if u > math.MaxInt64 {
			return domain.Value{}, domain.ErrDocumentType{Reason: fmt.Sprintf("integer %d overflows int64", u)}
		}
		return domain.Int(int64(u)), nil
	case goreflect.Float32, goreflect.Float64:
		return domain.Double(r.Float()), nil
	case goreflect.String:
		return domain.String(r.String()), nil
	case goreflect.Slice:
		if r.IsNil() {
			return domain.Null(), nil
		}
		if r.Type().Elem().Kind() == goreflect.Uint8 {
			return domain.Bytes(slices.Clone(r.Bytes())), nil
		}
		fallthrough
	case goreflect.Array:
		return fromList(r)
	case goreflect.Map:
		if r.IsNil() {
			return domain.Null(), nil
		}
		return fromMap(r)
	case goreflect.Struct:
		return fromStruct(r)
	}
	return domain.Value{}, domain.ErrDocumentType{Reason: "unsupported type " + r.Type().String()}
}

func fromList(r goreflect.Value) (domain.Value, error) {
	length := r.Len()
	res := make([]domain.Value, length)
	for i := range length {
		v, err := fromReflect(r.Index(i))
		if err != nil {
			return domain.Value{}, fmt.Errorf("index %d: %w", i, err)
		}
		res[i] = v
	}
	return domain.Array(res...), nil
}

func fromMap(r goreflect.Value) (domain.Value, error) {
	if r.Type().Key().Kind() != goreflect.String {
		return domain.Value{}, domain.ErrDocumentType{Reason: "map keys must be strings, got " + r.Type().Key().String()}
	}
	res := make(map[string]domain.Value, r.Len())
	for _, k := range r.MapKeys() {
		v, err := fromReflect(r.MapIndex(k))
		if err != nil {
			return domain.Value{}, fmt.Errorf("key %q: %w", k.String(), err)
		}
		res[k.String()] = v
	}
	return domain.Map(res), nil
}

func fromStruct(r goreflect.Value) (domain.Value, error) {
	typ := r.Type()
	numField := r.NumField()
	res := make(map[string]domain.Value, numField)
	for n := range numField {
		field := typ.Field(n)
		if field.PkgPath != "" {
			continue
		}
		name, value, ok, err := fromField(r.Field(n), field)
		if err != nil {
			return domain.Value{}, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if ok {
			res[name] = value
		}
	}
	return domain.Map(res), nil
}

func fromField(r goreflect.Value, typ goreflect.StructField) (string, domain.Value, bool, error) {
	name := typ.Name
	var tagSegments []string
	if tag, ok := typ.Tag.Lookup(TagName); ok {
		if tag == "-" {
			return "", domain.Value{}, false, nil
		}
		tagSegments = strings.Split(tag, ",")
		if tagSegments[0] != "" {
			name = tagSegments[0]
		}
		tagSegments = tagSegments[1:]
	}
	if slices.Contains(tagSegments, "omitempty") && isNullable(typ.Type) && r.IsNil() {
		return "", domain.Value{}, false, nil
	}
	if slices.Contains(tagSegments, "omitzero") && r.IsZero() {
		return "", domain.Value{}, false, nil
	}
	v, err := fromReflect(r)
	if err != nil {
		return "", domain.Value{}, false, err
	}
	return name, v, true, nil
}

func isNullable(t goreflect.Type) bool {
	k := t.Kind()
	return k == reflect.Pointer ||
		k == reflect.Slice ||
		k == reflect.Map ||
		k == reflect.Interface
}

// ToGo converts v to plain Go values: nil, bool, int64, float64, string,
// []byte, time.Time, []any and map[string]any. References become their
// path string and geo points [domain.GeoPoint]. Int32 values become int32,
// decimals *apd.Decimal and vectors []float64; other extended kinds are
// returned in their reserved-key map shape.
func ToGo(v domain.Value) any {
	switch v.Kind() {
	case domain.KindNull:
		return nil
	case domain.KindBoolean:
		return v.AsBool()
	case domain.KindInteger:
		return v.AsInt()
	case domain.KindInt32:
		return int32(v.AsInt())
	case domain.KindDouble:
		return v.AsDouble()
	case domain.KindDecimal128:
		return new(apd.Decimal).Set(v.AsDecimal())
	case domain.KindTimestamp:
		return v.AsTimestamp().Time()
	case domain.KindString, domain.KindReference:
		return v.AsString()
	case domain.KindBytes:
		return slices.Clone(v.AsBytes())
	case domain.KindGeoPoint:
		return v.AsGeoPoint()
	case domain.KindVector:
		return slices.Clone(v.AsVector())
	case domain.KindArray:
		arr := v.AsArray()
		res := make([]any, len(arr))
		for i, e := range arr {
			res[i] = ToGo(e)
		}
		return res
	case domain.KindMap:
		return toGoMap(v.AsMap())
	}
	wire, ok := v.WireMap()
	if !ok {
		panic("invalid value kind " + v.Kind().String())
	}
	return toGoMap(wire)
}

func toGoMap(m map[string]domain.Value) map[string]any {
	res := make(map[string]any, len(m))
	for k, e := range m {
		res[k] = ToGo(e)
	}
	return res
}
