package data

import (
	"bytes"
	"encoding/base64"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// EncodeJSON encodes v as JSON that [ParseJSON] reads back to an equal
// value. Map keys are written in sorted order, doubles always carry a
// fraction or exponent, extended kinds use their reserved-key shape and the
// kinds JSON cannot express use the JSON wrappers.
func EncodeJSON(v domain.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v domain.Value) error {
	switch v.Kind() {
	case domain.KindNull:
		buf.WriteString("null")
	case domain.KindBoolean:
		buf.WriteString(strconv.FormatBool(v.AsBool()))
	case domain.KindInteger:
		buf.WriteString(strconv.FormatInt(v.AsInt(), 10))
	case domain.KindDouble:
		encodeDouble(buf, v.AsDouble())
	case domain.KindString:
		return encodeString(buf, v.AsString())
	case domain.KindTimestamp:
		ts := v.AsTimestamp().Time().UTC().Format(time.RFC3339Nano)
		return encodeWrapper(buf, TimestampJSONKey, domain.String(ts))
	case domain.KindBytes:
		return encodeWrapper(buf, BytesJSONKey, domain.String(base64.StdEncoding.EncodeToString(v.AsBytes())))
	case domain.KindReference:
		return encodeWrapper(buf, ReferenceJSONKey, domain.String(v.AsString()))
	case domain.KindGeoPoint:
		g := v.AsGeoPoint()
		return encodeWrapper(buf, GeoPointJSONKey, domain.PlainMap(map[string]domain.Value{
			"latitude":  domain.Double(g.Latitude),
			"longitude": domain.Double(g.Longitude),
		}))
	case domain.KindArray:
		buf.WriteByte('[')
		for i, e := range v.AsArray() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case domain.KindMap:
		return encodeMap(buf, v.AsMap())
	default:
		wire, ok := v.WireMap()
		if !ok {
			panic("invalid value kind " + v.Kind().String())
		}
		return encodeMap(buf, wire)
	}
	return nil
}

func encodeDouble(buf *bytes.Buffer, f float64) {
	switch {
	case math.IsNaN(f):
		_ = encodeWrapper(buf, DoubleJSONKey, domain.String("NaN"))
		return
	case math.IsInf(f, 1):
		_ = encodeWrapper(buf, DoubleJSONKey, domain.String("Infinity"))
		return
	case math.IsInf(f, -1):
		_ = encodeWrapper(buf, DoubleJSONKey, domain.String("-Infinity"))
		return
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	buf.WriteString(s)
}

func encodeString(buf *bytes.Buffer, s string) error {
	b, err := gojson.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func encodeWrapper(buf *bytes.Buffer, key string, v domain.Value) error {
	return encodeMap(buf, map[string]domain.Value{key: v})
}

func encodeMap(buf *bytes.Buffer, m map[string]domain.Value) error {
	buf.WriteByte('{')
	for i, k := range slices.Sorted(maps.Keys(m)) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encode(buf, m[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}
