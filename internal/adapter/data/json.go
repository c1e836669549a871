package data

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// Keys of the JSON-only wrappers for kinds JSON cannot express natively.
const (
	TimestampJSONKey = "__timestamp__"
	BytesJSONKey     = "__bytes__"
	ReferenceJSONKey = "__reference__"
	GeoPointJSONKey  = "__geopoint__"
	DoubleJSONKey    = "__double__"
)

// ParseJSON parses one JSON value. Numbers without a fraction or exponent
// that fit an int64 become integers, every other number a double. Objects
// in a reserved-key or JSON wrapper shape become the value they encode.
func ParseJSON(input []byte) (domain.Value, error) {
	dec := gojson.NewDecoder(bytes.NewReader(input))
	// numbers keep their literal text so 1 and 1.0 stay apart
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return domain.Value{}, domain.ErrDecode{Source: err}
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return domain.Value{}, domain.ErrDecode{Source: errors.New("trailing data after JSON")}
	}

	v, err := fromJSON(raw)
	if err != nil {
		return domain.Value{}, domain.ErrDecode{Source: err}
	}
	return v, nil
}

func fromJSON(raw any) (domain.Value, error) {
	switch t := raw.(type) {
	case nil:
		return domain.Null(), nil
	case bool:
		return domain.Bool(t), nil
	case string:
		return domain.String(t), nil
	case gojson.Number:
		return fromJSONNumber(t)
	case []any:
		out := make([]domain.Value, len(t))
		for i, e := range t {
			v, err := fromJSON(e)
			if err != nil {
				return domain.Value{}, err
			}
			out[i] = v
		}
		return domain.Array(out...), nil
	case map[string]any:
		m := make(map[string]domain.Value, len(t))
		for k, e := range t {
			v, err := fromJSON(e)
			if err != nil {
				return domain.Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			m[k] = v
		}
		if v, ok, err := unwrapJSON(m); ok || err != nil {
			return v, err
		}
		return domain.Map(m), nil
	default:
		return domain.Value{}, fmt.Errorf("unexpected JSON value %T", raw)
	}
}

func fromJSONNumber(n gojson.Number) (domain.Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return domain.Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.Value{}, fmt.Errorf("invalid number %q", s)
	}
	return domain.Double(f), nil
}

// unwrapJSON decodes the JSON-only wrapper shapes. A wrapper key with a
// malformed payload is an error.
func unwrapJSON(m map[string]domain.Value) (domain.Value, bool, error) {
	if len(m) != 1 {
		return domain.Value{}, false, nil
	}
	for k, v := range m {
		switch k {
		case TimestampJSONKey:
			if !v.IsString() {
				return domain.Value{}, false, errors.New("timestamp must be an RFC 3339 string")
			}
			t, err := time.Parse(time.RFC3339Nano, v.AsString())
			if err != nil {
				return domain.Value{}, false, err
			}
			return domain.TimestampValue(domain.TimestampFromTime(t)), true, nil
		case BytesJSONKey:
			if !v.IsString() {
				return domain.Value{}, false, errors.New("bytes must be a base64 string")
			}
			b, err := base64.StdEncoding.DecodeString(v.AsString())
			if err != nil {
				return domain.Value{}, false, err
			}
			return domain.Bytes(b), true, nil
		case ReferenceJSONKey:
			if !v.IsString() {
				return domain.Value{}, false, errors.New("reference must be a string")
			}
			key, err := domain.ParseDocumentKey(v.AsString())
			if err != nil {
				return domain.Value{}, false, err
			}
			return domain.Reference(key.String()), true, nil
		case GeoPointJSONKey:
			return unwrapGeoPoint(v)
		case DoubleJSONKey:
			if !v.IsString() {
				return domain.Value{}, false, errors.New("double must be a string")
			}
			switch v.AsString() {
			case "NaN":
				return domain.Double(math.NaN()), true, nil
			case "Infinity":
				return domain.Double(math.Inf(1)), true, nil
			case "-Infinity":
				return domain.Double(math.Inf(-1)), true, nil
			}
			return domain.Value{}, false, fmt.Errorf("invalid double %q", v.AsString())
		}
	}
	return domain.Value{}, false, nil
}

func unwrapGeoPoint(v domain.Value) (domain.Value, bool, error) {
	if !v.IsMap() {
		return domain.Value{}, false, errors.New("geo point must be an object")
	}
	fields := v.AsMap()
	lat, ok1 := fields["latitude"]
	lon, ok2 := fields["longitude"]
	if !ok1 || !ok2 || !lat.IsNumber() || !lon.IsNumber() {
		return domain.Value{}, false, errors.New("geo point needs numeric latitude and longitude")
	}
	return domain.Geo(lat.AsFloat(), lon.AsFloat()), true, nil
}
