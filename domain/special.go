package domain

import (
	"math"

	"github.com/cockroachdb/apd/v3"
)

// Reserved map keys used to carry extended types through the map shape.
const (
	TypeKey               = "__type__"
	VectorTypeValue       = "__vector__"
	MaxValueTypeValue     = "__max__"
	ServerTimestampType   = "server_timestamp"
	VectorValueKey        = "value"
	PreviousValueKey      = "__previous_value__"
	LocalWriteTimeKey     = "__local_write_time__"
	ObjectIDKey           = "__oid__"
	RequestTimestampKey   = "__request_timestamp__"
	RequestTsSecondsKey   = "seconds"
	RequestTsIncrementKey = "increment"
	BinaryKey             = "__binary__"
	RegexKey              = "__regex__"
	RegexPatternKey       = "pattern"
	RegexOptionsKey       = "options"
	Int32Key              = "__int__"
	Decimal128Key         = "__decimal128__"
	MinKeyKey             = "__min__"
	MaxKeyKey             = "__max__"
)

// ClassifyMap reports whether m has one of the reserved-key shapes and, if
// so, returns the extended value it encodes. Shapes that only partially
// match stay plain maps.
func ClassifyMap(m map[string]Value) (Value, bool) {
	if t, ok := m[TypeKey]; ok && t.kind == KindString {
		switch t.s {
		case VectorTypeValue:
			return classifyVector(m)
		case ServerTimestampType:
			return classifyServerTimestamp(m)
		case MaxValueTypeValue:
			return MaxValue(), true
		}
		return Value{}, false
	}
	if len(m) != 1 {
		return Value{}, false
	}
	for k, v := range m {
		switch k {
		case ObjectIDKey:
			if v.kind == KindString {
				return ObjectID(v.s), true
			}
		case RequestTimestampKey:
			return classifyRequestTimestamp(v)
		case BinaryKey:
			if v.kind == KindBytes {
				b := v.AsBytes()
				if len(b) > 0 {
					return BsonBinaryValue(b[0], b[1:]), true
				}
			}
		case RegexKey:
			return classifyRegex(v)
		case Int32Key:
			if v.IsInteger() && v.n >= math.MinInt32 && v.n <= math.MaxInt32 {
				return Int32(int32(v.n)), true
			}
		case Decimal128Key:
			if v.kind == KindString {
				if d, err := ParseDecimal128(v.s); err == nil {
					return d, true
				}
			}
		case MinKeyKey:
			if v.kind == KindNull {
				return MinKey(), true
			}
		case MaxKeyKey:
			if v.kind == KindNull {
				return MaxKey(), true
			}
		}
	}
	return Value{}, false
}

func classifyVector(m map[string]Value) (Value, bool) {
	raw, ok := m[VectorValueKey]
	if !ok {
		return Vector(), true
	}
	if raw.kind != KindArray {
		return Value{}, false
	}
	elems := raw.AsArray()
	vec := make([]float64, len(elems))
	for i, e := range elems {
		if !e.IsNumber() {
			return Value{}, false
		}
		vec[i] = e.AsFloat()
	}
	return Vector(vec...), true
}

func classifyServerTimestamp(m map[string]Value) (Value, bool) {
	lwt, ok := m[LocalWriteTimeKey]
	if !ok || lwt.kind != KindTimestamp {
		return Value{}, false
	}
	var prev *Value
	if p, ok := m[PreviousValueKey]; ok {
		prev = &p
	}
	return ServerTimestamp(lwt.AsTimestamp(), prev), true
}

func classifyRequestTimestamp(v Value) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	fields := v.AsMap()
	sec, ok1 := fields[RequestTsSecondsKey]
	inc, ok2 := fields[RequestTsIncrementKey]
	if len(fields) != 2 || !ok1 || !ok2 || !sec.IsInteger() || !inc.IsInteger() {
		return Value{}, false
	}
	if sec.n < 0 || sec.n > math.MaxUint32 || inc.n < 0 || inc.n > math.MaxUint32 {
		return Value{}, false
	}
	return BsonTimestampValue(uint32(sec.n), uint32(inc.n)), true
}

func classifyRegex(v Value) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	fields := v.AsMap()
	p, ok1 := fields[RegexPatternKey]
	o, ok2 := fields[RegexOptionsKey]
	if len(fields) != 2 || !ok1 || !ok2 || p.kind != KindString || o.kind != KindString {
		return Value{}, false
	}
	return RegexValue(p.s, o.s), true
}

// WireMap returns the reserved-key map shape of an extended value. The
// second result is false for kinds that are not carried as maps.
func (v Value) WireMap() (map[string]Value, bool) {
	switch v.kind {
	case KindVector:
		vec := v.AsVector()
		elems := make([]Value, len(vec))
		for i, f := range vec {
			elems[i] = Double(f)
		}
		return map[string]Value{TypeKey: String(VectorTypeValue), VectorValueKey: Array(elems...)}, true
	case KindServerTimestamp:
		st := v.p.(serverTimestamp)
		m := map[string]Value{
			TypeKey:           String(ServerTimestampType),
			LocalWriteTimeKey: TimestampValue(st.localWriteTime),
		}
		if st.previous != nil {
			m[PreviousValueKey] = *st.previous
		}
		return m, true
	case KindMaxValue:
		return map[string]Value{TypeKey: String(MaxValueTypeValue)}, true
	case KindBsonObjectID:
		return map[string]Value{ObjectIDKey: String(v.s)}, true
	case KindBsonTimestamp:
		ts := v.AsBsonTimestamp()
		return map[string]Value{RequestTimestampKey: PlainMap(map[string]Value{
			RequestTsSecondsKey:   Int(int64(ts.Seconds)),
			RequestTsIncrementKey: Int(int64(ts.Increment)),
		})}, true
	case KindBsonBinary:
		bin := v.AsBsonBinary()
		return map[string]Value{BinaryKey: Bytes(append([]byte{bin.Subtype}, bin.Data...))}, true
	case KindRegex:
		re := v.AsRegex()
		return map[string]Value{RegexKey: PlainMap(map[string]Value{
			RegexPatternKey: String(re.Pattern),
			RegexOptionsKey: String(re.Options),
		})}, true
	case KindInt32:
		return map[string]Value{Int32Key: Int(v.n)}, true
	case KindDecimal128:
		return map[string]Value{Decimal128Key: String(v.p.(*apd.Decimal).String())}, true
	case KindMinKey:
		return map[string]Value{MinKeyKey: Null()}, true
	case KindMaxKey:
		return map[string]Value{MaxKeyKey: Null()}, true
	}
	return nil, false
}
