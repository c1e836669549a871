package data

import (
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// EstimateByteSize approximates the in-memory size of v. Strings count two
// bytes per UTF-16 code unit; arrays and maps sum their contents.
func EstimateByteSize(v domain.Value) int {
	switch v.Kind() {
	case domain.KindNull, domain.KindBoolean, domain.KindMinKey, domain.KindMaxKey:
		return 4
	case domain.KindInteger, domain.KindDouble, domain.KindBsonTimestamp:
		return 8
	case domain.KindInt32:
		return 4
	case domain.KindDecimal128, domain.KindTimestamp, domain.KindGeoPoint:
		return 16
	case domain.KindServerTimestamp:
		size := 16
		if prev, ok := v.PreviousValue(); ok {
			size += EstimateByteSize(prev)
		}
		return size
	case domain.KindString, domain.KindReference, domain.KindBsonObjectID:
		return utf16Size(v.AsString())
	case domain.KindBytes:
		return len(v.AsBytes())
	case domain.KindBsonBinary:
		return 1 + len(v.AsBytes())
	case domain.KindRegex:
		re := v.AsRegex()
		return utf16Size(re.Pattern) + utf16Size(re.Options)
	case domain.KindVector:
		return 8 * len(v.AsVector())
	case domain.KindArray:
		size := 0
		for _, e := range v.AsArray() {
			size += EstimateByteSize(e)
		}
		return size
	case domain.KindMap:
		size := 0
		for k, e := range v.AsMap() {
			size += utf16Size(k) + EstimateByteSize(e)
		}
		return size
	case domain.KindMaxValue:
		return 0
	}
	panic("invalid value kind " + v.Kind().String())
}

func utf16Size(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return 2 * n
}
