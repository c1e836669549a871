package domain

// TypeOrder ranks value kinds. Values of different rank never compare
// equal and sort by rank first.
type TypeOrder int64

// Type ranks, lowest first. Null and MinKey share the lowest rank.
const (
	TypeOrderNull            TypeOrder = 0
	TypeOrderMinKey          TypeOrder = 0
	TypeOrderBoolean         TypeOrder = 1
	TypeOrderNumber          TypeOrder = 2
	TypeOrderTimestamp       TypeOrder = 3
	TypeOrderBsonTimestamp   TypeOrder = 4
	TypeOrderServerTimestamp TypeOrder = 5
	TypeOrderString          TypeOrder = 6
	TypeOrderBytes           TypeOrder = 7
	TypeOrderBsonBinary      TypeOrder = 8
	TypeOrderReference       TypeOrder = 9
	TypeOrderBsonObjectID    TypeOrder = 10
	TypeOrderGeoPoint        TypeOrder = 11
	TypeOrderRegex           TypeOrder = 12
	TypeOrderArray           TypeOrder = 13
	TypeOrderVector          TypeOrder = 14
	TypeOrderMap             TypeOrder = 15
	TypeOrderMaxKey          TypeOrder = 16
	TypeOrderMaxValue        TypeOrder = 9007199254740991
)

var kindOrder = [...]TypeOrder{
	KindNull:            TypeOrderNull,
	KindBoolean:         TypeOrderBoolean,
	KindInteger:         TypeOrderNumber,
	KindDouble:          TypeOrderNumber,
	KindInt32:           TypeOrderNumber,
	KindDecimal128:      TypeOrderNumber,
	KindTimestamp:       TypeOrderTimestamp,
	KindServerTimestamp: TypeOrderServerTimestamp,
	KindBsonTimestamp:   TypeOrderBsonTimestamp,
	KindString:          TypeOrderString,
	KindBytes:           TypeOrderBytes,
	KindBsonBinary:      TypeOrderBsonBinary,
	KindReference:       TypeOrderReference,
	KindBsonObjectID:    TypeOrderBsonObjectID,
	KindGeoPoint:        TypeOrderGeoPoint,
	KindRegex:           TypeOrderRegex,
	KindArray:           TypeOrderArray,
	KindVector:          TypeOrderVector,
	KindMap:             TypeOrderMap,
	KindMinKey:          TypeOrderMinKey,
	KindMaxKey:          TypeOrderMaxKey,
	KindMaxValue:        TypeOrderMaxValue,
}

// TypeOrder returns the rank of the kind. It panics for an unknown kind.
func (k Kind) TypeOrder() TypeOrder {
	if int(k) >= len(kindOrder) {
		panic("invalid value kind " + k.String())
	}
	return kindOrder[k]
}
