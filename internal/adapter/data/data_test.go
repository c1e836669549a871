package data

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
)

type level int

type person struct {
	Name   string         `gequery:"name"`
	Age    int            `gequery:"age,omitzero"`
	Tags   []string       `gequery:"tags,omitempty"`
	Secret string         `gequery:"-"`
	Born   time.Time      `gequery:"born"`
	Level  level          `gequery:"level"`
	Extra  map[string]any `gequery:"extra,omitempty"`
	hidden int
}

type DataTestSuite struct {
	suite.Suite
	c   domain.Comparer
	key domain.DocumentKey
}

func (s *DataTestSuite) SetupTest() {
	s.c = comparer.NewComparer()
	s.key = domain.MustDocumentKey("people/ada")
}

func (s *DataTestSuite) TestNewDocumentFromStruct() {
	born := time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)
	doc, err := NewDocument(s.key, &person{Name: "Ada", Secret: "x", Born: born, Level: 3, hidden: 1})
	s.Require().NoError(err)

	s.True(doc.Exists())
	s.Equal(domain.StateFound, doc.State())
	s.True(s.key.Equal(doc.Key()))

	m := doc.Data().AsMap()
	s.Len(m, 3)
	s.Equal("Ada", m["name"].AsString())
	s.Equal(int64(3), m["level"].AsInt())
	s.Equal(domain.TimestampFromTime(born), m["born"].AsTimestamp())
	s.NotContains(m, "age")
	s.NotContains(m, "tags")
	s.NotContains(m, "Secret")
	s.NotContains(m, "hidden")
}

func (s *DataTestSuite) TestNewDocumentFromMap() {
	doc, err := NewDocument(s.key, map[string]any{
		"a": map[string]any{"b": []any{1, "x"}},
	})
	s.Require().NoError(err)

	v, ok := doc.Field(domain.FieldPath{"a", "b"})
	s.True(ok)
	s.True(s.c.Equal(domain.Array(domain.Int(1), domain.String("x")), v))

	_, ok = doc.Field(domain.FieldPath{"a", "b", "c"})
	s.False(ok)
	_, ok = doc.Field(domain.FieldPath{"z"})
	s.False(ok)

	empty, err := NewDocument(s.key, nil)
	s.NoError(err)
	s.Empty(empty.Data().AsMap())

	_, err = NewDocument(s.key, 5)
	s.ErrorAs(err, &domain.ErrDocumentType{})

	// reserved-key shapes do not make documents
	_, err = NewDocument(s.key, map[string]any{"__int__": 1})
	s.ErrorAs(err, &domain.ErrDocumentType{})
}

func (s *DataTestSuite) TestDocumentStates() {
	version := domain.Timestamp{Seconds: 9}
	missing := NewNoDocument(s.key, version)
	s.False(missing.Exists())
	s.Equal(version, missing.UpdateTime())

	unknown := NewUnknownDocument(s.key, version)
	s.Equal(domain.StateUnknown, unknown.State())
	s.True(unknown.HasCommittedMutations())

	found := NewFoundDocument(s.key, domain.PlainMap(nil), version)
	local := found.WithLocalMutations().WithCreateTime(domain.Timestamp{Seconds: 1})
	s.True(local.HasLocalMutations())
	s.False(found.HasLocalMutations())
	s.Equal(int64(1), local.CreateTime().Seconds)
	s.True(local.WithCommittedMutations().HasCommittedMutations())
	s.False(local.WithCommittedMutations().HasLocalMutations())
}

func (s *DataTestSuite) TestFromGo() {
	v, err := FromGo(map[string]int32{"__int__": 7})
	s.NoError(err)
	s.Equal(domain.KindInt32, v.Kind())

	v, err = FromGo([]float32{1.5})
	s.NoError(err)
	s.Equal(1.5, v.AsArray()[0].AsDouble())

	v, err = FromGo([]byte("raw"))
	s.NoError(err)
	s.Equal([]byte("raw"), v.AsBytes())

	v, err = FromGo(domain.GeoPoint{Latitude: 1, Longitude: 2})
	s.NoError(err)
	s.Equal(domain.KindGeoPoint, v.Kind())

	var nilMap map[string]any
	v, err = FromGo(nilMap)
	s.NoError(err)
	s.True(v.IsNull())

	_, err = FromGo(uint64(math.MaxUint64))
	s.ErrorAs(err, &domain.ErrDocumentType{})

	_, err = FromGo(map[int]string{1: "a"})
	s.ErrorAs(err, &domain.ErrDocumentType{})

	_, err = FromGo(map[string]any{"f": func() {}})
	s.ErrorAs(err, &domain.ErrDocumentType{})
}

func (s *DataTestSuite) TestToGo() {
	ts := domain.Timestamp{Seconds: 100, Nanos: 5}
	v := domain.Map(map[string]domain.Value{
		"n":   domain.Int(1),
		"i32": domain.Int32(2),
		"ts":  domain.TimestampValue(ts),
		"arr": domain.Array(domain.Null(), domain.Bool(true)),
		"oid": domain.ObjectID("abc"),
	})
	got := ToGo(v).(map[string]any)
	s.Equal(int64(1), got["n"])
	s.Equal(int32(2), got["i32"])
	s.Equal(ts.Time(), got["ts"])
	s.Equal([]any{nil, true}, got["arr"])
	s.Equal(map[string]any{"__oid__": "abc"}, got["oid"])

	back, err := FromGo(got)
	s.NoError(err)
	s.True(s.c.Equal(v, back))
}

func (s *DataTestSuite) TestJSONRoundTrip() {
	prev := domain.String("before")
	values := []domain.Value{
		domain.Null(),
		domain.Bool(false),
		domain.Int(-3),
		domain.Double(2),
		domain.Double(math.Copysign(0, -1)),
		domain.Double(math.Inf(-1)),
		domain.Double(1e300),
		domain.String("quote \" and é"),
		domain.Bytes([]byte{0, 255}),
		domain.Reference("c/d"),
		domain.Geo(-12.5, 40),
		domain.TimestampValue(domain.Timestamp{Seconds: 1700000000, Nanos: 123456789}),
		domain.ServerTimestamp(domain.Timestamp{Seconds: 5}, &prev),
		domain.Int32(12),
		domain.BsonTimestampValue(3, 4),
		domain.BsonBinaryValue(1, []byte{9}),
		domain.ObjectID("507f1f77bcf86cd799439011"),
		domain.RegexValue("^a", "i"),
		domain.MinKey(),
		domain.MaxKey(),
		domain.MaxValue(),
		domain.Vector(1, 2.5),
		domain.Array(domain.Int(1), domain.Array()),
		domain.Map(map[string]domain.Value{"z": domain.Int(1), "a": domain.PlainMap(nil)}),
	}
	dec, err := domain.ParseDecimal128("1.25")
	s.Require().NoError(err)
	values = append(values, dec)

	for _, v := range values {
		b, err := EncodeJSON(v)
		s.Require().NoError(err)
		back, err := ParseJSON(b)
		s.Require().NoError(err, string(b))
		s.Equal(v.Kind(), back.Kind(), string(b))
		s.True(s.c.Equal(v, back), string(b))
	}

	b, err := EncodeJSON(domain.Double(math.NaN()))
	s.NoError(err)
	back, err := ParseJSON(b)
	s.NoError(err)
	s.True(back.IsNaN())
}

func (s *DataTestSuite) TestEncodeJSONIsDeterministic() {
	v := domain.Map(map[string]domain.Value{"b": domain.Int(1), "a": domain.Double(1)})
	b, err := EncodeJSON(v)
	s.NoError(err)
	s.Equal(`{"a":1.0,"b":1}`, string(b))
}

func (s *DataTestSuite) TestParseJSONNumbers() {
	testCases := []struct {
		in   string
		kind domain.Kind
	}{
		{"1", domain.KindInteger},
		{"-0", domain.KindInteger},
		{"1.0", domain.KindDouble},
		{"1e2", domain.KindDouble},
		{"9223372036854775808", domain.KindDouble},
	}
	for _, tc := range testCases {
		v, err := ParseJSON([]byte(tc.in))
		s.NoError(err)
		s.Equal(tc.kind, v.Kind(), tc.in)
	}
}

func (s *DataTestSuite) TestParseJSONErrors() {
	for _, in := range []string{
		`{"a":}`,
		`[1,`,
		`"abc`,
		`{"a":1} x`,
		`{"__timestamp__":5}`,
		`{"__double__":"big"}`,
		`{"__reference__":"odd"}`,
		`tru`,
		``,
	} {
		_, err := ParseJSON([]byte(in))
		s.ErrorAs(err, &domain.ErrDecode{}, in)
	}
}

func (s *DataTestSuite) TestParseJSONStrings() {
	testCases := []struct {
		in   string
		want string
	}{
		{`"a\né😀"`, "a\né😀"},
		{`"\u00e9\ud83d\ude00"`, "é😀"},
		{`"\"\\\/\b\f\r\t"`, "\"\\/\b\f\r\t"},
		{`"\u0041\u0000"`, "A\x00"},
	}
	for _, tc := range testCases {
		v, err := ParseJSON([]byte(tc.in))
		s.NoError(err, tc.in)
		s.Equal(tc.want, v.AsString(), tc.in)
	}

	_, err := ParseJSON([]byte(`"\x41"`))
	s.ErrorAs(err, &domain.ErrDecode{})
}

func (s *DataTestSuite) TestParseJSONNested() {
	v, err := ParseJSON([]byte(` {"a": [1, 1.0, "1", null, true], "b": {"\u0063": -2e0}} `))
	s.Require().NoError(err)

	a := v.AsMap()["a"].AsArray()
	s.Require().Len(a, 5)
	s.Equal(domain.Int(1), a[0])
	s.Equal(domain.Double(1), a[1])
	s.Equal(domain.String("1"), a[2])
	s.True(a[3].IsNull())
	s.Equal(domain.Bool(true), a[4])
	s.Equal(domain.Double(-2), v.AsMap()["b"].AsMap()["c"])
}

func (s *DataTestSuite) TestEstimateByteSize() {
	s.Equal(4, EstimateByteSize(domain.String("ab")))
	s.Equal(4, EstimateByteSize(domain.String("😀")))
	s.Equal(10, EstimateByteSize(domain.Map(map[string]domain.Value{"a": domain.Int(1)})))
	s.Equal(8, EstimateByteSize(domain.Array(domain.Bool(true), domain.Null())))
	s.Equal(16, EstimateByteSize(domain.Vector(1, 2)))
}

func (s *DataTestSuite) TestDetectSpecialMapType() {
	s.Equal(domain.KindMinKey, DetectSpecialMapType(map[string]domain.Value{"__min__": domain.Null()}))
	s.Equal(domain.KindMap, DetectSpecialMapType(map[string]domain.Value{"__min__": domain.Int(1)}))
}

func TestDataTestSuite(t *testing.T) {
	suite.Run(t, new(DataTestSuite))
}
