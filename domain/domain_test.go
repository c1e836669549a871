package domain_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

type DomainTestSuite struct {
	suite.Suite
}

type inequalityStub struct {
	domain.FieldFilter
	field domain.FieldPath
	ineq  bool
}

func (f inequalityStub) Field() domain.FieldPath { return f.field }

func (f inequalityStub) IsInequality() bool { return f.ineq }

func (f inequalityStub) FlattenedFilters() []domain.FieldFilter {
	return []domain.FieldFilter{f}
}

func (s *DomainTestSuite) TestOptions() {
	var eos domain.EvaluatorOptions
	for _, opt := range []domain.EvaluatorOption{
		domain.WithEvaluatorComparer(nil),
		domain.WithEvaluatorFieldNavigator(nil),
		domain.WithEvaluatorLanguage("tr"),
	} {
		opt(&eos)
	}
	s.Equal(domain.EvaluatorOptions{Language: "tr"}, eos)

	var ios domain.IndexOptions
	domain.WithIndexField(domain.FieldPath{"a", "b"})(&ios)
	s.Equal(domain.IndexOptions{Field: domain.FieldPath{"a", "b"}}, ios)

	var ros domain.DocumentReaderOptions
	domain.WithReaderCollection("users")(&ros)
	s.Equal("users", ros.Collection)

	var gos domain.IDGeneratorOptions
	r := bytes.NewReader(nil)
	domain.WithIDGeneratorReader(r)(&gos)
	s.Same(r, gos.Reader)
}

func (s *DomainTestSuite) TestZeroValueIsNull() {
	var v domain.Value
	s.True(v.IsNull())
	s.Equal(domain.KindNull, v.Kind())
	s.Equal(domain.TypeOrderNull, v.Kind().TypeOrder())
}

func (s *DomainTestSuite) TestAccessorPanicsOnWrongKind() {
	s.Panics(func() { domain.String("a").AsInt() })
	s.Panics(func() { domain.Int(1).AsArray() })
	s.NotPanics(func() { domain.Int32(7).AsInt() })
}

func (s *DomainTestSuite) TestNumberFamily() {
	dec, err := domain.ParseDecimal128("1.5")
	s.NoError(err)
	for _, v := range []domain.Value{domain.Int(1), domain.Int32(2), domain.Double(3), dec} {
		s.True(v.IsNumber())
		s.Equal(domain.TypeOrderNumber, v.Kind().TypeOrder())
	}
	s.Equal(1.5, dec.AsFloat())

	nan, err := domain.ParseDecimal128("NaN")
	s.NoError(err)
	s.True(nan.IsNaN())
	s.True(domain.Double(math.NaN()).IsNaN())
	s.False(domain.Int(0).IsNaN())

	_, err = domain.ParseDecimal128("one")
	s.Error(err)
}

func (s *DomainTestSuite) TestClassifyMap() {
	m := func(kv ...any) map[string]domain.Value {
		res := map[string]domain.Value{}
		for i := 0; i < len(kv); i += 2 {
			res[kv[i].(string)] = kv[i+1].(domain.Value)
		}
		return res
	}
	lwt := domain.Timestamp{Seconds: 10, Nanos: 5}

	valid := []struct {
		name string
		in   map[string]domain.Value
		kind domain.Kind
	}{
		{"vector", m("__type__", domain.String("__vector__"), "value", domain.Array(domain.Int(1), domain.Double(2))), domain.KindVector},
		{"server timestamp", m("__type__", domain.String("server_timestamp"), "__local_write_time__", domain.TimestampValue(lwt)), domain.KindServerTimestamp},
		{"max value", m("__type__", domain.String("__max__")), domain.KindMaxValue},
		{"object id", m("__oid__", domain.String("507f1f77bcf86cd799439011")), domain.KindBsonObjectID},
		{"bson timestamp", m("__request_timestamp__", domain.PlainMap(m("seconds", domain.Int(1), "increment", domain.Int(2)))), domain.KindBsonTimestamp},
		{"binary", m("__binary__", domain.Bytes([]byte{4, 1, 2})), domain.KindBsonBinary},
		{"regex", m("__regex__", domain.PlainMap(m("pattern", domain.String("^a"), "options", domain.String("i")))), domain.KindRegex},
		{"int32", m("__int__", domain.Int(12)), domain.KindInt32},
		{"decimal", m("__decimal128__", domain.String("1.25")), domain.KindDecimal128},
		{"min key", m("__min__", domain.Null()), domain.KindMinKey},
		{"max key", m("__max__", domain.Null()), domain.KindMaxKey},
	}
	for _, tc := range valid {
		s.Run(tc.name, func() {
			v := domain.Map(tc.in)
			s.Equal(tc.kind, v.Kind())
			wire, ok := v.WireMap()
			s.True(ok)
			s.Equal(tc.kind, domain.Map(wire).Kind())
		})
	}

	partial := []map[string]domain.Value{
		m("__oid__", domain.String("a"), "other", domain.Int(1)),
		m("__oid__", domain.Int(1)),
		m("__int__", domain.Int(math.MaxInt64)),
		m("__binary__", domain.Bytes(nil)),
		m("__regex__", domain.PlainMap(m("pattern", domain.String("a")))),
		m("__type__", domain.String("something")),
		m("__type__", domain.String("__vector__"), "value", domain.String("x")),
	}
	for _, in := range partial {
		s.Equal(domain.KindMap, domain.Map(in).Kind())
	}

	bin := domain.Map(m("__binary__", domain.Bytes([]byte{4, 1, 2}))).AsBsonBinary()
	s.Equal(byte(4), bin.Subtype)
	s.Equal([]byte{1, 2}, bin.Data)

	_, ok := domain.String("a").WireMap()
	s.False(ok)
}

func (s *DomainTestSuite) TestServerTimestampPreviousValue() {
	prev := domain.Int(3)
	v := domain.ServerTimestamp(domain.Timestamp{Seconds: 1}, &prev)
	got, ok := v.PreviousValue()
	s.True(ok)
	s.Equal(prev, got)
	s.Equal(int64(1), v.AsTimestamp().Seconds)

	_, ok = domain.ServerTimestamp(domain.Timestamp{}, nil).PreviousValue()
	s.False(ok)
}

func (s *DomainTestSuite) TestPaths() {
	p := domain.ParseResourcePath("/rooms/a/messages/")
	s.Equal(domain.ResourcePath{"rooms", "a", "messages"}, p)
	s.Equal("messages", p.LastSegment())
	s.Equal("rooms/a", p.PopLast().CanonicalString())
	s.True(p.PopLast().IsPrefixOf(p))
	s.False(p.IsPrefixOf(p.PopLast()))

	k, err := domain.ParseDocumentKey("projects/p/databases/d/documents/rooms/a")
	s.NoError(err)
	s.Equal("rooms/a", k.String())
	s.Equal("rooms", k.CollectionID())
	s.Equal("a", k.ID())

	_, err = domain.ParseDocumentKey("rooms")
	s.ErrorAs(err, &domain.ErrInvalidDocumentKey{})

	s.Equal("a.b", domain.FieldPath{"a", "b"}.CanonicalString())
	s.Equal("`a.b`.`1x`.c", domain.FieldPath{"a.b", "1x", "c"}.CanonicalString())
	s.Equal("`a\\`b`", domain.FieldPath{"a`b"}.CanonicalString())
	s.True(domain.KeyFieldPath.IsKeyField())
}

func (s *DomainTestSuite) TestNormalizedOrderBy() {
	q := domain.Query{Path: domain.ResourcePath{"c"}}
	s.Equal([]domain.OrderBy{{Field: domain.KeyFieldPath, Direction: domain.Ascending}}, q.NormalizedOrderBy())

	q.Filters = []domain.Filter{
		inequalityStub{field: domain.FieldPath{"z"}, ineq: true},
		inequalityStub{field: domain.FieldPath{"eq"}},
		inequalityStub{field: domain.FieldPath{"b"}, ineq: true},
	}
	q.ExplicitOrderBy = []domain.OrderBy{{Field: domain.FieldPath{"z"}, Direction: domain.Descending}}
	s.Equal([]domain.OrderBy{
		{Field: domain.FieldPath{"z"}, Direction: domain.Descending},
		{Field: domain.FieldPath{"b"}, Direction: domain.Descending},
		{Field: domain.KeyFieldPath, Direction: domain.Descending},
	}, q.NormalizedOrderBy())
}

func (s *DomainTestSuite) TestEvalResult() {
	s.True(domain.ValueResult(domain.Null()).IsNull())
	s.True(domain.BoolResult(true).IsTrue())
	s.True(domain.BoolResult(false).IsFalse())
	s.True(domain.UnsetResult().IsErrorOrUnset())
	var zero domain.EvalResult
	s.True(zero.IsError())
}

func TestDomainTestSuite(t *testing.T) {
	suite.Run(t, new(DomainTestSuite))
}
