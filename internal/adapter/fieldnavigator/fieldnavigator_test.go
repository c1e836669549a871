package fieldnavigator

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

type FieldNavigatorTestSuite struct {
	suite.Suite
	fn *FieldNavigator
}

func (s *FieldNavigatorTestSuite) SetupTest() {
	s.fn = NewFieldNavigator().(*FieldNavigator)
}

func (s *FieldNavigatorTestSuite) TestParseField() {
	testCases := []struct {
		in   string
		want domain.FieldPath
	}{
		{"a", domain.FieldPath{"a"}},
		{"a.b.c", domain.FieldPath{"a", "b", "c"}},
		{"`a.b`.c", domain.FieldPath{"a.b", "c"}},
		{"a\\.b", domain.FieldPath{"a.b"}},
		{"`a\\`b`", domain.FieldPath{"a`b"}},
		{"``", domain.FieldPath{""}},
		{"__name__", domain.KeyFieldPath},
	}
	for _, tc := range testCases {
		s.Run(tc.in, func() {
			got, err := s.fn.ParseField(tc.in)
			s.NoError(err)
			s.Equal(tc.want, got)
		})
	}
}

func (s *FieldNavigatorTestSuite) TestParseFieldRoundTrip() {
	for _, path := range []domain.FieldPath{
		{"plain", "seg"},
		{"with.dot", "1digit"},
		{"back`tick", "back\\slash"},
	} {
		got, err := s.fn.ParseField(path.CanonicalString())
		s.NoError(err)
		s.Equal(path, got)
	}
}

func (s *FieldNavigatorTestSuite) TestParseFieldErrors() {
	for _, in := range []string{"", "a.", ".a", "a..b", "`a", "a\\", "a\\b"} {
		_, err := s.fn.ParseField(in)
		s.ErrorAs(err, &domain.ErrFieldPath{}, in)
	}
}

func (s *FieldNavigatorTestSuite) TestGetField() {
	doc := domain.Map(map[string]domain.Value{
		"hello": domain.String("world"),
		"type": domain.Map(map[string]domain.Value{
			"planet": domain.Bool(true),
			"moons":  domain.Array(domain.String("luna")),
		}),
	})

	v, ok := s.fn.GetField(doc, domain.FieldPath{"type", "planet"})
	s.True(ok)
	s.True(v.IsTrue())

	v, ok = s.fn.GetField(doc, nil)
	s.True(ok)
	s.True(v.IsMap())

	// arrays are not traversed
	_, ok = s.fn.GetField(doc, domain.FieldPath{"type", "moons", "0"})
	s.False(ok)

	_, ok = s.fn.GetField(doc, domain.FieldPath{"hello", "x"})
	s.False(ok)

	_, ok = s.fn.GetField(doc, domain.FieldPath{"helloo"})
	s.False(ok)
}

func (s *FieldNavigatorTestSuite) TestSplitFields() {
	got, err := s.fn.SplitFields("a.b, `c,d`")
	s.Error(err)
	s.Nil(got)

	got, err = s.fn.SplitFields("a.b, c")
	s.NoError(err)
	s.Equal([]domain.FieldPath{{"a", "b"}, {"c"}}, got)
}

func TestFieldNavigatorTestSuite(t *testing.T) {
	suite.Run(t, new(FieldNavigatorTestSuite))
}
