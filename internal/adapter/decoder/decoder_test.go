package decoder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

type M = map[string]any

type DecoderTestSuite struct {
	suite.Suite
	d *Decoder
}

func (s *DecoderTestSuite) SetupTest() {
	s.d = NewDecoder().(*Decoder)
}

func (s *DecoderTestSuite) TestSimpleStruct() {
	type SimpleStruct struct {
		Name  string
		Age   int
		Human bool
	}

	var tgt SimpleStruct
	err := s.d.Decode(M{"name": "Jonathan", "age": 18, "human": true}, &tgt)
	s.NoError(err)
	s.Equal("Jonathan", tgt.Name)
	s.Equal(18, tgt.Age)
	s.Equal(true, tgt.Human)
}

func (s *DecoderTestSuite) TestLists() {
	type ListStruct struct {
		Booleans []bool
		Strings  []string
		Numbers  []int
	}

	src := M{
		"booleans": []any{true, false},
		"strings":  []any{"one", "two"},
		"numbers":  []any{1, uint(2), 3.0},
	}

	var tgt ListStruct
	err := s.d.Decode(src, &tgt)
	s.NoError(err)
	s.Equal([]bool{true, false}, tgt.Booleans)
	s.Equal([]string{"one", "two"}, tgt.Strings)
	s.Equal([]int{1, 2, 3}, tgt.Numbers)
}

func (s *DecoderTestSuite) TestTags() {
	type Tagged struct {
		ID    string `gequery:"__name__"`
		Title string `gequery:"title_text"`
	}

	var tgt Tagged
	s.NoError(s.d.Decode(M{"__name__": "books/1", "title_text": "Dune"}, &tgt))
	s.Equal(Tagged{ID: "books/1", Title: "Dune"}, tgt)
}

func (s *DecoderTestSuite) TestValue() {
	type Nested struct {
		Inner struct {
			Text   string
			Number float64
		}
		When time.Time
		Tags []string
	}

	when := time.Unix(1700000000, 5).UTC()
	v := domain.Map(map[string]domain.Value{
		"inner": domain.Map(map[string]domain.Value{
			"text":   domain.String("str"),
			"number": domain.Double(1.5),
		}),
		"when": domain.TimestampValue(domain.TimestampFromTime(when)),
		"tags": domain.Array(domain.String("a"), domain.String("b")),
	})

	var tgt Nested
	s.NoError(s.d.Decode(v, &tgt))
	s.Equal("str", tgt.Inner.Text)
	s.Equal(1.5, tgt.Inner.Number)
	s.True(when.Equal(tgt.When))
	s.Equal([]string{"a", "b"}, tgt.Tags)
}

func (s *DecoderTestSuite) TestDocument() {
	type Book struct {
		Key   string `gequery:"__name__"`
		Title string
		Pages int64
	}

	doc, err := data.NewDocument(domain.MustDocumentKey("books/dune"), M{"title": "Dune", "pages": 412})
	s.Require().NoError(err)

	var tgt Book
	s.NoError(s.d.Decode(doc, &tgt))
	s.Equal(Book{Key: "books/dune", Title: "Dune", Pages: 412}, tgt)
}

func (s *DecoderTestSuite) TestIncompleteData() {
	type IncompleteStruct struct {
		Number  int
		Boolean bool
		Text    string
	}

	tgt := IncompleteStruct{}
	err := s.d.Decode(M{"number": 2}, &tgt)
	s.NoError(err)
	s.Equal(2, tgt.Number)
	s.Zero(tgt.Boolean)
	s.Zero(tgt.Text)

	tgt = IncompleteStruct{}
	err = s.d.Decode(M{"text": "str", "extra": true}, &tgt)
	s.NoError(err)
	s.Zero(tgt.Number)
	s.Zero(tgt.Boolean)
	s.Equal("str", tgt.Text)
}

func (s *DecoderTestSuite) TestIncompatibleTypes() {
	type IncompatibleStruct struct {
		Number  uint
		Boolean bool
		Text    string
	}

	var tgt IncompatibleStruct

	s.ErrorAs(s.d.Decode(M{"number": -1}, &tgt), &domain.ErrDecode{})
	s.ErrorAs(s.d.Decode(M{"boolean": 1}, &tgt), &domain.ErrDecode{})
	s.ErrorAs(s.d.Decode(M{"text": 123}, &tgt), &domain.ErrDecode{})
}

func (s *DecoderTestSuite) TestInvalidTarget() {
	type InvalidPointerStruct struct{}

	var tgt InvalidPointerStruct
	s.ErrorAs(s.d.Decode(M{}, tgt), &domain.ErrDecode{})

	var nilTarget *domain.ErrTargetNil
	s.ErrorAs(s.d.Decode(M{}, nil), &nilTarget)
}

func TestDecoderTestSuite(t *testing.T) {
	suite.Run(t, new(DecoderTestSuite))
}
