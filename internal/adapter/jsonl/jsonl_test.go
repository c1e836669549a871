package jsonl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

type idGeneratorMock struct{ mock.Mock }

// GenerateID implements [domain.IDGenerator].
func (g *idGeneratorMock) GenerateID(l int) (string, error) {
	call := g.Called(l)
	return call.String(0), call.Error(1)
}

type JSONLTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *JSONLTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *JSONLTestSuite) TestRead() {
	input := strings.Join([]string{
		`{"__name__": "users/alice", "age": 30, "score": 1.0}`,
		``,
		`{"__name__": "users/bob", "tags": ["a", "b"], "at": {"__timestamp__": "2024-01-02T03:04:05Z"}}`,
	}, "\n")

	docs, err := NewReader().ReadDocuments(s.ctx, strings.NewReader(input))
	s.Require().NoError(err)
	s.Require().Len(docs, 2)

	s.Equal("users/alice", docs[0].Key().String())
	age, ok := docs[0].Field(domain.FieldPath{"age"})
	s.True(ok)
	s.True(age.IsInteger())
	score, _ := docs[0].Field(domain.FieldPath{"score"})
	s.True(score.IsDouble())
	_, ok = docs[0].Field(domain.FieldPath{domain.KeyFieldName})
	s.False(ok)

	at, ok := docs[1].Field(domain.FieldPath{"at"})
	s.True(ok)
	s.True(at.IsTimestamp())
}

func (s *JSONLTestSuite) TestReadGeneratedKeys() {
	gen := new(idGeneratorMock)
	gen.On("GenerateID", 20).Return("generated", nil).Once()

	r := NewReader(domain.WithReaderCollection("things"), domain.WithReaderIDGenerator(gen))
	docs, err := r.ReadDocuments(s.ctx, strings.NewReader(`{"a": 1}`))
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal("things/generated", docs[0].Key().String())
	gen.AssertExpectations(s.T())

	gen = new(idGeneratorMock)
	gen.On("GenerateID", 20).Return("", errors.New("no entropy"))
	r = NewReader(domain.WithReaderCollection("things"), domain.WithReaderIDGenerator(gen))
	_, err = r.ReadDocuments(s.ctx, strings.NewReader(`{"a": 1}`))
	s.ErrorContains(err, "no entropy")
}

func (s *JSONLTestSuite) TestReadCustomFactory() {
	var keys []string
	factory := func(key domain.DocumentKey, fields any) (domain.Document, error) {
		keys = append(keys, key.String())
		return data.NewDocument(key, fields)
	}
	r := NewReader(domain.WithReaderDocumentFactory(factory))
	_, err := r.ReadDocuments(s.ctx, strings.NewReader("{\"__name__\":\"c/1\"}\n{\"__name__\":\"c/2\"}\n"))
	s.NoError(err)
	s.Equal([]string{"c/1", "c/2"}, keys)
}

func (s *JSONLTestSuite) TestReadErrors() {
	tests := []struct {
		name  string
		input string
		err   any
	}{
		{"Syntax", "{\"__name__\": \"c/1\"}\n{", &domain.ErrDecode{}},
		{"NotObject", `[1, 2]`, &domain.ErrDocumentType{}},
		{"KeyType", `{"__name__": 1}`, &domain.ErrDocumentType{}},
		{"OddPath", `{"__name__": "c"}`, &domain.ErrInvalidDocumentKey{}},
		{"NoCollection", `{"a": 1}`, &domain.ErrDocumentType{}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := NewReader().ReadDocuments(s.ctx, strings.NewReader(tt.input))
			s.ErrorAs(err, tt.err)
		})
	}

	_, err := NewReader().ReadDocuments(s.ctx, strings.NewReader("\n\n{"))
	s.ErrorContains(err, "line 3")
}

func (s *JSONLTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := NewReader().ReadDocuments(ctx, strings.NewReader(`{"__name__": "c/1"}`))
	s.ErrorIs(err, context.Canceled)

	err = NewWriter().WriteDocuments(ctx, new(bytes.Buffer))
	s.ErrorIs(err, context.Canceled)
}

func (s *JSONLTestSuite) TestWrite() {
	doc1, err := data.NewDocument(domain.MustDocumentKey("c/1"), map[string]any{"b": 2, "a": "x"})
	s.Require().NoError(err)
	doc2, err := data.NewDocument(domain.MustDocumentKey("c/2"), map[string]any{"n": 1.5})
	s.Require().NoError(err)
	missing := data.NewNoDocument(domain.MustDocumentKey("c/3"), domain.Timestamp{})

	buf := new(bytes.Buffer)
	s.NoError(NewWriter().WriteDocuments(s.ctx, buf, doc1, missing, doc2))
	s.Equal(
		"{\"__name__\":\"c/1\",\"a\":\"x\",\"b\":2}\n{\"__name__\":\"c/2\",\"n\":1.5}\n",
		buf.String(),
	)
}

func (s *JSONLTestSuite) TestRoundTrip() {
	input := `{"__name__":"c/1","arr":[1,2.5,null],"at":{"__timestamp__":"2024-01-02T03:04:05Z"},"m":{"v":{"__type__":"__vector__","value":[1,2]}}}`

	docs, err := NewReader().ReadDocuments(s.ctx, strings.NewReader(input))
	s.Require().NoError(err)

	buf := new(bytes.Buffer)
	s.NoError(NewWriter().WriteDocuments(s.ctx, buf, docs...))

	again, err := NewReader().ReadDocuments(s.ctx, buf)
	s.Require().NoError(err)
	s.Require().Len(again, 1)
	s.Equal(docs[0].Key(), again[0].Key())
	s.Equal(docs[0].Data(), again[0].Data())
}

func (s *JSONLTestSuite) TestEncodeKeyless() {
	doc := data.NewFoundDocument(domain.DocumentKey{}, domain.PlainMap(map[string]domain.Value{
		"count": domain.Int(3),
	}), domain.Timestamp{})
	b, err := EncodeDocument(doc)
	s.NoError(err)
	s.Equal(`{"count":3}`, string(b))
}

func TestJSONLTestSuite(t *testing.T) {
	suite.Run(t, new(JSONLTestSuite))
}
