package querier

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

type M = map[string]any

type evaluatorMock struct{ mock.Mock }

// Evaluate implements [domain.Evaluator].
func (e *evaluatorMock) Evaluate(expr domain.Expr, doc domain.Document) domain.EvalResult {
	return e.Called(expr, doc).Get(0).(domain.EvalResult)
}

type QuerierTestSuite struct {
	suite.Suite
	q   *Querier
	ctx context.Context
}

func (s *QuerierTestSuite) SetupTest() {
	s.q = NewQuerier().(*Querier)
	s.ctx = context.Background()
}

func (s *QuerierTestSuite) doc(path string, fields M) domain.Document {
	d, err := data.NewDocument(domain.MustDocumentKey(path), fields)
	s.Require().NoError(err)
	return d
}

func (s *QuerierTestSuite) run(docs []domain.Document, stages ...domain.Stage) []domain.Document {
	res, err := s.q.Execute(s.ctx, domain.NewPipeline(stages...), docs)
	s.Require().NoError(err)
	return res
}

func keys(docs []domain.Document) []string {
	res := make([]string, len(docs))
	for n, d := range docs {
		res[n] = d.Key().String()
	}
	return res
}

func field(d domain.Document, name string) domain.Value {
	v, _ := d.Field(domain.FieldPath{name})
	return v
}

func gt(name string, v domain.Value) domain.Expr {
	return domain.NewFunction(domain.FuncGt, domain.NewField(name), domain.NewConstant(v))
}

func asc(name string) domain.Ordering {
	return domain.Ordering{Expr: domain.NewField(name), Direction: domain.Ascending}
}

func desc(name string) domain.Ordering {
	return domain.Ordering{Expr: domain.NewField(name), Direction: domain.Descending}
}

func (s *QuerierTestSuite) TestScenario() {
	docs := []domain.Document{
		s.doc("c/a", M{"x": 3}),
		s.doc("c/b", M{"x": 1}),
		s.doc("c/c", M{"x": 5}),
		s.doc("c/d", M{"x": 2}),
	}
	res := s.run(docs,
		domain.CollectionSource{Path: "/c"},
		domain.Where{Condition: gt("x", domain.Int(1))},
		domain.Sort{Orderings: []domain.Ordering{asc("x")}},
		domain.Limit{N: 2},
	)
	s.Equal([]string{"c/d", "c/a"}, keys(res))
	s.Equal(domain.Int(2), field(res[0], "x"))
	s.Equal(domain.Int(3), field(res[1], "x"))

	// running twice yields the same output
	s.Equal(res, s.run(docs,
		domain.CollectionSource{Path: "/c"},
		domain.Where{Condition: gt("x", domain.Int(1))},
		domain.Sort{Orderings: []domain.Ordering{asc("x")}},
		domain.Limit{N: 2},
	))
}

func (s *QuerierTestSuite) TestDistinctNumberFamily() {
	dec, err := domain.ParseDecimal128("1.00")
	s.Require().NoError(err)
	docs := []domain.Document{
		s.doc("c/a", M{"x": domain.Int(1)}),
		s.doc("c/b", M{"x": domain.Int32(1)}),
		s.doc("c/c", M{"x": dec}),
		s.doc("c/d", M{"x": domain.Double(1)}),
		s.doc("c/e", M{"x": domain.Double(2)}),
	}
	res := s.run(docs, domain.Distinct{Groups: map[string]domain.Expr{"x": domain.NewField("x")}})
	s.Require().Len(res, 2)
	s.Equal(domain.Int(1), field(res[0], "x"))
	s.Equal(domain.Double(2), field(res[1], "x"))
}

func (s *QuerierTestSuite) TestDistinctSignedZero() {
	docs := []domain.Document{
		s.doc("c/a", M{"x": domain.Double(math.Copysign(0, -1))}),
		s.doc("c/b", M{"x": domain.Double(0)}),
		s.doc("c/c", M{"x": domain.Int(0)}),
		s.doc("c/d", M{"x": domain.Array(domain.Double(0))}),
		s.doc("c/e", M{"x": domain.Array(domain.Double(math.Copysign(0, -1)))}),
	}
	res := s.run(docs, domain.Distinct{Groups: map[string]domain.Expr{"x": domain.NewField("x")}})
	s.Require().Len(res, 2)
	s.True(math.Signbit(field(res[0], "x").AsDouble()))
	s.Equal(domain.Array(domain.Double(0)), field(res[1], "x"))
}

func (s *QuerierTestSuite) TestSources() {
	missing := data.NewNoDocument(domain.MustDocumentKey("c/gone"), domain.Timestamp{Seconds: 1})
	docs := []domain.Document{
		s.doc("c/a", nil),
		s.doc("c/a/c/b", nil),
		s.doc("d/a", nil),
		s.doc("x/y/d/b", nil),
		missing,
	}

	s.Equal([]string{"c/a"}, keys(s.run(docs, domain.CollectionSource{Path: "/c"})))
	s.Equal([]string{"c/a/c/b"}, keys(s.run(docs, domain.CollectionSource{Path: "c/a/c"})))
	s.Equal([]string{"c/a", "c/a/c/b"}, keys(s.run(docs, domain.CollectionGroupSource{CollectionID: "c"})))
	s.Equal([]string{"d/a", "x/y/d/b"}, keys(s.run(docs, domain.CollectionGroupSource{CollectionID: "d"})))
	s.Equal([]string{"c/a", "c/a/c/b", "d/a", "x/y/d/b"}, keys(s.run(docs, domain.DatabaseSource{})))
	s.Equal([]string{"c/a", "d/a"}, keys(s.run(docs, domain.DocumentsSource{Paths: []string{"/d/a", "c/a", "/c/gone"}})))
}

func (s *QuerierTestSuite) TestInvalidDocumentsSource() {
	docs := []domain.Document{s.doc("c/a", nil)}
	testCases := []domain.DocumentsSource{
		{},
		{Paths: []string{"c/a", "/c/a"}},
	}
	for _, tc := range testCases {
		// stages before the source must not have run either
		ev := new(evaluatorMock)
		q := NewQuerier(domain.WithQuerierEvaluator(ev))
		_, err := q.Execute(s.ctx, domain.NewPipeline(
			domain.DatabaseSource{},
			domain.Where{Condition: domain.NewField("x")},
			tc,
		), docs)
		var target domain.ErrInvalidDocuments
		s.ErrorAs(err, &target)
		s.ErrorContains(err, "stage 2 (documents)")
		ev.AssertNotCalled(s.T(), "Evaluate", mock.Anything, mock.Anything)
	}
}

func (s *QuerierTestSuite) TestWhereKeepsOnlyTrue() {
	results := []domain.EvalResult{
		domain.BoolResult(true),
		domain.BoolResult(false),
		domain.NullResult(),
		domain.UnsetResult(),
		domain.ErrorResult(),
		domain.ValueResult(domain.Int(1)),
		domain.BoolResult(true),
	}
	ev := new(evaluatorMock)
	var docs []domain.Document
	for n, r := range results {
		d := s.doc("c/"+string(rune('a'+n)), nil)
		docs = append(docs, d)
		ev.On("Evaluate", mock.Anything, d).Return(r).Once()
	}

	q := NewQuerier(domain.WithQuerierEvaluator(ev))
	res, err := q.Execute(s.ctx, domain.NewPipeline(domain.Where{Condition: domain.NewField("x")}), docs)
	s.NoError(err)
	s.Equal([]string{"c/a", "c/g"}, keys(res))
	ev.AssertExpectations(s.T())
}

func (s *QuerierTestSuite) TestSort() {
	docs := []domain.Document{
		s.doc("c/a", M{"x": 2, "y": "b"}),
		s.doc("c/b", M{"y": "a"}),
		s.doc("c/c", M{"x": 1, "y": "a"}),
		s.doc("c/d", M{"x": nil, "y": "z"}),
		s.doc("c/e", M{"x": 2, "y": "a"}),
		s.doc("c/f", M{"x": "s"}),
	}

	s.Run("Ascending", func() {
		res := s.run(docs, domain.Sort{Orderings: []domain.Ordering{asc("x")}})
		s.Equal([]string{"c/b", "c/d", "c/c", "c/a", "c/e", "c/f"}, keys(res))
	})

	s.Run("Descending", func() {
		res := s.run(docs, domain.Sort{Orderings: []domain.Ordering{desc("x")}})
		s.Equal([]string{"c/f", "c/a", "c/e", "c/c", "c/d", "c/b"}, keys(res))
	})

	s.Run("MultipleKeys", func() {
		res := s.run(docs, domain.Sort{Orderings: []domain.Ordering{asc("x"), desc("y")}})
		s.Equal([]string{"c/b", "c/d", "c/c", "c/a", "c/e", "c/f"}, keys(res))
		res = s.run(docs, domain.Sort{Orderings: []domain.Ordering{asc("y"), desc("x")}})
		s.Equal([]string{"c/f", "c/e", "c/c", "c/b", "c/a", "c/d"}, keys(res))
	})

	s.Run("Stable", func() {
		res := s.run(docs, domain.Sort{Orderings: []domain.Ordering{asc("missing")}})
		s.Equal(keys(docs), keys(res))
	})

	s.Run("DocumentKey", func() {
		res := s.run(docs, domain.Sort{Orderings: []domain.Ordering{desc(domain.KeyFieldName)}})
		s.Equal([]string{"c/f", "c/e", "c/d", "c/c", "c/b", "c/a"}, keys(res))
	})
}

func (s *QuerierTestSuite) TestLimitAndOffset() {
	docs := []domain.Document{s.doc("c/a", nil), s.doc("c/b", nil), s.doc("c/c", nil)}

	s.Equal([]string{"c/a", "c/b"}, keys(s.run(docs, domain.Limit{N: 2})))
	s.Equal([]string{"c/a", "c/b", "c/c"}, keys(s.run(docs, domain.Limit{N: 10, Converted: true})))
	s.Empty(s.run(docs, domain.Limit{N: 0}))
	s.Empty(s.run(docs, domain.Limit{N: -1}))
	s.Equal([]string{"c/b", "c/c"}, keys(s.run(docs, domain.Offset{N: 1})))
	s.Empty(s.run(docs, domain.Offset{N: 4}))
	s.Equal([]string{"c/b"}, keys(s.run(docs, domain.Offset{N: 1}, domain.Limit{N: 1})))
}

func (s *QuerierTestSuite) TestProjections() {
	docs := []domain.Document{s.doc("c/a", M{"x": 2, "y": "b"})}
	double := domain.NewFunction(domain.FuncMultiply, domain.NewField("x"), domain.NewConstant(domain.Int(2)))

	res := s.run(docs, domain.Select{Fields: map[string]domain.Expr{
		"x2":      double,
		"missing": domain.NewField("missing"),
	}})
	s.Require().Len(res, 1)
	s.Equal("c/a", res[0].Key().String())
	s.Equal(domain.PlainMap(map[string]domain.Value{"x2": domain.Int(4)}), res[0].Data())

	res = s.run(docs, domain.AddFields{Fields: map[string]domain.Expr{"x2": double}})
	s.Require().Len(res, 1)
	s.Equal(domain.PlainMap(map[string]domain.Value{
		"x":  domain.Int(2),
		"y":  domain.String("b"),
		"x2": domain.Int(4),
	}), res[0].Data())

	// the input document is untouched
	s.Equal(domain.Value{}, field(docs[0], "x2"))
}

func (s *QuerierTestSuite) TestDistinct() {
	docs := []domain.Document{
		s.doc("c/a", M{"k": "x", "n": 1}),
		s.doc("c/b", M{"k": "y", "n": 2}),
		s.doc("c/c", M{"k": "x", "n": 3}),
		s.doc("c/d", M{"n": 4}),
	}
	res := s.run(docs, domain.Distinct{Groups: map[string]domain.Expr{"k": domain.NewField("k")}})
	s.Require().Len(res, 3)
	s.Equal(domain.String("x"), field(res[0], "k"))
	s.Equal(domain.String("y"), field(res[1], "k"))
	s.True(field(res[2], "k").IsNull())
	s.True(res[0].Key().IsEmpty())
}

func (s *QuerierTestSuite) TestDistinctNumbersAndStrings() {
	docs := []domain.Document{
		s.doc("c/a", M{"k": 1}),
		s.doc("c/b", M{"k": "1"}),
		s.doc("c/c", M{"k": 1.0}),
	}
	res := s.run(docs, domain.Distinct{Groups: map[string]domain.Expr{"k": domain.NewField("k")}})
	s.Require().Len(res, 2)
	s.Equal(domain.Int(1), field(res[0], "k"))
	s.Equal(domain.String("1"), field(res[1], "k"))
}

func (s *QuerierTestSuite) TestAggregateIsNotExecuted() {
	docs := []domain.Document{s.doc("c/a", M{"n": 1})}
	_, err := s.q.Execute(s.ctx, domain.NewPipeline(
		domain.CollectionSource{Path: "c"},
		domain.Aggregate{Accumulators: map[string]domain.Expr{
			"n": domain.NewFunction(domain.FuncCount),
		}},
	), docs)
	var target domain.ErrInvalidPipeline
	s.ErrorAs(err, &target)
}

func (s *QuerierTestSuite) TestFindNearest() {
	docs := []domain.Document{
		s.doc("c/a", M{"v": domain.Vector(1, 0)}),
		s.doc("c/b", M{"v": domain.Vector(3, 4)}),
		s.doc("c/c", M{"v": domain.Vector(1, 1, 1)}),
		s.doc("c/d", M{"v": "nope"}),
		s.doc("c/e", M{"v": domain.Vector(0, 1)}),
	}
	stage := domain.FindNearest{
		Field:           domain.NewField("v"),
		Vector:          []float64{0, 0},
		DistanceMeasure: MeasureEuclidean,
	}

	res := s.run(docs, stage)
	s.Equal([]string{"c/a", "c/e", "c/b"}, keys(res))

	stage.Limit = 2
	stage.DistanceField = "dist"
	res = s.run(docs, stage)
	s.Equal([]string{"c/a", "c/e"}, keys(res))
	s.Equal(domain.Double(1), field(res[0], "dist"))

	stage = domain.FindNearest{
		Field:           domain.NewField("v"),
		Vector:          []float64{1, 1},
		DistanceMeasure: MeasureDotProduct,
	}
	s.Equal([]string{"c/b", "c/a", "c/e"}, keys(s.run(docs, stage)))

	stage.DistanceMeasure = "chebyshev"
	_, err := s.q.Execute(s.ctx, domain.NewPipeline(stage), docs)
	var target domain.ErrInvalidPipeline
	s.ErrorAs(err, &target)
}

func (s *QuerierTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.q.Execute(ctx, domain.NewPipeline(domain.DatabaseSource{}), nil)
	s.ErrorIs(err, context.Canceled)
}

func (s *QuerierTestSuite) TestUnknownStage() {
	_, err := s.q.Execute(s.ctx, domain.Pipeline{Stages: []domain.Stage{nil}}, nil)
	var target domain.ErrUnknownStage
	s.ErrorAs(err, &target)
}

func (s *QuerierTestSuite) TestEmptyPipeline() {
	docs := []domain.Document{s.doc("c/a", nil)}
	s.Equal(docs, s.run(docs))
}

func TestQuerierTestSuite(t *testing.T) {
	suite.Run(t, new(QuerierTestSuite))
}
