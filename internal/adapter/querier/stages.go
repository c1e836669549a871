package querier

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/gequery/pkg/valuemap"
)

// Distance measures accepted by find nearest stages.
const (
	MeasureEuclidean  = "euclidean"
	MeasureCosine     = "cosine"
	MeasureDotProduct = "dot_product"
)

var measures = map[string]string{
	MeasureEuclidean:  domain.FuncEuclideanDistance,
	MeasureCosine:     domain.FuncCosineDistance,
	MeasureDotProduct: domain.FuncDotProduct,
}

// derive returns a document with the key and versions of d holding fields.
func derive(d domain.Document, fields map[string]domain.Value) domain.Document {
	return data.NewFoundDocument(d.Key(), domain.PlainMap(fields), d.UpdateTime()).
		WithCreateTime(d.CreateTime())
}

// fieldsOf returns a modifiable copy of the fields of d.
func fieldsOf(d domain.Document) map[string]domain.Value {
	res := map[string]domain.Value{}
	if d.Data().IsMap() {
		maps.Copy(res, d.Data().AsMap())
	}
	return res
}

func keyless(fields map[string]domain.Value) domain.Document {
	return data.NewFoundDocument(domain.DocumentKey{}, domain.PlainMap(fields), domain.Timestamp{})
}

// project evaluates fields on every document. With add set the computed
// fields are merged into the existing ones, otherwise they replace them.
// Fields that fail or are absent are left out.
func (q *Querier) project(docs []domain.Document, fields map[string]domain.Expr, add bool) []domain.Document {
	res := make([]domain.Document, len(docs))
	for n, d := range docs {
		m := map[string]domain.Value{}
		if add {
			m = fieldsOf(d)
		}
		for name, expr := range fields {
			r := q.eval.Evaluate(expr, d)
			if r.IsValue() || r.IsNull() {
				m[name] = r.Value()
			}
		}
		res[n] = derive(d, m)
	}
	return res
}

func (q *Querier) groupValues(d domain.Document, groups map[string]domain.Expr) map[string]domain.Value {
	m := make(map[string]domain.Value, len(groups))
	for name, expr := range groups {
		r := q.eval.Evaluate(expr, d)
		// absent and failing groups share the null group
		m[name] = r.Value()
	}
	return m
}

// distinct keeps one keyless document per group of values, in the order
// groups are first seen. Numerically equal values share a group, and the
// first value seen is the one kept.
func (q *Querier) distinct(docs []domain.Document, groups map[string]domain.Expr) []domain.Document {
	var res []domain.Document
	seen := valuemap.New[struct{}](q.hshr, q.cmpr)
	for _, d := range docs {
		fields := q.groupValues(d, groups)
		key := domain.PlainMap(fields)
		if _, ok := seen.Get(key); ok {
			continue
		}
		seen.Set(key, struct{}{})
		res = append(res, keyless(fields))
	}
	return res
}

// findNearest keeps the documents whose field is a vector of the query
// dimension, closest first.
func (q *Querier) findNearest(docs []domain.Document, s domain.FindNearest) ([]domain.Document, error) {
	fn, ok := measures[s.DistanceMeasure]
	if !ok {
		return nil, domain.ErrInvalidPipeline{
			Reason: fmt.Sprintf("unknown distance measure %q", s.DistanceMeasure),
		}
	}
	expr := domain.NewFunction(fn, s.Field, domain.NewConstant(domain.Vector(s.Vector...)))

	type scored struct {
		doc      domain.Document
		distance float64
	}
	var found []scored
	for _, d := range docs {
		r := q.eval.Evaluate(expr, d)
		if !r.IsValue() {
			continue
		}
		found = append(found, scored{doc: d, distance: r.Value().AsDouble()})
	}

	slices.SortStableFunc(found, func(a, b scored) int {
		// a larger dot product means closer vectors
		if s.DistanceMeasure == MeasureDotProduct {
			return cmp.Compare(b.distance, a.distance)
		}
		return cmp.Compare(a.distance, b.distance)
	})
	if s.Limit > 0 && int64(len(found)) > s.Limit {
		found = found[:s.Limit]
	}

	res := make([]domain.Document, len(found))
	for n, f := range found {
		res[n] = f.doc
		if s.DistanceField == "" {
			continue
		}
		fields := fieldsOf(f.doc)
		fields[s.DistanceField] = domain.Double(f.distance)
		res[n] = derive(f.doc, fields)
	}
	return res, nil
}
