// Package querier contains the default [domain.Querier] implementation, the
// pipeline executor.
package querier

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/golang/glog"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/evaluator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/hasher"
	"github.com/vinicius-lino-figueiredo/gequery/internal/metrics"
)

// Querier implements [domain.Querier].
type Querier struct {
	eval domain.Evaluator
	cmpr domain.Comparer
	hshr domain.Hasher
}

// NewQuerier returns a new implementation of [domain.Querier].
func NewQuerier(options ...domain.QuerierOption) domain.Querier {
	opts := domain.QuerierOptions{}
	for _, option := range options {
		option(&opts)
	}
	if opts.Comparer == nil {
		opts.Comparer = comparer.NewComparer()
	}
	if opts.Evaluator == nil {
		opts.Evaluator = evaluator.NewEvaluator(
			domain.WithEvaluatorComparer(opts.Comparer),
		)
	}
	if opts.Hasher == nil {
		opts.Hasher = hasher.NewHasher()
	}
	return &Querier{
		eval: opts.Evaluator,
		cmpr: opts.Comparer,
		hshr: opts.Hasher,
	}
}

// Execute implements [domain.Querier]. Stages run in order, each one over
// the output of the previous one. The context is checked between stages.
func (q *Querier) Execute(ctx context.Context, p domain.Pipeline, docs []domain.Document) ([]domain.Document, error) {
	source := "none"
	if len(p.Stages) > 0 {
		source = stageName(p.Stages[0])
	}

	res, err := q.execute(ctx, p, docs)
	if err != nil {
		metrics.PipelineExecutions.WithLabelValues(source, metrics.StatusError).Inc()
		return nil, err
	}
	metrics.PipelineExecutions.WithLabelValues(source, metrics.StatusOK).Inc()
	return res, nil
}

func (q *Querier) execute(ctx context.Context, p domain.Pipeline, docs []domain.Document) ([]domain.Document, error) {
	for n, st := range p.Stages {
		if ds, ok := st.(domain.DocumentsSource); ok {
			if err := validateDocuments(ds); err != nil {
				return nil, fmt.Errorf("stage %d (%s): %w", n, stageName(st), err)
			}
		}
	}

	res := docs
	for n, st := range p.Stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := stageName(st)
		start := time.Now()
		out, err := q.run(st, res)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", n, name, err)
		}
		metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		metrics.StageDocuments.WithLabelValues(name, metrics.DirectionIn).Add(float64(len(res)))
		metrics.StageDocuments.WithLabelValues(name, metrics.DirectionOut).Add(float64(len(out)))
		if glog.V(2) {
			glog.Infof("stage %d (%s): %d documents in, %d out", n, name, len(res), len(out))
		}
		res = out
	}
	return res, nil
}

func (q *Querier) run(st domain.Stage, docs []domain.Document) ([]domain.Document, error) {
	switch s := st.(type) {
	case domain.CollectionSource:
		path := domain.ParseResourcePath(s.Path)
		return keep(docs, func(d domain.Document) bool {
			return d.Exists() && d.Key().CollectionPath().Equal(path)
		}), nil
	case domain.CollectionGroupSource:
		return keep(docs, func(d domain.Document) bool {
			return d.Exists() && d.Key().HasCollectionID(s.CollectionID)
		}), nil
	case domain.DatabaseSource:
		return keep(docs, domain.Document.Exists), nil
	case domain.DocumentsSource:
		paths := make(map[string]struct{}, len(s.Paths))
		for _, p := range s.Paths {
			paths[normalizePath(p)] = struct{}{}
		}
		return keep(docs, func(d domain.Document) bool {
			_, ok := paths[d.Key().String()]
			return d.Exists() && ok
		}), nil
	case domain.Where:
		return keep(docs, func(d domain.Document) bool {
			return q.eval.Evaluate(s.Condition, d).IsTrue()
		}), nil
	case domain.Sort:
		return q.sort(docs, s.Orderings), nil
	case domain.Limit:
		return docs[:min(max(s.N, 0), int64(len(docs)))], nil
	case domain.Offset:
		return docs[min(max(s.N, 0), int64(len(docs))):], nil
	case domain.Select:
		return q.project(docs, s.Fields, false), nil
	case domain.AddFields:
		return q.project(docs, s.Fields, true), nil
	case domain.Distinct:
		return q.distinct(docs, s.Groups), nil
	case domain.Aggregate:
		// accumulators are declared shapes, nothing runs them
		return nil, domain.ErrInvalidPipeline{Reason: "aggregate stages are not executed"}
	case domain.FindNearest:
		return q.findNearest(docs, s)
	}
	return nil, domain.ErrUnknownStage{Name: stageName(st)}
}

func stageName(st domain.Stage) string {
	if st == nil {
		return "<nil>"
	}
	return st.Name()
}

// validateDocuments rejects empty and repeated path lists before any
// document is read.
func validateDocuments(s domain.DocumentsSource) error {
	if len(s.Paths) == 0 {
		return domain.ErrInvalidDocuments{Reason: "empty path list"}
	}
	seen := make(map[string]struct{}, len(s.Paths))
	for _, p := range s.Paths {
		n := normalizePath(p)
		if _, ok := seen[n]; ok {
			return domain.ErrInvalidDocuments{Reason: fmt.Sprintf("duplicate path %q", p)}
		}
		seen[n] = struct{}{}
	}
	return nil
}

func normalizePath(p string) string {
	return domain.ParseResourcePath(p).CanonicalString()
}

func keep(docs []domain.Document, pred func(domain.Document) bool) []domain.Document {
	res := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if pred(d) {
			res = append(res, d)
		}
	}
	return res
}

// sortKey is an evaluated ordering expression. Absent and failed keys sort
// before every value.
type sortKey struct {
	value   domain.Value
	present bool
}

type sortEntry struct {
	doc  domain.Document
	keys []sortKey
}

// sort evaluates every key once and keeps the input order of ties.
func (q *Querier) sort(docs []domain.Document, orderings []domain.Ordering) []domain.Document {
	entries := make([]sortEntry, len(docs))
	for n, d := range docs {
		keys := make([]sortKey, len(orderings))
		for i, o := range orderings {
			r := q.eval.Evaluate(o.Expr, d)
			keys[i] = sortKey{value: r.Value(), present: r.IsValue() || r.IsNull()}
		}
		entries[n] = sortEntry{doc: d, keys: keys}
	}

	slices.SortStableFunc(entries, func(a, b sortEntry) int {
		for i, o := range orderings {
			comp := q.compareKeys(a.keys[i], b.keys[i])
			if o.Direction == domain.Descending {
				comp = -comp
			}
			if comp != 0 {
				return comp
			}
		}
		return 0
	})

	res := make([]domain.Document, len(entries))
	for n, e := range entries {
		res[n] = e.doc
	}
	return res
}

func (q *Querier) compareKeys(a, b sortKey) int {
	switch {
	case !a.present && !b.present:
		return 0
	case !a.present:
		return -1
	case !b.present:
		return 1
	}
	return q.cmpr.Compare(a.value, b.value)
}
