package datastore

import (
	"context"

	"github.com/golang/glog"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/metrics"
)

// getCandidates returns a superset of the documents matching filter. An
// index is used when filter is a field filter, or a conjunction of field
// filters, on an indexed field. Equality lookups are preferred over range
// scans. Candidates still have to be checked against filter.
func (d *Datastore) getCandidates(ctx context.Context, filter domain.Filter) ([]domain.Document, error) {
	filters := d.indexableFilters(filter)

	if docs, ok := d.getMatchingCandidates(filters); ok {
		metrics.FindScans.WithLabelValues(metrics.ScanIndexMatch).Inc()
		return docs, nil
	}

	docs, ok, err := d.getRangeCandidates(ctx, filters)
	if err != nil {
		return nil, err
	}
	if ok {
		metrics.FindScans.WithLabelValues(metrics.ScanIndexRange).Inc()
		return docs, nil
	}

	metrics.FindScans.WithLabelValues(metrics.ScanFull).Inc()
	if glog.V(3) {
		glog.Infof("datastore: no index serves %s, scanning %d documents", filter, d.docs.GetNumberOfKeys())
	}
	return d.getAllData(), nil
}

// indexableFilters returns the field filters every matching document must
// satisfy.
func (d *Datastore) indexableFilters(filter domain.Filter) []domain.FieldFilter {
	switch f := filter.(type) {
	case domain.FieldFilter:
		return []domain.FieldFilter{f}
	case domain.CompositeFilter:
		if f.IsFlatConjunction() {
			return f.FlattenedFilters()
		}
	}
	return nil
}

func (d *Datastore) getMatchingCandidates(filters []domain.FieldFilter) ([]domain.Document, bool) {
	for _, f := range filters {
		idx, ok := d.indexes[f.Field().CanonicalString()]
		if !ok {
			continue
		}
		switch f.Op() {
		case domain.OpEqual:
			return idx.GetMatching(f.Value()), true
		case domain.OpIn:
			if f.Value().IsArray() {
				return idx.GetMatching(f.Value().AsArray()...), true
			}
		}
	}
	return nil, false
}

func (d *Datastore) getRangeCandidates(ctx context.Context, filters []domain.FieldFilter) ([]domain.Document, bool, error) {
	for _, f := range filters {
		idx, ok := d.indexes[f.Field().CanonicalString()]
		if !ok {
			continue
		}
		lower, upper, ok := d.bounds(f)
		if !ok {
			continue
		}
		docs, err := idx.GetBetweenBounds(ctx, lower, upper)
		return docs, true, err
	}
	return nil, false, nil
}

// bounds returns the value range holding every value that satisfies an
// inequality filter. Inequalities only match values of the operand type, so
// the open end is bounded by the type bounds.
func (d *Datastore) bounds(f domain.FieldFilter) (lower, upper *domain.IndexBound, ok bool) {
	v := f.Value()
	typeLower := &domain.IndexBound{Value: d.comparer.LowerBound(v), Inclusive: true}
	typeUpper := &domain.IndexBound{Value: d.comparer.UpperBound(v), Inclusive: false}

	switch f.Op() {
	case domain.OpLessThan:
		return typeLower, &domain.IndexBound{Value: v, Inclusive: false}, true
	case domain.OpLessThanEqual:
		return typeLower, &domain.IndexBound{Value: v, Inclusive: true}, true
	case domain.OpGreaterThan:
		return &domain.IndexBound{Value: v, Inclusive: false}, typeUpper, true
	case domain.OpGreaterThanEqual:
		return &domain.IndexBound{Value: v, Inclusive: true}, typeUpper, true
	}
	return nil, nil, false
}
