package pipeline

import (
	"slices"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// SourceUnknown is the source type of pipelines that do not start with a
// source stage.
const SourceUnknown = "unknown"

// keyExists is the canonical form of the only condition that keeps every
// stored document.
var keyExists = CanonifyExpr(domain.NewFunction(domain.FuncExists, domain.NewField(domain.KeyFieldName)))

// Flavor tells whether p returns stored documents unchanged, documents with
// extra or fewer fields, or documents that are not stored at all.
func Flavor(p domain.Pipeline) domain.PipelineFlavor {
	flavor := domain.FlavorExact
	for i, st := range p.Stages {
		switch st.(type) {
		case domain.Distinct, domain.Aggregate:
			flavor = domain.FlavorKeyless
		case domain.Select:
			if flavor == domain.FlavorExact {
				flavor = domain.FlavorAugmented
			}
		case domain.AddFields:
			// a trailing add fields stage only decorates results
			if i < len(p.Stages)-1 && flavor == domain.FlavorExact {
				flavor = domain.FlavorAugmented
			}
		}
	}
	return flavor
}

// SourceType returns the name of the first stage of p if it is a source,
// or [SourceUnknown].
func SourceType(p domain.Pipeline) string {
	if len(p.Stages) == 0 {
		return SourceUnknown
	}
	switch st := p.Stages[0].(type) {
	case domain.CollectionSource, domain.CollectionGroupSource, domain.DatabaseSource, domain.DocumentsSource:
		return st.Name()
	}
	return SourceUnknown
}

// Collection returns the path of a collection source.
func Collection(p domain.Pipeline) (string, bool) {
	if len(p.Stages) == 0 {
		return "", false
	}
	src, ok := p.Stages[0].(domain.CollectionSource)
	return src.Path, ok
}

// CollectionGroup returns the collection id of a collection group source.
func CollectionGroup(p domain.Pipeline) (string, bool) {
	if len(p.Stages) == 0 {
		return "", false
	}
	src, ok := p.Stages[0].(domain.CollectionGroupSource)
	return src.CollectionID, ok
}

// CollectionID returns the id of the collections a collection or collection
// group pipeline reads.
func CollectionID(p domain.Pipeline) (string, bool) {
	if path, ok := Collection(p); ok {
		return domain.ParseResourcePath(path).LastSegment(), true
	}
	return CollectionGroup(p)
}

// Documents returns the paths of a documents source.
func Documents(p domain.Pipeline) ([]string, bool) {
	if len(p.Stages) == 0 {
		return nil, false
	}
	src, ok := p.Stages[0].(domain.DocumentsSource)
	return src.Paths, ok
}

// AsCollectionPipelineAtPath returns a copy of p reading the collection at
// path instead of a collection group.
func AsCollectionPipelineAtPath(p domain.Pipeline, path domain.ResourcePath) domain.Pipeline {
	stages := make([]domain.Stage, len(p.Stages))
	for i, st := range p.Stages {
		if _, ok := st.(domain.CollectionGroupSource); ok {
			st = domain.CollectionSource{Path: path.CanonicalString()}
		}
		stages[i] = st
	}
	return domain.Pipeline{Stages: stages}
}

// HasRanges reports whether p limits or skips results.
func HasRanges(p domain.Pipeline) bool {
	return slices.ContainsFunc(p.Stages, func(st domain.Stage) bool {
		switch st.(type) {
		case domain.Limit, domain.Offset:
			return true
		}
		return false
	})
}

// MatchesAllDocuments reports whether p keeps every document of its
// source. It is conservative: any stage that may drop or reshape documents
// makes it false.
func MatchesAllDocuments(p domain.Pipeline) bool {
	for _, st := range p.Stages {
		switch s := st.(type) {
		case domain.CollectionSource, domain.CollectionGroupSource, domain.DatabaseSource, domain.DocumentsSource, domain.Sort:
		case domain.Where:
			if CanonifyExpr(s.Condition) != keyExists {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// LastEffectiveSort returns the orderings of the last sort stage whose
// order reaches the output.
func LastEffectiveSort(p domain.Pipeline) ([]domain.Ordering, bool) {
	for i := len(p.Stages) - 1; i >= 0; i-- {
		switch s := p.Stages[i].(type) {
		case domain.Sort:
			return s.Orderings, true
		case domain.Distinct, domain.Aggregate, domain.FindNearest:
			return nil, false
		}
	}
	return nil, false
}

// LastEffectiveLimit returns the last limit stage bounding the output.
func LastEffectiveLimit(p domain.Pipeline) (domain.Limit, bool) {
	for i := len(p.Stages) - 1; i >= 0; i-- {
		switch s := p.Stages[i].(type) {
		case domain.Limit:
			return s, true
		case domain.Distinct, domain.Aggregate:
			return domain.Limit{}, false
		}
	}
	return domain.Limit{}, false
}
