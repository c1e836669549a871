package domain

// Stage names, as used in canonical forms and pipeline definitions.
const (
	StageCollection      = "collection"
	StageCollectionGroup = "collection_group"
	StageDatabase        = "database"
	StageDocuments       = "documents"
	StageWhere           = "where"
	StageSort            = "sort"
	StageLimit           = "limit"
	StageOffset          = "offset"
	StageSelect          = "select"
	StageAddFields       = "add_fields"
	StageDistinct        = "distinct"
	StageAggregate       = "aggregate"
	StageFindNearest     = "find_nearest"
)

// Stage is one step of a [Pipeline]. The set of stages is closed.
type Stage interface {
	// Name returns the stage name.
	Name() string
	stage()
}

// CollectionSource keeps documents stored directly under a collection path.
type CollectionSource struct {
	Path string
}

// CollectionGroupSource keeps documents whose parent collection has the
// given id, at any depth.
type CollectionGroupSource struct {
	CollectionID string
}

// DatabaseSource keeps every existing document.
type DatabaseSource struct{}

// DocumentsSource keeps the listed documents.
type DocumentsSource struct {
	Paths []string
}

// Where keeps documents for which Condition evaluates to true.
type Where struct {
	Condition Expr
}

// Sort orders documents by one or more keys.
type Sort struct {
	Orderings []Ordering
}

// Limit keeps the first N documents. Converted is set when the limit was
// rewritten from a limit-to-last request.
type Limit struct {
	N         int64
	Converted bool
}

// Offset skips the first N documents.
type Offset struct {
	N int64
}

// Select projects documents to the given fields.
type Select struct {
	Fields map[string]Expr
}

// AddFields adds computed fields to documents.
type AddFields struct {
	Fields map[string]Expr
}

// Distinct groups documents by the given expressions.
type Distinct struct {
	Groups map[string]Expr
}

// Aggregate declares accumulators, optionally per group. The querier does
// not execute it.
type Aggregate struct {
	Accumulators map[string]Expr
	Groups       map[string]Expr
}

// FindNearest is a vector similarity search.
type FindNearest struct {
	Field           Field
	Vector          []float64
	DistanceMeasure string
	Limit           int64
	DistanceField   string
}

func (CollectionSource) Name() string      { return StageCollection }
func (CollectionGroupSource) Name() string { return StageCollectionGroup }
func (DatabaseSource) Name() string        { return StageDatabase }
func (DocumentsSource) Name() string       { return StageDocuments }
func (Where) Name() string                 { return StageWhere }
func (Sort) Name() string                  { return StageSort }
func (Limit) Name() string                 { return StageLimit }
func (Offset) Name() string                { return StageOffset }
func (Select) Name() string                { return StageSelect }
func (AddFields) Name() string             { return StageAddFields }
func (Distinct) Name() string              { return StageDistinct }
func (Aggregate) Name() string             { return StageAggregate }
func (FindNearest) Name() string           { return StageFindNearest }

func (CollectionSource) stage()      {}
func (CollectionGroupSource) stage() {}
func (DatabaseSource) stage()        {}
func (DocumentsSource) stage()       {}
func (Where) stage()                 {}
func (Sort) stage()                  {}
func (Limit) stage()                 {}
func (Offset) stage()                {}
func (Select) stage()                {}
func (AddFields) stage()             {}
func (Distinct) stage()              {}
func (Aggregate) stage()             {}
func (FindNearest) stage()           {}

// Pipeline is an ordered list of stages, source first.
type Pipeline struct {
	Stages []Stage
}

// NewPipeline returns a pipeline running stages in order.
func NewPipeline(stages ...Stage) Pipeline { return Pipeline{Stages: stages} }

// PipelineFlavor tells how the documents a pipeline produces relate to the
// stored documents.
type PipelineFlavor string

// Pipeline flavors.
const (
	FlavorExact     PipelineFlavor = "exact"
	FlavorAugmented PipelineFlavor = "augmented"
	FlavorKeyless   PipelineFlavor = "keyless"
)
