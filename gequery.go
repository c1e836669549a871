// Package gequery evaluates document queries and pipelines locally, with the
// same semantics a document database server applies.
//
// Documents are sets of typed [Value] fields stored under a [DocumentKey].
// Values follow a single total order across kinds, which drives sorting,
// range filters and indexes. Legacy queries are built from [Filter] trees
// with a [Matcher], while pipelines are lists of stages whose expressions are
// evaluated by an [Evaluator].
//
// The basic usage starts with creating a [Datastore] with [NewDatastore],
// loading or inserting documents and running a [Pipeline] or [Query] over
// them.
package gequery

import (
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/datastore"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/evaluator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/matcher"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/pipeline"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/querier"
)

var (
	// ErrCursorClosed is returned when using a closed [Cursor].
	ErrCursorClosed = domain.ErrCursorClosed
	// ErrScanBeforeNext is returned when calling [Cursor.Scan] before
	// calling [Cursor.Next].
	ErrScanBeforeNext = domain.ErrScanBeforeNext
	// ErrCursorExhausted is returned when calling [Cursor.Scan] after
	// [Cursor.Next] returned false.
	ErrCursorExhausted = domain.ErrCursorExhausted
)

// ErrNotFound is returned by [Datastore.Get] for a key that is not stored.
type ErrNotFound = domain.ErrNotFound

// ErrDuplicateKey is returned by [Datastore.Insert] when a key is already
// stored.
type ErrDuplicateKey = domain.ErrDuplicateKey

// ErrInvalidPipeline is returned for pipelines that cannot be run or
// decoded.
type ErrInvalidPipeline = domain.ErrInvalidPipeline

// ErrUnknownStage is returned for pipelines with a stage nobody can run.
type ErrUnknownStage = domain.ErrUnknownStage

// ErrDocumentType is returned when a value cannot be turned into a document.
type ErrDocumentType = domain.ErrDocumentType

// ErrDecode is returned when parsing input or decoding into Go types fails.
type ErrDecode = domain.ErrDecode

// ErrFieldPath is returned for malformed field paths.
type ErrFieldPath = domain.ErrFieldPath

// ErrInvalidDocumentKey is returned for paths that do not name a document.
type ErrInvalidDocumentKey = domain.ErrInvalidDocumentKey

// Value is an immutable typed document value.
type Value = domain.Value

// Document is a keyed set of fields.
type Document = domain.Document

// DocumentKey identifies a document by its path.
type DocumentKey = domain.DocumentKey

// FieldPath is a parsed path to a document field.
type FieldPath = domain.FieldPath

// Filter is a legacy query predicate.
type Filter = domain.Filter

// Query is a legacy structured query. It can be run directly or turned into
// a [Pipeline] with [ToPipeline].
type Query = domain.Query

// Pipeline is an ordered list of stages.
type Pipeline = domain.Pipeline

// Expr is a pipeline expression.
type Expr = domain.Expr

// Comparer orders values by their total order.
type Comparer = domain.Comparer

// Matcher builds filters.
type Matcher = domain.Matcher

// Evaluator evaluates expressions against documents.
type Evaluator = domain.Evaluator

// Querier runs pipelines over document sets.
type Querier = domain.Querier

// Cursor iterates over results.
type Cursor = domain.Cursor

// Datastore is an in-memory document set with optional field indexes.
type Datastore = domain.Datastore

// NewDatastore creates an empty [Datastore]. The following options replace
// its collaborators:
//
// - [domain.WithDatastoreComparer]
//
// - [domain.WithDatastoreFieldNavigator]
//
// - [domain.WithDatastoreQuerier]
//
// - [domain.WithDatastoreDecoder]
//
// - [domain.WithDatastoreDocumentReader]
//
// - [domain.WithDatastoreDocumentWriter]
//
// - [domain.WithDatastoreIndexFactory]
func NewDatastore(options ...domain.DatastoreOption) Datastore {
	return datastore.NewDatastore(options...)
}

// NewComparer returns the default [Comparer].
func NewComparer() Comparer {
	return comparer.NewComparer()
}

// NewMatcher returns the default [Matcher].
func NewMatcher(options ...domain.MatcherOption) Matcher {
	return matcher.NewMatcher(options...)
}

// NewEvaluator returns the default [Evaluator].
func NewEvaluator(options ...domain.EvaluatorOption) Evaluator {
	return evaluator.NewEvaluator(options...)
}

// NewQuerier returns the default [Querier].
func NewQuerier(options ...domain.QuerierOption) Querier {
	return querier.NewQuerier(options...)
}

// NewDocument creates a found document from a map or struct. Struct fields
// can be renamed with the "gequery" tag.
func NewDocument(key DocumentKey, fields any) (Document, error) {
	return data.NewDocument(key, fields)
}

// ParseDocumentKey parses a slash separated document path.
func ParseDocumentKey(path string) (DocumentKey, error) {
	return domain.ParseDocumentKey(path)
}

// FromGo converts a Go value into a [Value].
func FromGo(v any) (Value, error) {
	return data.FromGo(v)
}

// ParseJSON parses a JSON document into a [Value]. Reserved single key maps
// such as {"__timestamp__": ...} are read as their extended kinds.
func ParseJSON(b []byte) (Value, error) {
	return data.ParseJSON(b)
}

// EncodeJSON writes v in the format read by [ParseJSON].
func EncodeJSON(v Value) ([]byte, error) {
	return data.EncodeJSON(v)
}

// DecodePipeline reads a pipeline from its JSON definition.
func DecodePipeline(b []byte) (Pipeline, error) {
	return pipeline.DecodePipeline(b)
}

// ToPipeline converts a legacy query into an equivalent pipeline.
func ToPipeline(q Query) Pipeline {
	return pipeline.ToPipeline(q)
}

// Canonify returns the canonical string form of a pipeline. Equal pipelines
// share a canonical form.
func Canonify(p Pipeline) string {
	return pipeline.Canonify(p)
}

// Flavor reports the shape of the documents p outputs.
func Flavor(p Pipeline) domain.PipelineFlavor {
	return pipeline.Flavor(p)
}
