// Package domain contains the value model, the expression and pipeline
// trees, domain-specific interfaces and option types for gequery.
//
// This package defines the data structures shared by every adapter, the
// interfaces adapters must implement, and functional options for
// configuring evaluators, queriers, indexes, datastores and cursors.
package domain

import (
	"context"
	"io"
)

// DocumentState is the existence state of a document.
type DocumentState uint8

// Document states.
const (
	// StateInvalid documents are placeholders with unknown state.
	StateInvalid DocumentState = iota
	// StateFound documents exist and carry data.
	StateFound
	// StateNoDocument documents are known not to exist.
	StateNoDocument
	// StateUnknown documents exist but their contents are unknown, as
	// after a committed write whose result was not read back.
	StateUnknown
)

// Document is a stored document: a key, map-shaped data, an existence state
// and write provenance flags. Documents are read only.
type Document interface {
	// Key returns the document key.
	Key() DocumentKey
	// Data returns the document fields as a map value.
	Data() Value
	// Field returns the value under path, and false if it is absent.
	Field(path FieldPath) (Value, bool)
	// State returns the existence state.
	State() DocumentState
	// Exists reports whether the document was found.
	Exists() bool
	// UpdateTime returns the last update time.
	UpdateTime() Timestamp
	// CreateTime returns the creation time.
	CreateTime() Timestamp
	// HasLocalMutations reports whether the document has pending local
	// writes.
	HasLocalMutations() bool
	// HasCommittedMutations reports whether the document has committed
	// writes not yet acknowledged by a read.
	HasCommittedMutations() bool
}

// DocumentFactory builds a found document under key from a Go value.
type DocumentFactory func(key DocumentKey, fields any) (Document, error)

// Comparer orders and compares values.
type Comparer interface {
	// TypeOrder returns the rank of the value kind.
	TypeOrder(Value) TypeOrder
	// Equal reports whether both values are equal.
	Equal(a, b Value) bool
	// Compare returns -1, 0 or 1 following the total order of values.
	Compare(a, b Value) int
	// LowerBound returns the smallest value of the kind of v.
	LowerBound(v Value) Value
	// UpperBound returns the smallest value of the kind after the kind of
	// v, which bounds every value of the kind of v from above.
	UpperBound(v Value) Value
}

// IndexBound is one end of a value range.
type IndexBound struct {
	Value     Value
	Inclusive bool
}

// Hasher generates canonical forms and hashes of values.
type Hasher interface {
	// CanonicalID returns the canonical string form of the value.
	CanonicalID(Value) string
	// Hash generates a hash value for the given value. Values that compare
	// equal must share a hash.
	Hash(Value) uint64
}

// FieldNavigator provides field path parsing and lookup.
type FieldNavigator interface {
	// ParseField parses a dotted field name. Segments may be quoted with
	// backticks.
	ParseField(name string) (FieldPath, error)
	// GetField returns the value under path inside data, and false if
	// any segment is absent.
	GetField(data Value, path FieldPath) (Value, bool)
}

// Decoder converts between different data representations.
type Decoder interface {
	// Decode converts from one data format to another.
	Decode(any, any) error
}

// IDGenerator generates document ids.
type IDGenerator interface {
	// GenerateID returns a random id with l characters.
	GenerateID(l int) (string, error)
}

// Matcher builds filters. Field filters are specialized for their operator
// when built, so operands are checked once.
type Matcher interface {
	// NewFieldFilter returns a filter comparing field against value. It
	// panics on an unknown operator or on a key field operand that is not a
	// reference.
	NewFieldFilter(field FieldPath, op Operator, value Value) FieldFilter
	// NewCompositeFilter joins filters with op.
	NewCompositeFilter(op CompositeOperator, filters ...Filter) CompositeFilter
	// WithAddedFilters returns a copy of f with others appended.
	WithAddedFilters(f CompositeFilter, others ...Filter) CompositeFilter
}

// Evaluator evaluates expressions against documents.
type Evaluator interface {
	// Evaluate evaluates expr against doc. Evaluation never fails with a Go
	// error; failures are reported by the result state.
	Evaluate(expr Expr, doc Document) EvalResult
}

// Querier runs pipelines over document sets.
type Querier interface {
	// Execute runs every stage of p in order over docs.
	Execute(ctx context.Context, p Pipeline, docs []Document) ([]Document, error)
}

// Cursor provides iteration over query results.
type Cursor interface {
	// Scan decodes the current document into target.
	Scan(ctx context.Context, target any) error
	// Next advances the cursor to the next document, returning true if available.
	Next() bool
	// Document returns the current document.
	Document() Document
	// Err returns any error that occurred during iteration.
	Err() error
	// Close releases cursor resources and should be called when done.
	Close() error
}

// Index provides fast document lookups based on field values.
type Index interface {
	// Field returns the indexed field.
	Field() FieldPath
	// GetAll returns all documents in the index, in value order.
	GetAll() []Document
	// GetBetweenBounds returns documents whose value lies in the range.
	// A nil bound leaves that end open.
	GetBetweenBounds(ctx context.Context, lower, upper *IndexBound) ([]Document, error)
	// GetMatching returns documents with any of the given values.
	GetMatching(values ...Value) []Document
	// Insert adds documents to the index.
	Insert(ctx context.Context, docs ...Document) error
	// Remove removes documents from the index.
	Remove(ctx context.Context, docs ...Document) error
	// Reset clears the index and re-inserts the provided documents.
	Reset(ctx context.Context, docs ...Document) error
	// GetNumberOfKeys returns the number of distinct values in the index.
	GetNumberOfKeys() int
}

// DocumentReader reads documents from a serialized stream.
type DocumentReader interface {
	// ReadDocuments reads every document in r.
	ReadDocuments(ctx context.Context, r io.Reader) ([]Document, error)
}

// DocumentWriter writes documents to a serialized stream.
type DocumentWriter interface {
	// WriteDocuments writes docs to w.
	WriteDocuments(ctx context.Context, w io.Writer, docs ...Document) error
}

// Datastore is an in-memory document set with optional field indexes.
// It is safe for concurrent use.
type Datastore interface {
	// Load replaces the stored documents with the ones read from r.
	Load(ctx context.Context, r io.Reader) error
	// Dump writes every stored document to w, in key order.
	Dump(ctx context.Context, w io.Writer) error
	// Insert stores new documents. It fails if any key is already stored.
	Insert(ctx context.Context, docs ...Document) error
	// Set stores documents, replacing the ones with the same key.
	Set(ctx context.Context, docs ...Document) error
	// Delete removes the documents with the given keys and returns how
	// many were stored.
	Delete(ctx context.Context, keys ...DocumentKey) (int, error)
	// Get returns the document stored under key.
	Get(ctx context.Context, key DocumentKey) (Document, error)
	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
	// EnsureIndex creates an index on a field. If the index already
	// exists, this is a no-op.
	EnsureIndex(ctx context.Context, field string) error
	// RemoveIndex deletes an existing index.
	RemoveIndex(ctx context.Context, field string) error
	// GetAllData returns a cursor over every document, in key order.
	GetAllData(ctx context.Context) (Cursor, error)
	// Find returns a cursor over the documents matching filter, in key
	// order.
	Find(ctx context.Context, filter Filter) (Cursor, error)
	// Execute runs a pipeline over the stored documents.
	Execute(ctx context.Context, p Pipeline) (Cursor, error)
	// Query runs a legacy query by converting it to a pipeline.
	Query(ctx context.Context, q Query) (Cursor, error)
}
