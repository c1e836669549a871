package domain

import (
	"io"
)

// EvaluatorOption configures an [Evaluator] through the functional options
// pattern.
type EvaluatorOption func(*EvaluatorOptions)

// EvaluatorOptions contains the collaborators of an [Evaluator].
type EvaluatorOptions struct {
	// Comparer orders and compares operand values.
	Comparer Comparer
	// FieldNavigator resolves field expressions.
	FieldNavigator FieldNavigator
	// Language is the BCP 47 tag used for case mapping. Defaults to the
	// root locale.
	Language string
}

// WithEvaluatorComparer sets the comparer used by the evaluator.
func WithEvaluatorComparer(c Comparer) EvaluatorOption {
	return func(eo *EvaluatorOptions) {
		eo.Comparer = c
	}
}

// WithEvaluatorFieldNavigator sets the field navigator used by the
// evaluator.
func WithEvaluatorFieldNavigator(fn FieldNavigator) EvaluatorOption {
	return func(eo *EvaluatorOptions) {
		eo.FieldNavigator = fn
	}
}

// WithEvaluatorLanguage sets the language used by to_lower and to_upper.
func WithEvaluatorLanguage(tag string) EvaluatorOption {
	return func(eo *EvaluatorOptions) {
		eo.Language = tag
	}
}

// MatcherOption configures a [Matcher].
type MatcherOption func(*MatcherOptions)

// MatcherOptions contains the collaborators of a [Matcher].
type MatcherOptions struct {
	// Comparer orders and compares field values against operands.
	Comparer Comparer
	// Hasher produces the canonical ids of operands.
	Hasher Hasher
}

// WithMatcherComparer sets the comparer used by built filters.
func WithMatcherComparer(c Comparer) MatcherOption {
	return func(mo *MatcherOptions) {
		mo.Comparer = c
	}
}

// WithMatcherHasher sets the hasher used by built filters.
func WithMatcherHasher(h Hasher) MatcherOption {
	return func(mo *MatcherOptions) {
		mo.Hasher = h
	}
}

// QuerierOption configures a [Querier].
type QuerierOption func(*QuerierOptions)

// QuerierOptions contains the collaborators of a [Querier].
type QuerierOptions struct {
	// Evaluator evaluates where conditions and sort keys.
	Evaluator Evaluator
	// Comparer compares sort keys.
	Comparer Comparer
	// Hasher keys the groups of distinct and aggregate stages.
	Hasher Hasher
}

// WithQuerierEvaluator sets the evaluator used by the querier.
func WithQuerierEvaluator(e Evaluator) QuerierOption {
	return func(qo *QuerierOptions) {
		qo.Evaluator = e
	}
}

// WithQuerierComparer sets the comparer used by the querier.
func WithQuerierComparer(c Comparer) QuerierOption {
	return func(qo *QuerierOptions) {
		qo.Comparer = c
	}
}

// WithQuerierHasher sets the hasher used to group documents.
func WithQuerierHasher(h Hasher) QuerierOption {
	return func(qo *QuerierOptions) {
		qo.Hasher = h
	}
}

// IndexOption configures an [Index].
type IndexOption func(*IndexOptions)

// IndexOptions contains parameters for creating an [Index].
type IndexOptions struct {
	// Field is the indexed field.
	Field FieldPath
	// Comparer orders the index keys.
	Comparer Comparer
}

// WithIndexField sets the indexed field.
func WithIndexField(f FieldPath) IndexOption {
	return func(io *IndexOptions) {
		io.Field = f
	}
}

// WithIndexComparer sets the comparer ordering the index keys.
func WithIndexComparer(c Comparer) IndexOption {
	return func(io *IndexOptions) {
		io.Comparer = c
	}
}

// DatastoreOption configures a [Datastore].
type DatastoreOption func(*DatastoreOptions)

// DatastoreOptions contains the collaborators of a [Datastore].
type DatastoreOptions struct {
	Comparer       Comparer
	FieldNavigator FieldNavigator
	Querier        Querier
	Decoder        Decoder
	DocumentReader DocumentReader
	DocumentWriter DocumentWriter
	// IndexFactory builds the field indexes.
	IndexFactory func(...IndexOption) Index
}

// WithDatastoreComparer sets the comparer used by the datastore and its
// indexes.
func WithDatastoreComparer(c Comparer) DatastoreOption {
	return func(do *DatastoreOptions) {
		do.Comparer = c
	}
}

// WithDatastoreFieldNavigator sets the field navigator used to parse index
// fields.
func WithDatastoreFieldNavigator(fn FieldNavigator) DatastoreOption {
	return func(do *DatastoreOptions) {
		do.FieldNavigator = fn
	}
}

// WithDatastoreQuerier sets the pipeline executor.
func WithDatastoreQuerier(q Querier) DatastoreOption {
	return func(do *DatastoreOptions) {
		do.Querier = q
	}
}

// WithDatastoreDecoder sets the decoder handed to cursors.
func WithDatastoreDecoder(d Decoder) DatastoreOption {
	return func(do *DatastoreOptions) {
		do.Decoder = d
	}
}

// WithDatastoreDocumentReader sets the reader used by Load.
func WithDatastoreDocumentReader(r DocumentReader) DatastoreOption {
	return func(do *DatastoreOptions) {
		do.DocumentReader = r
	}
}

// WithDatastoreDocumentWriter sets the writer used by Dump.
func WithDatastoreDocumentWriter(w DocumentWriter) DatastoreOption {
	return func(do *DatastoreOptions) {
		do.DocumentWriter = w
	}
}

// WithDatastoreIndexFactory sets the function building field indexes.
func WithDatastoreIndexFactory(f func(...IndexOption) Index) DatastoreOption {
	return func(do *DatastoreOptions) {
		do.IndexFactory = f
	}
}

// CursorOption configures a [Cursor].
type CursorOption func(*CursorOptions)

// CursorOptions contains the collaborators of a [Cursor].
type CursorOptions struct {
	// Decoder decodes documents into scan targets.
	Decoder Decoder
}

// WithCursorDecoder sets the decoder used by Scan.
func WithCursorDecoder(d Decoder) CursorOption {
	return func(co *CursorOptions) {
		co.Decoder = d
	}
}

// IDGeneratorOption configures an [IDGenerator].
type IDGeneratorOption func(*IDGeneratorOptions)

// IDGeneratorOptions contains the random source of an [IDGenerator].
type IDGeneratorOptions struct {
	Reader io.Reader
}

// WithIDGeneratorReader sets the random source.
func WithIDGeneratorReader(r io.Reader) IDGeneratorOption {
	return func(o *IDGeneratorOptions) {
		o.Reader = r
	}
}

// DocumentReaderOption configures a [DocumentReader].
type DocumentReaderOption func(*DocumentReaderOptions)

// DocumentReaderOptions contains parameters for reading documents.
type DocumentReaderOptions struct {
	// Collection is the collection of documents read without a key.
	Collection string
	// IDGenerator generates ids for documents read without a key.
	IDGenerator IDGenerator
	// DocumentFactory builds the documents read.
	DocumentFactory DocumentFactory
}

// WithReaderCollection sets the collection of documents read without a key.
func WithReaderCollection(c string) DocumentReaderOption {
	return func(o *DocumentReaderOptions) {
		o.Collection = c
	}
}

// WithReaderIDGenerator sets the id generator for documents read without a
// key.
func WithReaderIDGenerator(g IDGenerator) DocumentReaderOption {
	return func(o *DocumentReaderOptions) {
		o.IDGenerator = g
	}
}

// WithReaderDocumentFactory sets the factory building documents.
func WithReaderDocumentFactory(f DocumentFactory) DocumentReaderOption {
	return func(o *DocumentReaderOptions) {
		o.DocumentFactory = f
	}
}
