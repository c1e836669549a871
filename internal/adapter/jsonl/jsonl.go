// Package jsonl reads and writes documents as JSON lines: one JSON object
// per line, holding the document fields plus its key under "__name__".
package jsonl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"maps"

	"github.com/dolmen-go/contextio"
	"github.com/golang/glog"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/idgenerator"
)

// maxLineSize bounds a single serialized document.
const maxLineSize = 16 << 20

// Reader implements domain.DocumentReader.
type Reader struct {
	collection      domain.ResourcePath
	idGenerator     domain.IDGenerator
	documentFactory domain.DocumentFactory
}

// NewReader returns a new implementation of domain.DocumentReader. Lines
// without a key are stored under the configured collection with a
// generated id, and rejected if there is none.
func NewReader(options ...domain.DocumentReaderOption) domain.DocumentReader {
	opts := domain.DocumentReaderOptions{
		IDGenerator:     idgenerator.NewIDGenerator(),
		DocumentFactory: data.NewDocument,
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = idgenerator.NewIDGenerator()
	}
	if opts.DocumentFactory == nil {
		opts.DocumentFactory = data.NewDocument
	}
	var collection domain.ResourcePath
	if opts.Collection != "" {
		collection = domain.ParseResourcePath(opts.Collection)
	}
	return &Reader{
		collection:      collection,
		idGenerator:     opts.IDGenerator,
		documentFactory: opts.DocumentFactory,
	}
}

// ReadDocuments implements domain.DocumentReader.
func (r *Reader) ReadDocuments(ctx context.Context, rd io.Reader) ([]domain.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	sc := bufio.NewScanner(contextio.NewReader(ctx, rd))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var docs []domain.Document
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		doc, err := r.document(b)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		docs = append(docs, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if glog.V(2) {
		glog.Infof("jsonl: read %d documents from %d lines", len(docs), line)
	}
	return docs, nil
}

func (r *Reader) document(b []byte) (domain.Document, error) {
	v, err := data.ParseJSON(b)
	if err != nil {
		return nil, err
	}
	if !v.IsMap() {
		return nil, domain.ErrDocumentType{Reason: "expected object, got " + v.Kind().String()}
	}

	fields := maps.Clone(v.AsMap())
	name, hasName := fields[domain.KeyFieldName]
	delete(fields, domain.KeyFieldName)

	key, err := r.key(name, hasName)
	if err != nil {
		return nil, err
	}
	return r.documentFactory(key, fields)
}

func (r *Reader) key(name domain.Value, ok bool) (domain.DocumentKey, error) {
	if ok {
		if !name.IsString() && !name.IsReference() {
			return domain.DocumentKey{}, domain.ErrDocumentType{
				Reason: domain.KeyFieldName + " must be a string, got " + name.Kind().String(),
			}
		}
		return domain.ParseDocumentKey(name.AsString())
	}
	if r.collection == nil {
		return domain.DocumentKey{}, domain.ErrDocumentType{
			Reason: "document without " + domain.KeyFieldName + " and no default collection",
		}
	}
	id, err := r.idGenerator.GenerateID(idgenerator.AutoIDLength)
	if err != nil {
		return domain.DocumentKey{}, err
	}
	return domain.NewDocumentKey(r.collection.Child(id))
}

// Writer implements domain.DocumentWriter.
type Writer struct{}

// NewWriter returns a new implementation of domain.DocumentWriter.
func NewWriter() domain.DocumentWriter {
	return &Writer{}
}

// WriteDocuments implements domain.DocumentWriter. Documents that do not
// exist are skipped. Fields are written in the wire shape [data.EncodeJSON]
// produces, so reading the output back yields equal documents.
func (w *Writer) WriteDocuments(ctx context.Context, wr io.Writer, docs ...domain.Document) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	bw := bufio.NewWriter(contextio.NewWriter(ctx, wr))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		b, err := EncodeDocument(doc)
		if err != nil {
			return fmt.Errorf("document %s: %w", doc.Key(), err)
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeDocument returns the JSON line of doc, without the trailing new
// line. Documents without a key are written without "__name__".
func EncodeDocument(doc domain.Document) ([]byte, error) {
	var fields map[string]domain.Value
	if d := doc.Data(); d.IsMap() {
		fields = maps.Clone(d.AsMap())
	}
	if fields == nil {
		fields = make(map[string]domain.Value, 1)
	}
	if !doc.Key().IsEmpty() {
		fields[domain.KeyFieldName] = domain.String(doc.Key().String())
	}
	return data.EncodeJSON(domain.PlainMap(fields))
}
