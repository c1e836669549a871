// Package datastore contains the default [domain.Datastore] implementation.
package datastore

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"

	"github.com/golang/glog"
	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/cursor"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/fieldnavigator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/index"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/jsonl"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/pipeline"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/querier"
	"github.com/vinicius-lino-figueiredo/gequery/internal/metrics"
	"github.com/vinicius-lino-figueiredo/gequery/pkg/ctxsync"
)

// Datastore implements domain.Datastore. Documents are kept in a tree
// ordered by key; field indexes are kept next to it and updated on every
// write.
type Datastore struct {
	executor       *ctxsync.RWMutex
	docs           *bst.BinarySearchTree
	treeOptions    bst.Options
	indexes        map[string]domain.Index
	indexFactory   func(...domain.IndexOption) domain.Index
	comparer       domain.Comparer
	fieldNavigator domain.FieldNavigator
	querier        domain.Querier
	decoder        domain.Decoder
	reader         domain.DocumentReader
	writer         domain.DocumentWriter
}

// NewDatastore returns a new implementation of Datastore.
func NewDatastore(options ...domain.DatastoreOption) domain.Datastore {
	comp := comparer.NewComparer()
	opts := domain.DatastoreOptions{
		Comparer:       comp,
		FieldNavigator: fieldnavigator.NewFieldNavigator(),
		Querier:        querier.NewQuerier(domain.WithQuerierComparer(comp)),
		Decoder:        decoder.NewDecoder(),
		DocumentReader: jsonl.NewReader(),
		DocumentWriter: jsonl.NewWriter(),
		IndexFactory:   index.NewIndex,
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.Comparer == nil {
		opts.Comparer = comp
	}

	treeOptions := bst.Options{
		Unique: true,
		CompareKeys: func(a, b any) int {
			return a.(domain.DocumentKey).Compare(b.(domain.DocumentKey))
		},
	}
	return &Datastore{
		executor:       ctxsync.NewRWMutex(),
		docs:           bst.NewBinarySearchTree(treeOptions),
		treeOptions:    treeOptions,
		indexes:        make(map[string]domain.Index),
		indexFactory:   opts.IndexFactory,
		comparer:       opts.Comparer,
		fieldNavigator: opts.FieldNavigator,
		querier:        opts.Querier,
		decoder:        opts.Decoder,
		reader:         opts.DocumentReader,
		writer:         opts.DocumentWriter,
	}
}

func (d *Datastore) getAllData() []domain.Document {
	var res []domain.Document
	d.docs.ExecuteOnEveryNode(func(node *bst.BinarySearchTree) {
		for _, doc := range node.Data() {
			res = append(res, doc.(domain.Document))
		}
	})
	return res
}

func (d *Datastore) get(key domain.DocumentKey) (domain.Document, bool) {
	found := d.docs.Search(key)
	if len(found) == 0 {
		return nil, false
	}
	return found[0].(domain.Document), true
}

func (d *Datastore) newCursor(ctx context.Context, docs []domain.Document) (domain.Cursor, error) {
	return cursor.NewCursor(ctx, docs, domain.WithCursorDecoder(d.decoder))
}

func (d *Datastore) checkDocuments(docs ...domain.Document) error {
	for _, doc := range docs {
		if doc == nil || !doc.Exists() {
			return domain.ErrDocumentType{Reason: "only found documents can be stored"}
		}
		if doc.Key().IsEmpty() {
			return domain.ErrDocumentType{Reason: "cannot store a document without a key"}
		}
	}
	return nil
}

func (d *Datastore) addToIndexes(ctx context.Context, docs ...domain.Document) error {
	names := slices.Sorted(maps.Keys(d.indexes))
	for n, name := range names {
		if err := d.indexes[name].Insert(ctx, docs...); err != nil {
			for _, done := range names[:n] {
				if removeErr := d.indexes[done].Remove(ctx, docs...); removeErr != nil {
					return errors.Join(err, removeErr)
				}
			}
			return err
		}
	}
	return nil
}

func (d *Datastore) removeFromIndexes(ctx context.Context, docs ...domain.Document) error {
	for _, idx := range d.indexes {
		if err := idx.Remove(ctx, docs...); err != nil {
			return err
		}
	}
	return nil
}

func (d *Datastore) resetIndexes(ctx context.Context, docs ...domain.Document) error {
	for _, idx := range d.indexes {
		if err := idx.Reset(ctx, docs...); err != nil {
			return err
		}
	}
	return nil
}

// store writes docs, replacing the ones stored under the same keys. Within
// docs, the last document with a key wins.
func (d *Datastore) store(ctx context.Context, docs []domain.Document) error {
	latest := make(map[string]domain.Document, len(docs))
	order := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		k := doc.Key().String()
		if _, ok := latest[k]; !ok {
			order = append(order, doc)
		}
		latest[k] = doc
	}

	var replaced []domain.Document
	for _, doc := range order {
		if old, ok := d.get(doc.Key()); ok {
			replaced = append(replaced, old)
		}
	}
	if err := d.removeFromIndexes(ctx, replaced...); err != nil {
		return err
	}
	for _, old := range replaced {
		d.docs.Delete(old.Key(), old)
	}

	stored := make([]domain.Document, 0, len(order))
	for _, doc := range order {
		doc = latest[doc.Key().String()]
		if err := d.docs.Insert(doc.Key(), doc); err != nil {
			return err
		}
		stored = append(stored, doc)
	}
	return d.addToIndexes(ctx, stored...)
}

// Load implements domain.Datastore.
func (d *Datastore) Load(ctx context.Context, r io.Reader) error {
	docs, err := d.reader.ReadDocuments(ctx, r)
	if err != nil {
		return err
	}
	if err := d.checkDocuments(docs...); err != nil {
		return err
	}

	if err := d.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer d.executor.Unlock()

	d.docs = bst.NewBinarySearchTree(d.treeOptions)
	if err := d.resetIndexes(ctx); err != nil {
		return err
	}
	if err := d.store(ctx, docs); err != nil {
		return err
	}
	if glog.V(2) {
		glog.Infof("datastore: loaded %d documents", d.docs.GetNumberOfKeys())
	}
	return nil
}

// Dump implements domain.Datastore.
func (d *Datastore) Dump(ctx context.Context, w io.Writer) error {
	if err := d.executor.RLockWithContext(ctx); err != nil {
		return err
	}
	defer d.executor.RUnlock()
	return d.writer.WriteDocuments(ctx, w, d.getAllData()...)
}

// Insert implements domain.Datastore.
func (d *Datastore) Insert(ctx context.Context, docs ...domain.Document) error {
	if err := d.checkDocuments(docs...); err != nil {
		return err
	}

	if err := d.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer d.executor.Unlock()

	var dup []string
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		k := doc.Key().String()
		_, inBatch := seen[k]
		_, stored := d.get(doc.Key())
		if inBatch || stored {
			dup = append(dup, k)
		}
		seen[k] = struct{}{}
	}
	if len(dup) > 0 {
		return domain.ErrDuplicateKey{Keys: dup}
	}

	for n, doc := range docs {
		if err := d.docs.Insert(doc.Key(), doc); err != nil {
			for _, done := range docs[:n] {
				d.docs.Delete(done.Key(), done)
			}
			return err
		}
	}
	if err := d.addToIndexes(ctx, docs...); err != nil {
		for _, doc := range docs {
			d.docs.Delete(doc.Key(), doc)
		}
		return err
	}
	return nil
}

// Set implements domain.Datastore.
func (d *Datastore) Set(ctx context.Context, docs ...domain.Document) error {
	if err := d.checkDocuments(docs...); err != nil {
		return err
	}

	if err := d.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer d.executor.Unlock()

	return d.store(ctx, docs)
}

// Delete implements domain.Datastore.
func (d *Datastore) Delete(ctx context.Context, keys ...domain.DocumentKey) (int, error) {
	if err := d.executor.LockWithContext(ctx); err != nil {
		return 0, err
	}
	defer d.executor.Unlock()

	var removed []domain.Document
	for _, k := range keys {
		doc, ok := d.get(k)
		if !ok {
			continue
		}
		d.docs.Delete(k, doc)
		removed = append(removed, doc)
	}
	if err := d.removeFromIndexes(ctx, removed...); err != nil {
		return 0, err
	}
	return len(removed), nil
}

// Get implements domain.Datastore.
func (d *Datastore) Get(ctx context.Context, key domain.DocumentKey) (domain.Document, error) {
	if err := d.executor.RLockWithContext(ctx); err != nil {
		return nil, err
	}
	defer d.executor.RUnlock()

	doc, ok := d.get(key)
	if !ok {
		return nil, domain.ErrNotFound{Key: key}
	}
	return doc, nil
}

// Count implements domain.Datastore.
func (d *Datastore) Count(ctx context.Context) (int, error) {
	if err := d.executor.RLockWithContext(ctx); err != nil {
		return 0, err
	}
	defer d.executor.RUnlock()
	return d.docs.GetNumberOfKeys(), nil
}

// EnsureIndex implements domain.Datastore.
func (d *Datastore) EnsureIndex(ctx context.Context, field string) error {
	path, err := d.fieldNavigator.ParseField(field)
	if err != nil {
		return err
	}

	if err := d.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer d.executor.Unlock()

	name := path.CanonicalString()
	if _, exists := d.indexes[name]; exists {
		return nil
	}
	idx := d.indexFactory(
		domain.WithIndexField(path),
		domain.WithIndexComparer(d.comparer),
	)
	if err := idx.Insert(ctx, d.getAllData()...); err != nil {
		return err
	}
	d.indexes[name] = idx
	return nil
}

// RemoveIndex implements domain.Datastore. Removing an index that does not
// exist is a no-op.
func (d *Datastore) RemoveIndex(ctx context.Context, field string) error {
	path, err := d.fieldNavigator.ParseField(field)
	if err != nil {
		return err
	}

	if err := d.executor.LockWithContext(ctx); err != nil {
		return err
	}
	defer d.executor.Unlock()

	delete(d.indexes, path.CanonicalString())
	return nil
}

// GetAllData implements domain.Datastore.
func (d *Datastore) GetAllData(ctx context.Context) (domain.Cursor, error) {
	if err := d.executor.RLockWithContext(ctx); err != nil {
		return nil, err
	}
	defer d.executor.RUnlock()
	return d.newCursor(ctx, d.getAllData())
}

// Find implements domain.Datastore.
func (d *Datastore) Find(ctx context.Context, filter domain.Filter) (domain.Cursor, error) {
	if err := d.executor.RLockWithContext(ctx); err != nil {
		return nil, err
	}
	defer d.executor.RUnlock()

	candidates, err := d.getCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Document, 0, len(candidates))
	for _, doc := range candidates {
		if filter.Matches(doc) {
			res = append(res, doc)
		}
	}
	slices.SortFunc(res, func(a, b domain.Document) int {
		return a.Key().Compare(b.Key())
	})
	return d.newCursor(ctx, res)
}

// Execute implements domain.Datastore.
func (d *Datastore) Execute(ctx context.Context, p domain.Pipeline) (domain.Cursor, error) {
	if err := d.executor.RLockWithContext(ctx); err != nil {
		return nil, err
	}
	defer d.executor.RUnlock()

	res, err := d.querier.Execute(ctx, p, d.getAllData())
	if err != nil {
		return nil, err
	}
	return d.newCursor(ctx, res)
}

// Query implements domain.Datastore.
func (d *Datastore) Query(ctx context.Context, q domain.Query) (domain.Cursor, error) {
	return d.Execute(ctx, pipeline.ToPipeline(q))
}
