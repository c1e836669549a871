// Package index contains the default [domain.Index] implementation.
package index

import (
	"context"
	"slices"

	"github.com/golang/glog"
	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
)

// Index implements domain.Index. Keys are the values stored under the
// indexed field; documents without the field are not indexed.
type Index struct {
	field domain.FieldPath
	// Exported to allow testing. Should not be a problem because Index is
	// used as interface.
	Tree        *bst.BinarySearchTree
	treeOptions bst.Options
	comparer    domain.Comparer
}

// NewIndex returns a new implementation of domain.Index.
func NewIndex(options ...domain.IndexOption) domain.Index {
	opts := domain.IndexOptions{
		Comparer: comparer.NewComparer(),
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.Comparer == nil {
		opts.Comparer = comparer.NewComparer()
	}

	cmpr := opts.Comparer
	treeOptions := bst.Options{
		CompareKeys: func(a, b any) int {
			return cmpr.Compare(a.(domain.Value), b.(domain.Value))
		},
	}
	return &Index{
		field:       opts.Field,
		Tree:        bst.NewBinarySearchTree(treeOptions),
		treeOptions: treeOptions,
		comparer:    cmpr,
	}
}

// Field implements domain.Index.
func (i *Index) Field() domain.FieldPath {
	return i.field
}

// Reset implements domain.Index.
func (i *Index) Reset(ctx context.Context, newData ...domain.Document) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	i.Tree = bst.NewBinarySearchTree(i.treeOptions)
	return i.Insert(ctx, newData...)
}

func (i *Index) key(doc domain.Document) (domain.Value, bool) {
	if !doc.Exists() {
		return domain.Value{}, false
	}
	return doc.Field(i.field)
}

// Insert implements domain.Index.
func (i *Index) Insert(ctx context.Context, docs ...domain.Document) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	inserted := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		k, ok := i.key(d)
		if !ok {
			continue
		}
		if err := i.Tree.Insert(k, d); err != nil {
			for _, done := range inserted {
				k, _ := i.key(done)
				i.Tree.Delete(k, done)
			}
			return err
		}
		inserted = append(inserted, d)
	}
	return nil
}

// Remove implements domain.Index.
func (i *Index) Remove(ctx context.Context, docs ...domain.Document) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for _, d := range docs {
		if k, ok := i.key(d); ok {
			i.Tree.Delete(k, d)
		}
	}
	return nil
}

// GetMatching implements domain.Index. Documents are returned in value
// order, each at most once.
func (i *Index) GetMatching(values ...domain.Value) []domain.Document {
	uniq := slices.Clone(values)
	slices.SortFunc(uniq, i.comparer.Compare)
	uniq = slices.CompactFunc(uniq, func(a, b domain.Value) bool {
		return i.comparer.Compare(a, b) == 0
	})

	var res []domain.Document
	for _, v := range uniq {
		for _, found := range i.Tree.Search(v) {
			res = append(res, found.(domain.Document))
		}
	}
	return res
}

// GetBetweenBounds implements domain.Index.
func (i *Index) GetBetweenBounds(ctx context.Context, lower, upper *domain.IndexBound) ([]domain.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	query := make(map[string]any, 2)
	if lower != nil {
		if lower.Inclusive {
			query["$gte"] = lower.Value
		} else {
			query["$gt"] = lower.Value
		}
	}
	if upper != nil {
		if upper.Inclusive {
			query["$lte"] = upper.Value
		} else {
			query["$lt"] = upper.Value
		}
	}
	if len(query) == 0 {
		return i.GetAll(), nil
	}

	found := i.Tree.BetweenBounds(query, nil, nil)
	if glog.V(3) {
		glog.Infof("index %s: range scan found %d documents", i.field, len(found))
	}
	res := make([]domain.Document, len(found))
	for n, f := range found {
		res[n] = f.(domain.Document)
	}
	return res, nil
}

// GetAll implements domain.Index.
func (i *Index) GetAll() []domain.Document {
	var res []domain.Document
	i.Tree.ExecuteOnEveryNode(func(node *bst.BinarySearchTree) {
		for _, d := range node.Data() {
			res = append(res, d.(domain.Document))
		}
	})
	return res
}

// GetNumberOfKeys implements domain.Index.
func (i *Index) GetNumberOfKeys() int {
	return i.Tree.GetNumberOfKeys()
}
