// Package data contains the default [domain.Document] implementation and the
// conversions between Go values, JSON and [domain.Value].
package data

import (
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// TagName is the struct tag read when converting structs to map values.
const TagName = "gequery"

// Document implements domain.Document. Documents are read only; the
// mutation flag setters return modified copies.
type Document struct {
	key          domain.DocumentKey
	data         domain.Value
	state        domain.DocumentState
	updateTime   domain.Timestamp
	createTime   domain.Timestamp
	hasLocal     bool
	hasCommitted bool
}

// NewDocument returns a found document under key holding fields, which may
// be any Go value [FromGo] converts to a map. It satisfies
// [domain.DocumentFactory].
func NewDocument(key domain.DocumentKey, fields any) (domain.Document, error) {
	v, err := FromGo(fields)
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case domain.KindNull:
		v = domain.PlainMap(nil)
	case domain.KindMap:
	default:
		return nil, domain.ErrDocumentType{Reason: "expected map or struct, got " + v.Kind().String()}
	}
	return NewFoundDocument(key, v, domain.Timestamp{}), nil
}

// NewFoundDocument returns an existing document. data must be a map value.
func NewFoundDocument(key domain.DocumentKey, data domain.Value, version domain.Timestamp) *Document {
	return &Document{
		key:        key,
		data:       data,
		state:      domain.StateFound,
		updateTime: version,
		createTime: version,
	}
}

// NewNoDocument returns a document known not to exist at version.
func NewNoDocument(key domain.DocumentKey, version domain.Timestamp) *Document {
	return &Document{
		key:        key,
		data:       domain.PlainMap(nil),
		state:      domain.StateNoDocument,
		updateTime: version,
	}
}

// NewUnknownDocument returns a document that exists with unknown contents.
func NewUnknownDocument(key domain.DocumentKey, version domain.Timestamp) *Document {
	return &Document{
		key:          key,
		data:         domain.PlainMap(nil),
		state:        domain.StateUnknown,
		updateTime:   version,
		hasCommitted: true,
	}
}

// WithCreateTime returns a copy of d created at ts.
func (d *Document) WithCreateTime(ts domain.Timestamp) *Document {
	c := *d
	c.createTime = ts
	return &c
}

// WithLocalMutations returns a copy of d flagged with pending local writes.
func (d *Document) WithLocalMutations() *Document {
	c := *d
	c.hasLocal = true
	c.hasCommitted = false
	return &c
}

// WithCommittedMutations returns a copy of d flagged with committed writes.
func (d *Document) WithCommittedMutations() *Document {
	c := *d
	c.hasCommitted = true
	c.hasLocal = false
	return &c
}

// Key implements domain.Document.
func (d *Document) Key() domain.DocumentKey { return d.key }

// Data implements domain.Document.
func (d *Document) Data() domain.Value { return d.data }

// Field implements domain.Document.
func (d *Document) Field(path domain.FieldPath) (domain.Value, bool) {
	return GetPath(d.data, path)
}

// State implements domain.Document.
func (d *Document) State() domain.DocumentState { return d.state }

// Exists implements domain.Document.
func (d *Document) Exists() bool { return d.state == domain.StateFound }

// UpdateTime implements domain.Document.
func (d *Document) UpdateTime() domain.Timestamp { return d.updateTime }

// CreateTime implements domain.Document.
func (d *Document) CreateTime() domain.Timestamp { return d.createTime }

// HasLocalMutations implements domain.Document.
func (d *Document) HasLocalMutations() bool { return d.hasLocal }

// HasCommittedMutations implements domain.Document.
func (d *Document) HasCommittedMutations() bool { return d.hasCommitted }

// GetPath walks path through nested maps of v. An empty path returns v.
func GetPath(v domain.Value, path domain.FieldPath) (domain.Value, bool) {
	for _, seg := range path {
		if !v.IsMap() {
			return domain.Value{}, false
		}
		next, ok := v.AsMap()[seg]
		if !ok {
			return domain.Value{}, false
		}
		v = next
	}
	return v, true
}

// DetectSpecialMapType returns the extended kind a reserved-key map encodes,
// or [domain.KindMap] for a plain map.
func DetectSpecialMapType(m map[string]domain.Value) domain.Kind {
	if v, ok := domain.ClassifyMap(m); ok {
		return v.Kind()
	}
	return domain.KindMap
}
