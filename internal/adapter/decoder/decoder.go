// Package decoder contains the default [domain.Decoder] implementation.
package decoder

import (
	"github.com/mitchellh/mapstructure"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

// Decoder implements domain.Decoder. Besides plain Go values it accepts
// [domain.Value] and [domain.Document] sources, which are converted with
// [data.ToGo] first. Documents also expose their key under the
// [domain.KeyFieldName] field.
type Decoder struct{}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder() domain.Decoder {
	return &Decoder{}
}

// Decode implements domain.Decoder.
func (d *Decoder) Decode(src any, tgt any) error {
	if tgt == nil {
		return &domain.ErrTargetNil{}
	}

	switch v := src.(type) {
	case domain.Document:
		src = documentFields(v)
	case domain.Value:
		src = data.ToGo(v)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: data.TagName,
		Result:  tgt,
	})
	if err != nil {
		return domain.ErrDecode{Source: err}
	}
	if err := dec.Decode(src); err != nil {
		return domain.ErrDecode{Source: err}
	}
	return nil
}

func documentFields(doc domain.Document) map[string]any {
	fields, ok := data.ToGo(doc.Data()).(map[string]any)
	if !ok {
		fields = map[string]any{}
	}
	if _, set := fields[domain.KeyFieldName]; !set && !doc.Key().IsEmpty() {
		fields[domain.KeyFieldName] = doc.Key().String()
	}
	return fields
}
