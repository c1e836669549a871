// Package fieldnavigator contains the default [domain.FieldNavigator]
// implementation.
package fieldnavigator

import (
	"strings"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

// FieldNavigator implements [domain.FieldNavigator].
type FieldNavigator struct{}

// NewFieldNavigator returns a new instance of [domain.FieldNavigator].
func NewFieldNavigator() domain.FieldNavigator {
	return &FieldNavigator{}
}

// ParseField implements [domain.FieldNavigator]. Segments are separated by
// dots. Inside backticks a dot is part of the segment, and a backslash
// escapes a following backslash, dot or backtick anywhere.
func (fn *FieldNavigator) ParseField(name string) (domain.FieldPath, error) {
	var (
		res         domain.FieldPath
		current     strings.Builder
		inBackticks bool
		quoted      bool
	)

	addSegment := func() error {
		if current.Len() == 0 && !quoted {
			return domain.ErrFieldPath{Path: name, Reason: "empty segment"}
		}
		res = append(res, current.String())
		current.Reset()
		quoted = false
		return nil
	}

	for i := 0; i < len(name); i++ {
		switch c := name[i]; {
		case c == '\\':
			if i+1 == len(name) {
				return nil, domain.ErrFieldPath{Path: name, Reason: "trailing escape character"}
			}
			next := name[i+1]
			if next != '\\' && next != '.' && next != '`' {
				return nil, domain.ErrFieldPath{Path: name, Reason: "invalid escape sequence"}
			}
			current.WriteByte(next)
			i++
		case c == '`':
			inBackticks = !inBackticks
			quoted = true
		case c == '.' && !inBackticks:
			if err := addSegment(); err != nil {
				return nil, err
			}
		default:
			current.WriteByte(c)
		}
	}
	if inBackticks {
		return nil, domain.ErrFieldPath{Path: name, Reason: "unterminated backtick"}
	}
	if err := addSegment(); err != nil {
		return nil, err
	}
	return res, nil
}

// GetField implements [domain.FieldNavigator].
func (fn *FieldNavigator) GetField(v domain.Value, path domain.FieldPath) (domain.Value, bool) {
	return data.GetPath(v, path)
}

// SplitFields splits a comma separated list of field names and parses each
// one.
func (fn *FieldNavigator) SplitFields(in string) ([]domain.FieldPath, error) {
	var res []domain.FieldPath
	for name := range strings.SplitSeq(in, ",") {
		path, err := fn.ParseField(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		res = append(res, path)
	}
	return res, nil
}
