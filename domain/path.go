package domain

import (
	"slices"
	"strings"
)

// Special field names resolved from document metadata rather than data.
const (
	KeyFieldName        = "__name__"
	UpdateTimeFieldName = "__update_time__"
	CreateTimeFieldName = "__create_time__"
)

// ResourcePath is a slash separated path of collection and document ids.
type ResourcePath []string

// ParseResourcePath splits s on "/", ignoring empty segments.
func ParseResourcePath(s string) ResourcePath {
	segs := strings.Split(s, "/")
	res := make(ResourcePath, 0, len(segs))
	for _, seg := range segs {
		if seg != "" {
			res = append(res, seg)
		}
	}
	return res
}

// CanonicalString returns the segments joined with "/".
func (p ResourcePath) CanonicalString() string { return strings.Join(p, "/") }

func (p ResourcePath) String() string { return p.CanonicalString() }

// LastSegment returns the last segment, or "" for the empty path.
func (p ResourcePath) LastSegment() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// PopLast returns the path without its last segment.
func (p ResourcePath) PopLast() ResourcePath {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1:len(p)-1]
}

// Child returns a new path with segs appended.
func (p ResourcePath) Child(segs ...string) ResourcePath {
	res := make(ResourcePath, 0, len(p)+len(segs))
	return append(append(res, p...), segs...)
}

// Compare orders paths segment by segment, shorter prefixes first.
func (p ResourcePath) Compare(o ResourcePath) int {
	return slices.Compare(p, o)
}

// Equal reports whether both paths have the same segments.
func (p ResourcePath) Equal(o ResourcePath) bool { return slices.Equal(p, o) }

// IsPrefixOf reports whether p is a prefix of o.
func (p ResourcePath) IsPrefixOf(o ResourcePath) bool {
	return len(p) <= len(o) && slices.Equal(p, o[:len(p)])
}

// DocumentKey identifies a document by its path, which always has an even
// number of segments.
type DocumentKey struct {
	path ResourcePath
}

// NewDocumentKey returns the key of the document at path.
func NewDocumentKey(path ResourcePath) (DocumentKey, error) {
	if len(path) == 0 || len(path)%2 != 0 {
		return DocumentKey{}, ErrInvalidDocumentKey{Path: path.CanonicalString()}
	}
	return DocumentKey{path: slices.Clone(path)}, nil
}

// ParseDocumentKey parses a document path. A fully qualified name in the
// form "projects/p/databases/d/documents/..." is accepted as well.
func ParseDocumentKey(s string) (DocumentKey, error) {
	path := ParseResourcePath(s)
	if len(path) >= 5 && path[0] == "projects" && path[2] == "databases" && path[4] == "documents" {
		path = path[5:]
	}
	return NewDocumentKey(path)
}

// MustDocumentKey is like [ParseDocumentKey] but panics on error.
func MustDocumentKey(s string) DocumentKey {
	k, err := ParseDocumentKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Path returns the document path.
func (k DocumentKey) Path() ResourcePath { return k.path }

// ID returns the last segment of the key.
func (k DocumentKey) ID() string { return k.path.LastSegment() }

// CollectionPath returns the path of the collection holding the document.
func (k DocumentKey) CollectionPath() ResourcePath { return k.path.PopLast() }

// CollectionID returns the id of the collection holding the document.
func (k DocumentKey) CollectionID() string { return k.path.PopLast().LastSegment() }

// HasCollectionID reports whether the parent collection is named id.
func (k DocumentKey) HasCollectionID(id string) bool {
	return len(k.path) >= 2 && k.CollectionID() == id
}

// IsEmpty reports whether k is the zero key.
func (k DocumentKey) IsEmpty() bool { return len(k.path) == 0 }

// Compare orders keys by path.
func (k DocumentKey) Compare(o DocumentKey) int { return k.path.Compare(o.path) }

// Equal reports whether both keys name the same document.
func (k DocumentKey) Equal(o DocumentKey) bool { return k.path.Equal(o.path) }

func (k DocumentKey) String() string { return k.path.CanonicalString() }

// FieldPath addresses a possibly nested field of a document.
type FieldPath []string

// KeyFieldPath is the path of the document key pseudo-field.
var KeyFieldPath = FieldPath{KeyFieldName}

// CanonicalString returns the dotted form of the path. Segments that are
// not simple identifiers are quoted with backticks.
func (f FieldPath) CanonicalString() string {
	var sb strings.Builder
	for i, seg := range f {
		if i > 0 {
			sb.WriteByte('.')
		}
		if isSimpleSegment(seg) {
			sb.WriteString(seg)
			continue
		}
		sb.WriteByte('`')
		for _, r := range seg {
			if r == '\\' || r == '`' {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('`')
	}
	return sb.String()
}

func (f FieldPath) String() string { return f.CanonicalString() }

func isSimpleSegment(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		letter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !letter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// IsKeyField reports whether f is the document key pseudo-field.
func (f FieldPath) IsKeyField() bool { return len(f) == 1 && f[0] == KeyFieldName }

// Equal reports whether both paths have the same segments.
func (f FieldPath) Equal(o FieldPath) bool { return slices.Equal(f, o) }

// Compare orders paths segment by segment.
func (f FieldPath) Compare(o FieldPath) int { return slices.Compare(f, o) }
