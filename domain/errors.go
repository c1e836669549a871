package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCursorClosed is returned when using a closed cursor, or by Err
	// after a cursor was closed before being exhausted.
	ErrCursorClosed = errors.New("cursor is closed")
	// ErrScanBeforeNext is returned by Scan before the first call to Next.
	ErrScanBeforeNext = errors.New("called Scan before calling Next")
	// ErrCursorExhausted is returned by Scan after Next returned false.
	ErrCursorExhausted = errors.New("cursor has no more documents")
)

// ErrTargetNil is returned when the passed target, which should be a pointer,
// is passed as a nil value.
type ErrTargetNil struct{}

func (e *ErrTargetNil) Error() string { return "target interface is nil" }

// ErrFlushToStorage is returned when a written file or its directory cannot
// be synced or closed.
type ErrFlushToStorage struct {
	ErrorOnFsync error
	ErrorOnClose error
}

func (e ErrFlushToStorage) Error() string {
	err := e.ErrorOnFsync
	if err == nil {
		err = e.ErrorOnClose
	}
	return "storage flush error: " + err.Error()
}

func (e ErrFlushToStorage) Unwrap() error {
	if e.ErrorOnFsync != nil {
		return e.ErrorOnFsync
	}
	return e.ErrorOnClose
}

// ErrInvalidDocumentKey is returned when a path does not name a document.
type ErrInvalidDocumentKey struct {
	Path string
}

func (e ErrInvalidDocumentKey) Error() string {
	return fmt.Sprintf("invalid document path %q: expected an even number of segments", e.Path)
}

// ErrInvalidDocuments is returned by a documents source whose path list is
// empty or has duplicates.
type ErrInvalidDocuments struct {
	Reason string
}

func (e ErrInvalidDocuments) Error() string {
	return "invalid documents source: " + e.Reason
}

// ErrUnknownStage is returned when the executor meets a stage it cannot run.
type ErrUnknownStage struct {
	Name string
}

func (e ErrUnknownStage) Error() string {
	return fmt.Sprintf("unknown stage %q", e.Name)
}

// ErrFieldPath is returned for a field path that cannot be parsed.
type ErrFieldPath struct {
	Path   string
	Reason string
}

func (e ErrFieldPath) Error() string {
	return fmt.Sprintf("invalid field path %q: %s", e.Path, e.Reason)
}

// ErrDocumentType is returned when a Go value cannot be used as a document
// or document field.
type ErrDocumentType struct {
	Reason string
}

func (e ErrDocumentType) Error() string {
	return "invalid document type: " + e.Reason
}

// ErrDecode wraps failures while decoding values into Go targets or
// while parsing serialized input.
type ErrDecode struct {
	Source error
}

func (e ErrDecode) Error() string { return "decode: " + e.Source.Error() }

func (e ErrDecode) Unwrap() error { return e.Source }

// ErrInvalidPipeline is returned for a pipeline definition that cannot be
// turned into stages.
type ErrInvalidPipeline struct {
	Reason string
}

func (e ErrInvalidPipeline) Error() string {
	return "invalid pipeline: " + e.Reason
}

// ErrNotFound is returned when no document exists under the given key.
type ErrNotFound struct {
	Key DocumentKey
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("document %q not found", e.Key.String())
}

// ErrDuplicateKey is returned when inserting documents whose key is already
// stored.
type ErrDuplicateKey struct {
	Keys []string
}

func (e ErrDuplicateKey) Error() string {
	return "duplicate document keys: " + strings.Join(e.Keys, ", ")
}
