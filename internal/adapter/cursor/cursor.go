// Package cursor contains the default [domain.Cursor] implementation.
package cursor

import (
	"context"
	"slices"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/gequery/pkg/ctxsync"
)

// Cursor implements domain.Cursor over a fixed list of documents. The
// cursor stops yielding documents once the context it was created with is
// done.
type Cursor struct {
	data      []domain.Document
	ctx       context.Context
	mu        *ctxsync.RWMutex
	dec       domain.Decoder
	started   bool
	closed    bool
	storedErr error
}

// NewCursor returns a new implementation of Cursor.
func NewCursor(ctx context.Context, docs []domain.Document, options ...domain.CursorOption) (domain.Cursor, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	opts := domain.CursorOptions{
		Decoder: decoder.NewDecoder(),
	}
	for _, option := range options {
		option(&opts)
	}

	return &Cursor{
		data: slices.Clone(docs),
		ctx:  ctx,
		mu:   ctxsync.NewRWMutex(),
		dec:  opts.Decoder,
	}, nil
}

// Next implements domain.Cursor.
func (c *Cursor) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.storedErr != nil || len(c.data) == 0 {
		return false
	}
	if err := c.ctx.Err(); err != nil {
		c.storedErr = err
		c.data = nil
		return false
	}
	if c.started {
		c.data = c.data[1:]
	}
	c.started = true
	return len(c.data) > 0
}

// Document implements domain.Cursor. It returns nil when there is no
// current document.
func (c *Cursor) Document() domain.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.started || len(c.data) == 0 {
		return nil
	}
	return c.data[0]
}

// Scan implements domain.Cursor.
func (c *Cursor) Scan(ctx context.Context, target any) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	if err := c.mu.RLockWithContext(ctx); err != nil {
		return err
	}
	defer c.mu.RUnlock()

	switch {
	case c.closed:
		return domain.ErrCursorClosed
	case c.storedErr != nil:
		return c.storedErr
	case !c.started:
		return domain.ErrScanBeforeNext
	case len(c.data) == 0:
		return domain.ErrCursorExhausted
	}
	return c.dec.Decode(c.data[0], target)
}

// Err implements domain.Cursor.
func (c *Cursor) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.storedErr
}

// Close implements domain.Cursor.
func (c *Cursor) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrCursorClosed
	}
	c.closed = true
	if len(c.data) > 0 && c.storedErr == nil {
		c.storedErr = domain.ErrCursorClosed
	}
	c.data = nil
	return nil
}
