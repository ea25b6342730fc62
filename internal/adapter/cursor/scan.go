// Package cursor implements the one cursor strategy the store itself
// cannot provide directly: a full primary-key sweep filtered in memory
// by a per-record predicate. PK and Index cursors are produced by the
// store collaborator unmodified; only Scan needs this wrapper.
package cursor

import (
	"context"

	"github.com/nonibytes/docquery/domain"
)

// Match tests whether a resolved record satisfies a scan predicate.
type Match func(record domain.Document) bool

// ScanCursor wraps an unbounded primary-key cursor, auto-advancing
// past rows that fail match so every row the coordinator observes
// already satisfies the predicate.
type ScanCursor struct {
	inner domain.StoreCursor
	match Match
}

// NewScanCursor returns a domain.StoreCursor that surfaces only the
// rows of inner for which match holds. inner must already be
// positioned before the first call to Advance; NewScanCursor performs
// the initial skip-to-first-match itself.
func NewScanCursor(ctx context.Context, inner domain.StoreCursor, match Match) (*ScanCursor, error) {
	c := &ScanCursor{inner: inner, match: match}
	if err := c.skipToMatch(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ScanCursor) skipToMatch(ctx context.Context) error {
	for !c.inner.Done() && !c.match(c.inner.CurrentValue()) {
		if err := c.inner.Advance(ctx); err != nil {
			return err
		}
	}
	return nil
}

// CurrentKey implements domain.StoreCursor.
func (c *ScanCursor) CurrentKey() any { return c.inner.CurrentKey() }

// CurrentPrimaryKey implements domain.StoreCursor.
func (c *ScanCursor) CurrentPrimaryKey() any { return c.inner.CurrentPrimaryKey() }

// CurrentValue implements domain.StoreCursor.
func (c *ScanCursor) CurrentValue() domain.Document { return c.inner.CurrentValue() }

// Advance implements domain.StoreCursor, skipping every row that
// fails match before returning.
func (c *ScanCursor) Advance(ctx context.Context) error {
	if err := c.inner.Advance(ctx); err != nil {
		return err
	}
	return c.skipToMatch(ctx)
}

// Done implements domain.StoreCursor.
func (c *ScanCursor) Done() bool { return c.inner.Done() }

// Close implements domain.StoreCursor.
func (c *ScanCursor) Close() error { return c.inner.Close() }
