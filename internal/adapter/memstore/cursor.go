package memstore

import (
	"context"

	"github.com/nonibytes/docquery/domain"
	"github.com/nonibytes/docquery/internal/adapter/index"
)

// listCursor walks a precomputed, already-ordered slice of index
// entries, resolving each record lazily from the owning store. Both
// OpenPrimaryKeyCursor and OpenIndexCursor build their range ahead of
// time, so the cursor itself never touches the index again.
type listCursor struct {
	store   *Store
	entries []index.KeyedPK
	pos     int
}

func newListCursor(store *Store, entries []index.KeyedPK) *listCursor {
	return &listCursor{store: store, entries: entries}
}

// CurrentKey implements domain.StoreCursor.
func (c *listCursor) CurrentKey() any {
	if c.Done() {
		return nil
	}
	return c.entries[c.pos].Key
}

// CurrentPrimaryKey implements domain.StoreCursor.
func (c *listCursor) CurrentPrimaryKey() any {
	if c.Done() {
		return nil
	}
	return c.entries[c.pos].PK
}

// CurrentValue implements domain.StoreCursor.
func (c *listCursor) CurrentValue() domain.Document {
	if c.Done() {
		return nil
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.store.records[c.entries[c.pos].PK]
}

// Advance implements domain.StoreCursor.
func (c *listCursor) Advance(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return &domain.ErrCancelled{Cause: ctx.Err()}
	default:
	}
	if !c.Done() {
		c.pos++
	}
	return nil
}

// Done implements domain.StoreCursor.
func (c *listCursor) Done() bool { return c.pos >= len(c.entries) }

// Close implements domain.StoreCursor. listCursor holds no resources
// beyond the slice already materialized at open time.
func (c *listCursor) Close() error { return nil }
