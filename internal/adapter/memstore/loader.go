package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dolmen-go/contextio"

	"github.com/nonibytes/docquery/internal/adapter/data"
)

// LoadSeed decodes a top-level JSON array of documents from r and
// inserts each one, stopping at the first error or at ctx
// cancellation. r is wrapped with contextio so a cancelled context
// unblocks a stalled read instead of leaving LoadSeed hung on it.
func (s *Store) LoadSeed(ctx context.Context, r io.Reader) error {
	cr := contextio.NewReader(ctx, r)
	dec := json.NewDecoder(cr)

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("read seed: expected top-level array, got %v", tok)
	}

	for dec.More() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var doc data.M
		if err := dec.Decode(&doc); err != nil {
			return fmt.Errorf("decode seed record: %w", err)
		}
		if err := s.Insert(ctx, doc); err != nil {
			return fmt.Errorf("insert seed record: %w", err)
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	return nil
}
