// Package memstore implements an in-memory, ordered document store —
// the reference realization of the evaluator's store collaborator
// contract. A primary index and zero or more named secondary indices,
// each an ascending binary search tree, give the classifier and
// cursor drivers the range-scan semantics they depend on.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nonibytes/docquery/domain"
	"github.com/nonibytes/docquery/internal/adapter/comparer"
	"github.com/nonibytes/docquery/internal/adapter/data"
	"github.com/nonibytes/docquery/internal/adapter/fieldnavigator"
	"github.com/nonibytes/docquery/internal/adapter/idgenerator"
	"github.com/nonibytes/docquery/internal/adapter/index"
	"github.com/nonibytes/docquery/internal/adapter/schema"
	"github.com/nonibytes/docquery/pkg/ctxsync"
)

// Store implements domain.Store over an in-memory map plus ordered
// indices. A store handle may be shared by multiple concurrent
// queries; inserts, reads and index lookups all take the same
// exclusive lock.
type Store struct {
	pkPath     string
	pkCompiled []string
	indices    map[string]*index.Index
	indexPaths map[string][]string

	primary        *index.Index
	comparer       domain.Comparer
	fieldNavigator domain.FieldNavigator
	docFac         func(any) (domain.Document, error)
	idGen          domain.IDGenerator

	// mu guards records and every index against concurrent queries
	// sharing this store handle. A ctxsync.Mutex lets every
	// context-bearing method respect cancellation while waiting for
	// the lock instead of blocking unconditionally.
	mu      *ctxsync.Mutex
	records map[any]domain.Document
}

// NewStore returns a store declaring a primary key at pkPath and the
// given named secondary indices.
func NewStore(pkPath string, indexDefs map[string]schema.IndexDef, opts ...domain.StoreOption) *Store {
	options := domain.StoreOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Comparer == nil {
		options.Comparer = comparer.NewComparer()
	}
	if options.DocumentFactory == nil {
		options.DocumentFactory = data.NewDocument
	}
	if options.FieldNavigator == nil {
		options.FieldNavigator = fieldnavigator.NewFieldNavigator(options.DocumentFactory)
	}
	if options.IDGenerator == nil {
		options.IDGenerator = idgenerator.NewIDGenerator()
	}

	s := &Store{
		pkPath:         pkPath,
		pkCompiled:     options.FieldNavigator.Compile(pkPath),
		comparer:       options.Comparer,
		fieldNavigator: options.FieldNavigator,
		docFac:         options.DocumentFactory,
		idGen:          options.IDGenerator,
		mu:             ctxsync.NewMutex(),
		records:        make(map[any]domain.Document),
		primary:        index.NewIndex(options.Comparer, true),
		indices:        make(map[string]*index.Index, len(indexDefs)),
		indexPaths:     make(map[string][]string, len(indexDefs)),
	}
	for name, def := range indexDefs {
		s.indices[name] = index.NewIndex(options.Comparer, def.Unique)
		s.indexPaths[name] = options.FieldNavigator.Compile(def.Path)
	}
	return s
}

// Schema returns a domain.Schema describing this store under name —
// a convenience for callers that only ever query one store. Index
// uniqueness is not carried over: every IndexDef it holds has Unique
// false.
func (s *Store) Schema(name string) domain.Schema {
	def := schema.StoreDef{PrimaryKeyPath: s.pkPath, Indices: make(map[string]schema.IndexDef, len(s.indices))}
	for idxName := range s.indices {
		def.Indices[idxName] = schema.IndexDef{Path: strings.Join(s.indexPaths[idxName], ".")}
	}
	return schema.New(map[string]schema.StoreDef{name: def})
}

// PrimaryKeyPath implements domain.Store.
func (s *Store) PrimaryKeyPath() string { return s.pkPath }

// IndexNames implements domain.Store.
func (s *Store) IndexNames() []string {
	names := make([]string, 0, len(s.indices))
	for name := range s.indices {
		names = append(names, name)
	}
	return names
}

// Insert adds doc to the store, generating a primary key if doc's
// resolved pk path is absent. Insert is a collaborator-side operation;
// the evaluator itself never calls it.
func (s *Store) Insert(ctx context.Context, doc domain.Document) error {
	pk, ok := s.fieldNavigator.Resolve(doc, s.pkCompiled).Get()
	if !ok || pk == nil {
		generated, err := s.idGen.GenerateID(16)
		if err != nil {
			return fmt.Errorf("generate primary key: %w", err)
		}
		if len(s.pkCompiled) != 1 {
			return &domain.ErrInvalidArgument{Argument: s.pkPath, Reason: "auto-generated primary keys require a single-segment path"}
		}
		doc.Set(s.pkCompiled[0], generated)
		pk = generated
	}

	if err := s.mu.LockWithContext(ctx); err != nil {
		return &domain.ErrCancelled{Cause: err}
	}
	defer s.mu.Unlock()

	if _, exists := s.records[pk]; exists {
		return &domain.ErrStoreError{Op: "insert", Cause: fmt.Errorf("duplicate primary key %v", pk)}
	}

	if err := s.primary.Insert(pk, pk); err != nil {
		return &domain.ErrStoreError{Op: "insert", Cause: err}
	}
	for name, idx := range s.indices {
		value, ok := s.fieldNavigator.Resolve(doc, s.indexPaths[name]).Get()
		if !ok {
			continue // sparse: documents missing the indexed path are not indexed
		}
		if err := idx.Insert(value, pk); err != nil {
			return &domain.ErrStoreError{Op: "index " + name, Cause: err}
		}
	}

	s.records[pk] = doc
	return nil
}

// OpenPrimaryKeyCursor implements domain.Store.
func (s *Store) OpenPrimaryKeyCursor(ctx context.Context, r domain.Range) (domain.StoreCursor, error) {
	if err := s.mu.LockWithContext(ctx); err != nil {
		return nil, &domain.ErrCancelled{Cause: err}
	}
	entries := s.primary.RangeKeys(r)
	s.mu.Unlock()

	return newListCursor(s, entries), nil
}

// OpenIndexCursor implements domain.Store.
func (s *Store) OpenIndexCursor(ctx context.Context, indexName string, r domain.Range) (domain.StoreCursor, error) {
	if err := s.mu.LockWithContext(ctx); err != nil {
		return nil, &domain.ErrCancelled{Cause: err}
	}
	idx, ok := s.indices[indexName]
	if !ok {
		s.mu.Unlock()
		return nil, &domain.ErrInvalidArgument{Argument: indexName, Reason: "not a declared index"}
	}
	entries := idx.RangeKeys(r)
	s.mu.Unlock()

	// Index cursors surface the primary key of the pointed record, in
	// ascending primary-key order, not ascending index-key order — a
	// non-unique index can hold keys out of primary-key order across
	// distinct index-key groups.
	slices.SortFunc(entries, func(a, b index.KeyedPK) int {
		c, _ := s.comparer.Compare(a.PK, b.PK)
		return c
	})

	return newListCursor(s, entries), nil
}

// Read implements domain.Store.
func (s *Store) Read(ctx context.Context, key any) (domain.Document, error) {
	if err := s.mu.LockWithContext(ctx); err != nil {
		return nil, &domain.ErrCancelled{Cause: err}
	}
	defer s.mu.Unlock()
	return s.records[key], nil
}

// ReadAll implements domain.Store.
func (s *Store) ReadAll(ctx context.Context, keys []any) ([]domain.Document, error) {
	res := make([]domain.Document, len(keys))
	for n, key := range keys {
		doc, err := s.Read(ctx, key)
		if err != nil {
			return nil, err
		}
		res[n] = doc
	}
	return res, nil
}

// Close implements domain.Store. The in-memory store holds no
// external resources; Close is a no-op kept for contract symmetry.
func (s *Store) Close() error { return nil }
