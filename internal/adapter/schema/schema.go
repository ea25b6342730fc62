// Package schema implements the read-only store-metadata descriptor
// the query entry point validates a store name against. It carries no
// behavior beyond lookups; the evaluator never mutates it mid-query.
package schema

import "github.com/nonibytes/docquery/domain"

// IndexDef declares one secondary index: the dotted path it is keyed
// on and whether the store enforces uniqueness for it.
type IndexDef struct {
	Path   string
	Unique bool
}

// StoreDef declares one store's primary-key path and named indices.
type StoreDef struct {
	PrimaryKeyPath string
	Indices        map[string]IndexDef
}

// Schema implements domain.Schema over a fixed set of store
// declarations supplied at construction time.
type Schema struct {
	stores map[string]StoreDef
}

// New returns a Schema describing the given stores.
func New(stores map[string]StoreDef) *Schema {
	return &Schema{stores: stores}
}

// HasStore implements domain.Schema.
func (s *Schema) HasStore(name string) bool {
	_, ok := s.stores[name]
	return ok
}

// PrimaryKeyPath implements domain.Schema.
func (s *Schema) PrimaryKeyPath(store string) (string, error) {
	def, ok := s.stores[store]
	if !ok {
		return "", &domain.ErrSchemaMismatch{Store: store}
	}
	return def.PrimaryKeyPath, nil
}

// IndexPath implements domain.Schema.
func (s *Schema) IndexPath(store, indexName string) (string, bool) {
	def, ok := s.stores[store]
	if !ok {
		return "", false
	}
	idx, ok := def.Indices[indexName]
	if !ok {
		return "", false
	}
	return idx.Path, true
}

// IndexNames implements domain.Schema.
func (s *Schema) IndexNames(store string) []string {
	def, ok := s.stores[store]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(def.Indices))
	for name := range def.Indices {
		names = append(names, name)
	}
	return names
}
