package domain

import "io"

// IDGeneratorOptions configures a default IDGenerator.
type IDGeneratorOptions struct {
	Reader io.Reader
}

// IDGeneratorOption mutates IDGeneratorOptions.
type IDGeneratorOption func(*IDGeneratorOptions)

// WithReader overrides the randomness source used to generate ids.
func WithReader(r io.Reader) IDGeneratorOption {
	return func(o *IDGeneratorOptions) { o.Reader = r }
}

// StoreOptions configures a reference store implementation.
type StoreOptions struct {
	Comparer        Comparer
	FieldNavigator  FieldNavigator
	DocumentFactory func(any) (Document, error)
	IDGenerator     IDGenerator
}

// StoreOption mutates StoreOptions.
type StoreOption func(*StoreOptions)

// WithComparer overrides the natural-order comparator used by a
// store's indices.
func WithComparer(c Comparer) StoreOption {
	return func(o *StoreOptions) { o.Comparer = c }
}

// WithFieldNavigator overrides the path resolver used to extract
// index keys from seeded documents.
func WithFieldNavigator(fn FieldNavigator) StoreOption {
	return func(o *StoreOptions) { o.FieldNavigator = fn }
}

// WithDocumentFactory overrides how raw seed values are converted
// into Documents.
func WithDocumentFactory(f func(any) (Document, error)) StoreOption {
	return func(o *StoreOptions) { o.DocumentFactory = f }
}

// WithIDGenerator overrides the generator used for seed records that
// omit a primary key value.
func WithIDGenerator(g IDGenerator) StoreOption {
	return func(o *StoreOptions) { o.IDGenerator = g }
}
