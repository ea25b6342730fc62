// Package materializer shapes a coordinator's ordered primary-key
// list into the output format a query requested: the bare key list,
// a map keyed by primary key, or the fully resolved record list —
// applying $orderBy against the underlying records where requested.
package materializer

import (
	"context"
	"slices"

	"github.com/nonibytes/docquery/domain"
)

// Result is the materialized output of a query, shaped by the
// requested domain.Format. Exactly one of Records, Keys, Lookup is
// populated.
type Result struct {
	Records []domain.Document
	Keys    []any
	Lookup  map[any]domain.Document
}

// Materialize reads every record named by keys from store and shapes
// the result per controls.Format, applying controls.OrderBy when set.
func Materialize(ctx context.Context, store domain.Store, fn domain.FieldNavigator, cmp domain.Comparer, keys []any, controls domain.ControlSet) (Result, error) {
	switch controls.Format {
	case domain.FormatKeys:
		if !controls.HasOrderBy {
			if keys == nil {
				keys = []any{}
			}
			return Result{Keys: keys}, nil
		}
		records, err := store.ReadAll(ctx, keys)
		if err != nil {
			return Result{}, err
		}
		ordered, err := orderKeysByRecord(keys, records, fn, cmp, controls.OrderBy)
		if err != nil {
			return Result{}, err
		}
		return Result{Keys: ordered}, nil

	case domain.FormatLookup:
		records, err := store.ReadAll(ctx, keys)
		if err != nil {
			return Result{}, err
		}
		lookup := make(map[any]domain.Document, len(keys))
		for n, key := range keys {
			lookup[key] = records[n]
		}
		return Result{Lookup: lookup}, nil

	default: // domain.FormatRecords
		records, err := store.ReadAll(ctx, keys)
		if err != nil {
			return Result{}, err
		}
		if controls.HasOrderBy {
			if err := sortRecords(records, fn, cmp, controls.OrderBy); err != nil {
				return Result{}, err
			}
		}
		return Result{Records: records}, nil
	}
}

// Decode converts r.Records into plain maps and decodes them into
// target, a pointer to a slice of structs, using dec. It is the
// typed-result counterpart to Format: callers that want Go values
// instead of Documents run FormatRecords, then call Decode.
func (r Result) Decode(dec domain.Decoder, target any) error {
	maps := make([]map[string]any, len(r.Records))
	for n, rec := range r.Records {
		m := make(map[string]any, rec.Len())
		for k, v := range rec.Iter() {
			m[k] = v
		}
		maps[n] = m
	}
	return dec.Decode(maps, target)
}

func orderKeysByRecord(keys []any, records []domain.Document, fn domain.FieldNavigator, cmp domain.Comparer, orderBy string) ([]any, error) {
	type pair struct {
		key    any
		record domain.Document
	}
	pairs := make([]pair, len(keys))
	for n, key := range keys {
		pairs[n] = pair{key: key, record: records[n]}
	}

	compiled := fn.Compile(orderBy)
	var sortErr error
	slices.SortStableFunc(pairs, func(a, b pair) int {
		order, err := compareByPath(fn, cmp, compiled, a.record, b.record)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return order
	})
	if sortErr != nil {
		return nil, sortErr
	}

	res := make([]any, len(pairs))
	for n, p := range pairs {
		res[n] = p.key
	}
	return res, nil
}

func sortRecords(records []domain.Document, fn domain.FieldNavigator, cmp domain.Comparer, orderBy string) error {
	compiled := fn.Compile(orderBy)
	var sortErr error
	slices.SortStableFunc(records, func(a, b domain.Document) int {
		order, err := compareByPath(fn, cmp, compiled, a, b)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return order
	})
	return sortErr
}

func compareByPath(fn domain.FieldNavigator, cmp domain.Comparer, compiled []string, a, b domain.Document) (int, error) {
	av, aok := fn.Resolve(a, compiled).Get()
	bv, bok := fn.Resolve(b, compiled).Get()
	if !aok && !bok {
		return 0, nil
	}
	if !aok {
		return 1, nil // absent sorts last
	}
	if !bok {
		return -1, nil
	}
	return cmp.Compare(av, bv)
}
