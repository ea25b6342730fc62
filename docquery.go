// Package docquery wires the predicate parser, cursor classifier,
// merge-join coordinator and result materializer into the single
// entry point external callers use: name a store, supply parameters,
// get back a result shaped per the requested format.
package docquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/nonibytes/docquery/domain"
	"github.com/nonibytes/docquery/internal/adapter/classifier"
	"github.com/nonibytes/docquery/internal/adapter/comparer"
	"github.com/nonibytes/docquery/internal/adapter/coordinator"
	"github.com/nonibytes/docquery/internal/adapter/cursor"
	"github.com/nonibytes/docquery/internal/adapter/data"
	"github.com/nonibytes/docquery/internal/adapter/fieldnavigator"
	"github.com/nonibytes/docquery/internal/adapter/materializer"
	"github.com/nonibytes/docquery/internal/query"
)

// Result is the outcome of a query, reexported from materializer so
// callers depend only on this package.
type Result = materializer.Result

// Query runs a declarative query against store under storeName,
// described by schema, with params in the map[string]string wire
// form. An empty predicate list short-circuits to an empty result
// without opening any cursor, regardless of $format.
func Query(ctx context.Context, sch domain.Schema, store domain.Store, storeName string, params map[string]string) (Result, error) {
	parsed, err := query.ParseMap(params)
	if err != nil {
		return Result{}, err
	}
	return run(ctx, sch, store, storeName, parsed)
}

// QueryString is Query, taking a raw URL-encoded parameter string
// instead of an already-decoded map.
func QueryString(ctx context.Context, sch domain.Schema, store domain.Store, storeName string, rawQuery string) (Result, error) {
	parsed, err := query.ParseQueryString(rawQuery)
	if err != nil {
		return Result{}, err
	}
	return run(ctx, sch, store, storeName, parsed)
}

func run(ctx context.Context, sch domain.Schema, store domain.Store, storeName string, parsed domain.ParsedQuery) (Result, error) {
	if !sch.HasStore(storeName) {
		return Result{}, &domain.ErrSchemaMismatch{Store: storeName}
	}
	if len(parsed.Predicates) == 0 {
		return emptyResult(parsed.Controls.Format), nil
	}

	cmp := comparer.NewComparer()
	fn := fieldnavigator.NewFieldNavigator(data.NewDocument)

	classified, err := classifier.Classify(sch, storeName, parsed.Predicates, fn)
	if err != nil {
		return Result{}, err
	}

	cursors, err := openCursors(ctx, store, fn, cmp, classified)
	if err != nil {
		return Result{}, err
	}

	keys, err := coordinator.Run(ctx, cursors, cmp, parsed.Controls.Join, parsed.Controls.From, parsed.Controls.To, parsed.Controls.Limit)
	if err != nil {
		return Result{}, err
	}

	return materializer.Materialize(ctx, store, fn, cmp, keys, parsed.Controls)
}

func openCursors(ctx context.Context, store domain.Store, fn domain.FieldNavigator, cmp domain.Comparer, classified []classifier.Classified) ([]domain.StoreCursor, error) {
	cursors := make([]domain.StoreCursor, 0, len(classified))
	for _, c := range classified {
		sc, err := openOne(ctx, store, fn, cmp, c)
		if err != nil {
			for _, opened := range cursors {
				_ = opened.Close()
			}
			return nil, err
		}
		cursors = append(cursors, sc)
	}
	return cursors, nil
}

func openOne(ctx context.Context, store domain.Store, fn domain.FieldNavigator, cmp domain.Comparer, c classifier.Classified) (domain.StoreCursor, error) {
	switch c.Source {
	case classifier.SourcePK:
		return store.OpenPrimaryKeyCursor(ctx, c.Range)
	case classifier.SourceIndex:
		return store.OpenIndexCursor(ctx, c.IndexName, c.Range)
	case classifier.SourceScan:
		inner, err := store.OpenPrimaryKeyCursor(ctx, domain.Range{})
		if err != nil {
			return nil, err
		}
		match := buildScanMatch(fn, cmp, c)
		return cursor.NewScanCursor(ctx, inner, match)
	default:
		return nil, &domain.ErrInternal{Reason: "classifier produced unrecognized source"}
	}
}

func buildScanMatch(fn domain.FieldNavigator, cmp domain.Comparer, c classifier.Classified) cursor.Match {
	p := c.Predicate
	return func(record domain.Document) bool {
		getter := fn.Resolve(record, c.Path)
		v, ok := getter.Get()
		if !ok {
			return false
		}
		switch p.Kind {
		case domain.PredEquality:
			coerced := query.CoerceValue(p.Value)
			order, err := cmp.Compare(v, coerced)
			return err == nil && order == 0
		case domain.PredPrefix:
			return strings.HasPrefix(fmt.Sprint(v), p.Value)
		case domain.PredRange:
			if p.HasFrom {
				order, err := cmp.Compare(v, query.CoerceValue(*p.From))
				if err != nil || order < 0 {
					return false
				}
			}
			if p.HasTo {
				order, err := cmp.Compare(v, query.CoerceValue(*p.To))
				if err != nil || order > 0 {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
}

func emptyResult(format domain.Format) Result {
	switch format {
	case domain.FormatKeys:
		return Result{Keys: []any{}}
	case domain.FormatLookup:
		return Result{Lookup: map[any]domain.Document{}}
	default:
		return Result{Records: []domain.Document{}}
	}
}
