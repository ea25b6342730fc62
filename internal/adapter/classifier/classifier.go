// Package classifier chooses, for each normalized predicate, which of
// the three execution strategies the merge-join coordinator will
// drive: a primary-key cursor, a secondary-index cursor, or a
// full-store scan cursor — and builds the concrete key range each
// strategy needs.
package classifier

import (
	"github.com/nonibytes/docquery/domain"
	"github.com/nonibytes/docquery/internal/query"
)

// Source names the cursor strategy chosen for a predicate.
type Source int

const (
	SourcePK Source = iota
	SourceIndex
	SourceScan
)

// Classified is one predicate paired with its chosen execution
// strategy and the concrete range (for PK/Index) or compiled path
// (for Scan) needed to drive it.
type Classified struct {
	Source    Source
	IndexName string
	Range     domain.Range
	Predicate domain.Predicate
	Path      []string
}

// Classify resolves every predicate's target against the schema and
// returns one Classified entry per predicate, preserving order.
func Classify(schema domain.Schema, store string, predicates []domain.Predicate, fn domain.FieldNavigator) ([]Classified, error) {
	pkPath, err := schema.PrimaryKeyPath(store)
	if err != nil {
		return nil, err
	}

	result := make([]Classified, len(predicates))
	for n, p := range predicates {
		rng, err := buildRange(p)
		if err != nil {
			return nil, err
		}

		switch {
		case p.Target == pkPath:
			result[n] = Classified{Source: SourcePK, Range: rng, Predicate: p}
		default:
			if _, ok := schema.IndexPath(store, p.Target); ok {
				result[n] = Classified{Source: SourceIndex, IndexName: p.Target, Range: rng, Predicate: p}
				continue
			}
			result[n] = Classified{Source: SourceScan, Predicate: p, Path: fn.Compile(p.Target)}
		}
	}
	return result, nil
}

func buildRange(p domain.Predicate) (domain.Range, error) {
	switch p.Kind {
	case domain.PredEquality:
		return domain.Equal(query.CoerceValue(p.Value)), nil
	case domain.PredPrefix:
		return domain.PrefixRange(p.Value), nil
	case domain.PredRange:
		r := domain.Range{}
		if p.HasFrom {
			r.Lo, r.HasLo = query.CoerceValue(*p.From), true
		}
		if p.HasTo {
			r.Hi, r.HasHi = query.CoerceValue(*p.To), true
		}
		return r, nil
	default:
		return domain.Range{}, &domain.ErrInternal{Reason: "predicate carries no recognized kind"}
	}
}
