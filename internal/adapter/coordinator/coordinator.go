// Package coordinator implements the merge-join state machine that
// synchronizes a query's cursors into a single ascending,
// deduplicated primary-key stream, honoring join mode, offset, and
// limit. It is the algorithmic heart of the evaluator; everything
// else in this repository exists to feed it cursors and consume its
// output.
package coordinator

import (
	"context"

	"github.com/nonibytes/docquery/domain"
)

// Run drives cursors to completion (or early termination) under join
// mode and the from/to/limit controls, returning the ordered,
// deduplicated list of matching primary keys. Every cursor is closed
// on every exit path, including error and cancellation. cmp orders
// primary keys the same way the store orders them, so mixed-type
// keys compare consistently with how the cursors themselves advance.
func Run(ctx context.Context, cursors []domain.StoreCursor, cmp domain.Comparer, join domain.JoinMode, from, to, limit *int) ([]any, error) {
	if len(cursors) == 0 {
		return nil, nil
	}
	defer func() {
		for _, c := range cursors {
			_ = c.Close()
		}
	}()
	if limit != nil && *limit == 0 {
		return nil, nil
	}

	var result []any
	var prevKey any
	hasPrev := false
	n := 0 // pre-offset counter: how many matches have been found so far

	for {
		select {
		case <-ctx.Done():
			return nil, &domain.ErrCancelled{Cause: ctx.Err()}
		default:
		}

		live := liveCursors(cursors)
		var match any
		hasMatch := false
		var toAdvance []domain.StoreCursor

		switch join {
		case domain.JoinOr:
			if len(live) == 0 {
				return result, nil
			}
			lowest := lowestOf(live, cmp)
			match, hasMatch = lowest.CurrentPrimaryKey(), true
			toAdvance = []domain.StoreCursor{lowest}

		case domain.JoinAnd:
			if len(live) < len(cursors) {
				// at least one cursor has completed: intersection is exhausted
				return result, nil
			}
			if allShareKey(live, cmp) {
				match, hasMatch = live[0].CurrentPrimaryKey(), true
				toAdvance = live
			} else {
				toAdvance = []domain.StoreCursor{lowestOf(live, cmp)}
			}

		default:
			return nil, &domain.ErrInternal{Reason: "unrecognized join mode"}
		}

		dup := false
		if hasMatch && hasPrev {
			if order, _ := cmp.Compare(match, prevKey); order == 0 {
				dup = true
			}
		}
		if hasMatch && !dup {
			n++
			if from == nil || n > *from {
				result = append(result, match)
			}
			prevKey, hasPrev = match, true

			if to != nil && n > *to {
				return result, nil
			}
			if limit != nil && len(result) == *limit {
				return result, nil
			}
		}

		for _, c := range toAdvance {
			if err := c.Advance(ctx); err != nil {
				return nil, err
			}
		}
	}
}

func liveCursors(cursors []domain.StoreCursor) []domain.StoreCursor {
	live := make([]domain.StoreCursor, 0, len(cursors))
	for _, c := range cursors {
		if !c.Done() {
			live = append(live, c)
		}
	}
	return live
}

// lowestOf returns the cursor with the smallest primary key among
// live, per cmp.
func lowestOf(live []domain.StoreCursor, cmp domain.Comparer) domain.StoreCursor {
	lowest := live[0]
	for _, c := range live[1:] {
		order, _ := cmp.Compare(c.CurrentPrimaryKey(), lowest.CurrentPrimaryKey())
		if order < 0 {
			lowest = c
		}
	}
	return lowest
}

func allShareKey(live []domain.StoreCursor, cmp domain.Comparer) bool {
	first := live[0].CurrentPrimaryKey()
	for _, c := range live[1:] {
		order, _ := cmp.Compare(c.CurrentPrimaryKey(), first)
		if order != 0 {
			return false
		}
	}
	return true
}
