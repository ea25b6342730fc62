// Package domain defines the contracts the query evaluator is built
// against: documents, schema metadata, the store collaborator, and the
// shared vocabulary (predicates, control parameters, ranges) that flows
// between the parser, classifier, coordinator and materializer.
package domain

import "iter"

// Document is an opaque structured record addressable by a primary key
// and by dotted top-level field names. Set/Unset exist only so the
// reference store's seed loader can build documents from parsed JSON;
// the evaluator itself never mutates a Document.
type Document interface {
	Get(key string) any
	Set(key string, value any)
	Unset(key string)
	Has(key string) bool
	D(key string) Document
	Keys() iter.Seq[string]
	Values() iter.Seq[any]
	Iter() iter.Seq2[string, any]
	Len() int
}

// Getter is implemented by values returned from a path resolution that
// may be absent. A zero value with isSet false is the absent sentinel;
// comparisons against it are always false.
type Getter interface {
	Get() (any, bool)
}

// JoinMode selects how predicate cursors are combined by the
// merge-join coordinator.
type JoinMode int

const (
	JoinAnd JoinMode = iota
	JoinOr
)

// Format selects the shape of a query result.
type Format int

const (
	FormatRecords Format = iota
	FormatKeys
	FormatLookup
)

// PredicateKind is the normalized operator of a predicate after
// from/to pairing.
type PredicateKind int

const (
	PredEquality PredicateKind = iota
	PredPrefix
	PredRange
)

// Predicate is a single normalized (target, operator, value) condition
// parsed from one or more wire parameters. From/To are only set for
// PredRange; either may be absent for a half-open range.
type Predicate struct {
	Target  string
	Kind    PredicateKind
	Value   string
	From    *string
	HasFrom bool
	To      *string
	HasTo   bool
}

// ControlSet is the set of `$`-prefixed parameters that steer
// execution without filtering rows.
type ControlSet struct {
	Join       JoinMode
	From       *int
	To         *int
	Limit      *int
	Format     Format
	OrderBy    string
	HasOrderBy bool
}

// ParsedQuery is the predicate parser's output: a normalized predicate
// list plus the control set governing how the coordinator and
// materializer behave.
type ParsedQuery struct {
	Predicates []Predicate
	Controls   ControlSet
}

// Range describes the concrete key range a PK or Index cursor should
// walk. Both bounds are inclusive when present; Prefix requests a
// prefix walk instead of a bounded range, in which case only Lo (the
// prefix string) is meaningful.
type Range struct {
	Lo     any
	HasLo  bool
	Hi     any
	HasHi  bool
	Prefix bool
}

// Equal returns the singleton range [v, v].
func Equal(v any) Range {
	return Range{Lo: v, HasLo: true, Hi: v, HasHi: true}
}

// PrefixRange returns a range requesting a prefix walk starting at s.
func PrefixRange(s string) Range {
	return Range{Lo: s, HasLo: true, Prefix: true}
}
