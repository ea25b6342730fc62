// Package fieldnavigator implements the dotted-path resolver: given a
// compiled path and a record, it walks the record one segment at a
// time and yields the value at that path, or the absent sentinel if
// any intermediate segment is missing or non-traversable.
package fieldnavigator

import (
	"strings"

	"github.com/nonibytes/docquery/domain"
)

// FieldNavigator implements domain.FieldNavigator.
type FieldNavigator struct {
	docFac func(any) (domain.Document, error)
}

// NewFieldNavigator returns a new implementation of
// domain.FieldNavigator. docFac converts a raw struct/map value into a
// domain.Document so paths can be resolved against records that were
// never wrapped explicitly.
func NewFieldNavigator(docFac func(any) (domain.Document, error)) domain.FieldNavigator {
	return &FieldNavigator{docFac: docFac}
}

// Compile implements domain.FieldNavigator. It splits a dotted path
// into its segments once so callers can reuse the result per row.
func (fn *FieldNavigator) Compile(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Resolve implements domain.FieldNavigator.
func (fn *FieldNavigator) Resolve(record any, compiled []string) domain.Getter {
	if record == nil || len(compiled) == 0 {
		return absent{}
	}

	cur := record
	for n, part := range compiled {
		doc, ok := cur.(domain.Document)
		if !ok {
			converted, err := fn.docFac(cur)
			if err != nil || converted == nil {
				return absent{}
			}
			doc = converted
		}

		if !doc.Has(part) {
			return absent{}
		}

		if n == len(compiled)-1 {
			return present{value: doc.Get(part)}
		}
		cur = doc.Get(part)
	}

	return absent{}
}

type absent struct{}

func (absent) Get() (any, bool) { return nil, false }

type present struct{ value any }

func (p present) Get() (any, bool) { return p.value, true }
