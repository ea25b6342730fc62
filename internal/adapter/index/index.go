// Package index implements an ordered secondary/primary index: a
// binary search tree keyed by a record's resolved field value,
// storing only the primary key of each matching record (per the
// evaluator's invariant that an index cursor surfaces the pointed
// record's primary key, never the index key itself).
package index

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/nonibytes/docquery/domain"
)

// Index implements the ordered store backing both the primary-key
// index and every declared secondary index.
type Index struct {
	unique   bool
	comparer domain.Comparer
	// Tree is exported to allow testing; Index is otherwise consumed
	// as an interface by the reference store.
	Tree *bst.BinarySearchTree
	// keys holds the distinct index keys seen so far, kept sorted
	// ascending. The tree's own range/traversal API could not be
	// confirmed beyond Insert/Search/Delete/GetNumberOfKeys from the
	// call sites available, so range and prefix queries walk this
	// slice instead of asking the tree for a bounded ascending walk.
	keys []any
}

// NewIndex returns a new Index ordered by comparer. unique controls
// whether the tree enforces one primary key per distinct key value.
func NewIndex(comparer domain.Comparer, unique bool) *Index {
	return &Index{
		unique:   unique,
		comparer: comparer,
		Tree: bst.NewBinarySearchTree(bst.Options{
			Unique: unique,
			CompareKeys: func(a, b any) int {
				c, _ := comparer.Compare(a, b)
				return c
			},
		}),
	}
}

// Insert records that primaryKey's resolved field value is key.
func (i *Index) Insert(key, primaryKey any) error {
	if err := i.Tree.Insert(key, primaryKey); err != nil {
		return fmt.Errorf("index insert: %w", err)
	}
	i.insertKey(key)
	return nil
}

func (i *Index) insertKey(key any) {
	n, found := slices.BinarySearchFunc(i.keys, key, func(a, b any) int {
		c, _ := i.comparer.Compare(a, b)
		return c
	})
	if !found {
		i.keys = slices.Insert(i.keys, n, key)
	}
}

// KeyedPK pairs an index key with one of the primary keys stored
// under it.
type KeyedPK struct {
	Key any
	PK  any
}

// Equal returns the primary keys stored under an exact key match.
func (i *Index) Equal(key any) []KeyedPK {
	found := i.Tree.Search(key)
	res := make([]KeyedPK, len(found))
	for n, pk := range found {
		res[n] = KeyedPK{Key: key, PK: pk}
	}
	return res
}

// RangeKeys returns the primary keys stored under every distinct
// index key that satisfies r, walked in ascending index-key order.
// Prefix ranges coerce each key to a string before matching, matching
// the scan-cursor's own prefix behavior for non-string values.
func (i *Index) RangeKeys(r domain.Range) []KeyedPK {
	var res []KeyedPK
	for _, k := range i.keys {
		if r.Prefix {
			if !strings.HasPrefix(fmt.Sprint(k), r.Lo.(string)) {
				continue
			}
			res = append(res, i.Equal(k)...)
			continue
		}
		if r.HasLo {
			if c, _ := i.comparer.Compare(k, r.Lo); c < 0 {
				continue
			}
		}
		if r.HasHi {
			if c, _ := i.comparer.Compare(k, r.Hi); c > 0 {
				break
			}
		}
		res = append(res, i.Equal(k)...)
	}
	return res
}

// NumberOfKeys reports how many distinct keys the tree holds.
func (i *Index) NumberOfKeys() int {
	return i.Tree.GetNumberOfKeys()
}
