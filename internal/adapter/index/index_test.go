package index

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/nonibytes/docquery/domain"
	"github.com/nonibytes/docquery/internal/adapter/comparer"
)

type IndexTestSuite struct {
	suite.Suite
	comparer domain.Comparer
}

func (s *IndexTestSuite) SetupSuite() {
	s.comparer = comparer.NewComparer()
}

func pks(entries []KeyedPK) []any {
	res := make([]any, len(entries))
	for n, e := range entries {
		res[n] = e.PK
	}
	return res
}

func (s *IndexTestSuite) TestEqual() {
	idx := NewIndex(s.comparer, false)
	s.NoError(idx.Insert("aaa", "a"))
	s.NoError(idx.Insert("aaa", "aa"))
	s.NoError(idx.Insert("bbb", "bbb"))

	s.ElementsMatch([]any{"a", "aa"}, pks(idx.Equal("aaa")))
	s.Equal([]any{"bbb"}, pks(idx.Equal("bbb")))
	s.Empty(idx.Equal("nope"))
}

func (s *IndexTestSuite) TestUniqueRejectsDuplicateKey() {
	idx := NewIndex(s.comparer, true)
	s.NoError(idx.Insert("aaa", "a"))
	s.Error(idx.Insert("aaa", "aa"))
}

func (s *IndexTestSuite) TestRangeKeysBounded() {
	idx := NewIndex(s.comparer, true)
	for _, pk := range []string{"a", "aa", "aaa", "bbb", "ccc"} {
		s.NoError(idx.Insert(pk, pk))
	}

	s.Equal([]any{"aa", "aaa", "bbb"}, pks(idx.RangeKeys(domain.Range{Lo: "aa", HasLo: true, Hi: "bbb", HasHi: true})))
	s.Equal([]any{"a", "aa", "aaa"}, pks(idx.RangeKeys(domain.Range{Hi: "aaa", HasHi: true})))
	s.Equal([]any{"bbb", "ccc"}, pks(idx.RangeKeys(domain.Range{Lo: "bbb", HasLo: true})))
	s.Equal([]any{"a", "aa", "aaa", "bbb", "ccc"}, pks(idx.RangeKeys(domain.Range{})))
}

func (s *IndexTestSuite) TestRangeKeysPrefix() {
	idx := NewIndex(s.comparer, true)
	for _, pk := range []string{"a", "aa", "aaa", "bbb", "ccc"} {
		s.NoError(idx.Insert(pk, pk))
	}

	s.Equal([]any{"a", "aa", "aaa"}, pks(idx.RangeKeys(domain.PrefixRange("a"))))
	s.Equal([]any{"aa", "aaa"}, pks(idx.RangeKeys(domain.PrefixRange("aa"))))
	s.Empty(idx.RangeKeys(domain.PrefixRange("zzz")))
}

func (s *IndexTestSuite) TestNumberOfKeys() {
	idx := NewIndex(s.comparer, false)
	s.NoError(idx.Insert("aaa", "a"))
	s.NoError(idx.Insert("aaa", "aa"))
	s.NoError(idx.Insert("bbb", "bbb"))
	s.Equal(2, idx.NumberOfKeys())
}

func TestIndexTestSuite(t *testing.T) {
	suite.Run(t, new(IndexTestSuite))
}
