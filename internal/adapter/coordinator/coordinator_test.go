package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nonibytes/docquery/domain"
	"github.com/nonibytes/docquery/internal/adapter/comparer"
)

var ctx = context.Background()

// listCursor is a minimal domain.StoreCursor over an in-memory slice
// of primary keys, used to drive the coordinator without a store.
type listCursor struct {
	keys []any
	pos  int
}

func (c *listCursor) CurrentKey() any        { return c.CurrentPrimaryKey() }
func (c *listCursor) CurrentPrimaryKey() any { return c.keys[c.pos] }
func (c *listCursor) CurrentValue() domain.Document { return nil }
func (c *listCursor) Advance(context.Context) error {
	if !c.Done() {
		c.pos++
	}
	return nil
}
func (c *listCursor) Done() bool { return c.pos >= len(c.keys) }
func (c *listCursor) Close() error { return nil }

func newCursor(keys ...any) domain.StoreCursor { return &listCursor{keys: keys} }

type CoordinatorTestSuite struct {
	suite.Suite
	cmp domain.Comparer
}

func (s *CoordinatorTestSuite) SetupSuite() {
	s.cmp = comparer.NewComparer()
}

func (s *CoordinatorTestSuite) TestAndIntersection() {
	cursors := []domain.StoreCursor{
		newCursor("a", "aa", "aaa"),
		newCursor("aaa", "bbb", "ccc"),
	}
	keys, err := Run(ctx, cursors, s.cmp, domain.JoinAnd, nil, nil, nil)
	s.NoError(err)
	s.Equal([]any{"aaa"}, keys)
}

func (s *CoordinatorTestSuite) TestAndEmptyWhenNoOverlap() {
	cursors := []domain.StoreCursor{
		newCursor("a"),
		newCursor("bbb"),
	}
	keys, err := Run(ctx, cursors, s.cmp, domain.JoinAnd, nil, nil, nil)
	s.NoError(err)
	s.Empty(keys)
}

func (s *CoordinatorTestSuite) TestOrUnionIsAscendingAndDeduplicated() {
	cursors := []domain.StoreCursor{
		newCursor("a", "aaa"),
		newCursor("aa", "aaa", "bbb"),
	}
	keys, err := Run(ctx, cursors, s.cmp, domain.JoinOr, nil, nil, nil)
	s.NoError(err)
	s.Equal([]any{"a", "aa", "aaa", "bbb"}, keys)
}

func (s *CoordinatorTestSuite) TestSingleCursorAnd() {
	cursors := []domain.StoreCursor{newCursor("a", "aa", "aaa")}
	keys, err := Run(ctx, cursors, s.cmp, domain.JoinAnd, nil, nil, nil)
	s.NoError(err)
	s.Equal([]any{"a", "aa", "aaa"}, keys)
}

func (s *CoordinatorTestSuite) TestLimit() {
	cursors := []domain.StoreCursor{newCursor("a", "aa", "aaa")}
	limit := 2
	keys, err := Run(ctx, cursors, s.cmp, domain.JoinAnd, nil, nil, &limit)
	s.NoError(err)
	s.Equal([]any{"a", "aa"}, keys)
}

func (s *CoordinatorTestSuite) TestZeroLimitReturnsNoMatches() {
	cursors := []domain.StoreCursor{newCursor("a", "aa", "aaa")}
	limit := 0
	keys, err := Run(ctx, cursors, s.cmp, domain.JoinAnd, nil, nil, &limit)
	s.NoError(err)
	s.Empty(keys)
}

func (s *CoordinatorTestSuite) TestFromOffset() {
	cursors := []domain.StoreCursor{newCursor("a", "aa", "aaa")}
	from := 1
	keys, err := Run(ctx, cursors, s.cmp, domain.JoinAnd, &from, nil, nil)
	s.NoError(err)
	s.Equal([]any{"aa", "aaa"}, keys)
}

// $to terminates once the pre-offset counter exceeds it, but the match
// that trips the check has already been appended that same step — so
// $to=2 yields three matches (n=1,2,3), not two. This mirrors the
// step-by-step protocol's literal ordering, kept as the documented
// behavioral contract rather than "fixed" to a more intuitive count.
func (s *CoordinatorTestSuite) TestToTerminatesAfterOffset() {
	cursors := []domain.StoreCursor{newCursor("a", "aa", "aaa", "bbb")}
	to := 2
	keys, err := Run(ctx, cursors, s.cmp, domain.JoinAnd, nil, &to, nil)
	s.NoError(err)
	s.Equal([]any{"a", "aa", "aaa"}, keys)
}

func (s *CoordinatorTestSuite) TestCursorsAreClosed() {
	c1 := newCursor("a").(*listCursor)
	closed := false
	cursors := []domain.StoreCursor{&closingCursor{listCursor: c1, onClose: func() { closed = true }}}
	_, err := Run(ctx, cursors, s.cmp, domain.JoinAnd, nil, nil, nil)
	s.NoError(err)
	s.True(closed)
}

func (s *CoordinatorTestSuite) TestCancellationAbortsRun() {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	cursors := []domain.StoreCursor{newCursor("a", "aa")}
	_, err := Run(cancelled, cursors, s.cmp, domain.JoinAnd, nil, nil, nil)
	s.Error(err)
	var target *domain.ErrCancelled
	s.ErrorAs(err, &target)
}

type closingCursor struct {
	*listCursor
	onClose func()
}

func (c *closingCursor) Close() error {
	c.onClose()
	return nil
}

func TestCoordinatorTestSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorTestSuite))
}
