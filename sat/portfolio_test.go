package sat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunPortfolioFindsSatWithTwoInstances(t *testing.T) {
	mk := func() *Solver {
		s := newTestSolver(2)
		require.NoError(t, s.AddClause([]Lit{MkLit(0, false), MkLit(1, false)}))
		require.NoError(t, s.AddClause([]Lit{MkLit(0, true), MkLit(1, true)}))
		return s
	}
	solvers := []*Solver{mk(), mk()}

	result, err := RunPortfolio(context.Background(), solvers, nil, 8)
	require.NoError(t, err)
	require.Equal(t, ResultSat, result.Result)
	require.GreaterOrEqual(t, result.WinnerIdx, 0)
}

func TestBulletinBoardDrainOnlyReturnsNewEntries(t *testing.T) {
	board := NewBulletinBoard()
	reader := board.NewReader()

	board.PostUnit(MkLit(0, false))
	units, _, _ := reader.Drain()
	require.Len(t, units, 1)

	units, _, _ = reader.Drain()
	require.Empty(t, units, "a second Drain with no new posts should return nothing")

	board.PostBinary(MkLit(1, false), MkLit(2, true))
	_, binaries, _ := reader.Drain()
	require.Len(t, binaries, 1)
}
