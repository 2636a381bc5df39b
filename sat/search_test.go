package sat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSolver(nVars int) *Solver {
	s := NewSolver(Config{Inprocess: InprocessConfig{}}) // zero InprocessConfig: withDefaults substitutes DefaultInprocessConfig
	for i := 0; i < nVars; i++ {
		s.NewVar()
	}
	return s
}

func TestSolveTrivialSat(t *testing.T) {
	s := newTestSolver(2)
	require.NoError(t, s.AddClause([]Lit{MkLit(0, false), MkLit(1, false)}))
	result, err := s.Solve(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, ResultSat, result)
	require.True(t, s.GetModelValue(0) || s.GetModelValue(1))
}

func TestSolveTrivialUnsat(t *testing.T) {
	s := newTestSolver(1)
	require.NoError(t, s.AddClause([]Lit{MkLit(0, false)}))
	require.ErrorIs(t, s.AddClause([]Lit{MkLit(0, true)}), ErrUnsat)
	result, err := s.Solve(context.Background(), nil)
	require.Equal(t, ErrUnsat, err)
	require.Equal(t, ResultUnsat, result)
}

func TestSolveForcedContradictionIsUnsat(t *testing.T) {
	// x1 must hold, x2 must hold, but they cannot both hold.
	s := newTestSolver(2)
	require.NoError(t, s.AddClause([]Lit{MkLit(0, false)}))
	require.NoError(t, s.AddClause([]Lit{MkLit(1, false)}))
	require.NoError(t, s.AddClause([]Lit{MkLit(0, true), MkLit(1, true)}))
	result, err := s.Solve(context.Background(), nil)
	require.Equal(t, ErrUnsat, err)
	require.Equal(t, ResultUnsat, result)
}

func TestSolveExactlyOneOfTwoIsSat(t *testing.T) {
	s := newTestSolver(2)
	require.NoError(t, s.AddClause([]Lit{MkLit(0, false), MkLit(1, false)}))
	require.NoError(t, s.AddClause([]Lit{MkLit(0, true), MkLit(1, true)}))
	result, err := s.Solve(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, ResultSat, result)
	require.NotEqual(t, s.GetModelValue(0), s.GetModelValue(1))
}

func TestSolveWithAssumptions(t *testing.T) {
	s := newTestSolver(2)
	require.NoError(t, s.AddClause([]Lit{MkLit(0, false), MkLit(1, false)}))
	require.NoError(t, s.AddClause([]Lit{MkLit(0, true), MkLit(1, true)}))

	result, err := s.Solve(context.Background(), []Lit{MkLit(0, false)})
	require.NoError(t, err)
	require.Equal(t, ResultSat, result)
	require.True(t, s.GetModelValue(0))
	require.False(t, s.GetModelValue(1))
}

func TestAddXorClauseAndGaussianUnitPropagation(t *testing.T) {
	s := newTestSolver(3)
	require.NoError(t, s.AddXorClause([]Var{0, 1, 2}, true))
	require.NoError(t, s.AddClause([]Lit{MkLit(0, false)}))
	require.NoError(t, s.AddClause([]Lit{MkLit(1, false)}))

	s.gauss.BuildMatrix(s.xors)
	units, conflict := s.gauss.Eliminate()
	require.False(t, conflict)
	require.NotEmpty(t, units)
}

// TestSolveEnforcesPureXorWithZeroConflicts covers spec.md §8.3: a
// formula with only XOR constraints never hits a single conflict, so the
// Gaussian engine must be run unconditionally at the start of Solve
// rather than only once enough conflicts accrue to trigger inprocessing.
func TestSolveEnforcesPureXorWithZeroConflicts(t *testing.T) {
	s := newTestSolver(3)
	require.NoError(t, s.AddXorClause([]Var{0, 1, 2}, true))
	require.NoError(t, s.AddXorClause([]Var{0, 1}, false))

	result, err := s.Solve(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, ResultSat, result)
	require.Equal(t, s.GetModelValue(0), s.GetModelValue(1))
	require.True(t, s.GetModelValue(2))
}

func TestAddXorClauseExpandsShortLengthsAtIngest(t *testing.T) {
	s := newTestSolver(2)
	require.NoError(t, s.AddXorClause([]Var{0}, true))
	require.Empty(t, s.xors)
	require.Contains(t, s.units, MkLit(0, false))

	s2 := newTestSolver(2)
	require.NoError(t, s2.AddXorClause([]Var{0, 1}, true))
	require.Empty(t, s2.xors)

	result, err := s2.Solve(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, ResultSat, result)
	require.NotEqual(t, s2.GetModelValue(0), s2.GetModelValue(1))
}

func TestAddXorClauseEmptyContradictionIsUnsat(t *testing.T) {
	s := newTestSolver(0)
	require.ErrorIs(t, s.AddXorClause(nil, true), ErrUnsat)
}
