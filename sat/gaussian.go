package sat

import "time"

// gaussRow is one row of the dense GF(2) matrix: a bitset of variable
// columns plus the RHS bit. Packed into uint64 words, matching the
// teacher package's packed-row idea (original_source/src/packedrow.cpp)
// but word-packed instead of bool-per-cell for a smaller footprint.
type gaussRow struct {
	words []uint64
	rhs   bool

	source *XORClause
}

// GaussianStats tracks elimination performance, exported through Stats.
type GaussianStats struct {
	TotalRuns           int64
	VariablesEliminated int64
	XORClausesLearned   int64
	UnitPropagations    int64
	ConflictsFound      int64
	TimeInGaussian      int64
}

// GaussianEngine runs Gauss-Jordan elimination over the variables
// appearing in discovered/asserted XOR constraints, both offline (once
// per inprocessing round, producing learnt unit/binary clauses) and
// online (watched-row propagation during search, spec.md §4.10 point 4).
// Grounded on the teacher package's GaussianEliminator and on
// original_source/src/gaussian.h, src/EGaussian.h for the online scheme.
type GaussianEngine struct {
	s *Solver

	rows    []*gaussRow
	colVar  []Var
	varCol  map[Var]int

	maxRows, maxCols int
	minXORSize       int
	maxXORSize       int
	frequency        int64
	lastRun          int64
	disabled         bool

	stats GaussianStats
}

// NewGaussianEngine creates an engine bound to s.
func NewGaussianEngine(s *Solver) *GaussianEngine {
	return &GaussianEngine{
		s:          s,
		maxRows:    300,
		maxCols:    200,
		minXORSize: 3,
		maxXORSize: 20,
		frequency:  5000,
		varCol:     make(map[Var]int),
	}
}

// ShouldRun reports whether enough conflicts have elapsed and enough XOR
// constraints exist to justify rebuilding the matrix.
func (g *GaussianEngine) ShouldRun(conflicts int64, xorCount int) bool {
	if g.disabled || xorCount == 0 {
		return false
	}
	return conflicts >= g.lastRun+g.frequency && xorCount >= 1
}

// BuildMatrix rebuilds the dense matrix from the given XOR constraints,
// discarding any constraint outside the configured size window, and wires
// each row into the solver's watch lists under every variable it touches
// (both polarities, since either one becoming assigned can shrink the
// row's unassigned-column count) so PropagateRow is consulted online
// during search rather than only when the matrix is rebuilt (spec.md
// §4.10, point 4).
func (g *GaussianEngine) BuildMatrix(xors []*XORClause) {
	g.rows = g.rows[:0]
	g.colVar = g.colVar[:0]
	g.varCol = make(map[Var]int)
	if g.s != nil {
		g.s.watches.ClearIndex()
	}

	for _, x := range xors {
		if len(x.Vars) < g.minXORSize || len(x.Vars) > g.maxXORSize {
			continue
		}
		if len(g.rows) >= g.maxRows {
			break
		}
		row := &gaussRow{rhs: x.RHS, source: x}
		row.words = make([]uint64, (len(x.Vars)+63)/64+1)
		rowIdx := len(g.rows)
		for _, v := range x.Vars {
			col, ok := g.varCol[v]
			if !ok {
				if len(g.colVar) >= g.maxCols {
					continue
				}
				col = len(g.colVar)
				g.colVar = append(g.colVar, v)
				g.varCol[v] = col
			}
			setRowWords(row, col)
			if g.s != nil {
				g.s.watches.Add(MkLit(v, false), Watch{Kind: WatchIndex, Row: rowIdx})
				g.s.watches.Add(MkLit(v, true), Watch{Kind: WatchIndex, Row: rowIdx})
			}
		}
		g.rows = append(g.rows, row)
	}
}

func setRowWords(row *gaussRow, col int) {
	need := col/64 + 1
	for len(row.words) < need {
		row.words = append(row.words, 0)
	}
	row.words[col/64] ^= 1 << uint(col%64)
}

func rowBit(row *gaussRow, col int) bool {
	if col/64 >= len(row.words) {
		return false
	}
	return row.words[col/64]&(1<<uint(col%64)) != 0
}

// Eliminate runs dense Gauss-Jordan reduction to row-echelon form,
// returning learnt unit literals (rows with a single remaining column)
// and reporting whether a contradiction (an empty row with RHS true) was
// found.
func (g *GaussianEngine) Eliminate() (units []Lit, conflict bool) {
	start := time.Now()
	defer func() {
		g.stats.TimeInGaussian += time.Since(start).Nanoseconds()
		g.stats.TotalRuns++
	}()

	nCols := len(g.colVar)
	pivotRow := 0
	for col := 0; col < nCols && pivotRow < len(g.rows); col++ {
		sel := -1
		for r := pivotRow; r < len(g.rows); r++ {
			if rowBit(g.rows[r], col) {
				sel = r
				break
			}
		}
		if sel < 0 {
			continue
		}
		g.rows[pivotRow], g.rows[sel] = g.rows[sel], g.rows[pivotRow]
		for r := 0; r < len(g.rows); r++ {
			if r == pivotRow {
				continue
			}
			if rowBit(g.rows[r], col) {
				xorRows(g.rows[r], g.rows[pivotRow])
			}
		}
		pivotRow++
	}

	for _, row := range g.rows {
		weight, last := 0, -1
		for c := 0; c < nCols; c++ {
			if rowBit(row, c) {
				weight++
				last = c
			}
		}
		switch weight {
		case 0:
			if row.rhs {
				conflict = true
				g.stats.ConflictsFound++
			}
		case 1:
			v := g.colVar[last]
			units = append(units, MkLit(v, !row.rhs))
			g.stats.UnitPropagations++
		}
	}
	g.stats.VariablesEliminated += int64(pivotRow)
	if g.s != nil {
		// Rows were swapped and combined: re-wire each row's index watches
		// under the variables it now touches.
		g.s.watches.ClearIndex()
		for r, row := range g.rows {
			for c := 0; c < nCols; c++ {
				if rowBit(row, c) {
					g.s.watches.Add(MkLit(g.colVar[c], false), Watch{Kind: WatchIndex, Row: r})
					g.s.watches.Add(MkLit(g.colVar[c], true), Watch{Kind: WatchIndex, Row: r})
				}
			}
		}
	}
	return units, conflict
}

func xorRows(dst, src *gaussRow) {
	for len(dst.words) < len(src.words) {
		dst.words = append(dst.words, 0)
	}
	for i, w := range src.words {
		dst.words[i] ^= w
	}
	dst.rhs = dst.rhs != src.rhs
}

// PropagateRow is consulted when a WatchIndex entry fires: it scans every
// column of the row, checks whether exactly one variable is unassigned and,
// if so, reports what that variable must be to satisfy the row's parity
// (spec.md §4.10 point 4's online watched-basic/non-basic scheme).
type gaussPropResult struct {
	conflict bool
	unit     Lit
	hasUnit  bool
}

func (g *GaussianEngine) PropagateRow(s *Solver, rowIdx int, trigger Lit) gaussPropResult {
	if rowIdx < 0 || rowIdx >= len(g.rows) {
		return gaussPropResult{}
	}
	row := g.rows[rowIdx]
	parity := row.rhs
	unassignedVar := VarUndef
	unassignedCount := 0
	for c := 0; c < len(g.colVar); c++ {
		if !rowBit(row, c) {
			continue
		}
		v := g.colVar[c]
		val := s.VarValue(v)
		if val == LUndef {
			unassignedCount++
			unassignedVar = v
			continue
		}
		if val == LTrue {
			parity = !parity
		}
	}
	if unassignedCount == 0 {
		if parity {
			return gaussPropResult{conflict: true}
		}
		return gaussPropResult{}
	}
	if unassignedCount == 1 {
		return gaussPropResult{unit: MkLit(unassignedVar, !parity), hasUnit: true}
	}
	return gaussPropResult{}
}

// ReasonLits reconstructs the antecedent literals for a Gaussian-
// propagated literal by replaying the row's other (already assigned)
// variables, implementing spec.md §4.10's "reason materialisation for
// GJ": antecedents are computed lazily from the row rather than stored
// as a physical clause.
func (g *GaussianEngine) ReasonLits(s *Solver, rowIdx int, p Lit) []Lit {
	if rowIdx < 0 || rowIdx >= len(g.rows) {
		return []Lit{p}
	}
	row := g.rows[rowIdx]
	lits := []Lit{p}
	for c := 0; c < len(g.colVar); c++ {
		if !rowBit(row, c) {
			continue
		}
		v := g.colVar[c]
		if v == p.Var() {
			continue
		}
		val := s.VarValue(v)
		if val != LUndef {
			lits = append(lits, MkLit(v, val == LTrue))
		}
	}
	return lits
}

// materializeConflict builds the falsified-clause view of a Gaussian row
// conflict by allocating a transient clause from its fully-assigned
// literals, so the ordinary conflict analyser can resolve over it exactly
// like any other reason.
func (g *GaussianEngine) materializeConflict(s *Solver, rowIdx int) ClauseRef {
	lits := g.ReasonLits(s, rowIdx, LitUndef)
	filtered := lits[1:] // drop the LitUndef placeholder
	ref, err := s.alloc.Alloc(filtered, true)
	if err != nil {
		return ClauseRefNone
	}
	return ref
}

// GetStatistics returns a snapshot of the engine's performance counters.
func (g *GaussianEngine) GetStatistics() GaussianStats { return g.stats }
