package sat

import "testing"

func TestXORClauseNormalizeDropsEvenMultiplicityVars(t *testing.T) {
	xc := &XORClause{Vars: []Var{2, 0, 2, 1, 0}, RHS: true}
	xc.Normalize()
	if len(xc.Vars) != 1 || xc.Vars[0] != 1 {
		t.Fatalf("Normalize() = %v, want [1] (0 and 2 each appear twice and cancel)", xc.Vars)
	}
}

func TestXORFinderRecoversParityCompleteGroup(t *testing.T) {
	s := newTestSolver(3)
	// x0 + x1 + x2 = 0 (mod 2): the four clauses with an odd number of
	// negated literals among {x0,x1,x2}.
	clauses := [][]Lit{
		{MkLit(0, true), MkLit(1, false), MkLit(2, false)},
		{MkLit(0, false), MkLit(1, true), MkLit(2, false)},
		{MkLit(0, false), MkLit(1, false), MkLit(2, true)},
		{MkLit(0, true), MkLit(1, true), MkLit(2, true)},
	}
	for _, cl := range clauses {
		if err := s.AddClause(cl); err != nil {
			t.Fatalf("AddClause(%v): %v", cl, err)
		}
	}

	xf := NewXORFinder()
	found := xf.FindIn(s)
	if len(found) != 1 {
		t.Fatalf("FindIn found %d XOR constraints, want 1", len(found))
	}
	xc := found[0]
	if len(xc.Vars) != 3 {
		t.Fatalf("found XOR over %d vars, want 3", len(xc.Vars))
	}
	if xc.RHS {
		t.Fatalf("RHS = true, want false (even parity)")
	}
}
