package sat

import "testing"

func TestSCCFinderDetectsEquivalentLiterals(t *testing.T) {
	s := newTestSolver(2)
	// x0 <-> x1: (-x0 v x1) and (x0 v -x1).
	if err := s.AddClause([]Lit{MkLit(0, true), MkLit(1, false)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if err := s.AddClause([]Lit{MkLit(0, false), MkLit(1, true)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}

	f := NewSCCFinder()
	repr := f.Run(s)

	l0 := MkLit(0, false)
	l1 := MkLit(1, false)
	if repr[l0] == LitUndef {
		t.Fatalf("expected x0 to be part of a multi-literal SCC")
	}
	if repr[l0] != repr[l1] {
		t.Fatalf("x0 and x1 should share a representative literal, got %v and %v", repr[l0], repr[l1])
	}
}

func TestSCCFinderLeavesIsolatedVarsUndef(t *testing.T) {
	s := newTestSolver(2)
	if err := s.AddClause([]Lit{MkLit(0, false), MkLit(1, false)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}

	f := NewSCCFinder()
	repr := f.Run(s)

	if repr[MkLit(0, false)] != LitUndef {
		t.Fatalf("a 2-clause alone should not create an equivalence class")
	}
}
