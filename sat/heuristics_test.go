package sat

import "testing"

func TestVSIDSChooseVarPrefersBumpedVariable(t *testing.T) {
	v := NewVSIDSHeuristic(3)
	v.Bump([]Lit{MkLit(1, false)})

	chosen := v.ChooseVar([]Var{0, 1, 2})
	if chosen != 1 {
		t.Fatalf("ChooseVar = %d, want 1 (the only bumped variable)", chosen)
	}
}

func TestVSIDSPolarityFallsBackWithoutCachedPhase(t *testing.T) {
	v := NewVSIDSHeuristic(1)
	if !v.Polarity(0) {
		t.Fatalf("Polarity() with no cached phase should default to true")
	}
	v.Bump([]Lit{MkLit(0, true)})
	if v.Polarity(0) != true {
		t.Fatalf("Polarity() should cache the sign of the last bumped literal")
	}
}

func TestGeometricRestartStrategyFiresAfterThreshold(t *testing.T) {
	g := NewGeometricRestartStrategy(2, 1.5)
	if g.ShouldRestart(Stats{Conflicts: 1}) {
		t.Fatalf("should not restart before the threshold")
	}
	if !g.ShouldRestart(Stats{Conflicts: 2}) {
		t.Fatalf("should restart once conflicts reach the threshold")
	}
	g.OnRestart()
	if g.next <= 2 {
		t.Fatalf("OnRestart should grow the next threshold geometrically, got %v", g.next)
	}
}

func TestActivityBasedDeletionNeverDeletesCoreTier(t *testing.T) {
	a := NewActivityBasedDeletion()
	hdr := &clauseHeader{lits: []Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, redundant: true, glue: 5, activity: 0}
	if a.ShouldDelete(hdr, 0, Stats{Conflicts: 1_000_000}) {
		t.Fatalf("core tier (0) clauses must never be deleted")
	}
}

func TestActivityBasedDeletionKeepsLowGlueClauses(t *testing.T) {
	a := NewActivityBasedDeletion()
	hdr := &clauseHeader{lits: []Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}, redundant: true, glue: 2, activity: 0}
	if a.ShouldDelete(hdr, 2, Stats{Conflicts: 1_000_000}) {
		t.Fatalf("glue <= 2 clauses must be protected regardless of tier")
	}
}
