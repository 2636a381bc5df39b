package sat

// VarReplacer rewrites the clause base to replace every occurrence of a
// literal in an equivalence class with its class representative,
// discovered by SCCFinder. A union-find over variables is kept so chains
// of replacement (v1 ~ v2 ~ v3) collapse to the representative in one
// lookup (spec.md §4.7; grounded on original_source/Solver/VarReplacer.h).
type VarReplacer struct {
	parent []Var
	negate []bool // true if this variable's canonical form is negated
}

// NewVarReplacer creates an empty replacer.
func NewVarReplacer() *VarReplacer { return &VarReplacer{} }

// Grow extends the union-find to cover nVars variables.
func (r *VarReplacer) Grow(nVars int) {
	for len(r.parent) < nVars {
		r.parent = append(r.parent, Var(len(r.parent)))
		r.negate = append(r.negate, false)
	}
}

// find returns the canonical literal equivalent to v under its current
// (possibly negated) polarity, following the union-find chain with path
// compression.
func (r *VarReplacer) find(v Var) (Var, bool) {
	if r.parent[v] == v {
		return v, r.negate[v]
	}
	root, neg := r.find(r.parent[v])
	r.parent[v] = root
	r.negate[v] = r.negate[v] != neg
	return root, r.negate[v]
}

// CanonicalOf returns the literal equivalent to lit under all replacements
// recorded so far.
func (r *VarReplacer) CanonicalOf(lit Lit) Lit {
	root, neg := r.find(lit.Var())
	return MkLit(root, lit.Sign() != neg)
}

// Union records that lit and repr (as returned by SCCFinder) represent
// the same truth value, unioning their variables. negate records whether
// repr's variable must be negated relative to lit's variable to express
// the same value.
func (r *VarReplacer) Union(lit, repr Lit) {
	rl, nl := r.find(lit.Var())
	rr, nr := r.find(repr.Var())
	if rl == rr {
		return
	}
	wantNeg := (lit.Sign() != nl) != (repr.Sign() != nr)
	r.parent[rl] = rr
	r.negate[rl] = wantNeg != nr
}

// ApplyFromSCC ingests SCCFinder's representative table (indexed by Lit)
// into the union-find, unioning every literal with its SCC representative.
func (r *VarReplacer) ApplyFromSCC(repr []Lit) {
	r.Grow(len(repr) / 2)
	for l := 0; l < len(repr); l++ {
		if repr[l] == LitUndef {
			continue
		}
		r.Union(Lit(l), repr[l])
	}
}

// PerformReplace marks replaced variables ElimEquivReplaced so the decision
// heuristic skips them, rewrites the literals of every attached clause to
// canonical literals (merging repeated literals and marking clauses that
// become tautological removed), and rebuilds the watch lists. Reasons are
// not rewritten, and clauses that become duplicates of each other are not
// detected. Returns the number of variables eliminated by replacement.
func (r *VarReplacer) PerformReplace(s *Solver) int {
	eliminated := 0
	for v := Var(0); int(v) < len(s.vars); v++ {
		root, _ := r.find(v)
		if root != v && s.vars[v].Elim == ElimNone {
			s.vars[v].Elim = ElimEquivReplaced
			s.vars[v].Decidable = false
			eliminated++
		}
	}

	rewriteRefs := func(refs []ClauseRef) {
		for _, ref := range refs {
			hdr := s.alloc.Ptr(ref)
			if !hdr.attached() {
				continue
			}
			lits := hdr.Lits()
			newLits := make([]Lit, 0, len(lits))
			tauto := false
			seen := make(map[Lit]bool, len(lits))
			for _, l := range lits {
				cl := r.CanonicalOf(l)
				if seen[cl.Neg()] {
					tauto = true
					break
				}
				if !seen[cl] {
					seen[cl] = true
					newLits = append(newLits, cl)
				}
			}
			if tauto {
				hdr.removed = true
				continue
			}
			hdr.setLits(newLits)
		}
	}
	rewriteRefs(s.clauses)
	rewriteRefs(s.learnts)

	s.watches = NewWatches(len(s.vars))
	rebuildWatches(s)
	return eliminated
}

// rebuildWatches repopulates the clause watch lists from scratch after a
// bulk rewrite (replacement or consolidation), keeping only the Gaussian
// WatchIndex entries, matching the teacher package's "rebuild rather than
// patch" approach to bulk structural changes.
func rebuildWatches(s *Solver) {
	for l, list := range s.watches.lists {
		kept := list[:0]
		for _, wt := range list {
			if wt.Kind == WatchIndex {
				kept = append(kept, wt)
			}
		}
		s.watches.lists[l] = kept
	}
	attach := func(ref ClauseRef, learnt bool) {
		hdr := s.alloc.Ptr(ref)
		if !hdr.attached() {
			return
		}
		lits := hdr.Lits()
		switch len(lits) {
		case 2:
			s.watches.Add(lits[0].Neg(), Watch{Kind: WatchBinary, Other: lits[1], Clause: ref, Learnt: learnt})
			s.watches.Add(lits[1].Neg(), Watch{Kind: WatchBinary, Other: lits[0], Clause: ref, Learnt: learnt})
		case 3:
			s.watches.Add(lits[0].Neg(), Watch{Kind: WatchTernary, Other: lits[1], Third: lits[2], Clause: ref, Learnt: learnt})
			s.watches.Add(lits[1].Neg(), Watch{Kind: WatchTernary, Other: lits[0], Third: lits[2], Clause: ref, Learnt: learnt})
			s.watches.Add(lits[2].Neg(), Watch{Kind: WatchTernary, Other: lits[0], Third: lits[1], Clause: ref, Learnt: learnt})
		default:
			if len(lits) >= 2 {
				s.watches.Add(lits[0].Neg(), Watch{Kind: WatchLong, Clause: ref, WatchIdx: 0, Other: lits[1], Learnt: learnt})
				s.watches.Add(lits[1].Neg(), Watch{Kind: WatchLong, Clause: ref, WatchIdx: 1, Other: lits[0], Learnt: learnt})
			}
		}
	}
	for _, ref := range s.clauses {
		attach(ref, false)
	}
	for _, ref := range s.learnts {
		attach(ref, true)
	}
	s.watches.SortAll()
}
