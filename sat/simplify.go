package sat

// OccurSimplifier runs occurrence-list-based clause-database simplification:
// subsumption, bounded variable elimination (bounded by a resolvent-growth
// cap; there is no time or work budget), and blocked-clause elimination,
// which the Inprocessor does not run (spec.md §4.6, §4.8; grounded on
// original_source/cmsat/simplifier.h and Solver/XorSubsumer.cpp).
type OccurSimplifier struct {
	occur map[Lit][]ClauseRef

	maxResolvent int

	subsumptions int64
	eliminated   int64
	blocked      int64
}

// NewOccurSimplifier creates a simplifier with the given resolvent-growth
// cap (spec.md §4.6's "elimination proceeds only while the resolvent set
// does not exceed the occurrence count it replaces by more than a cap").
func NewOccurSimplifier(maxResolvent int) *OccurSimplifier {
	return &OccurSimplifier{maxResolvent: maxResolvent}
}

func (o *OccurSimplifier) buildOccur(s *Solver) {
	o.occur = make(map[Lit][]ClauseRef)
	for _, ref := range s.clauses {
		hdr := s.alloc.Ptr(ref)
		if !hdr.attached() {
			continue
		}
		for _, l := range hdr.Lits() {
			o.occur[l] = append(o.occur[l], ref)
		}
	}
}

// SubsumeAndStrengthen performs one subsumption pass over the irredundant
// clauses: when one clause's literal set is a strict subset of another's,
// the superset clause is removed. It does not strengthen clauses by
// self-subsuming resolution; no literal is ever dropped from a clause.
func (o *OccurSimplifier) SubsumeAndStrengthen(s *Solver) int {
	o.buildOccur(s)
	count := 0
	for _, ref := range s.clauses {
		hdr := s.alloc.Ptr(ref)
		if !hdr.attached() {
			continue
		}
		lits := hdr.Lits()
		if len(lits) == 0 {
			continue
		}
		pivot := lits[0]
		for _, other := range o.occur[pivot] {
			if other == ref {
				continue
			}
			oh := s.alloc.Ptr(other)
			if !oh.attached() {
				continue
			}
			if subset(lits, oh.Lits()) {
				oh.removed = true
				count++
				o.subsumptions++
			}
		}
	}
	return count
}

func subset(small, big []Lit) bool {
	if len(small) >= len(big) {
		return false
	}
	set := make(map[Lit]bool, len(big))
	for _, l := range big {
		set[l] = true
	}
	for _, l := range small {
		if !set[l] {
			return false
		}
	}
	return true
}

// EliminateVariables runs bounded variable elimination over candidates:
// for each variable v, it resolves every clause containing v with every
// clause containing -v, dropping tautological resolvents. v is skipped
// when |pos|·|neg| exceeds maxResolvent+|pos|+|neg|, and abandoned once
// more than maxResolvent+1 non-tautological resolvents would be kept;
// otherwise v is eliminated and the resolvents replace the originals.
// Each elimination records an Extender step so the final model can be
// reconstructed (spec.md §4.6).
func (o *OccurSimplifier) EliminateVariables(s *Solver, candidates []Var) int {
	o.buildOccur(s)
	eliminated := 0
	for _, v := range candidates {
		if s.vars[v].Elim != ElimNone || s.VarValue(v) != LUndef {
			continue
		}
		pos := o.occur[MkLit(v, false)]
		neg := o.occur[MkLit(v, true)]
		if len(pos)*len(neg) > o.maxResolvent+len(pos)+len(neg) {
			continue
		}

		var resolvents [][]Lit
		ok := true
	resolveLoop:
		for _, pr := range pos {
			ph := s.alloc.Ptr(pr)
			if !ph.attached() {
				continue
			}
			for _, nr := range neg {
				nh := s.alloc.Ptr(nr)
				if !nh.attached() {
					continue
				}
				res, tauto := resolve(ph.Lits(), nh.Lits(), v)
				if tauto {
					continue
				}
				if len(resolvents) > o.maxResolvent {
					ok = false
					break resolveLoop
				}
				resolvents = append(resolvents, res)
			}
		}
		if !ok {
			continue
		}

		var origClauses [][]Lit
		for _, pr := range pos {
			origClauses = append(origClauses, append([]Lit(nil), s.alloc.Ptr(pr).Lits()...))
			s.alloc.Ptr(pr).removed = true
		}
		for _, nr := range neg {
			origClauses = append(origClauses, append([]Lit(nil), s.alloc.Ptr(nr).Lits()...))
			s.alloc.Ptr(nr).removed = true
		}
		s.extender.RecordElimination(v, origClauses)

		for _, r := range resolvents {
			if len(r) == 0 {
				continue
			}
			ref, err := s.alloc.Alloc(r, false)
			if err != nil {
				continue
			}
			s.clauses = append(s.clauses, ref)
		}
		s.vars[v].Elim = ElimByResolution
		s.vars[v].Decidable = false
		eliminated++
		o.eliminated++
	}
	return eliminated
}

// resolve computes the resolvent of a and b on variable v, reporting
// tauto=true if the resolvent is a tautology (some variable appears with
// both signs), in which case it should be discarded.
func resolve(a, b []Lit, v Var) (res []Lit, tauto bool) {
	seen := make(map[Lit]bool, len(a)+len(b))
	add := func(l Lit) bool {
		if l.Var() == v {
			return true
		}
		if seen[l.Neg()] {
			return false
		}
		if !seen[l] {
			seen[l] = true
			res = append(res, l)
		}
		return true
	}
	for _, l := range a {
		if !add(l) {
			return nil, true
		}
	}
	for _, l := range b {
		if !add(l) {
			return nil, true
		}
	}
	return res, false
}

// BlockedClauseElim removes clauses blocked on one of their own literals:
// a clause C is blocked on literal l in C if every clause containing -l
// resolves with C to a tautology. Blocked clauses can be removed without
// changing satisfiability, but (unlike subsumed clauses) removing one
// requires an Extender step to restore its satisfaction in the final
// model (spec.md §4.6's "blocked-clause elimination").
func (o *OccurSimplifier) BlockedClauseElim(s *Solver, candidates []Var) int {
	o.buildOccur(s)
	count := 0
	for _, ref := range s.clauses {
		hdr := s.alloc.Ptr(ref)
		if !hdr.attached() {
			continue
		}
		lits := hdr.Lits()
		for _, l := range lits {
			if o.isBlockedOn(s, lits, l) {
				s.extender.RecordElimination(l.Var(), [][]Lit{append([]Lit(nil), lits...)})
				hdr.removed = true
				count++
				o.blocked++
				break
			}
		}
	}
	return count
}

func (o *OccurSimplifier) isBlockedOn(s *Solver, lits []Lit, l Lit) bool {
	for _, other := range o.occur[l.Neg()] {
		oh := s.alloc.Ptr(other)
		if !oh.attached() {
			continue
		}
		if _, tauto := resolve(lits, oh.Lits(), l.Var()); !tauto {
			return false
		}
	}
	return true
}
