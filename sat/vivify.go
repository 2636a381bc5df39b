package sat

// ClauseVivifier shortens clauses by asymmetric tautology elimination:
// for a clause C, it assumes the negation of each literal in turn and
// propagates; if propagation conflicts before every literal has been
// assumed, the unassumed remainder is redundant and C can be shortened to
// the literals tried so far. It also consults the ImplicationCache to
// strengthen clauses without repropagating when a cached implication
// already proves a literal redundant (spec.md §4.12; grounded on
// original_source/Solver/ClauseVivifier.cpp).
type ClauseVivifier struct {
	maxSize int

	shortened int64
	checked   int64
}

// NewClauseVivifier creates a vivifier that only attempts clauses with at
// most maxSize literals (spec.md's InprocessConfig.VivificationMaxSize).
func NewClauseVivifier(maxSize int) *ClauseVivifier {
	return &ClauseVivifier{maxSize: maxSize}
}

// VivifyClauses attempts to shorten every attached clause in refs,
// returning the number successfully shortened.
func (v *ClauseVivifier) VivifyClauses(s *Solver, refs []ClauseRef, cache *ImplicationCache) int {
	count := 0
	base := s.trail.Level()
	for _, ref := range refs {
		hdr := s.alloc.Ptr(ref)
		if !hdr.attached() || hdr.Size() > v.maxSize || hdr.Size() <= 2 {
			continue
		}
		v.checked++
		if v.tryShorten(s, hdr, cache, base) {
			count++
			v.shortened++
		}
	}
	return count
}

func (v *ClauseVivifier) tryShorten(s *Solver, hdr *clauseHeader, cache *ImplicationCache, base int) bool {
	lits := hdr.Lits()

	// Cache-based strengthening: if some literal's negation is cached as
	// implying the negation of another literal in the clause, that other
	// literal implies the first one, so it is redundant and can be dropped
	// without repropagating.
	for i, li := range lits {
		for j, lj := range lits {
			if i == j {
				continue
			}
			if cache.Implies(li.Neg(), lj.Neg()) {
				newLits := append(append([]Lit(nil), lits[:j]...), lits[j+1:]...)
				hdr.setLits(newLits)
				return true
			}
		}
	}

	kept := make([]Lit, 0, len(lits))
	conflicted := false
	for _, l := range lits {
		if s.Value(l.Neg()) == LTrue {
			continue // already falsified by a prior trial assumption
		}
		if s.Value(l.Neg()) == LFalse {
			// l is already true: clause is satisfied regardless, nothing
			// to shorten via this path.
			s.cancelUntil(base)
			return false
		}
		s.enqueueDecision(l.Neg())
		kept = append(kept, l)
		if s.Propagate() != ClauseRefNone {
			conflicted = true
			break
		}
	}
	s.cancelUntil(base)

	if conflicted && len(kept) < len(lits) {
		hdr.setLits(kept)
		return true
	}
	return false
}
