package sat

// FirstUIPAnalyzer implements First Unique Implication Point conflict
// analysis: walking the trail backwards from the conflicting clause,
// resolving out every literal assigned at the current decision level
// except the last, until exactly one remains (spec.md §4.3). Grounded on
// the teacher package's FirstUIPAnalyzer, rebuilt on its own dense
// per-variable seen slice instead of map[string]bool, and on ClauseRef/Reason
// rather than *Clause chains.
type FirstUIPAnalyzer struct {
	seen []bool

	resolutions     int64
	unitClauses     int64
	glueClauseCount int64
}

// NewFirstUIPAnalyzer creates an analyzer with no pre-sized state; Analyze
// grows its seen array on first use.
func NewFirstUIPAnalyzer() *FirstUIPAnalyzer {
	return &FirstUIPAnalyzer{}
}

func (f *FirstUIPAnalyzer) Name() string { return "FirstUIP" }

// Analyze resolves the conflicting clause confl back to a single learnt
// clause and the level to backjump to, plus its LBD (glue).
func (f *FirstUIPAnalyzer) Analyze(s *Solver, confl ClauseRef) (learnt []Lit, backjumpLevel int, lbd int) {
	curLevel := s.trail.Level()
	if curLevel == 0 {
		return nil, 0, 0
	}
	if len(f.seen) < len(s.vars) {
		f.seen = make([]bool, len(s.vars))
	}
	for i := range f.seen {
		f.seen[i] = false
	}

	learnt = append(learnt, LitUndef) // slot 0 reserved for the UIP literal
	pendingAtCur := 0
	trailIdx := s.trail.Len() - 1
	var p Lit = LitUndef

	for {
		lits := f.conflictLits(s, confl, p)
		for _, q := range lits {
			qv := q.Var()
			if f.seen[qv] || s.vars[qv].Level == 0 {
				continue
			}
			f.seen[qv] = true
			if s.vars[qv].Level == curLevel {
				pendingAtCur++
			} else {
				learnt = append(learnt, q)
			}
		}

		for trailIdx >= 0 && !f.seen[s.trail.At(trailIdx).Var()] {
			trailIdx--
		}
		p = s.trail.At(trailIdx)
		pv := p.Var()
		f.seen[pv] = false
		pendingAtCur--
		trailIdx--

		if pendingAtCur == 0 {
			break
		}
		confl = f.reasonClauseOf(s, pv)
		if confl == ClauseRefNone && s.vars[pv].Reason.Kind != ReasonBinary && s.vars[pv].Reason.Kind != ReasonTernary && s.vars[pv].Reason.Kind != ReasonGauss {
			break
		}
		f.resolutions++
	}
	learnt[0] = p.Neg()

	lbd = f.computeLBD(s, learnt)
	backjumpLevel = f.computeBackjumpLevel(s, learnt, curLevel)

	if len(learnt) == 1 {
		f.unitClauses++
	}
	if lbd <= 2 {
		f.glueClauseCount++
	}
	return learnt, backjumpLevel, lbd
}

// conflictLits returns the literals to resolve against for the current
// step: the literals of the conflicting clause (excluding p, the literal
// just resolved upon, when p is not LitUndef since p's reason clause
// contains p itself watched at position 0).
func (f *FirstUIPAnalyzer) conflictLits(s *Solver, confl ClauseRef, p Lit) []Lit {
	if p == LitUndef {
		return s.alloc.Ptr(confl).Lits()
	}
	reason := s.vars[p.Var()].Reason
	switch reason.Kind {
	case ReasonBinary:
		return []Lit{reason.Other}
	case ReasonTernary:
		return []Lit{reason.Other, reason.Third}
	case ReasonLong:
		return dropLit(s.alloc.Ptr(reason.Clause).Lits(), p)
	case ReasonGauss:
		return dropLit(s.gauss.ReasonLits(s, reason.GaussRow, p), p)
	default:
		return nil
	}
}

// dropLit returns lits with p removed (p's reason clause always contains
// p itself, typically at index 0; the minisat "j = (p==lit_Undef)?0:1"
// skip). lits is not mutated in place since it may alias live clause
// storage.
func dropLit(lits []Lit, p Lit) []Lit {
	out := make([]Lit, 0, len(lits)-1)
	for _, l := range lits {
		if l == p {
			continue
		}
		out = append(out, l)
	}
	return out
}

// reasonClauseOf returns the ClauseRef backing v's reason when it is a
// long-clause reason, or ClauseRefNone for binary/ternary/gauss/decision
// reasons (those are expanded directly by conflictLits).
func (f *FirstUIPAnalyzer) reasonClauseOf(s *Solver, v Var) ClauseRef {
	r := s.vars[v].Reason
	if r.Kind == ReasonLong {
		return r.Clause
	}
	return ClauseRefNone
}

// computeLBD is the number of distinct decision levels represented among
// learnt's literals (spec.md §3's glossary entry for LBD/glue).
func (f *FirstUIPAnalyzer) computeLBD(s *Solver, learnt []Lit) int {
	seenLevel := make(map[int]bool, len(learnt))
	for _, l := range learnt {
		seenLevel[s.vars[l.Var()].Level] = true
	}
	return len(seenLevel)
}

// computeBackjumpLevel returns the second-highest decision level among
// learnt's literals (or 0 for a unit clause), the level the search
// resumes at after backjumping (spec.md §4.3).
func (f *FirstUIPAnalyzer) computeBackjumpLevel(s *Solver, learnt []Lit, curLevel int) int {
	if len(learnt) == 1 {
		return 0
	}
	maxIdx, maxLevel := 1, 0
	for i := 1; i < len(learnt); i++ {
		lvl := s.vars[learnt[i].Var()].Level
		if lvl > maxLevel {
			maxLevel = lvl
			maxIdx = i
		}
	}
	learnt[1], learnt[maxIdx] = learnt[maxIdx], learnt[1]
	return maxLevel
}

func (f *FirstUIPAnalyzer) Reset() {
	for i := range f.seen {
		f.seen[i] = false
	}
	f.resolutions = 0
	f.unitClauses = 0
	f.glueClauseCount = 0
}
