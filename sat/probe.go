package sat

import (
	"golang.org/x/time/rate"
)

// FailedLiteralProber tries each candidate literal as a trial decision and
// propagates; if propagation conflicts, the literal's negation is a
// forced unit. It also adds hyper-binary shortcuts: when a trial decision
// l forces q through a long clause, (-l, q) is recorded directly as a new
// binary clause rather than relying on the longer implication chain
// (spec.md §4.9; grounded on
// original_source/Solver/FailedLitSearcher.cpp).
type FailedLiteralProber struct {
	limiter *rate.Limiter

	failedFound int64
	hyperBins   int64
}

// NewFailedLiteralProber creates a prober metered with
// golang.org/x/time/rate: each probed candidate takes one token from a
// bucket of bogoProps tokens that refills at bogoProps tokens per second
// of wall-clock time and is shared across Run calls.
func NewFailedLiteralProber(bogoProps int) *FailedLiteralProber {
	return &FailedLiteralProber{
		limiter: rate.NewLimiter(rate.Limit(bogoProps), bogoProps),
	}
}

// ProbeResult reports what one probing round discovered.
type ProbeResult struct {
	UnitsLearned   []Lit
	HyperBinsAdded int
	Conflict       bool
}

// Run probes each candidate variable's positive and negative literal.
func (p *FailedLiteralProber) Run(s *Solver, candidates []Var) ProbeResult {
	var res ProbeResult
	base := s.trail.Level()

	for _, v := range candidates {
		if !p.limiter.Allow() {
			break
		}
		if s.VarValue(v) != LUndef {
			continue
		}
		for _, sign := range [2]bool{false, true} {
			lit := MkLit(v, sign)
			if s.Value(lit) != LUndef {
				continue
			}
			before := s.trail.Len()
			s.enqueueDecision(lit)
			confl := s.Propagate()
			if confl != ClauseRefNone {
				s.cancelUntil(base)
				forced := lit.Neg()
				if s.Value(forced) == LUndef {
					s.uncheckedEnqueue(forced, Reason{Kind: ReasonNone})
					res.UnitsLearned = append(res.UnitsLearned, forced)
					p.failedFound++
				}
				if c2 := s.Propagate(); c2 != ClauseRefNone {
					res.Conflict = true
					return res
				}
				continue
			}
			p.recordHyperBinaries(s, lit, before, &res)
			s.cancelUntil(base)
		}
	}
	return res
}

// recordHyperBinaries scans the literals forced by the trial decision and,
// for every forced literal whose reason is a long clause, adds a direct
// binary clause (-decision, forced) — shortcutting the implication graph
// so later propagation is cheaper (spec.md §4.9's hyper-binary
// resolution).
func (p *FailedLiteralProber) recordHyperBinaries(s *Solver, decision Lit, fromIdx int, res *ProbeResult) {
	for i := fromIdx + 1; i < s.trail.Len(); i++ {
		forced := s.trail.At(i)
		r := s.vars[forced.Var()].Reason
		if r.Kind != ReasonLong {
			continue
		}
		ref, err := s.alloc.Alloc([]Lit{decision.Neg(), forced}, false)
		if err != nil {
			continue
		}
		s.clauses = append(s.clauses, ref)
		s.watches.Add(decision, Watch{Kind: WatchBinary, Other: forced, Clause: ref})
		s.watches.Add(forced.Neg(), Watch{Kind: WatchBinary, Other: decision.Neg(), Clause: ref})
		res.HyperBinsAdded++
		p.hyperBins++
	}
}
