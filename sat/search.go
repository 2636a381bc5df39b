package sat

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// AddClause adds an irredundant (original) clause over the given
// literals. A unit clause is queued in s.units and asserted at level 0
// when Solve starts; a unit whose negation is already queued returns
// ErrUnsat. A clause already satisfied by the current assignment is
// discarded, its false literals are dropped, and a clause left with no
// literal marks the solver permanently unsatisfiable.
func (s *Solver) AddClause(lits []Lit) error {
	uniq := make([]Lit, 0, len(lits))
	seen := make(map[Lit]bool, len(lits))
	for _, l := range lits {
		if seen[l.Neg()] {
			return nil // tautology, trivially satisfied
		}
		if s.Value(l) == LTrue {
			return nil
		}
		if s.Value(l) == LFalse {
			continue
		}
		if !seen[l] {
			seen[l] = true
			uniq = append(uniq, l)
		}
	}
	if len(uniq) == 0 {
		s.units = append(s.units, LitUndef) // marker: empty clause, UNSAT
		return ErrUnsat
	}
	if len(uniq) == 1 {
		for _, u := range s.units {
			if u == uniq[0].Neg() {
				s.units = append(s.units, LitUndef) // marker: contradicting units, UNSAT
				return ErrUnsat
			}
		}
		s.units = append(s.units, uniq[0])
		return nil
	}

	ref, err := s.alloc.Alloc(uniq, false)
	if err != nil {
		return err
	}
	s.clauses = append(s.clauses, ref)
	attachNewClause(s, ref, uniq, false)
	return nil
}

// AddXorClause registers an XOR constraint directly, bypassing the
// XORFinder (spec.md §4.10's "XOR clauses may also be asserted directly
// by a collaborator, e.g. the DIMACS 'x' extension"). Per spec.md §3 and
// §6, a length-0 XOR is a constant, a length-1 XOR is a unit, and a
// length-2 XOR is an equivalence expanded into two ordinary binary
// clauses; only length >= 3 is kept as a native constraint for the
// Gaussian engine.
func (s *Solver) AddXorClause(vars []Var, rhs bool) error {
	xc := &XORClause{Vars: append([]Var(nil), vars...), RHS: rhs}
	xc.Normalize()

	switch len(xc.Vars) {
	case 0:
		if xc.RHS {
			s.units = append(s.units, LitUndef) // empty XOR requiring odd parity: UNSAT
			return ErrUnsat
		}
		return nil // empty XOR requiring even parity: trivially satisfied
	case 1:
		return s.AddClause([]Lit{MkLit(xc.Vars[0], !xc.RHS)})
	case 2:
		a, b := xc.Vars[0], xc.Vars[1]
		if xc.RHS {
			// a XOR b: exactly one of a, b holds.
			if err := s.AddClause([]Lit{MkLit(a, false), MkLit(b, false)}); err != nil {
				return err
			}
			return s.AddClause([]Lit{MkLit(a, true), MkLit(b, true)})
		}
		// a == b.
		if err := s.AddClause([]Lit{MkLit(a, true), MkLit(b, false)}); err != nil {
			return err
		}
		return s.AddClause([]Lit{MkLit(a, false), MkLit(b, true)})
	default:
		s.xors = append(s.xors, xc)
		return nil
	}
}

func attachNewClause(s *Solver, ref ClauseRef, lits []Lit, learnt bool) {
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

// Solve runs the CDCL search loop under assumptions until a satisfying
// assignment is found, unsatisfiability is proven, or ctx is cancelled /
// Interrupt is called. It implements spec.md §4.4's
// Init -> Simplify -> Search state machine: propagate pending units,
// periodically inprocess, then decide/propagate/analyse/backjump/restart/
// clean until the formula is resolved.
func (s *Solver) Solve(ctx context.Context, assumptions []Lit) (Result, error) {
	s.clearInterrupt()
	sc := solveCtx{ctx: ctx}
	log := s.log
	if log == nil {
		log = logrus.WithField("component", "cdclsat")
	}

	if err := s.initUnits(); err != nil {
		return ResultUnsat, ErrUnsat
	}
	if s.Propagate() != ClauseRefNone {
		return ResultUnsat, ErrUnsat
	}

	// Native XOR constraints (asserted directly or via AddXorClause) must
	// be enforced from the very first decision, not only once enough
	// conflicts have accrued to trigger inprocessing — a pure-XOR instance
	// may never hit a single conflict (spec.md §8.3).
	if len(s.xors) > 0 {
		if err := s.runGaussian(); err != nil {
			return ResultUnsat, ErrUnsat
		}
		if s.Propagate() != ClauseRefNone {
			return ResultUnsat, ErrUnsat
		}
	}

	inproc := NewInprocessor(s.cfg.Inprocess)
	nextInprocess := s.cfg.Inprocess.InprocessGap

	assumptionIdx := 0
	start := time.Now()

	for {
		if s.checkInterrupted(sc) {
			return ResultUnknown, ErrInterrupted
		}

		confl := s.Propagate()
		if confl != ClauseRefNone {
			if s.trail.Level() == 0 {
				return ResultUnsat, ErrUnsat
			}
			learnt, backjump, lbd := s.analyzer.Analyze(s, confl)
			s.stats.Conflicts++
			s.stats.LBDDistribution = bumpLBD(s.stats.LBDDistribution, lbd)
			s.heuristic.Bump(learnt)
			s.heuristic.Decay()
			s.restart.OnConflict(lbd)

			s.cancelUntil(backjump)
			if assumptionIdx > backjump {
				assumptionIdx = backjump // re-check assumptions undone by the backjump
			}
			ref, err := s.alloc.Alloc(learnt, true)
			if err != nil {
				return ResultUnknown, err
			}
			s.alloc.Ptr(ref).glue = lbd
			s.learnts = append(s.learnts, ref)
			s.db.Add(ref, s.stats.Conflicts)
			attachNewClause(s, ref, learnt, true)
			if s.proofSink != nil {
				_ = s.proofSink.AddClause(learnt)
			}
			if len(learnt) == 1 {
				s.uncheckedEnqueue(learnt[0], Reason{Kind: ReasonNone})
			} else {
				s.uncheckedEnqueue(learnt[0], Reason{Kind: ReasonLong, Clause: ref})
			}
			s.stats.LearnedClauses++
			continue
		}

		if s.trail.Level() == 0 && s.stats.Conflicts >= nextInprocess {
			res, err := inproc.Run(s)
			_ = res
			if err != nil {
				return ResultUnsat, ErrUnsat
			}
			nextInprocess = s.stats.Conflicts + s.cfg.Inprocess.InprocessGap
			if s.Propagate() != ClauseRefNone {
				return ResultUnsat, ErrUnsat
			}
			continue
		}

		if s.restart.ShouldRestart(s.stats) {
			s.cancelUntil(0)
			assumptionIdx = 0
			s.restart.OnRestart()
			s.stats.Restarts++
			if deleted := s.db.Clean(s.stats); len(deleted) > 0 {
				s.stats.DeletedClauses += int64(len(deleted))
			}
			s.db.Promote(s.stats.Conflicts)
			continue
		}

		// Pick the next assumption, if any remain undecided.
		if assumptionIdx < len(assumptions) {
			a := assumptions[assumptionIdx]
			assumptionIdx++
			if s.Value(a) == LTrue {
				continue
			}
			if s.Value(a) == LFalse {
				return ResultUnsat, ErrUnsat
			}
			s.enqueueDecision(a)
			continue
		}

		next := s.pickDecisionVar()
		if next == VarUndef {
			s.stats.TimeElapsedNs = int64(time.Since(start))
			return ResultSat, nil
		}
		polarity := s.heuristic.Polarity(next)
		if ag, ok := s.restart.(*AgilityRestartStrategy); ok {
			ag.NotePolarityFlip(polarity != s.vars[next].Polarity)
		}
		s.enqueueDecision(MkLit(next, !polarity))
	}
}

// runGaussian rebuilds the Gaussian matrix from s.xors and applies any
// units the offline elimination pass derives, independent of the
// conflict-gated inprocessing schedule (spec.md §4.10, point 4).
func (s *Solver) runGaussian() error {
	s.gauss.BuildMatrix(s.xors)
	units, conflict := s.gauss.Eliminate()
	if conflict {
		return ErrUnsat
	}
	for _, u := range units {
		if s.Value(u) == LFalse {
			return ErrUnsat
		}
		if s.Value(u) == LUndef {
			s.uncheckedEnqueue(u, Reason{Kind: ReasonNone})
		}
	}
	s.stats.GaussianRuns++
	return nil
}

func (s *Solver) initUnits() error {
	for _, u := range s.units {
		if u == LitUndef {
			return ErrUnsat
		}
		if s.Value(u) == LFalse {
			return ErrUnsat
		}
		if s.Value(u) == LUndef {
			s.uncheckedEnqueue(u, Reason{Kind: ReasonNone})
		}
	}
	return nil
}

func (s *Solver) pickDecisionVar() Var {
	var unassigned []Var
	for v := Var(0); int(v) < len(s.vars); v++ {
		if s.vars[v].Decidable && s.VarValue(v) == LUndef {
			unassigned = append(unassigned, v)
		}
	}
	return s.heuristic.ChooseVar(unassigned)
}

func bumpLBD(dist map[int]int64, lbd int) map[int]int64 {
	if dist == nil {
		dist = make(map[int]int64)
	}
	dist[lbd]++
	return dist
}
