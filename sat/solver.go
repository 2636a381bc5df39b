package sat

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrUnsat is returned by Solve when the formula is proven unsatisfiable.
var ErrUnsat = errors.New("sat: formula is unsatisfiable")

// ErrInterrupted is returned by Solve when the caller's context was
// cancelled, or Interrupt was called, before a result was reached.
var ErrInterrupted = errors.New("sat: solve interrupted")

// Result is the outcome of a Solve call.
type Result int

const (
	ResultUnknown Result = iota
	ResultSat
	ResultUnsat
)

// Solver is the central CDCL engine: variable store, clause allocator,
// watch lists, trail, heuristics and inprocessing all hang off of one
// instance, mirroring the teacher package's CDCLSolver aggregate-of-
// concrete-collaborators layout (spec.md §4.4, §9).
type Solver struct {
	log *logrus.Entry

	cfg Config

	alloc   *ClauseAllocator
	watches *Watches
	trail   *Trail
	vars    []VarData

	clauses  []ClauseRef // irredundant, in allocation order
	learnts  []ClauseRef // redundant, in allocation order
	units    []Lit

	heuristic Heuristic
	restart   RestartStrategy
	analyzer  ConflictAnalyzer
	deletion  ClauseDeletionPolicy

	db *ClauseDatabase

	xors  []*XORClause
	gauss *GaussianEngine
	xorEnabled bool

	implCache *ImplicationCache
	extender  *Extender
	board     *BulletinBoard

	stats Stats

	interrupted int32 // atomic flag, polled at safe points (spec.md §7)

	pool *SATPool

	conflictBudget int64 // 0 = unbounded
	propBudget     int64

	proofSink ProofSink
}

// ProofSink receives a DRAT-style trace of learnt-clause additions and
// deletions. internal/proof.Writer satisfies this interface; the solver
// never constructs one itself (spec.md's Non-goals: "not an incremental
// proof checker" — emitting the trace is a collaborator's job).
type ProofSink interface {
	AddClause(lits []Lit) error
	DeleteClause(lits []Lit) error
}

// SetProofSink attaches sink so that, from here on, every clause the
// search loop learns and every learnt clause a cleaning pass deletes is
// reported to it. Clauses that inprocessing adds, shortens or removes are
// not reported.
func (s *Solver) SetProofSink(sink ProofSink) {
	s.proofSink = sink
	s.db.proofSink = sink
}

// NewSolver creates an empty solver using cfg (zero Config is valid and
// uses DefaultConfig's values via Config.withDefaults).
func NewSolver(cfg Config) *Solver {
	cfg = cfg.withDefaults()
	s := &Solver{
		log:       logrus.WithField("component", "cdclsat"),
		cfg:       cfg,
		alloc:     NewClauseAllocator(),
		watches:   NewWatches(0),
		trail:     NewTrail(),
		heuristic: NewVSIDSHeuristic(0),
		analyzer:  NewFirstUIPAnalyzer(),
		deletion:  NewActivityBasedDeletion(),
		xorEnabled: cfg.Inprocess.EnableXORFinding,
		implCache: NewImplicationCache(),
		extender:  NewExtender(),
		pool:      GetPool(),
	}
	s.restart = newRestartStrategy(cfg.RestartPolicy)
	s.db = NewClauseDatabase(s.alloc, s.deletion)
	s.gauss = NewGaussianEngine(s)
	return s
}

func newRestartStrategy(name string) RestartStrategy {
	switch name {
	case "geometric":
		return NewGeometricRestartStrategy(100, 1.5)
	case "agility":
		return NewAgilityRestartStrategy()
	default:
		return NewGlueRestartStrategy()
	}
}

// NVars returns the number of variables created so far.
func (s *Solver) NVars() int { return len(s.vars) }

// NewVar allocates a fresh Boolean variable and returns it.
func (s *Solver) NewVar() Var {
	v := Var(len(s.vars))
	s.vars = append(s.vars, VarData{Assign: LUndef, Decidable: true, Polarity: true})
	s.watches.Grow(len(s.vars))
	s.implCache.Grow(len(s.vars))
	if vh, ok := s.heuristic.(*VSIDSHeuristic); ok {
		vh.Grow(len(s.vars))
	}
	return v
}

// Value reports the current truth value of lit, accounting for sign.
func (s *Solver) Value(lit Lit) Lbool {
	return s.vars[lit.Var()].Assign.Xor(lit.Sign())
}

// VarValue reports the current truth value of v.
func (s *Solver) VarValue(v Var) Lbool {
	return s.vars[v].Assign
}

// Interrupt requests that the search loop stop at its next safe point,
// returning ErrInterrupted from Solve. Safe for concurrent use, the
// mechanism a multi-instance portfolio relies on (spec.md §8).
func (s *Solver) Interrupt() {
	atomic.StoreInt32(&s.interrupted, 1)
}

func (s *Solver) isInterrupted() bool {
	return atomic.LoadInt32(&s.interrupted) != 0
}

func (s *Solver) clearInterrupt() {
	atomic.StoreInt32(&s.interrupted, 0)
}

// GetModelValue returns the model's truth value for v after a SAT result,
// replaying eliminated/blocked-clause decisions through the Extender.
func (s *Solver) GetModelValue(v Var) bool {
	if s.vars[v].Elim != ElimNone {
		return s.extender.ValueOf(v, s)
	}
	return s.vars[v].Assign == LTrue
}

// Stats returns a snapshot of solver performance counters.
func (s *Solver) Stats() Stats { return s.stats }

// solveCtx is threaded through the search/propagate/inprocess loop so a
// caller-supplied context.Context cancellation is observed at the same
// safe points as Interrupt (spec.md §7).
type solveCtx struct {
	ctx context.Context
}

func (s *Solver) checkInterrupted(sc solveCtx) bool {
	if s.isInterrupted() {
		return true
	}
	if sc.ctx != nil {
		select {
		case <-sc.ctx.Done():
			return true
		default:
		}
	}
	return false
}
