package sat

import "fmt"

// Stats tracks solver performance metrics, mirroring the teacher package's
// SolverStatistics field for field but keyed to the integer-literal engine.
// It is exported directly to the Prometheus collectors in metrics.go and to
// internal/statsdb.
type Stats struct {
	Decisions      int64
	Propagations   int64
	Conflicts      int64
	Restarts       int64
	LearnedClauses int64
	DeletedClauses int64
	TimeElapsedNs  int64

	GlueClauses     int64
	AvgLBD          float64
	LBDDistribution map[int]int64

	InprocessRuns          int64
	ClausesReduced         int64
	VariablesEliminated    int64
	InprocessingTimeNs     int64
	FormulaSimplifications int64

	XORPropagations int64
	XORConflicts    int64
	GaussianRuns    int64
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"Decisions: %d, Propagations: %d, Conflicts: %d, Restarts: %d, Learned: %d, Glue: %d, AvgLBD: %.2f, Inprocess: %d runs",
		s.Decisions, s.Propagations, s.Conflicts, s.Restarts, s.LearnedClauses, s.GlueClauses, s.AvgLBD, s.InprocessRuns,
	)
}

// InprocessResult summarizes one inprocessing round (spec.md §4.8-§4.9).
type InprocessResult struct {
	ClausesRemoved       int
	ClausesStrengthened  int
	VariablesEliminated  int
	UnitsLearned         int
	FormulaReduced       bool
	SubsumptionsFound    int
	VivificationsApplied int
	FailedLiteralsFound  int
	EquivalencesFound    int
}

// InprocessConfig configures which inprocessing techniques run and their
// resource budgets. Grounded on the teacher's InprocessConfig (types.go)
// and cmsat/simplifier.h / solverconf.cpp in original_source for the knob
// set and defaults.
type InprocessConfig struct {
	EnableProbing      bool
	EnableSCC          bool
	EnableSubsumption  bool
	EnableVarElim      bool
	EnableVivification bool
	EnableXORFinding   bool
	EnableGaussian     bool

	VivificationMaxSize int
	VarElimMaxResolvent int
	ProbingMaxCandidates int

	// InprocessGap is how many conflicts elapse between inprocessing
	// rounds.
	InprocessGap int64

	// BogoPropBudget sizes the failed-literal prober's
	// golang.org/x/time/rate limiter (burst and per-second refill, one
	// token per probed candidate); no other inprocessing step reads it.
	BogoPropBudget int
}

// DefaultInprocessConfig matches the teacher's DefaultInprocessConfig
// defaults, extended with the SCC/XOR/Gaussian toggles SPEC_FULL.md adds.
func DefaultInprocessConfig() InprocessConfig {
	return InprocessConfig{
		EnableProbing:        false,
		EnableSCC:            true,
		EnableSubsumption:    true,
		EnableVarElim:        true,
		EnableVivification:   true,
		EnableXORFinding:     true,
		EnableGaussian:       true,
		VivificationMaxSize:  20,
		VarElimMaxResolvent:  16,
		ProbingMaxCandidates: 100,
		InprocessGap:         4000,
		BogoPropBudget:       2_000_000,
	}
}
