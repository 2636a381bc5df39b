package sat

import "github.com/sirupsen/logrus"

// Inprocessor orchestrates one round of simplification between search
// bursts: variable replacement from SCC-discovered equivalences, failed-
// literal probing, subsumption, bounded variable elimination, vivification
// and XOR/Gaussian re-discovery, in that order (spec.md §4.8's
// "Inprocessing pipeline"). Run does not call
// OccurSimplifier.BlockedClauseElim.
// Grounded on the teacher package's orchestration in inprocessor.go,
// rebuilt around the individual technique types in scc.go, replacer.go,
// probe.go, simplify.go, vivify.go and xor.go.
type Inprocessor struct {
	log *logrus.Entry

	scc       *SCCFinder
	replacer  *VarReplacer
	prober    *FailedLiteralProber
	simplify  *OccurSimplifier
	vivifier  *ClauseVivifier
	xorFinder *XORFinder

	cfg InprocessConfig

	runs int64
}

// NewInprocessor creates an orchestrator from cfg.
func NewInprocessor(cfg InprocessConfig) *Inprocessor {
	return &Inprocessor{
		log:       logrus.WithField("component", "inprocess"),
		scc:       NewSCCFinder(),
		replacer:  NewVarReplacer(),
		prober:    NewFailedLiteralProber(cfg.BogoPropBudget),
		simplify:  NewOccurSimplifier(cfg.VarElimMaxResolvent),
		vivifier:  NewClauseVivifier(cfg.VivificationMaxSize),
		xorFinder: NewXORFinder(),
		cfg:       cfg,
	}
}

func (p *Inprocessor) Name() string { return "Inprocessor" }

// Run executes one inprocessing round against s and returns a summary.
func (p *Inprocessor) Run(s *Solver) (InprocessResult, error) {
	p.runs++
	s.stats.InprocessRuns++
	var res InprocessResult

	if p.cfg.EnableSCC {
		repr := p.scc.Run(s)
		p.replacer.Grow(len(s.vars))
		p.replacer.ApplyFromSCC(repr)
		eliminated := p.replacer.PerformReplace(s)
		res.EquivalencesFound += eliminated
		res.VariablesEliminated += eliminated
	}

	if p.cfg.EnableProbing {
		candidates := p.undecidedVars(s, p.cfg.ProbingMaxCandidates)
		pr := p.prober.Run(s, candidates)
		res.FailedLiteralsFound += len(pr.UnitsLearned)
		res.UnitsLearned += len(pr.UnitsLearned)
		if pr.Conflict {
			res.FormulaReduced = true
			return res, ErrUnsat
		}
	}

	if p.cfg.EnableSubsumption {
		n := p.simplify.SubsumeAndStrengthen(s)
		res.SubsumptionsFound += n
		res.ClausesRemoved += n
	}

	if p.cfg.EnableVarElim {
		vars := p.undecidedVars(s, len(s.vars))
		n := p.simplify.EliminateVariables(s, vars)
		res.VariablesEliminated += n
	}

	if p.cfg.EnableVivification {
		n := p.vivifier.VivifyClauses(s, s.clauses, s.implCache)
		res.VivificationsApplied += n
		res.ClausesStrengthened += n
	}

	if p.cfg.EnableXORFinding {
		newXors := p.xorFinder.FindIn(s)
		s.xors = append(s.xors, newXors...)
	}

	if p.cfg.EnableGaussian && len(s.xors) > 0 {
		s.gauss.BuildMatrix(s.xors)
		units, conflict := s.gauss.Eliminate()
		if conflict {
			res.FormulaReduced = true
			return res, ErrUnsat
		}
		for _, u := range units {
			if s.Value(u) == LUndef {
				s.uncheckedEnqueue(u, Reason{Kind: ReasonNone})
				res.UnitsLearned++
			}
		}
		s.stats.GaussianRuns++
	}

	rebuildWatches(s)

	if s.alloc.ShouldConsolidate() {
		p.consolidate(s)
	}

	res.FormulaReduced = res.ClausesRemoved > 0 || res.VariablesEliminated > 0
	return res, nil
}

func (p *Inprocessor) undecidedVars(s *Solver, limit int) []Var {
	var out []Var
	for v := Var(0); int(v) < len(s.vars) && len(out) < limit; v++ {
		if s.vars[v].Decidable && s.VarValue(v) == LUndef {
			out = append(out, v)
		}
	}
	return out
}

// consolidate runs a ClauseAllocator.Consolidate pass, gathering every
// live ClauseRef pointer from the solver's clause lists, database tiers
// and watch lists so none dangle after storage is compacted (spec.md
// §4.1).
func (p *Inprocessor) consolidate(s *Solver) {
	var refs []*ClauseRef
	for i := range s.clauses {
		refs = append(refs, &s.clauses[i])
	}
	for i := range s.learnts {
		refs = append(refs, &s.learnts[i])
	}
	for i := range s.db.core {
		refs = append(refs, &s.db.core[i])
	}
	for i := range s.db.mid {
		refs = append(refs, &s.db.mid[i])
	}
	for i := range s.db.local {
		refs = append(refs, &s.db.local[i])
	}
	for i := range s.db.recent {
		refs = append(refs, &s.db.recent[i])
	}
	s.alloc.Consolidate(refs)
	dropDead := func(list []ClauseRef) []ClauseRef {
		out := list[:0]
		for _, ref := range list {
			if ref != ClauseRefNone {
				out = append(out, ref)
			}
		}
		return out
	}
	s.clauses, s.learnts = dropDead(s.clauses), dropDead(s.learnts)
	s.db.core, s.db.mid = dropDead(s.db.core), dropDead(s.db.mid)
	s.db.local, s.db.recent = dropDead(s.db.local), dropDead(s.db.recent)
	rebuildWatches(s)
}

func (p *Inprocessor) Reset() { p.runs = 0 }

// GetStatistics returns a coarse map of inprocessing counters.
func (p *Inprocessor) GetStatistics() map[string]int64 {
	return map[string]int64{
		"runs":         p.runs,
		"subsumptions": p.simplify.subsumptions,
		"eliminated":   p.simplify.eliminated,
		"blocked":      p.simplify.blocked,
		"vivified":     p.vivifier.shortened,
		"hyperBins":    p.prober.hyperBins,
		"failedLits":   p.prober.failedFound,
	}
}

func (p *Inprocessor) Configure(cfg InprocessConfig) { p.cfg = cfg }
