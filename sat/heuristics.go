package sat

import (
	"math"
	"sort"
)

// VSIDSHeuristic blends VSIDS, LRB (learning-rate-based) scoring, saved
// phase polarity and an anti-aging decay, operating on dense Var-indexed
// arrays rather than the teacher package's map[string]float64. Grounded on
// the teacher's VSIDSHeuristic (heuristics.go), generalised to the
// integer-variable engine.
type VSIDSHeuristic struct {
	activity  []float64
	increment float64
	decay     float64

	lrbScore []float64
	lrbDecay float64

	polarity     []bool
	phaseCache   []bool
	havePhase    []bool
	participated []int64
	conflictNum  int64

	vsidsWeight float64
	lrbWeight   float64
}

// NewVSIDSHeuristic creates a heuristic sized for nVars variables.
func NewVSIDSHeuristic(nVars int) *VSIDSHeuristic {
	v := &VSIDSHeuristic{
		increment:   1.0,
		decay:       0.95,
		lrbDecay:    0.8,
		vsidsWeight: 0.7,
		lrbWeight:   0.3,
	}
	v.Grow(nVars)
	return v
}

func (v *VSIDSHeuristic) Name() string { return "VSIDS-LRB-Enhanced" }

// Grow extends every per-variable array to cover nVars variables.
func (v *VSIDSHeuristic) Grow(nVars int) {
	for len(v.activity) < nVars {
		v.activity = append(v.activity, 0)
		v.lrbScore = append(v.lrbScore, 0)
		v.polarity = append(v.polarity, true)
		v.phaseCache = append(v.phaseCache, false)
		v.havePhase = append(v.havePhase, false)
		v.participated = append(v.participated, 0)
	}
}

// ChooseVar picks the undecided variable with the highest combined score.
func (v *VSIDSHeuristic) ChooseVar(unassigned []Var) Var {
	best := VarUndef
	bestScore := -1.0
	for _, va := range unassigned {
		s := v.score(va)
		if s > bestScore {
			bestScore = s
			best = va
		}
	}
	return best
}

func (v *VSIDSHeuristic) score(va Var) float64 {
	aging := 1.0
	if age := v.conflictNum - v.participated[va]; age > 100 {
		aging = math.Exp(-float64(age-100) / 1000.0)
	}
	return (v.vsidsWeight*v.activity[va] + v.lrbWeight*v.lrbScore[va]) * aging
}

// Polarity returns the phase-cached preference, falling back to true.
func (v *VSIDSHeuristic) Polarity(va Var) bool {
	if v.havePhase[va] {
		return v.phaseCache[va]
	}
	return v.polarity[va]
}

// Bump bumps every variable in lits. The search loop calls it once per
// conflict with the learnt clause; variables resolved away during
// analysis are not bumped (spec.md §4.3).
func (v *VSIDSHeuristic) Bump(lits []Lit) {
	v.conflictNum++
	for _, l := range lits {
		va := l.Var()
		v.activity[va] += v.increment
		v.lrbScore[va] = v.lrbDecay*v.lrbScore[va] + (1.0 - v.lrbDecay)
		v.phaseCache[va] = l.Sign()
		v.havePhase[va] = true
		v.participated[va] = v.conflictNum
	}
	if v.increment > 1e100 {
		v.rescale()
	}
}

// Decay ages the VSIDS increment, adaptively tightening or loosening the
// decay rate every 1000 conflicts based on mean activity.
func (v *VSIDSHeuristic) Decay() {
	if v.conflictNum%1000 == 0 && v.conflictNum > 0 {
		v.adaptDecay()
	}
	v.increment /= v.decay
}

func (v *VSIDSHeuristic) adaptDecay() {
	avg := v.meanActivity()
	switch {
	case avg < 0.1:
		v.decay *= 0.95
		if v.decay < 0.8 {
			v.decay = 0.8
		}
	case avg > 10.0:
		v.decay *= 1.05
		if v.decay > 0.99 {
			v.decay = 0.99
		}
	}
}

func (v *VSIDSHeuristic) meanActivity() float64 {
	if len(v.activity) == 0 {
		return 0
	}
	var sum float64
	for _, a := range v.activity {
		sum += a
	}
	return sum / float64(len(v.activity))
}

func (v *VSIDSHeuristic) rescale() {
	for i := range v.activity {
		v.activity[i] *= 1e-100
		v.lrbScore[i] *= 1e-100
	}
	v.increment *= 1e-100
}

func (v *VSIDSHeuristic) Reset() {
	n := len(v.activity)
	v.activity = make([]float64, n)
	v.lrbScore = make([]float64, n)
	v.phaseCache = make([]bool, n)
	v.havePhase = make([]bool, n)
	v.participated = make([]int64, n)
	v.increment = 1.0
	v.decay = 0.95
	v.conflictNum = 0
}

// GeometricRestartStrategy restarts on a geometrically growing conflict
// budget, the simplest of spec.md §4.4's three strategies.
type GeometricRestartStrategy struct {
	base, factor, next float64
	conflictsAtRestart int64
}

// NewGeometricRestartStrategy creates a strategy with the given base
// interval and growth factor.
func NewGeometricRestartStrategy(base float64, factor float64) *GeometricRestartStrategy {
	return &GeometricRestartStrategy{base: base, factor: factor, next: base}
}

func (g *GeometricRestartStrategy) Name() string { return "Geometric" }

func (g *GeometricRestartStrategy) ShouldRestart(stats Stats) bool {
	return float64(stats.Conflicts-g.conflictsAtRestart) >= g.next
}

func (g *GeometricRestartStrategy) OnRestart() {
	g.conflictsAtRestart = 0
	g.next *= g.factor
}

func (g *GeometricRestartStrategy) OnConflict(int) {}

func (g *GeometricRestartStrategy) Reset() { g.next = g.base; g.conflictsAtRestart = 0 }

// GlueRestartStrategy implements Glucose-style restarts: a fast moving
// average of recent learnt-clause LBD compared against a slower global
// average, restarting when recent quality degrades (spec.md §4.4,
// "Glue: restart when the recent average LBD exceeds K times the global
// average").
type GlueRestartStrategy struct {
	fastMA, slowMA float64
	fastAlpha      float64
	slowAlpha      float64
	k              float64
	seen           int64
	minConflicts   int64
	sinceRestart   int64
}

// NewGlueRestartStrategy creates a Glucose-style restart strategy.
func NewGlueRestartStrategy() *GlueRestartStrategy {
	return &GlueRestartStrategy{
		fastAlpha:    0.1,
		slowAlpha:    0.01,
		k:            1.4,
		minConflicts: 50,
	}
}

func (g *GlueRestartStrategy) Name() string { return "Glue" }

func (g *GlueRestartStrategy) OnConflict(lbd int) {
	g.seen++
	f := float64(lbd)
	g.fastMA = g.fastAlpha*f + (1-g.fastAlpha)*g.fastMA
	g.slowMA = g.slowAlpha*f + (1-g.slowAlpha)*g.slowMA
	g.sinceRestart++
}

func (g *GlueRestartStrategy) ShouldRestart(stats Stats) bool {
	if g.seen < g.minConflicts || g.sinceRestart < g.minConflicts {
		return false
	}
	return g.fastMA > g.k*g.slowMA
}

func (g *GlueRestartStrategy) OnRestart() { g.sinceRestart = 0 }

func (g *GlueRestartStrategy) Reset() {
	g.fastMA, g.slowMA = 0, 0
	g.seen, g.sinceRestart = 0, 0
}

// AgilityRestartStrategy restarts when the search's agility — the
// fraction of recent decisions whose polarity disagreed with the saved
// phase — drops below a threshold, signalling the search has settled
// into a low-diversity region (spec.md §4.4, "Agility").
type AgilityRestartStrategy struct {
	agility   float64
	decay     float64
	threshold float64
	seen      int64
}

// NewAgilityRestartStrategy creates an agility-based restart strategy.
func NewAgilityRestartStrategy() *AgilityRestartStrategy {
	return &AgilityRestartStrategy{agility: 1.0, decay: 0.9999, threshold: 0.25}
}

func (a *AgilityRestartStrategy) Name() string { return "Agility" }

// NotePolarityFlip is called by the search driver on every decision, with
// flipped reporting whether the decision's polarity differs from the
// variable's saved phase; it feeds the agility estimate.
func (a *AgilityRestartStrategy) NotePolarityFlip(flipped bool) {
	x := 0.0
	if flipped {
		x = 1.0
	}
	a.agility = a.decay*a.agility + (1-a.decay)*x
	a.seen++
}

func (a *AgilityRestartStrategy) OnConflict(int) {}

func (a *AgilityRestartStrategy) ShouldRestart(stats Stats) bool {
	return a.seen > 1000 && a.agility < a.threshold
}

func (a *AgilityRestartStrategy) OnRestart() {}

func (a *AgilityRestartStrategy) Reset() { a.agility = 1.0; a.seen = 0 }

// ActivityBasedDeletion implements tier-aware learnt-clause deletion:
// core clauses and glue clauses (LBD<=2) are never deleted, mid-tier
// clauses are culled by activity, local-tier clauses are culled
// aggressively by activity or size (spec.md §4.13's three-tier database).
type ActivityBasedDeletion struct {
	activityThreshold float64
	midThreshold      float64
	localThreshold    float64
	sizeThreshold     int
	deletionCount     int64
	keepRatio         float64
}

// NewActivityBasedDeletion creates a deletion policy with tuned defaults.
func NewActivityBasedDeletion() *ActivityBasedDeletion {
	return &ActivityBasedDeletion{
		activityThreshold: 0.1,
		midThreshold:      0.15,
		localThreshold:    0.10,
		sizeThreshold:      30,
		keepRatio:         0.5,
	}
}

func (a *ActivityBasedDeletion) Name() string { return "Activity-LBD-Enhanced" }

// ShouldDelete reports whether hdr, a learnt clause residing in the given
// tier (0=core, 1=mid, 2=local), should be discarded by a cleaning pass.
func (a *ActivityBasedDeletion) ShouldDelete(hdr *clauseHeader, tier int, stats Stats) bool {
	if !hdr.redundant || hdr.Size() <= 1 {
		return false
	}
	if tier == 0 || hdr.glue <= 2 {
		return false
	}
	if tier == 1 {
		return float64(hdr.activity) < a.midThreshold
	}
	if tier == 2 {
		if float64(hdr.activity) < a.localThreshold || hdr.Size() > a.sizeThreshold {
			return true
		}
		return float64(hdr.activity) < a.activityThreshold
	}
	return float64(hdr.activity) < a.activityThreshold
}

// Update recalibrates thresholds from the current population of learnt
// clause headers, called once per cleaning pass.
func (a *ActivityBasedDeletion) Update(headers []*clauseHeader) {
	if len(headers) == 0 {
		return
	}
	activities := make([]float64, 0, len(headers))
	for _, h := range headers {
		if h.redundant {
			activities = append(activities, float64(h.activity))
		}
	}
	if len(activities) == 0 {
		return
	}
	sort.Float64s(activities)
	median := activities[len(activities)/2]
	a.activityThreshold = median * 0.3

	a.deletionCount++
	if a.deletionCount%100 == 0 {
		if a.keepRatio < 0.3 {
			a.keepRatio = 0.3
		}
	}
}

func (a *ActivityBasedDeletion) Reset() {
	a.activityThreshold = 0.1
	a.deletionCount = 0
	a.keepRatio = 0.5
}
