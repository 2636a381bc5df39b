package sat

// Trail is the ordered sequence of assigned literals together with the
// index markers separating decision levels, and qhead, the next literal
// to propagate (spec.md §3). Unlike the teacher package's map-keyed trail,
// assignment/level/reason live in the dense VarData array indexed by Var,
// so the trail itself only needs to record order.
type Trail struct {
	lits     []Lit
	trailLim []int // trailLim[i] = index where decision level i+1 begins
	qhead    int
}

// NewTrail creates an empty trail.
func NewTrail() *Trail {
	return &Trail{}
}

// Push appends lit to the trail at the current decision level.
func (t *Trail) Push(lit Lit) {
	t.lits = append(t.lits, lit)
}

// NewDecisionLevel records that a new decision level begins at the
// trail's current length.
func (t *Trail) NewDecisionLevel() {
	t.trailLim = append(t.trailLim, len(t.lits))
}

// Level returns the current decision level (0 at the root).
func (t *Trail) Level() int {
	return len(t.trailLim)
}

// Len returns the number of assigned literals.
func (t *Trail) Len() int {
	return len(t.lits)
}

// At returns the i-th assigned literal.
func (t *Trail) At(i int) Lit {
	return t.lits[i]
}

// Last returns the most recently assigned literal.
func (t *Trail) Last() Lit {
	return t.lits[len(t.lits)-1]
}

// LevelStart returns the trail index where the given decision level
// begins (0 for the root level).
func (t *Trail) LevelStart(level int) int {
	if level == 0 {
		return 0
	}
	if level > len(t.trailLim) {
		return len(t.lits)
	}
	return t.trailLim[level-1]
}

// QHead returns the index of the next literal to propagate.
func (t *Trail) QHead() int { return t.qhead }

// SetQHead advances the propagation head.
func (t *Trail) SetQHead(i int) { t.qhead = i }

// ShrinkTo truncates the trail back to decision level, returning the
// literals removed in trail order (most recently assigned last). The
// caller is responsible for unassigning the corresponding variables.
func (t *Trail) ShrinkTo(level int) []Lit {
	if level >= t.Level() {
		return nil
	}
	start := t.trailLim[level]
	removed := append([]Lit(nil), t.lits[start:]...)
	t.lits = t.lits[:start]
	t.trailLim = t.trailLim[:level]
	if t.qhead > len(t.lits) {
		t.qhead = len(t.lits)
	}
	return removed
}

// Clear resets the trail to the empty, level-0 state.
func (t *Trail) Clear() {
	t.lits = t.lits[:0]
	t.trailLim = t.trailLim[:0]
	t.qhead = 0
}
