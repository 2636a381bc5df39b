package sat

// extendStep is one recorded decision an eliminated or blocked variable's
// value must honour to keep the clauses it used to satisfy true, replayed
// in reverse order against the final model (spec.md §4.6's "extend
// elimination", §4.11's blocked-clause extension).
type extendStep struct {
	// trigger is the variable this step restores the value of.
	trigger Var
	// clauses are the (literal-list) clauses whose satisfaction depends
	// on trigger's value — trigger takes the value that satisfies the
	// first clause not already satisfied by its other literals, or false
	// if every clause is, mirroring resolution-based variable
	// elimination's standard extension rule.
	clauses [][]Lit
}

// Extender replays elimination and blocking decisions to recover full
// model values for variables the inprocessor removed from the search
// space. Grounded on original_source/cmsat/simplifier.h's extendModel and
// the teacher package's model-extension notes in SPEC_FULL.md.
type Extender struct {
	steps []extendStep
}

// NewExtender creates an empty extender.
func NewExtender() *Extender { return &Extender{} }

// RecordElimination appends one variable-elimination extension step.
func (e *Extender) RecordElimination(v Var, clauses [][]Lit) {
	e.steps = append(e.steps, extendStep{trigger: v, clauses: clauses})
}

// ValueOf computes the extended value of v, replaying every recorded step
// in reverse (most recently eliminated first) against s's current partial
// model, matching the standard variable-elimination extension order.
func (e *Extender) ValueOf(v Var, s *Solver) bool {
	for i := len(e.steps) - 1; i >= 0; i-- {
		step := e.steps[i]
		if step.trigger != v {
			continue
		}
		for _, cl := range step.clauses {
			satisfied := false
			var need Lit = LitUndef
			for _, l := range cl {
				if l.Var() == v {
					need = l
					continue
				}
				if s.GetModelValue(l.Var()) == !l.Sign() {
					satisfied = true
					break
				}
			}
			if !satisfied && need != LitUndef {
				return !need.Sign()
			}
		}
		return false
	}
	return s.vars[v].Polarity
}
