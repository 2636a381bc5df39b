package sat

// Heuristic selects the next decision variable and its polarity. The sole
// production implementation is VSIDSHeuristic; the interface survives from
// the teacher package because spec.md §4.4 itself calls out the heuristic
// as a pluggable strategy slot.
type Heuristic interface {
	// ChooseVar selects the next unassigned, decidable variable. It
	// returns VarUndef if none remain.
	ChooseVar(unassigned []Var) Var
	// Polarity reports the preferred initial truth value for v.
	Polarity(v Var) bool
	// Bump increases the activity of every variable in lits. The search
	// loop calls it once per conflict with the learnt clause's literals;
	// variables resolved away during analysis are not bumped.
	Bump(lits []Lit)
	// Decay ages all activities, called once per conflict.
	Decay()
	Reset()
	Name() string
}

// RestartStrategy decides when the search loop should restart. spec.md
// §4.4 names three concrete strategies chosen by configuration: Geometric,
// Glue (Glucose-style recent/global LBD ratio) and Agility.
type RestartStrategy interface {
	ShouldRestart(stats Stats) bool
	OnRestart()
	OnConflict(lbd int)
	Reset()
	Name() string
}

// ClauseDeletionPolicy decides which learnt clauses a cleaning pass
// discards. The sole production implementation is ActivityBasedDeletion.
type ClauseDeletionPolicy interface {
	ShouldDelete(hdr *clauseHeader, tier int, stats Stats) bool
	Update(headers []*clauseHeader)
	Reset()
	Name() string
}

// ConflictAnalyzer turns a conflicting clause into a learnt clause and a
// backjump level. The sole production implementation is FirstUIPAnalyzer.
type ConflictAnalyzer interface {
	Analyze(s *Solver, confl ClauseRef) (learnt []Lit, backjumpLevel int, lbd int)
	Reset()
	Name() string
}
