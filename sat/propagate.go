package sat

// Propagate drains the trail's propagation queue, applying unit
// propagation via the watch lists. It returns the offset of a falsified
// clause on conflict, or ClauseRefNone if the queue drained cleanly.
// Binary and ternary clauses are resolved inline without consulting the
// allocator (spec.md §4.2's "specialised fast paths"); long clauses fall
// through to the general watched-literal rescan; WatchIndex entries hand
// off to the Gaussian engine's row propagation (spec.md §4.10, point 4).
// Hyper-binary resolution (spec.md §4.2) is not performed inline here; it
// is approximated post-hoc by FailedLiteralProber.recordHyperBinaries
// during probing, which only runs when probing is enabled.
func (s *Solver) Propagate() ClauseRef {
	for s.trail.QHead() < s.trail.Len() {
		p := s.trail.At(s.trail.QHead())
		s.trail.SetQHead(s.trail.QHead() + 1)
		s.stats.Propagations++

		falseLit := p.Neg()
		// Watches are filed under the negation of the watched literal, so
		// the clauses watching falseLit are in p's list.
		list := s.watches.List(p)

		write := 0
		conflict := ClauseRefNone
		for read := 0; read < len(list); read++ {
			w := list[read]

			switch w.Kind {
			case WatchBinary:
				val := s.Value(w.Other)
				if val == LTrue {
					list[write] = w
					write++
					continue
				}
				if val == LFalse {
					conflict = w.Clause
					copy(list[write:], list[read:])
					write += len(list) - read
					goto doneList
				}
				s.uncheckedEnqueue(w.Other, Reason{Kind: ReasonBinary, Other: p.Neg()})
				list[write] = w
				write++

			case WatchTernary:
				va, vb := s.Value(w.Other), s.Value(w.Third)
				if va == LTrue || vb == LTrue {
					list[write] = w
					write++
					continue
				}
				if va == LFalse && vb == LFalse {
					conflict = w.Clause
					copy(list[write:], list[read:])
					write += len(list) - read
					goto doneList
				}
				if va == LUndef && vb == LFalse {
					s.uncheckedEnqueue(w.Other, Reason{Kind: ReasonTernary, Other: p.Neg(), Third: w.Third})
				} else if vb == LUndef && va == LFalse {
					s.uncheckedEnqueue(w.Third, Reason{Kind: ReasonTernary, Other: p.Neg(), Third: w.Other})
				}
				list[write] = w
				write++

			case WatchLong:
				hdr := s.alloc.Ptr(w.Clause)
				if !hdr.attached() {
					continue // stale entry, drop it
				}
				if s.Value(w.Other) == LTrue {
					list[write] = w
					write++
					continue
				}
				kept, newBlocker, prop, confl := s.propagateLong(hdr, w, falseLit)
				if kept {
					list[write] = Watch{Kind: WatchLong, Clause: w.Clause, WatchIdx: w.WatchIdx, Other: newBlocker, Learnt: w.Learnt}
					write++
					if prop != LitUndef {
						s.uncheckedEnqueue(prop, Reason{Kind: ReasonLong, Clause: w.Clause})
					}
				} else if confl {
					conflict = w.Clause
					copy(list[write:], list[read:])
					write += len(list) - read
					goto doneList
				}
				// else: propagateLong already added the watch to the new
				// literal's list, so the stale entry is dropped here.

			case WatchIndex:
				if s.gauss != nil {
					res := s.gauss.PropagateRow(s, w.Row, p)
					if res.conflict {
						conflict = s.gauss.materializeConflict(s, w.Row)
						copy(list[write:], list[read:])
						write += len(list) - read
						goto doneList
					}
					list[write] = w
					write++
					if res.hasUnit {
						s.uncheckedEnqueue(res.unit, Reason{Kind: ReasonGauss, GaussRow: w.Row})
					}
				}
			}
		}
	doneList:
		s.watches.lists[p] = list[:write]
		if conflict != ClauseRefNone {
			return conflict
		}
	}
	return ClauseRefNone
}

// propagateLong handles the general long-clause watch case: if the other
// watched literal is already true the watch is kept unchanged; otherwise
// it scans the clause's unwatched literals for a new one to watch. It
// returns kept=true with an (possibly updated) blocker literal and an
// optional literal to propagate, or confl=true if every literal is false.
//
// When the watch needs to move to a different literal, this adds the new
// watch directly and returns kept=false so the caller drops the stale
// entry from the current list.
func (s *Solver) propagateLong(hdr *clauseHeader, w Watch, falseLit Lit) (kept bool, blocker Lit, prop Lit, confl bool) {
	lits := hdr.lits
	// Ensure the falsified literal is lits[0] for uniform indexing.
	if lits[0] != falseLit {
		lits[0], lits[1] = lits[1], lits[0]
	}
	if s.Value(lits[1]) == LTrue {
		return true, lits[1], LitUndef, false
	}
	for i := 2; i < len(lits); i++ {
		if s.Value(lits[i]) != LFalse {
			lits[0], lits[i] = lits[i], lits[0]
			s.watches.Add(lits[0].Neg(), Watch{Kind: WatchLong, Clause: w.Clause, WatchIdx: w.WatchIdx, Other: lits[1], Learnt: w.Learnt})
			return false, LitUndef, LitUndef, false
		}
	}
	// No new watch found: either a conflict, or lits[1] is unassigned and
	// becomes propagated.
	if s.Value(lits[1]) == LFalse {
		return false, lits[1], LitUndef, true
	}
	return true, lits[1], lits[1], false
}

// uncheckedEnqueue assigns lit true with the given reason at the current
// decision level, without checking for a prior conflicting assignment
// (the caller has already established lit is unassigned).
func (s *Solver) uncheckedEnqueue(lit Lit, reason Reason) {
	v := lit.Var()
	s.vars[v].Assign = boolToLbool(!lit.Sign())
	s.vars[v].Level = s.trail.Level()
	s.vars[v].Reason = reason
	s.trail.Push(lit)
}

// enqueueDecision assigns lit true as a new decision, opening a new
// decision level first.
func (s *Solver) enqueueDecision(lit Lit) {
	s.trail.NewDecisionLevel()
	s.stats.Decisions++
	s.uncheckedEnqueue(lit, Reason{Kind: ReasonNone})
}

// cancelUntil backtracks the trail and variable assignments to level,
// saving each unassigned variable's last value as its phase
// (VarData.Polarity).
func (s *Solver) cancelUntil(level int) {
	if level >= s.trail.Level() {
		return
	}
	removed := s.trail.ShrinkTo(level)
	for i := len(removed) - 1; i >= 0; i-- {
		v := removed[i].Var()
		s.vars[v].Polarity = s.vars[v].Assign == LTrue
		s.vars[v].Assign = LUndef
		s.vars[v].Reason = Reason{Kind: ReasonNone}
	}
}
