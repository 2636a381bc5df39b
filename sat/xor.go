package sat

import "sort"

// XORClause is a native parity constraint: the XOR of Vars equals RHS
// (true = odd parity). spec.md §3 and §4.10 treat XOR constraints as a
// first-class clause kind alongside ordinary disjunctive clauses.
type XORClause struct {
	Vars []Var
	RHS  bool

	// Group is a caller-assigned grouping tag. Nothing in this module
	// sets or reads it: the DIMACS parser, the statistics sink and the
	// proof writer ignore it.
	Group int
}

// Normalize sorts Vars and removes any Var that appears an even number of
// times (it cancels out of the parity equation), matching the original
// engine's XOR canonicalisation.
func (x *XORClause) Normalize() {
	sort.Slice(x.Vars, func(i, j int) bool { return x.Vars[i] < x.Vars[j] })
	out := x.Vars[:0]
	i := 0
	for i < len(x.Vars) {
		j := i
		for j < len(x.Vars) && x.Vars[j] == x.Vars[i] {
			j++
		}
		if (j-i)%2 == 1 {
			out = append(out, x.Vars[i])
		}
		i = j
	}
	x.Vars = out
}

// XORFinder discovers XOR constraints hiding in the irredundant clause
// database by parity-matching companion clauses: a k-ary XOR decomposes
// into 2^(k-1) ordinary clauses, so the finder looks for that exact
// pattern among clauses sharing an abstraction signature (spec.md §4.10,
// point 1; grounded on original_source/src/xorfinder.cpp's
// find_xors_based_on_clause approach, reimplemented over abstraction
// signatures rather than a hash-keyed occurrence index).
type XORFinder struct {
	minSize, maxSize int
	found            []*XORClause
}

// NewXORFinder creates a finder with spec.md's default size window.
func NewXORFinder() *XORFinder {
	return &XORFinder{minSize: 3, maxSize: 20}
}

// FindIn scans s's irredundant clause base for XOR patterns and returns
// every XORClause found in this scan, including ones found by earlier
// scans. It does not touch s.xors; the caller appends the result.
func (xf *XORFinder) FindIn(s *Solver) []*XORClause {
	xf.found = xf.found[:0]

	byAbs := make(map[uint32][]ClauseRef)
	for _, ref := range s.clauses {
		hdr := s.alloc.Ptr(ref)
		if !hdr.attached() {
			continue
		}
		n := hdr.Size()
		if n < xf.minSize || n > xf.maxSize {
			continue
		}
		byAbs[hdr.abstraction] = append(byAbs[hdr.abstraction], ref)
	}

	seen := make(map[string]bool)
	for _, group := range byAbs {
		if len(group) < 2 {
			continue
		}
		vars := varsOf(s, group[0])
		need := 1 << (len(vars) - 1)
		if len(group) < need {
			continue
		}
		key := varsKey(vars)
		if seen[key] {
			continue
		}
		if xf.parityComplete(s, group, vars) {
			seen[key] = true
			xc := &XORClause{Vars: vars, RHS: xf.parityRHS(s, group[0])}
			xc.Normalize()
			xf.found = append(xf.found, xc)
			for _, ref := range group {
				s.alloc.Ptr(ref).xorUse = true
			}
		}
	}
	return xf.found
}

// parityComplete checks whether group contains every one of the 2^(k-1)
// sign patterns consistent with a single parity value — the defining
// property of a clause set that encodes one XOR constraint.
func (xf *XORFinder) parityComplete(s *Solver, group []ClauseRef, vars []Var) bool {
	k := len(vars)
	want := 1 << (k - 1)
	patterns := make(map[uint32]bool, want)
	firstParity := -1
	for _, ref := range group {
		hdr := s.alloc.Ptr(ref)
		if hdr.Size() != k {
			return false
		}
		var mask uint32
		parity := 0
		for _, l := range hdr.Lits() {
			idx := varIndex(vars, l.Var())
			if idx < 0 {
				return false
			}
			if l.Sign() {
				mask |= 1 << idx
				parity++
			}
		}
		if firstParity < 0 {
			firstParity = parity % 2
		} else if parity%2 != firstParity {
			// every clause encoding one XOR has the same parity of negated
			// literals: odd for RHS false, even for RHS true.
			return false
		}
		patterns[mask&(1<<(k-1)-1)] = true
	}
	return len(patterns) == want
}

func (xf *XORFinder) parityRHS(s *Solver, ref ClauseRef) bool {
	hdr := s.alloc.Ptr(ref)
	neg := 0
	for _, l := range hdr.Lits() {
		if l.Sign() {
			neg++
		}
	}
	return neg%2 == 0
}

func varsOf(s *Solver, ref ClauseRef) []Var {
	hdr := s.alloc.Ptr(ref)
	vs := make([]Var, 0, hdr.Size())
	for _, l := range hdr.Lits() {
		vs = append(vs, l.Var())
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	return vs
}

func varIndex(vars []Var, v Var) int {
	for i, x := range vars {
		if x == v {
			return i
		}
	}
	return -1
}

func varsKey(vars []Var) string {
	b := make([]byte, 0, len(vars)*5)
	for _, v := range vars {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24), ',')
	}
	return string(b)
}
