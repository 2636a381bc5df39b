package sat

// SCCFinder runs Tarjan's strongly-connected-components algorithm over
// the binary implication graph (an edge a->b for every binary clause
// (-a, b)) to discover equivalent-literal classes: every literal in one
// SCC must share the same truth value (spec.md §4.7). The traversal is
// iterative with an explicit stack so pathological implication chains
// (one per variable, in the worst case) cannot blow the Go call stack.
type SCCFinder struct {
	index, low []int32
	onStack    []bool
	stack      []Lit
	comp       []int32
	nextIndex  int32
	nextComp   int32
}

// NewSCCFinder creates an empty finder.
func NewSCCFinder() *SCCFinder { return &SCCFinder{} }

// sccFrame is one iterative-DFS stack frame: the literal being visited
// and the index of the next edge out of it still to explore.
type sccFrame struct {
	lit      Lit
	edgeIdx  int
}

// Run computes SCCs over the binary implication graph induced by s's
// binary watch lists. It returns a slice indexed by literal holding, for
// each literal, the representative literal of its equivalence class (the
// lowest-indexed literal in its SCC), or LitUndef if the literal forms a
// singleton class.
func (f *SCCFinder) Run(s *Solver) []Lit {
	n := 2 * len(s.vars)
	f.index = make([]int32, n)
	f.low = make([]int32, n)
	f.onStack = make([]bool, n)
	f.comp = make([]int32, n)
	for i := range f.index {
		f.index[i] = -1
		f.comp[i] = -1
	}
	f.stack = f.stack[:0]
	f.nextIndex = 0
	f.nextComp = 0

	for l := 0; l < n; l++ {
		if f.index[l] < 0 {
			f.strongConnect(s, Lit(l))
		}
	}

	repr := make([]Lit, n)
	for l := 0; l < n; l++ {
		repr[l] = LitUndef
	}
	// For each component with more than one literal, pick the
	// lowest-valued literal as representative for every member.
	byComp := make(map[int32][]Lit)
	for l := 0; l < n; l++ {
		byComp[f.comp[l]] = append(byComp[f.comp[l]], Lit(l))
	}
	for _, members := range byComp {
		if len(members) < 2 {
			continue
		}
		best := members[0]
		for _, m := range members[1:] {
			if m < best {
				best = m
			}
		}
		for _, m := range members {
			repr[m] = best
		}
	}
	return repr
}

func (f *SCCFinder) neighbors(s *Solver, lit Lit) []Lit {
	var out []Lit
	for _, w := range s.watches.List(lit) {
		if w.Kind == WatchBinary {
			out = append(out, w.Other)
		}
	}
	return out
}

// strongConnect is Tarjan's algorithm, implemented iteratively over an
// explicit work stack to avoid recursion on large implication graphs.
func (f *SCCFinder) strongConnect(s *Solver, start Lit) {
	var frames []sccFrame
	push := func(l Lit) {
		f.index[l] = f.nextIndex
		f.low[l] = f.nextIndex
		f.nextIndex++
		f.stack = append(f.stack, l)
		f.onStack[l] = true
		frames = append(frames, sccFrame{lit: l})
	}
	push(start)

	for len(frames) > 0 {
		top := &frames[len(frames)-1]
		adj := f.neighbors(s, top.lit)
		if top.edgeIdx < len(adj) {
			w := adj[top.edgeIdx]
			top.edgeIdx++
			if f.index[w] < 0 {
				push(w)
				continue
			} else if f.onStack[w] {
				if f.index[w] < f.low[top.lit] {
					f.low[top.lit] = f.index[w]
				}
			}
			continue
		}

		// Done exploring top.lit's edges.
		v := top.lit
		frames = frames[:len(frames)-1]
		if len(frames) > 0 {
			parent := &frames[len(frames)-1]
			if f.low[v] < f.low[parent.lit] {
				f.low[parent.lit] = f.low[v]
			}
		}
		if f.low[v] == f.index[v] {
			for {
				w := f.stack[len(f.stack)-1]
				f.stack = f.stack[:len(f.stack)-1]
				f.onStack[w] = false
				f.comp[w] = f.nextComp
				if w == v {
					break
				}
			}
			f.nextComp++
		}
	}
}
