package sat

import "sort"

// WatchKind tags the union of things a watch-list entry can be, replacing
// the virtual-dispatch watch hierarchy of the original engine (spec.md
// §9: "inheritance... replaced by tagged sums").
type WatchKind uint8

const (
	WatchBinary WatchKind = iota
	WatchTernary
	WatchLong
	// WatchIndex is consulted only by the XOR/Gaussian module (spec.md
	// §3, "Watched entry").
	WatchIndex
)

// Watch is one entry in a per-literal watch list.
type Watch struct {
	Kind WatchKind

	// Binary: Other is the one other literal. Ternary: Other and Third
	// are the clause's two other literals. Long: Other is the blocker
	// literal used to short-circuit re-scans.
	Other Lit
	Third Lit

	// Long: Clause is the watched clause's offset and WatchIdx (0 or 1)
	// says which of its two watched positions this entry tracks.
	Clause   ClauseRef
	WatchIdx int

	Learnt bool

	// Index: row index into the Gaussian matrix this watch belongs to.
	Row int
}

// watchOrder ranks watch kinds so binaries are tried first (the cheapest
// fast path), then ternaries, then long clauses, and within a kind
// irredundant clauses before redundant ones — spec.md §4.2's "sort_watched"
// invariant.
func watchOrder(w Watch) int {
	base := int(w.Kind) * 2
	if w.Learnt {
		base++
	}
	return base
}

// Watches holds, per literal, the ordered list of watch entries. It is
// the sole occurrence structure consulted during propagation (spec.md §3).
type Watches struct {
	lists [][]Watch
}

// NewWatches creates an empty watch-list set sized for nVars variables.
func NewWatches(nVars int) *Watches {
	w := &Watches{}
	w.Grow(nVars)
	return w
}

// Grow extends the watch lists to cover nVars variables, called whenever
// NewVar allocates a new variable.
func (w *Watches) Grow(nVars int) {
	need := 2 * nVars
	for len(w.lists) < need {
		w.lists = append(w.lists, nil)
	}
}

// List returns the watch list for lit. The returned slice must not be
// retained across a mutating call.
func (w *Watches) List(lit Lit) []Watch {
	return w.lists[lit]
}

// Add appends a watch entry for lit.
func (w *Watches) Add(lit Lit, wt Watch) {
	w.lists[lit] = append(w.lists[lit], wt)
}

// Remove deletes the first entry in lit's list matching pred, returning
// whether an entry was removed.
func (w *Watches) Remove(lit Lit, pred func(Watch) bool) bool {
	list := w.lists[lit]
	for i, wt := range list {
		if pred(wt) {
			w.lists[lit] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveClause deletes every long-clause (WatchLong) entry for ref from
// lit's list (both watched positions are removed by two calls, one per
// literal); binary and ternary entries are left in place.
func (w *Watches) RemoveClause(lit Lit, ref ClauseRef) {
	list := w.lists[lit]
	dst := list[:0]
	for _, wt := range list {
		if wt.Kind == WatchLong && wt.Clause == ref {
			continue
		}
		dst = append(dst, wt)
	}
	w.lists[lit] = dst
}

// Sort reorders lit's watch list per watchOrder: binaries, then
// ternaries, then long clauses, irredundant before redundant within each
// kind. Propagation's determinism (spec.md §4.2) depends on this order
// being re-established after any mutation.
func (w *Watches) Sort(lit Lit) {
	list := w.lists[lit]
	sort.SliceStable(list, func(i, j int) bool {
		return watchOrder(list[i]) < watchOrder(list[j])
	})
}

// SortAll re-sorts every watch list, used after bulk rewrites (variable
// replacement, consolidation).
func (w *Watches) SortAll() {
	for l := range w.lists {
		w.Sort(Lit(l))
	}
}

// ClearIndex drops every WatchIndex entry from every watch list, called
// before GaussianEngine.BuildMatrix reinserts fresh row watches for a
// rebuilt matrix.
func (w *Watches) ClearIndex() {
	for l, list := range w.lists {
		dst := list[:0]
		for _, wt := range list {
			if wt.Kind == WatchIndex {
				continue
			}
			dst = append(dst, wt)
		}
		w.lists[l] = dst
	}
}

// rewriteClauseRefs rewrites the ClauseRef of every long-clause watch in
// place via the given remap function. Nothing in this module calls it:
// after ClauseAllocator.Consolidate the watch lists are rebuilt instead.
func (w *Watches) rewriteClauseRefs(remap func(ClauseRef) ClauseRef) {
	for l, list := range w.lists {
		for i := range list {
			if list[i].Kind == WatchLong {
				list[i].Clause = remap(list[i].Clause)
			}
		}
		w.lists[l] = list
	}
}
