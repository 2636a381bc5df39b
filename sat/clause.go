package sat

// ClauseRef is a compact, relocatable handle into a ClauseAllocator. It
// plays the role the original engine gives a 32-bit chunk/word offset:
// callers hold ClauseRef values (never raw pointers) so that an allocator
// Consolidate pass can move clause storage around underneath them.
type ClauseRef int32

// ClauseRefNone is the null clause reference.
const ClauseRefNone ClauseRef = -1

// clauseHeader is the data an allocator slot stores for one clause. It
// corresponds to spec.md §3's Clause: literals, redundancy, abstraction,
// glue/activity/counters used by cleaning, and the removed/freed bits that
// separate logical retirement from physical reclamation.
type clauseHeader struct {
	lits []Lit

	redundant bool // false = irredundant (original), true = learnt
	removed   bool // logically retired, pending reclamation
	freed     bool // arena slot reclaimable

	abstraction uint32 // bloom signature, bit v%32 per variable in the clause

	glue     int
	activity float32

	introducedAt int64 // conflict counter at creation time
	propCount    int64
	conflCount   int64

	xorUse bool // contributes to a currently-discovered XOR
	mark   bool // transient marking bit used by inprocessors

	slotSize int // literal-count the slot was allocated for; tracked so
	// Free can report the exact capacity being reclaimed (spec.md §9,
	// "track the exact slot size the clause occupied at allocation").
}

func newClauseHeader(lits []Lit, redundant bool) clauseHeader {
	h := clauseHeader{
		lits:      append([]Lit(nil), lits...),
		redundant: redundant,
		slotSize:  len(lits),
	}
	h.recomputeAbstraction()
	return h
}

func (h *clauseHeader) recomputeAbstraction() {
	var abs uint32
	for _, l := range h.lits {
		abs |= uint32(1) << (uint32(l.Var()) % 32)
	}
	h.abstraction = abs
}

// attached reports whether the clause is neither removed nor freed, i.e.
// currently part of the live clause base (spec.md §3 invariant).
func (h *clauseHeader) attached() bool {
	return !h.removed && !h.freed
}

// Size returns the clause's current literal count.
func (h *clauseHeader) Size() int { return len(h.lits) }

// Lits returns the clause's literals. Callers must not retain the slice
// past the next allocator mutation (Alloc may append chunks, but existing
// slots are stable until a Consolidate).
func (h *clauseHeader) Lits() []Lit { return h.lits }

// setLits replaces the clause's literal sequence in place, used by
// Modify (spec.md §3 lifecycle: "detaching, editing in place... then
// re-attaching").
func (h *clauseHeader) setLits(lits []Lit) {
	h.lits = lits
	h.recomputeAbstraction()
}
