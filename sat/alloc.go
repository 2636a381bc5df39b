package sat

import "github.com/pkg/errors"

// allocOuterBits bounds the number of chunks at 2^16, matching spec.md
// §4.1's "≤ 2^k chunks for a fixed k, currently 16".
const allocOuterBits = 16
const allocMaxChunks = 1 << allocOuterBits
const allocChunkCap = 1 << 14 // slots per chunk

// ErrOutOfAddressSpace is returned by Alloc when the outer chunk index
// would overflow allocMaxChunks (spec.md §7: fatal, poisons the solver).
var ErrOutOfAddressSpace = errors.New("sat: clause allocator out of address space")

type clauseSlot struct {
	used bool
	hdr  clauseHeader
}

type clauseChunk struct {
	slots     []clauseSlot
	liveWords int // per-chunk count, never updated; LiveRatio uses the allocator-wide totals
}

// ClauseAllocator is the bulk storage for every clause in the engine. It
// hands out ClauseRef offsets instead of pointers so that Consolidate can
// relocate storage without leaving any raw reference dangling (spec.md
// §4.1, §9).
//
// Freed binary clauses are additionally tracked on a dedicated free list so
// a new binary clause can reuse their slots. Binary clauses live in the
// same chunks as long clauses, and Consolidate relocates them together.
type ClauseAllocator struct {
	chunks  []*clauseChunk
	freeBin []ClauseRef // free-list of reclaimed binary-clause slots

	allocatedWords int64
	liveWords      int64

	// consolidateThreshold is τ from spec.md §4.1 (default 0.7).
	consolidateThreshold float64
}

// NewClauseAllocator creates an empty allocator.
func NewClauseAllocator() *ClauseAllocator {
	return &ClauseAllocator{
		consolidateThreshold: 0.7,
	}
}

func encodeOffset(outer, inner int) ClauseRef {
	return ClauseRef(outer | (inner << allocOuterBits))
}

func decodeOffset(ref ClauseRef) (outer, inner int) {
	outer = int(ref) & (allocMaxChunks - 1)
	inner = int(ref) >> allocOuterBits
	return
}

// Alloc stores a new clause and returns its offset.
func (a *ClauseAllocator) Alloc(lits []Lit, redundant bool) (ClauseRef, error) {
	hdr := newClauseHeader(lits, redundant)

	// Binary clauses prefer a recycled slot from the dedicated free list.
	if len(lits) == 2 && len(a.freeBin) > 0 {
		ref := a.freeBin[len(a.freeBin)-1]
		a.freeBin = a.freeBin[:len(a.freeBin)-1]
		outer, inner := decodeOffset(ref)
		slot := &a.chunks[outer].slots[inner]
		slot.used = true
		slot.hdr = hdr
		a.liveWords += int64(len(lits))
		a.allocatedWords += int64(len(lits))
		return ref, nil
	}

	// Find a chunk with room, else grow.
	for outer, c := range a.chunks {
		if len(c.slots) < allocChunkCap {
			inner := len(c.slots)
			c.slots = append(c.slots, clauseSlot{used: true, hdr: hdr})
			a.liveWords += int64(len(lits))
			a.allocatedWords += int64(len(lits))
			return encodeOffset(outer, inner), nil
		}
	}

	if len(a.chunks) >= allocMaxChunks {
		return ClauseRefNone, errors.WithStack(ErrOutOfAddressSpace)
	}

	c := &clauseChunk{slots: make([]clauseSlot, 0, allocChunkCap)}
	c.slots = append(c.slots, clauseSlot{used: true, hdr: hdr})
	a.chunks = append(a.chunks, c)
	a.liveWords += int64(len(lits))
	a.allocatedWords += int64(len(lits))
	return encodeOffset(len(a.chunks)-1, 0), nil
}

// Ptr decodes an offset into the backing clause header. It is undefined
// behaviour (a panic, in this implementation) to pass an offset this
// allocator did not produce, per spec.md §4.1.
func (a *ClauseAllocator) Ptr(ref ClauseRef) *clauseHeader {
	outer, inner := decodeOffset(ref)
	return &a.chunks[outer].slots[inner].hdr
}

// Free reclaims a clause's slot. Binary clauses return to the dedicated
// free list; long clauses are marked freed and their space awaits the next
// Consolidate (spec.md §4.1: "space is not reclaimed eagerly").
func (a *ClauseAllocator) Free(ref ClauseRef) {
	h := a.Ptr(ref)
	a.liveWords -= int64(h.slotSize)
	if h.slotSize == 2 {
		outer, inner := decodeOffset(ref)
		a.chunks[outer].slots[inner].used = false
		a.freeBin = append(a.freeBin, ref)
		return
	}
	h.freed = true
}

// LiveRatio is live_words / allocated_words, the τ trigger in spec.md
// §4.1.
func (a *ClauseAllocator) LiveRatio() float64 {
	if a.allocatedWords == 0 {
		return 1.0
	}
	return float64(a.liveWords) / float64(a.allocatedWords)
}

// ShouldConsolidate reports whether the allocator has crossed its
// consolidation trigger: live ratio under τ, or chunk count approaching
// the outer-bits limit.
func (a *ClauseAllocator) ShouldConsolidate() bool {
	if len(a.chunks) == 0 {
		return false
	}
	if a.LiveRatio() < a.consolidateThreshold {
		return true
	}
	return len(a.chunks) >= allocMaxChunks-1
}

// Consolidate compacts every live (attached, non-freed) clause into a
// fresh set of chunks and rewrites every reference the caller passes in
// refs. The caller must enumerate every offset-containing structure in
// the engine: watch entries, reasons, top-level clause lists, subsumer
// state, probing caches (spec.md §4.1). References that pointed at a
// clause which is not live are rewritten to ClauseRefNone.
func (a *ClauseAllocator) Consolidate(refs []*ClauseRef) {
	remap := make(map[ClauseRef]ClauseRef)
	newChunks := []*clauseChunk{{slots: make([]clauseSlot, 0, allocChunkCap)}}

	var liveWords int64
	for outer, c := range a.chunks {
		for inner, slot := range c.slots {
			if !slot.used || slot.hdr.removed || slot.hdr.freed {
				continue
			}
			last := newChunks[len(newChunks)-1]
			if len(last.slots) >= allocChunkCap {
				last = &clauseChunk{slots: make([]clauseSlot, 0, allocChunkCap)}
				newChunks = append(newChunks, last)
			}
			newRef := encodeOffset(len(newChunks)-1, len(last.slots))
			last.slots = append(last.slots, clauseSlot{used: true, hdr: slot.hdr})
			remap[encodeOffset(outer, inner)] = newRef
			liveWords += int64(slot.hdr.slotSize)
		}
	}

	a.chunks = newChunks
	a.freeBin = nil
	a.liveWords = liveWords
	a.allocatedWords = liveWords

	for _, p := range refs {
		if p == nil || *p == ClauseRefNone {
			continue
		}
		if nr, ok := remap[*p]; ok {
			*p = nr
		} else {
			*p = ClauseRefNone
		}
	}
}
