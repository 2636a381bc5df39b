package sat

import "testing"

func TestClauseAllocatorRoundTrip(t *testing.T) {
	a := NewClauseAllocator()
	lits := []Lit{MkLit(0, false), MkLit(1, true), MkLit(2, false)}
	ref, err := a.Alloc(lits, false)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	hdr := a.Ptr(ref)
	if hdr.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", hdr.Size())
	}
	got := hdr.Lits()
	for i, l := range lits {
		if got[i] != l {
			t.Fatalf("Lits()[%d] = %v, want %v", i, got[i], l)
		}
	}
}

func TestClauseAllocatorConsolidate(t *testing.T) {
	a := NewClauseAllocator()
	var refs []ClauseRef
	for i := 0; i < 10; i++ {
		ref, err := a.Alloc([]Lit{MkLit(Var(i), false), MkLit(Var(i+1), true)}, false)
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		refs = append(refs, ref)
	}
	// Mark every other clause removed so Consolidate drops it.
	for i := 0; i < len(refs); i += 2 {
		a.Ptr(refs[i]).removed = true
	}

	ptrs := make([]*ClauseRef, len(refs))
	for i := range refs {
		ptrs[i] = &refs[i]
	}
	a.Consolidate(ptrs)

	for i, ref := range refs {
		if i%2 == 0 {
			if ref != ClauseRefNone {
				t.Fatalf("removed clause %d should remap to ClauseRefNone, got %v", i, ref)
			}
			continue
		}
		if ref == ClauseRefNone {
			t.Fatalf("live clause %d should not remap to ClauseRefNone", i)
		}
		hdr := a.Ptr(ref)
		if hdr.Size() != 2 {
			t.Fatalf("live clause %d lost its literals after consolidate", i)
		}
	}
}

func TestClauseRefEncodeDecodeRoundTrip(t *testing.T) {
	for _, tc := range []struct{ outer, inner int }{
		{0, 0}, {1, 0}, {0, 1}, {allocMaxChunks - 1, allocChunkCap - 1},
	} {
		ref := encodeOffset(tc.outer, tc.inner)
		outer, inner := decodeOffset(ref)
		if outer != tc.outer || inner != tc.inner {
			t.Fatalf("encodeOffset/decodeOffset(%d,%d) round-tripped to (%d,%d)", tc.outer, tc.inner, outer, inner)
		}
	}
}
