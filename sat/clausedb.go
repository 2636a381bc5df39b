package sat

// ClauseDatabase partitions redundant (learnt) clauses into three tiers —
// core (glue, LBD<=2, never deleted), mid (LBD 3-6) and local (LBD>6) —
// plus a short-lived "recent" staging area new learnts enter before they
// are old enough to be judged for promotion or deletion. Grounded on the
// teacher package's ClauseDatabase, rebuilt atop ClauseRef rather than
// *Clause (spec.md §4.13).
type ClauseDatabase struct {
	alloc    *ClauseAllocator
	deletion ClauseDeletionPolicy

	core, mid, local, recent []ClauseRef

	// recentMaxAge is how many conflicts a learnt clause stays in recent
	// before being classified into core/mid/local by LBD.
	recentMaxAge int64
	bornAt       map[ClauseRef]int64

	maxSize int

	proofSink ProofSink
}

// NewClauseDatabase creates an empty database backed by alloc.
func NewClauseDatabase(alloc *ClauseAllocator, deletion ClauseDeletionPolicy) *ClauseDatabase {
	return &ClauseDatabase{
		alloc:        alloc,
		deletion:     deletion,
		recentMaxAge: 1000,
		bornAt:       make(map[ClauseRef]int64),
		maxSize:      20000,
	}
}

// Add registers a newly learnt clause into the recent staging tier.
func (db *ClauseDatabase) Add(ref ClauseRef, nowConflicts int64) {
	db.recent = append(db.recent, ref)
	db.bornAt[ref] = nowConflicts
}

// Size returns the total number of tracked learnt clauses.
func (db *ClauseDatabase) Size() int {
	return len(db.core) + len(db.mid) + len(db.local) + len(db.recent)
}

// GetTierSlices exposes the four tiers for inspection by the deletion
// policy and by statistics reporting.
func (db *ClauseDatabase) GetTierSlices() (core, mid, local, recent []ClauseRef) {
	return db.core, db.mid, db.local, db.recent
}

// Promote reclassifies every clause in recent older than recentMaxAge
// into core/mid/local by its current LBD (glue), matching the teacher's
// "bornAt-gated promotion" scheme.
func (db *ClauseDatabase) Promote(nowConflicts int64) {
	keep := db.recent[:0]
	for _, ref := range db.recent {
		born := db.bornAt[ref]
		if nowConflicts-born < db.recentMaxAge {
			keep = append(keep, ref)
			continue
		}
		delete(db.bornAt, ref)
		hdr := db.alloc.Ptr(ref)
		switch {
		case hdr.glue <= 2:
			db.core = append(db.core, ref)
		case hdr.glue <= 6:
			db.mid = append(db.mid, ref)
		default:
			db.local = append(db.local, ref)
		}
	}
	db.recent = keep
}

// Clean runs one reduction pass: it asks the deletion policy to rescore
// on the current population, then discards clauses the policy marks for
// deletion from the mid and local tiers (core and recent are never
// touched by a cleaning pass, per spec.md §4.13).
func (db *ClauseDatabase) Clean(stats Stats) []ClauseRef {
	headers := make([]*clauseHeader, 0, db.Size())
	for _, ref := range db.core {
		headers = append(headers, db.alloc.Ptr(ref))
	}
	for _, ref := range db.mid {
		headers = append(headers, db.alloc.Ptr(ref))
	}
	for _, ref := range db.local {
		headers = append(headers, db.alloc.Ptr(ref))
	}
	db.deletion.Update(headers)

	var deleted []ClauseRef
	db.mid = db.filterTier(db.mid, 1, stats, &deleted)
	db.local = db.filterTier(db.local, 2, stats, &deleted)
	return deleted
}

func (db *ClauseDatabase) filterTier(tier []ClauseRef, tierID int, stats Stats, deleted *[]ClauseRef) []ClauseRef {
	keep := tier[:0]
	for _, ref := range tier {
		hdr := db.alloc.Ptr(ref)
		if db.deletion.ShouldDelete(hdr, tierID, stats) {
			hdr.removed = true
			if db.proofSink != nil {
				_ = db.proofSink.DeleteClause(hdr.Lits())
			}
			db.alloc.Free(ref)
			*deleted = append(*deleted, ref)
			continue
		}
		keep = append(keep, ref)
	}
	return keep
}

// Rewrite replaces every ClauseRef this database holds using remap. Nothing
// in this module calls it: Inprocessor.consolidate passes the tier slices
// to ClauseAllocator.Consolidate directly.
func (db *ClauseDatabase) Rewrite(remap func(ClauseRef) ClauseRef) {
	rewrite := func(s []ClauseRef) []ClauseRef {
		out := s[:0]
		for _, ref := range s {
			nr := remap(ref)
			if nr == ClauseRefNone {
				continue
			}
			out = append(out, nr)
		}
		return out
	}
	newBorn := make(map[ClauseRef]int64, len(db.bornAt))
	for ref, age := range db.bornAt {
		if nr := remap(ref); nr != ClauseRefNone {
			newBorn[nr] = age
		}
	}
	db.bornAt = newBorn
	db.core = rewrite(db.core)
	db.mid = rewrite(db.mid)
	db.local = rewrite(db.local)
	db.recent = rewrite(db.recent)
}
