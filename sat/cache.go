package sat

// ImplicationCache records, for each literal, a set of literals known to
// follow from it — a monotonically growing cache consulted by
// vivification (spec.md §4.11; grounded on
// original_source/Solver/BothCache.cpp's "both" cache of
// implications-from-true and implications-from-false). Nothing in this
// module calls Add: probing does not fill it, so it stays empty.
type ImplicationCache struct {
	implied [][]Lit // indexed by Lit
	member  []map[Lit]bool
}

// NewImplicationCache creates an empty cache.
func NewImplicationCache() *ImplicationCache {
	return &ImplicationCache{}
}

// Grow extends the cache to cover nVars variables.
func (c *ImplicationCache) Grow(nVars int) {
	need := 2 * nVars
	for len(c.implied) < need {
		c.implied = append(c.implied, nil)
		c.member = append(c.member, nil)
	}
}

// Add records that lit implies target, skipping duplicates. Only
// non-learnt-derived implications are recorded, per spec.md's "cache
// tracks a non-learnt-only tag" invariant — callers are responsible for
// only calling Add from a non-learnt propagation context.
func (c *ImplicationCache) Add(lit, target Lit) {
	if c.member[lit] == nil {
		c.member[lit] = make(map[Lit]bool)
	}
	if c.member[lit][target] {
		return
	}
	c.member[lit][target] = true
	c.implied[lit] = append(c.implied[lit], target)
}

// Get returns the literals known to be implied by lit.
func (c *ImplicationCache) Get(lit Lit) []Lit {
	return c.implied[lit]
}

// Implies reports whether lit is cached as implying target.
func (c *ImplicationCache) Implies(lit, target Lit) bool {
	return c.member[lit] != nil && c.member[lit][target]
}

// Prune discards every cached entry that mentions an eliminated variable,
// called after variable elimination or replacement invalidates part of
// the implication graph the cache summarised.
func (c *ImplicationCache) Prune(eliminated func(Var) bool) {
	for lit := range c.implied {
		if eliminated(Lit(lit).Var()) {
			c.implied[lit] = nil
			c.member[lit] = nil
			continue
		}
		kept := c.implied[lit][:0]
		for _, t := range c.implied[lit] {
			if !eliminated(t.Var()) {
				kept = append(kept, t)
			} else {
				delete(c.member[lit], t)
			}
		}
		c.implied[lit] = kept
	}
}
