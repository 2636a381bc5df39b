// pool.go
package sat

import "sync"

// SATPool manages sync.Pool-backed scratch buffers of the shapes listed
// below. Solver keeps a reference to the global pool, but the analyser,
// vivifier, simplifier and prober allocate their own buffers and do not
// request any from it. Grounded on the teacher package's pool.go.
type SATPool struct {
	litSlicePool   *sync.Pool // scratch []Lit, e.g. learnt-clause construction
	varSlicePool   *sync.Pool // scratch []Var, e.g. probing candidate lists
	refSlicePool   *sync.Pool // scratch []ClauseRef, e.g. subsumption worklists
	seenPool       *sync.Pool // scratch []bool indexed by Var, conflict analysis
	stampPool      *sync.Pool // scratch []int64 indexed by Var, cache/stamp minimisation
	boolIndexPool  *sync.Pool // scratch []Lbool, e.g. vivification trial assignments
}

var globalSATPool = NewSATPool()

// GetPool returns the process-wide pool instance.
func GetPool() *SATPool { return globalSATPool }

// NewSATPool creates a fresh, empty set of pools.
func NewSATPool() *SATPool {
	return &SATPool{
		litSlicePool: &sync.Pool{New: func() interface{} {
			return make([]Lit, 0, 32)
		}},
		varSlicePool: &sync.Pool{New: func() interface{} {
			return make([]Var, 0, 32)
		}},
		refSlicePool: &sync.Pool{New: func() interface{} {
			return make([]ClauseRef, 0, 64)
		}},
		seenPool: &sync.Pool{New: func() interface{} {
			return make([]bool, 0, 256)
		}},
		stampPool: &sync.Pool{New: func() interface{} {
			return make([]int64, 0, 256)
		}},
		boolIndexPool: &sync.Pool{New: func() interface{} {
			return make([]Lbool, 0, 256)
		}},
	}
}

// GetLits returns a zero-length []Lit with capacity at least size.
func (p *SATPool) GetLits(size int) []Lit {
	s := p.litSlicePool.Get().([]Lit)
	if cap(s) < size {
		return make([]Lit, 0, size)
	}
	return s[:0]
}

// PutLits returns a []Lit to the pool.
func (p *SATPool) PutLits(s []Lit) {
	if s != nil && cap(s) <= 4096 {
		p.litSlicePool.Put(s) //nolint:staticcheck // cap retained intentionally
	}
}

// GetVars returns a zero-length []Var with capacity at least size.
func (p *SATPool) GetVars(size int) []Var {
	s := p.varSlicePool.Get().([]Var)
	if cap(s) < size {
		return make([]Var, 0, size)
	}
	return s[:0]
}

// PutVars returns a []Var to the pool.
func (p *SATPool) PutVars(s []Var) {
	if s != nil && cap(s) <= 4096 {
		p.varSlicePool.Put(s)
	}
}

// GetRefs returns a zero-length []ClauseRef with capacity at least size.
func (p *SATPool) GetRefs(size int) []ClauseRef {
	s := p.refSlicePool.Get().([]ClauseRef)
	if cap(s) < size {
		return make([]ClauseRef, 0, size)
	}
	return s[:0]
}

// PutRefs returns a []ClauseRef to the pool.
func (p *SATPool) PutRefs(s []ClauseRef) {
	if s != nil && cap(s) <= 8192 {
		p.refSlicePool.Put(s)
	}
}

// GetSeen returns a []bool of length nVars, all false, used by conflict
// analysis and minimisation to mark variables already visited.
func (p *SATPool) GetSeen(nVars int) []bool {
	s := p.seenPool.Get().([]bool)
	if cap(s) < nVars {
		s = make([]bool, nVars)
	} else {
		s = s[:nVars]
		for i := range s {
			s[i] = false
		}
	}
	return s
}

// PutSeen returns a seen buffer to the pool.
func (p *SATPool) PutSeen(s []bool) {
	if s != nil && cap(s) <= 1<<20 {
		p.seenPool.Put(s[:0])
	}
}

// GetStamps returns an []int64 of length nVars, all zero, used by
// cache/stamp-based minimisation and vivification.
func (p *SATPool) GetStamps(nVars int) []int64 {
	s := p.stampPool.Get().([]int64)
	if cap(s) < nVars {
		s = make([]int64, nVars)
	} else {
		s = s[:nVars]
		for i := range s {
			s[i] = 0
		}
	}
	return s
}

// PutStamps returns a stamp buffer to the pool.
func (p *SATPool) PutStamps(s []int64) {
	if s != nil && cap(s) <= 1<<20 {
		p.stampPool.Put(s[:0])
	}
}

// GetTrialAssign returns an []Lbool of length nVars, all LUndef, used by
// the vivifier to simulate a clause shortening without touching the real
// trail.
func (p *SATPool) GetTrialAssign(nVars int) []Lbool {
	s := p.boolIndexPool.Get().([]Lbool)
	if cap(s) < nVars {
		s = make([]Lbool, nVars)
	} else {
		s = s[:nVars]
		for i := range s {
			s[i] = LUndef
		}
	}
	return s
}

// PutTrialAssign returns a trial-assignment buffer to the pool.
func (p *SATPool) PutTrialAssign(s []Lbool) {
	if s != nil && cap(s) <= 1<<20 {
		p.boolIndexPool.Put(s[:0])
	}
}
