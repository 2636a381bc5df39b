package sat

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BulletinBoard is the lock-protected clause exchange shared by a
// multi-instance portfolio. RunPortfolio has each instance read the board
// once before its Solve call and post its short learnt clauses only when
// Solve returns without a definite result; nothing is exchanged at
// restarts. spec.md §8 is explicit
// that this is the engine's only concurrency primitive — solvers remain
// single-threaded internally, and there is no work-stealing or shared
// search state beyond this board.
type BulletinBoard struct {
	mu       sync.Mutex
	units    []Lit
	binaries [][2]Lit
	shared   [][]Lit

	nextUnit, nextBinary, nextShared int
}

// NewBulletinBoard creates an empty board.
func NewBulletinBoard() *BulletinBoard { return &BulletinBoard{} }

// PostUnit publishes a unit clause discovered by one instance.
func (b *BulletinBoard) PostUnit(l Lit) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.units = append(b.units, l)
}

// PostBinary publishes a binary clause.
func (b *BulletinBoard) PostBinary(a, c Lit) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.binaries = append(b.binaries, [2]Lit{a, c})
}

// PostClause publishes a learnt clause; its size is not checked here.
func (b *BulletinBoard) PostClause(lits []Lit) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shared = append(b.shared, append([]Lit(nil), lits...))
}

// BoardReader tracks one instance's read position into the board so
// repeated Drain calls only return newly posted clauses.
type BoardReader struct {
	board                              *BulletinBoard
	unitPos, binaryPos, sharedPos int
}

// NewReader creates a reader starting at the beginning of the board, so
// its first Drain returns everything posted so far.
func (b *BulletinBoard) NewReader() *BoardReader {
	return &BoardReader{board: b}
}

// Drain returns every clause posted since this reader's last Drain call.
func (r *BoardReader) Drain() (units []Lit, binaries [][2]Lit, shared [][]Lit) {
	b := r.board
	b.mu.Lock()
	defer b.mu.Unlock()
	units = append(units, b.units[r.unitPos:]...)
	binaries = append(binaries, b.binaries[r.binaryPos:]...)
	shared = append(shared, b.shared[r.sharedPos:]...)
	r.unitPos, r.binaryPos, r.sharedPos = len(b.units), len(b.binaries), len(b.shared)
	return
}

// ImportFromBoard ingests a reader's drained clauses into s as new
// irredundant unit/binary clauses or redundant learnt clauses.
// RunPortfolio calls it once per instance, before Solve.
func (s *Solver) ImportFromBoard(r *BoardReader) {
	units, binaries, shared := r.Drain()
	for _, u := range units {
		if s.Value(u) == LUndef {
			s.units = append(s.units, u)
		}
	}
	for _, bn := range binaries {
		_ = s.AddClause([]Lit{bn[0], bn[1]})
	}
	for _, cl := range shared {
		ref, err := s.alloc.Alloc(cl, true)
		if err != nil {
			continue
		}
		s.learnts = append(s.learnts, ref)
		attachNewClause(s, ref, cl, true)
	}
}

// ExportToBoard posts every attached learnt clause of at most maxSize
// literals onto the board. RunPortfolio calls it once per instance, after
// Solve returns without a definite result.
func (s *Solver) ExportToBoard(board *BulletinBoard, maxSize int) {
	for _, ref := range s.learnts {
		hdr := s.alloc.Ptr(ref)
		if !hdr.attached() || hdr.Size() > maxSize {
			continue
		}
		switch hdr.Size() {
		case 1:
			board.PostUnit(hdr.Lits()[0])
		case 2:
			board.PostBinary(hdr.Lits()[0], hdr.Lits()[1])
		default:
			board.PostClause(hdr.Lits())
		}
	}
}

// PortfolioResult is the outcome of running a multi-instance portfolio.
type PortfolioResult struct {
	Result    Result
	WinnerIdx int
}

// RunPortfolio runs len(solvers) instances concurrently via
// golang.org/x/sync/errgroup, sharing learnt clauses through a common
// BulletinBoard: each instance imports from the board once before Solve
// and exports only if Solve ends without a definite result, so clauses
// are not exchanged during search. The first instance to reach a definite
// SAT/UNSAT result
// interrupts the others (spec.md §8: "not an algorithmic parallel
// portfolio" — there is no split of the search space, only independent
// instances exchanging short clauses).
func RunPortfolio(ctx context.Context, solvers []*Solver, assumptions []Lit, shareMaxSize int) (PortfolioResult, error) {
	board := NewBulletinBoard()
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	result := PortfolioResult{WinnerIdx: -1}

	for i, s := range solvers {
		i, s := i, s
		reader := board.NewReader()
		g.Go(func() error {
			s.ImportFromBoard(reader)
			r, err := s.Solve(gctx, assumptions)
			if r == ResultSat || r == ResultUnsat {
				mu.Lock()
				if result.WinnerIdx == -1 {
					result.WinnerIdx = i
					result.Result = r
				}
				mu.Unlock()
				for _, other := range solvers {
					if other != s {
						other.Interrupt()
					}
				}
				return nil
			}
			s.ExportToBoard(board, shareMaxSize)
			return err
		})
	}

	if err := g.Wait(); err != nil && result.WinnerIdx == -1 {
		return result, err
	}
	return result, nil
}
