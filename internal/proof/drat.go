// Package proof emits DRAT/DRUP proof traces: one line per added learnt
// clause ("l1 ... lk 0") and one line per deleted clause ("d l1 ... lk
// 0"). Proof emission is a collaborator the solver writes events to, not
// a capability the solver owns (spec.md's Non-goals: "not an incremental
// proof checker").
package proof

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/xDarkicex/cdclsat/sat"
)

// Writer emits a DRAT proof trace to an underlying io.Writer.
type Writer struct {
	mu  sync.Mutex
	buf *bufio.Writer
}

// NewWriter wraps w in a buffered DRAT emitter.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// AddClause emits an added-clause line for lits.
func (p *Writer) AddClause(lits []sat.Lit) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeLits("", lits)
}

// DeleteClause emits a deletion line for lits.
func (p *Writer) DeleteClause(lits []sat.Lit) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeLits("d ", lits)
}

func (p *Writer) writeLits(prefix string, lits []sat.Lit) error {
	if _, err := p.buf.WriteString(prefix); err != nil {
		return err
	}
	for _, l := range lits {
		n := int(l.Var()) + 1
		if l.Sign() {
			n = -n
		}
		if _, err := fmt.Fprintf(p.buf, "%d ", n); err != nil {
			return err
		}
	}
	_, err := p.buf.WriteString("0\n")
	return err
}

// Flush flushes any buffered output to the underlying writer.
func (p *Writer) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.Flush()
}
