package proof

import (
	"bytes"
	"testing"

	"github.com/xDarkicex/cdclsat/sat"
)

func TestWriterEmitsAddAndDeleteLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.AddClause([]sat.Lit{sat.MkLit(0, false), sat.MkLit(1, true)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if err := w.DeleteClause([]sat.Lit{sat.MkLit(0, false)}); err != nil {
		t.Fatalf("DeleteClause: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := "1 -2 0\nd 1 0\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}
