package dimacs

import (
	"strings"
	"testing"

	"github.com/xDarkicex/cdclsat/sat"
)

func TestParseBasicCNF(t *testing.T) {
	input := `c a trivial instance
p cnf 3 2
1 -2 0
c var 3 helper
c group 1 1
-1 3 0
`
	doc, err := Parse(strings.NewReader(input), false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.NVars != 3 || doc.NClauses != 2 {
		t.Fatalf("header = (%d,%d), want (3,2)", doc.NVars, doc.NClauses)
	}
	if len(doc.Clauses) != 2 {
		t.Fatalf("got %d clauses, want 2", len(doc.Clauses))
	}
	want0 := []sat.Lit{sat.MkLit(0, false), sat.MkLit(1, true)}
	for i, l := range want0 {
		if doc.Clauses[0][i] != l {
			t.Fatalf("clause 0 lit %d = %v, want %v", i, doc.Clauses[0][i], l)
		}
	}
	if doc.VarNames[sat.Var(2)] != "helper" {
		t.Fatalf("VarNames[2] = %q, want %q", doc.VarNames[sat.Var(2)], "helper")
	}
	if len(doc.Groups[1]) != 1 || doc.Groups[1][0] != 1 {
		t.Fatalf("Groups[1] = %v, want [1] (the clause after the directive)", doc.Groups[1])
	}
}

func TestParseXorLine(t *testing.T) {
	input := "p cnf 3 0\nx1 2 -3 0\n"
	doc, err := Parse(strings.NewReader(input), false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Xors) != 1 {
		t.Fatalf("got %d xor clauses, want 1", len(doc.Xors))
	}
	xc := doc.Xors[0]
	if len(xc.Vars) != 3 {
		t.Fatalf("xor has %d vars, want 3", len(xc.Vars))
	}
	if xc.RHS {
		t.Fatalf("RHS = true, want false (one negated literal flips parity once)")
	}
}

func TestParseMalformedHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("p cnf\n"), false)
	if err == nil {
		t.Fatalf("expected an error for a short 'p cnf' header")
	}
}
