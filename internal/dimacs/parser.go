// Package dimacs parses DIMACS CNF files extended with the native XOR
// line ("x ... 0"), grouping/metadata comments ("c var", "c group") and
// embedded library-mode incremental-solve directives
// ("c Solver::solve()", "c Solver::newVar()"). It is a collaborator to
// the sat package, never imported by it, matching the solver's explicit
// non-goal of owning its own input format (spec.md's Non-goals).
package dimacs

import (
	"bufio"
	"compress/gzip"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xDarkicex/cdclsat/sat"
)

// ErrMalformed wraps every parse failure this package returns.
var ErrMalformed = errors.New("dimacs: malformed input")

// LibraryDirective is one embedded incremental-solve command found in a
// "c Solver::..." comment line.
type LibraryDirective struct {
	Kind string // "newVar" | "solve"
	Part int    // sequential index, used to name debugLibPart<k>.output
}

// Document is the parsed result of one DIMACS stream.
type Document struct {
	NVars, NClauses int
	Clauses         [][]sat.Lit
	Xors            []sat.XORClause
	VarNames        map[sat.Var]string
	Groups          map[int][]int // group id -> clause indices
	Directives      []LibraryDirective
}

// Parse reads a DIMACS CNF(+XOR) stream from r. If gzipped is true, r is
// first wrapped in a gzip.Reader (the solver has no opinion on this —
// gzip tolerance is the parser's own concern, per spec.md's AMBIENT
// STACK notes on input handling).
func Parse(r io.Reader, gzipped bool) (*Document, error) {
	if gzipped {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "dimacs: opening gzip stream")
		}
		defer gz.Close()
		r = gz
	}

	doc := &Document{
		VarNames: make(map[sat.Var]string),
		Groups:   make(map[int][]int),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	libPart := 0
	clauseIdx := 0

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "c var "):
			parseVarDirective(doc, line)
		case strings.HasPrefix(line, "c group "):
			parseGroupDirective(doc, line, clauseIdx)
		case strings.HasPrefix(line, "c Solver::newVar"):
			doc.Directives = append(doc.Directives, LibraryDirective{Kind: "newVar", Part: libPart})
		case strings.HasPrefix(line, "c Solver::solve"):
			doc.Directives = append(doc.Directives, LibraryDirective{Kind: "solve", Part: libPart})
			libPart++
		case strings.HasPrefix(line, "c"):
			// ordinary comment, ignored
		case strings.HasPrefix(line, "p cnf"):
			n, m, err := parseHeader(line)
			if err != nil {
				return nil, err
			}
			doc.NVars, doc.NClauses = n, m
		case strings.HasPrefix(line, "x"):
			xc, err := parseXorLine(line)
			if err != nil {
				return nil, err
			}
			doc.Xors = append(doc.Xors, xc)
		default:
			lits, err := parseClauseLine(line)
			if err != nil {
				return nil, err
			}
			doc.Clauses = append(doc.Clauses, lits)
			clauseIdx++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "dimacs: scanning input")
	}
	return doc, nil
}

func parseHeader(line string) (nvars, nclauses int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return 0, 0, errors.Wrap(ErrMalformed, "short 'p cnf' header")
	}
	nvars, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, errors.Wrap(ErrMalformed, "non-integer variable count")
	}
	nclauses, err = strconv.Atoi(fields[3])
	if err != nil {
		return 0, 0, errors.Wrap(ErrMalformed, "non-integer clause count")
	}
	return nvars, nclauses, nil
}

func parseClauseLine(line string) ([]sat.Lit, error) {
	fields := strings.Fields(line)
	lits := make([]sat.Lit, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "non-integer literal %q", f)
		}
		if n == 0 {
			break
		}
		lits = append(lits, dimacsLit(n))
	}
	return lits, nil
}

func parseXorLine(line string) (sat.XORClause, error) {
	body := strings.TrimPrefix(line, "x")
	fields := strings.Fields(body)
	var xc sat.XORClause
	rhs := true
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return xc, errors.Wrapf(ErrMalformed, "non-integer XOR literal %q", f)
		}
		if n == 0 {
			break
		}
		if n < 0 {
			rhs = !rhs
			n = -n
		}
		xc.Vars = append(xc.Vars, sat.Var(n-1))
	}
	xc.RHS = rhs
	xc.Normalize()
	return xc, nil
}

func dimacsLit(n int) sat.Lit {
	if n < 0 {
		return sat.MkLit(sat.Var(-n-1), true)
	}
	return sat.MkLit(sat.Var(n-1), false)
}

func parseVarDirective(doc *Document, line string) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return
	}
	doc.VarNames[sat.Var(n-1)] = strings.Join(fields[3:], " ")
}

func parseGroupDirective(doc *Document, line string, clauseIdx int) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return
	}
	g, err := strconv.Atoi(fields[2])
	if err != nil {
		return
	}
	doc.Groups[g] = append(doc.Groups[g], clauseIdx)
}
