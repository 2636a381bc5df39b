package sat

// ReasonKind tags why a literal on the trail was propagated rather than
// decided.
type ReasonKind uint8

const (
	// ReasonNone marks a decision literal or a level-0 unit.
	ReasonNone ReasonKind = iota
	ReasonBinary
	ReasonTernary
	ReasonLong
	// ReasonGauss marks a literal propagated by the Gauss-Jordan engine;
	// its antecedents are replayed lazily (spec.md §4.10, "Reason
	// materialisation for GJ").
	ReasonGauss
)

// Reason is the tagged-union antecedent of a propagated literal. It is
// valid only while the corresponding variable remains assigned;
// cancelUntil resets it to ReasonNone when the variable is unassigned.
type Reason struct {
	Kind ReasonKind

	// Binary: Other is the one antecedent literal.
	// Ternary: Other and Third are the two antecedent literals.
	Other Lit
	Third Lit

	// Long: Clause is the offset of the propagating clause and Watch is
	// which of its two watched positions was propagated (0 or 1).
	Clause ClauseRef
	Watch  int

	// Learnt/HyperBin tag binary reasons created during probing (spec.md
	// §4.2, hyper-binary resolution).
	Learnt   bool
	HyperBin bool

	// GaussRow identifies the Gaussian matrix row to replay when Kind is
	// ReasonGauss.
	GaussRow int
}

// IsNone reports whether this reason represents a decision (or level-0
// unit), i.e. the literal has no antecedent clause.
func (r Reason) IsNone() bool { return r.Kind == ReasonNone }
