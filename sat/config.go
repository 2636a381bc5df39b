package sat

// Config is the solver's knob set. The Solver reads RestartPolicy and
// Inprocess; the remaining fields are carried for callers and are not read
// by the Solver. The cmd/cdclsat entrypoint reads its own flags and does
// not build its settings from this struct.
type Config struct {
	RestartPolicy string // "geometric" | "glue" | "agility"

	Inprocess InprocessConfig

	// ClauseDBMaxSize is a learnt-clause database size bound; the Solver
	// does not read it, and cleaning runs only at restarts.
	ClauseDBMaxSize int

	// EnablePortfolio and PortfolioShare describe multi-instance solving
	// (spec.md §8); the Solver does not read them. RunPortfolio takes its
	// shared-clause size bound as an argument.
	EnablePortfolio bool
	PortfolioShare  int // max shared-clause size

	// ProofFile names a DRAT proof path; the Solver does not read it
	// (proof emission is attached with SetProofSink).
	ProofFile string

	// StatsDSN names an SQL statistics sink; the Solver does not read it.
	StatsDSN string
}

// DefaultConfig returns the solver's default configuration.
func DefaultConfig() Config {
	return Config{
		RestartPolicy:   "glue",
		Inprocess:       DefaultInprocessConfig(),
		ClauseDBMaxSize: 20000,
		PortfolioShare:  2,
	}
}

// withDefaults fills in zero-valued fields of cfg from DefaultConfig,
// letting callers pass a partially-populated Config (e.g. only
// RestartPolicy set from a CLI flag).
func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.RestartPolicy == "" {
		cfg.RestartPolicy = def.RestartPolicy
	}
	if cfg.ClauseDBMaxSize == 0 {
		cfg.ClauseDBMaxSize = def.ClauseDBMaxSize
	}
	if cfg.PortfolioShare == 0 {
		cfg.PortfolioShare = def.PortfolioShare
	}
	if cfg.Inprocess.InprocessGap == 0 {
		cfg.Inprocess = def.Inprocess
	}
	return cfg
}
