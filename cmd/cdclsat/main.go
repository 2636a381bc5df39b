// Command cdclsat reads a DIMACS CNF(+XOR) instance and reports whether
// it is satisfiable, exiting 10 on SAT, 20 on UNSAT, and 15 if solving
// was interrupted before a result was reached — the exit-code convention
// the wider SAT-competition tooling this engine's ancestor participated
// in expects.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xDarkicex/cdclsat/internal/dimacs"
	"github.com/xDarkicex/cdclsat/internal/proof"
	"github.com/xDarkicex/cdclsat/internal/statsdb"
	"github.com/xDarkicex/cdclsat/sat"
)

const (
	exitSat         = 10
	exitUnsat       = 20
	exitInterrupted = 15
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd, cfg := newRootCommand()
	if err := cmd.Execute(); err != nil {
		logrus.WithError(err).Error("cdclsat: command failed")
		return 1
	}
	return cfg.exitCode
}

type rootConfig struct {
	restartPolicy string
	proofFile     string
	statsDSN      string
	metricsAddr   string
	portfolioSize int
	gzipInput     bool
	verbose       bool

	exitCode int
}

// buildSolver constructs one Solver from doc, independent of any other
// instance, so a portfolio run can spin up several identically-seeded
// but separately-decided solvers.
func buildSolver(doc *dimacs.Document, restartPolicy string) (*sat.Solver, bool) {
	solverCfg := sat.DefaultConfig()
	solverCfg.RestartPolicy = restartPolicy
	s := sat.NewSolver(solverCfg)
	for i := 0; i < doc.NVars; i++ {
		s.NewVar()
	}
	for _, cl := range doc.Clauses {
		if err := s.AddClause(cl); err != nil {
			return s, false
		}
	}
	for _, xc := range doc.Xors {
		if err := s.AddXorClause(xc.Vars, xc.RHS); err != nil {
			return s, false
		}
	}
	return s, true
}

func newRootCommand() (*cobra.Command, *rootConfig) {
	cfg := &rootConfig{}
	v := viper.New()
	v.SetEnvPrefix("CDCLSAT")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "cdclsat [file.cnf]",
		Short: "Conflict-driven clause-learning SAT solver with XOR support",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			var in *os.File
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "opening input file")
				}
				defer f.Close()
				in = f
			} else {
				in = os.Stdin
			}

			doc, err := dimacs.Parse(in, cfg.gzipInput || strings.HasSuffix(firstArg(args), ".gz"))
			if err != nil {
				return errors.Wrap(err, "parsing DIMACS input")
			}

			s, ok := buildSolver(doc, cfg.restartPolicy)
			if !ok {
				cfg.exitCode = exitUnsat
				fmt.Println("s UNSATISFIABLE")
				return nil
			}

			var pw *proof.Writer
			if cfg.proofFile != "" {
				f, err := os.Create(cfg.proofFile)
				if err != nil {
					return errors.Wrap(err, "creating proof file")
				}
				defer f.Close()
				pw = proof.NewWriter(f)
				defer pw.Flush()
				s.SetProofSink(pw)
			}

			var sink *statsdb.Sink
			if cfg.statsDSN != "" {
				sk, err := statsdb.Open(cmd.Context(), cfg.statsDSN)
				if err != nil {
					return errors.Wrap(err, "opening stats sink")
				}
				defer sk.Close()
				sink = sk
			}

			var metrics *sat.Metrics
			if cfg.metricsAddr != "" {
				reg := prometheus.NewRegistry()
				metrics = sat.NewMetrics("cdclsat")
				if err := metrics.Register(reg); err != nil {
					return errors.Wrap(err, "registering metrics")
				}
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				srv := &http.Server{Addr: cfg.metricsAddr, Handler: mux}
				go func() {
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logrus.WithError(err).Warn("cdclsat: metrics server stopped")
					}
				}()
				defer srv.Close()
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			winner := s
			var result sat.Result
			var solveErr error

			if cfg.portfolioSize > 1 {
				restarts := []string{"glue", "geometric", "agility"}
				solvers := []*sat.Solver{s}
				for i := 1; i < cfg.portfolioSize; i++ {
					extra, ok := buildSolver(doc, restarts[i%len(restarts)])
					if !ok {
						cfg.exitCode = exitUnsat
						fmt.Println("s UNSATISFIABLE")
						return nil
					}
					solvers = append(solvers, extra)
				}
				pr, err := sat.RunPortfolio(ctx, solvers, nil, 32)
				result, solveErr = pr.Result, err
				if pr.WinnerIdx >= 0 {
					winner = solvers[pr.WinnerIdx]
				}
			} else {
				result, solveErr = s.Solve(ctx, nil)
			}

			if metrics != nil {
				metrics.Observe(winner.Stats())
			}
			if sink != nil {
				_ = sink.Record(ctx, "cdclsat-run", winner.Stats())
			}

			switch result {
			case sat.ResultSat:
				fmt.Println("s SATISFIABLE")
				printModel(winner, doc.NVars)
				cfg.exitCode = exitSat
			case sat.ResultUnsat:
				fmt.Println("s UNSATISFIABLE")
				cfg.exitCode = exitUnsat
			default:
				fmt.Println("c solve interrupted")
				cfg.exitCode = exitInterrupted
				_ = solveErr
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.restartPolicy, "restart", "glue", "restart policy: geometric|glue|agility")
	flags.StringVar(&cfg.proofFile, "proof", "", "write a DRAT proof to this file")
	flags.StringVar(&cfg.statsDSN, "stats-dsn", "", "SQL DSN for periodic statistics (sqlite://path or postgres://...)")
	flags.StringVar(&cfg.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	flags.IntVar(&cfg.portfolioSize, "portfolio", 1, "run N solver instances sharing learnt clauses via a bulletin board")
	flags.BoolVar(&cfg.gzipInput, "gzip", false, "treat input as gzip-compressed")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging")
	_ = v.BindPFlags(flags)

	return cmd, cfg
}

func printModel(s *sat.Solver, nVars int) {
	var b strings.Builder
	b.WriteString("v")
	for i := 0; i < nVars; i++ {
		v := sat.Var(i)
		if s.GetModelValue(v) {
			fmt.Fprintf(&b, " %d", i+1)
		} else {
			fmt.Fprintf(&b, " -%d", i+1)
		}
	}
	b.WriteString(" 0")
	fmt.Println(b.String())
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
