package sat

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors a long-running solving service
// (e.g. the cmd/cdclsat CLI run with --metrics-addr, or a portfolio worker)
// registers to expose search progress. Grounded on the operator-framework
// example repo's use of client_golang for controller metrics, adapted to
// the solver's own counters.
type Metrics struct {
	Decisions      prometheus.Counter
	Propagations   prometheus.Counter
	Conflicts      prometheus.Counter
	Restarts       prometheus.Counter
	LearnedClauses prometheus.Counter
	DeletedClauses prometheus.Counter
	AvgLBD         prometheus.Gauge
	InprocessRuns  prometheus.Counter
}

// NewMetrics creates an unregistered Metrics set.
func NewMetrics(namespace string) *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "solver", Name: name, Help: help,
		})
	}
	return &Metrics{
		Decisions:      counter("decisions_total", "Number of decisions made."),
		Propagations:   counter("propagations_total", "Number of literals propagated."),
		Conflicts:      counter("conflicts_total", "Number of conflicts encountered."),
		Restarts:       counter("restarts_total", "Number of search restarts."),
		LearnedClauses: counter("learned_clauses_total", "Number of clauses learnt."),
		DeletedClauses: counter("deleted_clauses_total", "Number of learnt clauses deleted."),
		AvgLBD: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "solver", Name: "avg_lbd", Help: "Exponential moving average of learnt clause LBD.",
		}),
		InprocessRuns: counter("inprocess_runs_total", "Number of inprocessing rounds run."),
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	cs := []prometheus.Collector{
		m.Decisions, m.Propagations, m.Conflicts, m.Restarts,
		m.LearnedClauses, m.DeletedClauses, m.AvgLBD, m.InprocessRuns,
	}
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Observe adds a Stats snapshot's totals to the registered counters and
// sets the AvgLBD gauge; each call adds the full totals again. The CLI
// calls it once per run, after Solve, not from inside the hot search loop.
func (m *Metrics) Observe(stats Stats) {
	m.InprocessRuns.Add(float64(stats.InprocessRuns))
	m.Decisions.Add(float64(stats.Decisions))
	m.Propagations.Add(float64(stats.Propagations))
	m.Conflicts.Add(float64(stats.Conflicts))
	m.Restarts.Add(float64(stats.Restarts))
	m.LearnedClauses.Add(float64(stats.LearnedClauses))
	m.DeletedClauses.Add(float64(stats.DeletedClauses))
	m.AvgLBD.Set(stats.AvgLBD)
}
