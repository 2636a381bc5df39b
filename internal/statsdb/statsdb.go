// Package statsdb persists periodic solver statistics snapshots to a SQL
// database, selecting the driver from the DSN scheme: "sqlite://" or a
// bare file path uses github.com/mattn/go-sqlite3, "postgres://" uses
// github.com/lib/pq. Grounded on original_source/cmsat/sqlitestats.cpp
// and src/sqlitestats.cpp, generalised to also support Postgres the way
// the rest of the example pack's services do.
package statsdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/xDarkicex/cdclsat/sat"
)

// Sink periodically writes Stats snapshots to a backing SQL table.
type Sink struct {
	db       *sql.DB
	postgres bool
}

// Open opens a Sink for dsn, creating the statistics table if absent.
func Open(ctx context.Context, dsn string) (*Sink, error) {
	driver, dataSource := driverFor(dsn)
	db, err := sql.Open(driver, dataSource)
	if err != nil {
		return nil, errors.Wrapf(err, "statsdb: opening %s", driver)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "statsdb: ping")
	}
	s := &Sink{db: db, postgres: driver == "postgres"}
	if err := s.createTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func driverFor(dsn string) (driver, dataSource string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite3", strings.TrimPrefix(dsn, "sqlite://")
	default:
		return "sqlite3", dsn
	}
}

func (s *Sink) createTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS solver_stats (
	run_id TEXT NOT NULL,
	recorded_at TIMESTAMP NOT NULL,
	decisions BIGINT NOT NULL,
	propagations BIGINT NOT NULL,
	conflicts BIGINT NOT NULL,
	restarts BIGINT NOT NULL,
	learned_clauses BIGINT NOT NULL,
	deleted_clauses BIGINT NOT NULL,
	avg_lbd DOUBLE PRECISION NOT NULL,
	inprocess_runs BIGINT NOT NULL,
	variables_eliminated BIGINT NOT NULL
)`)
	return errors.Wrap(err, "statsdb: create table")
}

// Record inserts one Stats snapshot for runID.
func (s *Sink) Record(ctx context.Context, runID string, st sat.Stats) error {
	query := `
INSERT INTO solver_stats
	(run_id, recorded_at, decisions, propagations, conflicts, restarts,
	 learned_clauses, deleted_clauses, avg_lbd, inprocess_runs, variables_eliminated)
VALUES (` + placeholders(s.postgres, 11) + `)`
	_, err := s.db.ExecContext(ctx, query,
		runID, time.Now().UTC(), st.Decisions, st.Propagations, st.Conflicts, st.Restarts,
		st.LearnedClauses, st.DeletedClauses, st.AvgLBD, st.InprocessRuns, st.VariablesEliminated)
	return errors.Wrap(err, "statsdb: insert")
}

// placeholders builds a comma-separated bind-parameter list in the style
// the selected driver expects: "$1, $2, ..." for lib/pq, "?, ?, ..." for
// go-sqlite3.
func placeholders(postgres bool, n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(", ")
		}
		if postgres {
			fmt.Fprintf(&b, "$%d", i)
		} else {
			b.WriteString("?")
		}
	}
	return b.String()
}

// Close releases the underlying database handle.
func (s *Sink) Close() error { return s.db.Close() }
