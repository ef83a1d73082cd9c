// ABOUTME: SQL persistence of restoration runs and their daily timelines
// ABOUTME: Backed by SQLite (modernc, pure Go) or PostgreSQL (pgx) depending on the DSN

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/markalston/grid-restore/models"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when a run ID has no stored row
var ErrRunNotFound = errors.New("run not found")

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store saves and loads runs
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

// Open connects to the database named by dsn and creates the schema.
// postgres:// and postgresql:// DSNs use pgx; anything else is a SQLite path,
// optionally prefixed with sqlite://. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("open store: empty DSN")
	}

	s := &Store{logger: logger}
	var (
		db  *sql.DB
		err error
	)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		s.dialect = dialectPostgres
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open store: open postgres database: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	} else {
		s.dialect = dialectSQLite
		path := strings.TrimPrefix(dsn, "sqlite://")
		db, err = sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("open store: open sqlite database %q: %w", path, err)
		}
		// One connection: SQLite serializes writers, and each :memory: connection is its own database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open store: verify connection: %w", err)
	}
	s.db = db

	if err := s.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// InitSchema creates the runs and timeline tables if they do not exist
func (s *Store) InitSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		budget DOUBLE PRECISION NOT NULL,
		delay_days INTEGER NOT NULL,
		sort_type TEXT NOT NULL,
		sort_order TEXT NOT NULL,
		sort_update BOOLEAN NOT NULL,
		restore_method TEXT NOT NULL,
		locations INTEGER NOT NULL,
		population DOUBLE PRECISION NOT NULL,
		initial_outage DOUBLE PRECISION NOT NULL,
		final_outage DOUBLE PRECISION NOT NULL,
		total_repair_cost DOUBLE PRECISION NOT NULL,
		estimated_repair_days DOUBLE PRECISION NOT NULL,
		days_simulated INTEGER NOT NULL,
		days_to_restore INTEGER NOT NULL,
		total_spent DOUBLE PRECISION NOT NULL,
		converged BOOLEAN NOT NULL,
		phase TEXT NOT NULL
	);
	`

	createTimelineQuery := `
	CREATE TABLE IF NOT EXISTS timeline (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		day INTEGER NOT NULL,
		costs DOUBLE PRECISION NOT NULL,
		total_outage_fr DOUBLE PRECISION NOT NULL,
		total_pwr_fr DOUBLE PRECISION NOT NULL,
		pop_wo_pwr DOUBLE PRECISION NOT NULL,
		pop_w_pwr DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, day)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_runs_scenario_created
	ON runs(scenario, created_at);
	`

	statements := []string{
		createRunsQuery,
		createTimelineQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

// SaveRun stores a run summary and its timeline in one transaction
func (s *Store) SaveRun(ctx context.Context, summary models.RunSummary, timeline models.Timeline) (err error) {
	defer s.timeOp(ctx, "store.SaveRun")(&err)

	if summary.RunID == "" {
		return errors.New("save run: run ID must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertRun := s.rebind(`
	INSERT INTO runs (
		run_id, scenario, created_at, budget, delay_days, sort_type, sort_order, sort_update,
		restore_method, locations, population, initial_outage, final_outage, total_repair_cost,
		estimated_repair_days, days_simulated, days_to_restore, total_spent, converged, phase
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	o := summary.Options
	if _, err := tx.ExecContext(ctx, insertRun,
		summary.RunID, summary.Scenario, time.Now().UnixNano(), o.Budget, o.Delay,
		o.SortType.String(), o.SortOrder.String(), o.SortUpdate, o.RestoreMethod.String(),
		summary.Locations, summary.Population, summary.InitialOutage, summary.FinalOutage,
		summary.TotalRepairCost, summary.EstimatedRepairDays, summary.DaysSimulated,
		summary.DaysToRestore, summary.TotalSpent, summary.Converged, summary.Phase.String(),
	); err != nil {
		return fmt.Errorf("save run: insert run_id=%s: %w", summary.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
	INSERT INTO timeline (run_id, day, costs, total_outage_fr, total_pwr_fr, pop_wo_pwr, pop_w_pwr)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save run: prepare timeline insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range timeline {
		if _, err := stmt.ExecContext(ctx, summary.RunID, r.Time, r.Costs, r.OutageFraction, r.PowerFraction, r.PopWithout, r.PopWith); err != nil {
			return fmt.Errorf("save run: insert day=%d: %w", r.Time, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit tx: %w", err)
	}
	return nil
}

// LoadTimeline returns the stored timeline of a run in day order
func (s *Store) LoadTimeline(ctx context.Context, runID string) (_ models.Timeline, err error) {
	defer s.timeOp(ctx, "store.LoadTimeline")(&err)

	var exists int
	err = s.db.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM runs WHERE run_id = ?;`), runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load timeline %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load timeline: query run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`
	SELECT day, costs, total_outage_fr, total_pwr_fr, pop_wo_pwr, pop_w_pwr
	FROM timeline
	WHERE run_id = ?
	ORDER BY day;
	`), runID)
	if err != nil {
		return nil, fmt.Errorf("load timeline: query timeline: %w", err)
	}
	defer rows.Close()

	timeline := models.Timeline{}
	for rows.Next() {
		var r models.RestorationRecord
		if err := rows.Scan(&r.Time, &r.Costs, &r.OutageFraction, &r.PowerFraction, &r.PopWithout, &r.PopWith); err != nil {
			return nil, fmt.Errorf("load timeline: scan rows: %w", err)
		}
		timeline = append(timeline, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load timeline: iterate rows: %w", err)
	}
	return timeline, nil
}

// ListRuns returns every stored run summary, oldest first.
// An empty scenario lists all scenarios.
func (s *Store) ListRuns(ctx context.Context, scenario string) (_ []models.RunSummary, err error) {
	defer s.timeOp(ctx, "store.ListRuns")(&err)

	q := `
	SELECT run_id, scenario, budget, delay_days, sort_type, sort_order, sort_update, restore_method,
		locations, population, initial_outage, final_outage, total_repair_cost, estimated_repair_days,
		days_simulated, days_to_restore, total_spent, converged, phase
	FROM runs
	WHERE (? = '' OR scenario = ?)
	ORDER BY created_at, run_id;
	`
	rows, err := s.db.QueryContext(ctx, s.rebind(q), scenario, scenario)
	if err != nil {
		return nil, fmt.Errorf("list runs: query runs: %w", err)
	}
	defer rows.Close()

	var out []models.RunSummary
	for rows.Next() {
		var (
			sm                                 models.RunSummary
			sortType, sortOrder, method, phase string
		)
		if err := rows.Scan(
			&sm.RunID, &sm.Scenario, &sm.Options.Budget, &sm.Options.Delay, &sortType, &sortOrder,
			&sm.Options.SortUpdate, &method, &sm.Locations, &sm.Population, &sm.InitialOutage,
			&sm.FinalOutage, &sm.TotalRepairCost, &sm.EstimatedRepairDays, &sm.DaysSimulated,
			&sm.DaysToRestore, &sm.TotalSpent, &sm.Converged, &phase,
		); err != nil {
			return nil, fmt.Errorf("list runs: scan rows: %w", err)
		}
		if err := errors.Join(
			sm.Options.SortType.UnmarshalText([]byte(sortType)),
			sm.Options.SortOrder.UnmarshalText([]byte(sortOrder)),
			sm.Options.RestoreMethod.UnmarshalText([]byte(method)),
			sm.Phase.UnmarshalText([]byte(phase)),
		); err != nil {
			return nil, fmt.Errorf("list runs: run_id=%s: %w", sm.RunID, err)
		}
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: iterate rows: %w", err)
	}
	return out, nil
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL
func (s *Store) rebind(q string) string {
	if s.dialect != dialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// timeOp logs the duration of a store operation and its error, if any
func (s *Store) timeOp(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		dur := time.Since(start)
		if errp != nil && *errp != nil {
			s.logger.WarnContext(ctx, "Store operation failed", "op", name, "dur_ms", dur.Milliseconds(), "error", *errp)
			return
		}
		s.logger.DebugContext(ctx, "Store operation", "op", name, "dur_ms", dur.Milliseconds())
	}
}
