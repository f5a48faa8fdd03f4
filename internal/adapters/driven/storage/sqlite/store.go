package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RunStore = (*Store)(nil)

// Store is a SQLite-backed run history store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.leadscreen/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".leadscreen", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveRun stores a completed run.
func (s *Store) SaveRun(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, mode, lead_file, delivery_file, cpc_limit, started_at, duration_ms, total_leads, passed, violation_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode = excluded.mode,
			lead_file = excluded.lead_file,
			delivery_file = excluded.delivery_file,
			cpc_limit = excluded.cpc_limit,
			started_at = excluded.started_at,
			duration_ms = excluded.duration_ms,
			total_leads = excluded.total_leads,
			passed = excluded.passed,
			violation_count = excluded.violation_count
	`, run.ID, string(run.Mode), run.LeadFile, run.DeliveryFile, run.CPCLimit,
		run.StartedAt.UTC(), run.Duration.Milliseconds(), run.TotalLeads, run.Passed, run.ViolationCount)

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// SaveViolations stores the violations of a run.
func (s *Store) SaveViolations(ctx context.Context, runID string, violations []domain.Violation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO violations (id, run_id, row_num, rule, reason, limit_n, observed, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			run_id = excluded.run_id,
			row_num = excluded.row_num,
			rule = excluded.rule,
			reason = excluded.reason,
			limit_n = excluded.limit_n,
			observed = excluded.observed,
			message = excluded.message
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, v := range violations {
		if _, err := stmt.ExecContext(ctx, v.ID, runID, v.Row, string(v.Rule),
			v.Reason, v.Limit, v.Observed, v.Message); err != nil {
			return fmt.Errorf("saving violation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	query := `
		SELECT id, mode, lead_file, delivery_file, cpc_limit, started_at, duration_ms, total_leads, passed, violation_count
		FROM runs ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, mode, lead_file, delivery_file, cpc_limit, started_at, duration_ms, total_leads, passed, violation_count
		FROM runs WHERE id = ?
	`, id)

	var run domain.Run
	var mode string
	var startedAt sql.NullTime
	var durationMS int64
	if err := row.Scan(&run.ID, &mode, &run.LeadFile, &run.DeliveryFile, &run.CPCLimit,
		&startedAt, &durationMS, &run.TotalLeads, &run.Passed, &run.ViolationCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Mode = domain.CheckMode(mode)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	if startedAt.Valid {
		run.StartedAt = startedAt.Time
	}

	return &run, nil
}

// ListViolations returns the violations of a run, in row order.
func (s *Store) ListViolations(ctx context.Context, runID string) ([]domain.Violation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, row_num, rule, reason, limit_n, observed, message
		FROM violations WHERE run_id = ?
		ORDER BY row_num
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying violations: %w", err)
	}
	defer rows.Close()

	var violations []domain.Violation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var v domain.Violation
		var rule string
		if err := rows.Scan(&v.ID, &v.Row, &rule, &v.Reason, &v.Limit, &v.Observed, &v.Message); err != nil {
			return nil, fmt.Errorf("scanning violation: %w", err)
		}
		v.Rule = domain.RuleKind(rule)
		violations = append(violations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating violations: %w", err)
	}

	return violations, nil
}

// scanRun scans a run from *sql.Rows.
func scanRun(rows *sql.Rows) (*domain.Run, error) {
	var run domain.Run
	var mode string
	var startedAt sql.NullTime
	var durationMS int64
	if err := rows.Scan(&run.ID, &mode, &run.LeadFile, &run.DeliveryFile, &run.CPCLimit,
		&startedAt, &durationMS, &run.TotalLeads, &run.Passed, &run.ViolationCount); err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Mode = domain.CheckMode(mode)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	if startedAt.Valid {
		run.StartedAt = startedAt.Time
	}

	return &run, nil
}
