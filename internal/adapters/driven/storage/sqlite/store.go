package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/praxis-labs/irrigo/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/core/ports/driven"
	"github.com/praxis-labs/irrigo/internal/logger"
)

// Store is the SQLite-backed plan archive.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.PlanArchive = (*Store)(nil)

// NewStore creates a plan archive at the specified data directory.
// If dataDir is empty, defaults to ~/.irrigo/data/plans.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".irrigo", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "plans.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// Save serializes the plan, verifies the round trip, and commits both
// the plan row and its index entry in one transaction. Saving an
// already-archived plan id is a no-op.
func (s *Store) Save(ctx context.Context, plan *domain.ExecutionPlan) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM plans WHERE plan_id = ?", plan.PlanID()).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking archive for plan %s: %w", plan.PlanID(), err)
	}
	if exists > 0 {
		logger.Debug("plan %s already archived; skipping", plan.PlanID()[:12])
		return nil
	}

	payload, err := domain.MarshalPlan(plan)
	if err != nil {
		return fmt.Errorf("serializing plan %s: %w", plan.PlanID(), err)
	}
	// Round-trip verification before commit: a snapshot that cannot
	// reconstruct must never enter the archive.
	snap, err := domain.UnmarshalPlanSnapshot(payload)
	if err != nil {
		return fmt.Errorf("verifying plan %s: %w", plan.PlanID(), err)
	}
	if _, err := domain.ReconstructPlan(snap); err != nil {
		return fmt.Errorf("verifying plan %s: %w", plan.PlanID(), err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	archivedAt := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (plan_id, payload, correlation_id, task_count, archived_at)
		VALUES (?, ?, ?, ?, ?)
	`, plan.PlanID(), string(payload), plan.CorrelationID(), plan.TaskCount(), archivedAt)
	if err != nil {
		return fmt.Errorf("archiving plan %s: %w", plan.PlanID(), err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plan_index (plan_id, correlation_id, task_count, archived_at)
		VALUES (?, ?, ?, ?)
	`, plan.PlanID(), plan.CorrelationID(), plan.TaskCount(), archivedAt)
	if err != nil {
		return fmt.Errorf("indexing plan %s: %w", plan.PlanID(), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing plan %s: %w", plan.PlanID(), err)
	}

	logger.Info("plan %s archived (%d task(s))", plan.PlanID()[:12], plan.TaskCount())
	return nil
}

// Load retrieves and reconstructs an archived plan by plan id.
func (s *Store) Load(ctx context.Context, planID string) (*domain.ExecutionPlan, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM plans WHERE plan_id = ?", planID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", planID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan %s: %w", planID, err)
	}

	snap, err := domain.UnmarshalPlanSnapshot([]byte(payload))
	if err != nil {
		return nil, err
	}
	return domain.ReconstructPlan(snap)
}

// List returns all index entries in append order.
func (s *Store) List(ctx context.Context) ([]driven.PlanIndexEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT plan_id, correlation_id, task_count, archived_at
		FROM plan_index ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying plan index: %w", err)
	}
	defer rows.Close()

	var entries []driven.PlanIndexEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry driven.PlanIndexEntry
		var archivedAt sql.NullTime
		if err := rows.Scan(&entry.PlanID, &entry.CorrelationID, &entry.TaskCount, &archivedAt); err != nil {
			return nil, fmt.Errorf("scanning plan index entry: %w", err)
		}
		if archivedAt.Valid {
			entry.ArchivedAt = archivedAt.Time
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan index: %w", err)
	}

	return entries, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
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
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
