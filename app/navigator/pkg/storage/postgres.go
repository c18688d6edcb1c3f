// Package storage persists workflow runs and final reports in PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/schema"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/workflow"
)

// Storage wraps the database handle. The zero value is not usable; construct
// with NewStorage.
type Storage struct {
	db *sql.DB
}

var _ workflow.RunStore = (*Storage)(nil)

// NewStorage opens a connection pool against dsn and verifies connectivity.
func NewStorage(dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.db.Close()
}

// InitSchema creates the tables if they do not exist yet.
func (s *Storage) InitSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS workflow_runs (
			id         BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL UNIQUE,
			region     TEXT NOT NULL,
			state      TEXT NOT NULL DEFAULT 'INIT',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS final_reports (
			id         BIGSERIAL PRIMARY KEY,
			run_id     BIGINT NOT NULL REFERENCES workflow_runs(id) ON DELETE CASCADE,
			report     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_workflow_runs_state ON workflow_runs(state)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// CreateRun inserts a new run record and returns its id.
func (s *Storage) CreateRun(ctx context.Context, sessionID string, region string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO workflow_runs (session_id, region) VALUES ($1, $2) RETURNING id`,
		sessionID, region,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// MarkRun updates the run's lifecycle state.
func (s *Storage) MarkRun(ctx context.Context, runID int64, state string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE workflow_runs SET state = $1, updated_at = now() WHERE id = $2`,
		state, runID,
	)
	if err != nil {
		return fmt.Errorf("mark run %d: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark run %d: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("mark run %d: no such run", runID)
	}
	return nil
}

// SaveFinalReport stores the assembled report as JSONB.
func (s *Storage) SaveFinalReport(ctx context.Context, runID int64, rep *schema.FinalReport) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO final_reports (run_id, report) VALUES ($1, $2)`,
		runID, payload,
	)
	if err != nil {
		return fmt.Errorf("save report for run %d: %w", runID, err)
	}
	return nil
}

// LoadFinalReport returns the most recent report for a session, or
// sql.ErrNoRows when none exists.
func (s *Storage) LoadFinalReport(ctx context.Context, sessionID string) (*schema.FinalReport, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT r.report FROM final_reports r
		 JOIN workflow_runs w ON w.id = r.run_id
		 WHERE w.session_id = $1
		 ORDER BY r.created_at DESC LIMIT 1`,
		sessionID,
	).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("load report for session %s: %w", sessionID, err)
	}
	var rep schema.FinalReport
	if err := json.Unmarshal(payload, &rep); err != nil {
		return nil, fmt.Errorf("decode report for session %s: %w", sessionID, err)
	}
	return &rep, nil
}
