package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sqlc-dev/pqtype"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Extraction statuses stored in extractions.status.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Extraction is a row of the extractions table. Output holds the
// serialized result of a completed run.
type Extraction struct {
	ID        uuid.UUID
	URL       string
	ProjectID string
	Tier      string
	Status    string
	Error     sql.NullString
	Output    pqtype.NullRawMessage
	CreatedAt time.Time
}

// Store wraps access to the database.
type Store struct {
	DB *sql.DB
}

// New creates a new Store that uses a shared *sql.DB with pooling.
func New(database *sql.DB) *Store {
	return &Store{DB: database}
}

// Open connects to Postgres through the pgx stdlib driver and verifies the
// connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return New(db), nil
}

// SaveExtraction inserts one extraction record. output may be nil for
// failed runs; errMsg is stored only when non-empty.
func (s *Store) SaveExtraction(ctx context.Context, id uuid.UUID, url, projectID, tier, status, errMsg string, output any) error {
	var raw pqtype.NullRawMessage
	if output != nil {
		payload, err := json.Marshal(output)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		raw = pqtype.NullRawMessage{RawMessage: payload, Valid: true}
	}
	var sqlErr sql.NullString
	if errMsg != "" {
		sqlErr = sql.NullString{String: errMsg, Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
INSERT INTO extractions (id, url, project_id, tier, status, error, output)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, url, projectID, tier, status, sqlErr, raw)
	if err != nil {
		return fmt.Errorf("insert extraction: %w", err)
	}
	return nil
}

// GetExtraction loads one record by ID.
func (s *Store) GetExtraction(ctx context.Context, id uuid.UUID) (Extraction, error) {
	var e Extraction
	err := s.DB.QueryRowContext(ctx, `
SELECT id, url, project_id, tier, status, error, output, created_at
FROM extractions WHERE id = $1`, id).
		Scan(&e.ID, &e.URL, &e.ProjectID, &e.Tier, &e.Status, &e.Error, &e.Output, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Extraction{}, ErrNotFound
	}
	if err != nil {
		return Extraction{}, fmt.Errorf("get extraction: %w", err)
	}
	return e, nil
}

// DeleteExpiredExtractions removes records created before cutoff and
// returns the project IDs that no longer have any record left, so their
// stored assets can be removed too.
func (s *Store) DeleteExpiredExtractions(ctx context.Context, cutoff time.Time) (int64, []string, error) {
	rows, err := s.DB.QueryContext(ctx, `
DELETE FROM extractions WHERE created_at < $1
RETURNING project_id`, cutoff)
	if err != nil {
		return 0, nil, fmt.Errorf("delete extractions: %w", err)
	}

	var (
		n    int64
		seen = map[string]bool{}
		pids []string
	)
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			rows.Close()
			return n, nil, fmt.Errorf("scan project id: %w", err)
		}
		n++
		if !seen[pid] {
			seen[pid] = true
			pids = append(pids, pid)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return n, nil, fmt.Errorf("delete extractions: %w", err)
	}

	orphaned := pids[:0]
	for _, pid := range pids {
		var exists bool
		if err := s.DB.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM extractions WHERE project_id = $1)`, pid).Scan(&exists); err != nil {
			return n, nil, fmt.Errorf("check project %s: %w", pid, err)
		}
		if !exists {
			orphaned = append(orphaned, pid)
		}
	}
	return n, orphaned, nil
}

// Ping checks the database connection for deep health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
