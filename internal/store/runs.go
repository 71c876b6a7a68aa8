package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/runloop/internal/ir"
)

// Run is one recorded forwarding of a configuration.
type Run struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	ConfigFile    string `json:"config_file,omitempty"`
	ConfigHash    string `json:"config_hash"`
	Performer     string `json:"performer,omitempty"`
	ErrorCode     string `json:"error_code,omitempty"`
	Message       string `json:"message,omitempty"`
	EngineVersion string `json:"engine_version"`
}

// ErrDuplicateRun is returned when a run ID is already recorded.
var ErrDuplicateRun = errors.New("store: duplicate run id")

// WriteRun appends run to the history and returns it with ID, Seq and
// EngineVersion filled in. An empty ID is assigned from the generator.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	if run.ConfigHash == "" {
		return Run{}, fmt.Errorf("write run: config hash is required")
	}
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}
	if run.EngineVersion == "" {
		run.EngineVersion = ir.EngineVersion
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, run.ID).Scan(&exists)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	if exists > 0 {
		return Run{}, fmt.Errorf("%w: %s", ErrDuplicateRun, run.ID)
	}

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, config_file, config_hash, performer, error_code, message, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.ConfigFile,
		run.ConfigHash,
		run.Performer,
		run.ErrorCode,
		run.Message,
		run.EngineVersion,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, oldest first. limit <= 0 returns all.
// Returns an empty slice (not nil) when nothing is recorded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, seq, config_file, config_hash, performer, error_code, message, engine_version
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`
	args := []any{}
	if limit > 0 {
		query = `
			SELECT * FROM (
				SELECT id, seq, config_file, config_hash, performer, error_code, message, engine_version
				FROM runs
				ORDER BY seq DESC, id COLLATE BINARY DESC
				LIMIT ?
			)
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunsForConfig returns every run of configurations with the given hash.
func (s *Store) RunsForConfig(ctx context.Context, configHash string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, config_file, config_hash, performer, error_code, message, engine_version
		FROM runs
		WHERE config_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, configHash)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	err := rows.Scan(
		&run.ID,
		&run.Seq,
		&run.ConfigFile,
		&run.ConfigHash,
		&run.Performer,
		&run.ErrorCode,
		&run.Message,
		&run.EngineVersion,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}
