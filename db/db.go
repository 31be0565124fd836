package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/docutag/articlegen/apperrors"
	"github.com/docutag/articlegen/models"
)

// DB wraps the database connection and provides data access methods
type DB struct {
	conn *sql.DB
}

// Config contains database configuration
type Config struct {
	DSN string // PostgreSQL connection string
}

// New creates a new database connection and applies pending migrations
func New(config Config) (*DB, error) {
	conn, err := Open(config)
	if err != nil {
		return nil, err
	}

	// Run PostgreSQL migrations
	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Open connects to PostgreSQL without running migrations
func Open(config Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	return conn, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// DB returns the underlying database connection
func (db *DB) DB() *sql.DB {
	return db.conn
}

// RunFromResult summarizes a batch result for storage
func RunFromResult(result *models.BatchResult, status string) *models.Run {
	run := &models.Run{
		ID:        result.RunID,
		Strict:    result.Strict,
		Rows:      len(result.Verdicts),
		Failed:    len(result.FailedRows()),
		Status:    status,
		CreatedAt: result.CreatedAt,
	}

	filenames := make(map[int]models.GeneratedDocument, len(result.Documents))
	for _, doc := range result.Documents {
		filenames[doc.Row] = doc
	}
	for _, v := range result.Verdicts {
		doc := filenames[v.Row]
		run.Documents = append(run.Documents, models.RunDocument{
			Row:      v.Row,
			Filename: doc.Filename,
			Link:     doc.Link,
			Passed:   v.Passed,
		})
	}
	return run
}

// SaveRun saves a run and its documents to the database
func (db *DB) SaveRun(ctx context.Context, run *models.Run) error {
	// Begin transaction to save the run and its documents atomically
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO articlegen_runs (id, status, strict, row_count, failed_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			strict = excluded.strict,
			row_count = excluded.row_count,
			failed_count = excluded.failed_count
	`
	if _, err := tx.ExecContext(ctx, query, run.ID, run.Status, run.Strict, run.Rows, run.Failed, createdAt); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	// Replace documents when a run is saved again
	if _, err := tx.ExecContext(ctx, "DELETE FROM articlegen_documents WHERE run_id = $1", run.ID); err != nil {
		return fmt.Errorf("failed to delete old documents: %w", err)
	}

	for _, doc := range run.Documents {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO articlegen_documents (run_id, row_index, filename, link, passed)
			VALUES ($1, $2, $3, $4, $5)
		`, run.ID, doc.Row, doc.Filename, doc.Link, doc.Passed)
		if err != nil {
			return fmt.Errorf("failed to save document row %d: %w", doc.Row, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRun retrieves a run and its documents by ID
// Returns nil, nil when no run exists with that ID
func (db *DB) GetRun(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, status, strict, row_count, failed_count, created_at
		FROM articlegen_runs WHERE id = $1
	`, id).Scan(&run.ID, &run.Status, &run.Strict, &run.Rows, &run.Failed, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT row_index, filename, link, passed
		FROM articlegen_documents WHERE run_id = $1
		ORDER BY row_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc models.RunDocument
		if err := rows.Scan(&doc.Row, &doc.Filename, &doc.Link, &doc.Passed); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		run.Documents = append(run.Documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &run, nil
}

// ListRuns returns run summaries, newest first, with pagination
func (db *DB) ListRuns(ctx context.Context, limit, offset int) ([]*models.Run, error) {
	query := `
		SELECT id, status, strict, row_count, failed_count, created_at
		FROM articlegen_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var results []*models.Run
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(&run.ID, &run.Status, &run.Strict, &run.Rows, &run.Failed, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// Count returns the total count of stored runs
func (db *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM articlegen_runs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// DeleteRun deletes a run and its documents by ID
func (db *DB) DeleteRun(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, "DELETE FROM articlegen_runs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return apperrors.NotFound(fmt.Sprintf("no run found with id: %s", id))
	}

	return nil
}
