package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/RMahshie/srfresample/internal/repository"
	"github.com/RMahshie/srfresample/pkg/models"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresRunRepository implements RunRepository for PostgreSQL
type PostgresRunRepository struct {
	db *sql.DB
}

// NewPostgresRunRepository creates a new PostgreSQL run repository
func NewPostgresRunRepository(db *sql.DB) repository.RunRepository {
	return &PostgresRunRepository{db: db}
}

// Open connects to the database at url and verifies the connection
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded schema migrations in file name order
func Migrate(ctx context.Context, db *sql.DB) error {
	names, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		stmt, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}
	}
	return nil
}

// Create inserts a new run record
func (r *PostgresRunRepository) Create(ctx context.Context, run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Status == "" {
		run.Status = models.StatusPending
	}

	query := `
		INSERT INTO runs (id, status, progress, input_key, output_key, separator, skip_lines,
		                  wavelength_column, response_column, step, method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		run.ID,
		run.Status,
		run.Progress,
		run.InputKey,
		run.OutputKey,
		run.Parse.Separator,
		run.Parse.SkipLines,
		run.Parse.WavelengthColumn,
		run.Parse.ResponseColumn,
		run.Step,
		string(run.Method)).Scan(&run.CreatedAt, &run.UpdatedAt)
}

// GetByID retrieves a run by ID
func (r *PostgresRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	query := `
		SELECT id, status, progress, input_key, output_key, separator, skip_lines,
		       wavelength_column, response_column, step, method, error_message,
		       created_at, updated_at, completed_at
		FROM runs
		WHERE id = $1`

	var run models.Run
	var method string
	var errorMsg sql.NullString
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.Status,
		&run.Progress,
		&run.InputKey,
		&run.OutputKey,
		&run.Parse.Separator,
		&run.Parse.SkipLines,
		&run.Parse.WavelengthColumn,
		&run.Parse.ResponseColumn,
		&run.Step,
		&method,
		&errorMsg,
		&run.CreatedAt,
		&run.UpdatedAt,
		&completedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	run.Method = models.ResampleMethod(method)
	if errorMsg.Valid {
		run.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return &run, nil
}

// UpdateStatus updates the status and progress of a run
func (r *PostgresRunRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE runs
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, status, progress, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateError marks a run as failed with a message
func (r *PostgresRunRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE runs
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, errorMsg, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// StoreResults stores the resampled series of a run
func (r *PostgresRunRepository) StoreResults(ctx context.Context, results *models.RunResults) error {
	samples, err := json.Marshal(results.Samples)
	if err != nil {
		return fmt.Errorf("failed to marshal samples: %w", err)
	}

	query := `
		INSERT INTO run_results (id, run_id, input_count, sample_count, samples, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		results.ID,
		results.RunID,
		results.InputCount,
		results.SampleCount,
		string(samples),
		results.CreatedAt)

	return err
}

// GetResults retrieves the results of a run
func (r *PostgresRunRepository) GetResults(ctx context.Context, runID uuid.UUID) (*models.RunResults, error) {
	query := `
		SELECT id, run_id, input_count, sample_count, samples, created_at
		FROM run_results
		WHERE run_id = $1`

	var results models.RunResults
	var samples []byte

	err := r.db.QueryRowContext(ctx, query, runID).Scan(
		&results.ID,
		&results.RunID,
		&results.InputCount,
		&results.SampleCount,
		&samples,
		&results.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(samples, &results.Samples); err != nil {
		return nil, fmt.Errorf("failed to unmarshal samples: %w", err)
	}

	return &results, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
