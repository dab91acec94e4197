package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/score-tracker-api/internal/models"
)

const testResultColumns = `id, test_date, lesson_type, test_number, subject, score, average_score, max_score, std_dev, memo`

// TestResultRepository persists recorded test scores.
type TestResultRepository struct {
	db *sqlx.DB
}

// NewTestResultRepository constructs the repository.
func NewTestResultRepository(db *sqlx.DB) *TestResultRepository {
	return &TestResultRepository{db: db}
}

// List returns every stored result in chronological order.
func (r *TestResultRepository) List(ctx context.Context) ([]models.TestResult, error) {
	query := `SELECT ` + testResultColumns + ` FROM test_results ORDER BY test_date ASC, id ASC`
	rows := make([]models.TestResult, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list test results: %w", err)
	}
	return rows, nil
}

// ListRecent returns the newest results first.
func (r *TestResultRepository) ListRecent(ctx context.Context, limit int) ([]models.TestResult, error) {
	query := `SELECT ` + testResultColumns + ` FROM test_results ORDER BY test_date DESC, id DESC LIMIT $1`
	rows := make([]models.TestResult, 0)
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list recent test results: %w", err)
	}
	return rows, nil
}

// FindByKey looks a result up by its natural key. It returns sql.ErrNoRows when absent.
func (r *TestResultRepository) FindByKey(ctx context.Context, key models.ResultKey) (*models.TestResult, error) {
	query := `SELECT ` + testResultColumns + ` FROM test_results WHERE lesson_type = $1 AND test_number = $2 AND subject = $3 ORDER BY id ASC LIMIT 1`
	var result models.TestResult
	if err := r.db.GetContext(ctx, &result, query, key.LessonType, key.TestNumber, key.Subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find test result by key: %w", err)
	}
	return &result, nil
}

// FindByID loads a single result.
func (r *TestResultRepository) FindByID(ctx context.Context, id int64) (*models.TestResult, error) {
	query := `SELECT ` + testResultColumns + ` FROM test_results WHERE id = $1`
	var result models.TestResult
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find test result: %w", err)
	}
	return &result, nil
}

// Create inserts a result and assigns the generated id.
func (r *TestResultRepository) Create(ctx context.Context, result *models.TestResult) error {
	const query = `INSERT INTO test_results (test_date, lesson_type, test_number, subject, score, average_score, max_score, std_dev, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		result.TestDate,
		result.LessonType,
		result.TestNumber,
		result.Subject,
		result.Score,
		result.AverageScore,
		result.MaxScore,
		result.StdDev,
		result.Memo,
	).Scan(&result.ID)
	if err != nil {
		return fmt.Errorf("create test result: %w", err)
	}
	return nil
}

// Update overwrites the measured values of an existing result. The test date and
// natural key are left untouched.
func (r *TestResultRepository) Update(ctx context.Context, result *models.TestResult) error {
	const query = `UPDATE test_results SET score = $1, average_score = $2, max_score = $3, std_dev = $4, memo = $5 WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query,
		result.Score,
		result.AverageScore,
		result.MaxScore,
		result.StdDev,
		result.Memo,
		result.ID,
	)
	if err != nil {
		return fmt.Errorf("update test result: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a result by id.
func (r *TestResultRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM test_results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete test result: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
