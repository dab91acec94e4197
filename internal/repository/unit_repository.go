package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/score-tracker-api/internal/models"
)

// UnitRepository reads and loads curriculum reference data.
type UnitRepository struct {
	db *sqlx.DB
}

// NewUnitRepository constructs the repository.
func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// List returns all curriculum units.
func (r *UnitRepository) List(ctx context.Context) ([]models.CurriculumUnit, error) {
	const query = `SELECT subject, lesson_type, test_number, unit_name, content FROM units ORDER BY subject, lesson_type, test_number, id`
	units := make([]models.CurriculumUnit, 0)
	if err := r.db.SelectContext(ctx, &units, query); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

// BulkInsert loads units inside a single transaction. When replace is set the
// table is emptied first.
func (r *UnitRepository) BulkInsert(ctx context.Context, units []models.CurriculumUnit, replace bool) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unit import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if replace {
		if _, err = tx.ExecContext(ctx, `DELETE FROM units`); err != nil {
			return fmt.Errorf("clear units: %w", err)
		}
	}

	const query = `INSERT INTO units (subject, lesson_type, test_number, unit_name, content)
		VALUES (:subject, :lesson_type, :test_number, :unit_name, :content)`
	for _, unit := range units {
		if _, err = tx.NamedExecContext(ctx, query, unit); err != nil {
			return fmt.Errorf("insert unit %s: %w", unit.Slot(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit unit import: %w", err)
	}
	return nil
}
