package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Onboarding tour flags.
const (
	TourDashboard = "dashboard"
	TourWizard    = "wizard"
)

// TourRepository stores which onboarding tours the homeowner has completed.
type TourRepository struct {
	db *sqlx.DB
}

func NewTourRepository(db *sqlx.DB) *TourRepository {
	return &TourRepository{db: db}
}

// Completed reports whether the homeowner finished the named tour.
func (r *TourRepository) Completed(ctx context.Context, homeownerID int64, flag string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM tour_flags WHERE homeowner_id = $1 AND flag = $2`
	if err := r.db.GetContext(ctx, &count, query, homeownerID, flag); err != nil {
		return false, fmt.Errorf("tour: check: %w", err)
	}
	return count > 0, nil
}

// MarkCompleted records the tour as done. Marking twice is a no-op.
func (r *TourRepository) MarkCompleted(ctx context.Context, homeownerID int64, flag string) error {
	query := `
		INSERT INTO tour_flags (homeowner_id, flag)
		VALUES ($1, $2)
		ON CONFLICT (homeowner_id, flag) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, homeownerID, flag); err != nil {
		return fmt.Errorf("tour: mark: %w", err)
	}
	return nil
}
