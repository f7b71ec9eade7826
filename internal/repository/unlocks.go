package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// UnlockRepository caches which designs a homeowner has paid for. Rows are
// only ever added: a recorded unlock survives upstream flakiness.
type UnlockRepository struct {
	db *sqlx.DB
}

func NewUnlockRepository(db *sqlx.DB) *UnlockRepository {
	return &UnlockRepository{db: db}
}

// Add records an unlock. Recording the same design twice is a no-op.
func (r *UnlockRepository) Add(ctx context.Context, homeownerID, designID int64, source string) error {
	query := `
		INSERT INTO unlocked_designs (homeowner_id, design_id, source)
		VALUES ($1, $2, $3)
		ON CONFLICT (homeowner_id, design_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, homeownerID, designID, source); err != nil {
		return fmt.Errorf("unlocks: add: %w", err)
	}
	return nil
}

// IsUnlocked reports whether the cache holds an unlock for the design.
func (r *UnlockRepository) IsUnlocked(ctx context.Context, homeownerID, designID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM unlocked_designs WHERE homeowner_id = $1 AND design_id = $2`
	if err := r.db.GetContext(ctx, &count, query, homeownerID, designID); err != nil {
		return false, fmt.Errorf("unlocks: check: %w", err)
	}
	return count > 0, nil
}

// List returns all cached design ids for the homeowner.
func (r *UnlockRepository) List(ctx context.Context, homeownerID int64) ([]int64, error) {
	ids := []int64{}
	query := `SELECT design_id FROM unlocked_designs WHERE homeowner_id = $1 ORDER BY design_id`
	if err := r.db.SelectContext(ctx, &ids, query, homeownerID); err != nil {
		return nil, fmt.Errorf("unlocks: list: %w", err)
	}
	return ids, nil
}
