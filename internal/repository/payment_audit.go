package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/buildhub/homeowner-gateway/internal/models"
)

var ErrAuditNotFound = errors.New("payment audit record not found")

// Audit statuses.
const (
	AuditInitiated = "initiated"
	AuditVerified  = "verified"
	AuditFailed    = "failed"
)

// PaymentAuditRepository keeps a local trail of unlock payments initiated
// through the gateway.
type PaymentAuditRepository struct {
	db *sqlx.DB
}

func NewPaymentAuditRepository(db *sqlx.DB) *PaymentAuditRepository {
	return &PaymentAuditRepository{db: db}
}

// RecordInitiated inserts a new audit row and returns its id.
func (r *PaymentAuditRepository) RecordInitiated(ctx context.Context, homeownerID int64, kind string, resourceID int64, orderRef string, amountPaise int64) (string, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO payment_audit (id, homeowner_id, kind, resource_id, order_ref, amount_paise, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query, id, homeownerID, kind, resourceID, orderRef, amountPaise, AuditInitiated); err != nil {
		return "", fmt.Errorf("payment audit: record: %w", err)
	}
	return id, nil
}

// MarkOutcome finalizes the audit row for an order reference.
func (r *PaymentAuditRepository) MarkOutcome(ctx context.Context, homeownerID int64, orderRef, status, message string) error {
	query := `
		UPDATE payment_audit
		SET status = $1, message = $2, updated_at = NOW()
		WHERE homeowner_id = $3 AND order_ref = $4
	`
	res, err := r.db.ExecContext(ctx, query, status, message, homeownerID, orderRef)
	if err != nil {
		return fmt.Errorf("payment audit: mark: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("payment audit: mark: %w", err)
	}
	if affected == 0 {
		return ErrAuditNotFound
	}
	return nil
}

// ByOrderRef looks up the audit row for an order reference.
func (r *PaymentAuditRepository) ByOrderRef(ctx context.Context, homeownerID int64, orderRef string) (models.PaymentAudit, error) {
	var audit models.PaymentAudit
	query := `SELECT * FROM payment_audit WHERE homeowner_id = $1 AND order_ref = $2`
	if err := r.db.GetContext(ctx, &audit, query, homeownerID, orderRef); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PaymentAudit{}, ErrAuditNotFound
		}
		return models.PaymentAudit{}, fmt.Errorf("payment audit: get: %w", err)
	}
	return audit, nil
}
