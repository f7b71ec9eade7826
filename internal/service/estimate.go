package service

import (
	"context"
	"errors"
	"io"

	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/report"
	"github.com/buildhub/homeowner-gateway/internal/store"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

// Estimate response actions.
const (
	ActionAccept  = "accept"
	ActionReject  = "reject"
	ActionChanges = "changes"
)

var (
	ErrActionNotAllowed = errors.New("this action is not available for the estimate's current status")
	ErrEstimateLocked   = errors.New("pay to unlock this estimate first")
)

type estimateBackend interface {
	RespondToEstimate(ctx context.Context, sess upstream.Session, estimateID int64, action, message string) error
	StartConstruction(ctx context.Context, sess upstream.Session, estimateID int64) error
	SendEstimateMessage(ctx context.Context, sess upstream.Session, estimateID int64, message string) error
	DeleteEstimate(ctx context.Context, sess upstream.Session, estimateID int64) error
	RespondPaymentRequest(ctx context.Context, sess upstream.Session, requestID int64, response, notes string, approvedAmount float64) error
}

// EstimateService drives the homeowner's side of the estimate workflow and
// enforces the payment gate on the detailed report.
type EstimateService struct {
	stores  *store.Manager
	backend estimateBackend
	reports *report.Generator
}

func NewEstimateService(stores *store.Manager, backend estimateBackend, reports *report.Generator) *EstimateService {
	return &EstimateService{stores: stores, backend: backend, reports: reports}
}

func (s *EstimateService) find(ctx context.Context, sess upstream.Session, estimateID int64) (models.Estimate, error) {
	stores := s.stores.EnsureFor(ctx, sess)
	for _, est := range stores.Estimates.Items() {
		if est.ID.Int64() == estimateID {
			return est, nil
		}
	}
	return models.Estimate{}, ErrNotFound
}

// Respond records an accept, reject or change-request decision. Only freshly
// submitted estimates can be decided on.
func (s *EstimateService) Respond(ctx context.Context, sess upstream.Session, estimateID int64, action, message string) error {
	if action != ActionAccept && action != ActionReject && action != ActionChanges {
		return ErrActionNotAllowed
	}

	est, err := s.find(ctx, sess, estimateID)
	if err != nil {
		return err
	}
	if est.Status != models.EstimateStatusSubmitted {
		return ErrActionNotAllowed
	}

	if err := s.backend.RespondToEstimate(ctx, sess, estimateID, action, message); err != nil {
		return err
	}
	s.patchStatus(ctx, sess, estimateID, statusAfter(action))
	return nil
}

func statusAfter(action string) string {
	switch action {
	case ActionAccept:
		return models.EstimateStatusAccepted
	case ActionReject:
		return models.EstimateStatusRejected
	default:
		return models.EstimateStatusChangesRequested
	}
}

// StartConstruction turns an accepted estimate into a running project.
func (s *EstimateService) StartConstruction(ctx context.Context, sess upstream.Session, estimateID int64) error {
	est, err := s.find(ctx, sess, estimateID)
	if err != nil {
		return err
	}
	if est.Status != models.EstimateStatusAccepted {
		return ErrActionNotAllowed
	}

	if err := s.backend.StartConstruction(ctx, sess, estimateID); err != nil {
		return err
	}
	s.patchStatus(ctx, sess, estimateID, models.EstimateStatusConstructionStarted)
	return nil
}

// SendMessage relays a note to the contractor. Closed once construction has
// started.
func (s *EstimateService) SendMessage(ctx context.Context, sess upstream.Session, estimateID int64, message string) error {
	est, err := s.find(ctx, sess, estimateID)
	if err != nil {
		return err
	}
	if est.Status == models.EstimateStatusConstructionStarted {
		return ErrActionNotAllowed
	}
	return s.backend.SendEstimateMessage(ctx, sess, estimateID, message)
}

// Delete removes an estimate and prunes the snapshot.
func (s *EstimateService) Delete(ctx context.Context, sess upstream.Session, estimateID int64) error {
	if err := s.backend.DeleteEstimate(ctx, sess, estimateID); err != nil {
		return err
	}
	stores := s.stores.EnsureFor(ctx, sess)
	kept := []models.Estimate{}
	for _, est := range stores.Estimates.Items() {
		if est.ID.Int64() != estimateID {
			kept = append(kept, est)
		}
	}
	stores.Estimates.Set(kept)
	return nil
}

// DownloadReport writes the PDF cost report. Gated on the estimate being
// unlocked.
func (s *EstimateService) DownloadReport(ctx context.Context, sess upstream.Session, estimateID int64, w io.Writer) error {
	est, err := s.find(ctx, sess, estimateID)
	if err != nil {
		return err
	}
	if !est.Paid() {
		return ErrEstimateLocked
	}
	return s.reports.EstimateReport(w, est)
}

// Breakdown returns the structured cost detail, gated like the report.
func (s *EstimateService) Breakdown(ctx context.Context, sess upstream.Session, estimateID int64) (models.EstimateBreakdown, error) {
	est, err := s.find(ctx, sess, estimateID)
	if err != nil {
		return models.EstimateBreakdown{}, err
	}
	if !est.Paid() {
		return models.EstimateBreakdown{}, ErrEstimateLocked
	}
	return est.Breakdown(), nil
}

// RespondPaymentRequest approves or rejects a contractor stage payment ask.
func (s *EstimateService) RespondPaymentRequest(ctx context.Context, sess upstream.Session, requestID int64, response, notes string, approvedAmount float64) error {
	if response != "approved" && response != "rejected" {
		return ErrActionNotAllowed
	}
	return s.backend.RespondPaymentRequest(ctx, sess, requestID, response, notes, approvedAmount)
}

func (s *EstimateService) patchStatus(ctx context.Context, sess upstream.Session, estimateID int64, status string) {
	stores := s.stores.EnsureFor(ctx, sess)
	items := stores.Estimates.Items()
	for i := range items {
		if items[i].ID.Int64() == estimateID {
			items[i].Status = status
		}
	}
	stores.Estimates.Set(items)
}
