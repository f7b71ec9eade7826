package service

import (
	"context"
	"errors"

	"github.com/buildhub/homeowner-gateway/internal/logger"
	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/payment"
	"github.com/buildhub/homeowner-gateway/internal/store"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

var ErrNotFound = errors.New("resource not found")

// dashboardBackend is the slice of the upstream client the dashboard needs
// beyond what the stores poll.
type dashboardBackend interface {
	LayoutLibrary(ctx context.Context, sess upstream.Session) ([]models.Layout, error)
	Architects(ctx context.Context, sess upstream.Session) ([]models.Architect, error)
	Contractors(ctx context.Context, sess upstream.Session) ([]models.Contractor, error)
	ContractorRequests(ctx context.Context, sess upstream.Session) ([]models.LayoutRequest, error)
	DeleteRequest(ctx context.Context, sess upstream.Session, requestID int64) error
	DeleteDesign(ctx context.Context, sess upstream.Session, designID int64) error
	DeleteHousePlan(ctx context.Context, sess upstream.Session, planID int64) error
	UpdateDesignSelection(ctx context.Context, sess upstream.Session, designID int64, status string) error
	SendToContractor(ctx context.Context, sess upstream.Session, designID, contractorID int64) error
	SendHousePlanToContractor(ctx context.Context, sess upstream.Session, planID, contractorID int64) error
}

// unlockReader reads the local unlock cache.
type unlockReader interface {
	List(ctx context.Context, homeownerID int64) ([]int64, error)
}

// DesignView is a design annotated with payment-gating state.
type DesignView struct {
	models.Design
	Paid  bool    `json:"paid"`
	Price float64 `json:"price"`
}

// DashboardService assembles the homeowner dashboard views from the session
// stores and the local unlock cache.
type DashboardService struct {
	stores  *store.Manager
	backend dashboardBackend
	unlocks unlockReader
}

func NewDashboardService(stores *store.Manager, backend dashboardBackend, unlocks unlockReader) *DashboardService {
	return &DashboardService{stores: stores, backend: backend, unlocks: unlocks}
}

// Open ensures the homeowner's store set is live and returns it.
func (s *DashboardService) Open(ctx context.Context, sess upstream.Session) *store.SessionStores {
	return s.stores.EnsureFor(ctx, sess)
}

// Close tears down the homeowner's store set, e.g. on logout.
func (s *DashboardService) Close(homeownerID int64) {
	s.stores.Drop(homeownerID)
}

// Requests returns the homeowner's non-deleted layout requests.
func (s *DashboardService) Requests(ctx context.Context, sess upstream.Session) []models.LayoutRequest {
	return s.Open(ctx, sess).Requests.Items()
}

// Designs returns received designs annotated with their unlock state. A
// design counts as paid when the upstream says so, or when the local cache
// remembers a successful payment the upstream has lost track of.
func (s *DashboardService) Designs(ctx context.Context, sess upstream.Session) []DesignView {
	designs := s.Open(ctx, sess).Designs.Items()

	cached := map[int64]bool{}
	if ids, err := s.unlocks.List(ctx, sess.HomeownerID); err == nil {
		for _, id := range ids {
			cached[id] = true
		}
	} else {
		logger.Log.WithError(err).Warn("unlock cache read failed")
	}

	views := make([]DesignView, 0, len(designs))
	for _, d := range designs {
		views = append(views, DesignView{
			Design: d,
			Paid:   designPaid(d, cached),
			Price:  payment.DesignPrice(d),
		})
	}
	return views
}

func designPaid(d models.Design, cached map[int64]bool) bool {
	if d.PaymentStatus == models.PaymentStatusCompleted {
		return true
	}
	if d.Unlocked {
		return true
	}
	return cached[d.ID.Int64()]
}

// Estimates returns the current estimate snapshot.
func (s *DashboardService) Estimates(ctx context.Context, sess upstream.Session) []models.Estimate {
	return s.Open(ctx, sess).Estimates.Items()
}

// Projects returns the running projects snapshot.
func (s *DashboardService) Projects(ctx context.Context, sess upstream.Session) []models.Project {
	return s.Open(ctx, sess).Projects.Items()
}

// PaymentRequests returns the contractor payment request snapshot.
func (s *DashboardService) PaymentRequests(ctx context.Context, sess upstream.Session) []models.PaymentRequest {
	return s.Open(ctx, sess).PaymentRequests.Items()
}

// LayoutLibrary fetches the prebuilt layout catalog.
func (s *DashboardService) LayoutLibrary(ctx context.Context, sess upstream.Session) ([]models.Layout, error) {
	return s.backend.LayoutLibrary(ctx, sess)
}

// Architects fetches the architect directory.
func (s *DashboardService) Architects(ctx context.Context, sess upstream.Session) ([]models.Architect, error) {
	return s.backend.Architects(ctx, sess)
}

// Contractors fetches the contractor directory.
func (s *DashboardService) Contractors(ctx context.Context, sess upstream.Session) ([]models.Contractor, error) {
	return s.backend.Contractors(ctx, sess)
}

// ContractorRequests fetches requests routed to contractors.
func (s *DashboardService) ContractorRequests(ctx context.Context, sess upstream.Session) ([]models.LayoutRequest, error) {
	return s.backend.ContractorRequests(ctx, sess)
}

// DeleteRequest soft-deletes a request upstream and prunes the snapshot so
// the dashboard reflects it before the next poll.
func (s *DashboardService) DeleteRequest(ctx context.Context, sess upstream.Session, requestID int64) error {
	if err := s.backend.DeleteRequest(ctx, sess, requestID); err != nil {
		return err
	}
	stores := s.Open(ctx, sess)
	kept := []models.LayoutRequest{}
	for _, r := range stores.Requests.Items() {
		if r.ID.Int64() != requestID {
			kept = append(kept, r)
		}
	}
	stores.Requests.Set(kept)
	return nil
}

// DeleteDesign removes a received design and prunes the snapshot.
func (s *DashboardService) DeleteDesign(ctx context.Context, sess upstream.Session, designID int64) error {
	if err := s.backend.DeleteDesign(ctx, sess, designID); err != nil {
		return err
	}
	stores := s.Open(ctx, sess)
	kept := []models.Design{}
	for _, d := range stores.Designs.Items() {
		if d.ID.Int64() != designID {
			kept = append(kept, d)
		}
	}
	stores.Designs.Set(kept)
	return nil
}

// DeleteHousePlan removes a house plan upstream.
func (s *DashboardService) DeleteHousePlan(ctx context.Context, sess upstream.Session, planID int64) error {
	return s.backend.DeleteHousePlan(ctx, sess, planID)
}

// SelectDesign shortlists or finalizes a design.
func (s *DashboardService) SelectDesign(ctx context.Context, sess upstream.Session, designID int64, status string) error {
	if status != models.DesignStatusShortlisted && status != models.DesignStatusFinalized {
		return errors.New("invalid design selection status")
	}
	return s.backend.UpdateDesignSelection(ctx, sess, designID, status)
}

// SendToContractor forwards a finalized design to a contractor.
func (s *DashboardService) SendToContractor(ctx context.Context, sess upstream.Session, designID, contractorID int64) error {
	return s.backend.SendToContractor(ctx, sess, designID, contractorID)
}

// SendHousePlanToContractor forwards a house plan to a contractor.
func (s *DashboardService) SendHousePlanToContractor(ctx context.Context, sess upstream.Session, planID, contractorID int64) error {
	return s.backend.SendHousePlanToContractor(ctx, sess, planID, contractorID)
}
