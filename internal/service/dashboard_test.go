package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/buildhub/homeowner-gateway/internal/logger"
	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/store"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

var testSess = upstream.Session{HomeownerID: 7, Cookie: "PHPSESSID=x"}

// stubSources feeds the session stores with fixed snapshots.
type stubSources struct {
	requests  []models.LayoutRequest
	designs   []models.Design
	estimates []models.Estimate
	projects  []models.Project
	payments  []models.PaymentRequest
}

func (s *stubSources) MyRequests(context.Context, upstream.Session) ([]models.LayoutRequest, error) {
	return s.requests, nil
}
func (s *stubSources) ReceivedDesigns(context.Context, upstream.Session) ([]models.Design, error) {
	return s.designs, nil
}
func (s *stubSources) Estimates(context.Context, upstream.Session) ([]models.Estimate, error) {
	return s.estimates, nil
}
func (s *stubSources) MyProjects(context.Context, upstream.Session) ([]models.Project, error) {
	return s.projects, nil
}
func (s *stubSources) PaymentRequests(context.Context, upstream.Session) ([]models.PaymentRequest, error) {
	return s.payments, nil
}

func newManager(t *testing.T, sources *stubSources) *store.Manager {
	t.Helper()
	m := store.NewManager(sources, nil, time.Hour, time.Hour)
	t.Cleanup(m.StopAll)
	return m
}

func waitLoaded(t *testing.T, loaded func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if loaded() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("stores never loaded")
}

type mockDashboardBackend struct {
	mock.Mock
}

func (m *mockDashboardBackend) LayoutLibrary(ctx context.Context, sess upstream.Session) ([]models.Layout, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]models.Layout), args.Error(1)
}
func (m *mockDashboardBackend) Architects(ctx context.Context, sess upstream.Session) ([]models.Architect, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]models.Architect), args.Error(1)
}
func (m *mockDashboardBackend) Contractors(ctx context.Context, sess upstream.Session) ([]models.Contractor, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]models.Contractor), args.Error(1)
}
func (m *mockDashboardBackend) ContractorRequests(ctx context.Context, sess upstream.Session) ([]models.LayoutRequest, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]models.LayoutRequest), args.Error(1)
}
func (m *mockDashboardBackend) DeleteRequest(ctx context.Context, sess upstream.Session, requestID int64) error {
	return m.Called(ctx, sess, requestID).Error(0)
}
func (m *mockDashboardBackend) DeleteDesign(ctx context.Context, sess upstream.Session, designID int64) error {
	return m.Called(ctx, sess, designID).Error(0)
}
func (m *mockDashboardBackend) DeleteHousePlan(ctx context.Context, sess upstream.Session, planID int64) error {
	return m.Called(ctx, sess, planID).Error(0)
}
func (m *mockDashboardBackend) UpdateDesignSelection(ctx context.Context, sess upstream.Session, designID int64, status string) error {
	return m.Called(ctx, sess, designID, status).Error(0)
}
func (m *mockDashboardBackend) SendToContractor(ctx context.Context, sess upstream.Session, designID, contractorID int64) error {
	return m.Called(ctx, sess, designID, contractorID).Error(0)
}
func (m *mockDashboardBackend) SendHousePlanToContractor(ctx context.Context, sess upstream.Session, planID, contractorID int64) error {
	return m.Called(ctx, sess, planID, contractorID).Error(0)
}

type mockUnlockReader struct {
	mock.Mock
}

func (m *mockUnlockReader) List(ctx context.Context, homeownerID int64) ([]int64, error) {
	args := m.Called(ctx, homeownerID)
	return args.Get(0).([]int64), args.Error(1)
}

func TestDesignsAnnotatesPaymentState(t *testing.T) {
	sources := &stubSources{designs: []models.Design{
		{ID: 1, PaymentStatus: models.PaymentStatusCompleted},
		{ID: 2, Unlocked: true},
		{ID: 3},
		{ID: 4, ViewPrice: 9500},
	}}
	manager := newManager(t, sources)
	unlocks := new(mockUnlockReader)
	unlocks.On("List", mock.Anything, int64(7)).Return([]int64{3}, nil)

	svc := NewDashboardService(manager, new(mockDashboardBackend), unlocks)
	waitLoaded(t, func() bool { return svc.Open(context.Background(), testSess).Designs.Loaded() })

	views := svc.Designs(context.Background(), testSess)

	require.Len(t, views, 4)
	byID := map[int64]DesignView{}
	for _, v := range views {
		byID[v.ID.Int64()] = v
	}
	assert.True(t, byID[1].Paid, "completed payment_status should unlock")
	assert.True(t, byID[2].Paid, "unlocked flag should unlock")
	assert.True(t, byID[3].Paid, "local cache should unlock")
	assert.False(t, byID[4].Paid)
	assert.Equal(t, 9500.0, byID[4].Price)
	assert.Equal(t, 8000.0, byID[3].Price, "zero area falls back to the base fee")
}

func TestDeleteRequestPrunesSnapshot(t *testing.T) {
	sources := &stubSources{requests: []models.LayoutRequest{{ID: 1}, {ID: 2}}}
	manager := newManager(t, sources)
	backend := new(mockDashboardBackend)
	backend.On("DeleteRequest", mock.Anything, testSess, int64(1)).Return(nil)
	unlocks := new(mockUnlockReader)
	unlocks.On("List", mock.Anything, mock.Anything).Return([]int64{}, nil)

	svc := NewDashboardService(manager, backend, unlocks)
	waitLoaded(t, func() bool { return svc.Open(context.Background(), testSess).Requests.Loaded() })

	require.NoError(t, svc.DeleteRequest(context.Background(), testSess, 1))

	requests := svc.Requests(context.Background(), testSess)
	require.Len(t, requests, 1)
	assert.Equal(t, int64(2), requests[0].ID.Int64())
	backend.AssertExpectations(t)
}

func TestDeleteRequestFailureKeepsSnapshot(t *testing.T) {
	sources := &stubSources{requests: []models.LayoutRequest{{ID: 1}}}
	manager := newManager(t, sources)
	backend := new(mockDashboardBackend)
	backend.On("DeleteRequest", mock.Anything, testSess, int64(1)).
		Return(&upstream.Error{Op: "delete_request.php", Message: "Not yours"})

	svc := NewDashboardService(manager, backend, new(mockUnlockReader))
	waitLoaded(t, func() bool { return svc.Open(context.Background(), testSess).Requests.Loaded() })

	err := svc.DeleteRequest(context.Background(), testSess, 1)

	require.Error(t, err)
	assert.Len(t, svc.Requests(context.Background(), testSess), 1)
}

func TestSelectDesignRejectsInvalidStatus(t *testing.T) {
	svc := NewDashboardService(newManager(t, &stubSources{}), new(mockDashboardBackend), new(mockUnlockReader))

	err := svc.SelectDesign(context.Background(), testSess, 1, "sent")

	assert.Error(t, err)
}

func TestSelectDesignForwardsValidStatus(t *testing.T) {
	backend := new(mockDashboardBackend)
	backend.On("UpdateDesignSelection", mock.Anything, testSess, int64(1), models.DesignStatusFinalized).Return(nil)
	svc := NewDashboardService(newManager(t, &stubSources{}), backend, new(mockUnlockReader))

	require.NoError(t, svc.SelectDesign(context.Background(), testSess, 1, models.DesignStatusFinalized))
	backend.AssertExpectations(t)
}
