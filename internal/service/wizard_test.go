package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
	"github.com/buildhub/homeowner-gateway/internal/wizard"
)

type mockWizardBackend struct {
	mock.Mock
}

func (m *mockWizardBackend) SubmitRequest(ctx context.Context, sess upstream.Session, payload map[string]interface{}) (int64, error) {
	args := m.Called(ctx, sess, payload)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWizardBackend) AssignArchitects(ctx context.Context, sess upstream.Session, requestID int64, architectIDs []int64) error {
	return m.Called(ctx, sess, requestID, architectIDs).Error(0)
}

func (m *mockWizardBackend) Architects(ctx context.Context, sess upstream.Session) ([]models.Architect, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]models.Architect), args.Error(1)
}

func completeData() wizard.Data {
	return wizard.Data{
		PlotSize:        1200,
		BuildingSize:    900,
		BudgetRange:     "10-20 Lakhs",
		LayoutType:      "custom",
		PlotShape:       "Rectangular",
		Topography:      "Flat",
		DevelopmentLaws: "Municipal",
		NumFloors:       2,
		Rooms:           []string{"bedrooms", "kitchen"},
		Aesthetic:       "Modern",
		ArchitectIDs:    []int64{5},
	}
}

func TestSubmitCreatesRequestAndAssignsArchitects(t *testing.T) {
	backend := new(mockWizardBackend)
	svc := NewWizardService(backend)
	svc.Update(7, completeData())

	backend.On("SubmitRequest", mock.Anything, testSess, mock.MatchedBy(func(p map[string]interface{}) bool {
		return p["plot_size"] == 1200.0 &&
			p["budget_range"] == "10-20 Lakhs" &&
			p["rooms"] == "bedrooms,kitchen" &&
			p["preferred_style"] == "Modern"
	})).Return(int64(314), nil)
	backend.On("AssignArchitects", mock.Anything, testSess, int64(314), []int64{5}).Return(nil)
	backend.On("Architects", mock.Anything, testSess).
		Return([]models.Architect{{ID: 5, Name: "Ravi Sharma"}}, nil)

	result, err := svc.Submit(context.Background(), testSess)

	require.NoError(t, err)
	assert.Equal(t, int64(314), result.RequestID)
	assert.True(t, result.ArchitectsAssigned)
	assert.Equal(t, []string{"Ravi Sharma"}, result.ArchitectNames)
	backend.AssertExpectations(t)
}

func TestSubmitNamesFallBackWhenDirectoryFails(t *testing.T) {
	backend := new(mockWizardBackend)
	svc := NewWizardService(backend)
	svc.Update(7, completeData())

	backend.On("SubmitRequest", mock.Anything, mock.Anything, mock.Anything).Return(int64(314), nil)
	backend.On("AssignArchitects", mock.Anything, mock.Anything, int64(314), mock.Anything).Return(nil)
	backend.On("Architects", mock.Anything, mock.Anything).
		Return([]models.Architect(nil), &upstream.Error{Op: "get_architects.php", Message: "Session expired"})

	result, err := svc.Submit(context.Background(), testSess)

	require.NoError(t, err)
	assert.Equal(t, []string{"Architect #5"}, result.ArchitectNames)
}

func TestSubmitAssignmentFailureDoesNotRollBack(t *testing.T) {
	backend := new(mockWizardBackend)
	svc := NewWizardService(backend)
	svc.Update(7, completeData())

	backend.On("SubmitRequest", mock.Anything, mock.Anything, mock.Anything).Return(int64(314), nil)
	backend.On("AssignArchitects", mock.Anything, mock.Anything, int64(314), mock.Anything).
		Return(&upstream.Error{Op: "assign_architect.php", Message: "architect unavailable"})
	backend.On("Architects", mock.Anything, mock.Anything).Return([]models.Architect{}, nil)

	result, err := svc.Submit(context.Background(), testSess)

	require.NoError(t, err, "assignment failure must not fail the submission")
	assert.Equal(t, int64(314), result.RequestID)
	assert.False(t, result.ArchitectsAssigned)
}

func TestSubmitValidatesAllStepsAndStopsAtFirstInvalid(t *testing.T) {
	backend := new(mockWizardBackend)
	svc := NewWizardService(backend)
	data := completeData()
	data.Rooms = nil
	svc.Update(7, data)

	_, err := svc.Submit(context.Background(), testSess)

	require.ErrorIs(t, err, wizard.ErrValidation)
	w := svc.Get(7)
	assert.Equal(t, 2, w.Step, "wizard should jump back to the failing step")
	assert.Equal(t, "Select at least one room type", w.FieldErrors["rooms"])
	backend.AssertNotCalled(t, "SubmitRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitResetsWizard(t *testing.T) {
	backend := new(mockWizardBackend)
	svc := NewWizardService(backend)
	svc.Update(7, completeData())
	backend.On("SubmitRequest", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	backend.On("AssignArchitects", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	backend.On("Architects", mock.Anything, mock.Anything).Return([]models.Architect{}, nil)

	_, err := svc.Submit(context.Background(), testSess)
	require.NoError(t, err)

	fresh := svc.Get(7)
	assert.Equal(t, 0, fresh.Step)
	assert.Zero(t, fresh.Data.PlotSize)
}

func TestNextAndPrevTrackPerHomeowner(t *testing.T) {
	svc := NewWizardService(new(mockWizardBackend))
	data := completeData()
	svc.Update(7, data)

	w, err := svc.Next(7)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Step)

	other := svc.Get(8)
	assert.Equal(t, 0, other.Step, "wizards are per homeowner")

	svc.Prev(7)
	assert.Equal(t, 0, svc.Get(7).Step)
}
