package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBlocksOnInvalidPreliminaryStep(t *testing.T) {
	w := New()
	w.Data.PlotSize = 0
	w.Data.BuildingSize = 900
	w.Data.BudgetRange = ""

	err := w.Next()

	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, w.Step)
	assert.Equal(t, "Enter a valid plot size", w.FieldErrors["plot_size"])
	assert.Equal(t, "Select a budget range", w.FieldErrors["budget_range"])
	assert.NotContains(t, w.FieldErrors, "building_size")
}

func TestNextCollectsAllErrorsAtOnce(t *testing.T) {
	w := New()

	err := w.Next()

	require.ErrorIs(t, err, ErrValidation)
	assert.Len(t, w.FieldErrors, 3)
}

func TestCustomBudgetRequiresAmount(t *testing.T) {
	w := New()
	w.Data.PlotSize = 1200
	w.Data.BuildingSize = 900
	w.Data.BudgetRange = BudgetCustom
	w.Data.CustomBudget = 0

	err := w.Next()

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, w.FieldErrors, "custom_budget")

	w.Data.CustomBudget = 2500000
	require.NoError(t, w.Next())
	assert.Equal(t, 1, w.Step)
	assert.Empty(t, w.FieldErrors)
}

func TestFamilyStepRequiresRooms(t *testing.T) {
	w := New()
	w.Step = 2

	err := w.Next()

	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Select at least one room type", w.FieldErrors["rooms"])
}

func TestPreferencesStepRequiresAesthetic(t *testing.T) {
	w := New()
	w.Step = 3

	err := w.Next()

	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Choose a house style", w.FieldErrors["aesthetic"])
}

func TestArchitectStepRequiresSelection(t *testing.T) {
	w := New()
	w.Step = 5

	err := w.Next()

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, w.FieldErrors, "selected_architect_ids")

	w.Data.ArchitectIDs = []int64{5}
	require.NoError(t, w.Next())
	assert.Equal(t, 6, w.Step)
}

func TestPrevClearsErrorsAndStopsAtZero(t *testing.T) {
	w := New()
	w.Step = 2
	w.FieldErrors = map[string]string{"rooms": "Select at least one room type"}

	w.Prev()
	assert.Equal(t, 1, w.Step)
	assert.Empty(t, w.FieldErrors)

	w.Prev()
	w.Prev()
	assert.Equal(t, 0, w.Step)
}

func TestAssignRoomsToFloorsGroundFloorRooms(t *testing.T) {
	out := AssignRoomsToFloors([]string{"kitchen", "garage", "living_room"}, 2)

	require.Contains(t, out, "floor1")
	require.Contains(t, out, "floor2")
	assert.Len(t, out["floor1"], 3)
	assert.Empty(t, out["floor2"])
	for _, p := range out["floor1"] {
		assert.Equal(t, 1, p.Count)
	}
}

func TestAssignRoomsToFloorsBalcony(t *testing.T) {
	two := AssignRoomsToFloors([]string{"balcony"}, 2)
	assert.Len(t, two["floor2"], 1)
	assert.Empty(t, two["floor1"])

	one := AssignRoomsToFloors([]string{"balcony"}, 1)
	assert.Len(t, one["floor1"], 1)
}

func TestAssignRoomsToFloorsTerraceTopFloor(t *testing.T) {
	out := AssignRoomsToFloors([]string{"terrace"}, 3)

	assert.Len(t, out["floor3"], 1)
	assert.Empty(t, out["floor1"])
	assert.Empty(t, out["floor2"])
}

func TestAssignRoomsToFloorsOverwritesCompletely(t *testing.T) {
	first := AssignRoomsToFloors([]string{"kitchen", "bedrooms"}, 2)
	second := AssignRoomsToFloors([]string{"kitchen"}, 2)

	assert.Len(t, first["floor1"], 2)
	assert.Len(t, second["floor1"], 1)
	assert.Empty(t, second["floor2"])
}

func TestAssignRoomsToFloorsIdempotent(t *testing.T) {
	rooms := []string{"kitchen", "bedrooms", "terrace", "study_room"}

	a := AssignRoomsToFloors(rooms, 2)
	b := AssignRoomsToFloors(rooms, 2)

	assert.Equal(t, a, b)
}

func TestSubmitPayloadShape(t *testing.T) {
	w := New()
	w.Data = Data{
		PlotSize:        1200,
		BuildingSize:    900,
		BudgetRange:     "10-20 Lakhs",
		Requirements:    "Vastu compliant",
		Location:        "Pune",
		Timeline:        "6 months",
		LayoutType:      "custom",
		PlotShape:       "Rectangular",
		Topography:      "Flat",
		DevelopmentLaws: "Municipal",
		NumFloors:       2,
		FamilyNeeds:     []string{"elderly", "kids"},
		Rooms:           []string{"kitchen", "bedrooms"},
		Aesthetic:       "Modern",
		ArchitectIDs:    []int64{5},
	}

	payload := w.SubmitPayload()

	assert.Equal(t, "elderly,kids", payload["family_needs"])
	assert.Equal(t, "kitchen,bedrooms", payload["rooms"])
	assert.Equal(t, "Modern", payload["preferred_style"])
	assert.NotContains(t, payload, "custom_budget")
	assert.NotContains(t, payload, "selected_layout_id")

	floorRooms, ok := payload["floor_rooms"].(map[string][]RoomPlacement)
	require.True(t, ok)
	assert.Len(t, floorRooms["floor1"], 2)
}

func TestSubmitPayloadCustomBudgetIncluded(t *testing.T) {
	w := New()
	w.Data.BudgetRange = BudgetCustom
	w.Data.CustomBudget = 2500000

	payload := w.SubmitPayload()

	assert.Equal(t, 2500000.0, payload["custom_budget"])
}
