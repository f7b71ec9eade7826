package wizard

import (
	"errors"
	"strings"
)

// StepNames in display order.
var StepNames = []string{
	"Preliminary",
	"Site",
	"Family",
	"Preferences",
	"Review",
	"Architect",
	"Submit",
}

// BudgetCustom is the budget range choice that requires an explicit amount.
const BudgetCustom = "Custom"

// ErrValidation signals blocked navigation; field-level detail lives in
// Wizard.FieldErrors.
var ErrValidation = errors.New("step validation failed")

// Data holds everything the wizard collects across its steps.
type Data struct {
	PlotSize         float64                    `json:"plot_size"`
	BuildingSize     float64                    `json:"building_size"`
	BudgetRange      string                     `json:"budget_range"`
	CustomBudget     float64                    `json:"custom_budget"`
	Requirements     string                     `json:"requirements"`
	Location         string                     `json:"location"`
	Timeline         string                     `json:"timeline"`
	SelectedLayoutID int64                      `json:"selected_layout_id"`
	LayoutType       string                     `json:"layout_type"`
	PlotShape        string                     `json:"plot_shape"`
	Topography       string                     `json:"topography"`
	DevelopmentLaws  string                     `json:"development_laws"`
	NumFloors        int                        `json:"num_floors"`
	FamilyNeeds      []string                   `json:"family_needs"`
	Rooms            []string                   `json:"rooms"`
	Aesthetic        string                     `json:"aesthetic"`
	ArchitectIDs     []int64                    `json:"selected_architect_ids"`
	FloorRooms       map[string][]RoomPlacement `json:"floor_rooms"`
	ReferenceImages  []string                   `json:"reference_images"`
	SiteImages       []string                   `json:"site_images"`
	RoomImages       []string                   `json:"room_images"`
}

// Wizard tracks a homeowner's progress through the request flow.
type Wizard struct {
	Step        int               `json:"step"`
	Data        Data              `json:"data"`
	FieldErrors map[string]string `json:"field_errors"`
}

func New() *Wizard {
	return &Wizard{FieldErrors: map[string]string{}}
}

// stepValidators line up with StepNames. Steps without gating conditions
// validate trivially.
var stepValidators = []func(d Data, errs map[string]string){
	validatePreliminary,
	validateSite,
	validateFamily,
	validatePreferences,
	func(Data, map[string]string) {}, // Review
	validateArchitect,
	func(Data, map[string]string) {}, // Submit
}

func validatePreliminary(d Data, errs map[string]string) {
	if d.PlotSize <= 0 {
		errs["plot_size"] = "Enter a valid plot size"
	}
	if d.BuildingSize <= 0 {
		errs["building_size"] = "Enter a valid building size"
	}
	if d.BudgetRange == "" {
		errs["budget_range"] = "Select a budget range"
	} else if d.BudgetRange == BudgetCustom && d.CustomBudget <= 0 {
		errs["custom_budget"] = "Enter a valid custom budget"
	}
}

func validateSite(d Data, errs map[string]string) {
	if d.PlotShape == "" {
		errs["plot_shape"] = "Select a plot shape"
	}
	if d.Topography == "" {
		errs["topography"] = "Select the topography"
	}
	if d.DevelopmentLaws == "" {
		errs["development_laws"] = "Specify applicable development laws"
	}
	if d.NumFloors <= 0 {
		errs["num_floors"] = "Enter the number of floors"
	}
}

func validateFamily(d Data, errs map[string]string) {
	if len(d.Rooms) == 0 {
		errs["rooms"] = "Select at least one room type"
	}
}

func validatePreferences(d Data, errs map[string]string) {
	if d.Aesthetic == "" {
		errs["aesthetic"] = "Choose a house style"
	}
}

func validateArchitect(d Data, errs map[string]string) {
	if len(d.ArchitectIDs) == 0 {
		errs["selected_architect_ids"] = "Select at least one architect"
	}
}

// ValidateStep runs the validator for the given step and collects every
// failing field at once.
func (w *Wizard) ValidateStep(step int) map[string]string {
	errs := map[string]string{}
	if step >= 0 && step < len(stepValidators) {
		stepValidators[step](w.Data, errs)
	}
	return errs
}

// Next advances to the following step. If the current step fails validation
// the wizard stays put, FieldErrors is populated and ErrValidation returned.
func (w *Wizard) Next() error {
	errs := w.ValidateStep(w.Step)
	if len(errs) > 0 {
		w.FieldErrors = errs
		return ErrValidation
	}
	w.FieldErrors = map[string]string{}
	if w.Step < len(StepNames)-1 {
		w.Step++
	}
	return nil
}

// Prev steps back without validating.
func (w *Wizard) Prev() {
	w.FieldErrors = map[string]string{}
	if w.Step > 0 {
		w.Step--
	}
}

// SubmitPayload builds the request body for submission. Floor assignments are
// recomputed from the chosen rooms.
func (w *Wizard) SubmitPayload() map[string]interface{} {
	d := w.Data
	payload := map[string]interface{}{
		"plot_size":        d.PlotSize,
		"building_size":    d.BuildingSize,
		"budget_range":     d.BudgetRange,
		"requirements":     d.Requirements,
		"location":         d.Location,
		"timeline":         d.Timeline,
		"layout_type":      d.LayoutType,
		"plot_shape":       d.PlotShape,
		"topography":       d.Topography,
		"development_laws": d.DevelopmentLaws,
		"family_needs":     strings.Join(d.FamilyNeeds, ","),
		"rooms":            strings.Join(d.Rooms, ","),
		"aesthetic":        d.Aesthetic,
		"num_floors":       d.NumFloors,
		"preferred_style":  d.Aesthetic,
		"floor_rooms":      AssignRoomsToFloors(d.Rooms, d.NumFloors),
		"reference_images": d.ReferenceImages,
		"site_images":      d.SiteImages,
		"room_images":      d.RoomImages,
	}
	if d.BudgetRange == BudgetCustom {
		payload["custom_budget"] = d.CustomBudget
	}
	if d.SelectedLayoutID != 0 {
		payload["selected_layout_id"] = d.SelectedLayoutID
	}
	return payload
}
