package models

import "encoding/json"

// Estimate statuses.
const (
	EstimateStatusSubmitted           = "submitted"
	EstimateStatusAccepted            = "accepted"
	EstimateStatusRejected            = "rejected"
	EstimateStatusChangesRequested    = "changes_requested"
	EstimateStatusConstructionStarted = "construction_started"
)

// LineItem is one priced row in an estimate breakdown.
type LineItem struct {
	Name   string    `json:"name"`
	Qty    FlexFloat `json:"qty"`
	Unit   string    `json:"unit,omitempty"`
	Rate   FlexFloat `json:"rate"`
	Amount FlexFloat `json:"amount"`
}

// EstimateTotals are the section subtotals plus the grand total.
type EstimateTotals struct {
	Materials   FlexFloat `json:"materials"`
	Labor       FlexFloat `json:"labor"`
	Utilities   FlexFloat `json:"utilities"`
	Misc        FlexFloat `json:"misc"`
	Transport   FlexFloat `json:"transport"`
	Contingency FlexFloat `json:"contingency"`
	Grand       FlexFloat `json:"grand"`
}

// EstimateBreakdown is the structured cost detail a contractor attaches to an
// estimate. It arrives as a JSON string in the "structured" column.
type EstimateBreakdown struct {
	Materials []LineItem     `json:"materials"`
	Labor     []LineItem     `json:"labor"`
	Utilities []LineItem     `json:"utilities"`
	Misc      []LineItem     `json:"misc"`
	Totals    EstimateTotals `json:"totals"`
	Terms     []string       `json:"terms,omitempty"`
}

// Estimate is a contractor's cost proposal for a project.
type Estimate struct {
	ID              FlexInt   `json:"id"`
	ContractorID    FlexInt   `json:"contractor_id"`
	ContractorName  string    `json:"contractor_name"`
	ContractorEmail string    `json:"contractor_email"`
	ContractorPhone string    `json:"contractor_phone"`
	LicenseNumber   string    `json:"license_number"`
	ProjectTitle    string    `json:"project_title"`
	Location        string    `json:"location"`
	Status          string    `json:"status"`
	TotalCost       FlexFloat `json:"total_cost"`
	Timeline        string    `json:"timeline"`
	Notes           string    `json:"notes"`
	Structured      string    `json:"structured"`
	IsPaid          FlexInt   `json:"is_paid"`
	CreatedAt       string    `json:"created_at"`
}

// Paid reports whether the homeowner has unlocked this estimate.
func (e Estimate) Paid() bool { return e.IsPaid != 0 }

// Breakdown parses the structured cost detail. A missing or malformed payload
// yields an empty breakdown, not an error: the report still renders with the
// headline total.
func (e Estimate) Breakdown() EstimateBreakdown {
	var b EstimateBreakdown
	if e.Structured == "" {
		return b
	}
	if err := json.Unmarshal([]byte(e.Structured), &b); err != nil {
		return EstimateBreakdown{}
	}
	return b
}
