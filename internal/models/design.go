package models

// Design workflow statuses.
const (
	DesignStatusSent        = "sent"
	DesignStatusShortlisted = "shortlisted"
	DesignStatusFinalized   = "finalized"
)

// PaymentStatusCompleted marks a design the server already knows is paid.
const PaymentStatusCompleted = "completed"

// DesignFile is one attachment on a design.
type DesignFile struct {
	Original string `json:"original"`
	Stored   string `json:"stored"`
	Ext      string `json:"ext"`
	Tag      string `json:"tag,omitempty"`
}

// Design is an architect's proposal against a layout request. At most one
// design per homeowner holds status "finalized" (enforced upstream).
type Design struct {
	ID            FlexInt        `json:"id"`
	ArchitectID   FlexInt        `json:"architect_id"`
	Title         string         `json:"title"`
	DesignTitle   string         `json:"design_title"`
	Status        string         `json:"status"`
	Description   string         `json:"description"`
	LayoutJSON    string         `json:"layout_json,omitempty"`
	ViewPrice     FlexFloat      `json:"view_price"`
	UnlockPrice   FlexFloat      `json:"unlock_price"`
	Sqft          FlexFloat      `json:"sqft"`
	Area          FlexFloat      `json:"area"`
	PaymentStatus string         `json:"payment_status"`
	Unlocked      bool           `json:"unlocked"`
	HousePlanID   FlexInt        `json:"house_plan_id"`
	Files         []DesignFile   `json:"files"`
	Technical     map[string]any `json:"technical_details,omitempty"`
	Meta          map[string]any `json:"meta,omitempty"`
	CreatedAt     string         `json:"created_at"`
}

// DisplayTitle prefers the title set by the architect.
func (d Design) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	if d.DesignTitle != "" {
		return d.DesignTitle
	}
	return "Layout"
}
