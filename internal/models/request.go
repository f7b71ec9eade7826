package models

// Layout request statuses.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
	RequestStatusDeleted  = "deleted"
)

// LayoutRequest is the homeowner's submitted brief for a custom or
// library-based design. Owned by the upstream backend; the gateway holds a
// disposable copy.
type LayoutRequest struct {
	ID               FlexInt   `json:"id"`
	PlotSize         FlexFloat `json:"plot_size"`
	BuildingSize     FlexFloat `json:"building_size"`
	BudgetRange      string    `json:"budget_range"`
	Requirements     string    `json:"requirements"`
	Location         string    `json:"location"`
	Timeline         string    `json:"timeline"`
	Status           string    `json:"status"`
	LayoutType       string    `json:"layout_type"`
	SelectedLayoutID *FlexInt  `json:"selected_layout_id,omitempty"`
	SentCount        FlexInt   `json:"sent_count"`
	AcceptedCount    FlexInt   `json:"accepted_count"`
	RejectedCount    FlexInt   `json:"rejected_count"`
	ProposalCount    FlexInt   `json:"proposal_count"`
	DesignCount      FlexInt   `json:"design_count"`
	CreatedAt        string    `json:"created_at"`
}

// IsDeleted reports whether the record was soft-deleted upstream.
func (r LayoutRequest) IsDeleted() bool {
	return r.Status == RequestStatusDeleted
}
