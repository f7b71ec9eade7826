package models

// Support issue statuses.
const (
	IssueStatusOpen     = "open"
	IssueStatusResolved = "resolved"
)

// Issue is a support ticket raised by the homeowner.
type Issue struct {
	ID          FlexInt `json:"id"`
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

// Review is a rating left against an architect or contractor.
type Review struct {
	ID           FlexInt `json:"id"`
	TargetID     FlexInt `json:"target_id"`
	TargetRole   string  `json:"target_role"`
	Rating       FlexInt `json:"rating"`
	Comment      string  `json:"comment"`
	ReviewerName string  `json:"reviewer_name"`
	CreatedAt    string  `json:"created_at"`
}

// Comment is one message in a design or estimate thread.
type Comment struct {
	ID         FlexInt `json:"id"`
	ResourceID FlexInt `json:"resource_id"`
	Kind       string  `json:"kind"`
	AuthorName string  `json:"author_name"`
	AuthorRole string  `json:"author_role"`
	Body       string  `json:"body"`
	CreatedAt  string  `json:"created_at"`
}
