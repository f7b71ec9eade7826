package models

// Stage statuses as the upstream records them (display casing, e.g.
// "In Progress", "Completed").
const (
	StageStatusCompleted = "Completed"
)

// ProgressUpdate is one contractor-posted update on a construction stage.
type ProgressUpdate struct {
	ID                   FlexInt   `json:"id"`
	ProjectID            FlexInt   `json:"project_id"`
	StageName            string    `json:"stage_name"`
	StageStatus          string    `json:"stage_status"`
	CompletionPercentage FlexFloat `json:"completion_percentage"`
	Description          string    `json:"description"`
	Images               []string  `json:"images"`
	CreatedAt            string    `json:"created_at"`
}

// ProjectSummary describes the running project a timeline belongs to.
type ProjectSummary struct {
	ID             FlexInt `json:"id"`
	Title          string  `json:"title"`
	ContractorName string  `json:"contractor_name"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

// Project is a row from the homeowner's projects list.
type Project struct {
	ID             FlexInt   `json:"id"`
	Title          string    `json:"title"`
	ContractorID   FlexInt   `json:"contractor_id"`
	ContractorName string    `json:"contractor_name"`
	Status         string    `json:"status"`
	Budget         FlexFloat `json:"budget"`
	Location       string    `json:"location"`
	CreatedAt      string    `json:"created_at"`
}
