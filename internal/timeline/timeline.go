package timeline

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/buildhub/homeowner-gateway/internal/models"
)

// Event types.
const (
	EventProjectStart   = "project_start"
	EventProgressUpdate = "progress_update"
	EventMilestone      = "milestone"
)

// Normalized event statuses.
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"
)

var stageIcons = map[string]string{
	"Foundation": "🏗️",
	"Structure":  "🏢",
	"Brickwork":  "🧱",
	"Roofing":    "🏠",
	"Electrical": "⚡",
	"Plumbing":   "🚿",
	"Finishing":  "🎨",
	"Painting":   "🎨",
	"Flooring":   "🔲",
	"Other":      "🔧",
}

const fallbackIcon = "🔧"

// Event is one entry on the construction timeline.
type Event struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Stage    string    `json:"stage,omitempty"`
	Status   string    `json:"status,omitempty"`
	Progress float64   `json:"progress"`
	Icon     string    `json:"icon"`
	Date     time.Time `json:"date"`
	RawDate  string    `json:"raw_date"`
	Details  string    `json:"details,omitempty"`
	Images   []string  `json:"images,omitempty"`
}

// Stats summarize the timeline.
type Stats struct {
	TotalEvents      int     `json:"total_events"`
	CompletedEvents  int     `json:"completed_events"`
	InProgressEvents int     `json:"in_progress_events"`
	LatestProgress   float64 `json:"latest_progress"`
	TotalStages      int     `json:"total_stages"`
	CompletedStages  int     `json:"completed_stages"`
	ProjectDuration  int     `json:"project_duration_days"`
}

// Timeline is the assembled view for a project.
type Timeline struct {
	Events []Event `json:"events"`
	Stats  Stats   `json:"stats"`
}

// Build assembles the timeline from progress updates and the optional project
// summary. Events come back sorted by date ascending.
func Build(updates []models.ProgressUpdate, summary *models.ProjectSummary) Timeline {
	events := make([]Event, 0, len(updates)+1)

	if summary != nil && summary.ID.Int64() != 0 {
		events = append(events, Event{
			ID:      fmt.Sprintf("start-%d", summary.ID.Int64()),
			Type:    EventProjectStart,
			Title:   "Project Started",
			Icon:    "🚀",
			Date:    parseDate(summary.CreatedAt),
			RawDate: summary.CreatedAt,
			Details: summary.Title,
		})
	}

	for _, u := range updates {
		events = append(events, Event{
			ID:       fmt.Sprintf("update-%d", u.ID.Int64()),
			Type:     EventProgressUpdate,
			Title:    u.StageName,
			Stage:    u.StageName,
			Status:   normalizeStatus(u.StageStatus),
			Progress: u.CompletionPercentage.Float64(),
			Icon:     iconFor(u.StageName),
			Date:     parseDate(u.CreatedAt),
			RawDate:  u.CreatedAt,
			Details:  u.Description,
			Images:   u.Images,
		})
	}

	events = append(events, milestones(updates)...)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	return Timeline{Events: events, Stats: buildStats(events, updates)}
}

// milestones emits one event per stage that reached 100% with status
// Completed, using the latest such update per stage.
func milestones(updates []models.ProgressUpdate) []Event {
	latest := map[string]models.ProgressUpdate{}
	for _, u := range updates {
		if u.CompletionPercentage.Float64() != 100 || u.StageStatus != models.StageStatusCompleted {
			continue
		}
		prev, ok := latest[u.StageName]
		if !ok || parseDate(u.CreatedAt).After(parseDate(prev.CreatedAt)) {
			latest[u.StageName] = u
		}
	}

	out := make([]Event, 0, len(latest))
	for stage, u := range latest {
		out = append(out, Event{
			ID:       "milestone-" + strings.ToLower(stage),
			Type:     EventMilestone,
			Title:    stage + " Completed",
			Stage:    stage,
			Status:   StatusCompleted,
			Progress: 100,
			Icon:     "🏁",
			Date:     parseDate(u.CreatedAt),
			RawDate:  u.CreatedAt,
		})
	}
	return out
}

func buildStats(events []Event, updates []models.ProgressUpdate) Stats {
	stats := Stats{TotalEvents: len(events)}

	for _, e := range events {
		switch e.Status {
		case StatusCompleted:
			stats.CompletedEvents++
		case StatusInProgress:
			stats.InProgressEvents++
		}
	}

	stages := map[string]bool{}
	completedStages := map[string]bool{}
	for _, u := range updates {
		stages[u.StageName] = true
		if u.CompletionPercentage.Float64() == 100 && u.StageStatus == models.StageStatusCompleted {
			completedStages[u.StageName] = true
		}
		if p := u.CompletionPercentage.Float64(); p > stats.LatestProgress {
			stats.LatestProgress = p
		}
	}
	stats.TotalStages = len(stages)
	stats.CompletedStages = len(completedStages)

	if len(events) > 1 {
		first := events[0].Date
		last := events[len(events)-1].Date
		stats.ProjectDuration = int(math.Ceil(last.Sub(first).Hours() / 24))
	}

	return stats
}

func normalizeStatus(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}

func iconFor(stage string) string {
	if icon, ok := stageIcons[stage]; ok {
		return icon
	}
	return fallbackIcon
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
