package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildhub/homeowner-gateway/internal/models"
)

func update(id int64, stage, status string, pct float64, createdAt string) models.ProgressUpdate {
	return models.ProgressUpdate{
		ID:                   models.FlexInt(id),
		StageName:            stage,
		StageStatus:          status,
		CompletionPercentage: models.FlexFloat(pct),
		CreatedAt:            createdAt,
	}
}

func TestBuildSortsEventsByDateAscending(t *testing.T) {
	updates := []models.ProgressUpdate{
		update(2, "Structure", "In Progress", 40, "2026-02-10 09:00:00"),
		update(1, "Foundation", "Completed", 100, "2026-01-05 09:00:00"),
	}
	summary := &models.ProjectSummary{ID: 9, Title: "Villa", CreatedAt: "2026-01-01 08:00:00"}

	tl := Build(updates, summary)

	require.NotEmpty(t, tl.Events)
	for i := 1; i < len(tl.Events); i++ {
		assert.False(t, tl.Events[i].Date.Before(tl.Events[i-1].Date), "events out of order at %d", i)
	}
	assert.Equal(t, EventProjectStart, tl.Events[0].Type)
	assert.Equal(t, "Project Started", tl.Events[0].Title)
}

func TestBuildEmitsAtMostOneMilestonePerStage(t *testing.T) {
	updates := []models.ProgressUpdate{
		update(1, "Foundation", "Completed", 100, "2026-01-05 09:00:00"),
		update(2, "Foundation", "Completed", 100, "2026-01-07 09:00:00"),
		update(3, "Structure", "In Progress", 60, "2026-01-10 09:00:00"),
	}

	tl := Build(updates, nil)

	var milestoneCount int
	var milestoneRaw string
	for _, e := range tl.Events {
		if e.Type == EventMilestone {
			milestoneCount++
			milestoneRaw = e.RawDate
			assert.Equal(t, "milestone-foundation", e.ID)
			assert.Equal(t, "Foundation Completed", e.Title)
		}
	}
	assert.Equal(t, 1, milestoneCount)
	assert.Equal(t, "2026-01-07 09:00:00", milestoneRaw, "milestone should use the latest completed update")
}

func TestBuildStatusNormalization(t *testing.T) {
	tl := Build([]models.ProgressUpdate{
		update(1, "Electrical", "In Progress", 30, "2026-01-05 09:00:00"),
	}, nil)

	require.Len(t, tl.Events, 1)
	assert.Equal(t, "in_progress", tl.Events[0].Status)
	assert.Equal(t, "⚡", tl.Events[0].Icon)
}

func TestBuildUnknownStageUsesFallbackIcon(t *testing.T) {
	tl := Build([]models.ProgressUpdate{
		update(1, "Landscaping", "In Progress", 10, "2026-01-05 09:00:00"),
	}, nil)

	require.Len(t, tl.Events, 1)
	assert.Equal(t, "🔧", tl.Events[0].Icon)
}

func TestStatsCountsAndLatestProgress(t *testing.T) {
	updates := []models.ProgressUpdate{
		update(1, "Foundation", "Completed", 100, "2026-01-05 09:00:00"),
		update(2, "Structure", "In Progress", 55, "2026-01-10 09:00:00"),
		update(3, "Roofing", "In Progress", 20, "2026-01-12 09:00:00"),
	}

	tl := Build(updates, nil)

	assert.Equal(t, len(tl.Events), tl.Stats.TotalEvents)
	assert.Equal(t, 2, tl.Stats.InProgressEvents)
	// One completed update plus its milestone.
	assert.Equal(t, 2, tl.Stats.CompletedEvents)
	assert.InDelta(t, 100, tl.Stats.LatestProgress, 0.001)
	assert.Equal(t, 3, tl.Stats.TotalStages)
	assert.Equal(t, 1, tl.Stats.CompletedStages)
}

func TestStatsEmptyTimeline(t *testing.T) {
	tl := Build(nil, nil)

	assert.Empty(t, tl.Events)
	assert.Zero(t, tl.Stats.LatestProgress)
	assert.Zero(t, tl.Stats.ProjectDuration)
}

func TestProjectDurationIsCeilOfDaySpan(t *testing.T) {
	updates := []models.ProgressUpdate{
		update(1, "Foundation", "In Progress", 10, "2026-01-01 08:00:00"),
		update(2, "Foundation", "In Progress", 30, "2026-01-03 20:00:00"),
	}

	tl := Build(updates, nil)

	// 2 days 12 hours rounds up to 3.
	assert.Equal(t, 3, tl.Stats.ProjectDuration)
}
