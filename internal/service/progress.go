package service

import (
	"context"

	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/timeline"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

type progressBackend interface {
	ProgressUpdates(ctx context.Context, sess upstream.Session, projectID int64) ([]models.ProgressUpdate, *models.ProjectSummary, error)
}

// ProgressService assembles construction timelines.
type ProgressService struct {
	backend progressBackend
}

func NewProgressService(backend progressBackend) *ProgressService {
	return &ProgressService{backend: backend}
}

// Timeline fetches a project's progress and builds the event timeline.
func (s *ProgressService) Timeline(ctx context.Context, sess upstream.Session, projectID int64) (timeline.Timeline, error) {
	updates, summary, err := s.backend.ProgressUpdates(ctx, sess, projectID)
	if err != nil {
		return timeline.Timeline{}, err
	}
	return timeline.Build(updates, summary), nil
}

// Updates returns the raw progress records for a project.
func (s *ProgressService) Updates(ctx context.Context, sess upstream.Session, projectID int64) ([]models.ProgressUpdate, *models.ProjectSummary, error) {
	return s.backend.ProgressUpdates(ctx, sess, projectID)
}
