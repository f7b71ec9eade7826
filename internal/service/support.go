package service

import (
	"context"
	"errors"

	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type supportBackend interface {
	CreateIssue(ctx context.Context, sess upstream.Session, subject, description, category string) error
	Issues(ctx context.Context, sess upstream.Session) ([]models.Issue, error)
	Reviews(ctx context.Context, sess upstream.Session, targetID int64, targetRole string) ([]models.Review, error)
	PostReview(ctx context.Context, sess upstream.Session, review models.Review) error
	Comments(ctx context.Context, sess upstream.Session, kind string, resourceID int64) ([]models.Comment, error)
	PostComment(ctx context.Context, sess upstream.Session, kind string, resourceID int64, body string) error
}

// SupportService covers support tickets, reviews and comment threads.
type SupportService struct {
	backend supportBackend
}

func NewSupportService(backend supportBackend) *SupportService {
	return &SupportService{backend: backend}
}

func (s *SupportService) CreateIssue(ctx context.Context, sess upstream.Session, subject, description, category string) error {
	if subject == "" || description == "" {
		return errors.New("subject and description are required")
	}
	return s.backend.CreateIssue(ctx, sess, subject, description, category)
}

func (s *SupportService) Issues(ctx context.Context, sess upstream.Session) ([]models.Issue, error) {
	return s.backend.Issues(ctx, sess)
}

func (s *SupportService) Reviews(ctx context.Context, sess upstream.Session, targetID int64, targetRole string) ([]models.Review, error) {
	return s.backend.Reviews(ctx, sess, targetID, targetRole)
}

func (s *SupportService) PostReview(ctx context.Context, sess upstream.Session, review models.Review) error {
	if r := review.Rating.Int64(); r < 1 || r > 5 {
		return ErrInvalidRating
	}
	return s.backend.PostReview(ctx, sess, review)
}

func (s *SupportService) Comments(ctx context.Context, sess upstream.Session, kind string, resourceID int64) ([]models.Comment, error) {
	return s.backend.Comments(ctx, sess, kind, resourceID)
}

func (s *SupportService) PostComment(ctx context.Context, sess upstream.Session, kind string, resourceID int64, body string) error {
	if body == "" {
		return errors.New("comment body is required")
	}
	return s.backend.PostComment(ctx, sess, kind, resourceID, body)
}
