package service

import (
	"context"
	"fmt"

	"github.com/buildhub/homeowner-gateway/internal/repository"
)

type tourStore interface {
	Completed(ctx context.Context, homeownerID int64, flag string) (bool, error)
	MarkCompleted(ctx context.Context, homeownerID int64, flag string) error
}

// TourService tracks onboarding tour completion server-side so the tour stays
// dismissed across devices.
type TourService struct {
	store tourStore
}

func NewTourService(store tourStore) *TourService {
	return &TourService{store: store}
}

// Status returns completion for both tours.
func (s *TourService) Status(ctx context.Context, homeownerID int64) (map[string]bool, error) {
	out := map[string]bool{}
	for _, flag := range []string{repository.TourDashboard, repository.TourWizard} {
		done, err := s.store.Completed(ctx, homeownerID, flag)
		if err != nil {
			return nil, err
		}
		out[flag] = done
	}
	return out, nil
}

// Complete marks one tour as finished.
func (s *TourService) Complete(ctx context.Context, homeownerID int64, flag string) error {
	if flag != repository.TourDashboard && flag != repository.TourWizard {
		return fmt.Errorf("unknown tour %q", flag)
	}
	return s.store.MarkCompleted(ctx, homeownerID, flag)
}
