package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/buildhub/homeowner-gateway/internal/logger"
	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
	"github.com/buildhub/homeowner-gateway/internal/wizard"
)

type wizardBackend interface {
	SubmitRequest(ctx context.Context, sess upstream.Session, payload map[string]interface{}) (int64, error)
	AssignArchitects(ctx context.Context, sess upstream.Session, requestID int64, architectIDs []int64) error
	Architects(ctx context.Context, sess upstream.Session) ([]models.Architect, error)
}

// SubmitResult reports the outcome of a wizard submission.
type SubmitResult struct {
	RequestID          int64    `json:"request_id"`
	ArchitectsAssigned bool     `json:"architects_assigned"`
	ArchitectNames     []string `json:"architect_names"`
}

// WizardService holds one in-flight request wizard per homeowner.
type WizardService struct {
	backend wizardBackend

	mu      sync.Mutex
	wizards map[int64]*wizard.Wizard
}

func NewWizardService(backend wizardBackend) *WizardService {
	return &WizardService{backend: backend, wizards: map[int64]*wizard.Wizard{}}
}

// Get returns the homeowner's wizard, creating a fresh one on first use.
func (s *WizardService) Get(homeownerID int64) *wizard.Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wizards[homeownerID]; ok {
		return w
	}
	w := wizard.New()
	s.wizards[homeownerID] = w
	return w
}

// Update merges new step data into the wizard.
func (s *WizardService) Update(homeownerID int64, data wizard.Data) *wizard.Wizard {
	w := s.Get(homeownerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Data = data
	return w
}

// Next validates the current step and advances. On failure the wizard carries
// the field errors.
func (s *WizardService) Next(homeownerID int64) (*wizard.Wizard, error) {
	w := s.Get(homeownerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return w, w.Next()
}

// Prev steps back without validating.
func (s *WizardService) Prev(homeownerID int64) *wizard.Wizard {
	w := s.Get(homeownerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Prev()
	return w
}

// Reset discards the homeowner's wizard.
func (s *WizardService) Reset(homeownerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wizards, homeownerID)
}

// Submit revalidates every gated step, creates the request upstream and
// routes it to the chosen architects. Architect assignment is best effort: a
// failure there does not roll the request back.
func (s *WizardService) Submit(ctx context.Context, sess upstream.Session) (SubmitResult, error) {
	w := s.Get(sess.HomeownerID)

	s.mu.Lock()
	for step := range wizard.StepNames {
		if errs := w.ValidateStep(step); len(errs) > 0 {
			w.FieldErrors = errs
			w.Step = step
			s.mu.Unlock()
			return SubmitResult{}, wizard.ErrValidation
		}
	}
	payload := w.SubmitPayload()
	architectIDs := w.Data.ArchitectIDs
	s.mu.Unlock()

	requestID, err := s.backend.SubmitRequest(ctx, sess, payload)
	if err != nil {
		return SubmitResult{}, err
	}

	result := SubmitResult{RequestID: requestID, ArchitectsAssigned: true}
	if err := s.backend.AssignArchitects(ctx, sess, requestID, architectIDs); err != nil {
		logger.Log.WithError(err).WithField("request_id", requestID).Warn("architect assignment failed after submit")
		result.ArchitectsAssigned = false
	}
	result.ArchitectNames = s.architectNames(ctx, sess, architectIDs)

	s.Reset(sess.HomeownerID)
	return result, nil
}

// architectNames resolves the chosen ids against the marketplace directory so
// the confirmation can name who got the request. A lookup failure falls back
// to numbered placeholders.
func (s *WizardService) architectNames(ctx context.Context, sess upstream.Session, architectIDs []int64) []string {
	byID := map[int64]string{}
	architects, err := s.backend.Architects(ctx, sess)
	if err != nil {
		logger.Log.WithError(err).Warn("architect directory lookup failed")
	} else {
		for _, a := range architects {
			byID[int64(a.ID)] = a.Name
		}
	}

	names := make([]string, 0, len(architectIDs))
	for _, id := range architectIDs {
		if name, ok := byID[id]; ok && name != "" {
			names = append(names, name)
			continue
		}
		names = append(names, fmt.Sprintf("Architect #%d", id))
	}
	return names
}
