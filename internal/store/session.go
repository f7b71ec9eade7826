package store

import (
	"context"
	"sync"
	"time"

	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
	"github.com/buildhub/homeowner-gateway/internal/ws"
)

// Sources is the slice of the upstream client the stores refresh from.
type Sources interface {
	MyRequests(ctx context.Context, sess upstream.Session) ([]models.LayoutRequest, error)
	ReceivedDesigns(ctx context.Context, sess upstream.Session) ([]models.Design, error)
	Estimates(ctx context.Context, sess upstream.Session) ([]models.Estimate, error)
	MyProjects(ctx context.Context, sess upstream.Session) ([]models.Project, error)
	PaymentRequests(ctx context.Context, sess upstream.Session) ([]models.PaymentRequest, error)
}

// Notifier announces successful refreshes to the homeowner's open connections.
type Notifier interface {
	NotifyUser(homeownerID int64, event string, data interface{})
}

// SessionStores is the dashboard state for one logged-in homeowner: a snapshot
// per collection, kept fresh by pollers that die with the session.
type SessionStores struct {
	Requests        *List[models.LayoutRequest]
	Designs         *List[models.Design]
	Estimates       *List[models.Estimate]
	Projects        *List[models.Project]
	PaymentRequests *List[models.PaymentRequest]

	notify Notifier
	cancel context.CancelFunc

	mu       sync.Mutex
	sess     upstream.Session
	lastSeen time.Time
}

func newSessionStores(sess upstream.Session, notify Notifier) *SessionStores {
	return &SessionStores{
		Requests:        NewList[models.LayoutRequest](),
		Designs:         NewList[models.Design](),
		Estimates:       NewList[models.Estimate](),
		Projects:        NewList[models.Project](),
		PaymentRequests: NewList[models.PaymentRequest](),
		notify:          notify,
		sess:            sess,
		lastSeen:        time.Now(),
	}
}

// Session returns the current upstream session. Pollers read it through here
// because the cookie is rotated concurrently by EnsureFor.
func (s *SessionStores) Session() upstream.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

func (s *SessionStores) setCookie(cookie string) {
	s.mu.Lock()
	s.sess.Cookie = cookie
	s.mu.Unlock()
}

// Touch marks the session as recently used.
func (s *SessionStores) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *SessionStores) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *SessionStores) announce(event string, count int) {
	if s.notify == nil {
		return
	}
	s.notify.NotifyUser(s.Session().HomeownerID, event, map[string]interface{}{"count": count})
}

func (s *SessionStores) start(ctx context.Context, sources Sources, interval time.Duration) {
	ctx, s.cancel = context.WithCancel(ctx)

	NewPoller("requests", interval, func(ctx context.Context) error {
		requests, err := sources.MyRequests(ctx, s.Session())
		if err != nil {
			s.Requests.SetError(err)
			return err
		}
		s.Requests.Set(filterDeleted(requests))
		return nil
	}).Start(ctx)

	NewPoller("designs", interval, func(ctx context.Context) error {
		designs, err := sources.ReceivedDesigns(ctx, s.Session())
		if err != nil {
			s.Designs.SetError(err)
			return err
		}
		s.Designs.Set(designs)
		s.announce(ws.EventDesignsUpdated, len(designs))
		return nil
	}).Start(ctx)

	NewPoller("estimates", interval, func(ctx context.Context) error {
		estimates, err := sources.Estimates(ctx, s.Session())
		if err != nil {
			s.Estimates.SetError(err)
			return err
		}
		s.Estimates.Set(estimates)
		s.announce(ws.EventEstimatesUpdated, len(estimates))
		return nil
	}).Start(ctx)

	NewPoller("projects", interval, func(ctx context.Context) error {
		projects, err := sources.MyProjects(ctx, s.Session())
		if err != nil {
			s.Projects.SetError(err)
			return err
		}
		s.Projects.Set(projects)
		s.announce(ws.EventProgressUpdate, len(projects))
		return nil
	}).Start(ctx)

	NewPoller("payment_requests", interval, func(ctx context.Context) error {
		requests, err := sources.PaymentRequests(ctx, s.Session())
		if err != nil {
			s.PaymentRequests.SetError(err)
			return err
		}
		s.PaymentRequests.Set(requests)
		return nil
	}).Start(ctx)
}

func (s *SessionStores) stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// filterDeleted drops soft-deleted requests before they reach the snapshot.
func filterDeleted(requests []models.LayoutRequest) []models.LayoutRequest {
	out := make([]models.LayoutRequest, 0, len(requests))
	for _, r := range requests {
		if !r.IsDeleted() {
			out = append(out, r)
		}
	}
	return out
}
