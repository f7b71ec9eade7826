package store

import (
	"context"
	"sync"
	"time"

	"github.com/buildhub/homeowner-gateway/internal/goroutine"
	"github.com/buildhub/homeowner-gateway/internal/logger"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

const reapScanInterval = time.Minute

// Manager owns the per-homeowner store sets. Each set polls upstream until
// the homeowner goes idle past the TTL, then its pollers are cancelled and
// the set dropped.
type Manager struct {
	sources      Sources
	notify       Notifier
	pollInterval time.Duration
	idleTTL      time.Duration

	baseCtx context.Context

	mu       sync.Mutex
	sessions map[int64]*SessionStores
}

func NewManager(sources Sources, notify Notifier, pollInterval, idleTTL time.Duration) *Manager {
	return &Manager{
		sources:      sources,
		notify:       notify,
		pollInterval: pollInterval,
		idleTTL:      idleTTL,
		baseCtx:      context.Background(),
		sessions:     map[int64]*SessionStores{},
	}
}

// EnsureFor returns the store set for the homeowner, creating and starting it
// on first use. Pollers run on the manager's base context, never the caller's:
// a finished request must not kill the background refresh. The session cookie
// is refreshed on every call so pollers keep authenticating after a cookie
// rotation.
func (m *Manager) EnsureFor(ctx context.Context, sess upstream.Session) *SessionStores {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[sess.HomeownerID]; ok {
		existing.Touch()
		existing.setCookie(sess.Cookie)
		return existing
	}

	stores := newSessionStores(sess, m.notify)
	stores.start(m.baseCtx, m.sources, m.pollInterval)
	m.sessions[sess.HomeownerID] = stores
	activeSessions.Set(float64(len(m.sessions)))

	logger.Log.WithField("homeowner_id", sess.HomeownerID).Info("session stores started")
	return stores
}

// Get returns the store set if one is live, without creating it.
func (m *Manager) Get(homeownerID int64) (*SessionStores, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stores, ok := m.sessions[homeownerID]
	if ok {
		stores.Touch()
	}
	return stores, ok
}

// Drop cancels and removes the homeowner's store set, e.g. on logout.
func (m *Manager) Drop(homeownerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stores, ok := m.sessions[homeownerID]; ok {
		stores.stop()
		delete(m.sessions, homeownerID)
		activeSessions.Set(float64(len(m.sessions)))
	}
}

// StartReaper adopts ctx as the base context for all future pollers and
// periodically evicts idle sessions. The reaper itself stops when ctx is
// cancelled.
func (m *Manager) StartReaper(ctx context.Context) {
	m.mu.Lock()
	m.baseCtx = ctx
	m.mu.Unlock()

	goroutine.SafeGoWithContext(ctx, "store-reaper", func(ctx context.Context) {
		ticker := time.NewTicker(reapScanInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				m.StopAll()
				return
			case <-ticker.C:
				m.reap()
			}
		}
	})
}

func (m *Manager) reap() {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, stores := range m.sessions {
		if stores.idleSince().Before(cutoff) {
			stores.stop()
			delete(m.sessions, id)
			logger.Log.WithField("homeowner_id", id).Info("idle session stores reaped")
		}
	}
	activeSessions.Set(float64(len(m.sessions)))
}

// StopAll cancels every live session, used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, stores := range m.sessions {
		stores.stop()
		delete(m.sessions, id)
	}
	activeSessions.Set(0)
}
