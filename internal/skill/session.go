package skill

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dexvox/dexvox/internal/observe"
)

// session is the per-conversation state: one slot remembering the most
// recently resolved entity, used as the referent for follow-up questions
// ("what about its weight?"). Nothing older than the last resolution is
// kept.
type session struct {
	lastResolved string
	lastSeen     time.Time
}

// ManagerOption is a functional option for configuring a [Manager].
type ManagerOption func(*Manager)

// WithManagerMetrics attaches a [observe.Metrics] instance so the manager
// can track the active-session gauge. When nil (the default), no metrics
// are recorded.
func WithManagerMetrics(m *observe.Metrics) ManagerOption {
	return func(mgr *Manager) {
		mgr.metrics = m
	}
}

// Manager owns all conversation sessions. The host platform guarantees at
// most one in-flight query per session; the manager's lock only protects
// the session map itself across sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	metrics  *observe.Metrics
}

// NewManager returns a [Manager] evicting sessions idle for longer than
// ttl. A non-positive ttl disables eviction.
func NewManager(ttl time.Duration, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Remember stores entity as sessionID's last-resolved referent, creating
// the session on first use.
func (m *Manager) Remember(sessionID, entity string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		s = &session{}
		m.sessions[sessionID] = s
		if m.metrics != nil {
			m.metrics.ActiveSessions.Add(context.Background(), 1)
		}
	}
	s.lastResolved = entity
	s.lastSeen = time.Now()
}

// Recall returns sessionID's last-resolved referent. ok is false when the
// session is unknown, evicted, or has never resolved an entity.
func (m *Manager) Recall(sessionID string) (entity string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, found := m.sessions[sessionID]
	if !found || s.lastResolved == "" {
		return "", false
	}
	s.lastSeen = time.Now()
	return s.lastResolved, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps idle sessions until ctx is cancelled. Call it in its own
// goroutine from main. It returns immediately when eviction is disabled.
func (m *Manager) Run(ctx context.Context) {
	if m.ttl <= 0 {
		return
	}

	interval := m.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.sweep(time.Now()); n > 0 {
				slog.Debug("skill: evicted idle sessions", "count", n)
			}
		}
	}
}

// sweep removes sessions idle since before now-ttl and returns how many
// were evicted.
func (m *Manager) sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted int
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
			evicted++
			if m.metrics != nil {
				m.metrics.ActiveSessions.Add(context.Background(), -1)
			}
		}
	}
	return evicted
}
