package generation

import (
	"log"
	"sync"
	"time"

	"github.com/jonathan/training-report/internal/types"
)

// Manager keeps editing sessions in memory and expires idle ones
type Manager struct {
	orch    *Orchestrator
	idleTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]*managed

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

type managed struct {
	session *Session
	owner   string
}

// NewManager creates a manager. When cleanupInterval is positive a background
// goroutine removes sessions idle for longer than idleTTL; call Stop to end it.
func NewManager(orch *Orchestrator, idleTTL, cleanupInterval time.Duration) *Manager {
	m := &Manager{
		orch:     orch,
		idleTTL:  idleTTL,
		sessions: make(map[string]*managed),
	}
	if cleanupInterval > 0 {
		m.cleanupTicker = time.NewTicker(cleanupInterval)
		m.cleanupStop = make(chan struct{})
		go m.cleanup()
	}
	return m
}

// Orchestrator returns the orchestrator sessions are created with
func (m *Manager) Orchestrator() *Orchestrator {
	return m.orch
}

// Create starts a session for owner
func (m *Manager) Create(owner string, f types.FormData) *Session {
	return m.add(owner, NewSession(m.orch, f))
}

// Resume starts a session editing a saved entry
func (m *Manager) Resume(owner string, entry types.HistoryEntry) *Session {
	return m.add(owner, ResumeSession(m.orch, entry))
}

func (m *Manager) add(owner string, s *Session) *Session {
	m.mu.Lock()
	m.sessions[s.ID()] = &managed{session: s, owner: owner}
	m.mu.Unlock()
	return s
}

// Get returns the owner's session. Sessions of other owners are reported as
// not found.
func (m *Manager) Get(owner, id string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || entry.owner != owner {
		return nil, ErrSessionNotFound
	}
	return entry.session, nil
}

// Delete closes a session; in-flight results for it are discarded
func (m *Manager) Delete(owner, id string) error {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if !ok || entry.owner != owner {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	entry.session.Reset()
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle since before now-idleTTL and returns how many
// were removed
func (m *Manager) Sweep(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.idleTTL)

	m.mu.RLock()
	var expired []string
	for id, entry := range m.sessions {
		if entry.session.LastActive().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		m.mu.Lock()
		entry, ok := m.sessions[id]
		ok = ok && entry.session.LastActive().Before(cutoff)
		if ok {
			delete(m.sessions, id)
			removed++
		}
		m.mu.Unlock()
		if ok {
			entry.session.Reset()
		}
	}
	return removed
}

func (m *Manager) cleanup() {
	for {
		select {
		case now := <-m.cleanupTicker.C:
			if n := m.Sweep(now); n > 0 {
				log.Printf("[sessions] expired %d idle session(s)", n)
			}
		case <-m.cleanupStop:
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		if m.cleanupTicker != nil {
			m.cleanupTicker.Stop()
		}
		if m.cleanupStop != nil {
			close(m.cleanupStop)
		}
	})
}
