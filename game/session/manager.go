package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// IDGenerator produces new session identifiers
type IDGenerator func() string

// ShortSessionID returns a random 4-character hex ID, or a UUID if the
// system random source fails
func ShortSessionID() string {
	bytes := make([]byte, 2)
	if _, err := rand.Read(bytes); err != nil {
		return UUIDSessionID()
	}
	return hex.EncodeToString(bytes)
}

// maxIDAttempts bounds how many generated IDs are tried before switching to UUIDs
const maxIDAttempts = 64

// UUIDSessionID returns a random UUID
func UUIDSessionID() string {
	return uuid.NewString()
}

// Manager handles game session lifecycle
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	newID       IDGenerator
	log         logrus.FieldLogger
	mu          sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		newID:    ShortSessionID,
		log:      logrus.StandardLogger(),
	}
}

// NewManagerWithPersistence creates a new session manager with persistence
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	m := NewManager()
	m.persistence = persistence
	return m
}

// SetIDGenerator replaces the generator used for sessions created without an ID
func (m *Manager) SetIDGenerator(gen IDGenerator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.newID = gen
}

// SetLogger sets the logger used for persistence warnings
func (m *Manager) SetLogger(log logrus.FieldLogger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = log
}

// Create creates a new session with the given ID and configuration
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.uniqueID()
	} else if strings.ContainsAny(id, "/\\ ") {
		return nil, ErrInvalidSessionID
	}

	// Check if session already exists (case-insensitive)
	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(config.DrawCount)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.sessions[strings.ToLower(id)] = session

	// The session is not yet visible to other callers, so no lock is needed
	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			// Log error but don't fail the creation
			m.log.WithError(err).WithField("session", id).Warn("failed to persist new session")
		}
	}

	return session, nil
}

// uniqueID draws IDs until one is free, falling back to UUIDs once the
// generator keeps colliding. Caller holds m.mu.
func (m *Manager) uniqueID() string {
	gen := m.newID
	for attempt := 0; ; attempt++ {
		if attempt == maxIDAttempts {
			m.log.WithField("attempts", attempt).Warn("session ID space exhausted, using UUIDs")
			gen = UUIDSessionID
		}
		id := gen()
		if !m.idTaken(id) {
			return id
		}
	}
}

func (m *Manager) idTaken(id string) bool {
	return m.sessionExists(id) || (m.persistence != nil && m.persistence.Exists(id))
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.lookup(id)
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	// Try loading from persistence if not in memory
	if m.persistence != nil && m.persistence.Exists(id) {
		loaded, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		// Another caller may have loaded it first
		if existing, ok := m.lookup(id); ok {
			return existing, nil
		}
		m.sessions[strings.ToLower(id)] = loaded
		return loaded, nil
	}

	return nil, ErrSessionNotFound
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config)
	}

	return nil, err
}

// List returns all sessions held in memory
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session from memory and storage
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inMemory := m.forget(id)

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteFromMemory removes a session from memory only (not from persistence)
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.forget(id) {
		return ErrSessionNotFound
	}
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session. The
// new time reaches storage with the session's next save.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.RLock()
	session, exists := m.lookup(id)
	m.mu.RUnlock()

	if !exists {
		return ErrSessionNotFound
	}

	session.Lock()
	session.LastAccessedAt = time.Now()
	session.Unlock()

	return nil
}

// Save writes a session to persistence. The caller holds the session lock.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	session, exists := m.lookup(id)
	m.mu.RUnlock()

	if !exists {
		return ErrSessionNotFound
	}

	return m.persistence.Save(session)
}

// CleanupExpiredSessions drops sessions that haven't been accessed within
// maxAge from memory. Stored copies are kept and reload on demand.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	// Session locks are never taken while holding m.mu
	var stale []*service.Session
	for _, session := range m.List() {
		session.Lock()
		if session.LastAccessedAt.Before(cutoff) {
			stale = append(stale, session)
		}
		session.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, session := range stale {
		if current, ok := m.lookup(session.ID); ok && current == session && m.forget(session.ID) {
			removed++
		}
	}
	return removed
}

// Count returns the number of sessions held in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// lookup finds a session by ID. Caller holds m.mu.
func (m *Manager) lookup(id string) (*service.Session, bool) {
	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		session, exists = m.sessions[id]
	}
	return session, exists
}

// forget removes a session from the map. Caller holds m.mu.
func (m *Manager) forget(id string) bool {
	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; exists {
		delete(m.sessions, lowerID)
		return true
	}
	if _, exists := m.sessions[id]; exists {
		delete(m.sessions, id)
		return true
	}
	return false
}

// sessionExists checks if a session exists (case-insensitive). Caller holds m.mu.
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.lookup(id)
	return exists
}

// LoadPersistedSessions loads all persisted sessions into memory
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	sessionIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loadedCount := 0
	for _, id := range sessionIDs {
		if m.sessionExists(id) {
			continue
		}

		session, err := m.persistence.Load(id)
		if err != nil {
			m.log.WithError(err).WithField("session", id).Warn("failed to load persisted session")
			continue
		}

		m.sessions[strings.ToLower(id)] = session
		loadedCount++
	}

	if loadedCount > 0 {
		m.log.WithField("count", loadedCount).Info("loaded persisted sessions")
	}

	return nil
}

// SaveAllSessions saves all in-memory sessions to persistence
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	sessions := m.List()

	errorCount := 0
	for _, session := range sessions {
		session.Lock()
		err := m.persistence.Save(session)
		session.Unlock()
		if err != nil {
			m.log.WithError(err).WithField("session", session.ID).Warn("failed to save session")
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}

	return nil
}
