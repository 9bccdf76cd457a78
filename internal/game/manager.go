package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/user/hsk-life/config"
	"github.com/user/hsk-life/internal/content"
	"github.com/user/hsk-life/internal/interfaces"
	"go.uber.org/zap"
)

// ErrPlayerExists is returned when registering an ID that already has a session
var ErrPlayerExists = errors.New("player already registered")

// ManagerOptions carries the collaborators shared by every session
type ManagerOptions struct {
	Catalog  *content.Catalog
	Saves    *SaveStore
	Dialogue interfaces.DialogueService
	Exam     interfaces.ExamService
	Effects  interfaces.EffectSink
	Dice     Dice
	Logger   *zap.Logger
}

// Manager handles the running player sessions
type Manager struct {
	sessions  map[string]*Session
	stateLock sync.RWMutex
	config    config.Config
	opts      ManagerOptions
	Logger    *zap.Logger
}

// NewManager creates a new session manager
func NewManager(cfg config.Config, opts ManagerOptions) *Manager {
	if opts.Catalog == nil {
		opts.Catalog = content.Default()
	}
	if opts.Dice == nil {
		opts.Dice = NewDiceRoller()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		config:   cfg,
		opts:     opts,
		Logger:   opts.Logger,
	}
}

// Catalog returns the content shared by all sessions
func (m *Manager) Catalog() *content.Catalog {
	return m.opts.Catalog
}

// RegisterPlayer starts a session for a player. An empty id registers a new player;
// a known id resumes that player's save.
func (m *Manager) RegisterPlayer(ctx context.Context, id, name string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlayerID, err)
	}

	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	if _, exists := m.sessions[id]; exists {
		return nil, ErrPlayerExists
	}

	save := DefaultSave()
	if m.opts.Saves != nil {
		loaded, err := m.opts.Saves.Load(ctx, id)
		if err != nil {
			// A corrupt save must not lock the player out
			m.Logger.Error("Failed to load save, starting fresh",
				zap.String("player_id", id),
				zap.Error(err))
		} else {
			save = loaded
		}
	}

	session := NewSession(id, name, save, SessionOptions{
		Catalog:       m.opts.Catalog,
		Config:        m.config.Game,
		HistoryWindow: m.config.Gemini.HistoryWindow,
		Dice:          m.opts.Dice,
		Dialogue:      m.opts.Dialogue,
		Exam:          m.opts.Exam,
		Effects:       m.opts.Effects,
		Saves:         m.opts.Saves,
		Logger:        m.Logger,
	})
	m.sessions[id] = session
	session.Start()

	m.Logger.Info("Player registered",
		zap.String("player_id", id),
		zap.String("name", name),
		zap.Int("money", save.Money),
		zap.Int("hsk_level", save.HSKLevel),
		zap.Int("inventory", len(save.Inventory)))
	return session, nil
}

// GetSession retrieves a running session
func (m *Manager) GetSession(id string) (*Session, error) {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, ErrPlayerNotFound
	}
	return session, nil
}

// Players returns all running sessions, oldest first
func (m *Manager) Players() []*Session {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions
}

// RemovePlayer stops and forgets a session. The save stays on disk.
func (m *Manager) RemovePlayer(id string) error {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	session, exists := m.sessions[id]
	if !exists {
		return ErrPlayerNotFound
	}
	session.Stop()
	delete(m.sessions, id)
	m.Logger.Info("Player removed", zap.String("player_id", id))
	return nil
}

// Shutdown stops every session clock
func (m *Manager) Shutdown() {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	for _, s := range m.sessions {
		s.Stop()
	}
	m.Logger.Info("All sessions stopped", zap.Int("sessions", len(m.sessions)))
}
