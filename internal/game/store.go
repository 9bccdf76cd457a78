package game

import (
	"sync"

	"github.com/user/hsk-life/internal/types"
)

// State is the mutable record of one player session
type State struct {
	Stats     types.PlayerStats
	Inventory []types.InventoryItem
	Ghosts    []types.Ghost
	Weather   types.Weather
	TimeOfDay types.TimeOfDay
	Mode      types.Mode
	ZoneID    string

	// Active conversation
	NPCID       string
	History     []types.ChatMessage
	Suggestions []types.Suggestion
	// Turn is bumped whenever a conversation or flow starts or ends, so that late
	// service replies can be told apart from current ones
	Turn uint64

	Exam     *ExamState
	Job      *JobState
	Minigame *MinigameState
}

// HasItem reports whether the inventory holds at least one entry with the ID
func (st *State) HasItem(id string) bool {
	for _, item := range st.Inventory {
		if item.ID == id {
			return true
		}
	}
	return false
}

// clone returns a deep copy safe to hand out of the store
func (st State) clone() State {
	out := st
	out.Inventory = append([]types.InventoryItem(nil), st.Inventory...)
	out.Ghosts = append([]types.Ghost(nil), st.Ghosts...)
	out.History = append([]types.ChatMessage(nil), st.History...)
	out.Suggestions = append([]types.Suggestion(nil), st.Suggestions...)
	if st.Exam != nil {
		exam := *st.Exam
		exam.History = append([]types.ChatMessage(nil), st.Exam.History...)
		out.Exam = &exam
	}
	if st.Job != nil {
		job := *st.Job
		out.Job = &job
	}
	if st.Minigame != nil {
		mg := *st.Minigame
		mg.Pool = append([]types.FallingWord(nil), st.Minigame.Pool...)
		out.Minigame = &mg
	}
	return out
}

func (st *State) saveData() types.SaveData {
	return types.SaveData{
		Money:     st.Stats.Money,
		HSKLevel:  st.Stats.HSKLevel,
		Inventory: append([]types.InventoryItem{}, st.Inventory...),
	}
}

func sameSave(a, b types.SaveData) bool {
	if a.Money != b.Money || a.HSKLevel != b.HSKLevel || len(a.Inventory) != len(b.Inventory) {
		return false
	}
	for i := range a.Inventory {
		if a.Inventory[i] != b.Inventory[i] {
			return false
		}
	}
	return true
}

func clampBar(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// clamp enforces the stat ranges. Money has no floor.
func clamp(s *types.PlayerStats) {
	s.Health = clampBar(s.Health)
	s.Hunger = clampBar(s.Hunger)
	s.Thirst = clampBar(s.Thirst)
	s.Stamina = clampBar(s.Stamina)
	s.Face = clampBar(s.Face)
	if s.HSKLevel < 1 {
		s.HSKLevel = 1
	}
}

// Store owns a session's state. Every mutation goes through Update, which clamps
// the stats and performs the game-over check afterwards.
type Store struct {
	mu        sync.Mutex
	persistMu sync.Mutex
	state     State

	// onPersist receives the save subset whenever money, level or inventory change
	onPersist func(types.SaveData)
	// onGameOver runs once when health reaches zero
	onGameOver func()
}

// NewStore creates a store holding the given state
func NewStore(initial State) *Store {
	clamp(&initial.Stats)
	return &Store{state: initial}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Stats returns the current stats
func (s *Store) Stats() types.PlayerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stats
}

// Update applies fn to the latest state. fn must validate before it mutates: an
// error returned from fn is passed through, but mutations made before it are kept.
// Updates are refused with ErrGameOver once the session has ended.
func (s *Store) Update(fn func(st *State) error) error {
	s.mu.Lock()
	if s.state.Mode == types.ModeGameOver {
		s.mu.Unlock()
		return ErrGameOver
	}

	before := s.state.saveData()
	err := fn(&s.state)
	clamp(&s.state.Stats)

	died := false
	if s.state.Stats.Health <= 0 {
		s.state.Stats.Health = 0
		s.state.Mode = types.ModeGameOver
		s.state.Turn++
		died = true
	}
	s.commit(before, false)

	if died && s.onGameOver != nil {
		s.onGameOver()
	}
	return err
}

// Replace swaps the whole state. It is the only way out of game over.
func (s *Store) Replace(next State) {
	s.mu.Lock()
	before := s.state.saveData()
	turn := s.state.Turn
	clamp(&next.Stats)
	next.Turn = turn + 1
	s.state = next
	s.commit(before, true)
}

// commit releases the state lock and persists when the save subset changed or
// force is set.
// persistMu is taken before the state lock is released so saves land in order.
func (s *Store) commit(before types.SaveData, force bool) {
	after := s.state.saveData()
	if s.onPersist == nil || (!force && sameSave(before, after)) {
		s.mu.Unlock()
		return
	}
	s.persistMu.Lock()
	s.mu.Unlock()
	defer s.persistMu.Unlock()
	s.onPersist(after)
}
