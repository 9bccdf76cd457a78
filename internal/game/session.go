package game

import (
	"context"
	"sync"
	"time"

	"github.com/user/hsk-life/config"
	"github.com/user/hsk-life/internal/content"
	"github.com/user/hsk-life/internal/interfaces"
	"github.com/user/hsk-life/internal/types"
	"go.uber.org/zap"
)

// SessionOptions carries the collaborators of a session
type SessionOptions struct {
	Catalog       *content.Catalog
	Config        config.GameConfig
	HistoryWindow int
	Dice          Dice
	Dialogue      interfaces.DialogueService
	Exam          interfaces.ExamService
	Effects       interfaces.EffectSink
	Saves         *SaveStore
	Logger        *zap.Logger
	Now           func() time.Time
}

// Session is one player's running game
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time

	store *Store
	clock *Clock

	catalog       *content.Catalog
	cfg           config.GameConfig
	historyWindow int
	dice          Dice
	dialogue      interfaces.DialogueService
	exam          interfaces.ExamService
	effects       interfaces.EffectSink
	saves         *SaveStore
	now           func() time.Time
	Logger        *zap.Logger

	// turnMu serializes the service-backed turns (dialogue, exam) of a session
	turnMu sync.Mutex
}

type nopSink struct{}

func (nopSink) Emit(types.Effect) {}

// NewSession creates a stopped session from a loaded save
func NewSession(id, name string, save types.SaveData, opts SessionOptions) *Session {
	if opts.Catalog == nil {
		opts.Catalog = content.Default()
	}
	if opts.Dice == nil {
		opts.Dice = NewDiceRoller()
	}
	if opts.Effects == nil {
		opts.Effects = nopSink{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = 6
	}

	s := &Session{
		ID:            id,
		Name:          name,
		CreatedAt:     opts.Now(),
		catalog:       opts.Catalog,
		cfg:           opts.Config,
		historyWindow: opts.HistoryWindow,
		dice:          opts.Dice,
		dialogue:      opts.Dialogue,
		exam:          opts.Exam,
		effects:       opts.Effects,
		saves:         opts.Saves,
		now:           opts.Now,
		Logger:        opts.Logger.With(zap.String("player_id", id)),
	}

	s.store = NewStore(s.initialState(save))
	s.store.onPersist = s.persist
	s.store.onGameOver = s.gameOver

	tod, weather, survival := opts.Config.Intervals()
	s.clock = NewClock(tod, weather, survival)
	s.clock.Logger = s.Logger
	s.clock.Subscribe(CadenceTimeOfDay, s.advanceTimeOfDay)
	s.clock.Subscribe(CadenceWeather, s.rollWeather)
	s.clock.Subscribe(CadenceSurvival, s.survivalTick)

	return s
}

func (s *Session) initialState(save types.SaveData) State {
	stats := content.InitialStats
	stats.Money = save.Money
	stats.HSKLevel = save.HSKLevel

	zone := s.cfg.StartZone
	if _, err := s.catalog.Zone(zone); err != nil {
		zone = s.catalog.Zones()[0].ID
	}

	inventory := append(content.InitialInventory(), save.Inventory...)
	return State{
		Stats:     stats,
		Inventory: inventory,
		Weather:   types.WeatherSunny,
		TimeOfDay: types.Morning,
		Mode:      types.ModeExploring,
		ZoneID:    zone,
	}
}

// Start arms the session clock and plays the ambience of the current zone
func (s *Session) Start() {
	s.clock.Start()
	snap := s.store.Snapshot()
	if zone, err := s.catalog.Zone(snap.ZoneID); err == nil && zone.AmbientSound != "" {
		var fx effects
		fx.ambience(zone.AmbientSound)
		s.emit(fx)
	}
}

// Stop disarms the session clock and waits for a tick in flight
func (s *Session) Stop() {
	s.clock.StopAndWait()
}

// Clock exposes the session clock, mainly for synthetic ticks
func (s *Session) Clock() *Clock {
	return s.clock
}

// State returns a snapshot of the session state
func (s *Session) State() State {
	return s.store.Snapshot()
}

// Stats returns the current stats
func (s *Session) Stats() types.PlayerStats {
	return s.store.Stats()
}

func (s *Session) persist(data types.SaveData) {
	if s.saves == nil {
		return
	}
	if err := s.saves.Save(context.Background(), s.ID, data); err != nil {
		s.Logger.Error("Failed to persist save data", zap.Error(err))
	}
}

func (s *Session) gameOver() {
	s.clock.Stop()
	s.Logger.Info("Game over")
	var fx effects
	fx.notify("GAME OVER. You died from hunger, thirst, or sickness.")
	s.emit(fx)
}

// effects collects side-effect requests while the state lock is held; they are
// emitted once the update has been applied
type effects []types.Effect

func (e *effects) notify(text string) {
	*e = append(*e, types.Effect{Kind: types.EffectNotification, Text: text})
}

func (e *effects) sound(name string) {
	*e = append(*e, types.Effect{Kind: types.EffectSound, Sound: name})
}

func (e *effects) speak(text string) {
	*e = append(*e, types.Effect{Kind: types.EffectSpeech, Text: text})
}

func (e *effects) ambience(name string) {
	*e = append(*e, types.Effect{Kind: types.EffectAmbience, Sound: name})
}

func (e *effects) notice(text string) {
	*e = append(*e, types.Effect{Kind: types.EffectNotice, Text: text})
}

func (s *Session) emit(fx effects) {
	for _, effect := range fx {
		effect.PlayerID = s.ID
		s.effects.Emit(effect)
	}
}

// bump adds delta to a bar attribute and clamps it to [0,100]
func bump(v *int, delta int) {
	*v = clampBar(*v + delta)
}

// View is the presentation snapshot of a session
type View struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Stats       types.PlayerStats     `json:"stats"`
	Inventory   []types.InventoryItem `json:"inventory"`
	Ghosts      []types.Ghost         `json:"ghosts"`
	Weather     types.Weather         `json:"weather"`
	TimeOfDay   types.TimeOfDay       `json:"time_of_day"`
	Mode        types.Mode            `json:"mode"`
	Zone        ZoneView              `json:"zone"`
	NPC         *types.NPC            `json:"npc,omitempty"`
	History     []types.ChatMessage   `json:"history,omitempty"`
	Suggestions []types.Suggestion    `json:"suggestions,omitempty"`
	Exam        *ExamState            `json:"exam,omitempty"`
	Job         *JobView              `json:"job,omitempty"`
	Minigame    *MinigameState        `json:"minigame,omitempty"`
}

// JobView is a shift in progress as shown to the player
type JobView struct {
	JobState
	Phrase string `json:"phrase"`
	Earned int    `json:"earned"`
}

// View builds the presentation snapshot
func (s *Session) View() View {
	st := s.store.Snapshot()
	v := View{
		ID:          s.ID,
		Name:        s.Name,
		Stats:       st.Stats,
		Inventory:   st.Inventory,
		Ghosts:      st.Ghosts,
		Weather:     st.Weather,
		TimeOfDay:   st.TimeOfDay,
		Mode:        st.Mode,
		History:     st.History,
		Suggestions: st.Suggestions,
		Exam:        st.Exam,
		Minigame:    st.Minigame,
	}
	if zv, err := s.zoneView(st.ZoneID, st.Stats.HSKLevel); err == nil {
		v.Zone = zv
	}
	if st.NPCID != "" {
		if npc, err := s.catalog.NPC(st.NPCID); err == nil {
			v.NPC = npc
		}
	}
	if st.Job != nil {
		v.Job = &JobView{JobState: *st.Job, Phrase: st.Job.Phrase(), Earned: st.Job.Earned()}
	}
	return v
}
