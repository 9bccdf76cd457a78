package game

import (
	"fmt"

	"github.com/user/hsk-life/internal/types"
	"go.uber.org/zap"
)

// ZoneView describes the zone the player stands in
type ZoneView struct {
	Zone   *types.Zone  `json:"zone"`
	NPCs   []*types.NPC `json:"npcs"`
	Locked bool         `json:"locked"`
	Prev   string       `json:"prev"`
	Next   string       `json:"next"`
}

// ZoneView returns the current zone with its NPCs and lock state
func (s *Session) ZoneView() (ZoneView, error) {
	snap := s.store.Snapshot()
	return s.zoneView(snap.ZoneID, snap.Stats.HSKLevel)
}

func (s *Session) zoneView(zoneID string, hskLevel int) (ZoneView, error) {
	zone, err := s.catalog.Zone(zoneID)
	if err != nil {
		return ZoneView{}, err
	}
	return ZoneView{
		Zone:   zone,
		NPCs:   s.catalog.NPCs(zone),
		Locked: !zone.Unlocked(hskLevel),
		Prev:   s.neighbor(zone.ID, -1),
		Next:   s.neighbor(zone.ID, 1),
	}, nil
}

func requireMode(st *State, mode types.Mode) error {
	if st.Mode != mode {
		return fmt.Errorf("%w: in %s, need %s", ErrInvalidTransition, st.Mode, mode)
	}
	return nil
}

// enter switches mode and invalidates pending turns
func enter(st *State, mode types.Mode) {
	st.Mode = mode
	st.Turn++
}

// Interact opens a conversation with an NPC of the current, unlocked zone
func (s *Session) Interact(npcID string) error {
	npc, err := s.catalog.NPC(npcID)
	if err != nil {
		return err
	}

	var fx effects
	err = s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeExploring); err != nil {
			return err
		}
		zone, err := s.catalog.Zone(st.ZoneID)
		if err != nil {
			return err
		}
		if !zone.Unlocked(st.Stats.HSKLevel) {
			return ErrZoneLocked
		}
		if !containsID(zone.NPCs, npc.ID) {
			return fmt.Errorf("%w: %s is not in %s", ErrUnknownNPC, npc.ID, zone.ID)
		}

		enter(st, types.ModeChatting)
		st.NPCID = npc.ID
		st.History = []types.ChatMessage{{
			Sender:      types.SenderNPC,
			Text:        npc.Intro,
			Pinyin:      "-",
			Translation: "Greeting",
		}}
		st.Suggestions = append([]types.Suggestion(nil), npc.InitialSuggestions...)
		fx.speak(npc.Intro)
		return nil
	})
	if err != nil {
		return err
	}
	s.Logger.Info("Conversation started", zap.String("npc_id", npc.ID))
	s.emit(fx)
	return nil
}

// CloseChat ends the active conversation
func (s *Session) CloseChat() error {
	return s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeChatting); err != nil {
			return err
		}
		enter(st, types.ModeExploring)
		st.NPCID = ""
		st.History = nil
		st.Suggestions = nil
		return nil
	})
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// MoveZone walks to a zone. Locked zones cannot be entered.
func (s *Session) MoveZone(zoneID string) error {
	return s.moveZone(func(*State) string { return zoneID })
}

// NextZone walks to the following zone of the map
func (s *Session) NextZone() error {
	return s.moveZone(func(st *State) string { return s.neighbor(st.ZoneID, 1) })
}

// PrevZone walks to the preceding zone of the map
func (s *Session) PrevZone() error {
	return s.moveZone(func(st *State) string { return s.neighbor(st.ZoneID, -1) })
}

func (s *Session) neighbor(zoneID string, step int) string {
	zones := s.catalog.Zones()
	i := s.catalog.ZoneIndex(zoneID)
	if i < 0 {
		return zones[0].ID
	}
	return zones[(i+step+len(zones))%len(zones)].ID
}

func (s *Session) moveZone(target func(st *State) string) error {
	var fx effects
	var moved string
	err := s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeExploring); err != nil {
			return err
		}
		zone, err := s.catalog.Zone(target(st))
		if err != nil {
			return err
		}
		if !zone.Unlocked(st.Stats.HSKLevel) {
			return fmt.Errorf("%w: %s needs HSK %d", ErrZoneLocked, zone.ID, zone.MinHSK)
		}
		st.ZoneID = zone.ID
		moved = zone.ID
		if zone.AmbientSound != "" {
			fx.ambience(zone.AmbientSound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Logger.Debug("Zone changed", zap.String("zone_id", moved))
	s.emit(fx)
	return nil
}

// EnterPartnerRoom opens the partner practice room
func (s *Session) EnterPartnerRoom() error {
	return s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeExploring); err != nil {
			return err
		}
		enter(st, types.ModePartnerRoom)
		return nil
	})
}

// LeavePartnerRoom returns from the partner practice room
func (s *Session) LeavePartnerRoom() error {
	return s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModePartnerRoom); err != nil {
			return err
		}
		enter(st, types.ModeExploring)
		return nil
	})
}

// Reset restores the initial stats and an empty inventory, persists them and
// re-arms the clock. It is the only operation accepted after game over.
func (s *Session) Reset() {
	s.clock.StopAndWait()
	s.store.Replace(s.initialState(DefaultSave()))
	s.Logger.Info("Session reset")
	s.Start()
}

// ReportSpeechError surfaces a failed speech recognition attempt. State is not touched.
func (s *Session) ReportSpeechError(reason string) {
	s.Logger.Warn("Speech recognition failed", zap.String("reason", reason))
	var fx effects
	fx.notice("Mic Error")
	s.emit(fx)
}
