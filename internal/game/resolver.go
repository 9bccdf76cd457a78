package game

import (
	"context"
	"errors"
	"strings"

	"github.com/user/hsk-life/internal/types"
	"go.uber.org/zap"
)

const (
	speakStaminaCost = 5
	tipBonus         = 5
	tutorBonus       = 10
	mistakeHunger    = 5
	lowFaceThreshold = 30
	healAmount       = 30
	reportFaceBonus  = 20
	restoreAmount    = 50
)

// TurnResult reports what a spoken turn did
type TurnResult struct {
	// Exorcised is set when the utterance banished a ghost; no reply is produced then
	Exorcised *types.Ghost         `json:"exorcised,omitempty"`
	Reply     *types.DialogueReply `json:"reply,omitempty"`
	Spawned   *types.Ghost         `json:"spawned,omitempty"`
	Purchase  *PurchaseResult      `json:"purchase,omitempty"`
	Fallback  bool                 `json:"fallback,omitempty"`
}

// FallbackReply is the neutral reply used when the dialogue service fails
func FallbackReply() types.DialogueReply {
	msg := "I didn't understand... (Connection or API Error)"
	return types.DialogueReply{
		Text:        msg,
		Translation: msg,
		Action:      &types.Action{Type: types.ActionNone},
		Suggestions: []types.Suggestion{},
	}
}

// turnToken identifies the conversation a pending reply belongs to
type turnToken struct {
	turn  uint64
	npcID string
}

func window(history []types.ChatMessage, n int) []types.ChatMessage {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return append([]types.ChatMessage(nil), history...)
}

// Speak resolves one spoken player utterance. A ghost whose word the utterance
// contains is exorcised first and consumes the turn. Otherwise the utterance goes
// to the active NPC and the reply is applied to the latest state, unless the
// conversation changed while the service was working, in which case ErrStaleTurn
// is returned and nothing is applied.
func (s *Session) Speak(ctx context.Context, text string) (*TurnResult, error) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	text = strings.TrimSpace(text)
	result := &TurnResult{}

	var (
		fx    effects
		req   types.DialogueRequest
		token turnToken
	)
	err := s.store.Update(func(st *State) error {
		if ghost, ok := exorcise(st, text); ok {
			result.Exorcised = &ghost
			fx.sound(types.SoundCorrect)
			return nil
		}
		if st.Mode != types.ModeChatting || st.NPCID == "" {
			return ErrNoActiveNPC
		}
		npc, err := s.catalog.NPC(st.NPCID)
		if err != nil {
			return err
		}

		req = types.DialogueRequest{
			Utterance: text,
			NPC:       *npc,
			Catalog:   s.catalog.VendorCatalog(npc),
			Stats:     st.Stats,
			History:   window(st.History, s.historyWindow),
		}
		st.History = append(st.History, types.ChatMessage{Sender: types.SenderPlayer, Text: text})
		bump(&st.Stats.Stamina, -speakStaminaCost)
		token = turnToken{turn: st.Turn, npcID: st.NPCID}
		return nil
	})
	s.emit(fx)
	if err != nil {
		return nil, err
	}
	if result.Exorcised != nil {
		s.Logger.Info("Ghost exorcised",
			zap.String("ghost_id", result.Exorcised.ID),
			zap.String("word", result.Exorcised.Word))
		return result, nil
	}

	reply, fallback := s.respond(ctx, req)
	result.Reply = &reply
	result.Fallback = fallback

	fx = nil
	err = s.store.Update(func(st *State) error {
		if st.Mode != types.ModeChatting || st.Turn != token.turn || st.NPCID != token.npcID {
			return ErrStaleTurn
		}
		s.resolve(st, req.NPC.ID, text, reply, result, &fx)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStaleTurn) {
			s.Logger.Info("Discarding stale dialogue reply", zap.String("npc_id", token.npcID))
		}
		return nil, err
	}
	s.emit(fx)

	if result.Spawned != nil {
		s.Logger.Info("Ghost spawned",
			zap.String("ghost_id", result.Spawned.ID),
			zap.String("word", result.Spawned.Word))
	}
	if result.Purchase != nil {
		s.Logger.Info("Purchase resolved",
			zap.String("outcome", string(result.Purchase.Outcome)),
			zap.Bool("consumed", result.Purchase.Consumed))
	}
	return result, nil
}

// respond calls the dialogue service, substituting the fallback reply on failure
func (s *Session) respond(ctx context.Context, req types.DialogueRequest) (types.DialogueReply, bool) {
	if s.dialogue == nil {
		return FallbackReply(), true
	}
	reply, err := s.dialogue.Respond(ctx, req)
	if err != nil {
		s.Logger.Warn("Dialogue service failed, using fallback reply",
			zap.String("npc_id", req.NPC.ID),
			zap.Error(err))
		return FallbackReply(), true
	}
	return reply, false
}

// resolve applies a dialogue reply to the state
func (s *Session) resolve(st *State, npcID, utterance string, reply types.DialogueReply, result *TurnResult, fx *effects) {
	st.History = append(st.History, types.ChatMessage{
		Sender:      types.SenderNPC,
		Text:        reply.Text,
		Pinyin:      reply.Pinyin,
		Translation: reply.Translation,
	})
	if n := min(len(reply.Suggestions), types.MaxSuggestions); n > 0 {
		st.Suggestions = append([]types.Suggestion(nil), reply.Suggestions[:n]...)
	}

	switch {
	case reply.FaceChange > 0:
		fx.sound(types.SoundCorrect)
		bump(&st.Stats.Face, reply.FaceChange)
		st.Stats.Money += tipBonus
		if npcID == s.cfg.TutorNPCID {
			st.Stats.Money += tutorBonus
		}
	case reply.FaceChange < 0:
		fx.sound(types.SoundWrong)
		bump(&st.Stats.Hunger, -mistakeHunger)
		result.Spawned = spawnGhost(st, s.dice, s.cfg.GhostSpawnProbability, utterance)
		if st.Stats.Face < lowFaceThreshold {
			fx.notify("Face is low! Apologize to regain respect.")
		}
	}

	if reply.Action != nil {
		switch reply.Action.Type {
		case types.ActionHeal:
			st.Stats.IsSick = false
			bump(&st.Stats.Health, healAmount)
			fx.notify("You are cured!")
			fx.sound(types.SoundCoin)
		case types.ActionReport:
			bump(&st.Stats.Face, reportFaceBonus)
			fx.notify("Report filed. Face restored.")
			fx.sound(types.SoundCorrect)
		case types.ActionRestore:
			bump(&st.Stats.Hunger, restoreAmount)
			bump(&st.Stats.Thirst, restoreAmount)
			fx.notify("Received free food/water!")
			fx.sound(types.SoundCoin)
		case types.ActionBuy:
			p := purchase(st, s.catalog, reply.Action.ItemID, fx)
			result.Purchase = &p
		}
	}

	fx.speak(reply.Text)
}
