package game

import (
	"strings"
	"time"

	"github.com/user/hsk-life/internal/types"
	"go.uber.org/zap"
)

const (
	minigameDuration = 30 * time.Second
	catchPoints      = 10
	// Each reward coin costs this many points
	pointsPerCoin = 5
)

// MinigameState tracks a running word-catching round
type MinigameState struct {
	Pool   []types.FallingWord `json:"-"`
	Active types.FallingWord   `json:"active"`
	X      float64             `json:"x"`
	Score  int                 `json:"score"`
	Misses int                 `json:"misses"`
	EndsAt time.Time           `json:"ends_at"`
}

// MinigameResult reports one minigame action
type MinigameResult struct {
	Caught   bool              `json:"caught"`
	Score    int               `json:"score"`
	Active   types.FallingWord `json:"active"`
	Finished bool              `json:"finished"`
	Reward   int               `json:"reward,omitempty"`
}

func (mg *MinigameState) spawn(dice Dice) {
	mg.Active = mg.Pool[pick(dice, len(mg.Pool))]
	mg.X = dice.Float64()*80 + 10
}

// StartMinigame starts a round with words up to one level above the player's
func (s *Session) StartMinigame() (types.FallingWord, error) {
	var active types.FallingWord
	err := s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeExploring); err != nil {
			return err
		}
		pool := s.catalog.FallingWords(st.Stats.HSKLevel + 1)
		if len(pool) == 0 {
			return ErrInvalidTransition
		}
		enter(st, types.ModeMinigame)
		st.Minigame = &MinigameState{Pool: pool, EndsAt: s.now().Add(minigameDuration)}
		st.Minigame.spawn(s.dice)
		active = st.Minigame.Active
		return nil
	})
	return active, err
}

// CatchWord scores when the recognized text contains the falling word. A round
// whose time is up is finished instead.
func (s *Session) CatchWord(text string) (MinigameResult, error) {
	return s.minigameStep(func(mg *MinigameState, result *MinigameResult) {
		if strings.Contains(text, mg.Active.Text) {
			mg.Score += catchPoints
			result.Caught = true
			mg.spawn(s.dice)
		}
	})
}

// MissWord drops the falling word and spawns the next one
func (s *Session) MissWord() (MinigameResult, error) {
	return s.minigameStep(func(mg *MinigameState, _ *MinigameResult) {
		mg.Misses++
		mg.spawn(s.dice)
	})
}

func (s *Session) minigameStep(step func(mg *MinigameState, result *MinigameResult)) (MinigameResult, error) {
	var result MinigameResult
	var fx effects
	err := s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeMinigame); err != nil {
			return err
		}
		mg := st.Minigame
		if !s.now().Before(mg.EndsAt) {
			result.Score = mg.Score
			result.Reward = completeMinigame(st, &fx)
			result.Finished = true
			return nil
		}
		step(mg, &result)
		result.Score = mg.Score
		result.Active = mg.Active
		if result.Caught {
			fx.sound(types.SoundCorrect)
		}
		return nil
	})
	if err != nil {
		return MinigameResult{}, err
	}
	if result.Finished {
		s.Logger.Info("Minigame finished", zap.Int("score", result.Score), zap.Int("reward", result.Reward))
	}
	s.emit(fx)
	return result, nil
}

// FinishMinigame ends the round and pays floor(score/5)
func (s *Session) FinishMinigame() (MinigameResult, error) {
	var result MinigameResult
	var fx effects
	err := s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeMinigame); err != nil {
			return err
		}
		result.Score = st.Minigame.Score
		result.Reward = completeMinigame(st, &fx)
		result.Finished = true
		return nil
	})
	if err != nil {
		return MinigameResult{}, err
	}
	s.Logger.Info("Minigame finished", zap.Int("score", result.Score), zap.Int("reward", result.Reward))
	s.emit(fx)
	return result, nil
}

func completeMinigame(st *State, fx *effects) int {
	reward := st.Minigame.Score / pointsPerCoin
	st.Stats.Money += reward
	st.Minigame = nil
	enter(st, types.ModeExploring)
	if reward > 0 {
		fx.sound(types.SoundCoin)
	}
	return reward
}
