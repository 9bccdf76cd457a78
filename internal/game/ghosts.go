package game

import (
	"strings"

	"github.com/google/uuid"
	"github.com/user/hsk-life/internal/types"
)

const (
	ghostWordRunes = 4
	exorcismReward = 5
)

// spawnGhost attempts to leave a ghost behind for a failed utterance. The ghost's
// word is the head of the utterance; no dictionary lookup is made.
func spawnGhost(st *State, dice Dice, probability float64, utterance string) *types.Ghost {
	word := types.Truncate(strings.TrimSpace(utterance), ghostWordRunes)
	if word == "" {
		return nil
	}
	if !chance(dice, probability) {
		return nil
	}
	ghost := types.Ghost{
		ID:          uuid.NewString(),
		Word:        word,
		Pinyin:      "?",
		Translation: "Unknown",
		X:           dice.Float64()*80 + 10,
		Y:           dice.Float64()*60 + 20,
	}
	st.Ghosts = append(st.Ghosts, ghost)
	return &ghost
}

// exorcise removes the first ghost whose word the utterance contains
func exorcise(st *State, utterance string) (types.Ghost, bool) {
	for i, g := range st.Ghosts {
		if g.Word != "" && strings.Contains(utterance, g.Word) {
			st.Ghosts = append(st.Ghosts[:i:i], st.Ghosts[i+1:]...)
			bump(&st.Stats.Face, exorcismReward)
			return g, true
		}
	}
	return types.Ghost{}, false
}
