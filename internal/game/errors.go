package game

import (
	"errors"

	"github.com/user/hsk-life/internal/content"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrInvalidPlayerID   = errors.New("invalid player id")
	ErrNoActiveNPC       = errors.New("no active conversation")
	ErrZoneLocked        = errors.New("zone is locked")
	ErrInvalidTransition = errors.New("invalid mode transition")
	ErrGameOver          = errors.New("game over")
	ErrStaleTurn         = errors.New("stale turn discarded")
	ErrUnknownNPC        = content.ErrUnknownNPC
	ErrUnknownZone       = content.ErrUnknownZone
)
