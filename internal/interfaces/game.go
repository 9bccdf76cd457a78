package interfaces

import (
	"context"

	"github.com/user/hsk-life/internal/types"
)

// DialogueService generates NPC replies
type DialogueService interface {
	Respond(ctx context.Context, req types.DialogueRequest) (types.DialogueReply, error)
}

// ExamService conducts the spoken HSK exam
type ExamService interface {
	Examine(ctx context.Context, req types.ExamRequest) (types.ExamReply, error)
}

// EffectSink receives side-effect requests (notifications, sound cues, speech)
type EffectSink interface {
	Emit(effect types.Effect)
}

// KeyValueStore is durable keyed storage for save data
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
