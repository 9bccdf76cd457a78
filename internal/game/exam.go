package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/user/hsk-life/internal/types"
	"go.uber.org/zap"
)

const (
	examOpening   = "请做自我介绍。(Please introduce yourself.)"
	examPassBonus = 200
	examFailFace  = 10
)

// ExamState tracks a running oral exam
type ExamState struct {
	HSKLevel int                 `json:"hsk_level"`
	History  []types.ChatMessage `json:"history"`
}

// ExamFallbackReply is the neutral reply used when the exam service fails. It never
// finishes the exam.
func ExamFallbackReply() types.ExamReply {
	return types.ExamReply{
		Text:        "请再说一遍。(Please say that again.)",
		Pinyin:      "Qǐng zài shuō yí biàn.",
		Translation: "Please say that again.",
	}
}

// StartExam opens the oral exam for the current level
func (s *Session) StartExam() error {
	var fx effects
	var level int
	err := s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeExploring); err != nil {
			return err
		}
		enter(st, types.ModeExam)
		level = st.Stats.HSKLevel
		st.Exam = &ExamState{
			HSKLevel: level,
			History:  []types.ChatMessage{{Sender: types.SenderExaminer, Text: examOpening}},
		}
		fx.speak(fmt.Sprintf("HSK %d Exam.", level))
		fx.speak(examOpening)
		return nil
	})
	if err != nil {
		return err
	}
	s.Logger.Info("Exam started", zap.Int("hsk_level", level))
	s.emit(fx)
	return nil
}

// AnswerExam submits one spoken answer. When the examiner finishes, the exam result
// is applied and the session returns to exploring.
func (s *Session) AnswerExam(ctx context.Context, text string) (types.ExamReply, error) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	text = strings.TrimSpace(text)
	var (
		req  types.ExamRequest
		turn uint64
	)
	err := s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeExam); err != nil {
			return err
		}
		st.Exam.History = append(st.Exam.History, types.ChatMessage{Sender: types.SenderPlayer, Text: text})
		req = types.ExamRequest{
			Utterance: text,
			HSKLevel:  st.Exam.HSKLevel,
			History:   append([]types.ChatMessage(nil), st.Exam.History...),
		}
		turn = st.Turn
		return nil
	})
	if err != nil {
		return types.ExamReply{}, err
	}

	reply := s.examine(ctx, req)

	var fx effects
	err = s.store.Update(func(st *State) error {
		if st.Mode != types.ModeExam || st.Turn != turn {
			return ErrStaleTurn
		}
		if reply.Finished {
			completeExam(st, reply.Passed, &fx)
			return nil
		}
		st.Exam.History = append(st.Exam.History, types.ChatMessage{
			Sender:      types.SenderExaminer,
			Text:        reply.Text,
			Pinyin:      reply.Pinyin,
			Translation: reply.Translation,
		})
		fx.speak(reply.Text)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStaleTurn) {
			s.Logger.Info("Discarding stale exam reply")
		}
		return types.ExamReply{}, err
	}
	if reply.Finished {
		s.Logger.Info("Exam finished", zap.Bool("passed", reply.Passed))
	}
	s.emit(fx)
	return reply, nil
}

func (s *Session) examine(ctx context.Context, req types.ExamRequest) types.ExamReply {
	if s.exam == nil {
		return ExamFallbackReply()
	}
	reply, err := s.exam.Examine(ctx, req)
	if err != nil {
		s.Logger.Warn("Exam service failed, using fallback reply", zap.Error(err))
		return ExamFallbackReply()
	}
	return reply
}

// completeExam applies the exam result and leaves the exam
func completeExam(st *State, passed bool, fx *effects) {
	enter(st, types.ModeExploring)
	st.Exam = nil
	if passed {
		st.Stats.HSKLevel++
		st.Stats.Money += examPassBonus
		fx.speak("恭喜你，通过了！(Congratulations, you passed!)")
		fx.notify(fmt.Sprintf("Exam Passed! Level Up! +¥%d", examPassBonus))
		fx.sound(types.SoundCoin)
		return
	}
	bump(&st.Stats.Face, -examFailFace)
	fx.speak("很遗憾，没通过。(Sorry, you failed.)")
	fx.notify(fmt.Sprintf("Exam Failed. -%d Face.", examFailFace))
	fx.sound(types.SoundWrong)
}
