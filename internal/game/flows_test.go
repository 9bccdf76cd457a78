package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/user/hsk-life/internal/types"
)

func TestExamPass(t *testing.T) {
	f := newFixture(t, never())
	require.NoError(t, f.session.StartExam())

	snap := f.session.State()
	assert.Equal(t, types.ModeExam, snap.Mode)
	require.NotNil(t, snap.Exam)
	assert.Equal(t, examOpening, snap.Exam.History[0].Text)
	assert.True(t, f.sink.has(types.EffectSpeech, examOpening))

	f.exam.On("Examine", mock.Anything, mock.MatchedBy(func(req types.ExamRequest) bool {
		return req.Utterance == "我叫小明" && req.HSKLevel == 1 && len(req.History) == 2
	})).Return(types.ExamReply{Text: "你喜欢什么？"}, nil).Once()
	f.exam.On("Examine", mock.Anything, mock.Anything).
		Return(types.ExamReply{Finished: true, Passed: true}, nil).Once()

	reply, err := f.session.AnswerExam(context.Background(), "我叫小明")
	require.NoError(t, err)
	assert.False(t, reply.Finished)
	assert.Len(t, f.session.State().Exam.History, 3)

	reply, err = f.session.AnswerExam(context.Background(), "我喜欢茶")
	require.NoError(t, err)
	assert.True(t, reply.Passed)

	snap = f.session.State()
	assert.Equal(t, types.ModeExploring, snap.Mode)
	assert.Nil(t, snap.Exam)
	assert.Equal(t, 2, snap.Stats.HSKLevel)
	assert.Equal(t, 400, snap.Stats.Money)
	f.exam.AssertExpectations(t)
}

func TestExamFail(t *testing.T) {
	f := newFixture(t, never())
	f.set(func(st *State) { st.Stats.Face = 5 })
	require.NoError(t, f.session.StartExam())
	f.exam.On("Examine", mock.Anything, mock.Anything).
		Return(types.ExamReply{Finished: true, Passed: false}, nil)

	_, err := f.session.AnswerExam(context.Background(), "不会")
	require.NoError(t, err)

	snap := f.session.State()
	assert.Equal(t, types.ModeExploring, snap.Mode)
	assert.Equal(t, 0, snap.Stats.Face)
	assert.Equal(t, 1, snap.Stats.HSKLevel)
	assert.Equal(t, 200, snap.Stats.Money)
}

func TestExamServiceFailureKeepsExamOpen(t *testing.T) {
	f := newFixture(t, never())
	require.NoError(t, f.session.StartExam())
	f.exam.On("Examine", mock.Anything, mock.Anything).
		Return(types.ExamReply{}, errors.New("timeout"))

	reply, err := f.session.AnswerExam(context.Background(), "你好")
	require.NoError(t, err)
	assert.Equal(t, ExamFallbackReply(), reply)
	assert.Equal(t, types.ModeExam, f.session.State().Mode)
}

func TestAnswerExamOutsideExam(t *testing.T) {
	f := newFixture(t, never())
	_, err := f.session.AnswerExam(context.Background(), "你好")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestJobFlow(t *testing.T) {
	f := newFixture(t, never())

	job, err := f.session.OpenJobBoard()
	require.NoError(t, err)
	assert.Equal(t, "factory", job.ID)
	assert.Equal(t, types.ModeWorking, f.session.State().Mode)

	// Test case 1: too short
	result, err := f.session.AttemptJobTask("好")
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, jobPhrases[0], result.Phrase)

	// Test case 2: two accepted tasks
	result, err = f.session.AttemptJobTask("欢迎光临")
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, jobPhrases[1], result.Phrase)
	_, err = f.session.AttemptJobTask("一共五十元")
	require.NoError(t, err)

	// Test case 3: payout
	earned, err := f.session.FinishJob()
	require.NoError(t, err)
	assert.Equal(t, 30, earned)

	s := f.session.Stats()
	assert.Equal(t, 230, s.Money)
	assert.Equal(t, 80, s.Stamina)
	assert.Equal(t, types.ModeExploring, f.session.State().Mode)
}

func TestCancelJob(t *testing.T) {
	f := newFixture(t, never())
	_, err := f.session.OpenJobBoard()
	require.NoError(t, err)
	_, err = f.session.AttemptJobTask("欢迎光临")
	require.NoError(t, err)

	require.NoError(t, f.session.CancelJob())
	assert.Equal(t, 200, f.session.Stats().Money)
	assert.Equal(t, 100, f.session.Stats().Stamina)
	_, err = f.session.FinishJob()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMinigameFlow(t *testing.T) {
	// pick index 0 of the pool every time
	f := newFixture(t, &scriptedDice{fallback: 0})

	word, err := f.session.StartMinigame()
	require.NoError(t, err)
	assert.Equal(t, "你好", word.Text)
	assert.Len(t, f.session.State().Minigame.Pool, 8)

	// Test case 1: catch
	result, err := f.session.CatchWord("你好啊")
	require.NoError(t, err)
	assert.True(t, result.Caught)
	assert.Equal(t, 10, result.Score)

	// Test case 2: wrong word
	result, err = f.session.CatchWord("再见")
	require.NoError(t, err)
	assert.False(t, result.Caught)
	assert.Equal(t, 10, result.Score)

	// Test case 3: miss keeps the score
	result, err = f.session.MissWord()
	require.NoError(t, err)
	assert.Equal(t, 10, result.Score)

	for i := 0; i < 3; i++ {
		_, err = f.session.CatchWord("你好")
		require.NoError(t, err)
	}

	result, err = f.session.FinishMinigame()
	require.NoError(t, err)
	assert.Equal(t, 40, result.Score)
	assert.Equal(t, 8, result.Reward)
	assert.Equal(t, 208, f.session.Stats().Money)
	assert.Equal(t, types.ModeExploring, f.session.State().Mode)
}

func TestMinigameTimesOut(t *testing.T) {
	f := newFixture(t, &scriptedDice{fallback: 0})
	_, err := f.session.StartMinigame()
	require.NoError(t, err)
	_, err = f.session.CatchWord("你好")
	require.NoError(t, err)
	_, err = f.session.CatchWord("你好")
	require.NoError(t, err)

	f.now = f.now.Add(31 * time.Second)

	result, err := f.session.CatchWord("你好")
	require.NoError(t, err)
	assert.True(t, result.Finished)
	assert.False(t, result.Caught)
	assert.Equal(t, 20, result.Score)
	assert.Equal(t, 4, result.Reward)
	assert.Equal(t, 204, f.session.Stats().Money)
}
