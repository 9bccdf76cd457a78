package game

import (
	"strings"
	"unicode/utf8"

	"github.com/user/hsk-life/internal/types"
	"go.uber.org/zap"
)

const jobStaminaCost = 20

var jobPhrases = []string{
	"欢迎光临 (Welcome)",
	"一共五十元 (Total 50 yuan)",
	"请慢走 (Take care)",
	"这里是新闻 (Here is the news)",
	"今日天气晴朗 (Today is sunny)",
}

// JobState tracks a shift in progress
type JobState struct {
	Job       types.Job `json:"job"`
	TasksDone int       `json:"tasks_done"`
}

// Phrase returns the phrase the player should read next
func (j JobState) Phrase() string {
	return jobPhrases[j.TasksDone%len(jobPhrases)]
}

// Earned returns the pay for the tasks done so far
func (j JobState) Earned() int {
	return j.TasksDone * j.Job.Salary
}

// JobTaskResult reports one attempt at a job task
type JobTaskResult struct {
	Accepted  bool   `json:"accepted"`
	Feedback  string `json:"feedback"`
	TasksDone int    `json:"tasks_done"`
	Earned    int    `json:"earned"`
	Phrase    string `json:"phrase"`
}

// OpenJobBoard starts a shift at the best job available for the current level
func (s *Session) OpenJobBoard() (types.Job, error) {
	var job types.Job
	err := s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeExploring); err != nil {
			return err
		}
		picked := s.catalog.JobFor(st.Stats.HSKLevel)
		if picked == nil {
			return ErrInvalidTransition
		}
		job = *picked
		enter(st, types.ModeWorking)
		st.Job = &JobState{Job: job}
		return nil
	})
	if err != nil {
		return types.Job{}, err
	}
	s.Logger.Info("Shift started", zap.String("job_id", job.ID))
	return job, nil
}

// AttemptJobTask counts a task as done when the recognized text has more than one
// character
func (s *Session) AttemptJobTask(text string) (JobTaskResult, error) {
	var result JobTaskResult
	err := s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeWorking); err != nil {
			return err
		}
		if utf8.RuneCountInString(strings.TrimSpace(text)) > 1 {
			st.Job.TasksDone++
			result.Accepted = true
			result.Feedback = "Great! Next task."
		} else {
			result.Feedback = "Too short. Try again."
		}
		result.TasksDone = st.Job.TasksDone
		result.Earned = st.Job.Earned()
		result.Phrase = st.Job.Phrase()
		return nil
	})
	return result, err
}

// FinishJob pays out the shift and returns to exploring
func (s *Session) FinishJob() (int, error) {
	var fx effects
	var earned int
	err := s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeWorking); err != nil {
			return err
		}
		earned = st.Job.Earned()
		st.Stats.Money += earned
		bump(&st.Stats.Stamina, -jobStaminaCost)
		st.Job = nil
		enter(st, types.ModeExploring)
		if earned > 0 {
			fx.sound(types.SoundCoin)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.Logger.Info("Shift finished", zap.Int("earned", earned))
	s.emit(fx)
	return earned, nil
}

// CancelJob leaves the shift without pay
func (s *Session) CancelJob() error {
	return s.store.Update(func(st *State) error {
		if err := requireMode(st, types.ModeWorking); err != nil {
			return err
		}
		st.Job = nil
		enter(st, types.ModeExploring)
		return nil
	})
}
