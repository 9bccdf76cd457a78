package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/user/hsk-life/config"
	"github.com/user/hsk-life/internal/content"
	"github.com/user/hsk-life/internal/types"
)

// scriptedDice returns its values in order, then the fallback forever
type scriptedDice struct {
	mu       sync.Mutex
	values   []float64
	fallback float64
}

func (d *scriptedDice) Float64() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.values) == 0 {
		return d.fallback
	}
	v := d.values[0]
	d.values = d.values[1:]
	return v
}

// never makes every probability check fail
func never() *scriptedDice { return &scriptedDice{fallback: 0.999} }

// always makes every probability check pass
func always() *scriptedDice { return &scriptedDice{fallback: 0} }

type recordingSink struct {
	mu      sync.Mutex
	effects []types.Effect
}

func (r *recordingSink) Emit(e types.Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects = append(r.effects, e)
}

func (r *recordingSink) all() []types.Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Effect(nil), r.effects...)
}

func (r *recordingSink) has(kind types.EffectKind, value string) bool {
	for _, e := range r.all() {
		if e.Kind == kind && (e.Text == value || e.Sound == value) {
			return true
		}
	}
	return false
}

func (r *recordingSink) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects = nil
}

type mockDialogue struct {
	mock.Mock
}

func (m *mockDialogue) Respond(ctx context.Context, req types.DialogueRequest) (types.DialogueReply, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.DialogueReply), args.Error(1)
}

type mockExam struct {
	mock.Mock
}

func (m *mockExam) Examine(ctx context.Context, req types.ExamRequest) (types.ExamReply, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.ExamReply), args.Error(1)
}

type fixture struct {
	session  *Session
	sink     *recordingSink
	dialogue *mockDialogue
	exam     *mockExam
	kv       *MemoryStore
	now      time.Time
}

// newFixture builds a stopped session; ticks are injected with Clock().Fire
func newFixture(t *testing.T, dice Dice) *fixture {
	t.Helper()
	f := &fixture{
		sink:     &recordingSink{},
		dialogue: &mockDialogue{},
		exam:     &mockExam{},
		kv:       NewMemoryStore(),
		now:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.session = NewSession("player-1", "Tester", DefaultSave(), SessionOptions{
		Catalog:  content.Default(),
		Config:   config.DefaultConfig().Game,
		Dice:     dice,
		Dialogue: f.dialogue,
		Exam:     f.exam,
		Effects:  f.sink,
		Saves:    NewSaveStore(f.kv),
		Now:      func() time.Time { return f.now },
	})
	t.Cleanup(f.session.Stop)
	return f
}

// set overwrites part of the state, bypassing the game rules
func (f *fixture) set(fn func(st *State)) {
	f.session.store.mu.Lock()
	defer f.session.store.mu.Unlock()
	fn(&f.session.store.state)
}

func (f *fixture) tick() {
	f.session.Clock().Fire(CadenceSurvival)
}

func (f *fixture) chatWith(t *testing.T, npcID, zoneID string) {
	t.Helper()
	f.set(func(st *State) { st.ZoneID = zoneID })
	if err := f.session.Interact(npcID); err != nil {
		t.Fatalf("interact: %v", err)
	}
}
