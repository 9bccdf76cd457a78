package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/hsk-life/internal/types"
)

func TestZoneLock(t *testing.T) {
	f := newFixture(t, never())
	f.set(func(st *State) { st.Stats.HSKLevel = 2 })

	// Test case 1: market needs HSK 3
	err := f.session.MoveZone("market")
	assert.ErrorIs(t, err, ErrZoneLocked)
	assert.Equal(t, "residential", f.session.State().ZoneID)

	// Test case 2: NPCs of a locked zone are not interactive
	f.set(func(st *State) { st.ZoneID = "market" })
	assert.ErrorIs(t, f.session.Interact("shopkeeper_zhang"), ErrZoneLocked)
	view, err := f.session.ZoneView()
	require.NoError(t, err)
	assert.True(t, view.Locked)

	// Test case 3: reaching HSK 3 unlocks it
	f.set(func(st *State) {
		st.ZoneID = "residential"
		st.Stats.HSKLevel = 3
	})
	require.NoError(t, f.session.MoveZone("market"))
	assert.Equal(t, "market", f.session.State().ZoneID)
	assert.True(t, f.sink.has(types.EffectAmbience, "crowd"))
	require.NoError(t, f.session.Interact("shopkeeper_zhang"))
	assert.Equal(t, types.ModeChatting, f.session.State().Mode)
}

func TestZoneNavigation(t *testing.T) {
	f := newFixture(t, never())

	require.NoError(t, f.session.NextZone())
	assert.Equal(t, "park", f.session.State().ZoneID)

	// alley is locked at HSK 1
	assert.ErrorIs(t, f.session.NextZone(), ErrZoneLocked)

	require.NoError(t, f.session.PrevZone())
	assert.Equal(t, "residential", f.session.State().ZoneID)

	// wraps around to the CBD, which is locked
	assert.ErrorIs(t, f.session.PrevZone(), ErrZoneLocked)

	view, err := f.session.ZoneView()
	require.NoError(t, err)
	assert.Equal(t, "cbd", view.Prev)
	assert.Equal(t, "park", view.Next)
	assert.Len(t, view.NPCs, 3)

	assert.ErrorIs(t, f.session.MoveZone("moon"), ErrUnknownZone)
}

func TestInteract(t *testing.T) {
	f := newFixture(t, never())

	// Test case 1: NPC of another zone
	assert.ErrorIs(t, f.session.Interact("auntie_dance"), ErrUnknownNPC)
	assert.ErrorIs(t, f.session.Interact("nobody"), ErrUnknownNPC)

	// Test case 2: conversation is seeded with the intro
	require.NoError(t, f.session.Interact("grandma_li"))
	snap := f.session.State()
	assert.Equal(t, types.ModeChatting, snap.Mode)
	assert.Equal(t, "grandma_li", snap.NPCID)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "早！吃了吗？(Morning! Eaten?)", snap.History[0].Text)
	assert.Len(t, snap.Suggestions, 3)
	assert.True(t, f.sink.has(types.EffectSpeech, "早！吃了吗？(Morning! Eaten?)"))

	// Test case 3: cannot open a second conversation or walk away mid-chat
	assert.ErrorIs(t, f.session.Interact("guard_wang"), ErrInvalidTransition)
	assert.ErrorIs(t, f.session.MoveZone("park"), ErrInvalidTransition)

	// Test case 4: closing clears the conversation
	require.NoError(t, f.session.CloseChat())
	snap = f.session.State()
	assert.Equal(t, types.ModeExploring, snap.Mode)
	assert.Empty(t, snap.NPCID)
	assert.Empty(t, snap.History)
	assert.ErrorIs(t, f.session.CloseChat(), ErrInvalidTransition)
}

func TestPartnerRoom(t *testing.T) {
	f := newFixture(t, never())
	before := f.session.Stats()

	require.NoError(t, f.session.EnterPartnerRoom())
	assert.Equal(t, types.ModePartnerRoom, f.session.State().Mode)
	assert.ErrorIs(t, f.session.EnterPartnerRoom(), ErrInvalidTransition)

	require.NoError(t, f.session.LeavePartnerRoom())
	assert.Equal(t, types.ModeExploring, f.session.State().Mode)
	assert.Equal(t, before, f.session.Stats())
}

func TestResetPersistsDefaults(t *testing.T) {
	f := newFixture(t, never())
	f.set(func(st *State) {
		st.Stats.Money = 999
		st.Stats.HSKLevel = 4
		st.Inventory = []types.InventoryItem{{ID: "tea", Count: 1}}
		st.Mode = types.ModeGameOver
	})

	f.session.Reset()

	snap := f.session.State()
	assert.Equal(t, types.ModeExploring, snap.Mode)
	assert.Equal(t, 200, snap.Stats.Money)
	assert.Equal(t, 1, snap.Stats.HSKLevel)
	assert.Empty(t, snap.Inventory)

	saved, err := NewSaveStore(f.kv).Load(context.Background(), "player-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultSave(), saved)
}

func TestReportSpeechError(t *testing.T) {
	f := newFixture(t, never())
	before := f.session.State()

	f.session.ReportSpeechError("not-allowed")

	assert.Equal(t, before, f.session.State())
	assert.Equal(t, []types.Effect{{PlayerID: "player-1", Kind: types.EffectNotice, Text: "Mic Error"}}, f.sink.all())
}

func TestGameOverBlocksActions(t *testing.T) {
	f := newFixture(t, never())
	f.set(func(st *State) { st.Mode = types.ModeGameOver })

	assert.ErrorIs(t, f.session.MoveZone("park"), ErrGameOver)
	assert.ErrorIs(t, f.session.Interact("grandma_li"), ErrGameOver)
	assert.ErrorIs(t, f.session.StartExam(), ErrGameOver)
	_, err := f.session.OpenJobBoard()
	assert.ErrorIs(t, err, ErrGameOver)
}
