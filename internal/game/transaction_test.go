package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/hsk-life/internal/content"
	"github.com/user/hsk-life/internal/types"
)

func TestPurchaseExactFunds(t *testing.T) {
	catalog := content.Default()
	st := freshState()
	st.Stats.Money = 50
	var fx effects

	result := purchase(&st, catalog, "umbrella", &fx)

	assert.Equal(t, PurchaseBought, result.Outcome)
	assert.Equal(t, 0, st.Stats.Money)
	assert.Equal(t, []types.InventoryItem{{ID: "umbrella", Count: 1}}, st.Inventory)
	assert.Contains(t, fx, types.Effect{Kind: types.EffectNotification, Text: "Bought Umbrella (雨伞)!"})
	assert.Contains(t, fx, types.Effect{Kind: types.EffectSound, Sound: types.SoundCoin})
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	catalog := content.Default()
	st := freshState()
	st.Stats.Money = 49
	before := st.clone()
	var fx effects

	result := purchase(&st, catalog, "umbrella", &fx)

	assert.Equal(t, PurchaseInsufficientFunds, result.Outcome)
	assert.Equal(t, before, st)
	assert.Equal(t, effects{{Kind: types.EffectSpeech, Text: "Not enough money!"}}, fx)
}

func TestPurchaseUnknownItem(t *testing.T) {
	st := freshState()
	var fx effects

	result := purchase(&st, content.Default(), "bicycle", &fx)

	assert.Equal(t, PurchaseUnknownItem, result.Outcome)
	assert.Equal(t, 200, st.Stats.Money)
	assert.Empty(t, st.Inventory)
}

func TestPurchaseAutoConsume(t *testing.T) {
	catalog := content.Default()

	// Test case 1: hungry buyer eats right away
	st := freshState()
	st.Stats.Hunger = 50
	var fx effects
	result := purchase(&st, catalog, "baozi", &fx)
	assert.True(t, result.Consumed)
	assert.Equal(t, 90, st.Stats.Hunger)
	assert.Empty(t, st.Inventory)
	assert.Equal(t, 190, st.Stats.Money)

	// Test case 2: a fed buyer keeps it
	st = freshState()
	st.Stats.Hunger = 80
	result = purchase(&st, catalog, "baozi", &fx)
	assert.False(t, result.Consumed)
	assert.Equal(t, 80, st.Stats.Hunger)
	assert.Equal(t, []types.InventoryItem{{ID: "baozi", Count: 1}}, st.Inventory)

	// Test case 3: gains are capped
	st = freshState()
	st.Stats.Hunger = 65
	purchase(&st, catalog, "dumplings", &fx)
	assert.Equal(t, 100, st.Stats.Hunger)

	// Test case 4: drinks use thirst
	st = freshState()
	st.Stats.Thirst = 60
	st.Stats.Hunger = 10
	result = purchase(&st, catalog, "tea", &fx)
	assert.True(t, result.Consumed)
	assert.Equal(t, 80, st.Stats.Thirst)
	assert.Equal(t, 10, st.Stats.Hunger)
}

func TestPurchaseConsumesFirstEntry(t *testing.T) {
	st := freshState()
	st.Stats.Hunger = 10
	st.Inventory = []types.InventoryItem{{ID: "baozi", Count: 3}, {ID: "tea", Count: 1}}
	var fx effects

	purchase(&st, content.Default(), "baozi", &fx)

	// the old stack of three goes, the new unit stays
	require.Len(t, st.Inventory, 2)
	assert.Equal(t, []types.InventoryItem{{ID: "tea", Count: 1}, {ID: "baozi", Count: 1}}, st.Inventory)
}

func TestPurchaseClothing(t *testing.T) {
	catalog := content.Default()
	st := freshState()
	st.Stats.Money = 400
	var fx effects

	result := purchase(&st, catalog, "jacket", &fx)
	assert.Equal(t, 5, result.FaceBoost)
	assert.Equal(t, 55, st.Stats.Face)
	assert.False(t, result.Consumed)
	assert.Contains(t, fx, types.Effect{Kind: types.EffectNotification, Text: "You look stylish! (+Face)"})

	// every purchase grants the boost again
	purchase(&st, catalog, "jacket", &fx)
	assert.Equal(t, 60, st.Stats.Face)
	assert.Len(t, st.Inventory, 2)
	assert.Equal(t, 100, st.Stats.Money)
}
