package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/hsk-life/internal/types"
)

func TestFindItem(t *testing.T) {
	c := Default()

	// Test case 1: exact id wins
	item, ok := c.FindItem("tea")
	require.True(t, ok)
	assert.Equal(t, "tea", item.ID)

	// Test case 2: id contained in a sloppy reference
	item, ok = c.FindItem("a hot baozi please")
	require.True(t, ok)
	assert.Equal(t, "baozi", item.ID)

	// Test case 3: case and whitespace are ignored
	item, ok = c.FindItem("  Umbrella ")
	require.True(t, ok)
	assert.Equal(t, "umbrella", item.ID)

	// Test case 4: falls back to the display name
	item, ok = c.FindItem("雨伞")
	require.True(t, ok)
	assert.Equal(t, "umbrella", item.ID)

	// Test case 5: unknown reference
	_, ok = c.FindItem("skateboard")
	assert.False(t, ok)
	_, ok = c.FindItem("")
	assert.False(t, ok)
}

func TestZonesAndNPCs(t *testing.T) {
	c := Default()

	require.Len(t, c.Zones(), 5)
	assert.Equal(t, 2, c.ZoneIndex("alley"))
	assert.Equal(t, -1, c.ZoneIndex("moon"))

	market, err := c.Zone("market")
	require.NoError(t, err)
	assert.False(t, market.Unlocked(2))
	assert.True(t, market.Unlocked(3))

	npcs := c.NPCs(market)
	require.Len(t, npcs, 3)
	assert.Equal(t, "shopkeeper_zhang", npcs[0].ID)

	all := c.AllNPCs()
	assert.Len(t, all, 15)
	assert.Equal(t, "grandma_li", all[0].ID)

	_, err = c.Zone("moon")
	assert.ErrorIs(t, err, ErrUnknownZone)
	_, err = c.NPC("nobody")
	assert.ErrorIs(t, err, ErrUnknownNPC)

	hong, err := c.NPC("sister_hong")
	require.NoError(t, err)
	catalog := c.VendorCatalog(hong)
	require.Len(t, catalog, 2)
	assert.Equal(t, types.ItemClothing, catalog[0].Type)
}

func TestJobsAndWords(t *testing.T) {
	c := Default()

	assert.Equal(t, "factory", c.JobFor(1).ID)
	assert.Equal(t, "factory", c.JobFor(6).ID)
	assert.Equal(t, "factory", c.JobFor(0).ID)

	assert.Len(t, c.FallingWords(1), 5)
	assert.Len(t, c.FallingWords(2), 8)
	assert.Len(t, c.FallingWords(3), 10)
}

func TestDataLoaderOverrides(t *testing.T) {
	dir := t.TempDir()
	items := `[{"id":"mantou","name":"Mantou (馒头)","price":3,"type":"food","effect_value":20}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte(items), 0644))

	c, err := NewDataLoader(dir).Load()
	require.NoError(t, err)
	require.Len(t, c.Items(), 1)
	assert.Equal(t, "mantou", c.Items()[0].ID)
	// Tables without an override keep the built-in data
	assert.Len(t, c.Zones(), 5)
}

func TestDataLoaderRejectsDanglingNPC(t *testing.T) {
	dir := t.TempDir()
	zones := `[{"id":"roof","name":"Roof","npcs":["ghost_npc"],"min_hsk":1}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zones.json"), []byte(zones), 0644))

	_, err := NewDataLoader(dir).Load()
	assert.Error(t, err)
}

func TestDataLoaderMissingDir(t *testing.T) {
	c, err := NewDataLoader(filepath.Join(t.TempDir(), "absent")).Load()
	require.NoError(t, err)
	assert.Len(t, c.Items(), 9)
}
