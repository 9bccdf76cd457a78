package content

import (
	"errors"
	"strings"

	"github.com/user/hsk-life/internal/types"
)

var (
	ErrUnknownNPC  = errors.New("npc not found")
	ErrUnknownZone = errors.New("zone not found")
)

// Catalog holds the immutable reference data of the game
type Catalog struct {
	zones        []*types.Zone
	npcs         map[string]*types.NPC
	items        []*types.ShopItem
	jobs         []*types.Job
	fallingWords []types.FallingWord
}

// Default returns the built-in catalog
func Default() *Catalog {
	return newCatalog(defaultZones(), defaultNPCs(), defaultItems(), defaultJobs(), defaultFallingWords())
}

func newCatalog(zones []*types.Zone, npcs []*types.NPC, items []*types.ShopItem, jobs []*types.Job, words []types.FallingWord) *Catalog {
	c := &Catalog{
		zones:        zones,
		npcs:         make(map[string]*types.NPC, len(npcs)),
		items:        items,
		jobs:         jobs,
		fallingWords: words,
	}
	for _, npc := range npcs {
		c.npcs[npc.ID] = npc
	}
	return c
}

// Zones returns the zones in display order
func (c *Catalog) Zones() []*types.Zone {
	return c.zones
}

// Zone looks up a zone by ID
func (c *Catalog) Zone(id string) (*types.Zone, error) {
	for _, z := range c.zones {
		if z.ID == id {
			return z, nil
		}
	}
	return nil, ErrUnknownZone
}

// ZoneIndex returns the position of a zone in display order, or -1
func (c *Catalog) ZoneIndex(id string) int {
	for i, z := range c.zones {
		if z.ID == id {
			return i
		}
	}
	return -1
}

// NPC looks up an NPC by ID
func (c *Catalog) NPC(id string) (*types.NPC, error) {
	npc, ok := c.npcs[id]
	if !ok {
		return nil, ErrUnknownNPC
	}
	return npc, nil
}

// NPCs returns the NPCs of a zone in the zone's order. Unknown IDs are skipped.
func (c *Catalog) NPCs(zone *types.Zone) []*types.NPC {
	npcs := make([]*types.NPC, 0, len(zone.NPCs))
	for _, id := range zone.NPCs {
		if npc, ok := c.npcs[id]; ok {
			npcs = append(npcs, npc)
		}
	}
	return npcs
}

// AllNPCs returns every NPC placed in a zone, zone by zone
func (c *Catalog) AllNPCs() []*types.NPC {
	var npcs []*types.NPC
	for _, z := range c.zones {
		npcs = append(npcs, c.NPCs(z)...)
	}
	return npcs
}

// Items returns the shop catalog
func (c *Catalog) Items() []*types.ShopItem {
	return c.items
}

// Item looks up a shop item by exact ID
func (c *Catalog) Item(id string) (*types.ShopItem, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

// FindItem resolves a possibly imprecise item reference.
//
// Precedence: exact ID, then the first catalog item whose ID is contained in the
// reference, then the first item whose name contains the reference. Catalog order
// breaks ties.
func (c *Catalog) FindItem(ref string) (*types.ShopItem, bool) {
	ref = strings.TrimSpace(strings.ToLower(ref))
	if ref == "" {
		return nil, false
	}
	if item, ok := c.Item(ref); ok {
		return item, true
	}
	for _, item := range c.items {
		if strings.Contains(ref, item.ID) {
			return item, true
		}
	}
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.Name), ref) {
			return item, true
		}
	}
	return nil, false
}

// VendorCatalog returns the items an NPC sells, in the NPC's order
func (c *Catalog) VendorCatalog(npc *types.NPC) []types.ShopItem {
	out := make([]types.ShopItem, 0, len(npc.ShopInventory))
	for _, id := range npc.ShopInventory {
		if item, ok := c.Item(id); ok {
			out = append(out, *item)
		}
	}
	return out
}

// Jobs returns the job board
func (c *Catalog) Jobs() []*types.Job {
	return c.jobs
}

// JobFor returns the first job available at the given level, falling back to the
// first job of the board
func (c *Catalog) JobFor(hskLevel int) *types.Job {
	if len(c.jobs) == 0 {
		return nil
	}
	for _, job := range c.jobs {
		if job.MinHSK <= hskLevel {
			return job
		}
	}
	return c.jobs[0]
}

// FallingWords returns the minigame pool up to the given level
func (c *Catalog) FallingWords(maxHSK int) []types.FallingWord {
	var out []types.FallingWord
	for _, w := range c.fallingWords {
		if w.HSK <= maxHSK {
			out = append(out, w)
		}
	}
	return out
}
