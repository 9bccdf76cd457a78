package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/hsk-life/internal/types"
	"go.uber.org/zap"
)

// DataLoader handles loading content overrides from files
type DataLoader struct {
	basePath string
	Logger   *zap.Logger
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string) *DataLoader {
	return &DataLoader{
		basePath: basePath,
		Logger:   zap.NewNop(),
	}
}

// loadFile decodes one JSON file into out. A missing file is not an error and
// reports false.
func (dl *DataLoader) loadFile(name string, out interface{}) (bool, error) {
	path := filepath.Join(dl.basePath, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return true, nil
}

// Load builds a catalog from the built-in tables, replacing every table for which
// the assets directory holds a JSON file (zones.json, npcs.json, items.json,
// jobs.json, words.json).
func (dl *DataLoader) Load() (*Catalog, error) {
	zones, npcs, items, jobs, words := defaultZones(), defaultNPCs(), defaultItems(), defaultJobs(), defaultFallingWords()

	if dl.basePath == "" {
		return newCatalog(zones, npcs, items, jobs, words), nil
	}

	tables := []struct {
		name string
		out  interface{}
	}{
		{"zones.json", &zones},
		{"npcs.json", &npcs},
		{"items.json", &items},
		{"jobs.json", &jobs},
		{"words.json", &words},
	}
	for _, table := range tables {
		found, err := dl.loadFile(table.name, table.out)
		if err != nil {
			return nil, err
		}
		if found {
			dl.Logger.Info("Loaded content override",
				zap.String("file", table.name),
				zap.String("dir", dl.basePath))
		}
	}

	if err := validate(zones, npcs); err != nil {
		return nil, err
	}
	return newCatalog(zones, npcs, items, jobs, words), nil
}

func validate(zones []*types.Zone, npcs []*types.NPC) error {
	if len(zones) == 0 {
		return errors.New("content has no zones")
	}
	known := make(map[string]bool, len(npcs))
	for _, npc := range npcs {
		known[npc.ID] = true
	}
	for _, z := range zones {
		for _, id := range z.NPCs {
			if !known[id] {
				return fmt.Errorf("zone %s references unknown npc %s", z.ID, id)
			}
		}
	}
	return nil
}
