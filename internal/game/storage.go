package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/hsk-life/internal/content"
	"github.com/user/hsk-life/internal/interfaces"
	"github.com/user/hsk-life/internal/types"
)

// FileStore keeps one JSON file per key in a directory
type FileStore struct {
	dir       string
	stateLock sync.RWMutex
}

var _ interfaces.KeyValueStore = (*FileStore)(nil)

// NewFileStore creates a file store rooted at dir
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, url.PathEscape(key)+".json")
}

// Get reads the value stored under key
func (fs *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	fs.stateLock.RLock()
	defer fs.stateLock.RUnlock()

	data, err := os.ReadFile(fs.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set overwrites the value stored under key
func (fs *FileStore) Set(_ context.Context, key string, value []byte) error {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	// Write to a temp file first so a crash never leaves half a save behind
	tmp := fs.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, fs.path(key)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for the file store
func (fs *FileStore) Close() error {
	return nil
}

// MemoryStore is an in-process key-value store
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ interfaces.KeyValueStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get reads the value stored under key
func (ms *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	v, ok := ms.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set overwrites the value stored under key
func (ms *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.data[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op for the memory store
func (ms *MemoryStore) Close() error {
	return nil
}

// DefaultSave returns the save subset of a fresh player
func DefaultSave() types.SaveData {
	return types.SaveData{
		Money:     content.InitialStats.Money,
		HSKLevel:  content.InitialStats.HSKLevel,
		Inventory: content.InitialInventory(),
	}
}

// progress is the stats half of a save
type progress struct {
	Money    *int `json:"money,omitempty"`
	HSKLevel *int `json:"hsk_level,omitempty"`
}

// SaveStore persists save data in a key-value store, under "<player>:stats" and
// "<player>:inventory". Loading merges whatever is stored over the defaults.
type SaveStore struct {
	kv interfaces.KeyValueStore
}

// NewSaveStore wraps a key-value store
func NewSaveStore(kv interfaces.KeyValueStore) *SaveStore {
	return &SaveStore{kv: kv}
}

func statsKey(playerID string) string     { return playerID + ":stats" }
func inventoryKey(playerID string) string { return playerID + ":inventory" }

// Save overwrites the player's save
func (ss *SaveStore) Save(ctx context.Context, playerID string, data types.SaveData) error {
	stats, err := json.Marshal(progress{Money: &data.Money, HSKLevel: &data.HSKLevel})
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	inventory := data.Inventory
	if inventory == nil {
		inventory = []types.InventoryItem{}
	}
	items, err := json.Marshal(inventory)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}

	if err := ss.kv.Set(ctx, statsKey(playerID), stats); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	if err := ss.kv.Set(ctx, inventoryKey(playerID), items); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	return nil
}

// Load reads the player's save. Missing keys fall back to the defaults.
func (ss *SaveStore) Load(ctx context.Context, playerID string) (types.SaveData, error) {
	save := DefaultSave()

	raw, ok, err := ss.kv.Get(ctx, statsKey(playerID))
	if err != nil {
		return save, fmt.Errorf("failed to load stats: %w", err)
	}
	if ok {
		var p progress
		if err := json.Unmarshal(raw, &p); err != nil {
			return save, fmt.Errorf("failed to parse stats: %w", err)
		}
		if p.Money != nil {
			save.Money = *p.Money
		}
		if p.HSKLevel != nil {
			save.HSKLevel = *p.HSKLevel
		}
	}

	raw, ok, err = ss.kv.Get(ctx, inventoryKey(playerID))
	if err != nil {
		return save, fmt.Errorf("failed to load inventory: %w", err)
	}
	if ok {
		var items []types.InventoryItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return save, fmt.Errorf("failed to parse inventory: %w", err)
		}
		if items != nil {
			save.Inventory = items
		}
	}
	return save, nil
}
