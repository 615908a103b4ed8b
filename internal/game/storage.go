package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/noodle-factory/internal/types"
)

// Persisted keys
const (
	KeyUnlockedAchievements = "achievements.unlocked"
	KeyFirstSession         = "achievements.first_session"
	KeyPlayedCards          = "cards.played"
)

// KeyValueStore is the external string key/value store progress is kept in
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps values in memory for the lifetime of the process
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// FileStore persists all keys in a single JSON document. Every operation
// reads the whole file and every mutation writes it back in full.
type FileStore struct {
	savePath  string
	stateLock sync.Mutex
}

// NewFileStore creates a new file-backed store
func NewFileStore(savePath string) *FileStore {
	return &FileStore{
		savePath: savePath,
	}
}

func (fs *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(fs.savePath)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	return values, nil
}

func (fs *FileStore) save(values map[string]string) error {
	dir := filepath.Dir(fs.savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	if err := os.WriteFile(fs.savePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}

func (fs *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	values, err := fs.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (fs *FileStore) Set(ctx context.Context, key, value string) error {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	values, err := fs.load()
	if err != nil {
		return err
	}
	values[key] = value
	return fs.save(values)
}

func (fs *FileStore) Delete(ctx context.Context, key string) error {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	values, err := fs.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return fs.save(values)
}

// ProgressStore maps types.Progress onto the three persisted keys
type ProgressStore struct {
	kv KeyValueStore
}

// NewProgressStore wraps a key/value store
func NewProgressStore(kv KeyValueStore) *ProgressStore {
	return &ProgressStore{kv: kv}
}

// Load reads the progress record. Missing keys yield empty values.
func (ps *ProgressStore) Load(ctx context.Context) (*types.Progress, error) {
	progress := types.NewProgress()

	raw, ok, err := ps.kv.Get(ctx, KeyUnlockedAchievements)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if ok && raw != "" {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, fmt.Errorf("failed to parse unlocked achievements: %w", err)
		}
		for _, id := range ids {
			progress.Unlock(id)
		}
	}

	_, ok, err = ps.kv.Get(ctx, KeyFirstSession)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	progress.FirstSession = ok

	raw, ok, err = ps.kv.Get(ctx, KeyPlayedCards)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if ok && raw != "" {
		played := make(map[string]bool)
		if err := json.Unmarshal([]byte(raw), &played); err != nil {
			return nil, fmt.Errorf("failed to parse played cards: %w", err)
		}
		for name, v := range played {
			if v {
				progress.Played[name] = true
			}
		}
	}

	return progress, nil
}

// Save writes the full progress record
func (ps *ProgressStore) Save(ctx context.Context, progress *types.Progress) error {
	unlocked, err := json.Marshal(progress.Unlocked)
	if err != nil {
		return fmt.Errorf("failed to marshal unlocked achievements: %w", err)
	}
	if err := ps.kv.Set(ctx, KeyUnlockedAchievements, string(unlocked)); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if progress.FirstSession {
		err = ps.kv.Set(ctx, KeyFirstSession, "true")
	} else {
		err = ps.kv.Delete(ctx, KeyFirstSession)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	played, err := json.Marshal(progress.Played)
	if err != nil {
		return fmt.Errorf("failed to marshal played cards: %w", err)
	}
	if err := ps.kv.Set(ctx, KeyPlayedCards, string(played)); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return nil
}

// Reset clears all three persisted keys
func (ps *ProgressStore) Reset(ctx context.Context) error {
	for _, key := range []string{KeyUnlockedAchievements, KeyFirstSession, KeyPlayedCards} {
		if err := ps.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
	}
	return nil
}
