package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expiresAt,omitempty"` // unix ms, 0 = never
}

// FileCache keeps every key in one JSON file. The file is re-read on each call so
// separate CLI invocations see each other's writes, and replaced atomically on
// write.
type FileCache struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileCache{path: filepath.Join(dir, "state.json"), now: time.Now}, nil
}

// Path is the backing file.
func (c *FileCache) Path() string { return c.path }

func (c *FileCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load()
	if err != nil {
		return false, err
	}
	e, ok := entries[key]
	if !ok {
		return false, nil
	}
	if e.ExpiresAt != 0 && c.now().UnixMilli() >= e.ExpiresAt {
		delete(entries, key)
		return false, c.save(entries)
	}
	if err := json.Unmarshal(e.Value, dst); err != nil {
		delete(entries, key)
		return false, c.save(entries)
	}
	return true, nil
}

func (c *FileCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load()
	if err != nil {
		return err
	}
	e := fileEntry{Value: b}
	if ttl > 0 {
		e.ExpiresAt = c.now().Add(ttl).UnixMilli()
	}
	entries[key] = e
	return c.save(entries)
}

func (c *FileCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := entries[k]; ok {
			delete(entries, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return c.save(entries)
}

func (c *FileCache) load() (map[string]fileEntry, error) {
	entries := map[string]fileEntry{}
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		// corrupt file: start over rather than fail every command
		return map[string]fileEntry{}, nil
	}
	return entries, nil
}

func (c *FileCache) save(entries map[string]fileEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
