// ABOUTME: Key-value backends for rep settings
// ABOUTME: Local badger store and charm KV store behind one interface

package settings

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

// ErrNotFound is returned when a settings key has no value.
var ErrNotFound = errors.New("settings: key not found")

// KV is the storage the settings store needs.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg *Config) (KV, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend == BackendCharm {
		return OpenCharm(cfg)
	}
	return OpenLocal(cfg.Path)
}

// localKV keeps settings in a badger directory on this machine.
type localKV struct {
	db *badger.DB
}

// OpenLocal opens (creating if needed) a badger store at dir.
func OpenLocal(dir string) (KV, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create settings dir: %w", err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	return &localKV{db: db}, nil
}

func (l *localKV) Get(key []byte) ([]byte, error) {
	var result []byte
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return result, err
}

func (l *localKV) Set(key, value []byte) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (l *localKV) Delete(key []byte) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (l *localKV) Keys() ([][]byte, error) {
	var keys [][]byte
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func (l *localKV) Sync() error { return nil }

func (l *localKV) Close() error {
	return l.db.Close()
}

// charmKV keeps settings in a charm KV that syncs between the rep's devices.
type charmKV struct {
	kv       *kv.KV
	autoSync bool
	mu       sync.RWMutex
}

// OpenCharm opens the charm KV for the configured host and pulls remote
// changes when auto-sync is on.
func OpenCharm(cfg *Config) (KV, error) {
	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}
	c := &charmKV{kv: db, autoSync: cfg.AutoSync}
	if cfg.AutoSync {
		_ = db.Sync()
	}
	return c, nil
}

func (c *charmKV) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, err := c.kv.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return v, err
}

func (c *charmKV) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Set(key, value); err != nil {
		return err
	}
	if c.autoSync {
		_ = c.kv.Sync()
	}
	return nil
}

func (c *charmKV) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Delete(key); err != nil {
		return err
	}
	if c.autoSync {
		_ = c.kv.Sync()
	}
	return nil
}

func (c *charmKV) Keys() ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Keys()
}

func (c *charmKV) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

// Close is a no-op; charm/kv releases its badger handle on process exit.
func (c *charmKV) Close() error { return nil }

// CharmID returns the charm account ID for this device's SSH key.
func CharmID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}
