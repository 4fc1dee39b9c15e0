package tiles

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/ristretto"
	"github.com/klauspost/compress/zstd"
)

// ErrStoreClosed is returned by stores after Close.
var ErrStoreClosed = errors.New("tile store closed")

// Store caches encoded tiles by key.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, data []byte) error
	Close() error
}

// MemoryStore is a bounded in-process cache. Admission is probabilistic, so
// a Put is not guaranteed to be visible to a later Get.
type MemoryStore struct {
	cache *ristretto.Cache
}

// NewMemoryStore creates a cache holding roughly maxBytes of tile data.
func NewMemoryStore(maxBytes int64) (*MemoryStore, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("memory store: size must be positive, got %d", maxBytes)
	}
	// Roughly 10 counters per expected item, assuming 16 KiB tiles.
	counters := maxBytes / (16 << 10) * 10
	if counters < 1000 {
		counters = 1000
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: counters,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("memory store: %w", err)
	}
	return &MemoryStore{cache: cache}, nil
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *MemoryStore) Put(key string, data []byte) error {
	m.cache.Set(key, data, int64(len(data)))
	return nil
}

// Wait blocks until buffered writes are applied.
func (m *MemoryStore) Wait() {
	m.cache.Wait()
}

func (m *MemoryStore) Close() error {
	m.cache.Close()
	return nil
}

// DiskStore persists tiles in BadgerDB, zstd-compressed.
type DiskStore struct {
	db    *badger.DB
	enc   *zstd.Encoder
	dec   *zstd.Decoder
	mu    sync.RWMutex
	ready bool
}

// OpenDiskStore opens or creates a store in dir.
func OpenDiskStore(dir string) (*DiskStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening tile store %s: %w", dir, err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &DiskStore{db: db, enc: enc, dec: dec, ready: true}, nil
}

func (d *DiskStore) Get(key string) ([]byte, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.ready {
		return nil, false, ErrStoreClosed
	}

	var compressed []byte
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading tile %s: %w", key, err)
	}

	data, err := d.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompressing tile %s: %w", key, err)
	}
	return data, true, nil
}

func (d *DiskStore) Put(key string, data []byte) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.ready {
		return ErrStoreClosed
	}

	compressed := d.enc.EncodeAll(data, nil)
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), compressed)
	})
	if err != nil {
		return fmt.Errorf("writing tile %s: %w", key, err)
	}
	return nil
}

func (d *DiskStore) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ready {
		return nil
	}
	d.ready = false
	d.dec.Close()
	d.enc.Close()
	return d.db.Close()
}

// TieredStore checks a fast store before a slow one and promotes slow hits.
type TieredStore struct {
	Fast, Slow Store
}

func (t *TieredStore) Get(key string) ([]byte, bool, error) {
	if data, ok, err := t.Fast.Get(key); err == nil && ok {
		return data, true, nil
	}
	data, ok, err := t.Slow.Get(key)
	if err != nil || !ok {
		return nil, false, err
	}
	if err := t.Fast.Put(key, data); err != nil {
		slog.Warn("promoting tile", "key", key, "error", err)
	}
	return data, true, nil
}

func (t *TieredStore) Put(key string, data []byte) error {
	if err := t.Fast.Put(key, data); err != nil {
		return err
	}
	return t.Slow.Put(key, data)
}

func (t *TieredStore) Close() error {
	return errors.Join(t.Fast.Close(), t.Slow.Close())
}

// OpenStore builds the store described by the server settings: a memory
// layer when memoryMB > 0, a disk layer when dir is set. With neither, it
// returns nil and tiles are rendered on every request.
func OpenStore(dir string, memoryMB int) (Store, error) {
	var mem, disk Store
	if memoryMB > 0 {
		m, err := NewMemoryStore(int64(memoryMB) << 20)
		if err != nil {
			return nil, err
		}
		mem = m
	}
	if dir != "" {
		d, err := OpenDiskStore(dir)
		if err != nil {
			if mem != nil {
				mem.Close()
			}
			return nil, err
		}
		disk = d
	}

	switch {
	case mem != nil && disk != nil:
		return &TieredStore{Fast: mem, Slow: disk}, nil
	case mem != nil:
		return mem, nil
	case disk != nil:
		return disk, nil
	}
	return nil, nil
}
