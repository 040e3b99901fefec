package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// Manager fronts the memory and disk caches. Lookups check L1, then L2,
// promoting L2 hits into L1.
type Manager struct {
	l1     *MemoryCache
	l2     *DiskCache // nil when the disk cache is disabled
	config Config
	logger *log.Logger

	renders singleflight.Group

	cleanupStop chan struct{}
	cleanupWg   sync.WaitGroup
	closeOnce   sync.Once

	mu    sync.Mutex
	stats ManagerStats
}

// ManagerStats aggregates lookups across both levels.
type ManagerStats struct {
	L1Hits      int64
	L2Hits      int64
	Misses      int64
	Renders     int64
	CleanupRuns int64
	LastCleanup time.Time
}

// NewManager creates a cache manager. The disk cache is skipped when
// config.Dir is empty or config.DiskCapacity is zero.
func NewManager(config Config) (*Manager, error) {
	m := &Manager{
		l1:          NewMemoryCache(config.MemoryCapacity),
		config:      config,
		logger:      log.WithPrefix("cache"),
		cleanupStop: make(chan struct{}),
	}

	if config.Dir != "" && config.DiskCapacity > 0 {
		l2, err := NewDiskCache(config.Dir, config.DiskCapacity, config.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create disk cache: %w", err)
		}
		m.l2 = l2
	}

	if config.CleanupInterval > 0 {
		m.startCleanupRoutine()
	}
	return m, nil
}

// Get looks a key up in L1, then L2.
func (m *Manager) Get(key string) ([]byte, Level, bool) {
	if data, ok := m.l1.Get(key); ok {
		m.count(func(s *ManagerStats) { s.L1Hits++ })
		return data, LevelL1, true
	}
	if m.l2 != nil {
		if data, ok := m.l2.Get(key); ok {
			m.count(func(s *ManagerStats) { s.L2Hits++ })
			_ = m.l1.Put(key, data)
			return data, LevelL2, true
		}
	}
	m.count(func(s *ManagerStats) { s.Misses++ })
	return nil, 0, false
}

// Put stores a value in both levels. Values too large for a level are
// skipped for that level.
func (m *Manager) Put(key string, value []byte) error {
	if err := m.l1.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("L1 cache error: %w", err)
	}
	if m.l2 != nil {
		if err := m.l2.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
			return fmt.Errorf("L2 cache error: %w", err)
		}
	}
	return nil
}

// GetOrRender returns the cached value for key, or calls render, stores
// its result and returns it. Concurrent calls for the same key share one
// render.
func (m *Manager) GetOrRender(key string, render func() ([]byte, error)) ([]byte, error) {
	if data, _, ok := m.Get(key); ok {
		return data, nil
	}

	v, err, _ := m.renders.Do(key, func() (any, error) {
		data, err := render()
		if err != nil {
			return nil, err
		}
		m.count(func(s *ManagerStats) { s.Renders++ })
		if err := m.Put(key, data); err != nil {
			m.logger.Warn("unable to cache rendered audio", "error", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Delete removes a key from both levels.
func (m *Manager) Delete(key string) {
	m.l1.Delete(key)
	if m.l2 != nil {
		m.l2.Delete(key)
	}
}

// Clear removes every entry from both levels.
func (m *Manager) Clear() error {
	m.l1.Clear()
	if m.l2 != nil {
		if err := m.l2.Clear(); err != nil {
			return fmt.Errorf("L2 clear: %w", err)
		}
	}
	return nil
}

// Stats returns the aggregated counters.
func (m *Manager) Stats() ManagerStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// LevelStats returns the stats of each level. The disk stats are zero
// when the disk cache is disabled.
func (m *Manager) LevelStats() (memory, disk Stats) {
	memory = m.l1.Stats()
	if m.l2 != nil {
		disk = m.l2.Stats()
	}
	return memory, disk
}

// Cleanup removes expired disk entries and prunes the memory cache.
func (m *Manager) Cleanup() {
	m.count(func(s *ManagerStats) {
		s.CleanupRuns++
		s.LastCleanup = time.Now()
	})
	if m.config.TTL <= 0 {
		return
	}
	if m.l2 != nil {
		if removed := m.l2.RemoveOlderThan(time.Now().Add(-m.config.TTL)); removed > 0 {
			m.logger.Debug("removed expired entries", "count", removed)
		}
	}
	m.l1.Prune(m.config.TTL)
}

// Close stops the cleanup routine and releases the disk cache.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.cleanupStop)
		m.cleanupWg.Wait()
		if m.l2 != nil {
			err = m.l2.Close()
		}
	})
	return err
}

func (m *Manager) startCleanupRoutine() {
	m.cleanupWg.Add(1)
	go func() {
		defer m.cleanupWg.Done()

		ticker := time.NewTicker(m.config.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Cleanup()
			case <-m.cleanupStop:
				return
			}
		}
	}()
}

func (m *Manager) count(fn func(*ManagerStats)) {
	m.mu.Lock()
	fn(&m.stats)
	m.mu.Unlock()
}
