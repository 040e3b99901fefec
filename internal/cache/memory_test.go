package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache := NewMemoryCache(1024)

	key := "test-key"
	value := []byte("test-value")

	if err := cache.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	retrieved, ok := cache.Get(key)
	if !ok {
		t.Fatal("Get failed: key not found")
	}
	if string(retrieved) != string(value) {
		t.Errorf("Retrieved value mismatch: got %s, want %s", retrieved, value)
	}
	if !cache.Contains(key) {
		t.Error("Contains returned false for existing key")
	}
	if cache.Size() != int64(len(value)) {
		t.Errorf("Size mismatch: got %d, want %d", cache.Size(), len(value))
	}

	cache.Delete(key)
	if cache.Contains(key) {
		t.Error("Key still exists after delete")
	}
	if cache.Size() != 0 {
		t.Errorf("Size not zero after delete: %d", cache.Size())
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	cache := NewMemoryCache(100)

	for i := 0; i < 5; i++ {
		if err := cache.Put(fmt.Sprintf("key-%d", i), make([]byte, 20)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	// Access key-0 and key-1 to make them recently used
	cache.Get("key-0")
	cache.Get("key-1")

	if err := cache.Put("key-new", make([]byte, 30)); err != nil {
		t.Fatalf("Put failed for new key: %v", err)
	}

	for _, evicted := range []string{"key-2", "key-3"} {
		if cache.Contains(evicted) {
			t.Errorf("%s should have been evicted", evicted)
		}
	}
	for _, kept := range []string{"key-0", "key-1", "key-4", "key-new"} {
		if !cache.Contains(kept) {
			t.Errorf("%s should not have been evicted", kept)
		}
	}
	if got := cache.Stats().Evictions; got != 2 {
		t.Errorf("Evictions = %d, want 2", got)
	}
}

func TestMemoryCache_ItemTooLarge(t *testing.T) {
	cache := NewMemoryCache(100)
	if err := cache.Put("large-key", make([]byte, 200)); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("Expected ErrItemTooLarge, got %v", err)
	}
}

func TestMemoryCache_UpdateExisting(t *testing.T) {
	cache := NewMemoryCache(1024)

	_ = cache.Put("k", []byte("original"))
	_ = cache.Put("k", []byte("updated-value"))

	retrieved, ok := cache.Get("k")
	if !ok || string(retrieved) != "updated-value" {
		t.Errorf("Get = %q, %v; want updated-value", retrieved, ok)
	}
	if cache.Size() != int64(len("updated-value")) {
		t.Errorf("Size = %d after update", cache.Size())
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewMemoryCache(1024)
	_ = cache.Put("a", []byte("12345"))

	cache.Get("a")
	cache.Get("a")
	cache.Get("missing")

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Items != 1 || stats.Size != 5 || stats.Capacity != 1024 {
		t.Errorf("Stats = %+v", stats)
	}
	if rate := stats.HitRate(); rate < 0.66 || rate > 0.67 {
		t.Errorf("HitRate = %v, want ~0.667", rate)
	}

	cache.Clear()
	if cache.Size() != 0 || cache.Stats().Items != 0 {
		t.Error("Clear did not empty the cache")
	}
}

func TestMemoryCache_Prune(t *testing.T) {
	cache := NewMemoryCache(1024)
	_ = cache.Put("old", []byte("x"))
	time.Sleep(20 * time.Millisecond)
	_ = cache.Put("new", []byte("y"))

	if pruned := cache.Prune(10 * time.Millisecond); pruned != 1 {
		t.Errorf("Prune removed %d entries, want 1", pruned)
	}
	if cache.Contains("old") || !cache.Contains("new") {
		t.Error("Prune removed the wrong entry")
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache(10 * 1024)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("key-%d-%d", g, i%10)
				_ = cache.Put(key, make([]byte, 64))
				cache.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if cache.Size() > 10*1024 {
		t.Errorf("Size %d exceeds capacity", cache.Size())
	}
}

func TestStatsString(t *testing.T) {
	s := Stats{Items: 1200, Size: 3_400_000, Capacity: 100_000_000}
	if got, want := s.String(), "1,200 items, 3.4 MB of 100 MB"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
