package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheCorrupted is returned when cache data cannot be decoded
	ErrCacheCorrupted = errors.New("cache data corrupted")
)

// Level is a cache tier.
type Level int

const (
	LevelL1 Level = iota // memory
	LevelL2              // disk
)

func (l Level) String() string {
	switch l {
	case LevelL1:
		return "memory"
	case LevelL2:
		return "disk"
	default:
		return "unknown"
	}
}

// Stats holds cache metrics.
type Stats struct {
	Capacity  int64
	Size      int64
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

// String renders the stats for humans, e.g. "12 items, 3.4 MB of 100 MB".
func (s Stats) String() string {
	return fmt.Sprintf("%s items, %s of %s",
		humanize.Comma(int64(s.Items)),
		humanize.Bytes(uint64(max(s.Size, 0))),
		humanize.Bytes(uint64(max(s.Capacity, 0))))
}

// Config holds cache configuration.
type Config struct {
	MemoryCapacity   int64         // bytes
	DiskCapacity     int64         // bytes; 0 disables the disk cache
	Dir              string        // disk cache directory
	CompressionLevel int           // zstd level, 1 (fastest) to 4 (best)
	TTL              time.Duration // disk entries older than this are removed; 0 keeps them
	CleanupInterval  time.Duration // 0 disables the background cleanup
}

// DefaultConfig returns a configuration with a 32MB memory cache and a
// diskMB megabyte disk cache in dir.
func DefaultConfig(dir string, diskMB int) Config {
	return Config{
		MemoryCapacity:   32 * 1024 * 1024,
		DiskCapacity:     int64(diskMB) * 1024 * 1024,
		Dir:              dir,
		CompressionLevel: 2,
		TTL:              7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// Key derives the cache key of a rendered piece of text. Every input
// that changes the audio is part of the key.
func Key(engine, voice string, rate, pitch float64, text string) string {
	h := sha256.New()
	for _, part := range []string{
		engine,
		voice,
		strconv.FormatFloat(rate, 'f', 2, 64),
		strconv.FormatFloat(pitch, 'f', 2, 64),
		text,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
