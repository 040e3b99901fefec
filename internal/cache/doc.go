// Package cache keeps rendered speech so replaying a sentence does not
// run the engine again. It has an in-memory LRU (L1) in front of a
// zstd-compressed disk cache (L2).
package cache
