// Package cache provides a size-bounded LRU cache.
//
// The renderer uses it to memoize work that repeats frame after frame, such
// as laying out the same label text every tick.
package cache
