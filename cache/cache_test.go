package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		capacity, want int
	}{
		{100, 100},
		{0, DefaultCapacity},
		{-3, DefaultCapacity},
	}
	for _, tt := range tests {
		c := New[string, int](tt.capacity)
		if c.Capacity() != tt.want {
			t.Errorf("New(%d).Capacity() = %d, want %d", tt.capacity, c.Capacity(), tt.want)
		}
		if c.Len() != 0 {
			t.Errorf("New(%d) has %d entries", tt.capacity, c.Len())
		}
	}
}

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 42)

	if val, ok := c.Get("key1"); !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v, want 42, true", val, ok)
	}
	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}

	c.Set("key1", 43)
	if val, _ := c.Get("key1"); val != 43 {
		t.Errorf("Get(key1) after overwrite = %d, want 43", val)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	calls := 0

	val := c.GetOrCreate("key1", func() int {
		calls++
		return 100
	})
	if val != 100 || calls != 1 {
		t.Errorf("first GetOrCreate = %d (calls %d), want 100 (calls 1)", val, calls)
	}
	val = c.GetOrCreate("key1", func() int {
		calls++
		return 200
	})
	if val != 100 || calls != 1 {
		t.Errorf("second GetOrCreate = %d (calls %d), want 100 (calls 1)", val, calls)
	}
}

func TestCacheDelete(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 42)

	if !c.Delete("key1") {
		t.Error("expected Delete to return true for existing key")
	}
	if _, ok := c.Get("key1"); ok {
		t.Error("expected key1 to be deleted")
	}
	if c.Delete("nonexistent") {
		t.Error("expected Delete to return false for non-existing key")
	}
}

func TestCacheClear(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 1)
	c.Set("key2", 2)
	c.Set("key3", 3)

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected 0 entries after clear, got %d", c.Len())
	}
	c.Set("key4", 4)
	if c.Len() != 1 {
		t.Errorf("expected cache usable after clear, got %d entries", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3)
	for i := range 3 {
		c.Set(strconv.Itoa(i), i)
	}
	// Touch "0" so "1" is the oldest.
	c.Get("0")
	c.Set("new", 100)

	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
	if _, ok := c.Get("1"); ok {
		t.Error("expected least recently used key 1 to be evicted")
	}
	for _, k := range []string{"0", "2", "new"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %q to survive eviction", k)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestCacheStats(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 1)
	c.Set("key2", 2)
	c.Get("key1")
	c.Get("key1")
	c.Get("key1")
	c.Get("missing")

	stats := c.Stats()
	if stats.Len != 2 || stats.Capacity != 10 {
		t.Errorf("Len, Capacity = %d, %d, want 2, 10", stats.Len, stats.Capacity)
	}
	if stats.Hits != 3 || stats.Misses != 1 {
		t.Errorf("Hits, Misses = %d, %d, want 3, 1", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.75 {
		t.Errorf("HitRate = %v, want 0.75", stats.HitRate)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.Evictions != 0 {
		t.Errorf("counters after ResetStats = %+v", s)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[int, int](1000)
	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				c.Set(n*100+j, n*100+j)
				c.GetOrCreate(j, func() int { return j })
			}
		}(i)
	}
	wg.Wait()

	if c.Len() == 0 || c.Len() > 1000 {
		t.Errorf("Len = %d, want 1..1000", c.Len())
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int](256)
	for i := range 256 {
		c.Set(strconv.Itoa(i), i)
	}
	b.ResetTimer()
	for i := range b.N {
		c.Get(strconv.Itoa(i & 255))
	}
}
