package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/testutil"
)

func TestNewPageCache(t *testing.T) {
	t.Run("creates cache with specified capacity", func(t *testing.T) {
		c := NewPageCache(100)
		testutil.AssertEqual(t, c.Capacity(), 100, "capacity should match")
		testutil.AssertEqual(t, c.Size(), 0, "new cache should be empty")
	})

	t.Run("uses default capacity for invalid values", func(t *testing.T) {
		testutil.AssertEqual(t, NewPageCache(0).Capacity(), 64, "zero falls back to default")
		testutil.AssertEqual(t, NewPageCache(-10).Capacity(), 64, "negative falls back to default")
	})
}

func TestPageCacheSetAndGet(t *testing.T) {
	t.Run("stores and retrieves page body", func(t *testing.T) {
		c := NewPageCache(10)
		c.Set("https://game8.co/archives/1001", []byte("<html>fjorm</html>"), 0)

		body, found := c.Get("https://game8.co/archives/1001")
		testutil.AssertTrue(t, found, "should find cached page")
		testutil.AssertEqual(t, string(body), "<html>fjorm</html>", "body should match")
	})

	t.Run("returns false for missing url", func(t *testing.T) {
		c := NewPageCache(10)
		body, found := c.Get("https://game8.co/archives/404")

		testutil.AssertFalse(t, found, "should not find missing url")
		testutil.AssertTrue(t, body == nil, "body should be nil")
	})

	t.Run("updates existing url", func(t *testing.T) {
		c := NewPageCache(10)
		c.Set("u", []byte("old"), 0)
		c.Set("u", []byte("new"), 0)

		body, found := c.Get("u")
		testutil.AssertTrue(t, found, "should find url")
		testutil.AssertEqual(t, string(body), "new", "should have updated body")
		testutil.AssertEqual(t, c.Size(), 1, "size should still be 1")
	})
}

func TestPageCacheTTL(t *testing.T) {
	c := NewPageCache(10)
	c.Set("expiring", []byte("x"), 10*time.Millisecond)
	c.Set("forever", []byte("y"), 0)

	_, found := c.Get("expiring")
	testutil.AssertTrue(t, found, "fresh page should be found")

	time.Sleep(20 * time.Millisecond)

	_, found = c.Get("expiring")
	testutil.AssertFalse(t, found, "expired page should be gone")
	_, found = c.Get("forever")
	testutil.AssertTrue(t, found, "zero ttl never expires")
}

func TestPageCacheLRUEviction(t *testing.T) {
	c := NewPageCache(2)
	c.Set("a", []byte("1"), 0)
	c.Set("b", []byte("2"), 0)

	// "a" pasa a ser el más reciente; "b" es el candidato a expulsión.
	c.Get("a")
	c.Set("c", []byte("3"), 0)

	_, found := c.Get("b")
	testutil.AssertFalse(t, found, "least recently used page should be evicted")
	_, found = c.Get("a")
	testutil.AssertTrue(t, found, "recently used page survives")
	_, found = c.Get("c")
	testutil.AssertTrue(t, found, "new page present")
	testutil.AssertEqual(t, c.Size(), 2, "size bounded by capacity")
}

func TestPageCacheDeleteAndClear(t *testing.T) {
	c := NewPageCache(10)
	c.Set("a", []byte("1"), 0)
	c.Set("b", []byte("2"), 0)

	c.Delete("a")
	_, found := c.Get("a")
	testutil.AssertFalse(t, found, "deleted page should be gone")

	c.Clear()
	testutil.AssertEqual(t, c.Size(), 0, "clear empties the cache")
}

func TestPageCacheCleanExpired(t *testing.T) {
	c := NewPageCache(10)
	c.Set("a", []byte("1"), 5*time.Millisecond)
	c.Set("b", []byte("2"), 5*time.Millisecond)
	c.Set("c", []byte("3"), 0)

	time.Sleep(10 * time.Millisecond)

	removed := c.CleanExpired()
	testutil.AssertEqual(t, removed, 2, "two pages expired")
	testutil.AssertEqual(t, c.Size(), 1, "only the permanent page remains")
}

func TestPageCacheStats(t *testing.T) {
	c := NewPageCache(10)
	c.Set("a", []byte("1"), 0)

	c.Get("a")
	c.Get("a")
	c.Get("missing")

	hits, misses := c.Stats()
	testutil.AssertEqual(t, hits, int64(2), "hits")
	testutil.AssertEqual(t, misses, int64(1), "misses")
}

func TestPageCacheConcurrent(t *testing.T) {
	c := NewPageCache(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := string(rune('a' + id))
				c.Set(key, []byte{byte(j)}, 0)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	testutil.AssertEqual(t, c.Size(), 10, "one entry per goroutine")
}
