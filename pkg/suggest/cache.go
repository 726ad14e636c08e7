package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// keyMarker is prepended to every key so the empty query still has a key.
const keyMarker = "\x00"

// HotCache keeps the results of recent exact prefix lookups. Entries live in
// a patricia trie keyed by query, which lets an inserted word drop exactly
// the cached queries that are prefixes of it.
type HotCache struct {
	entries     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

// NewHotCache creates a cache holding at most maxEntries queries.
// A nil *HotCache is valid and caches nothing.
func NewHotCache(maxEntries int) *HotCache {
	if maxEntries <= 0 {
		return nil
	}
	return &HotCache{
		entries:    patricia.NewTrie(),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns a copy of the cached words for query.
func (hc *HotCache) Get(query string) ([]string, bool) {
	if hc == nil {
		return nil, false
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	item := hc.entries.Get(cacheKey(query))
	if item == nil {
		hc.misses++
		return nil, false
	}
	hc.hits++
	hc.markAccessed(query)
	return append([]string(nil), item.([]string)...), true
}

// Put stores a copy of words as the result for query.
func (hc *HotCache) Put(query string, words []string) {
	if hc == nil {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if _, exists := hc.accessTime[query]; !exists && len(hc.accessTime) >= hc.maxEntries {
		hc.evictLRU()
	}
	hc.entries.Set(cacheKey(query), append([]string(nil), words...))
	hc.markAccessed(query)
}

// Invalidate drops every cached query that is a prefix of word, since those
// are the only results an insert of word can change. It returns the number
// of dropped entries.
func (hc *HotCache) Invalidate(word string) int {
	if hc == nil {
		return 0
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	var stale []patricia.Prefix
	err := hc.entries.VisitPrefixes(cacheKey(word), func(p patricia.Prefix, _ patricia.Item) error {
		stale = append(stale, append(patricia.Prefix(nil), p...))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting hot cache prefixes: %v", err)
	}

	for _, p := range stale {
		hc.entries.Delete(p)
		delete(hc.accessTime, string(p[len(keyMarker):]))
	}
	return len(stale)
}

// Clear empties the cache and resets its counters.
func (hc *HotCache) Clear() {
	if hc == nil {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.entries = patricia.NewTrie()
	hc.accessTime = make(map[string]int64, hc.maxEntries)
	hc.accessCount, hc.hits, hc.misses = 0, 0, 0
}

func (hc *HotCache) Stats() map[string]int {
	if hc == nil {
		return map[string]int{"hotCacheEntries": 0, "maxHotEntries": 0}
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"hotCacheEntries": len(hc.accessTime),
		"maxHotEntries":   hc.maxEntries,
		"hotCacheHits":    int(hc.hits),
		"hotCacheMisses":  int(hc.misses),
	}
}

func (hc *HotCache) markAccessed(query string) {
	hc.accessCount++
	hc.accessTime[query] = hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldest string
	var oldestTime int64 = math.MaxInt64
	found := false

	for query, t := range hc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = query
			found = true
		}
	}

	if found {
		hc.entries.Delete(cacheKey(oldest))
		delete(hc.accessTime, oldest)
		log.Debugf("Evicted query '%s' from hot cache", oldest)
	}
}

func cacheKey(query string) patricia.Prefix {
	return patricia.Prefix(keyMarker + query)
}
