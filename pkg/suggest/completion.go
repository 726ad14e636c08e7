package suggest

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"
)

// DefaultCacheSize is the number of prefix lookups kept by NewCompleter
// when Options.CacheSize is left at zero.
const DefaultCacheSize = 2048

// Suggestion is one completed word.
type Suggestion struct {
	Word string
	// Corrected is set when the stored word differs from the typed prefix,
	// which only happens with case-insensitive lookups.
	Corrected bool
}

// Options configure a Completer.
type Options struct {
	// CacheSize bounds the hot cache; negative disables it.
	CacheSize int
	// Normalize converts words and prefixes to Unicode NFC before use, so
	// precomposed and decomposed spellings meet in the same trie path.
	Normalize bool
}

// Completer is a trie guarded by a RWMutex: one writer or many readers.
type Completer struct {
	trie       *trie.Trie
	hotCache   *HotCache
	normalize  bool
	totalWords int
	mu         sync.RWMutex
}

func NewCompleter(opts Options) *Completer {
	cacheSize := opts.CacheSize
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	return &Completer{
		trie:      trie.New(),
		hotCache:  NewHotCache(cacheSize),
		normalize: opts.Normalize,
	}
}

func (c *Completer) AddWord(word string) {
	word = c.prepare(word)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.trie.Search(word) {
		return
	}
	c.trie.AddWord(word)
	c.totalWords++

	if n := c.hotCache.Invalidate(word); n > 0 {
		log.Debugf("Dropped %d cached lookups for '%s'", n, word)
	}
}

func (c *Completer) Contains(word string) bool {
	word = c.prepare(word)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trie.Search(word)
}

// Complete returns stored words starting with prefix in lexicographic order.
// A limit of zero or less returns all of them.
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	prefix = c.prepare(prefix)

	// cache reads and writes happen under the read lock so an AddWord can't
	// slip in between the trie lookup and the Put
	c.mu.RLock()
	defer c.mu.RUnlock()

	words, ok := c.hotCache.Get(prefix)
	if !ok {
		words = c.trie.Predict(prefix)
		sort.Strings(words)
		c.hotCache.Put(prefix, words)
	}
	return toSuggestions(prefix, words, limit)
}

// CompleteFold is Complete with case-insensitive matching of the prefix.
// Words come back with their stored casing.
func (c *Completer) CompleteFold(prefix string, limit int) []Suggestion {
	prefix = c.prepare(prefix)

	c.mu.RLock()
	words := c.trie.PredictByKey(prefix, trie.FoldCase)
	c.mu.RUnlock()

	sort.Strings(words)
	return toSuggestions(prefix, words, limit)
}

func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	stats := map[string]int{
		"totalWords": c.totalWords,
		"nodes":      c.trie.NodeCount(),
	}
	c.mu.RUnlock()

	if c.normalize {
		stats["normalize"] = 1
	} else {
		stats["normalize"] = 0
	}
	for k, v := range c.hotCache.Stats() {
		stats[k] = v
	}
	return stats
}

// prepare maps s to the form the trie stores. Invalid bytes become U+FFFD
// as the trie would decode them, so cache keys and trie paths agree.
func (c *Completer) prepare(s string) string {
	if !utf8.ValidString(s) {
		// one U+FFFD per bad byte, the same as ranging over s
		s = string([]rune(s))
	}
	if c.normalize {
		return norm.NFC.String(s)
	}
	return s
}

func toSuggestions(prefix string, words []string, limit int) []Suggestion {
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	suggestions := make([]Suggestion, 0, len(words))
	for _, w := range words {
		suggestions = append(suggestions, Suggestion{
			Word:      w,
			Corrected: !strings.HasPrefix(w, prefix),
		})
	}
	return suggestions
}
