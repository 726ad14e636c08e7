package trie

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tchap/go-patricia/v2/patricia"
)

func build(words ...string) *Trie {
	t := New()
	for _, w := range words {
		t.AddWord(w)
	}
	return t
}

// TestNew verifies an empty trie holds nothing, not even the empty word.
func TestNew(t *testing.T) {
	root := New()
	require.NotNil(t, root)
	assert.False(t, root.isEndOfWord, "root should not be a word")
	assert.Empty(t, root.children, "root should have no children")
	assert.False(t, root.Search(""), "empty word was never inserted")
	assert.Empty(t, root.Predict(""))
	assert.Equal(t, 0, root.Len())
	assert.Equal(t, 1, root.NodeCount())
}

func TestAddWordAndSearch(t *testing.T) {
	root := build("test", "alex", "mary")

	assert.True(t, root.Search("test"))
	assert.True(t, root.Search("alex"))
	assert.True(t, root.Search("mary"))
	assert.False(t, root.Search("te"), "proper prefix was never inserted")
	assert.False(t, root.Search("testing"), "query leaves the tree")
	assert.False(t, root.Search("bob"))
	assert.False(t, root.Search(""))
}

func TestAddWordKeepsPrefixes(t *testing.T) {
	root := build("test")
	root.AddWord("testosterone")
	root.AddWord("te")

	assert.True(t, root.Search("test"), "existing word must survive a longer insert")
	assert.True(t, root.Search("testosterone"))
	assert.True(t, root.Search("te"))
	assert.False(t, root.Search("tes"))
}

func TestAddWordIdempotent(t *testing.T) {
	once := build("alex", "alexander")
	many := build("alex", "alexander")
	for i := 0; i < 5; i++ {
		many.AddWord("alex")
	}

	assert.Equal(t, once.NodeCount(), many.NodeCount())
	assert.Equal(t, once.Len(), many.Len())
	assert.Equal(t, once.Predict(""), many.Predict(""))
	assert.True(t, many.Search("alex"))
}

func TestLenAndNodeCount(t *testing.T) {
	root := build("test", "testosterone")
	assert.Equal(t, 2, root.Len())
	assert.Equal(t, 13, root.NodeCount())

	root.AddWord("tea")
	assert.Equal(t, 3, root.Len())
	assert.Equal(t, 14, root.NodeCount())
}

func TestPredict(t *testing.T) {
	root := build("test", "alex", "testosterone", "alexander")

	alex := root.Predict("alex")
	assert.Contains(t, alex, "alex")
	assert.Contains(t, alex, "alexander")
	assert.Len(t, alex, 2)

	test := root.Predict("test")
	assert.Contains(t, test, "test")
	assert.Contains(t, test, "testosterone")
	assert.Len(t, test, 2)

	assert.Equal(t, []string{"testosterone"}, root.Predict("testo"))
	assert.Equal(t, []string{"alexander"}, root.Predict("alexander"))
}

func TestPredictNoMatch(t *testing.T) {
	root := build("test", "alex", "testosterone", "alexander")

	tests := []struct {
		name  string
		query string
	}{
		{"unknown word", "not_in_the_tree"},
		{"one past a word", "alexx"},
		{"diverges after shared prefix", "tz"},
		{"diverges at last char", "testa"},
		{"longer than any word", "alexanderthegreat"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := root.Predict(tc.query)
			require.NotNil(t, got)
			assert.Empty(t, got)
			assert.False(t, root.Search(tc.query))
		})
	}
}

func TestPredictEmptyQuery(t *testing.T) {
	words := []string{"test", "alex", "testosterone", "alexander", "mary"}
	root := build(words...)

	assert.ElementsMatch(t, words, root.Predict(""))
}

func TestEmptyWord(t *testing.T) {
	root := build("alex")
	assert.False(t, root.Search(""))

	root.AddWord("")
	assert.True(t, root.Search(""))
	assert.ElementsMatch(t, []string{"", "alex"}, root.Predict(""))
	assert.Equal(t, []string{"alex"}, root.Predict("a"))
	assert.Equal(t, 2, root.Len())
	assert.Equal(t, 5, root.NodeCount(), "empty word adds no node")
}

func TestPredictByKeyFoldCase(t *testing.T) {
	root := build("test", "alex", "Testosterone", "Alexander")

	alex := root.PredictByKey("alex", FoldCase)
	assert.Contains(t, alex, "Alexander")
	assert.Contains(t, alex, "alex")
	assert.Len(t, alex, 2)

	test := root.PredictByKey("test", FoldCase)
	assert.Contains(t, test, "Testosterone")
	assert.Contains(t, test, "test")

	assert.ElementsMatch(t, []string{"alex", "Alexander"}, root.PredictByKey("ALEX", FoldCase))
	assert.Empty(t, root.PredictByKey("alexx", FoldCase))

	// strict matching does not see the capitalised words
	assert.Equal(t, []string{"alex"}, root.Predict("alex"))
	assert.Equal(t, []string{"Testosterone"}, root.Predict("Test"))
}

func TestPredictByKeyNilIsExact(t *testing.T) {
	root := build("alex", "Alexander")
	assert.Equal(t, root.Predict("alex"), root.PredictByKey("alex", nil))
	assert.Equal(t, []string{"Alexander"}, root.PredictByKey("Alex", nil))
}

func TestPredictByKeyCustomEquivalence(t *testing.T) {
	root := build("color", "colour", "cooler")

	// '?' in the query matches any single stored codepoint
	wildcard := func(query, stored rune) bool {
		return query == '?' || query == stored
	}
	assert.ElementsMatch(t, []string{"color", "colour"}, root.PredictByKey("co?o", wildcard))
	assert.Equal(t, []string{"cooler"}, root.PredictByKey("?oo", wildcard))
	assert.Equal(t, []string{"colour"}, root.PredictByKey("colo?r", wildcard))
	assert.Empty(t, root.PredictByKey("c??x", wildcard))
}

func TestSearchByKey(t *testing.T) {
	root := build("Alexander", "alex")

	assert.True(t, root.SearchByKey("ALEXANDER", FoldCase))
	assert.True(t, root.SearchByKey("Alex", FoldCase))
	assert.False(t, root.SearchByKey("alexand", FoldCase))
	assert.False(t, root.SearchByKey("Alex", nil))
	assert.True(t, root.SearchByKey("alex", nil))
}

func TestUnicodeWords(t *testing.T) {
	words := []string{"café", "cafe", "日本語", "日本", "😀👍", "naïve", "Ærøskøbing"}
	root := build(words...)

	for _, w := range words {
		assert.True(t, root.Search(w), "stored word %q", w)
	}
	assert.Equal(t, len(words), root.Len())

	assert.ElementsMatch(t, []string{"café", "cafe"}, root.Predict("caf"))
	assert.Equal(t, []string{"café"}, root.Predict("café"))
	assert.ElementsMatch(t, []string{"日本", "日本語"}, root.Predict("日"))
	assert.Equal(t, []string{"😀👍"}, root.Predict("😀"))
	assert.Equal(t, []string{"naïve"}, root.Predict("naï"))
	assert.Equal(t, []string{"Ærøskøbing"}, root.PredictByKey("ærø", FoldCase))

	assert.False(t, root.Search("日本語x"))
	assert.False(t, root.Search("caf\xc3"), "truncated codepoint must not match")
	assert.Empty(t, root.Predict("\xf0"), "lone lead byte must not match")
	assert.Empty(t, root.Predict("日x"))
}

func TestUnicodeNodePerCodepoint(t *testing.T) {
	// é is two bytes, 😀 four; each must be one node
	root := build("é😀")
	assert.Equal(t, 3, root.NodeCount())
	assert.Equal(t, []string{"é😀"}, root.Predict("é"))
}

func TestWalkSkipAll(t *testing.T) {
	root := build("a", "ab", "abc", "abd")

	var seen []string
	err := root.Walk("a", nil, func(word string) error {
		seen = append(seen, word)
		if len(seen) == 2 {
			return SkipAll
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "ab"}, seen)
}

func TestWalkError(t *testing.T) {
	root := build("a", "ab")
	boom := errors.New("boom")

	err := root.Walk("", nil, func(string) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestWalkOrder(t *testing.T) {
	root := build("b", "a", "ab", "aa")

	var seen []string
	require.NoError(t, root.Walk("", nil, func(word string) error {
		seen = append(seen, word)
		return nil
	}))
	assert.Equal(t, []string{"b", "a", "ab", "aa"}, seen, "depth first, insertion order")
}

func TestFoldCase(t *testing.T) {
	tests := []struct {
		query, stored rune
		want          bool
	}{
		{'a', 'a', true},
		{'A', 'a', true},
		{'a', 'A', true},
		{'z', 'Z', true},
		{'a', 'b', false},
		{'1', '1', true},
		{'@', '`', false},
		{'ä', 'Ä', true},
		{'É', 'é', true},
		{'\u212A', 'k', true}, // Kelvin sign
		{'Ж', 'ж', true},
		{'日', '日', true},
		{'日', '本', false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FoldCase(tc.query, tc.stored), "FoldCase(%q, %q)", tc.query, tc.stored)
	}
}

// TestPredictAgainstPatricia cross-checks prefix enumeration against an
// independent byte-keyed patricia trie over random Unicode words.
func TestPredictAgainstPatricia(t *testing.T) {
	alphabet := []rune("abcé中😀")
	rng := rand.New(rand.NewSource(42))
	randomWord := func() string {
		n := 1 + rng.Intn(6)
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		return sb.String()
	}

	root := New()
	oracle := patricia.NewTrie()
	var words []string
	for i := 0; i < 500; i++ {
		w := randomWord()
		words = append(words, w)
		root.AddWord(w)
		oracle.Set(patricia.Prefix(w), true)
	}

	for _, w := range words {
		require.True(t, root.Search(w), "round trip %q", w)
	}

	for i := 0; i < 200; i++ {
		q := randomWord()
		var want []string
		err := oracle.VisitSubtree(patricia.Prefix(q), func(p patricia.Prefix, _ patricia.Item) error {
			want = append(want, string(p))
			return nil
		})
		require.NoError(t, err)

		got := root.Predict(q)
		assert.ElementsMatch(t, want, got, "Predict(%q)", q)
		for _, w := range got {
			assert.True(t, strings.HasPrefix(w, q), "%q does not start with %q", w, q)
		}
		assert.Equal(t, oracle.Get(patricia.Prefix(q)) != nil, root.Search(q), "Search(%q)", q)
	}
}
