package trie

import "errors"

// rootValue is never a valid codepoint, so no query can match the root edge.
const rootValue rune = -1

// SkipAll can be returned by a WalkFunc to stop the walk without an error.
var SkipAll = errors.New("skip all remaining words")

// WalkFunc is called by Walk once for every matching word.
type WalkFunc func(word string) error

// Trie is a node of the prefix tree. The root node is the whole tree and
// represents the empty prefix.
type Trie struct {
	children    []*Trie
	isEndOfWord bool
	value       rune
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{value: rootValue}
}

// AddWord inserts word into the trie. Inserting the same word again is a
// no-op, and inserting "" marks the root itself as a word.
func (t *Trie) AddWord(word string) {
	node := t
	for _, r := range word {
		next := node.child(r)
		if next == nil {
			next = &Trie{value: r}
			node.children = append(node.children, next)
		}
		node = next
	}
	node.isEndOfWord = true
}

// Search reports whether query was inserted as a complete word.
func (t *Trie) Search(query string) bool {
	node := t
	for _, r := range query {
		if node = node.child(r); node == nil {
			return false
		}
	}
	return node.isEndOfWord
}

// SearchByKey reports whether some stored word matches query position by
// position under eq. A nil eq means Exact.
func (t *Trie) SearchByKey(query string, eq Equivalence) bool {
	for _, m := range t.subtrees(query, orExact(eq)) {
		if m.node.isEndOfWord {
			return true
		}
	}
	return false
}

// Predict returns every stored word that starts with query, query included
// when it was inserted itself. The result is empty, never nil, when nothing
// matches.
func (t *Trie) Predict(query string) []string {
	return t.PredictByKey(query, Exact)
}

// PredictByKey is Predict with a caller supplied Equivalence. Returned words
// carry the codepoints as they were stored, so a case-folded query yields
// the stored casing.
func (t *Trie) PredictByKey(query string, eq Equivalence) []string {
	words := []string{}
	_ = t.Walk(query, eq, func(word string) error {
		words = append(words, word)
		return nil
	})
	return words
}

// Walk calls fn for every stored word matching query under eq, depth first
// with children in insertion order. If fn returns SkipAll the walk stops and
// Walk returns nil; any other error stops the walk and is returned.
func (t *Trie) Walk(query string, eq Equivalence, fn WalkFunc) error {
	for _, m := range t.subtrees(query, orExact(eq)) {
		if err := m.node.walk(m.path, fn); err != nil {
			if errors.Is(err, SkipAll) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Len returns the number of stored words.
func (t *Trie) Len() int {
	n := 0
	if t.isEndOfWord {
		n++
	}
	for _, c := range t.children {
		n += c.Len()
	}
	return n
}

// NodeCount returns the number of nodes, root included.
func (t *Trie) NodeCount() int {
	n := 1
	for _, c := range t.children {
		n += c.NodeCount()
	}
	return n
}

func (t *Trie) child(r rune) *Trie {
	for _, c := range t.children {
		if c.value == r {
			return c
		}
	}
	return nil
}

// match is a node reached while localizing a query, together with the
// stored codepoints of the path that led to it.
type match struct {
	node *Trie
	path []rune
}

// subtrees consumes query one codepoint at a time and returns every node
// whose path matches it under eq. It returns nil as soon as some codepoint
// has no matching child anywhere on the frontier.
func (t *Trie) subtrees(query string, eq Equivalence) []match {
	frontier := []match{{node: t}}
	for _, q := range query {
		var next []match
		for _, m := range frontier {
			for _, c := range m.node.children {
				if !eq(q, c.value) {
					continue
				}
				path := make([]rune, len(m.path)+1)
				copy(path, m.path)
				path[len(m.path)] = c.value
				next = append(next, match{node: c, path: path})
			}
		}
		if len(next) == 0 {
			return nil
		}
		frontier = next
	}
	return frontier
}

// walk emits t's own word, if any, then descends into every child. prefix is
// reused as a scratch buffer; string() copies it before handing it out.
func (t *Trie) walk(prefix []rune, fn WalkFunc) error {
	if t.isEndOfWord {
		if err := fn(string(prefix)); err != nil {
			return err
		}
	}
	for _, c := range t.children {
		if err := c.walk(append(prefix, c.value), fn); err != nil {
			return err
		}
	}
	return nil
}
