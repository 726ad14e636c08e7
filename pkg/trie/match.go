package trie

import (
	"strings"
	"unicode/utf8"
)

// Equivalence reports whether a query codepoint matches a stored one.
// The first argument always comes from the query, the second from the trie.
type Equivalence func(query, stored rune) bool

// Exact is the default Equivalence: strict codepoint equality.
func Exact(query, stored rune) bool {
	return query == stored
}

// FoldCase matches codepoints case-insensitively.
func FoldCase(query, stored rune) bool {
	if query == stored {
		return true
	}

	// ASCII first
	if query < utf8.RuneSelf && stored < utf8.RuneSelf {
		if 'A' <= query && query <= 'Z' {
			query += 'a' - 'A'
		}
		if 'A' <= stored && stored <= 'Z' {
			stored += 'a' - 'A'
		}
		return query == stored
	}

	return strings.EqualFold(string(query), string(stored))
}

// orExact falls back to Exact for a nil Equivalence.
func orExact(eq Equivalence) Equivalence {
	if eq == nil {
		return Exact
	}
	return eq
}
