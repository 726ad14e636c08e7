// Package suggest wraps the trie in a thread-safe completer with a small
// cache of recent prefix lookups.
package suggest

// ICompleter defines the interface for word completion engines
type ICompleter interface {
	// Complete returns up to limit words starting with prefix, exact match only
	Complete(prefix string, limit int) []Suggestion

	// CompleteFold is Complete with case-insensitive prefix matching
	CompleteFold(prefix string, limit int) []Suggestion

	// AddWord inserts a word into the dictionary
	AddWord(word string)

	// Contains reports whether word was inserted as a whole word
	Contains(word string) bool

	// Stats returns statistics about the loaded dictionary
	Stats() map[string]int
}
