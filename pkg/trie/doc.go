/*
Package trie implements a prefix tree over Unicode strings, used as the
in-memory index behind word completion.

Each node holds one codepoint. The path from the root to a node spells a
prefix, and a flag on the node marks whether that prefix was inserted as a
complete word. Words are always walked codepoint by codepoint, so accented
Latin, CJK or emoji behave exactly like ASCII.

# Usage

	t := trie.New()
	t.AddWord("alex")
	t.AddWord("Alexander")

	t.Search("alex")                        // true
	t.Search("ale")                         // false
	t.Predict("alex")                       // [alex]
	t.PredictByKey("alex", trie.FoldCase)   // [alex Alexander]

# Matching

Predict uses strict codepoint equality. PredictByKey takes an Equivalence
that decides whether a query codepoint matches a stored one, which is how
case-insensitive completion is done. Every matching branch is followed, and
the returned words keep the casing they were stored with.

A query that leaves the tree at any position matches nothing. Words that
only share a shorter prefix with the query are never returned.

# Concurrency

A Trie is not safe for concurrent mutation. Any number of readers may query
it while no AddWord is running; otherwise guard it with a lock, as
suggest.Completer does.
*/
package trie
