/*
Package server implements msgpack IPC for word completion over stdin/stdout.

Clients write msgpack maps back to back on stdin and read one response map
per request from stdout. Logs go to stderr so stdout only ever carries
protocol messages. On start the server writes a status message:

	{"id": "", "status": "ready"}

Completion requests carry a prefix and an optional limit:

	{"id": "req_001", "p": "ame", "l": 24}

Responses list the matching words in lexicographic order with their 1-based
position as rank, and the lookup time in microseconds:

	{"id": "req_001", "s": [{"w": "amenity", "r": 1}, {"w": "america", "r": 2}], "c": 2, "t": 145}

Setting "f" matches the prefix case-insensitively; words found that way are
flagged with "c": true when their stored spelling differs from the prefix.

Other actions:

	{"id": "q1", "action": "search", "p": "america"}   -> {"id": "q1", "found": true}
	{"id": "q2", "action": "add", "words": ["amen"]}   -> {"id": "q2", "status": "ok", "added": 1}
	{"id": "q3", "action": "stats"}                    -> {"id": "q3", "stats": {...}}
	{"id": "q4", "action": "health"}                   -> {"id": "q4", "status": "ok"}

Prefixes and words must be valid UTF-8. Empty strings in "words" are
skipped and do not count as added.

A request that can't be decoded or served gets a CompletionError with an
HTTP like code, and the server keeps reading.
*/
package server

// Request is any client message. Action is empty for completions.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action,omitempty"`
	Prefix string   `msgpack:"p"`
	Limit  int      `msgpack:"l,omitempty"`
	Fold   bool     `msgpack:"f,omitempty"`
	Words  []string `msgpack:"words,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word      string `msgpack:"w"`
	Rank      uint16 `msgpack:"r"`
	Corrected bool   `msgpack:"c,omitempty"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// SearchResponse answers a whole word lookup
type SearchResponse struct {
	ID    string `msgpack:"id"`
	Found bool   `msgpack:"found"`
}

// AddResponse reports how many of the sent words were new
type AddResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Added  int    `msgpack:"added"`
}

// StatsResponse carries the completer statistics
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// StatusResponse is sent on start and for health checks
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

const (
	actionComplete = "complete"
	actionSearch   = "search"
	actionAdd      = "add"
	actionStats    = "stats"
	actionHealth   = "health"
)
