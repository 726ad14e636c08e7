package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultLimit is used when a completion request leaves the limit unset.
const DefaultLimit = 24

// configReloadInterval is the number of requests between config reloads.
const configReloadInterval = 100

// Server handles the IPC for word completions
type Server struct {
	completer    suggest.ICompleter
	config       *config.Config
	configPath   string
	reader       *bufio.Reader
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	requestCount int
	log          *log.Logger
}

// NewServer creates a completion server using stdin/stdout for IPC. An empty
// configPath disables config reloading.
func NewServer(completer suggest.ICompleter, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(completer, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(completer suggest.ICompleter, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	writer := bufio.NewWriter(w)
	return &Server{
		completer:  completer,
		config:     cfg,
		configPath: configPath,
		reader:     bufio.NewReader(r),
		writer:     writer,
		encoder:    msgpack.NewEncoder(writer),
		log:        logger.New("server"),
	}
}

// Start serves requests until the input ends. A clean EOF between messages
// returns nil; a stream that breaks mid message returns the read error.
func (s *Server) Start() error {
	s.log.Debug("Starting server")
	s.sendResponse(StatusResponse{Status: "ready"})

	dec := msgpack.NewDecoder(s.reader)
	for {
		if _, err := s.reader.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed, stopping server")
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return err
		}

		raw, err := dec.DecodeRaw()
		if err != nil {
			// the first byte arrived, so any EOF here cut a message short
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			s.log.Errorf("Reading request: %v", err)
			return err
		}

		s.requestCount++
		if s.requestCount%configReloadInterval == 0 {
			s.reloadConfig()
		}
		s.handleMessage(raw)
	}
}

// handleMessage decodes one raw msgpack value and dispatches it by action
func (s *Server) handleMessage(raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Warnf("Bad request: %v", err)
		s.sendError("", "invalid msgpack request", 400)
		return
	}

	switch req.Action {
	case "", actionComplete:
		s.handleComplete(req)
	case actionSearch:
		if !utf8.ValidString(req.Prefix) {
			s.sendError(req.ID, "prefix is not valid UTF-8", 400)
			return
		}
		s.sendResponse(SearchResponse{ID: req.ID, Found: s.completer.Contains(req.Prefix)})
	case actionAdd:
		s.handleAdd(req)
	case actionStats:
		s.sendResponse(StatsResponse{ID: req.ID, Stats: s.completer.Stats()})
	case actionHealth:
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

// handleComplete validates the prefix and limit, then answers with the
// matching words ranked by position.
func (s *Server) handleComplete(req Request) {
	if req.Prefix == "" {
		s.sendError(req.ID, "missing prefix", 400)
		return
	}
	if !utf8.ValidString(req.Prefix) {
		s.sendError(req.ID, "prefix is not valid UTF-8", 400)
		return
	}

	opts := s.config.Server
	n := utf8.RuneCountInString(req.Prefix)
	if n < opts.MinPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix must be at least %d characters", opts.MinPrefix), 400)
		return
	}
	if n > opts.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", opts.MaxPrefix), 400)
		return
	}

	limit := req.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	limit = min(limit, opts.MaxLimit)

	start := time.Now()
	var suggestions []suggest.Suggestion
	if req.Fold || opts.CaseInsensitive {
		suggestions = s.completer.CompleteFold(req.Prefix, limit)
	} else {
		suggestions = s.completer.Complete(req.Prefix, limit)
	}
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(suggestions))
	results := make([]CompletionSuggestion, len(suggestions))
	for i, sug := range suggestions {
		results[i] = CompletionSuggestion{
			Word:      sug.Word,
			Rank:      ranks[i],
			Corrected: sug.Corrected,
		}
	}

	s.log.Debugf("Completed '%s': %d results in %v", req.Prefix, len(results), elapsed)
	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: results,
		Count:       len(results),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleAdd(req Request) {
	if len(req.Words) == 0 {
		s.sendError(req.ID, "no words to add", 400)
		return
	}

	added := 0
	for _, word := range req.Words {
		if word == "" {
			continue
		}
		if !utf8.ValidString(word) {
			s.log.Warnf("Skipping word with invalid UTF-8: %q", word)
			continue
		}
		if s.completer.Contains(word) {
			continue
		}
		s.completer.AddWord(word)
		added++
	}
	s.sendResponse(AddResponse{ID: req.ID, Status: "ok", Added: added})
}

func (s *Server) reloadConfig() {
	if s.configPath == "" {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		s.log.Warnf("Failed to reload config: %v", err)
		return
	}
	s.config = cfg
	s.log.Debugf("Reloaded config after %d requests", s.requestCount)
}

// sendResponse encodes a single response and flushes it to the client
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		s.log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}
