// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Line prefixes that turn input into a command instead of a completion.
const (
	cmdAdd    = '+'
	cmdSearch = '='
	cmdFold   = '~'
	cmdStats  = ":stats"
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler processes user input, providing suggestions. Flags control
// the prefix length bounds, the suggestion limit, input filtering and
// case-insensitive matching.
type InputHandler struct {
	completer       suggest.ICompleter
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
	fold            bool
	in              io.Reader
	out             *log.Logger
}

// NewInputHandler creates a handler reading stdin and printing to stderr
func NewInputHandler(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter, fold bool) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		fold:            fold,
		in:              os.Stdin,
		out:             logger.New(""),
	}
}

// WithIO redirects input and output, mostly for tests.
func (h *InputHandler) WithIO(in io.Reader, out io.Writer) *InputHandler {
	h.in = in
	h.out = logger.NewWithWriter(out, "")
	return h
}

// Start runs the prompt loop until the input ends.
//
//	alex      complete the prefix
//	~alex     complete ignoring case
//	+alex     add a word
//	=alex     look up a whole word
//	:stats    show dictionary stats
func (h *InputHandler) Start() error {
	h.out.Print("WordTrie CLI [BETA]")
	h.out.Print("type a prefix and press Enter, +word adds, =word looks up, ~prefix ignores case (Ctrl+C to exit):")
	reader := bufio.NewReader(h.in)

	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	if line == cmdStats {
		h.printStats()
		return
	}

	switch line[0] {
	case cmdAdd:
		h.handleAdd(strings.TrimSpace(line[1:]))
	case cmdSearch:
		h.handleSearch(strings.TrimSpace(line[1:]))
	case cmdFold:
		h.handleComplete(strings.TrimSpace(line[1:]), true)
	default:
		h.handleComplete(line, h.fold)
	}
}

func (h *InputHandler) handleAdd(word string) {
	if word == "" {
		h.out.Error("Nothing to add")
		return
	}
	if !utf8.ValidString(word) {
		h.out.Errorf("Not valid UTF-8: %q", word)
		return
	}
	if h.completer.Contains(word) {
		h.out.Printf("'%s' is already in the dictionary", word)
		return
	}
	h.completer.AddWord(word)
	h.out.Printf("Added '%s'", word)
}

func (h *InputHandler) handleSearch(word string) {
	if h.completer.Contains(word) {
		h.out.Printf("'%s' found", word)
		return
	}
	h.out.Printf("'%s' not found", word)
}

// handleComplete validates the prefix's length in codepoints and its
// content, then prints the completer's suggestions.
func (h *InputHandler) handleComplete(prefix string, fold bool) {
	n := utf8.RuneCountInString(prefix)
	if n < h.minPrefixLength {
		h.out.Errorf("Prefix too short: '%s'", prefix)
		return
	}
	if n > h.maxPrefixLength {
		h.out.Errorf("Prefix too long: '%s'", prefix)
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter && !utils.IsValidInput(prefix) {
		h.out.Warnf("No suggestions found for prefix: '%s' (filtered out)", prefix)
		return
	}

	start := time.Now()
	var suggestions []suggest.Suggestion
	if fold {
		suggestions = h.completer.CompleteFold(prefix, h.suggestLimit)
	} else {
		suggestions = h.completer.Complete(prefix, h.suggestLimit)
	}
	h.out.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(suggestions) == 0 {
		h.out.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	h.out.Printf("Found %d suggestions for prefix '%s':", len(suggestions), prefix)
	for i, s := range suggestions {
		mark := ""
		if s.Corrected {
			mark = " *"
		}
		h.out.Printf("%2d. %s%s", i+1, wordStyle.Render(s.Word), mark)
	}
}

func (h *InputHandler) printStats() {
	stats := h.completer.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.out.Printf("%-16s %12s", k, utils.FormatWithCommas(stats[k]))
	}
}
