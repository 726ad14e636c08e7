// Package dictionary reads word lists from disk into anything that accepts
// words, typically a trie or a completer.
package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
)

// Inserter receives loaded words.
type Inserter interface {
	AddWord(word string)
}

// ChunkInfo describes a dictionary file found on disk
type ChunkInfo struct {
	ID       int
	Filename string
	Format   FileFormat
	// WordCount is read from the chunk header; -1 for text files.
	WordCount int
}

// LoaderStats provides statistics about the loading process
type LoaderStats struct {
	LoadedWords  int
	LoadedFiles  int
	SkippedFiles int
	SkippedLines int
	Truncated    bool
}

// Loader loads every dictionary file in a directory, up to maxWords words.
type Loader struct {
	dirPath  string
	maxWords int
	stats    LoaderStats
}

// NewLoader creates a loader for dirPath. maxWords of 0 loads everything.
func NewLoader(dirPath string, maxWords int) *Loader {
	return &Loader{
		dirPath:  dirPath,
		maxWords: maxWords,
	}
}

// GetAvailable lists chunk files ordered by ID, followed by text files
// ordered by name.
func (l *Loader) GetAvailable() ([]ChunkInfo, error) {
	binFiles, err := filepath.Glob(filepath.Join(l.dirPath, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}
	txtFiles, err := filepath.Glob(filepath.Join(l.dirPath, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for text files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range binFiles {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			log.Debugf("Ignoring chunk file with bad id: %s", file)
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{ID: id, Filename: file, Format: FormatChunk, WordCount: wordCount})
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})

	sort.Strings(txtFiles)
	for i, file := range txtFiles {
		chunks = append(chunks, ChunkInfo{ID: i + 1, Filename: file, Format: FormatText, WordCount: -1})
	}
	return chunks, nil
}

// LoadDir loads every available file into dst in GetAvailable order. A file
// that fails to load is logged and skipped; LoadDir only fails when nothing
// could be loaded at all.
func (l *Loader) LoadDir(dst Inserter) (LoaderStats, error) {
	chunks, err := l.GetAvailable()
	if err != nil {
		return l.stats, err
	}
	if len(chunks) == 0 {
		return l.stats, fmt.Errorf("no dictionary files found in %s", l.dirPath)
	}
	log.Debugf("Found %d dictionary files", len(chunks))

	for _, chunk := range chunks {
		if l.remaining() == 0 {
			l.stats.Truncated = true
			log.Debugf("Word limit %d reached, skipping remaining files", l.maxWords)
			break
		}
		n, err := l.LoadFile(chunk.Filename, dst)
		if err != nil {
			log.Warnf("Failed to load %s: %v", chunk.Filename, err)
			l.stats.SkippedFiles++
			continue
		}
		log.Debugf("Loaded %d words from %s", n, chunk.Filename)
	}

	if l.stats.LoadedFiles == 0 {
		return l.stats, fmt.Errorf("none of the %d dictionary files in %s could be loaded", len(chunks), l.dirPath)
	}
	return l.stats, nil
}

// LoadFile loads a single chunk or text file into dst.
func (l *Loader) LoadFile(path string, dst Inserter) (int, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return 0, err
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var n, skipped int
	switch format {
	case FormatChunk:
		n, err = ReadChunk(file, dst, l.remaining())
	case FormatText:
		n, skipped, err = readText(file, dst, l.remaining())
	}
	l.stats.LoadedWords += n
	l.stats.SkippedLines += skipped
	if err != nil {
		return n, fmt.Errorf("failed to read %s: %w", path, err)
	}
	l.stats.LoadedFiles++
	return n, nil
}

func (l *Loader) Stats() LoaderStats {
	return l.stats
}

// remaining returns how many more words may be loaded, or -1 for no limit.
func (l *Loader) remaining() int {
	if l.maxWords <= 0 {
		return -1
	}
	return max(l.maxWords-l.stats.LoadedWords, 0)
}

// ReadChunk reads the binary chunk format into dst: an int32 word count,
// then per word a uint16 byte length, the UTF-8 bytes and a uint16 rank,
// all little endian. Ranks are skipped. A negative limit reads everything.
func ReadChunk(r io.Reader, dst Inserter, limit int) (int, error) {
	reader := bufio.NewReader(r)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return 0, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 || totalEntries > maxChunkWords {
		return 0, fmt.Errorf("invalid chunk word count %d", totalEntries)
	}

	count := 0
	for i := 0; i < int(totalEntries); i++ {
		if limit >= 0 && count >= limit {
			break
		}

		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			return count, fmt.Errorf("failed to read word length: %w", err)
		}
		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return count, fmt.Errorf("failed to read word: %w", err)
		}
		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return count, fmt.Errorf("failed to read rank: %w", err)
		}

		if wordLen == 0 || !utf8.Valid(wordBytes) {
			continue
		}
		dst.AddWord(string(wordBytes))
		count++
	}
	return count, nil
}

// ReadText reads one word per line into dst. Only the first whitespace
// separated field is used, so "word 1234" frequency lists load as is. Blank
// lines, '#' comments and lines that are not valid UTF-8 are skipped.
func ReadText(r io.Reader, dst Inserter, limit int) (int, error) {
	n, _, err := readText(r, dst, limit)
	return n, err
}

func readText(r io.Reader, dst Inserter, limit int) (count, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if limit >= 0 && count >= limit {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !utf8.ValidString(line) {
			skipped++
			continue
		}
		dst.AddWord(strings.Fields(line)[0])
		count++
	}
	return count, skipped, scanner.Err()
}

var errWordTooLong = errors.New("word exceeds 65535 bytes")

// WriteChunk writes words in the format read by ReadChunk, ranking them by
// their position in the slice.
func WriteChunk(w io.Writer, words []string) error {
	if len(words) > maxChunkWords {
		return fmt.Errorf("too many words for one chunk: %d", len(words))
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}

	ranks := utils.CreateRankList(len(words))
	for i, word := range words {
		if len(word) > math.MaxUint16 {
			return fmt.Errorf("%q...: %w", word[:16], errWordTooLong)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(word); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, ranks[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// chunkWordCount reads the word count from a chunk file's header
func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}
