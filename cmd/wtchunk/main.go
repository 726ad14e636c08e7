// Copyright 2025 The WordTrie Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command wtchunk converts plain text word lists into the dict_NNNN.bin
// chunk files wordtrie loads. Words keep the order of the input, which is
// also the rank written to the chunk; repeated words are dropped.
//
//	wtchunk -out data/ -size 10000 words.txt more.txt
//	cat words.txt | wtchunk -out data/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

// collector keeps the first occurrence of every word in input order.
type collector struct {
	seen  *trie.Trie
	words []string
}

func (c *collector) AddWord(word string) {
	if c.seen.Search(word) {
		return
	}
	c.seen.AddWord(word)
	c.words = append(c.words, word)
}

func main() {
	outDir := flag.String("out", "data/", "Directory to write chunk files to")
	size := flag.Int("size", 10000, "Words per chunk")
	start := flag.Int("start", 1, "ID of the first chunk")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
	}
	if *size < 1 {
		log.Fatalf("Chunk size must be positive, got %d", *size)
	}

	c := &collector{seen: trie.New()}
	if flag.NArg() == 0 {
		if _, err := dictionary.ReadText(os.Stdin, c, -1); err != nil {
			log.Fatalf("Failed to read stdin: %v", err)
		}
	}
	for _, path := range flag.Args() {
		if err := readFile(path, c); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if len(c.words) == 0 {
		log.Fatal("No words to write")
	}

	if err := utils.EnsureDir(*outDir); err != nil {
		log.Fatalf("Failed to create %s: %v", *outDir, err)
	}

	id := *start
	for begin := 0; begin < len(c.words); begin += *size {
		end := min(begin+*size, len(c.words))
		path := filepath.Join(*outDir, fmt.Sprintf("dict_%04d.bin", id))
		if err := writeChunk(path, c.words[begin:end]); err != nil {
			log.Fatalf("%v", err)
		}
		log.Debugf("Wrote %d words to %s", end-begin, path)
		id++
	}
	log.Infof("Wrote %s words in %d chunks to %s", utils.FormatWithCommas(len(c.words)), id-*start, *outDir)
}

func readFile(path string, dst dictionary.Inserter) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	n, err := dictionary.ReadText(f, dst, -1)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	log.Debugf("Read %d lines from %s", n, path)
	return nil
}

func writeChunk(path string, words []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := dictionary.WriteChunk(f, words); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
