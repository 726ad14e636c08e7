// Copyright 2025 The WordTrie Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the word completion server and CLI [DBG] application.

WordTrie keeps a dictionary in a Unicode prefix tree and answers prefix
queries with every stored word that extends them. It runs as a MessagePack
IPC server for editors and other tools, or as an interactive CLI for testing.

# Usage

Start the server with default settings:

	wordtrie

Use a custom data directory and enable debug mode:

	wordtrie -data /path/to/words -d

Run in CLI mode for interactive testing:

	wordtrie -c -limit 10 -prmin 2

The data directory holds chunked binary files named dict_0001.bin,
dict_0002.bin and so on, plain text word lists (*.txt), or both. Chunks load
first in ID order, then text files by name. Use wtchunk to turn a word list
into chunks.

# Configuration

Settings live in a TOML file in the user config dir (wordtrie/config.toml),
created with defaults on first run:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	case_insensitive = false

	[dict]
	max_words = 0
	normalize = true
	cache_size = 2048

Flags given on the command line win over the file. The server re-reads the
file every 100 requests.

# IPC Protocol

Requests and responses are MessagePack maps on stdin/stdout:

	{"id": "req1", "p": "hel", "l": 20}
	{"id": "req1", "s": [{"w": "hello", "r": 1}, {"w": "help", "r": 2}], "c": 2, "t": 145}

See package server for the other actions.

# Command Line Flags

	-data string
	    Directory containing dictionary files (default "data/")
	-config string
	    Config file path (default in the user config dir)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return in CLI mode
	-prmin int
	    Minimum prefix length in CLI mode
	-prmax int
	    Maximum prefix length in CLI mode
	-no-filter
	    Disable input filtering for debugging
	-words int
	    Maximum words to load (0 for all)
	-fold
	    Match prefixes case-insensitively
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordtrie/internal/cli"
	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/server"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordtrie"
	gh      = "https://github.com/bastiangx/wordtrie"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only wires packages together: config, completer, dictionary, then
// either the CLI or the IPC server.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "data/", "Directory containing the dictionary files")
	configFile := flag.String("config", "", "Config file path (default in the user config dir)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions (0 <= n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - shows all raw dictionary entries (numbers, symbols, etc)")
	wordLimit := flag.Int("words", defaultConfig.Dict.MaxWords, "Maximum number of words to load (use 0 for all words)")
	fold := flag.Bool("fold", defaultConfig.Server.CaseInsensitive, "Match prefixes case-insensitively")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver(AppName)
	if err != nil {
		log.Error("Either env is not set or system is not supported")
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	configPath := *configFile
	if configPath == "" {
		configPath = pathResolver.GetConfigPath("config.toml")
	} else {
		configPath = utils.GetAbsolutePath(configPath)
	}
	log.Debugf("Using config file: (%s)", configPath)

	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// flags set on the command line win over the config file
	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if !setFlags["limit"] {
		*limit = appConfig.CLI.DefaultLimit
	}
	if !setFlags["prmin"] {
		*minPrefix = appConfig.CLI.DefaultMinLen
	}
	if !setFlags["prmax"] {
		*maxPrefix = appConfig.CLI.DefaultMaxLen
	}
	if !setFlags["no-filter"] {
		*noFilter = appConfig.CLI.DefaultNoFilter
	}
	if !setFlags["words"] {
		*wordLimit = appConfig.Dict.MaxWords
	}
	if setFlags["fold"] {
		appConfig.Server.CaseInsensitive = *fold
	} else {
		*fold = appConfig.Server.CaseInsensitive
	}

	completer := suggest.NewCompleter(suggest.Options{
		CacheSize: appConfig.Dict.CacheSize,
		Normalize: appConfig.Dict.Normalize,
	})

	resolvedDataDir := loadDictionary(completer, pathResolver, *dataDir, *wordLimit, setFlags["data"])

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"noFilter", *noFilter,
			"fold", *fold)

		inputHandler := cli.NewInputHandler(completer, *minPrefix, *maxPrefix, *limit, *noFilter, *fold)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, appConfig, configPath)

	showStartupInfo(resolvedDataDir, completer.Stats()["totalWords"])

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// loadDictionary fills the completer from the resolved data dir. A missing
// default dir only warns; a dir given with -data that can't be loaded is fatal.
func loadDictionary(completer *suggest.Completer, pr *utils.PathResolver, dataDir string, maxWords int, explicit bool) string {
	if dataDir == "" {
		log.Warn("No data dir specified, running with empty dict...")
		return ""
	}

	resolved := pr.GetDataDir(dataDir)
	log.Debugf("Using data dir at: %s", resolved)

	if !utils.IsValidDataDir(resolved) {
		if explicit {
			log.Fatalf("No dictionary files in %s", resolved)
		}
		log.Warnf("No dictionary files in %s, running with empty dict...", resolved)
		return resolved
	}

	loader := dictionary.NewLoader(resolved, maxWords)
	stats, err := loader.LoadDir(completer)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}
	log.Debug("Dictionary loaded",
		"words", stats.LoadedWords,
		"files", stats.LoadedFiles,
		"skippedFiles", stats.SkippedFiles,
		"truncated", stats.Truncated)
	return resolved
}

func printVersion() {
	l := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ WordTrie ] Unicode prefix completions")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dataDir string, words int) {
	l := logger.NewWithConfig(AppName, log.InfoLevel, false, false, log.TextFormatter)

	banner := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Border(lipgloss.NormalBorder()).Render("WordTrie")
	fmt.Fprintln(os.Stderr, banner)
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("data dir: ( %s )", dataDir)
	l.Infof("words: %s", utils.FormatWithCommas(words))
	l.Info("status: ready")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")
}
