/*
Package config manages the TOML config for wordtrie.

A missing file is created with defaults. A file that decodes but holds the
wrong types is recovered section by section, keeping every value that still
parses. Anything worse falls back to the built-in defaults.

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	case_insensitive = false

	[dict]
	max_words = 0
	normalize = true
	cache_size = 2048

	[cli]
	default_limit = 24
	default_min_len = 1
	default_max_len = 24
	default_no_filter = false
*/
package config

import (
	"path/filepath"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit        int  `toml:"max_limit"`
	MinPrefix       int  `toml:"min_prefix"`
	MaxPrefix       int  `toml:"max_prefix"`
	CaseInsensitive bool `toml:"case_insensitive"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	MaxWords  int  `toml:"max_words"`
	Normalize bool `toml:"normalize"`
	CacheSize int  `toml:"cache_size"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultMinLen   int  `toml:"default_min_len"`
	DefaultMaxLen   int  `toml:"default_max_len"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:        64,
			MinPrefix:       1,
			MaxPrefix:       60,
			CaseInsensitive: false,
		},
		Dict: DictConfig{
			MaxWords:  0,
			Normalize: true,
			CacheSize: 2048,
		},
		CLI: CliConfig{
			DefaultLimit:    24,
			DefaultMinLen:   1,
			DefaultMaxLen:   24,
			DefaultNoFilter: false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse keeps every well-typed value of a file whose typed decode failed
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	config.Validate()
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractBool(data, "case_insensitive"); ok {
		server.CaseInsensitive = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractBool(data, "normalize"); ok {
		dict.Normalize = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		dict.CacheSize = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_min_len"); ok {
		cli.DefaultMinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "default_max_len"); ok {
		cli.DefaultMaxLen = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// Validate replaces out of range values with their defaults.
func (c *Config) Validate() {
	defaults := DefaultConfig()

	if c.Server.MaxLimit < 1 {
		log.Warnf("server.max_limit %d out of range, using %d", c.Server.MaxLimit, defaults.Server.MaxLimit)
		c.Server.MaxLimit = defaults.Server.MaxLimit
	}
	if c.Server.MinPrefix < 0 {
		log.Warnf("server.min_prefix %d out of range, using %d", c.Server.MinPrefix, defaults.Server.MinPrefix)
		c.Server.MinPrefix = defaults.Server.MinPrefix
	}
	if c.Server.MaxPrefix < c.Server.MinPrefix {
		log.Warnf("server.max_prefix %d below min_prefix, using %d", c.Server.MaxPrefix, defaults.Server.MaxPrefix)
		c.Server.MaxPrefix = max(defaults.Server.MaxPrefix, c.Server.MinPrefix)
	}
	if c.Dict.MaxWords < 0 {
		log.Warnf("dict.max_words %d out of range, loading all words", c.Dict.MaxWords)
		c.Dict.MaxWords = 0
	}
	if c.CLI.DefaultLimit < 1 {
		c.CLI.DefaultLimit = defaults.CLI.DefaultLimit
	}
	if c.CLI.DefaultMinLen < 0 {
		c.CLI.DefaultMinLen = defaults.CLI.DefaultMinLen
	}
	if c.CLI.DefaultMaxLen < c.CLI.DefaultMinLen {
		c.CLI.DefaultMaxLen = max(defaults.CLI.DefaultMaxLen, c.CLI.DefaultMinLen)
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server values that are set and saves to file
func (c *Config) Update(configPath string, maxLimit, minPrefix, maxPrefix *int, caseInsensitive *bool) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if minPrefix != nil {
		server.MinPrefix = *minPrefix
	}
	if maxPrefix != nil {
		server.MaxPrefix = *maxPrefix
	}
	if caseInsensitive != nil {
		server.CaseInsensitive = *caseInsensitive
	}
	c.Validate()
	return SaveConfig(c, configPath)
}
