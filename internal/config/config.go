package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CaseFold selects how terms are normalized before they enter the
// vocabulary and before a query is matched against it.
type CaseFold string

const (
	// CaseFoldLower lowercases all terms (default).
	CaseFoldLower CaseFold = "lower"
	// CaseFoldNone preserves case exactly as tokenized.
	CaseFoldNone CaseFold = "none"
)

// TokenizerMode selects the word-run splitting behavior applied at
// build time.
type TokenizerMode string

const (
	// TokenizerModeProse extracts maximal letter/digit runs (default).
	TokenizerModeProse TokenizerMode = "prose"
	// TokenizerModeCode additionally splits camelCase/PascalCase runs,
	// for corpora that embed code samples.
	TokenizerModeCode TokenizerMode = "code"
)

// Config is the build/query configuration for a corpus directory.
// It mirrors the schema described in SPEC_FULL.md section 1.
//
// Only `staticdex index` loads a Config. It hands DefaultQueryLength,
// MaxFuzzyDistance, PostingCacheBlocks and ParallelFuzzyScan to
// searchidx.Build, which keeps them in SearchIndex.Opts; Encode does not
// write them into the container, and `staticdex search` opens an index
// with searchidx's built-in defaults.
type Config struct {
	Version int `yaml:"version" json:"version"`

	// DefaultQueryLength is the maximum accepted query length in runes
	// before an ERR_301_QUERY_TOO_LONG query error is raised.
	DefaultQueryLength int `yaml:"default_query_length" json:"default_query_length"`

	// DefaultResultLimit is validated as positive; no command reads it
	// (`staticdex search --limit` defaults to 20).
	DefaultResultLimit int `yaml:"default_result_limit" json:"default_result_limit"`

	// MaxFuzzyDistance caps the edit distance the fuzzy tier (T3) will
	// accept, independent of any per-query distance argument.
	MaxFuzzyDistance int `yaml:"max_fuzzy_distance" json:"max_fuzzy_distance"`

	// CaseFold selects term normalization mode.
	CaseFold CaseFold `yaml:"case_fold" json:"case_fold"`

	// TokenizerMode selects word-splitting behavior at build time.
	TokenizerMode TokenizerMode `yaml:"tokenizer_mode" json:"tokenizer_mode"`

	// BlockSize is validated as a positive power of two; the posting-list
	// encoder does not read it and always uses postings.BlockSize (64).
	BlockSize int `yaml:"block_size" json:"block_size"`

	// PostingCacheBlocks bounds the loader's LRU of decoded posting
	// lists (one entry per term).
	PostingCacheBlocks int `yaml:"posting_cache_blocks" json:"posting_cache_blocks"`

	// ParallelFuzzyScan enables the errgroup-based data-parallel T3
	// vocabulary scan for corpora above a useful size.
	ParallelFuzzyScan bool `yaml:"parallel_fuzzy_scan" json:"parallel_fuzzy_scan"`
}

// configFileNames are tried, in order, in a candidate project root.
var configFileNames = []string{".staticdex.yaml", ".staticdex.yml"}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version:            1,
		DefaultQueryLength: 256,
		DefaultResultLimit: 20,
		MaxFuzzyDistance:   2,
		CaseFold:           CaseFoldLower,
		TokenizerMode:      TokenizerModeProse,
		BlockSize:          64,
		PostingCacheBlocks: 4096,
		ParallelFuzzyScan:  false,
	}
}

// Load loads configuration for the corpus rooted at dir, applying
// defaults, then a project config file if present, then STATICDEX_*
// environment overrides (highest precedence).
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile attempts to load .staticdex.yaml or .staticdex.yml from dir.
func (c *Config) loadFromFile(dir string) error {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return c.loadYAML(path)
		}
	}
	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.DefaultQueryLength != 0 {
		c.DefaultQueryLength = other.DefaultQueryLength
	}
	if other.DefaultResultLimit != 0 {
		c.DefaultResultLimit = other.DefaultResultLimit
	}
	if other.MaxFuzzyDistance != 0 {
		c.MaxFuzzyDistance = other.MaxFuzzyDistance
	}
	if other.CaseFold != "" {
		c.CaseFold = other.CaseFold
	}
	if other.TokenizerMode != "" {
		c.TokenizerMode = other.TokenizerMode
	}
	if other.BlockSize != 0 {
		c.BlockSize = other.BlockSize
	}
	if other.PostingCacheBlocks != 0 {
		c.PostingCacheBlocks = other.PostingCacheBlocks
	}
	if other.ParallelFuzzyScan {
		c.ParallelFuzzyScan = other.ParallelFuzzyScan
	}
}

// applyEnvOverrides applies STATICDEX_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STATICDEX_DEFAULT_RESULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.DefaultResultLimit = n
		}
	}
	if v := os.Getenv("STATICDEX_MAX_FUZZY_DISTANCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.MaxFuzzyDistance = n
		}
	}
	if v := os.Getenv("STATICDEX_CASE_FOLD"); v != "" {
		c.CaseFold = CaseFold(strings.ToLower(v))
	}
	if v := os.Getenv("STATICDEX_TOKENIZER_MODE"); v != "" {
		c.TokenizerMode = TokenizerMode(strings.ToLower(v))
	}
	if v := os.Getenv("STATICDEX_PARALLEL_FUZZY_SCAN"); v != "" {
		c.ParallelFuzzyScan = v == "1" || strings.ToLower(v) == "true"
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.DefaultQueryLength <= 0 {
		return fmt.Errorf("default_query_length must be positive, got %d", c.DefaultQueryLength)
	}
	if c.DefaultResultLimit <= 0 {
		return fmt.Errorf("default_result_limit must be positive, got %d", c.DefaultResultLimit)
	}
	if c.MaxFuzzyDistance < 0 || c.MaxFuzzyDistance > 3 {
		return fmt.Errorf("max_fuzzy_distance must be between 0 and 3, got %d", c.MaxFuzzyDistance)
	}
	if c.CaseFold != CaseFoldLower && c.CaseFold != CaseFoldNone {
		return fmt.Errorf("case_fold must be 'lower' or 'none', got %q", c.CaseFold)
	}
	if c.TokenizerMode != TokenizerModeProse && c.TokenizerMode != TokenizerModeCode {
		return fmt.Errorf("tokenizer_mode must be 'prose' or 'code', got %q", c.TokenizerMode)
	}
	if c.BlockSize <= 0 || c.BlockSize&(c.BlockSize-1) != 0 {
		return fmt.Errorf("block_size must be a positive power of two, got %d", c.BlockSize)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// FindProjectRoot finds the corpus root directory by walking up from
// startDir looking for a .git directory or a .staticdex.yaml/.yml file.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if dirExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}
		for _, name := range configFileNames {
			if fileExists(filepath.Join(currentDir, name)) {
				return currentDir, nil
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
