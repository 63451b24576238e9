// Package config provides configuration management for the price machine.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

// File discovery policies.
const (
	MatchBySubstringInName = "substringInName"
	MatchByExtensionOnly   = "extensionOnly"
)

// Report formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// DefaultPath is consulted when no -config flag is given.
const DefaultPath = "configs/pricemachine.yaml"

// Configuration validation errors.
var (
	ErrMissingIngestDir     = errors.New("ingest.dir is required")
	ErrInvalidMatchBy       = errors.New("ingest.match_by must be 'substringInName' or 'extensionOnly'")
	ErrMissingNameSubstring = errors.New("ingest.name_substring is required for substringInName matching")
	ErrMissingExtension     = errors.New("ingest.extension is required")
	ErrInvalidDelimiter     = errors.New("ingest.delimiter must be a single character")
	ErrUnknownEncoding      = errors.New("unknown encoding")
	ErrMissingReportPath    = errors.New("report.path is required when the report is enabled")
	ErrInvalidReportFormat  = errors.New("report.format must be 'html' or 'markdown'")
	ErrNoExitPhrases        = errors.New("search.exit_phrases must not be empty")
	ErrInvalidNameWidth     = errors.New("search.max_name_width must be non-negative")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete price machine configuration.
type Config struct {
	Ingest  IngestConfig  `yaml:"ingest"`
	Report  ReportConfig  `yaml:"report"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// IngestConfig controls file discovery and decoding.
type IngestConfig struct {
	Dir              string `yaml:"dir"`
	MatchBy          string `yaml:"match_by"`
	NameSubstring    string `yaml:"name_substring"`
	Extension        string `yaml:"extension"`
	Delimiter        string `yaml:"delimiter"`
	Encoding         string `yaml:"encoding"`
	FallbackEncoding string `yaml:"fallback_encoding"`
}

// ReportConfig controls the static report.
type ReportConfig struct {
	Path     string `yaml:"path"`
	Format   string `yaml:"format"`
	Encoding string `yaml:"encoding"`
	Title    string `yaml:"title"`
	Enabled  bool   `yaml:"enabled"`
	Sign     bool   `yaml:"sign"`
}

// SearchConfig controls the interactive search shell.
type SearchConfig struct {
	Prompt       string   `yaml:"prompt"`
	ExitPhrases  []string `yaml:"exit_phrases"`
	MaxNameWidth int      `yaml:"max_name_width"`
	Enabled      bool     `yaml:"enabled"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			Dir:              "./prices",
			MatchBy:          MatchBySubstringInName,
			NameSubstring:    "price",
			Extension:        ".csv",
			Delimiter:        ",",
			FallbackEncoding: "windows-1251",
		},
		Report: ReportConfig{
			Enabled:  true,
			Path:     "output.html",
			Format:   FormatHTML,
			Encoding: "windows-1251",
			Title:    "Позиции продуктов",
			Sign:     true,
		},
		Search: SearchConfig{
			Enabled:     true,
			Prompt:      "Введите текст для поиска (или 'exit' для выхода): ",
			ExitPhrases: []string{"exit", "выход"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from YAML file on top of the defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ingest.Dir == "" {
		return ErrMissingIngestDir
	}

	switch c.Ingest.MatchBy {
	case MatchBySubstringInName:
		if c.Ingest.NameSubstring == "" {
			return ErrMissingNameSubstring
		}
	case MatchByExtensionOnly:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidMatchBy, c.Ingest.MatchBy)
	}

	if c.Ingest.Extension == "" {
		return ErrMissingExtension
	}

	if utf8.RuneCountInString(c.Ingest.Delimiter) != 1 || strings.ContainsAny(c.Ingest.Delimiter, "\"\r\n\uFFFD") {
		return fmt.Errorf("%w: got %q", ErrInvalidDelimiter, c.Ingest.Delimiter)
	}

	encodings := []struct {
		field string
		name  string
	}{
		{"ingest.encoding", c.Ingest.Encoding},
		{"ingest.fallback_encoding", c.Ingest.FallbackEncoding},
		{"report.encoding", c.Report.Encoding},
	}

	for _, enc := range encodings {
		if enc.name == "" {
			continue
		}

		if _, err := htmlindex.Get(enc.name); err != nil {
			return fmt.Errorf("%w: %s=%q", ErrUnknownEncoding, enc.field, enc.name)
		}
	}

	if c.Report.Enabled {
		if c.Report.Path == "" {
			return ErrMissingReportPath
		}

		if c.Report.Format != FormatHTML && c.Report.Format != FormatMarkdown {
			return ErrInvalidReportFormat
		}
	}

	if c.Search.Enabled && len(c.Search.ExitPhrases) == 0 {
		return ErrNoExitPhrases
	}

	if c.Search.MaxNameWidth < 0 {
		return ErrInvalidNameWidth
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	return nil
}

// DelimiterRune returns the CSV field separator.
func (ic *IngestConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(ic.Delimiter)
	if r == utf8.RuneError {
		return ','
	}

	return r
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Dir: %s, MatchBy: %s, Report: %s (%s, %s), Search: %t}",
		c.Ingest.Dir,
		c.Ingest.MatchBy,
		c.Report.Path,
		c.Report.Format,
		c.Report.Encoding,
		c.Search.Enabled,
	)
}
