// Package config loads and validates the codeatlas configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the complete codeatlas configuration. It can be loaded from
// codeatlas.yml with environment variable overrides.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Acquire  AcquireConfig  `yaml:"acquire" mapstructure:"acquire"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Parser   ParserConfig   `yaml:"parser" mapstructure:"parser"`
	Docgen   DocgenConfig   `yaml:"docgen" mapstructure:"docgen"`
	History  HistoryConfig  `yaml:"history" mapstructure:"history"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port  int  `yaml:"port" mapstructure:"port"`
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// AcquireConfig configures repository acquisition.
type AcquireConfig struct {
	TempRepoDir string `yaml:"temp_repo_dir" mapstructure:"temp_repo_dir"` // where clones land
}

// AnalysisConfig configures discovery and the analysis pipeline.
type AnalysisConfig struct {
	IgnorePatterns   []string `yaml:"ignore" mapstructure:"ignore"`                             // glob patterns to skip
	Extensions       []string `yaml:"extensions" mapstructure:"extensions"`                     // supported-extension allowlist
	MaxFileSizeBytes int64    `yaml:"max_file_size_bytes" mapstructure:"max_file_size_bytes"`   // per-file size threshold
	Workers          int      `yaml:"workers" mapstructure:"workers"`                           // parse concurrency; 0 = NumCPU
	CycleAlgorithm   string   `yaml:"cycle_algorithm" mapstructure:"cycle_algorithm"`           // "dfs" or "scc"
}

// ParserConfig configures the parser backends.
type ParserConfig struct {
	ExternalCommand []string `yaml:"external_command" mapstructure:"external_command"` // JS/TS subprocess parser; empty = native grammar
	ExternalProcs   int64    `yaml:"external_procs" mapstructure:"external_procs"`     // max simultaneous subprocesses
	ExternalTimeout int      `yaml:"external_timeout_seconds" mapstructure:"external_timeout_seconds"`
	CacheCapacity   int      `yaml:"cache_capacity" mapstructure:"cache_capacity"` // parse-result cache entries; 0 disables
}

// DocgenConfig configures LLM documentation enrichment. Enrichment is
// disabled when APIKey is empty.
type DocgenConfig struct {
	APIKey        string `yaml:"api_key" mapstructure:"api_key"`
	ModelAdvanced string `yaml:"model_advanced" mapstructure:"model_advanced"`
	ModelLite     string `yaml:"model_lite" mapstructure:"model_lite"`
	MaxConcurrent int64  `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// HistoryConfig configures the analysis history store.
type HistoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:  8000,
			Debug: false,
		},
		Acquire: AcquireConfig{
			TempRepoDir: filepath.Join(os.TempDir(), "codeatlas-repos"),
		},
		Analysis: AnalysisConfig{
			IgnorePatterns:   nil, // empty means the discovery defaults
			Extensions:       nil,
			MaxFileSizeBytes: 500000,
			Workers:          0,
			CycleAlgorithm:   "dfs",
		},
		Parser: ParserConfig{
			ExternalCommand: nil,
			ExternalProcs:   4,
			ExternalTimeout: 30,
			CacheCapacity:   10000,
		},
		Docgen: DocgenConfig{
			ModelAdvanced: "gemini-2.5-flash",
			ModelLite:     "gemini-2.5-flash-lite",
			MaxConcurrent: 5,
		},
		History: HistoryConfig{
			Path: defaultHistoryPath(),
		},
	}
}

// Validate checks a loaded configuration for inconsistencies.
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Analysis.MaxFileSizeBytes < 0 {
		return fmt.Errorf("analysis.max_file_size_bytes must not be negative")
	}
	if alg := cfg.Analysis.CycleAlgorithm; alg != "" && alg != "dfs" && alg != "scc" {
		return fmt.Errorf("analysis.cycle_algorithm must be \"dfs\" or \"scc\", got %q", alg)
	}
	if cfg.Parser.ExternalProcs < 1 {
		return fmt.Errorf("parser.external_procs must be at least 1")
	}
	if cfg.Docgen.MaxConcurrent < 1 {
		return fmt.Errorf("docgen.max_concurrent must be at least 1")
	}
	return nil
}

func defaultHistoryPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "codeatlas", "history.db")
	}
	return filepath.Join(configDir, "codeatlas", "history.db")
}
