package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CODEATLAS_*)
// 2. Config file (codeatlas.yml in the root directory)
// 3. Default values
//
// A .env file in the root directory is loaded into the environment first,
// so deployments can keep secrets like the Gemini key out of the config
// file.
func (l *loader) Load() (*Config, error) {
	// Ignore a missing .env; only an unreadable one matters.
	if err := godotenv.Load(filepath.Join(l.rootDir, ".env")); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	v := viper.New()
	v.SetConfigName("codeatlas")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.rootDir)

	v.SetEnvPrefix("CODEATLAS")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g. CODEATLAS_SERVER_PORT)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	v.BindEnv("server.port")
	v.BindEnv("server.debug")

	v.BindEnv("acquire.temp_repo_dir")

	v.BindEnv("analysis.max_file_size_bytes")
	v.BindEnv("analysis.workers")
	v.BindEnv("analysis.cycle_algorithm")

	v.BindEnv("parser.external_procs")
	v.BindEnv("parser.external_timeout_seconds")
	v.BindEnv("parser.cache_capacity")

	v.BindEnv("docgen.api_key")
	v.BindEnv("docgen.model_advanced")
	v.BindEnv("docgen.model_lite")
	v.BindEnv("docgen.max_concurrent")

	v.BindEnv("history.path")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - defaults + env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.debug", defaults.Server.Debug)

	v.SetDefault("acquire.temp_repo_dir", defaults.Acquire.TempRepoDir)

	v.SetDefault("analysis.ignore", defaults.Analysis.IgnorePatterns)
	v.SetDefault("analysis.extensions", defaults.Analysis.Extensions)
	v.SetDefault("analysis.max_file_size_bytes", defaults.Analysis.MaxFileSizeBytes)
	v.SetDefault("analysis.workers", defaults.Analysis.Workers)
	v.SetDefault("analysis.cycle_algorithm", defaults.Analysis.CycleAlgorithm)

	v.SetDefault("parser.external_command", defaults.Parser.ExternalCommand)
	v.SetDefault("parser.external_procs", defaults.Parser.ExternalProcs)
	v.SetDefault("parser.external_timeout_seconds", defaults.Parser.ExternalTimeout)
	v.SetDefault("parser.cache_capacity", defaults.Parser.CacheCapacity)

	v.SetDefault("docgen.api_key", defaults.Docgen.APIKey)
	v.SetDefault("docgen.model_advanced", defaults.Docgen.ModelAdvanced)
	v.SetDefault("docgen.model_lite", defaults.Docgen.ModelLite)
	v.SetDefault("docgen.max_concurrent", defaults.Docgen.MaxConcurrent)

	v.SetDefault("history.path", defaults.History.Path)
}

// LoadConfig loads configuration using the current working directory as
// the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
