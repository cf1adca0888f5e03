package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides, e.g. UNCLIP_STRATEGY.
const EnvPrefix = "UNCLIP"

// Config holds application configuration.
type Config struct {
	// Strategy is the default disambiguation strategy: "linguistic" or "heuristic".
	// Linguistic silently falls back to heuristic when no tagger is available.
	Strategy string `json:"strategy,omitempty"`

	// MaxInputChars is the maximum character count accepted for one expansion.
	MaxInputChars int `json:"max_input_chars,omitempty"`

	// BatchWorkers bounds how many files a batch expands concurrently.
	BatchWorkers int `json:"batch_workers,omitempty"`

	// Preprocess lowercases and strips punctuation before expansion.
	Preprocess bool `json:"preprocess,omitempty"`

	// AllowedPaths is an allowlist of directories for export and batch output.
	// Paths outside ~/.unclip/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for export and batch output.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// LogPretty switches logs to the human-readable console format.
	LogPretty bool `json:"log_pretty,omitempty"`
}

// envOverrides mirrors Config for environment variables. Pointer fields stay
// nil when the variable is unset, so only explicit settings override files.
type envOverrides struct {
	Strategy         *string  `envconfig:"STRATEGY"`
	MaxInputChars    *int     `envconfig:"MAX_INPUT_CHARS"`
	BatchWorkers     *int     `envconfig:"BATCH_WORKERS"`
	Preprocess       *bool    `envconfig:"PREPROCESS"`
	AllowedPaths     []string `envconfig:"ALLOWED_PATHS"`
	AllowUnsafePaths *bool    `envconfig:"ALLOW_UNSAFE_PATHS"`
	DBMaxOpenConns   *int     `envconfig:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns   *int     `envconfig:"DB_MAX_IDLE_CONNS"`
	DisabledTools    []string `envconfig:"DISABLED_TOOLS"`
	LogLevel         *string  `envconfig:"LOG_LEVEL"`
	LogPretty        *bool    `envconfig:"LOG_PRETTY"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Strategy:      "linguistic",
		MaxInputChars: 1_000_000,
		BatchWorkers:  4,
		LogLevel:      "info",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.unclip.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.unclip) and repo (.unclip) directories.
// Repo config is found by walking upward from startDir to find the nearest .unclip/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// LoadAll is LoadWithRepo followed by environment overrides. A .env file in
// the working directory is loaded first if present; variables already set in
// the environment win over it.
func LoadAll(globalDir, startDir string) (*Config, error) {
	cfg, err := LoadWithRepo(globalDir, startDir)
	if err != nil {
		return nil, err
	}

	_ = godotenv.Load()

	return ApplyEnv(cfg)
}

// ApplyEnv overlays UNCLIP_* environment variables onto cfg.
// Array variables are comma-separated and merged like repo config arrays.
func ApplyEnv(cfg *Config) (*Config, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	out := *cfg
	if env.Strategy != nil {
		out.Strategy = *env.Strategy
	}
	if env.MaxInputChars != nil {
		out.MaxInputChars = *env.MaxInputChars
	}
	if env.BatchWorkers != nil {
		out.BatchWorkers = *env.BatchWorkers
	}
	if env.Preprocess != nil {
		out.Preprocess = *env.Preprocess
	}
	if env.AllowUnsafePaths != nil {
		out.AllowUnsafePaths = *env.AllowUnsafePaths
	}
	if env.DBMaxOpenConns != nil {
		out.DBMaxOpenConns = *env.DBMaxOpenConns
	}
	if env.DBMaxIdleConns != nil {
		out.DBMaxIdleConns = *env.DBMaxIdleConns
	}
	if env.LogLevel != nil {
		out.LogLevel = *env.LogLevel
	}
	if env.LogPretty != nil {
		out.LogPretty = *env.LogPretty
	}
	out.AllowedPaths = mergeStringSlice(cfg.AllowedPaths, env.AllowedPaths)
	out.DisabledTools = mergeStringSlice(cfg.DisabledTools, env.DisabledTools)

	return &out, nil
}

// FindRepoConfig walks upward from startDir to find the nearest .unclip/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".unclip", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.Strategy = firstString(overlay.Strategy, base.Strategy)
	result.LogLevel = firstString(overlay.LogLevel, base.LogLevel)
	result.MaxInputChars = firstInt(overlay.MaxInputChars, base.MaxInputChars)
	result.BatchWorkers = firstInt(overlay.BatchWorkers, base.BatchWorkers)
	result.DBMaxOpenConns = firstInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns)
	result.DBMaxIdleConns = firstInt(overlay.DBMaxIdleConns, base.DBMaxIdleConns)

	// Booleans: overlay wins if true, else base
	result.Preprocess = base.Preprocess || overlay.Preprocess
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths
	result.LogPretty = base.LogPretty || overlay.LogPretty

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func firstString(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func firstInt(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, list := range [][]string{a, b} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s != "" && !seen[s] {
				seen[s] = true
				result = append(result, s)
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
