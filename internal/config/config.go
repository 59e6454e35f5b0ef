// Package config loads the analyzer configuration from file, environment,
// and flags into one immutable value threaded through constructors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/atlasview/codeatlas/internal/guard"
)

// Config is the resolved configuration for one invocation. It is built
// once at startup and never mutated afterwards.
type Config struct {
	Limits    guard.Limits
	Excludes  []string
	OutputDir string
	CacheDir  string
	NoCache   bool
	Format    string
	Verbose   bool
}

// Load reads .codeatlas.yaml (explicit path, project dir, then home),
// applies CODEATLAS_* environment overrides, and fills defaults for
// everything unset.
func Load(cfgFile string) (Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".codeatlas")
	}

	v.SetEnvPrefix("CODEATLAS")
	v.AutomaticEnv()

	limits := guard.DefaultLimits()
	v.SetDefault("limits.max_file_size_mb", limits.MaxFileSizeMB)
	v.SetDefault("limits.max_walk_file_size_mb", limits.MaxWalkFileSizeMB)
	v.SetDefault("limits.max_depth", limits.MaxDepth)
	v.SetDefault("limits.max_nodes", limits.MaxNodes)
	v.SetDefault("limits.max_memory_mb", limits.MaxMemoryMB)
	v.SetDefault("limits.max_files", limits.MaxFiles)
	v.SetDefault("limits.parse_timeout", limits.ParseTimeout.String())
	v.SetDefault("limits.regex_timeout", limits.RegexTimeout.String())
	v.SetDefault("output_dir", "output")
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("format", "mermaid")

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return Config{}, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		// A missing config file in the search path is fine; a malformed
		// one is a configuration error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		Limits: guard.Limits{
			MaxFileSizeMB:     v.GetInt("limits.max_file_size_mb"),
			MaxWalkFileSizeMB: v.GetInt("limits.max_walk_file_size_mb"),
			MaxDepth:          v.GetInt("limits.max_depth"),
			MaxNodes:          v.GetInt("limits.max_nodes"),
			MaxMemoryMB:       v.GetInt("limits.max_memory_mb"),
			MaxFiles:          v.GetInt("limits.max_files"),
			ParseTimeout:      v.GetDuration("limits.parse_timeout"),
			RegexTimeout:      v.GetDuration("limits.regex_timeout"),
			MaxContentLen:     limits.MaxContentLen,
		},
		Excludes:  v.GetStringSlice("excludes"),
		OutputDir: v.GetString("output_dir"),
		CacheDir:  v.GetString("cache_dir"),
		NoCache:   v.GetBool("no_cache"),
		Format:    v.GetString("format"),
		Verbose:   v.GetBool("verbose"),
	}
	if cfg.Limits.ParseTimeout <= 0 {
		cfg.Limits.ParseTimeout = limits.ParseTimeout
	}
	if cfg.Limits.RegexTimeout <= 0 {
		cfg.Limits.RegexTimeout = limits.RegexTimeout
	}
	return cfg, nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "codeatlas")
	}
	return filepath.Join(os.TempDir(), "codeatlas-cache")
}

// Hours in an entry's life are fixed; exposed for display only.
const CacheTTL = 24 * time.Hour
