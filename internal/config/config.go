// Package config loads and validates the static configuration for hegelpm:
// the discovery roots, traversal depth, excluded directory names, and the
// persistent cache location.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
)

const (
	defaultMaxDepth   = 6
	defaultCacheFile  = ".config/hegelpm/cache.bin"
	defaultListenAddr = "127.0.0.1:7117"
	defaultStaticDir  = "./static"
)

// Config is the immutable, validated configuration for a hegelpm process.
// It is constructed once at startup via Load and then shared read-only by
// every component that needs it (DiscoveryEngine, WorkerPool, HttpBackend).
type Config struct {
	// Roots is the ordered sequence of absolute directory paths to scan.
	Roots []string `yaml:"roots"`
	// MaxDepth bounds how many edges below a root the walker will descend.
	MaxDepth int `yaml:"max_depth"`
	// Exclusions is the set of directory basenames the walker prunes.
	Exclusions []string `yaml:"exclusions"`
	// CacheFile is the absolute path to the persistent cache index file.
	CacheFile string `yaml:"cache_file"`
	// ListenAddr is the loopback address the HTTP backend binds to.
	ListenAddr string `yaml:"listen_addr"`
	// StaticDir is the directory served for any path not matched by the API.
	StaticDir string `yaml:"static_dir"`
}

// Load reads YAML configuration from configPath, expanding environment
// variables first. A .env file in the working directory (if present) is
// loaded before expansion so that ${VAR}-style references can pick up
// local overrides, mirroring how operators configure other hegelpm
// deployments.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file not loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, hgerrors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, hgerrors.WrapError(err, hgerrors.CategoryConfig, "failed to read config file").Build()
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, hgerrors.WrapError(err, hgerrors.CategoryConfig, "failed to unmarshal config").Build()
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = defaultMaxDepth
	}
	if cfg.CacheFile == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.CacheFile = filepath.Join(home, defaultCacheFile)
		} else {
			cfg.CacheFile = defaultCacheFile
		}
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = defaultStaticDir
	}
	if cfg.Exclusions == nil {
		cfg.Exclusions = []string{".git", "node_modules", "vendor", ".cache"}
	}
}

// Validate checks every root exists and is readable, max_depth is positive,
// and the cache file's parent directory is writable. Validation failures
// are fatal configuration errors per the error taxonomy.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return hgerrors.ConfigError("at least one root is required").Build()
	}

	if c.MaxDepth < 1 {
		return hgerrors.ConfigError("max_depth must be >= 1").
			WithContext("max_depth", c.MaxDepth).Build()
	}

	for _, root := range c.Roots {
		if !filepath.IsAbs(root) {
			return hgerrors.ConfigError("root must be an absolute path").
				WithContext("root", root).Build()
		}
		info, err := os.Stat(root)
		if err != nil {
			return hgerrors.WrapError(err, hgerrors.CategoryConfig, "root is not accessible").
				WithContext("root", root).Build()
		}
		if !info.IsDir() {
			return hgerrors.ConfigError("root is not a directory").
				WithContext("root", root).Build()
		}
	}

	if !filepath.IsAbs(c.CacheFile) {
		return hgerrors.ConfigError("cache_file must be an absolute path").
			WithContext("cache_file", c.CacheFile).Build()
	}

	cacheDir := filepath.Dir(c.CacheFile)
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return hgerrors.WrapError(err, hgerrors.CategoryConfig, "cache directory is not writable").
			WithContext("cache_dir", cacheDir).Build()
	}

	probe, err := os.CreateTemp(cacheDir, ".hegelpm-write-check-*")
	if err != nil {
		return hgerrors.WrapError(err, hgerrors.CategoryConfig, "cache directory is not writable").
			WithContext("cache_dir", cacheDir).Build()
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	return nil
}

// ExclusionSet returns the configured exclusions as a lookup set.
func (c *Config) ExclusionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Exclusions))
	for _, name := range c.Exclusions {
		set[name] = struct{}{}
	}
	return set
}

// CacheDir returns the sibling "cache/" directory derived from CacheFile's
// parent, per the persistent cache layout.
func (c *Config) CacheDir() string {
	return filepath.Join(filepath.Dir(c.CacheFile), "cache")
}
