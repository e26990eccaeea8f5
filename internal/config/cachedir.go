package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// DefaultCacheDir is used when neither the environment variable nor a config
// file names a cache directory.
const DefaultCacheDir = ".streammon-cache"

// configFile is the optional TOML file consulted for a cache_dir setting. It
// is resolved relative to the current working directory, mirroring the
// teacher's project-local config file convention.
const configFile = "streammon.toml"

// fileConfig mirrors the one section streammon.toml may carry.
type fileConfig struct {
	CacheDir string `toml:"cache_dir"`
}

// ResolveCacheDir determines the cache directory root, highest priority
// first:
//
//  1. STREAMMON_CACHE_DIR environment variable
//  2. cache_dir key in ./streammon.toml, if present
//  3. DefaultCacheDir
//
// It is layered with koanf the way the teacher layers its (larger) profile
// resolution: the default, the TOML value and the STREAMMON_CACHE_DIR value
// are each loaded through a confmap provider in that order, so each later
// load overrides the earlier ones and the precedence order lives in the
// load order.
func ResolveCacheDir() (string, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"cache_dir": DefaultCacheDir,
	}, "."), nil); err != nil {
		return "", err
	}

	if fc, err := loadFileConfig(configFile); err != nil {
		return "", err
	} else if fc != nil && fc.CacheDir != "" {
		if err := k.Load(confmap.Provider(map[string]interface{}{
			"cache_dir": fc.CacheDir,
		}, "."), nil); err != nil {
			return "", err
		}
	}

	if env := os.Getenv("STREAMMON_CACHE_DIR"); env != "" {
		if err := k.Load(confmap.Provider(map[string]interface{}{
			"cache_dir": env,
		}, "."), nil); err != nil {
			return "", err
		}
	}

	return k.String("cache_dir"), nil
}

// loadFileConfig parses path as TOML, returning nil (not an error) if the
// file does not exist — the config file is always optional.
func loadFileConfig(path string) (*fileConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// AbsCacheDir resolves the cache directory to an absolute path, for display
// and logging purposes.
func AbsCacheDir() (string, error) {
	dir, err := ResolveCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Abs(dir)
}
