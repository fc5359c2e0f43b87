package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/lineruler/internal/config/loader"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LINERULER_"

// Load builds a configuration from defaults, the file at path (skipped when
// path is empty) and LINERULER_* environment variables. The result is not
// validated: callers layer their own overrides on top and then call
// Validate.
func Load(path string) (Config, error) {
	return LoadWith(loader.DefaultFS(), path, loader.NewEnvLoader(EnvPrefix))
}

// LoadWith is Load with an explicit file system and environment source.
// env may be nil to skip environment overrides.
func LoadWith(fsys loader.FileSystem, path string, env loader.Loader) (Config, error) {
	cfg := Default()

	var data map[string]any
	if path != "" {
		l, err := fileLoader(fsys, path)
		if err != nil {
			return cfg, err
		}
		data, err = l.Load()
		if err != nil {
			return cfg, err
		}
		if data == nil {
			return cfg, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
	}

	if env != nil {
		overrides, err := env.Load()
		if err != nil {
			return cfg, fmt.Errorf("loading environment: %w", err)
		}
		data = loader.DeepMerge(data, overrides)
	}

	if err := cfg.apply(data); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// fileLoader picks a loader by file extension.
func fileLoader(fsys loader.FileSystem, path string) (loader.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loader.NewTOMLLoaderWithFS(fsys, path), nil
	case ".yaml", ".yml":
		return loader.NewYAMLLoaderWithFS(fsys, path), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// apply decodes a merged raw map over c. Keys absent from data keep their
// current values; unknown keys are ignored.
func (c *Config) apply(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	raw, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding merged config: %w", err)
	}
	if err := toml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}
