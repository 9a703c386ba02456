package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads a configuration file from the given path. Values missing from the
// file keep their defaults.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .ctxmigrate will try both YAML and HCL formats
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var cfg *Config

	switch {
	case ext == ".ctxmigrate" || filepath.Base(path) == ".ctxmigrate":
		var yamlErr error
		cfg, yamlErr = loadYAML(data)
		if yamlErr != nil {
			cfg, err = loadHCL(data, path)
			if err != nil {
				return nil, errors.Errorf("failed to parse %s as YAML (%v) or HCL: %w", path, yamlErr, err)
			}
		}
	case ext == ".json":
		cfg, err = loadJSON(data)
	case ext == ".yaml" || ext == ".yml":
		cfg, err = loadYAML(data)
	case ext == ".hcl":
		cfg, err = loadHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	cfg.location = path
	if err := Validate(ctx, cfg); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadJSON loads a configuration from JSON data
func loadJSON(data []byte) (*Config, error) {
	cfg := Default()
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return cfg, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return cfg, nil
}

// configNames are the files Discover looks for, in order
var configNames = []string{
	".ctxmigrate",
	".ctxmigrate.hcl",
	".ctxmigrate.yaml",
	".ctxmigrate.yml",
	".ctxmigrate.json",
}

// 🔍 Discover loads the first config file found in dir, or the defaults when there is none
func Discover(ctx context.Context, dir string) (*Config, error) {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			continue
		}
		return LoadConfig(ctx, path)
	}
	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file found, using defaults")
	return Default(), nil
}
