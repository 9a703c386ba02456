// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ctxmigrate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Names are the identifiers the rewrites match and emit
type Names struct {
	LegacyDir     string `json:"legacy_dir" yaml:"legacy_dir"`           // directory-handle field, e.g. testProjectDir
	LegacyUserDir string `json:"legacy_user_dir" yaml:"legacy_user_dir"` // captured working directory, e.g. originalUserDir
	Context       string `json:"context" yaml:"context"`                 // context-handle field
	ContextType   string `json:"context_type" yaml:"context_type"`       // fixture type
	Generator     string `json:"generator" yaml:"generator"`             // project generator type
}

// 📦 Imports are the import lines the import rewrite looks for and inserts
type Imports struct {
	Context   string   `json:"context" yaml:"context"`
	Generator string   `json:"generator" yaml:"generator"`
	Anchors   []string `json:"anchors" yaml:"anchors"` // tried in order when no generator import exists
}

// 🧱 DefaultProject holds the arguments of the emitted createDefaultProject call
type DefaultProject struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	MinecraftVersions []string `json:"minecraft_versions" yaml:"minecraft_versions"`
	Loaders           []string `json:"loaders" yaml:"loaders"`
}

// 📚 Config represents the complete rewrite configuration
type Config struct {
	Names          Names                  `json:"names" yaml:"names"`
	Imports        Imports                `json:"imports" yaml:"imports"`
	NamePrefix     string                 `json:"name_prefix" yaml:"name_prefix"`
	NameSuffixes   []string               `json:"name_suffixes" yaml:"name_suffixes"`
	Commands       []string               `json:"commands" yaml:"commands"`
	DefaultProject DefaultProject         `json:"default_project" yaml:"default_project"`
	Replacements   []text.ReplacementRule `json:"replacements,omitempty" yaml:"replacements,omitempty"`

	location string
}

// 🏭 Default returns the configuration matching the dropper test suite
func Default() *Config {
	return &Config{
		Names: Names{
			LegacyDir:     "testProjectDir",
			LegacyUserDir: "originalUserDir",
			Context:       "context",
			ContextType:   "TestProjectContext",
			Generator:     "ProjectGenerator",
		},
		Imports: Imports{
			Context:   "import dev.dropper.util.TestProjectContext",
			Generator: "import dev.dropper.generator.ProjectGenerator",
			Anchors: []string{
				"import dev.dropper.config.ModConfig",
				"import org.junit.jupiter.api.AfterEach",
			},
		},
		NamePrefix:   "test-",
		NameSuffixes: []string{"E2ETest", "IntegrationTest", "Test"},
		Commands: []string{
			"CreateItemCommand",
			"CreateBlockCommand",
			"ListItemsCommand",
			"ListBlocksCommand",
			"ListEntitiesCommand",
			"ListRecipesCommand",
			"ListAllCommand",
		},
		DefaultProject: DefaultProject{
			ID:                "testmod",
			Name:              "Test Mod",
			MinecraftVersions: []string{"1.20.1"},
			Loaders:           []string{"fabric", "forge"},
		},
	}
}

// Location returns the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// 🔍 Validate checks that the configuration can drive the rewrites
func Validate(ctx context.Context, cfg *Config) error {
	zerolog.Ctx(ctx).Debug().Str("location", cfg.location).Msg("validating config")

	idents := map[string]string{
		"names.legacy_dir":      cfg.Names.LegacyDir,
		"names.legacy_user_dir": cfg.Names.LegacyUserDir,
		"names.context":         cfg.Names.Context,
		"names.context_type":    cfg.Names.ContextType,
		"names.generator":       cfg.Names.Generator,
	}
	for field, v := range idents {
		if !identifier.MatchString(v) {
			return errors.Errorf("%s: %q is not an identifier", field, v)
		}
	}

	if cfg.Names.LegacyDir == cfg.Names.Context {
		return errors.Errorf("names.legacy_dir and names.context must differ")
	}
	if strings.Contains(cfg.Names.Context+".projectDir", cfg.Names.LegacyDir) {
		return errors.Errorf("names.legacy_dir %q must not occur in %s.projectDir", cfg.Names.LegacyDir, cfg.Names.Context)
	}

	for field, v := range map[string]string{
		"imports.context":   cfg.Imports.Context,
		"imports.generator": cfg.Imports.Generator,
	} {
		if !strings.HasPrefix(strings.TrimSpace(v), "import ") {
			return errors.Errorf("%s: %q is not an import line", field, v)
		}
	}
	for i, a := range cfg.Imports.Anchors {
		if strings.TrimSpace(a) == "" {
			return errors.Errorf("imports.anchors[%d] is empty", i)
		}
	}

	for i, s := range cfg.NameSuffixes {
		if s == "" {
			return errors.Errorf("name_suffixes[%d] is empty", i)
		}
	}

	for i, c := range cfg.Commands {
		if !identifier.MatchString(c) {
			return errors.Errorf("commands[%d]: %q is not an identifier", i, c)
		}
	}

	if cfg.DefaultProject.ID == "" {
		return errors.Errorf("default_project.id is required")
	}

	if err := text.NewSimpleTextReplacer().ValidateRules(cfg.Replacements); err != nil {
		return errors.Errorf("replacements: %w", err)
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s.projectDir (%s)", cfg.Names.LegacyDir, cfg.Names.Context, cfg.Names.ContextType)
}

// Hash returns a hash of the rewrite settings, used to tell whether recorded migrations
// were made with the same configuration
func (cfg *Config) Hash() string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
