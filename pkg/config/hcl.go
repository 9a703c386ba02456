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
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/ctxmigrate/pkg/text"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// hclConfig is the HCL schema. Every attribute is optional and overlays Default().
type hclConfig struct {
	NamePrefix   *string  `hcl:"name_prefix,optional"`
	NameSuffixes []string `hcl:"name_suffixes,optional"`
	Commands     []string `hcl:"commands,optional"`

	Names *struct {
		LegacyDir     *string `hcl:"legacy_dir,optional"`
		LegacyUserDir *string `hcl:"legacy_user_dir,optional"`
		Context       *string `hcl:"context,optional"`
		ContextType   *string `hcl:"context_type,optional"`
		Generator     *string `hcl:"generator,optional"`
	} `hcl:"names,block"`

	Imports *struct {
		Context   *string  `hcl:"context,optional"`
		Generator *string  `hcl:"generator,optional"`
		Anchors   []string `hcl:"anchors,optional"`
	} `hcl:"imports,block"`

	DefaultProject *struct {
		ID                *string  `hcl:"id,optional"`
		Name              *string  `hcl:"name,optional"`
		MinecraftVersions []string `hcl:"minecraft_versions,optional"`
		Loaders           []string `hcl:"loaders,optional"`
	} `hcl:"default_project,block"`

	Replacements []struct {
		FromText       string  `hcl:"from_text"`
		ToText         string  `hcl:"to_text"`
		FileFilterGlob *string `hcl:"file_filter_glob,optional"`
	} `hcl:"replacement,block"`
}

// loadHCL loads a configuration from HCL data
func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := Default()
	set(&cfg.NamePrefix, raw.NamePrefix)
	if raw.NameSuffixes != nil {
		cfg.NameSuffixes = raw.NameSuffixes
	}
	if raw.Commands != nil {
		cfg.Commands = raw.Commands
	}

	if n := raw.Names; n != nil {
		set(&cfg.Names.LegacyDir, n.LegacyDir)
		set(&cfg.Names.LegacyUserDir, n.LegacyUserDir)
		set(&cfg.Names.Context, n.Context)
		set(&cfg.Names.ContextType, n.ContextType)
		set(&cfg.Names.Generator, n.Generator)
	}

	if im := raw.Imports; im != nil {
		set(&cfg.Imports.Context, im.Context)
		set(&cfg.Imports.Generator, im.Generator)
		if im.Anchors != nil {
			cfg.Imports.Anchors = im.Anchors
		}
	}

	if dp := raw.DefaultProject; dp != nil {
		set(&cfg.DefaultProject.ID, dp.ID)
		set(&cfg.DefaultProject.Name, dp.Name)
		if dp.MinecraftVersions != nil {
			cfg.DefaultProject.MinecraftVersions = dp.MinecraftVersions
		}
		if dp.Loaders != nil {
			cfg.DefaultProject.Loaders = dp.Loaders
		}
	}

	for _, r := range raw.Replacements {
		rule := text.ReplacementRule{FromText: r.FromText, ToText: r.ToText}
		set(&rule.FileFilterGlob, r.FileFilterGlob)
		cfg.Replacements = append(cfg.Replacements, rule)
	}

	return cfg, nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
