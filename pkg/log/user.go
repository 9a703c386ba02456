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

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback outside the per-file lines: config
// problems, command failures, drifted outputs and state notices
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎨 FileChangeType represents the outcome for one file
type FileChangeType int

const (
	FileMigrated FileChangeType = iota
	FileCreated
	FileUnchanged
	FileDrifted // recorded output edited since it was written
	FileError
)

// 🖼️ FileChange represents the outcome for one file
type FileChange struct {
	Type        FileChangeType
	Path        string
	Description string
	Error       error
}

// 🎯 NewUserLogger creates a new user logger writing to out
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) printer(p pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return p.WithPrefix(pterm.Prefix{Text: prefix, Style: p.Prefix.Style}).WithWriter(u.out)
}

// 📝 LogFileChange logs a file outcome with a matching prefix
func (u *UserLogger) LogFileChange(change FileChange) {
	relPath := filepath.Base(change.Path)

	var action string
	var printer *pterm.PrefixPrinter
	switch change.Type {
	case FileMigrated:
		action = "Migrated"
		printer = u.printer(pterm.Success, "🔄")
	case FileCreated:
		action = "Created"
		printer = u.printer(pterm.Success, "✨")
	case FileUnchanged:
		action = "Unchanged"
		printer = u.printer(pterm.Info, "⏭️")
	case FileDrifted:
		action = "Drifted"
		printer = u.printer(pterm.Warning, "⚠️")
	default:
		action = "Error"
		printer = u.printer(pterm.Error, "❌")
	}

	msg := fmt.Sprintf("%s %s", action, relPath)
	if change.Description != "" {
		msg += fmt.Sprintf(" (%s)", change.Description)
	}

	printer.Println(msg)
	if change.Error != nil {
		u.printer(pterm.Error, "ERROR").Println(change.Error)
		u.log.Error().Err(change.Error).Msg(msg)
		return
	}
	u.log.Info().Msg(msg)
}

// 📊 LogStateChange logs a notice about the run as a whole
func (u *UserLogger) LogStateChange(description string) {
	u.printer(pterm.Info, "📦").Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
	case err != nil:
		u.printer(pterm.Error, "❌").Println(description)
		u.printer(pterm.Error, "ERROR").Println(err)
		u.log.Error().Err(err).Msg(description)
	default:
		u.printer(pterm.Warning, "⚠️").Println(description)
		u.log.Warn().Msg(description)
	}
}
