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
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent     = 4  // spaces to indent file entries
	nameWidth      = 35 // Base width for filename
	profileWidth   = 10 // Width for profile name
	statusWidth    = 15 // Width for status text
	stageSeparator = " → "
)

// 🎯 FileOperation represents one migrated file for logging
type FileOperation struct {
	Path       string // Input path
	Output     string // Output path, empty when written in place
	Profile    string // Profile that rewrote the file
	Status     string // Operation status
	IsNew      bool   // Whether the output file was created
	IsModified bool   // Whether the content changed
	IsFailed   bool   // Whether the file failed to migrate
	Rewrites   int    // Number of rewritten sites
}

// 📦 RunOperation represents one profile run over a set of files
type RunOperation struct {
	Profile string   // Profile name
	Stages  []string // Stage names in run order
	Files   int      // Number of files to migrate
	DryRun  bool     // Whether outputs are diffed instead of written
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	verbose    bool // print run headers and summaries, not just file lines
	mu         sync.Mutex
	currentRun *RunOperation
	operations []FileOperation
}

// 🏭 New creates a new logger. Console lines go to console, structured logs to stderr.
// At debug level and below the console also gets a header and a summary per run.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		verbose: level <= zerolog.DebugLevel,
		mu:      sync.Mutex{},
	}
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	var profileColor color.Attribute
	switch op.Profile {
	case "generic", "basic":
		profileColor = color.FgCyan
	case "sync":
		profileColor = color.FgMagenta
	default:
		profileColor = color.FgYellow
	}

	name := op.Path
	if op.Output != "" && op.Output != op.Path {
		name += " → " + op.Output
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, name),
		color.New(profileColor).Sprint(fmt.Sprintf("%-*s", profileWidth, op.Profile)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("output", op.Output).
		Str("profile", op.Profile).
		Str("status", op.Status).
		Bool("is_new", op.IsNew).
		Bool("is_modified", op.IsModified).
		Bool("is_failed", op.IsFailed).
		Int("rewrites", op.Rewrites).
		Msg("file operation")
}

// 📝 StartRun starts a new profile run
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &op
	l.operations = nil

	if l.verbose {
		verb := "migrating"
		if op.DryRun {
			verb = "dry run"
		}
		fmt.Fprintf(l.console, "[%s %s]\n", verb, color.New(color.FgCyan).Sprint(pluralFiles(op.Files)))

		fmt.Fprintf(l.console, "%s %s %s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(op.Profile),
			color.New(color.Faint).Sprint("•"),
			color.New(color.FgYellow).Sprint(strings.Join(op.Stages, stageSeparator)))
	}

	l.zlog.Info().
		Str("profile", op.Profile).
		Strs("stages", op.Stages).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Msg("starting run")
}

// 📝 EndRun ends the current run and returns the logged operations
func (l *Logger) EndRun(ctx context.Context) []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentRun == nil {
		return nil
	}

	ops := l.operations
	modified, created, unchanged, failed := 0, 0, 0, 0
	for _, op := range ops {
		switch {
		case op.IsFailed:
			failed++
		case op.IsNew:
			created++
		case op.IsModified:
			modified++
		default:
			unchanged++
		}
	}

	if l.verbose && !l.currentRun.DryRun {
		summary := fmt.Sprintf("%d migrated, %d created, %d unchanged", modified, created, unchanged)
		if failed > 0 {
			summary += fmt.Sprintf(", %d failed", failed)
		}
		fmt.Fprintf(l.console, "\n✅ %s\n", color.New(color.FgGreen).Sprint(summary))
	}

	l.zlog.Info().
		Str("profile", l.currentRun.Profile).
		Int("files", len(ops)).
		Int("modified", modified).
		Int("created", created).
		Int("failed", failed).
		Msg("run complete")

	l.currentRun = nil
	l.operations = nil
	return ops
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
