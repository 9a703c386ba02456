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

package operation

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/walteh/ctxmigrate/pkg/log"
	"github.com/walteh/ctxmigrate/pkg/migrate"
	"github.com/walteh/ctxmigrate/pkg/state"
	"github.com/walteh/ctxmigrate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// defaultLimit bounds concurrent files when Options.Limit is unset
const defaultLimit = 8

// 🎯 Operation is one unit of work the runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

// 📄 Target names one input file and where its migrated content goes
type Target struct {
	Input  string
	Output string // empty means in place
}

// OutputPath returns the path the migrated content is written to
func (t Target) OutputPath() string {
	if t.Output == "" {
		return t.Input
	}
	return t.Output
}

// 🔧 Options contains everything an operation needs
type Options struct {
	Pipeline *migrate.Pipeline
	Targets  []Target
	Files    status.FileManager
	Status   status.StatusReporter
	Logger   *log.Logger
	User     *log.UserLogger // drift and state notices, stderr when nil
	State    *state.State    // records written outputs, optional

	DryRun bool      // print diffs instead of writing
	Diff   io.Writer // where dry run diffs go, stdout when nil
	Async  bool      // migrate files concurrently
	Limit  int       // concurrent files when Async is set
}

// 🏗️ BaseOperation holds the shared state of every operation
type BaseOperation struct {
	Options

	diffMu sync.Mutex
}

// NewBaseOperation fills option defaults
func NewBaseOperation(opts Options) *BaseOperation {
	if opts.Diff == nil {
		opts.Diff = os.Stdout
	}
	if opts.User == nil {
		opts.User = log.NewUserLogger(context.Background(), os.Stderr)
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	return &BaseOperation{Options: opts}
}

func (o Options) validate() error {
	if o.Pipeline == nil {
		return errors.Errorf("pipeline is required")
	}
	if o.Files == nil {
		return errors.Errorf("file manager is required")
	}
	if o.Status == nil {
		return errors.Errorf("status reporter is required")
	}
	if o.Logger == nil {
		return errors.Errorf("logger is required")
	}
	for _, t := range o.Targets {
		if t.Input == "" {
			return errors.Errorf("target with empty input")
		}
	}
	return nil
}

// 🔍 plan is the outcome of running the pipeline over one target, before anything is written
type plan struct {
	target  Target
	before  string // current content at the output path, empty when it does not exist
	after   string // migrated content
	exists  bool
	result  *migrate.Result
	outcome status.FileStatus
}

// 🧮 prepare reads a target, runs the pipeline over it and decides the file status
func (b *BaseOperation) prepare(ctx context.Context, t Target) (*plan, error) {
	content, err := b.Files.ReadFile(ctx, t.Input)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", t.Input, err)
	}

	f := &migrate.File{Path: t.Input, Content: string(content)}
	res, err := b.Pipeline.Apply(ctx, f)
	if err != nil {
		return nil, errors.Errorf("migrating %s: %w", t.Input, err)
	}

	p := &plan{target: t, before: string(content), after: f.Content, exists: true, result: res}

	if out := t.OutputPath(); out != t.Input {
		exists, err := b.Files.FileExists(ctx, out)
		if err != nil {
			return nil, errors.Errorf("checking %s: %w", out, err)
		}
		p.exists = exists
		p.before = ""
		if exists {
			current, err := b.Files.ReadFile(ctx, out)
			if err != nil {
				return nil, errors.Errorf("reading %s: %w", out, err)
			}
			p.before = string(current)
		}
	}

	switch {
	case !p.exists:
		p.outcome = status.StatusCreated
	case p.before == p.after:
		p.outcome = status.StatusUnchanged
	default:
		p.outcome = status.StatusModified
	}
	return p, nil
}

// 📊 report tracks a file outcome and prints its confirmation line
func (b *BaseOperation) report(ctx context.Context, t Target, p *plan, err error) {
	info := status.FileInfo{
		Path:   t.Input,
		Output: t.OutputPath(),
		Status: status.StatusFailed,
		Error:  err,
	}
	if p != nil && err == nil {
		info.Status = p.outcome
		info.Rewrites = p.result.Rewrites()
		info.Checksum = status.Checksum([]byte(p.after))
	}
	b.Status.TrackFile(ctx, info)

	op := log.FileOperation{
		Path:       info.Path,
		Profile:    b.Pipeline.Name(),
		Status:     info.Status.String(),
		IsNew:      info.Status == status.StatusCreated,
		IsModified: info.Status == status.StatusModified,
		IsFailed:   info.Status == status.StatusFailed,
		Rewrites:   info.Rewrites,
	}
	if t.Output != "" {
		op.Output = t.Output
	}
	b.Logger.LogFileOperation(ctx, op)
}

// 🔀 writeDiff prints the unified diff of a plan
func (b *BaseOperation) writeDiff(p *plan) error {
	diff, err := UnifiedDiff(p.target.OutputPath(), p.before, p.after)
	if err != nil {
		return errors.Errorf("diffing %s: %w", p.target.OutputPath(), err)
	}
	if diff == "" {
		return nil
	}

	b.diffMu.Lock()
	defer b.diffMu.Unlock()
	if _, err := io.WriteString(b.Diff, diff); err != nil {
		return errors.Errorf("writing diff: %w", err)
	}
	return nil
}
