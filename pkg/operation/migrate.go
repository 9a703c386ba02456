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
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/walteh/ctxmigrate/pkg/log"
	"github.com/walteh/ctxmigrate/pkg/state"
	"github.com/walteh/ctxmigrate/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📦 NewMigrateOperation creates an operation that migrates every target
func NewMigrateOperation(opts Options) (Operation, error) {
	if err := opts.validate(); err != nil {
		return nil, errors.Errorf("invalid options: %w", err)
	}
	return &migrateOperation{BaseOperation: NewBaseOperation(opts)}, nil
}

// 📦 migrateOperation rewrites files with a profile pipeline
type migrateOperation struct {
	*BaseOperation

	processed atomic.Int64
}

// 🏃 Execute runs the migration
func (op *migrateOperation) Execute(ctx context.Context) error {
	op.Logger.StartRun(ctx, log.RunOperation{
		Profile: op.Pipeline.Name(),
		Stages:  op.Pipeline.Stages(),
		Files:   len(op.Targets),
		DryRun:  op.DryRun,
	})
	defer op.Logger.EndRun(ctx)

	op.Status.StartOperation(ctx, len(op.Targets))
	defer op.Status.FinishOperation(ctx)

	if err := op.run(ctx); err != nil {
		return err
	}

	if op.State != nil && !op.DryRun {
		if err := op.State.Save(ctx); err != nil {
			return errors.Errorf("saving state: %w", err)
		}
		op.User.LogStateChange(fmt.Sprintf("recorded %d migrated files in %s", op.State.Len(), op.State.Path()))
	}
	return nil
}

func (op *migrateOperation) run(ctx context.Context) error {
	if !op.Async || len(op.Targets) < 2 {
		for _, t := range op.Targets {
			if err := ctx.Err(); err != nil {
				return errors.Errorf("migration cancelled: %w", err)
			}
			if err := op.processFile(ctx, t); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(op.Limit)
	for _, t := range op.Targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("migration cancelled: %w", err)
			}
			return op.processFile(gctx, t)
		})
	}
	return g.Wait()
}

// 📄 processFile migrates a single target and records its outcome
func (op *migrateOperation) processFile(ctx context.Context, t Target) error {
	ctx = zerolog.Ctx(ctx).With().Str("file", t.Input).Logger().WithContext(ctx)

	p, err := op.prepare(ctx, t)
	if err == nil {
		err = op.commit(ctx, p)
	}
	op.report(ctx, t, p, err)
	op.Status.UpdateProgress(ctx, int(op.processed.Add(1)))

	if err != nil {
		return errors.Errorf("processing file %s: %w", t.Input, err)
	}
	return nil
}

// 💾 commit writes a plan, or prints its diff on a dry run
func (op *migrateOperation) commit(ctx context.Context, p *plan) error {
	if op.DryRun {
		return op.writeDiff(p)
	}
	if p.outcome == status.StatusUnchanged {
		zerolog.Ctx(ctx).Debug().Msg("content unchanged, skipping write")
		return nil
	}
	out := p.target.OutputPath()
	if err := op.Files.WriteFile(ctx, out, []byte(p.after)); err != nil {
		return errors.Errorf("writing %s: %w", out, err)
	}

	if op.State != nil {
		op.State.Record(ctx, state.MigratedFile{
			Input:    p.target.Input,
			Output:   out,
			Profile:  op.Pipeline.Name(),
			Rewrites: p.result.Rewrites(),
			Checksum: status.Checksum([]byte(p.after)),
		})
	}
	return nil
}
