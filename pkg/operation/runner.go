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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	logger *zerolog.Logger
	async  bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger, async bool) *OperationRunner {
	return &OperationRunner{
		logger: logger,
		async:  async,
	}
}

// 🏃 Run executes operations in order, or all at once when async
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	ctx = r.logger.WithContext(ctx)
	if r.async {
		return r.runAsync(ctx, ops)
	}
	return r.runSync(ctx, ops)
}

// 🔄 runSync stops at the first failing operation
func (r *OperationRunner) runSync(ctx context.Context, ops []Operation) error {
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		r.logger.Debug().Int("operation", i).Msg("running operation")
		if err := op.Execute(ctx); err != nil {
			return errors.Errorf("executing operation: %w", err)
		}
	}
	return nil
}

// ⚡ runAsync runs every operation concurrently and returns the first failure
func (r *OperationRunner) runAsync(ctx context.Context, ops []Operation) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, op := range ops {
		g.Go(func() error {
			if err := op.Execute(gctx); err != nil {
				return errors.Errorf("executing operation: %w", err)
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case <-ctx.Done():
		return errors.Errorf("operation cancelled: %w", ctx.Err())
	case err := <-done:
		return err
	}
}
