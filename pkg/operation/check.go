package operation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/ctxmigrate/pkg/log"
	"github.com/walteh/ctxmigrate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrPending is returned by a check when at least one file still needs migrating
var ErrPending = errors.Base("files need migration")

// 🔍 NewCheckOperation creates an operation that reports which targets a profile would
// change without writing anything
func NewCheckOperation(opts Options) (Operation, error) {
	if err := opts.validate(); err != nil {
		return nil, errors.Errorf("invalid options: %w", err)
	}
	return &checkOperation{BaseOperation: NewBaseOperation(opts)}, nil
}

type checkOperation struct {
	*BaseOperation
}

// Execute runs the pipeline over every target and fails with ErrPending if any output
// would change
func (op *checkOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("profile", op.Pipeline.Name()).Int("files", len(op.Targets)).Msg("checking status")

	op.Status.StartOperation(ctx, len(op.Targets))
	defer op.Status.FinishOperation(ctx)

	for i, t := range op.Targets {
		p, err := op.prepare(ctx, t)
		op.report(ctx, t, p, err)
		op.Status.UpdateProgress(ctx, i+1)
		if err != nil {
			return errors.Errorf("checking file %s: %w", t.Input, err)
		}
	}

	pending := 0
	for _, info := range op.Status.ListFiles(ctx) {
		if info.Status != status.StatusUnchanged {
			logger.Debug().Str("file", info.Path).Stringer("status", info.Status).Msg("needs migration")
			pending++
		}
	}

	if op.State != nil {
		drifted, err := op.State.Drifted(ctx, op.Files)
		if err != nil {
			return errors.Errorf("checking recorded outputs: %w", err)
		}
		for _, path := range drifted {
			change := log.FileChange{Type: log.FileDrifted, Path: path, Description: "changed since it was migrated"}
			if f, ok := op.State.Lookup(path); ok {
				change.Description = fmt.Sprintf("changed since %s migrated it", f.Profile)
			}
			op.User.LogFileChange(change)
		}
	}

	if pending > 0 {
		logger.Debug().Int("pending", pending).Msg("migration needed")
		return errors.Errorf("%d of %d: %w", pending, len(op.Targets), ErrPending)
	}

	logger.Debug().Msg("no changes needed")
	return nil
}
