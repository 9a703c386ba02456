package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ctxmigrate/cmd/ctxmigrate/opts"
	"github.com/walteh/ctxmigrate/pkg/migrate"
	"github.com/walteh/ctxmigrate/pkg/operation"
	"github.com/walteh/ctxmigrate/pkg/state"
	"github.com/walteh/ctxmigrate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var profileHelp = map[string]string{
	migrate.ProfileGeneric: "Migrate a test file to the project context fixture",
	migrate.ProfileBasic:   "Migrate a test file and create the default project in setup",
	migrate.ProfileSync:    "Migrate a test file and scope command calls to the project directory",
	migrate.ProfileWrap:    "Scope command calls to the project directory",
	migrate.ProfileInject:  "Inject the project directory into command objects",
}

type migrateFlags struct {
	dryRun bool
	async  bool
	glob   bool
	check  bool
	jobs   int
	state  string
}

// NewProfileCmd creates the command that runs one migration profile
func NewProfileCmd(o *opts.RootOpts, profile string) *cobra.Command {
	flags := &migrateFlags{}
	use := profile + " <input-file> [output-file]"

	cmd := &cobra.Command{
		Use:   use,
		Short: profileHelp[profile],
		Long: profileHelp[profile] + `.

The input is rewritten in place unless an output file is given. With --glob every
argument is a doublestar pattern, relative to --dir, and each matching file is
rewritten in place. Run with --debug for a run header and summary.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.glob {
				if len(args) == 0 {
					return &UsageError{Use: profile + " --glob <pattern>..."}
				}
				return nil
			}
			if len(args) < 1 || len(args) > 2 {
				return &UsageError{Use: use}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", profile).Logger().WithContext(ctx)

			pipeline, err := migrate.Profile(profile, o.Config)
			if err != nil {
				return errors.Errorf("selecting profile: %w", err)
			}

			var targets []operation.Target
			if flags.glob {
				if targets, err = operation.Expand(ctx, o.BaseDir, args); err != nil {
					return errors.Errorf("expanding patterns: %w", err)
				}
			} else {
				t := operation.Target{Input: args[0]}
				if len(args) == 2 {
					t.Output = args[1]
				}
				targets = []operation.Target{t}
			}

			mgr := status.New(o.BaseDir, nil)
			options := operation.Options{
				Pipeline: pipeline,
				Targets:  targets,
				Files:    mgr,
				Status:   mgr,
				Logger:   o.Logger,
				User:     o.UserLogger,
				DryRun:   flags.dryRun,
				Diff:     cmd.OutOrStdout(),
				Async:    flags.async,
				Limit:    flags.jobs,
			}

			if flags.state != "" {
				if options.State, err = state.Load(ctx, flags.state, o.Config.Hash()); err != nil {
					return errors.Errorf("loading state: %w", err)
				}
			}

			var op operation.Operation
			if flags.check {
				op, err = operation.NewCheckOperation(options)
			} else {
				op, err = operation.NewMigrateOperation(options)
			}
			if err != nil {
				return errors.Errorf("creating operation: %w", err)
			}

			if err := operation.NewRunner(zerolog.Ctx(ctx), flags.async).Run(ctx, op); err != nil {
				return errors.Errorf("running %s: %w", profile, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print a unified diff instead of writing")
	cmd.Flags().BoolVar(&flags.async, "async", false, "migrate files concurrently")
	cmd.Flags().BoolVar(&flags.glob, "glob", false, "treat arguments as doublestar patterns")
	cmd.Flags().BoolVar(&flags.check, "check", false, "fail if any file still needs migrating, without writing")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "concurrent files with --async (default 8)")
	cmd.Flags().StringVar(&flags.state, "state", "", "state file recording migrated outputs")
	cmd.MarkFlagsMutuallyExclusive("check", "dry-run")

	return cmd
}
