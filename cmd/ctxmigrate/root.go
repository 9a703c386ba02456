package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ctxmigrate/cmd/ctxmigrate/commands"
	"github.com/walteh/ctxmigrate/cmd/ctxmigrate/opts"
	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/log"
	"github.com/walteh/ctxmigrate/pkg/migrate"
	"gitlab.com/tozd/go/errors"
)

const rootUse = "<profile> <input-file> [output-file]"

// rootFlags are the persistent flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool
	dir        string
}

// newRootCmd builds the command tree. Console output goes to stdout, structured logs
// to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "ctxmigrate",
		Short: "Migrate Kotlin tests to the project context fixture",
		Long: `ctxmigrate rewrites Kotlin test files that allocate a temp project directory and
override user.dir so that they use a TestProjectContext instead. Each profile is a
fixed sequence of rewrite stages; run "ctxmigrate profiles" to list them.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), stderr, flags.debug)
			cmd.SetContext(ctx)

			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			level := zerolog.WarnLevel
			if flags.debug {
				level = zerolog.DebugLevel
			}
			o.Config = cfg
			o.BaseDir = flags.dir
			o.Logger = log.New(stdout, level)
			o.UserLogger = log.NewUserLogger(ctx, stderr)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return &commands.UsageError{Use: rootUse}
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &commands.UsageError{Use: rootUse, Err: err}
	})
	addRootFlags(rootCmd, flags)

	for _, name := range migrate.Profiles() {
		rootCmd.AddCommand(commands.NewProfileCmd(o, name))
	}
	rootCmd.AddCommand(
		commands.NewProfilesCmd(o),
		commands.NewVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (default: .ctxmigrate* in --dir)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.dir, "dir", ".", "directory relative paths resolve against")
}

// loadConfig loads the --config file, or discovers one in --dir
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	if flags.configFile != "" {
		return config.LoadConfig(cmd.Context(), flags.configFile)
	}
	return config.Discover(cmd.Context(), flags.dir)
}
