package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/ctxmigrate/cmd/ctxmigrate/opts"
	"github.com/walteh/ctxmigrate/pkg/migrate"
	"gitlab.com/tozd/go/errors"
)

// NewProfilesCmd creates a command listing every profile and its stages
func NewProfilesCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List migration profiles and their stages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range migrate.Profiles() {
				p, err := migrate.Profile(name, o.Config)
				if err != nil {
					return errors.Errorf("building profile %s: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", name, strings.Join(p.Stages(), " → "))
			}
			return nil
		},
	}
}
