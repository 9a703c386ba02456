package opts

import (
	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/log"
)

// RootOpts contains shared options used by all commands. The root command fills it
// before any subcommand runs.
type RootOpts struct {
	Config     *config.Config
	Logger     *log.Logger
	UserLogger *log.UserLogger
	BaseDir    string // relative paths resolve against this directory
}
