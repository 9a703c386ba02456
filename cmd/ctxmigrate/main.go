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

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/ctxmigrate/cmd/ctxmigrate/commands"
	"github.com/walteh/ctxmigrate/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ctx = setupLogging(ctx, stderr, false)

	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var usage *commands.UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(stdout, usage.Error())
		return 1
	}

	log.NewUserLogger(ctx, stderr).LogValidation(false, "Command failed", err)
	return 1
}

// setupLogging attaches a zerolog logger writing to w to the context
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}
