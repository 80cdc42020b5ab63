// Package main provides the entry point for the stagehand CLI.
package main

import (
	"context"
	"os"

	"github.com/stagehand-sh/stagehand/internal/cli"
)

// Build information set via ldflags.
//
//nolint:gochecknoglobals // set at link time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx := context.Background()

	err := cli.Execute(ctx, cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	os.Exit(cli.ExitCodeForError(err))
}
