package cli

import (
	"context"
	"os"
)

// Execute runs the watermark CLI on os.Args, logging to stderr. Errors are
// returned unprinted; map them to an exit status with errors.ExitCode.
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
