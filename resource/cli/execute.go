package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rabbitmq/concourse-bintray-resources/errors"
)

// Exit codes of a resource binary.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 64
)

// usageError marks errors in how the binary was invoked.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// Execute runs cmd and returns the process exit code. Errors are printed in
// red to stderr.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	printError(cmd.ErrOrStderr(), err)

	var usage usageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	return ExitFailure
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	if f, ok := w.(*os.File); !ok || f != os.Stderr {
		red.DisableColor()
	}
	_, _ = red.Fprintf(w, "error: %v\n", err)
	if code := errors.CodeOf(err); code != errors.CodeUnknown {
		_, _ = fmt.Fprintf(w, "code: %s\n", code)
		if errors.IsRetryableCode(code) {
			_, _ = fmt.Fprintln(w, "the failure is transient, running the step again may succeed")
		}
	}
}
