package cli

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/standardize/pkg/errors"
)

// Exit codes of the standardize binary.
const (
	ExitOK          = 0
	ExitFailed      = 1   // rules failed or projects could not be analyzed
	ExitUsage       = 2   // bad flags, config or rule set; nothing was checked
	ExitInterrupted = 130 // standard shell convention for SIGINT
)

// ExitCode maps an error returned by the root command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath,
		errors.ErrCodeRuleCycle, errors.ErrCodeUnknownRule:
		return ExitUsage
	}
	return ExitFailed
}

// ErrorMessage returns the line printed for err on exit.
func ErrorMessage(err error) string {
	return "Error: " + errors.UserMessage(err)
}
