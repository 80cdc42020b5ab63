package cli

import (
	stderrors "errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stagehand-sh/stagehand/internal/errors"
)

// Exit codes. Invalid input gets its own code so scripts can tell a
// bad invocation from a failed run.
const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitInvalidInput = 2
)

// Output format values for --output.
const (
	// OutputText is the default human-readable format.
	OutputText = "text"
	// OutputJSON is the machine-readable format.
	OutputJSON = "json"
)

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	// Output selects text or json rendering.
	Output string
	// Verbose raises the log level to debug.
	Verbose bool
	// Quiet lowers the log level to warn.
	Quiet bool
}

// AddGlobalFlags registers the persistent flags on the root command.
// Verbose and quiet are mutually exclusive.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds the persistent flags to viper so STAGEHAND_OUTPUT,
// STAGEHAND_VERBOSE, and STAGEHAND_QUIET work as flag defaults.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix("STAGEHAND")
	v.AutomaticEnv()

	return nil
}

// ValidOutputFormats returns the accepted --output values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat reports whether format is an accepted --output
// value.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// ExitCodeForError maps an error to the process exit code: 0 for nil,
// 2 for invalid user input, 1 for everything else.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case stderrors.Is(err, errors.ErrInvalidOutputFormat),
		stderrors.Is(err, errors.ErrValidation),
		stderrors.Is(err, errors.ErrEmptyValue):
		return ExitInvalidInput
	default:
		return ExitError
	}
}
