package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Runner is the body of a command. A returned error ends the process
// after rendering: a *CliError with its help text and suggestions,
// anything else in a plain ErrorBox
type Runner interface {
	RunE(cmd *cobra.Command, args []string) error
}

// New wires a Runner into cmd and hands cmd back for registration
func New(cmd *cobra.Command, run Runner) *cobra.Command {
	cmd.Run = func(cmd *cobra.Command, args []string) {
		if err := run.RunE(cmd, args); err != nil {
			exitWith(err)
		}
	}
	return cmd
}

func exitWith(err error) {
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		fmt.Fprintln(os.Stderr, cliErr.RichError())
	} else {
		fmt.Fprintln(os.Stderr, ErrorBox(err.Error(), ""))
	}
	os.Exit(1)
}
