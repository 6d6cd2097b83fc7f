package main

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errUsage = errors.New("cowolf-inspect: usage error")

var verboseFlag bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cowolf-inspect",
		Short:         "Inspect, verify, and replay COWOLF data-range maps",
		Long:          "cowolf-inspect is an operator tool for examining Data-Range Map files outside of a live mount.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verboseFlag {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose struct dumps")

	cmd.AddCommand(newDumpCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newSelfcheckCmd())
	return cmd
}

// Execute runs the inspector CLI's root command. Subcommands are
// responsible for wrapping their own failures with the sentinel that
// determines the process exit code (errUsage, cowolf.ErrCorrupt, or an
// unwrapped I/O error).
func Execute() error {
	return newRootCmd().Execute()
}
