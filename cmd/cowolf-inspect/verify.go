package main

import (
	"fmt"

	"github.com/spf13/cobra"

	cowolf "github.com/safai-labs/unionfs-fuse"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <drm-file>",
		Short: "Re-validate a data-range map's on-disk invariants",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	if err := cowolf.VerifyFile(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
	return nil
}
