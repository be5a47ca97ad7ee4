package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newCheckoutCmd(cfg *globalFlags) *cobra.Command {
	var force, create, verbose bool

	cmd := &cobra.Command{
		Use:   "checkout <target>",
		Short: "switch the workspace to a branch or commit",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "discard uncommitted changes")
	cmd.Flags().BoolVarP(&create, "create-branch", "b", false, "create <target> as a new branch at the current commit before switching")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the resolved target")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return checkoutCmd(cmd.OutOrStdout(), cfg, args[0], force, create, verbose)
	}

	return cmd
}

func checkoutCmd(out io.Writer, cfg *globalFlags, target string, force, create, verbose bool) error {
	r, err := openRepo(cfg)
	if err != nil {
		return err
	}
	if err := r.Checkout(target, force, create); err != nil {
		return err
	}
	fprintln(verbose, out, "switched to", target)
	return nil
}
