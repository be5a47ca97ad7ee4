package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newAddCmd(cfg *globalFlags) *cobra.Command {
	var recursive, verbose bool

	cmd := &cobra.Command{
		Use:   "add <files...>",
		Short: "stage files for the next commit",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into directories")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print each staged path")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return addCmd(cmd.OutOrStdout(), cfg, args, recursive, verbose)
	}

	return cmd
}

func addCmd(out io.Writer, cfg *globalFlags, paths []string, recursive, verbose bool) error {
	r, err := openRepo(cfg)
	if err != nil {
		return err
	}
	if err := r.Add(paths, recursive); err != nil {
		return err
	}
	for _, p := range paths {
		fprintln(verbose, out, "add", p)
	}
	return nil
}
