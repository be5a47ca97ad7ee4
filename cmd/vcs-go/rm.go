package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRmCmd(cfg *globalFlags) *cobra.Command {
	var recursive, cached, verbose bool

	cmd := &cobra.Command{
		Use:   "rm <files...>",
		Short: "remove files from the index and (unless --cached) the workspace",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into directories")
	cmd.Flags().BoolVar(&cached, "cached", false, "keep the files on disk, only unstage them")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print each removed path")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return rmCmd(cmd.OutOrStdout(), cfg, args, recursive, cached, verbose)
	}

	return cmd
}

func rmCmd(out io.Writer, cfg *globalFlags, paths []string, recursive, cached, verbose bool) error {
	r, err := openRepo(cfg)
	if err != nil {
		return err
	}
	if err := r.Rm(paths, recursive, cached); err != nil {
		return err
	}
	for _, p := range paths {
		fprintln(verbose, out, "rm", p)
	}
	return nil
}
