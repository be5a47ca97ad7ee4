package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newBranchCmd(cfg *globalFlags) *cobra.Command {
	var del, verbose bool

	cmd := &cobra.Command{
		Use:   "branch [<names...>]",
		Short: "list, create, or delete branches",
	}
	cmd.Flags().BoolVarP(&del, "delete", "d", false, "delete the named branches instead of creating them")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print each created or deleted branch name")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return branchCmd(cmd.OutOrStdout(), cfg, args, del, verbose)
	}

	return cmd
}

func branchCmd(out io.Writer, cfg *globalFlags, names []string, del, verbose bool) error {
	r, err := openRepo(cfg)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		branches, err := r.ListBranches()
		if err != nil {
			return err
		}
		for _, b := range branches {
			marker := " "
			if b.Current {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, b.Name)
		}
		return nil
	}

	for _, name := range names {
		if del {
			if err := r.DeleteBranch(name); err != nil {
				return err
			}
		} else if err := r.CreateBranch(name); err != nil {
			return err
		}
		fprintln(verbose, out, name)
	}
	return nil
}
