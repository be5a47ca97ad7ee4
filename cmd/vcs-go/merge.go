package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/nivl-fork/vcs-go/repo"
	"github.com/spf13/cobra"
)

func newMergeCmd(cfg *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "merge <branch>",
		Short: "merge another branch into the current one",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "merge despite uncommitted changes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return mergeCmd(cmd.OutOrStdout(), cfg, args[0], force)
	}

	return cmd
}

func mergeCmd(out io.Writer, cfg *globalFlags, branch string, force bool) error {
	r, err := openRepo(cfg)
	if err != nil {
		return err
	}

	created, err := r.Merge(branch, force)
	if err != nil {
		var conflictErr *repo.MergeConflictError
		if errors.As(err, &conflictErr) {
			for _, c := range conflictErr.Conflicts {
				for _, line := range c.Messages() {
					fmt.Fprintln(out, line)
				}
			}
		}
		return err
	}

	switch created {
	case true:
		fmt.Fprintln(out, "merge commit created")
	case false:
		fmt.Fprintln(out, "already up to date")
	}
	return nil
}
