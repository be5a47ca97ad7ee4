package main

import (
	"fmt"
	"io"

	"github.com/nivl-fork/vcs-go/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "show staged, unstaged, and untracked changes",
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return statusCmd(cmd.OutOrStdout(), cfg)
	}

	return cmd
}

func statusCmd(out io.Writer, cfg *globalFlags) error {
	r, err := openRepo(cfg)
	if err != nil {
		return err
	}

	st, err := r.Status()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "staged for commit:")
	for _, c := range st.Staged {
		fmt.Fprintf(out, "  %s %s\n", changeLabel(c.Kind), c.Path)
	}

	fmt.Fprintln(out, "not staged:")
	for _, c := range st.Unstaged {
		fmt.Fprintf(out, "  %s %s\n", changeLabel(c.Kind), c.Path)
	}

	fmt.Fprintln(out, "untracked:")
	for _, p := range st.Untracked {
		fmt.Fprintf(out, "  %s\n", p)
	}

	return nil
}

func changeLabel(kind repo.ChangeKind) string {
	switch kind {
	case repo.Added:
		return "added:"
	case repo.Removed:
		return "removed:"
	case repo.Modified:
		return "modified:"
	default:
		return "?"
	}
}
