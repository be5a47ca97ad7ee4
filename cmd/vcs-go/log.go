package main

import (
	"fmt"
	"io"

	"github.com/nivl-fork/vcs-go/object"
	"github.com/spf13/cobra"
)

func newLogCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "show commit history from the current commit",
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return logCmd(cmd.OutOrStdout(), cfg)
	}

	return cmd
}

func logCmd(out io.Writer, cfg *globalFlags) error {
	r, err := openRepo(cfg)
	if err != nil {
		return err
	}

	entries, err := r.Log()
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Fprintf(out, "commit %s\n", e.ID)
		fmt.Fprintf(out, "Author: %s\n", e.Author)
		fmt.Fprintf(out, "Date:   %s\n", e.Time.Format(object.TimeLayout))
		if len(e.ParentIDs) >= 2 {
			fmt.Fprintf(out, "Parents: %v\n", e.ParentIDs)
		}
		fmt.Fprintf(out, "\n    %s\n\n", e.Message)
	}
	return nil
}
