package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
)

var errMissingMessage = errors.New("a commit message is required (-m)")

func newCommitCmd(cfg *globalFlags) *cobra.Command {
	var message string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "record the staged changes as a new commit",
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the new commit id")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if message == "" {
			return errMissingMessage
		}
		return commitCmd(cmd.OutOrStdout(), cfg, message, verbose)
	}

	return cmd
}

func commitCmd(out io.Writer, cfg *globalFlags, message string, verbose bool) error {
	r, err := openRepo(cfg)
	if err != nil {
		return err
	}
	id, err := r.Commit(message)
	if err != nil {
		return err
	}
	fprintln(verbose, out, id.String())
	return nil
}
