package main

import (
	"fmt"
	"io"

	"github.com/nivl-fork/vcs-go/gitconfig"
	"github.com/nivl-fork/vcs-go/repo"
	"github.com/spf13/cobra"
)

func newInitCmd(cfg *globalFlags) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "create a new repository in the current directory",
	}
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "name of the initial branch (defaults to main, or init.defaultBranch from an existing config)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return initCmd(cmd.OutOrStdout(), cfg, branch)
	}

	return cmd
}

func initCmd(out io.Writer, cfg *globalFlags, branch string) error {
	loaded, err := gitconfig.Load(cfg.env, gitconfig.LoadOptions{
		WorkingDirectory: cfg.P.String(),
		SkipDiscovery:    true,
	})
	if err != nil {
		return err
	}

	if branch == "" {
		branch = gitconfig.DefaultBranchFor(loaded.FS, loaded.GitDirPath)
	}

	if _, err := repo.Init(loaded.FS, loaded.WorkTreePath, branch, loaded.Identity()); err != nil {
		return err
	}

	fmt.Fprintf(out, "initialized empty repository in %s\n", loaded.GitDirPath)
	return nil
}
