package main

import (
	"fmt"
	"io"

	"github.com/nivl-fork/vcs-go/gitconfig"
	"github.com/nivl-fork/vcs-go/internal/env"
	"github.com/nivl-fork/vcs-go/internal/pathutil"
	"github.com/nivl-fork/vcs-go/repo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalFlags carries the options every subcommand shares: the
// working directory override and the process environment each command
// resolves its repository location and author identity from.
type globalFlags struct {
	P   pflag.Value // -p <path>: run as if started from the given directory
	env *env.Env
}

func newRootCmd(cwd string, e *env.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vcs-go",
		Short:         "a from-scratch version control engine",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cfg := &globalFlags{env: e}
	cfg.P = pathutil.NewDirPathFlagWithDefault(cwd)
	cmd.PersistentFlags().VarP(cfg.P, "path", "p", "run as if started in the given directory instead of the current working directory")

	cmd.AddCommand(newInitCmd(cfg))
	cmd.AddCommand(newAddCmd(cfg))
	cmd.AddCommand(newRmCmd(cfg))
	cmd.AddCommand(newCommitCmd(cfg))
	cmd.AddCommand(newBranchCmd(cfg))
	cmd.AddCommand(newCheckoutCmd(cfg))
	cmd.AddCommand(newMergeCmd(cfg))
	cmd.AddCommand(newStatusCmd(cfg))
	cmd.AddCommand(newLogCmd(cfg))

	return cmd
}

// openRepo resolves the repository rooted at (or above) cfg.P and
// binds a Repository to it.
func openRepo(cfg *globalFlags) (*repo.Repository, error) {
	loaded, err := gitconfig.Load(cfg.env, gitconfig.LoadOptions{WorkingDirectory: cfg.P.String()})
	if err != nil {
		return nil, err
	}
	return repo.Open(loaded)
}

func fprintln(verbose bool, out io.Writer, a ...interface{}) {
	if verbose {
		fmt.Fprintln(out, a...)
	}
}
