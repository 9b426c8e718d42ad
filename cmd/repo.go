package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/compozy/gitagent/internal/config"
	"github.com/spf13/cobra"
)

func newInitCmd(c *container) *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				dir, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				if err := c.fsRepo.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
				c.gitRepo.SetPath(dir)
			}
			if err := c.gitRepo.Init(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.gitRepo.Path())
			return nil
		},
	}
}

func newCloneCmd(c *container) *cobra.Command {
	var slug string
	cmd := &cobra.Command{
		Use:   "clone [url] [dir]",
		Short: "Clone a repository and check out all of its remote branches",
		Long: `Clone a repository and create a local branch for every remote branch.

Without a directory the clone goes to a new temporary directory. With --github
the clone URL of owner/repo is looked up through the GitHub API.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var source, dir string
			switch {
			case slug != "":
				if len(args) > 1 {
					return fmt.Errorf("--github takes at most a directory argument")
				}
				owner, repo, err := config.ParseRepoSlug(slug)
				if err != nil {
					return err
				}
				if source, err = c.ghRepo.CloneURL(ctx, owner, repo); err != nil {
					return err
				}
				if len(args) == 1 {
					dir = args[0]
				}
			case len(args) == 0:
				return fmt.Errorf("a clone url or --github owner/repo is required")
			default:
				source = args[0]
				if len(args) == 2 {
					dir = args[1]
				}
			}
			report, err := c.cloneUC.Execute(ctx, source, dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, c.gitRepo.Path())
			for _, b := range report.CheckedOut {
				fmt.Fprintf(out, "  %s\n", b)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "github", "", "Clone owner/repo from GitHub")
	return cmd
}

func newRemoteCmd(c *container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage remotes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRemotes(cmd, c)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name> <url>",
			Short: "Add a remote",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.gitRepo.AddRemote(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List remotes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return listRemotes(cmd, c)
			},
		},
	)
	return cmd
}

func listRemotes(cmd *cobra.Command, c *container) error {
	remotes, err := c.gitRepo.Remotes(cmd.Context())
	if err != nil {
		return err
	}
	for _, r := range remotes {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}
	return nil
}
