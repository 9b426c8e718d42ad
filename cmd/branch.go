package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/spf13/cobra"
)

func newBranchCmd(c *container) *cobra.Command {
	var all, verbose bool
	list := func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		if !verbose {
			names, err := c.gitRepo.BranchNames(cmd.Context(), all)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		}
		branches, err := c.gitRepo.Branches(cmd.Context(), all)
		if err != nil {
			return err
		}
		for _, b := range branches {
			printBranch(out, b)
		}
		return nil
	}
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "List, create or delete branches",
		Args:  cobra.NoArgs,
		RunE:  list,
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include remote-tracking branches")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show commit and upstream of each branch")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List branches",
		Args:  cobra.NoArgs,
		RunE:  list,
	}
	listCmd.Flags().BoolVarP(&all, "all", "a", false, "Include remote-tracking branches")
	listCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show commit and upstream of each branch")

	var checkout bool
	createCmd := &cobra.Command{
		Use:   "create <name> [start-point]",
		Short: "Create a branch",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := ""
			if len(args) == 2 {
				start = args[1]
			}
			return c.gitRepo.CreateBranch(cmd.Context(), args[0], start, checkout)
		},
	}
	createCmd.Flags().BoolVar(&checkout, "checkout", false, "Check out the new branch")

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a fully merged branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.gitRepo.DeleteBranch(cmd.Context(), args[0])
		},
	}
	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.gitRepo.Branch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printBranch(cmd.OutOrStdout(), *b)
			return nil
		},
	}
	cmd.AddCommand(listCmd, showCmd, createCmd, deleteCmd)
	return cmd
}

func printBranch(out io.Writer, b domain.Branch) {
	marker := " "
	if b.Current {
		marker = "*"
	}
	if b.IsSymbolic() {
		fmt.Fprintf(out, "%s %s -> %s\n", marker, b.Name, b.Target)
		return
	}
	line := fmt.Sprintf("%s %s %s", marker, b.Name, b.Commit)
	if b.Tracking != "" {
		line += " [" + b.Tracking + "]"
	}
	if b.Subject != "" {
		line += " " + b.Subject
	}
	fmt.Fprintln(out, line)
}

func newCheckoutCmd(c *container) *cobra.Command {
	var create bool
	cmd := &cobra.Command{
		Use:   "checkout <ref>",
		Short: "Check out a branch or commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.gitRepo.Checkout(cmd.Context(), args[0], create)
		},
	}
	cmd.Flags().BoolVarP(&create, "create", "b", false, "Create the branch at HEAD when it does not exist")
	return cmd
}

func newCurrentCmd(c *container) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the checked out branch, or the commit when HEAD is detached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			name, err := c.gitRepo.CurrentBranch(ctx)
			if errors.Is(err, domain.ErrDetachedHead) {
				name, err = c.gitRepo.HeadCommit(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}
