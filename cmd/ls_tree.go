package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsTreeCmd(c *container) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "ls-tree [ref] [path]",
		Short: "List the entries of a tree",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref, path string
			if len(args) > 0 {
				ref = args[0]
			}
			if len(args) > 1 {
				path = args[1]
			}
			entries, err := c.gitRepo.ListTree(cmd.Context(), ref, path, recursive)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s %-4s %s %7s\t%s\n", e.Permissions, e.Kind, e.Hash, e.Size, e.FullPath())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Recurse into subtrees")
	return cmd
}
