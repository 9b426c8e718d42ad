package cmd

import (
	"fmt"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/spf13/cobra"
)

func newSyncCmd(c *container) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Create a local branch for every remote branch",
		Long: `Check out every remote-tracking branch that has no local branch of the same name,
then return to the branch that was checked out before.

Each run is journaled. When a run fails part way, "gitagent restore" returns the
repository to the branch it started from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := c.syncOrch.Sync(cmd.Context())
			if state != nil {
				printSyncState(cmd, state)
			}
			return err
		},
	}
}

func newRestoreCmd(c *container) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Return to the original branch of a failed sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := c.syncOrch.Restore(cmd.Context(), sessionID)
			if state != nil {
				printSyncState(cmd, state)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "Sync session to restore (uses latest if not specified)")
	return cmd
}

func printSyncState(cmd *cobra.Command, state *domain.SyncState) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %s %s\n", state.SessionID, state.Status)
	for _, op := range state.Operations {
		fmt.Fprintf(out, "  %-9s %s\n", op.Status, op.Branch)
	}
}
