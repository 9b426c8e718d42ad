package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "gitagent",
	Short: "A scoped command agent for git repositories",
	Long: `gitagent runs git against one working directory at a time, parses its listings
and checks out every remote branch that has no local counterpart.`,
	SilenceUsage: true,
}

// persistent flags override .gitagent.yaml and GITAGENT_* variables
func bindFlags() error {
	flags := rootCmd.PersistentFlags()
	flags.StringP("workdir", "C", "", "Repository working directory")
	flags.String("git", "", "Path to the git binary (looked up on PATH when empty)")
	flags.String("state-dir", "", "Directory for the sync journal and lock")
	flags.Duration("timeout", 0, "Timeout for the whole command")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Also write JSON logs to this rotated file")
	for key, flag := range map[string]string{
		"workdir":         "workdir",
		"binary_path":     "git",
		"state_dir":       "state-dir",
		"command_timeout": "timeout",
		"log_level":       "log-level",
		"log_file":        "log-file",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}
