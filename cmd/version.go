package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/gitagent/internal/service"
	"github.com/compozy/gitagent/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// needs no repository, and still reports when git cannot be found
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version:\t%s\n", safeValue(version.Version, "dev"))
			fmt.Fprintf(out, "Commit:\t%s\n", safeValue(version.CommitHash, "unknown"))
			fmt.Fprintf(out, "Built:\t%s\n", safeValue(version.BuildDate, "unknown"))
			fmt.Fprintf(out, "Git:\t%s\n", gitVersion(cmd.Context(), viper.GetString("binary_path")))
			return nil
		},
	}
}

func gitVersion(ctx context.Context, path string) string {
	if ctx == nil {
		ctx = context.Background()
	}
	binary, err := service.NewBinaryLocator(path)
	if err != nil {
		return "not found"
	}
	v, err := binary.Version(ctx)
	if err != nil {
		return "unknown"
	}
	return fmt.Sprintf("%s (%s)", v.String(), binary.Path())
}

func safeValue(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
