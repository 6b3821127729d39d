package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Description is the one-line summary shown by version output and help.
const Description = "IREE benchmark CMake rule generator"

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display benchrules version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "benchrules v%s\n", version)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Description)
		},
	}
}
