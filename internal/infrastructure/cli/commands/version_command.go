package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/doeshing/tunemate-go/internal/domain"
)

// Build metadata, set with -ldflags "-X ...commands.Commit=..."
var (
	Commit    string
	BuildDate string
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", domain.ServiceName, domain.ServiceVersion)
			if Commit != "" {
				fmt.Fprintf(out, "Commit: %s\n", Commit)
			}
			if BuildDate != "" {
				fmt.Fprintf(out, "Built: %s\n", BuildDate)
			}
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		},
	}
}
