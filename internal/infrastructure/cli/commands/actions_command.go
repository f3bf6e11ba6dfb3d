package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doeshing/tunemate-go/internal/application/structuring"
	"github.com/doeshing/tunemate-go/internal/domain"
)

// NewActionsCommand lists the supported actions and the answer shape each expects.
func NewActionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List supported actions",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ACTION\tLAYOUT\tOPTIONS")
			for _, action := range domain.KnownActions() {
				profile := structuring.ProfileFor(action)
				expected := "any"
				if profile.ExpectedOptions > 0 {
					expected = fmt.Sprint(profile.ExpectedOptions)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", action, profile.Layout, expected)
			}
			_ = w.Flush()
		},
	}
}
