package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubiyabot/actor-sdk/internal/config"
	"github.com/kubiyabot/actor-sdk/internal/version"
)

func newVersionCommand(_ *config.Config) *cobra.Command {
	var checkUpdate bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "📋 Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Actor SDK %s\n", version.GetVersion())

			if checkUpdate {
				fmt.Fprint(cmd.OutOrStdout(), version.GetUpdateMessage())
			}
		},
	}

	cmd.Flags().BoolVar(&checkUpdate, "check-update", false, "Check GitHub for a newer release")
	return cmd
}
