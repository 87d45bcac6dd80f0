package cli

import (
	"github.com/spf13/cobra"

	"github.com/kubiyabot/actor-sdk/internal/config"
)

func Execute(cfg *config.Config) error {
	return newRootCommand(cfg).Execute()
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "actor",
		Short: "🎭 Actor SDK CLI - call actors and inspect their environment",
		Long: `Call actors on the platform and inspect the environment of a running actor.

Quick Start:
  • Call an actor:      actor call user/my-actor --input '{"url":"https://example.com"}'
  • Show environment:   actor env
  • Build a proxy URL:  actor proxy-url --groups SHADER --new-session
  • Read a record:      actor record get OUTPUT

The token is read from APIFY_TOKEN or --token.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Platform API token (default $APIFY_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "Print API requests to stderr")

	rootCmd.AddCommand(
		newCallCommand(cfg),
		newEnvCommand(cfg),
		newProxyURLCommand(cfg),
		newRecordCommand(cfg),
		newVersionCommand(cfg),
	)

	return rootCmd
}
