package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubiyabot/actor-sdk/actor"
	"github.com/kubiyabot/actor-sdk/internal/config"
)

func newProxyURLCommand(_ *config.Config) *cobra.Command {
	var (
		opts       actor.ProxyOptions
		session    string
		newSession bool
	)

	cmd := &cobra.Command{
		Use:   "proxy-url",
		Short: "🔗 Print a proxy URL",
		Long: `Print the proxy URL for the given groups and session. The password,
hostname and port default to APIFY_PROXY_PASSWORD, APIFY_PROXY_HOSTNAME and
APIFY_PROXY_PORT.`,
		Example: "  actor proxy-url --groups SHADER,BUYPROXIES94952\n  actor proxy-url --new-session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case newSession && session != "":
				return fmt.Errorf("--session and --new-session are mutually exclusive")
			case newSession:
				opts.Session = actor.NewProxySession()
			case session != "":
				opts.Session = session
			}

			url, err := actor.ProxyURL(&opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Password, "password", "", "Proxy password")
	cmd.Flags().StringVar(&opts.Hostname, "hostname", "", "Proxy hostname")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Proxy port")
	cmd.Flags().StringSliceVar(&opts.Groups, "groups", nil, "Proxy groups")
	cmd.Flags().StringVar(&session, "session", "", "Session identifier")
	cmd.Flags().BoolVar(&newSession, "new-session", false, "Generate a random session identifier")

	return cmd
}
