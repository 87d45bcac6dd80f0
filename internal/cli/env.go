package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubiyabot/actor-sdk/actor"
	"github.com/kubiyabot/actor-sdk/internal/config"
	clierrors "github.com/kubiyabot/actor-sdk/internal/errors"
	"github.com/kubiyabot/actor-sdk/internal/output"
)

func newEnvCommand(_ *config.Config) *cobra.Command {
	var (
		format    string
		showToken bool
	)

	cmd := &cobra.Command{
		Use:     "env",
		Short:   "🌍 Show the actor environment",
		Example: "  actor env\n  actor env -o json",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return clierrors.ValidationError(err, "")
			}

			env := actor.GetEnv()
			if env.Token != nil && !showToken {
				masked := maskToken(*env.Token)
				env.Token = &masked
			}

			if f != output.FormatText {
				return output.Write(cmd.OutOrStdout(), f, env)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VARIABLE\tVALUE")
			fmt.Fprintf(w, "actId\t%s\n", strOrDash(env.ActorID))
			fmt.Fprintf(w, "actRunId\t%s\n", strOrDash(env.ActorRunID))
			fmt.Fprintf(w, "userId\t%s\n", strOrDash(env.UserID))
			fmt.Fprintf(w, "token\t%s\n", strOrDash(env.Token))
			fmt.Fprintf(w, "startedAt\t%s\n", timeOrDash(env.StartedAt))
			fmt.Fprintf(w, "timeoutAt\t%s\n", timeOrDash(env.TimeoutAt))
			fmt.Fprintf(w, "defaultKeyValueStoreId\t%s\n", strOrDash(env.DefaultKeyValueStoreID))
			fmt.Fprintf(w, "defaultDatasetId\t%s\n", strOrDash(env.DefaultDatasetID))
			memory := "-"
			if env.MemoryMbytes != nil {
				memory = strconv.Itoa(*env.MemoryMbytes)
			}
			fmt.Fprintf(w, "memoryMbytes\t%s\n", memory)
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format (text|json|yaml)")
	cmd.Flags().BoolVar(&showToken, "show-token", false, "Print the token instead of masking it")
	return cmd
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}

func strOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func timeOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
