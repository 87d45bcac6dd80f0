package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kubiyabot/actor-sdk/actor"
	"github.com/kubiyabot/actor-sdk/apiclient/entities"
	"github.com/kubiyabot/actor-sdk/internal/config"
	clierrors "github.com/kubiyabot/actor-sdk/internal/errors"
	"github.com/kubiyabot/actor-sdk/internal/output"
	"github.com/kubiyabot/actor-sdk/internal/style"
)

type callFlags struct {
	input       string
	inputFile   string
	contentType string
	build       string
	memory      int
	waitSecs    int
	noOutput    bool
	raw         bool
	parallel    int
	format      string
}

func newCallCommand(cfg *config.Config) *cobra.Command {
	var flags callFlags

	cmd := &cobra.Command{
		Use:   "call ACTOR [ACTOR...]",
		Short: "🚀 Run actors and wait for their output",
		Long: `Start one or more actors with the same input, wait for the runs to finish
and print them together with their OUTPUT records.

ACTOR is an actor ID or "username/actor-name". Input is sent as JSON unless
--content-type is given, in which case it is sent as-is.`,
		Example: `  actor call user/my-actor --input '{"url":"https://example.com"}'
  actor call abc123 --input-file input.json --wait-secs 60 -o yaml
  actor call user/a user/b --content-type text/plain --input hello
  actor call user/my-actor --raw > output.bin`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(flags.format)
			if err != nil {
				return clierrors.ValidationError(err, "")
			}

			input, err := readCallInput(cmd.InOrStdin(), flags)
			if err != nil {
				return err
			}

			opts := &actor.CallOptions{
				ContentType:       flags.contentType,
				Build:             flags.build,
				Memory:            flags.memory,
				DisableBodyParser: flags.raw,
			}
			if cmd.Flags().Changed("wait-secs") {
				opts.WaitSecs = actor.Int(flags.waitSecs)
			}
			if flags.noOutput {
				opts.FetchOutput = actor.Bool(false)
			}

			var spin *output.Spinner
			if format == output.FormatText && !flags.raw {
				spin = output.NewSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Calling %s", strings.Join(args, ", ")), output.DetectMode())
				spin.Start()
			}

			runs, err := callActors(cmd, newActorClient(cfg), args, input, opts, flags.parallel)
			if spin != nil {
				if err != nil {
					spin.Fail("Call failed")
				} else {
					spin.Success(fmt.Sprintf("%d run(s) finished", len(runs)))
				}
			}
			if err != nil {
				return err
			}

			return printRuns(cmd.OutOrStdout(), runs, format, flags.raw)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Actor input (JSON unless --content-type is set)")
	cmd.Flags().StringVarP(&flags.inputFile, "input-file", "f", "", "Read the input from a file, or - for stdin")
	cmd.Flags().StringVar(&flags.contentType, "content-type", "", "Send the input as-is with this content type")
	cmd.Flags().StringVar(&flags.build, "build", "", "Build tag or number to run")
	cmd.Flags().IntVar(&flags.memory, "memory", 0, "Memory limit in megabytes")
	cmd.Flags().IntVar(&flags.waitSecs, "wait-secs", 0, "Maximum seconds to wait for the run; 0 returns once started")
	cmd.Flags().BoolVar(&flags.noOutput, "no-output", false, "Do not fetch the OUTPUT record")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "Write the raw OUTPUT record body to stdout")
	cmd.Flags().IntVar(&flags.parallel, "parallel", 4, "Maximum number of actors called at once")
	cmd.Flags().StringVarP(&flags.format, "output", "o", "text", "Output format (text|json|yaml)")

	return cmd
}

func readCallInput(stdin io.Reader, flags callFlags) (interface{}, error) {
	if flags.input != "" && flags.inputFile != "" {
		return nil, clierrors.ValidationError(fmt.Errorf("--input and --input-file are mutually exclusive"), "")
	}

	var raw []byte
	switch {
	case flags.inputFile == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read input from stdin: %w", err)
		}
		raw = b
	case flags.inputFile != "":
		b, err := os.ReadFile(flags.inputFile)
		if err != nil {
			return nil, clierrors.ValidationError(fmt.Errorf("failed to read input file: %w", err), "")
		}
		raw = b
	case flags.input != "":
		raw = []byte(flags.input)
	default:
		return nil, nil
	}

	if flags.contentType != "" {
		return raw, nil
	}

	var input interface{}
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, clierrors.ValidationError(
			fmt.Errorf("input is not valid JSON: %w", err),
			"Pass --content-type to send non-JSON input as-is.")
	}
	return input, nil
}

func callActors(cmd *cobra.Command, client *actor.Client, actorIDs []string, input interface{}, opts *actor.CallOptions, parallel int) ([]*entities.Run, error) {
	if parallel < 1 {
		parallel = 1
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(parallel)

	runs := make([]*entities.Run, len(actorIDs))
	for i, actorID := range actorIDs {
		g.Go(func() error {
			run, err := client.Call(ctx, actorID, input, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", actorID, err)
			}
			runs[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

func printRuns(w io.Writer, runs []*entities.Run, format output.Format, raw bool) error {
	if raw {
		for _, run := range runs {
			if err := writeRawOutput(w, run.Output); err != nil {
				return err
			}
		}
		return nil
	}

	switch format {
	case output.FormatJSON, output.FormatYAML:
		if len(runs) == 1 {
			return output.Write(w, format, runs[0])
		}
		return output.Write(w, format, runs)
	default:
		for _, run := range runs {
			fmt.Fprintln(w, style.CreateRunSummary(run))
			if !run.Status.IsTerminal() {
				fmt.Fprintln(w, style.WarningStyle.Render(fmt.Sprintf("Run is still %s, stopped waiting", run.Status)))
				continue
			}
			if run.Output != nil {
				fmt.Fprintln(w, style.SubtitleStyle.Render("Output:"))
				if err := writeRawOutput(w, run.Output); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func writeRawOutput(w io.Writer, record *entities.Record) error {
	if record == nil {
		return nil
	}

	switch body := record.Body.(type) {
	case nil:
		return nil
	case []byte:
		_, err := w.Write(body)
		return err
	case string:
		_, err := fmt.Fprintln(w, body)
		return err
	default:
		return output.Write(w, output.FormatJSON, body)
	}
}
