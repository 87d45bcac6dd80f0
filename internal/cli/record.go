package cli

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kubiyabot/actor-sdk/actor"
	"github.com/kubiyabot/actor-sdk/internal/config"
	clierrors "github.com/kubiyabot/actor-sdk/internal/errors"
	"github.com/kubiyabot/actor-sdk/internal/output"
)

func newRecordCommand(cfg *config.Config) *cobra.Command {
	var storeID string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "🗄️  Read and write key-value store records",
		Long: `Read and write records of a key-value store. Without --store the run's
default store is used: the platform store when APIFY_TOKEN and
APIFY_DEFAULT_KEY_VALUE_STORE_ID are set, otherwise files under
APIFY_LOCAL_STORAGE_DIR.`,
	}

	cmd.PersistentFlags().StringVar(&storeID, "store", "", "Key-value store ID on the platform")

	openStore := func() (actor.Store, error) {
		if storeID != "" {
			return actor.NewRemoteStore(newAPIClient(cfg), storeID), nil
		}
		store, err := actor.OpenDefaultStore(os.LookupEnv, afero.NewOsFs())
		if err != nil {
			return nil, clierrors.ConfigErrorWithContext(err, "Pass --store to use a platform key-value store.")
		}
		return store, nil
	}

	cmd.AddCommand(
		newRecordGetCommand(openStore),
		newRecordSetCommand(openStore),
		newRecordDeleteCommand(openStore),
	)
	return cmd
}

func newRecordGetCommand(openStore func() (actor.Store, error)) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "get KEY",
		Short:   "Print a record",
		Example: "  actor record get OUTPUT\n  actor record get OUTPUT --store abc123 -o yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return clierrors.ValidationError(err, "")
			}
			store, err := openStore()
			if err != nil {
				return err
			}

			record, err := store.GetValue(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("record %q not found", args[0])
			}

			if f == output.FormatText {
				return writeRawOutput(cmd.OutOrStdout(), record)
			}
			if b, ok := record.Body.([]byte); ok {
				record.Body = string(b)
			}
			return output.Write(cmd.OutOrStdout(), f, record)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format (text|json|yaml)")
	return cmd
}

func newRecordSetCommand(openStore func() (actor.Store, error)) *cobra.Command {
	var (
		value       string
		file        string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "set KEY",
		Short: "Store a record",
		Long: `Store a record. The value is parsed as JSON unless --content-type is
given, in which case it is stored as-is.`,
		Example: "  actor record set INPUT --value '{\"a\":1}'\n  actor record set page --file page.html --content-type text/html",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readCallInput(cmd.InOrStdin(), callFlags{input: value, inputFile: file, contentType: contentType})
			if err != nil {
				return err
			}
			if input == nil {
				return clierrors.ValidationError(fmt.Errorf("a value is required"), "Pass --value or --file.")
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			return store.SetValue(cmd.Context(), args[0], input, contentType)
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Record value")
	cmd.Flags().StringVar(&file, "file", "", "Read the value from a file, or - for stdin")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Store the value as-is with this content type")
	return cmd
}

func newRecordDeleteCommand(openStore func() (actor.Store, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			if err := store.SetValue(cmd.Context(), args[0], nil, ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Deleted record %s\n", args[0])
			return nil
		},
	}
}
