package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"binderscope/internal/store"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Database string
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <service>",
		Short: "Print one service's transaction list",
		Long: `Print the full transaction list recorded for one service, ordered by
transaction number.

Examples:
  binderscope dump activity --db ./project.db
  binderscope dump mount --db ./project.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the catalog database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runDump(opts *DumpOptions, service string, cmd *cobra.Command) error {
	ctx := context.Background()

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	cfg = cfg.Merge(opts.Database, "", "", "")

	st, err := store.OpenExisting(cfg.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	defer st.Close()

	svc, err := st.FindServiceByName(ctx, service)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitFailure, fmt.Sprintf("service %q not in catalog", service), err)
		}
		return WrapExitError(ExitFailure, "lookup failed", err)
	}

	txns, err := st.ListTransactionsForService(ctx, svc.ID, true)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list transactions", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.JSON(map[string]any{
			"service":      svc,
			"transactions": txns,
		})
	}

	renderDump(cmd.OutOrStdout(), svc, txns)
	return nil
}
