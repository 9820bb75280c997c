package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"binderscope/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
	Contexts string
	Labels   bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the services recorded in a catalog",
		Long: `List every service in a catalog in name order, with its backing
interface when one was resolved. Verbose mode also prints the catalog's
build stamp.

Examples:
  binderscope list --db ./project.db
  binderscope list --db ./project.db --labels --contexts ./service_contexts.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the catalog database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Contexts, "contexts", "", "path to a security-context map file")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "annotate services with security-context labels")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	cfg = cfg.Merge(opts.Database, "", "", opts.Contexts)

	st, err := store.OpenExisting(cfg.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	defer st.Close()

	services, err := st.ListServices(ctx, true)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list services", err)
	}

	contexts, err := loadContexts(cfg, opts.Labels)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load service contexts", err)
	}

	out := cmd.OutOrStdout()

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: out}
		return f.JSON(services)
	}

	if opts.Verbose {
		if meta, err := st.BuildMeta(ctx); err == nil {
			fmt.Fprintf(out, "# build %s at %s\n", meta.BuildID, meta.BuiltAt.Format("2006-01-02T15:04:05Z"))
		}
	}

	renderServiceList(out, services, contexts, opts.Labels)
	return nil
}
