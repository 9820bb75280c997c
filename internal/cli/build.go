package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"binderscope/internal/builder"
	"binderscope/internal/corpus"
	"binderscope/internal/device"
	"binderscope/internal/extract"
	"binderscope/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Database string
	Services string
	Corpus   string
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a catalog from a service dump and a smali corpus",
		Long: `Build (or rebuild) a catalog database from a captured service
enumeration and a corpus of disassembled framework classes.

The catalog is reset before every build. Services whose interface cannot
be resolved in the corpus are retained with zero transactions.

Examples:
  binderscope build --db ./project.db --services ./service_list.txt --corpus ./out
  binderscope build --config ./binderscope.yaml --db ./project.db --services ./service_list.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the catalog database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Services, "services", "", "path to a captured `service list` dump (required)")
	_ = cmd.MarkFlagRequired("services")
	cmd.Flags().StringVar(&opts.Corpus, "corpus", "", "root of the disassembled framework corpus")

	return cmd
}

func runBuild(opts *BuildOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	cfg = cfg.Merge(opts.Database, "", opts.Corpus, "")

	if cfg.Corpus == "" {
		return NewExitError(ExitCommandError, "no corpus configured: pass --corpus or set it in the config file")
	}

	services, err := device.LoadServiceList(opts.Services)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load service list", err)
	}
	slog.Info("service list loaded", "path", opts.Services, "count", len(services))

	st, err := store.Open(cfg.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing catalog", "error", closeErr)
		}
	}()

	b := builder.New(st, extract.New(corpus.FSResolver{Root: cfg.Corpus}))
	if err := b.Build(ctx, services); err != nil {
		return WrapExitError(ExitFailure, "build failed", err)
	}

	meta, err := st.BuildMeta(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "build failed", err)
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.JSON(map[string]any{
			"catalog":  cfg.DB,
			"build_id": meta.BuildID,
			"services": len(services),
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "catalog %s built (%d services, build %s)\n",
		cfg.DB, len(services), meta.BuildID)
	return nil
}
