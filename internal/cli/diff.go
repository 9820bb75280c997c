package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"binderscope/internal/diff"
	"binderscope/internal/secontext"
	"binderscope/internal/store"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	Database string
	Baseline string
	Contexts string
	All      bool
	Labels   bool
	Brief    bool
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff [service]",
		Short: "Diff a project catalog against a baseline",
		Long: `Compare the project catalog against a baseline catalog and report,
per service, the new and modified transactions. Transactions present
only in the baseline are not reported: the walk is project-driven.

When --baseline is unset it defaults to base.db next to the project
catalog.

Examples:
  binderscope diff activity --db ./project.db --baseline ./base.db
  binderscope diff --all --db ./project.db --labels
  binderscope diff mount --db ./project.db --brief --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.All == (len(args) == 1) {
				return NewExitError(ExitCommandError, "pass exactly one of a service name or --all")
			}
			service := ""
			if len(args) == 1 {
				service = args[0]
			}
			return runDiff(opts, service, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the project catalog (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Baseline, "baseline", "", "path to the baseline catalog (default: base.db next to --db)")
	cmd.Flags().StringVar(&opts.Contexts, "contexts", "", "path to a security-context map file")
	cmd.Flags().BoolVar(&opts.All, "all", false, "diff every service in the project catalog")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "annotate services with security-context labels")
	cmd.Flags().BoolVar(&opts.Brief, "brief", false, "report method names and novelty only")

	return cmd
}

func runDiff(opts *DiffOptions, service string, cmd *cobra.Command) error {
	ctx := context.Background()

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	cfg = cfg.Merge(opts.Database, opts.Baseline, "", opts.Contexts)

	project, err := store.OpenExisting(cfg.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open project catalog", err)
	}
	defer project.Close()

	baselinePath := cfg.ResolveBaseline()
	baseline, err := store.OpenExisting(baselinePath)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to open baseline catalog %s", baselinePath), err)
	}
	defer baseline.Close()

	contexts, err := loadContexts(cfg, opts.Labels)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load service contexts", err)
	}

	engine := diff.New(project, baseline)

	var reports []*diff.ServiceReport
	var diffErr error
	if opts.All {
		reports, diffErr = engine.DiffAll(ctx)
	} else {
		var report *diff.ServiceReport
		report, diffErr = engine.DiffService(ctx, service)
		if report != nil {
			reports = []*diff.ServiceReport{report}
		}
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		if err := f.JSON(reports); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		for _, r := range reports {
			renderReport(out, r, opts.Brief, contexts, opts.Labels)
		}
	}

	if diffErr != nil {
		slog.Error("diff incomplete", "error", diffErr)
		return WrapExitError(ExitFailure, "diff failed", diffErr)
	}
	return nil
}

// loadContexts loads the security-context map when labels were
// requested. Without a configured map file every lookup renders the
// unknown marker.
func loadContexts(cfg Config, labels bool) (secontext.Map, error) {
	if !labels || cfg.ServiceContexts == "" {
		return nil, nil
	}
	return secontext.LoadFile(cfg.ServiceContexts)
}
