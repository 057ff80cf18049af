package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tanko/internal/apply"
	"tanko/internal/logging"
	"tanko/internal/plan"
	"tanko/internal/render"
	"tanko/internal/scan"
	"tanko/internal/services"
)

type processOptions struct {
	dryRun    bool
	yes       bool
	batchSize int
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process <series-dir>",
		Short: "Batch, rename, and cover one series folder",
		Long: `Process scans a series folder, normalizes volume filenames, groups them
into numbered batch folders next to the series folder, and writes a numbered
cover image into each batch. The full plan is shown for confirmation before
anything is moved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(ctx, cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Show the plan without changing anything")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Apply without the confirmation prompt")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "Volumes per batch folder (default from config)")
	return cmd
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "plan <series-dir>",
		Short: "Show what process would do, without changing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(ctx, cmd, args[0], processOptions{dryRun: true, batchSize: batchSize})
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Volumes per batch folder (default from config)")
	return cmd
}

func runProcess(ctx *commandContext, cmd *cobra.Command, seriesDir string, opts processOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	snapshot, err := scan.Scan(seriesDir, cfg)
	if err != nil {
		return err
	}

	resolver, err := ctx.newResolver()
	if err != nil {
		return err
	}
	source := resolver.Resolve(cmd.Context(), snapshot)

	batchSize := opts.batchSize
	if batchSize <= 0 {
		batchSize = cfg.Batching.BatchSize
	}

	p, err := plan.Build(snapshot, source, batchSize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printPlan(out, p)

	if opts.dryRun {
		executor := apply.New(nil, logger, true)
		if _, err := executor.Execute(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Fprintln(out, "Dry run: no changes were made.")
		return nil
	}

	if !opts.yes {
		confirmed, err := confirm(cmd, fmt.Sprintf("Move %d volumes into %d folders?", p.VolumeCount(), len(p.Batches)))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	var renderer *render.Renderer
	if len(p.Covers) > 0 {
		renderer, err = render.New(render.Options{
			TextScale:      cfg.Covers.TextScale,
			MarginFraction: cfg.Covers.MarginFraction,
			JPEGQuality:    cfg.Covers.JPEGQuality,
		})
		if err != nil {
			return err
		}
	}

	executor := apply.New(renderer, logger, false)
	summary, err := executor.Execute(cmd.Context(), p)
	if err != nil {
		if services.Classify(err) == services.SeverityFatal {
			logger.Error("apply aborted", logging.String(logging.FieldPlanID, p.ID), logging.Error(err))
		}
		return err
	}

	fmt.Fprintf(out, "Moved %d volumes into %d folders", summary.MovedVolumes, summary.BatchDirs)
	if summary.CoversWritten > 0 {
		fmt.Fprintf(out, ", wrote %d covers", summary.CoversWritten)
	}
	fmt.Fprintln(out, ".")
	return nil
}
