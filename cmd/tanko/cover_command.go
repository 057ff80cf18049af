package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tanko/internal/cover"
	"tanko/internal/render"
	"tanko/internal/scan"
	"tanko/internal/services"
)

func newCoverCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "cover <series-dir>",
		Short: "Resolve and save the series cover image as cover.jpg",
		Long: `Cover walks the same resolution chain as process (volume archive, local
image, then MangaDex, AniList, and Kitsu) and writes the result to cover.jpg
in the series folder, without batching anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCover(ctx, cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing cover.jpg")
	return cmd
}

func runCover(ctx *commandContext, cmd *cobra.Command, seriesDir string, force bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	snapshot, err := scan.Scan(seriesDir, cfg)
	if err != nil {
		return err
	}

	target := filepath.Join(snapshot.SeriesDir, "cover.jpg")
	if !force {
		if _, err := os.Stat(target); err == nil {
			return services.Wrap(services.ErrConflict, "cover", "write",
				fmt.Sprintf("%s already exists (use --force to replace it)", target), nil)
		}
	}

	resolver, err := ctx.newResolver()
	if err != nil {
		return err
	}
	source := resolver.Resolve(cmd.Context(), snapshot)
	if !source.Available() {
		return services.Wrap(services.ErrCoverUnavailable, "cover", "resolve",
			fmt.Sprintf("no cover found for %s", snapshot.DisplayTitle()), nil)
	}
	if source.Kind == cover.KindLocal && source.Origin == "cover.jpg" {
		fmt.Fprintln(cmd.OutOrStdout(), "cover.jpg is already the best available cover.")
		return nil
	}

	// The artifact is always a real JPEG, whatever the source encoding was.
	encoded, err := render.EncodeJPEG(source.Data, cfg.Covers.JPEGQuality)
	if err != nil {
		return services.Wrap(services.ErrCoverUnavailable, "cover", "encode", source.Describe(), err)
	}
	if err := os.WriteFile(target, encoded, 0o644); err != nil {
		return fmt.Errorf("write cover: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s from %s.\n", target, source.Describe())
	return nil
}
