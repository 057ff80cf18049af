package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tanko/internal/config"
	"tanko/internal/fileutil"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	cmd.AddCommand(newConfigShowCommand(ctx))
	cmd.AddCommand(newConfigInitCommand())
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a sample configuration file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var requested string
			if len(args) == 1 {
				requested = args[0]
			}
			target, err := sampleTarget(requested)
			if err != nil {
				return err
			}
			if !overwrite && fileutil.Exists(target) {
				return fmt.Errorf("%s already exists (use --overwrite to replace it)", target)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func sampleTarget(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		target, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return target, nil
	}
	target, err := config.ExpandPath(requested)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return target, nil
}

// newConfigShowCommand prints the effective settings after defaults,
// file values, and normalization. Loading doubles as validation.
func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file:       %s", resolved)
			if !exists {
				fmt.Fprint(out, " (not present, defaults in effect)")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Batch size:        %d\n", cfg.Batching.BatchSize)
			fmt.Fprintf(out, "Volume extensions: %s\n", strings.Join(cfg.Batching.VolumeExtensions, " "))
			fmt.Fprintf(out, "Image extensions:  %s\n", strings.Join(cfg.Covers.ImageExtensions, " "))
			fmt.Fprintf(out, "Cover providers:   %s\n", providerChain(cfg))
			cache := cfg.Providers.CachePath
			if cache == "" {
				cache = "disabled"
			}
			fmt.Fprintf(out, "Cover cache:       %s\n", cache)
			fmt.Fprintf(out, "Logging:           %s, %s\n", cfg.Logging.Format, cfg.Logging.Level)
			return nil
		},
	}
}

func providerChain(cfg *config.Config) string {
	var chain []string
	if cfg.Providers.MangaDex {
		chain = append(chain, "mangadex")
	}
	if cfg.Providers.AniList {
		chain = append(chain, "anilist")
	}
	if cfg.Providers.Kitsu {
		chain = append(chain, "kitsu")
	}
	if len(chain) == 0 {
		return "none (remote lookups disabled)"
	}
	return strings.Join(chain, " -> ")
}
