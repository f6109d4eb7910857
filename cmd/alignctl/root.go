package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/davejbax/alignkit/internal/image"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	config *config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	configPath := ""
	verbose := false
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "alignctl",
		Short:        "Compute aligned binary layouts and pack them into images",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}

			opts.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(opts.logger)

			config, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load manifest: %w", err)
			}

			opts.config = config
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "alignctl.yaml", "Path to layout manifest")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newPlanCommand(opts))
	cmd.AddCommand(newPackCommand(opts))
	cmd.AddCommand(newImageCommand(opts))

	return cmd
}

// regions converts the manifest's region entries into file-backed image
// regions. Sizes are filled in by pre-flight.
func (o *rootOptions) regions() []image.Region {
	regions := make([]image.Region, 0, len(o.config.Regions))

	for _, region := range o.config.Regions {
		regions = append(regions, image.Region{
			Name:      region.Name,
			Blob:      &image.FileBlob{Path: region.Path},
			Alignment: region.Alignment,
			Offset:    region.Offset,
		})
	}

	return regions
}

// newFlat runs input pre-flight and computes the layout for the manifest.
func (o *rootOptions) newFlat(padToSize bool) (*image.Flat, error) {
	regions := o.regions()

	if err := image.Preflight(o.logger, regions, o.config.Parallelism); err != nil {
		return nil, fmt.Errorf("failed to check input regions: %w", err)
	}

	flat, err := image.NewFlat(o.logger, regions, o.config.Image.Alignment, padToSize)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out image: %w", err)
	}

	return flat, nil
}
