package main

import (
	"fmt"
	"os"

	"github.com/davejbax/alignkit/internal/image"
	"github.com/spf13/cobra"
)

func newImageCommand(opts *rootOptions) *cobra.Command {
	outputPath := ""

	cmd := &cobra.Command{
		Use:   "image",
		Short: "Write the laid-out regions into a FAT32 filesystem image",
		RunE: func(_ *cobra.Command, _ []string) error {
			formatOpts, err := decodeFormatConfig[fatOptions](opts.config.Image.FormatOptions)
			if err != nil {
				return fmt.Errorf("could not parse FAT format options: %w", err)
			}

			flat, err := opts.newFlat(true)
			if err != nil {
				return err
			}

			output, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("could not open output file: %w", err)
			}
			defer output.Close()

			if err := image.WriteFAT(opts.config.TempDir, flat, formatOpts.VolumeLabel, output); err != nil {
				return fmt.Errorf("FAT image build failed: %w", err)
			}

			opts.logger.Info("successfully created FAT image",
				"path", outputPath,
				"label", formatOpts.VolumeLabel,
			)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "layout.fat.img", "Path to output image file")

	return cmd
}
