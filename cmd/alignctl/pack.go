package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPackCommand(opts *rootOptions) *cobra.Command {
	outputPath := ""

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Write the laid-out regions as a flat image",
		RunE: func(_ *cobra.Command, _ []string) error {
			formatOpts, err := decodeFormatConfig[flatOptions](opts.config.Image.FormatOptions)
			if err != nil {
				return fmt.Errorf("could not parse flat format options: %w", err)
			}

			flat, err := opts.newFlat(formatOpts.PadToSize)
			if err != nil {
				return err
			}

			output, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("could not open output file: %w", err)
			}
			defer output.Close()

			written, err := flat.WriteTo(output)
			if err != nil {
				return fmt.Errorf("failed to write flat image: %w", err)
			}

			opts.logger.Info("successfully created flat image",
				"path", outputPath,
				"bytes", written,
			)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "layout.img", "Path to output image file")

	return cmd
}
