package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPlanCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Compute and print the aligned layout without writing anything",
		RunE: func(_ *cobra.Command, _ []string) error {
			flat, err := opts.newFlat(false)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "REGION\tOFFSET\tSIZE\tALIGNMENT")

			for _, placement := range flat.Placements() {
				alignment := placement.Region.Alignment
				if alignment == 0 {
					alignment = 1
				}

				fmt.Fprintf(w, "%s\t0x%x\t%d\t%d\n",
					placement.Region.Name, placement.Offset, placement.Region.Size, alignment)
			}

			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to print layout: %w", err)
			}

			fmt.Printf("total image size: %d bytes\n", flat.Size())

			return nil
		},
	}
}
