package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/stego"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity [image-path]",
	Short: "Show how much an image can hide",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := imageio.Load(args[0])
		if err != nil {
			return err
		}
		r := stego.Capacity(img)

		wtr := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(wtr, "Cover\t%dx%d (%d slots)\n", r.Width, r.Height, r.Slots)
		fmt.Fprintf(wtr, "Text\t%d bytes\n", r.TextBytes)
		fmt.Fprintf(wtr, "Image\t%d bytes (%d pixels)\n", r.ImageBytes, r.ImagePixels)
		return wtr.Flush()
	},
}

func init() {
	rootCmd.AddCommand(capacityCmd)
}
