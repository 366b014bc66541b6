package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xob0t/GoStego/pkg/generator"
)

var generateOpts struct {
	output string
	cfg    generator.Config
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create a cover image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := generateOpts.cfg
		f := cmd.Flags()
		if !f.Changed("width") {
			cfg.Width = conf.Cover.Width
		}
		if !f.Changed("height") {
			cfg.Height = conf.Cover.Height
		}
		if !f.Changed("color") {
			cfg.Color = conf.Cover.Color
		}
		if !f.Changed("noise") {
			cfg.Noise = conf.Cover.Noise
		}
		if !f.Changed("font") {
			cfg.FontPath = conf.Cover.Font
		}

		path, err := generator.Generate(generateOpts.output, cfg)
		if err != nil {
			return err
		}
		log.Info().Str("output", path).Int("width", cfg.Width).Int("height", cfg.Height).Msg("cover generated")
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateOpts.output, "output", "o", "", "Output file (.png or .bmp)")
	f.IntVarP(&generateOpts.cfg.Width, "width", "w", generator.DefaultWidth, "Width in pixels")
	f.IntVar(&generateOpts.cfg.Height, "height", generator.DefaultHeight, "Height in pixels")
	f.StringVar(&generateOpts.cfg.Color, "color", "random", "Background color: hex or 'random'")
	f.IntVar(&generateOpts.cfg.Noise, "noise", 2, "Per-sample noise amplitude (0 disables)")
	f.Int64Var(&generateOpts.cfg.Seed, "seed", 0, "Noise seed (0 = random)")
	f.StringVar(&generateOpts.cfg.Caption, "caption", "", "Text drawn on the cover")
	f.StringVar(&generateOpts.cfg.CaptionColor, "caption-color", "", "Caption color: hex or 'random' (default black or white)")
	f.StringVar(&generateOpts.cfg.FontPath, "font", "", "TTF/OTF font for the caption")
	_ = generateCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(generateCmd)
}
