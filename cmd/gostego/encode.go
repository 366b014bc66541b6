package main

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/stego"
)

var encodeTextOpts struct {
	cover, output, text, file, charset string
}

var encodeTextCmd = &cobra.Command{
	Use:   "encode-text",
	Short: "Hide text in a cover image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o := &encodeTextOpts
		if o.charset == "" {
			o.charset = conf.Text.Charset
		}
		text, err := readText(o.text, o.file)
		if err != nil {
			return err
		}
		payload, err := textToPayload(text, o.charset)
		if err != nil {
			return err
		}

		cover, err := imageio.Load(o.cover)
		if err != nil {
			return err
		}
		log.Debug().Int("bytes", len(payload)).Int("capacity", stego.Capacity(cover).TextBytes).Msg("encoding text")

		img, err := stego.HideText(cover, payload)
		if err != nil {
			return fmt.Errorf("encode text: %w", err)
		}
		return saveStego(o.output, img)
	},
}

var encodeImageOpts struct {
	cover, secret, output string
	fit                   bool
}

var encodeImageCmd = &cobra.Command{
	Use:   "encode-image",
	Short: "Hide an image in a cover image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o := &encodeImageOpts
		cover, err := imageio.Load(o.cover)
		if err != nil {
			return err
		}
		secret, err := imageio.Load(o.secret)
		if err != nil {
			return fmt.Errorf("secret must be an image: %w", err)
		}

		img, err := stego.HideImage(cover, secret, o.fit)
		if err != nil {
			return fmt.Errorf("encode image: %w", err)
		}
		return saveStego(o.output, img)
	},
}

func init() {
	f := encodeTextCmd.Flags()
	f.StringVarP(&encodeTextOpts.cover, "cover", "c", "", "Cover image")
	f.StringVarP(&encodeTextOpts.output, "output", "o", "", "Output image (.png or .bmp)")
	f.StringVarP(&encodeTextOpts.text, "text", "t", "", "Text to hide")
	f.StringVarP(&encodeTextOpts.file, "file", "f", "", "Text file to hide")
	f.StringVar(&encodeTextOpts.charset, "charset", "", "Input charset: utf-8 or latin1 (default from config)")
	_ = encodeTextCmd.MarkFlagRequired("cover")
	_ = encodeTextCmd.MarkFlagRequired("output")

	f = encodeImageCmd.Flags()
	f.StringVarP(&encodeImageOpts.cover, "cover", "c", "", "Cover image")
	f.StringVarP(&encodeImageOpts.secret, "secret", "s", "", "Secret image")
	f.StringVarP(&encodeImageOpts.output, "output", "o", "", "Output image (.png or .bmp)")
	f.BoolVar(&encodeImageOpts.fit, "fit", false, "Downscale the secret if it does not fit")
	_ = encodeImageCmd.MarkFlagRequired("cover")
	_ = encodeImageCmd.MarkFlagRequired("secret")
	_ = encodeImageCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(encodeTextCmd, encodeImageCmd)
}

// saveStego writes img losslessly. A path without extension gets the
// configured output format.
func saveStego(output string, img image.Image) error {
	if filepath.Ext(output) == "" {
		output += "." + conf.OutputFormat
	}
	path, err := imageio.Save(output, img)
	if err != nil {
		return err
	}
	log.Info().Str("output", path).Msg("image written")
	return nil
}
