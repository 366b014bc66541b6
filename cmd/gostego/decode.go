package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/stego"
)

var decodeTextOpts struct {
	cover, output, charset string
}

var decodeTextCmd = &cobra.Command{
	Use:   "decode-text",
	Short: "Extract hidden text",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o := &decodeTextOpts
		if o.charset == "" {
			o.charset = conf.Text.Charset
		}
		img, err := imageio.Load(o.cover)
		if err != nil {
			return err
		}
		payload, err := stego.RevealText(img, conf.Decoder())
		if err != nil {
			return fmt.Errorf("decode text: %w", err)
		}
		text, err := payloadToText(payload, o.charset)
		if err != nil {
			return err
		}

		if o.output == "" {
			_, err = cmd.OutOrStdout().Write(text)
			return err
		}
		output := o.output
		if filepath.Ext(output) == "" {
			output += ".txt"
		}
		if err := os.WriteFile(output, text, 0644); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
		log.Info().Str("output", output).Int("bytes", len(text)).Msg("text extracted")
		return nil
	},
}

var decodeImageOpts struct {
	cover, output string
}

var decodeImageCmd = &cobra.Command{
	Use:   "decode-image",
	Short: "Extract a hidden image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o := &decodeImageOpts
		img, err := imageio.Load(o.cover)
		if err != nil {
			return err
		}
		secret, err := stego.RevealImage(img, conf.Decoder())
		if err != nil {
			return fmt.Errorf("decode image: %w", err)
		}
		return saveStego(o.output, secret)
	},
}

func init() {
	f := decodeTextCmd.Flags()
	f.StringVarP(&decodeTextOpts.cover, "cover", "c", "", "Image carrying the text")
	f.StringVarP(&decodeTextOpts.output, "output", "o", "", "Write text to file instead of stdout (.txt added if no extension)")
	f.StringVar(&decodeTextOpts.charset, "charset", "", "Output charset: utf-8 or latin1 (default from config)")
	_ = decodeTextCmd.MarkFlagRequired("cover")

	f = decodeImageCmd.Flags()
	f.StringVarP(&decodeImageOpts.cover, "cover", "c", "", "Image carrying the secret image")
	f.StringVarP(&decodeImageOpts.output, "output", "o", "", "Output image (.png or .bmp)")
	_ = decodeImageCmd.MarkFlagRequired("cover")
	_ = decodeImageCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(decodeTextCmd, decodeImageCmd)
}
