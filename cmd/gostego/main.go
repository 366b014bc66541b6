// GoStego — hide text or images in the least-significant bits of a cover image.
//
// Usage:
//
//	gostego encode-text  -c cover.png -o out.png (--text "..." | --file msg.txt)
//	gostego encode-image -c cover.png -s secret.png -o out.png [--fit]
//	gostego decode-text  -c out.png [-o msg.txt]
//	gostego decode-image -c out.png -o secret.png
//	gostego capacity cover.png
//	gostego generate -o cover.png [--width 1280 --height 720 --color random]
//	gostego serve [--addr :8080]
//	gostego init
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xob0t/GoStego/pkg/config"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	conf       *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "gostego",
	Short:         "Hide text or images in the LSBs of a cover image",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		conf, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			conf.LogLevel = logLevel
		}
		return setupLogger(conf.LogLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to gostego.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func setupLogger(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
