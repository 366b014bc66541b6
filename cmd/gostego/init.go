package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xob0t/GoStego/pkg/config"
)

var initOutput string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(initOutput, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", initOutput)
		fmt.Fprintf(cmd.OutOrStdout(), "Run: gostego --config %s capacity cover.png\n", initOutput)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "gostego.yaml", "Output path for the config")
	rootCmd.AddCommand(initCmd)
}
