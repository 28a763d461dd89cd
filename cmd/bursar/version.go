package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwhitfield/bursar/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the bursar version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("bursar %s\n", cfg.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
