package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pln-iconplus/cvo-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with all defaults",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("path")
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the active configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("path", "config.yaml", "destination path")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
