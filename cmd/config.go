package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kanbot/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage kanbot configuration",
	Long:  `Get and set configuration values for kanbot`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		boardDir, err := BoardDir()
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig(boardDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		value, err := cfg.Get(key)
		if err != nil {
			return err
		}

		fmt.Printf("%s = %v\n", key, value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := args[1]

		boardDir, err := BoardDir()
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig(boardDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := cfg.Set(key, value); err != nil {
			return err
		}

		if err := config.SaveLocalConfig(boardDir, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
