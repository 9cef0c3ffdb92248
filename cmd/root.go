package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"kanbot/board"
	"kanbot/config"
	"kanbot/convo"
	"kanbot/events"
	"kanbot/llm"
	"kanbot/mutation"
	"kanbot/tui"
)

var continueSession bool

var rootCmd = &cobra.Command{
	Use:   "kanbot",
	Short: "Kanbot is a terminal AI copilot for your personal task board",
	Long: `Kanbot is a terminal AI copilot for your personal task board.
Describe what you want in plain language; Kanbot proposes a set of
task changes and applies them only after you confirm.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		boardDir, err := BoardDir()
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig(boardDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cfg.Debug {
			log.SetLevel(log.DebugLevel)
		}

		adapter, err := llm.CreateAdapter(cfg.Model, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return err
		}

		store, err := board.OpenFileStore(filepath.Join(boardDir, "board.json"))
		if err != nil {
			return err
		}

		conversation := convo.New(mutation.NewService(adapter), store)
		conversation.SetMaxMessages(cfg.MaxMessages)

		var history *convo.History
		if continueSession {
			history, err = convo.LoadLatestHistory(boardDir)
			if err != nil {
				return err
			}
		} else {
			history = convo.NewHistory(boardDir)
		}
		if err := conversation.SetHistory(history); err != nil {
			return err
		}

		bus := events.NewBus()
		conversation.SetBus(bus)

		return tui.StartTUI(conversation, store, cfg, bus)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&continueSession, "continue", "c", false, "Continue the most recent conversation")
}

// BoardDir returns the directory holding the board, config, and
// history files. KANBOT_HOME overrides the default of ~/.kanbot.
func BoardDir() (string, error) {
	if dir := os.Getenv("KANBOT_HOME"); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".kanbot"), nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
