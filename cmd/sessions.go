package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kanbot/convo"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved conversation sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		boardDir, err := BoardDir()
		if err != nil {
			return err
		}

		sessions, err := convo.ListSessions(boardDir)
		if err != nil {
			return err
		}

		if len(sessions) == 0 {
			fmt.Println("No saved sessions.")
			return nil
		}

		for _, id := range sessions {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
