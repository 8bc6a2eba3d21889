package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/gemchat/internal/config"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with Gemini.

The chat maintains conversation context across messages.
Press Ctrl+N for a fresh conversation, Ctrl+C or Esc to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	cfg, _ := config.LoadConfig()

	session, modelName, err := createChatSession(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to start chat"))
		return err
	}

	// Run chat TUI
	return deps.TUI.RunChat(session, modelName)
}
