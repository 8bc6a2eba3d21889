// Package commands provides CLI commands for gemchat.
package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	modelFlag   string
	personaFlag string
	outputFlag  string
	fileFlag    string
	copyFlag    bool
	timeoutFlag time.Duration

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gemchat [prompt]",
	Short: "Chat with Google Gemini from the terminal",
	Long: `gemchat is a command-line client for the Gemini API. Replies stream
into the terminal as the model produces them.

Examples:
  gemchat chat                        Start interactive chat
  gemchat config                      Configure settings
  gemchat "What is Go?"               Send a single query
  gemchat -p coder "Review this"      Query with a persona
  gemchat -f prompt.md                Read prompt from file
  cat prompt.md | gemchat             Read prompt from stdin
  gemchat "Hello" -o response.md      Save response to file`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check for version flag
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("gemchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		// Check for stdin input
		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		// Check for file input
		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		// Check for stdin
		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		// Check for positional argument
		if len(args) > 0 {
			return runQuery(args[0], !isStdoutTTY())
		}

		// No input - show help
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (e.g., gemini-3-pro-preview)")
	rootCmd.PersistentFlags().StringVarP(&personaFlag, "persona", "p", "", "Persona whose instruction shapes the reply")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolVarP(&copyFlag, "copy", "c", false, "Copy response to clipboard")
	rootCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Abort the request after this duration (e.g., 90s)")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(personaCmd)
}
