package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/gemchat/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(d *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure gemchat settings.

The show, set and path subcommands read and write individual settings
without opening the menu.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if d != nil && d.TUI != nil {
				return d.TUI.RunConfig()
			}
			return deps.TUI.RunConfig()
		},
	}
}

// Backward compatibility global
var configCmd = NewConfigCmd(nil)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Keys:
  api_key            Gemini API key (GEMINI_API_KEY overrides it)
  model              Default model name
  persona            Active persona name
  temperature        Sampling temperature (0.0 to 2.0)
  copy_to_clipboard  Copy replies to the clipboard (true/false)
  theme              Color theme (dark/light)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "api_key\t%s\n", describeAPIKey(cfg))
	_, _ = fmt.Fprintf(w, "model\t%s\n", cfg.Model)
	_, _ = fmt.Fprintf(w, "persona\t%s\n", cfg.Persona)
	_, _ = fmt.Fprintf(w, "temperature\t%.1f\n", cfg.Temperature)
	_, _ = fmt.Fprintf(w, "copy_to_clipboard\t%t\n", cfg.CopyToClipboard)
	_, _ = fmt.Fprintf(w, "theme\t%s\n", cfg.Theme)
	return w.Flush()
}

// describeAPIKey reports where the key comes from without printing it whole.
func describeAPIKey(cfg config.Config) string {
	switch {
	case os.Getenv(config.EnvAPIKey) != "":
		return "(from " + config.EnvAPIKey + ")"
	case cfg.APIKey != "":
		return maskKey(cfg.APIKey)
	default:
		return "(not set)"
	}
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch key {
	case "api_key":
		cfg.APIKey = value
	case "model":
		cfg.Model = value
	case "persona":
		if _, err := config.GetPersona(value); err != nil {
			return err
		}
		cfg.Persona = value
	case "temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature '%s': %w", value, err)
		}
		cfg.Temperature = t
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean '%s': %w", value, err)
		}
		cfg.CopyToClipboard = b
	case "theme":
		cfg.Theme = value
	default:
		return fmt.Errorf("unknown config key '%s'", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Set %s.\n", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
