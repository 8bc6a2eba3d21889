package commands

import (
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	cmd := rootCmd
	if cmd.Use != "gemchat [prompt]" {
		t.Errorf("Expected use 'gemchat [prompt]', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestRootCommand_Args(t *testing.T) {
	// Argument validation (cobra.MaximumNArgs(1)) is enforced by Cobra;
	// here we only check it is configured
	if rootCmd.Args == nil {
		t.Error("Args validation should be configured")
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	// Model and persona flags are persistent so subcommands inherit them
	for _, flagName := range []string{"model", "persona"} {
		t.Run(flagName+" flag (persistent)", func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(flagName)
			if flag == nil {
				t.Errorf("PersistentFlag %s not found", flagName)
			}
		})
	}

	// Local flags on rootCmd
	localFlags := []string{"output", "file", "copy", "timeout", "version"}
	for _, flagName := range localFlags {
		t.Run(flagName+" flag", func(t *testing.T) {
			flag := rootCmd.Flags().Lookup(flagName)
			if flag == nil {
				t.Errorf("Flag %s not found", flagName)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	expectedSubcommands := []string{"chat", "config", "persona"}

	for _, sub := range expectedSubcommands {
		t.Run("subcommand "+sub, func(t *testing.T) {
			found := false
			for _, cmd := range rootCmd.Commands() {
				if cmd.Name() == sub {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Subcommand %s not found", sub)
			}
		})
	}
}

func TestVersionInfo(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" {
		t.Error("BuildTime should not be empty")
	}
}
