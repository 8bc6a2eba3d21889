package commands

import (
	"testing"

	"github.com/diogo/gemchat/internal/config"
)

func TestPersonaCommand(t *testing.T) {
	// Test that the command is properly configured
	if personaCmd.Use != "persona" {
		t.Errorf("Expected use 'persona', got %s", personaCmd.Use)
	}

	if personaCmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	// Test that subcommands are registered
	expectedSubcommands := []string{"list", "show", "add", "remove", "use"}
	for _, sub := range expectedSubcommands {
		found := false
		for _, cmd := range personaCmd.Commands() {
			if cmd.Name() == sub {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Subcommand %s not found", sub)
		}
	}
}

func TestPersonaListCommand(t *testing.T) {
	if personaListCmd.Use != "list" {
		t.Errorf("Expected use 'list', got %s", personaListCmd.Use)
	}

	if personaListCmd.RunE == nil {
		t.Error("RunE should not be nil")
	}
}

func TestPersonaShowCommand(t *testing.T) {
	if personaShowCmd.Use != "show <name>" {
		t.Errorf("Expected use 'show <name>', got %s", personaShowCmd.Use)
	}

	if personaShowCmd.RunE == nil {
		t.Error("RunE should not be nil")
	}

	// Verify Args validation is configured
	if personaShowCmd.Args == nil {
		t.Error("Args validation should be configured")
	}
}

func TestPersonaRemoveCommand(t *testing.T) {
	if personaRemoveCmd.Use != "remove <name>" {
		t.Errorf("Expected use 'remove <name>', got %s", personaRemoveCmd.Use)
	}

	if personaRemoveCmd.RunE == nil {
		t.Error("RunE should not be nil")
	}
}

func TestPersonaUseCommand(t *testing.T) {
	if personaUseCmd.Use != "use <name>" {
		t.Errorf("Expected use 'use <name>', got %s", personaUseCmd.Use)
	}

	if personaUseCmd.RunE == nil {
		t.Error("RunE should not be nil")
	}
}

// Test the persona workflow against a temporary config directory
func TestPersonaCommands_WithConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	// Create a test persona
	persona := config.Persona{
		Name:        "test-persona",
		Description: "Test persona",
		Instruction: "You are a test assistant.",
	}
	if err := config.AddPersona(persona); err != nil {
		t.Fatalf("Failed to add persona: %v", err)
	}

	// use switches the active persona in the main config
	if err := runPersonaUse(nil, []string{"test-persona"}); err != nil {
		t.Fatalf("runPersonaUse() error = %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Persona != "test-persona" {
		t.Errorf("active persona = %q, want test-persona", cfg.Persona)
	}

	// use refuses unknown personas
	if err := runPersonaUse(nil, []string{"ghost"}); err == nil {
		t.Error("expected error for unknown persona")
	}

	// remove deletes and falls the active persona back to the default
	if err := runPersonaRemove(nil, []string{"test-persona"}); err != nil {
		t.Fatalf("runPersonaRemove() error = %v", err)
	}
	cfg, err = config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Persona != config.DefaultPersonaName {
		t.Errorf("active persona = %q, want %q", cfg.Persona, config.DefaultPersonaName)
	}

	if _, err := config.GetPersona("test-persona"); err == nil {
		t.Error("expected persona to be gone after remove")
	}

	// The built-in default persona cannot be removed
	if err := runPersonaRemove(nil, []string{config.DefaultPersonaName}); err == nil {
		t.Error("expected error when removing the default persona")
	}
}
