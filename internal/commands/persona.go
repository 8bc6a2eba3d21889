package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/gemchat/internal/config"
)

var personaCmd = &cobra.Command{
	Use:   "persona",
	Short: "Manage chat personas",
	Long:  `View and manage personas (system instructions) for chat sessions.`,
}

var personaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available personas",
	RunE:  runPersonaList,
}

var personaShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show persona details",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonaShow,
}

var personaAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new persona",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonaAdd,
}

var personaRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"delete"},
	Short:   "Remove a persona",
	Args:    cobra.ExactArgs(1),
	RunE:    runPersonaRemove,
}

var personaUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active persona",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonaUse,
}

func init() {
	personaCmd.AddCommand(personaListCmd)
	personaCmd.AddCommand(personaShowCmd)
	personaCmd.AddCommand(personaAddCmd)
	personaCmd.AddCommand(personaRemoveCmd)
	personaCmd.AddCommand(personaUseCmd)
}

func runPersonaList(cmd *cobra.Command, args []string) error {
	personas, err := config.LoadPersonas()
	if err != nil {
		return fmt.Errorf("failed to load personas: %w", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tDESCRIPTION\tACTIVE")
	_, _ = fmt.Fprintln(w, "----\t-----------\t------")

	for _, p := range personas.Personas {
		active := ""
		if p.Name == cfg.Persona {
			active = "✓"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Description, active)
	}

	return w.Flush()
}

func runPersonaShow(cmd *cobra.Command, args []string) error {
	persona, err := config.GetPersona(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Name: %s\n", persona.Name)
	fmt.Printf("Description: %s\n", persona.Description)
	if persona.Model != "" {
		fmt.Printf("Preferred Model: %s\n", persona.Model)
	}
	fmt.Printf("\nInstruction:\n%s\n", persona.Instruction)

	return nil
}

func runPersonaAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Check if already exists
	if _, err := config.GetPersona(name); err == nil {
		return fmt.Errorf("persona '%s' already exists", name)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Enter description: ")
	desc, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	desc = strings.TrimSpace(desc)

	fmt.Println("Enter system instruction (end with an empty line):")
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimRight(line, "\n\r")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	instruction := strings.Join(lines, "\n")

	persona := config.Persona{
		Name:        name,
		Description: desc,
		Instruction: instruction,
	}

	if err := config.AddPersona(persona); err != nil {
		return err
	}

	fmt.Printf("Persona '%s' created.\n", name)
	return nil
}

func runPersonaRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := config.DeletePersona(name); err != nil {
		return err
	}

	// Fall back to the default persona when the active one goes away
	cfg, err := config.LoadConfig()
	if err == nil && cfg.Persona == name {
		cfg.Persona = config.DefaultPersonaName
		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
	}

	fmt.Printf("Persona '%s' removed.\n", name)
	return nil
}

func runPersonaUse(cmd *cobra.Command, args []string) error {
	name := args[0]

	if _, err := config.GetPersona(name); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Persona = name
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Now using persona '%s'.\n", name)
	return nil
}
