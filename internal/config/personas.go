package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/diogo/gemchat/internal/models"
)

// DefaultPersonaName is the built-in persona every install starts with.
const DefaultPersonaName = "default"

// Persona represents a named system instruction
type Persona struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Instruction string  `json:"instruction"`
	Model       string  `json:"model,omitempty"`       // Preferred model (optional)
	Temperature float64 `json:"temperature,omitempty"` // For future use
}

// PersonaConfig stores all personas. The active persona lives in the main
// config file, not here, so the catalog can be shared between machines.
type PersonaConfig struct {
	Personas []Persona `json:"personas"`
}

// DefaultPersonas returns pre-configured personas
func DefaultPersonas() []Persona {
	return []Persona{
		{
			Name:        DefaultPersonaName,
			Description: "General-purpose assistant",
			Instruction: models.DefaultSystemInstruction,
		},
		{
			Name:        "coder",
			Description: "Expert programmer assistant",
			Instruction: `You are an expert software engineer. When answering:
- Show working code before explaining it
- Prefer standard library solutions and name the tradeoffs of dependencies
- Point out bugs, race conditions, and edge cases you notice
- Keep explanations short; the code should speak for itself`,
		},
		{
			Name:        "writer",
			Description: "Creative writing assistant",
			Instruction: `You are a creative writing assistant. Your goal is to:
- Help with creative writing, storytelling, and content creation
- Provide suggestions that enhance narrative flow
- Maintain consistent tone and style
- Offer multiple alternatives when asked
- Be concise but evocative in descriptions`,
		},
		{
			Name:        "analyst",
			Description: "Data and business analyst",
			Instruction: `You are a data and business analyst. You should:
- Analyze information methodically
- Present findings in structured formats
- Use data to support conclusions
- Consider multiple perspectives
- Highlight key insights and actionable recommendations`,
		},
		{
			Name:        "teacher",
			Description: "Patient educational assistant",
			Instruction: `You are a patient and thorough teacher. When explaining:
- Break down complex topics into simple parts
- Use analogies and examples
- Check understanding progressively
- Encourage questions
- Adapt explanations to the learner's level`,
		},
	}
}

// LoadPersonas loads the persona configuration
func LoadPersonas() (*PersonaConfig, error) {
	path, err := GetPersonasPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if file doesn't exist
			return &PersonaConfig{Personas: DefaultPersonas()}, nil
		}
		return nil, fmt.Errorf("failed to read personas: %w", err)
	}

	var config PersonaConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse personas: %w", err)
	}

	// Merge with defaults (keep user customizations)
	config.Personas = mergePersonas(DefaultPersonas(), config.Personas)

	return &config, nil
}

// SavePersonas saves the persona configuration
func SavePersonas(config *PersonaConfig) error {
	path, err := GetPersonasPath()
	if err != nil {
		return err
	}

	// Ensure config directory exists
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal personas: %w", err)
	}

	// Use 0o600 for user data (personas may contain custom instructions)
	return os.WriteFile(path, data, 0o600)
}

// GetPersona returns a persona by name
func GetPersona(name string) (*Persona, error) {
	config, err := LoadPersonas()
	if err != nil {
		return nil, err
	}

	for _, p := range config.Personas {
		if p.Name == name {
			return &p, nil
		}
	}

	return nil, fmt.Errorf("persona '%s' not found", name)
}

// ListPersonaNames returns the names of all personas
func ListPersonaNames() ([]string, error) {
	config, err := LoadPersonas()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(config.Personas))
	for i, p := range config.Personas {
		names[i] = p.Name
	}
	return names, nil
}

// AddPersona adds a new persona
func AddPersona(persona Persona) error {
	if err := ValidatePersona(persona); err != nil {
		return err
	}

	config, err := LoadPersonas()
	if err != nil {
		return err
	}

	// Check if exists
	for _, p := range config.Personas {
		if p.Name == persona.Name {
			return fmt.Errorf("persona '%s' already exists", persona.Name)
		}
	}

	config.Personas = append(config.Personas, persona)
	return SavePersonas(config)
}

// UpdatePersona updates an existing persona
func UpdatePersona(persona Persona) error {
	if err := ValidatePersona(persona); err != nil {
		return err
	}

	config, err := LoadPersonas()
	if err != nil {
		return err
	}

	found := false
	for i, p := range config.Personas {
		if p.Name == persona.Name {
			config.Personas[i] = persona
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("persona '%s' not found", persona.Name)
	}

	return SavePersonas(config)
}

// DeletePersona removes a persona by name
func DeletePersona(name string) error {
	if name == DefaultPersonaName {
		return fmt.Errorf("cannot delete the default persona")
	}

	config, err := LoadPersonas()
	if err != nil {
		return err
	}

	newPersonas := make([]Persona, 0, len(config.Personas))
	found := false
	for _, p := range config.Personas {
		if p.Name == name {
			found = true
			continue
		}
		newPersonas = append(newPersonas, p)
	}

	if !found {
		return fmt.Errorf("persona '%s' not found", name)
	}

	config.Personas = newPersonas
	return SavePersonas(config)
}

// ResolveInstruction returns the system instruction for the named persona.
// An empty name resolves to the built-in default.
func ResolveInstruction(name string) (string, error) {
	if name == "" {
		name = DefaultPersonaName
	}

	persona, err := GetPersona(name)
	if err != nil {
		return "", err
	}

	return persona.Instruction, nil
}

func mergePersonas(defaults, custom []Persona) []Persona {
	result := make([]Persona, len(defaults))
	copy(result, defaults)

	// Add or replace with custom
	for _, cp := range custom {
		found := false
		for i, dp := range result {
			if dp.Name == cp.Name {
				result[i] = cp
				found = true
				break
			}
		}
		if !found {
			result = append(result, cp)
		}
	}

	return result
}

// Validation constants
const (
	MaxNameLength        = 50
	MaxDescriptionLength = 200
	MaxInstructionLength = 32 * 1024 // 32KB
)

// ValidatePersona validates a persona's fields
func ValidatePersona(p Persona) error {
	fieldErrors := make(map[string]string)

	// Validate name
	if p.Name == "" {
		fieldErrors["name"] = "name is required"
	} else if len(p.Name) > MaxNameLength {
		fieldErrors["name"] = fmt.Sprintf("name too long (max %d characters)", MaxNameLength)
	} else if !isValidPersonaName(p.Name) {
		fieldErrors["name"] = "name must contain only alphanumeric characters, underscores, and hyphens"
	}

	// Validate description (optional but has max length)
	if len(p.Description) > MaxDescriptionLength {
		fieldErrors["description"] = fmt.Sprintf("description too long (max %d characters)", MaxDescriptionLength)
	}

	// Validate instruction
	if len(p.Instruction) > MaxInstructionLength {
		fieldErrors["instruction"] = fmt.Sprintf("instruction too long (max %d characters)", MaxInstructionLength)
	}

	if len(fieldErrors) > 0 {
		return fmt.Errorf("validation failed: %v", fieldErrors)
	}

	return nil
}

// isValidPersonaName checks if a persona name contains only valid characters
func isValidPersonaName(name string) bool {
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-') {
			return false
		}
	}
	return true
}
