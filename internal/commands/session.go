package commands

import (
	"fmt"
	"os"

	"github.com/diogo/gemchat/internal/api"
	"github.com/diogo/gemchat/internal/chat"
	"github.com/diogo/gemchat/internal/config"
	"github.com/diogo/gemchat/internal/models"
)

// resolvedPersona is the persona applied to a session after flag and
// config precedence is settled.
type resolvedPersona struct {
	Name        string
	Instruction string
	Model       string
}

// resolvePersonaFlag resolves the active persona: the --persona flag wins
// over the config file, and a blank result falls back to the built-in
// default persona.
func resolvePersonaFlag(cfg config.Config) (resolvedPersona, error) {
	name := personaFlag
	if name == "" {
		name = cfg.Persona
	}
	if name == "" {
		instruction, err := config.ResolveInstruction("")
		if err != nil {
			return resolvedPersona{}, err
		}
		return resolvedPersona{Name: config.DefaultPersonaName, Instruction: instruction}, nil
	}

	persona, err := config.GetPersona(name)
	if err != nil {
		return resolvedPersona{}, fmt.Errorf("failed to load persona '%s': %w", name, err)
	}
	return resolvedPersona{
		Name:        persona.Name,
		Instruction: persona.Instruction,
		Model:       persona.Model,
	}, nil
}

// createChatSession builds the API client and a fresh chat session from
// the resolved configuration. The model precedence is flag, then persona
// preference, then config. The returned name is the model actually in use.
func createChatSession(cfg config.Config, opts ...chat.SessionOption) (*chat.Session, string, error) {
	persona, err := resolvePersonaFlag(cfg)
	if err != nil {
		return nil, "", err
	}

	modelName := modelFlag
	if modelName == "" {
		modelName = persona.Model
	}
	if modelName == "" {
		modelName = cfg.Model
	}
	model := models.ModelFromName(modelName)

	clientOpts := []api.ClientOption{
		api.WithModel(model),
		api.WithSystemInstruction(persona.Instruction),
		api.WithTemperature(cfg.Temperature),
	}
	if base := os.Getenv(config.EnvBaseURL); base != "" {
		clientOpts = append(clientOpts, api.WithBaseURL(base))
	}
	if timeoutFlag > 0 {
		clientOpts = append(clientOpts, api.WithTimeout(timeoutFlag))
	}

	client, err := api.NewClient(cfg.ResolveAPIKey(), clientOpts...)
	if err != nil {
		return nil, "", err
	}

	return chat.NewSession(client, opts...), model.Name, nil
}
