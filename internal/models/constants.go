// Package models contains data types and constants for the gemchat client.
package models

// DefaultBaseURL is the generative-language API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Generation defaults
const (
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 65536
)

// DefaultSystemInstruction is the assistant persona sent with every request
// unless the user selects a different one.
const DefaultSystemInstruction = "You are a helpful assistant. Answer clearly and keep responses concise unless the user asks for more depth."

// ApologyText is the fixed reply substituted for a response that failed
// mid-stream. It is appended as its own settled turn; partial text from the
// failed stream is discarded.
const ApologyText = "Sorry, something went wrong while generating a response. Please try again."

// Model represents an available generative model
type Model struct {
	Name        string
	Description string
}

// Available models
var (
	// ModelUnspecified lets the server pick its default
	ModelUnspecified = Model{
		Name: "unspecified",
	}

	Model3Flash = Model{
		Name:        "gemini-3-flash-preview",
		Description: "Fast responses, 1M context",
	}

	Model3Pro = Model{
		Name:        "gemini-3-pro-preview",
		Description: "Strongest reasoning",
	}

	Model25Flash = Model{
		Name:        "gemini-2.5-flash",
		Description: "Previous generation, fast",
	}

	Model25Pro = Model{
		Name:        "gemini-2.5-pro",
		Description: "Previous generation, reasoning",
	}

	// DefaultModel is the recommended default
	DefaultModel = Model3Flash
)

// AllModels returns a list of all available models
func AllModels() []Model {
	return []Model{Model3Flash, Model3Pro, Model25Flash, Model25Pro}
}

// ModelFromName returns a Model by its name. Unknown names are passed
// through unchanged so newly released model IDs work without a client
// update.
func ModelFromName(name string) Model {
	switch name {
	case "", "unspecified":
		return ModelUnspecified
	case Model3Flash.Name:
		return Model3Flash
	case Model3Pro.Name:
		return Model3Pro
	case Model25Flash.Name:
		return Model25Flash
	case Model25Pro.Name:
		return Model25Pro
	default:
		return Model{Name: name}
	}
}
