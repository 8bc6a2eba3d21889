package commands

import (
	"github.com/diogo/gemchat/internal/chat"
	"github.com/diogo/gemchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(session *chat.Session, modelName string) error
	RunConfig() error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// TUI is the terminal user interface.
	TUI TUIInterface
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(session *chat.Session, modelName string) error {
	return tui.RunChat(session, modelName)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI: &DefaultTUI{},
	}
}

// deps is the package-wide dependency set; tests swap pieces out.
var deps = NewDependencies()
