// Package chat owns the conversation state and the exchange engine that
// folds streamed reply fragments into it.
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/diogo/gemchat/internal/models"
)

// Turn is one message in the conversation, attributed to the user or the
// model. A model turn starts as an empty streaming placeholder whose text
// is rewritten in place while fragments arrive; once settled it never
// changes again. User turns are immutable from creation.
type Turn struct {
	ID        string
	Role      models.Role
	Text      string
	Streaming bool
	CreatedAt time.Time
}

// NewUserTurn creates a settled user turn.
func NewUserTurn(text string) *Turn {
	return &Turn{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// NewModelPlaceholder creates an empty model turn that is still streaming.
func NewModelPlaceholder() *Turn {
	return &Turn{
		ID:        uuid.NewString(),
		Role:      models.RoleModel,
		Streaming: true,
		CreatedAt: time.Now(),
	}
}

// NewModelTurn creates a settled model turn carrying the given text.
func NewModelTurn(text string) *Turn {
	return &Turn{
		ID:        uuid.NewString(),
		Role:      models.RoleModel,
		Text:      text,
		CreatedAt: time.Now(),
	}
}
