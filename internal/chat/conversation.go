package chat

import (
	"strings"
	"sync"

	apierrors "github.com/diogo/gemchat/internal/errors"
	"github.com/diogo/gemchat/internal/models"
)

// Conversation is the ordered, append-only turn sequence for one chat.
// Turns are never reordered; the only in-place mutation is the text and
// streaming flag of the open placeholder. Nothing is persisted beyond
// process memory.
type Conversation struct {
	mu    sync.RWMutex
	turns []*Turn
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// AppendUser appends a user turn. Empty or whitespace-only text is rejected
// with ErrEmptyPrompt and the sequence is left untouched.
func (c *Conversation) AppendUser(text string) error {
	if strings.TrimSpace(text) == "" {
		return apierrors.ErrEmptyPrompt
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, NewUserTurn(text))
	return nil
}

// AppendModelPlaceholder opens the streaming placeholder for the next
// reply. At most one turn may be streaming at a time, so the call is
// ignored while a placeholder is already open.
func (c *Conversation) AppendModelPlaceholder() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openPlaceholder() != nil {
		return
	}
	c.turns = append(c.turns, NewModelPlaceholder())
}

// ApplyChunk replaces the open placeholder's text with the full accumulated
// string. Callers concatenate fragments themselves and pass the running
// total; replacing instead of appending keeps re-delivery of the same
// cumulative value idempotent.
func (c *Conversation) ApplyChunk(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	turn := c.openPlaceholder()
	if turn == nil {
		return apierrors.ErrNoOpenTurn
	}
	turn.Text = text
	return nil
}

// Settle marks the open placeholder as finished, freezing its text.
func (c *Conversation) Settle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if turn := c.openPlaceholder(); turn != nil {
		turn.Streaming = false
	}
}

// Fail closes a failed exchange: the open placeholder is removed together
// with any partial text, and a brand-new settled model turn carrying the
// given reply takes its place. With no placeholder open the reply turn is
// simply appended. Either way the exchange ends with exactly one terminal
// model turn.
func (c *Conversation) Fail(reply string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openPlaceholder() != nil {
		c.turns = c.turns[:len(c.turns)-1]
	}
	c.turns = append(c.turns, NewModelTurn(reply))
}

// Reset clears the sequence.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}

// History maps the current turns into the wire shape used to seed context
// for the next request. Turns without text are skipped. Callers snapshot
// this before appending the new user turn, so a prompt never rides along
// with itself as context.
func (c *Conversation) History() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	history := make([]models.Message, 0, len(c.turns))
	for _, turn := range c.turns {
		if turn.Text == "" {
			continue
		}
		history = append(history, models.Message{Role: turn.Role, Text: turn.Text})
	}
	return history
}

// Turns returns a snapshot copy of the sequence for display.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	turns := make([]Turn, len(c.turns))
	for i, turn := range c.turns {
		turns[i] = *turn
	}
	return turns
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// LastText returns the text of the last turn, or "" for an empty sequence.
func (c *Conversation) LastText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.turns) == 0 {
		return ""
	}
	return c.turns[len(c.turns)-1].Text
}

// LastModelText returns the text of the most recent model turn, streaming
// or settled, or "" if there is none.
func (c *Conversation) LastModelText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.turns) - 1; i >= 0; i-- {
		if c.turns[i].Role == models.RoleModel {
			return c.turns[i].Text
		}
	}
	return ""
}

// openPlaceholder returns the streaming model turn, or nil if none is
// open. Only the last turn can be streaming. Callers must hold mu.
func (c *Conversation) openPlaceholder() *Turn {
	if len(c.turns) == 0 {
		return nil
	}
	last := c.turns[len(c.turns)-1]
	if last.Role == models.RoleModel && last.Streaming {
		return last
	}
	return nil
}
