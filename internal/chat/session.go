package chat

import (
	"context"
	"strings"
	"sync/atomic"

	apierrors "github.com/diogo/gemchat/internal/errors"
	"github.com/diogo/gemchat/internal/models"
)

// Streamer produces the reply fragments for one prompt. Implementations
// send fragments in arrival order on the first channel and at most one
// terminal error on the second, and close both when the stream ends.
type Streamer interface {
	Stream(ctx context.Context, prompt string, history []models.Message) (<-chan string, <-chan error)
}

// Session states. Exactly one exchange may be in flight at a time; the
// state is transitioned with compare-and-swap so a second submission can
// never slip through, even off the UI goroutine.
const (
	StateIdle int32 = iota
	StateStreaming
)

// RenderHook is invoked after every conversation mutation so a
// presentation layer can reflect partial progress as it happens.
type RenderHook func()

// Session drives exchanges against the completion service and keeps its
// conversation consistent with partial progress.
type Session struct {
	conv     *Conversation
	streamer Streamer
	hook     RenderHook
	state    atomic.Int32
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHook sets the render hook invoked after each state change.
func WithHook(hook RenderHook) SessionOption {
	return func(s *Session) {
		s.hook = hook
	}
}

// NewSession creates a session with an empty conversation.
func NewSession(streamer Streamer, opts ...SessionOption) *Session {
	s := &Session{
		conv:     NewConversation(),
		streamer: streamer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Conversation returns the session's turn sequence.
func (s *Session) Conversation() *Conversation {
	return s.conv
}

// SetHook replaces the render hook. Call it before the first Send or
// between exchanges; swapping the hook mid-stream is not supported.
func (s *Session) SetHook(hook RenderHook) {
	s.hook = hook
}

// InFlight reports whether an exchange is currently streaming.
func (s *Session) InFlight() bool {
	return s.state.Load() == StateStreaming
}

// Send runs one exchange: it appends the user turn and a streaming
// placeholder, folds arriving fragments into the placeholder, and settles
// it when the stream ends. While an exchange is open further Sends are
// refused with ErrExchangeInFlight and empty prompts with ErrEmptyPrompt;
// neither touches the conversation. On stream failure the placeholder is
// replaced by the fixed apology turn and the cause is returned wrapped in
// a StreamError — the conversation stays usable for the next submission
// and the in-flight state is released on every path.
func (s *Session) Send(ctx context.Context, userText string) error {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return apierrors.ErrEmptyPrompt
	}
	if !s.state.CompareAndSwap(StateIdle, StateStreaming) {
		return apierrors.ErrExchangeInFlight
	}
	defer s.state.Store(StateIdle)

	// Snapshot before appending so the prompt is not duplicated into its
	// own context.
	history := s.conv.History()
	if err := s.conv.AppendUser(userText); err != nil {
		return err
	}
	s.notify()
	s.conv.AppendModelPlaceholder()
	s.notify()

	fragments, errs := s.streamer.Stream(ctx, userText, history)

	var total strings.Builder
	var applyErr error
	for fragment := range fragments {
		total.WriteString(fragment)
		if applyErr == nil {
			applyErr = s.conv.ApplyChunk(total.String())
			if applyErr == nil {
				s.notify()
			}
		}
	}

	err := <-errs
	if err == nil {
		err = applyErr
	}
	if err != nil {
		s.conv.Fail(models.ApologyText)
		s.notify()
		return apierrors.NewStreamError(total.String(), err)
	}

	s.conv.Settle()
	s.notify()
	return nil
}

// NewConversation discards the current turn sequence and reports whether
// it did. The reset takes the same in-flight gate as Send, so it cannot
// race an open exchange.
func (s *Session) NewConversation() bool {
	if !s.state.CompareAndSwap(StateIdle, StateStreaming) {
		return false
	}
	defer s.state.Store(StateIdle)

	s.conv.Reset()
	s.notify()
	return true
}

func (s *Session) notify() {
	if s.hook != nil {
		s.hook()
	}
}
