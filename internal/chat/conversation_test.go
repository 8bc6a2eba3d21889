package chat

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apierrors "github.com/diogo/gemchat/internal/errors"
	"github.com/diogo/gemchat/internal/models"
)

func TestAppendUser(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
		wantLen int
	}{
		{"simple text", "Hello", nil, 1},
		{"multiline text", "line one\nline two", nil, 1},
		{"empty", "", apierrors.ErrEmptyPrompt, 0},
		{"whitespace only", "   \n\t  ", apierrors.ErrEmptyPrompt, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := NewConversation()
			err := conv.AppendUser(tt.text)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AppendUser(%q) error = %v, want %v", tt.text, err, tt.wantErr)
			}
			if conv.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", conv.Len(), tt.wantLen)
			}
			if tt.wantErr == nil {
				turns := conv.Turns()
				if turns[0].Role != models.RoleUser {
					t.Errorf("Role = %s, want %s", turns[0].Role, models.RoleUser)
				}
				if turns[0].Text != tt.text {
					t.Errorf("Text = %q, want %q", turns[0].Text, tt.text)
				}
				if turns[0].Streaming {
					t.Error("user turns must never be streaming")
				}
				if turns[0].ID == "" {
					t.Error("turn ID should not be empty")
				}
			}
		})
	}
}

func TestAppendModelPlaceholder(t *testing.T) {
	conv := NewConversation()
	if err := conv.AppendUser("Hi"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}

	conv.AppendModelPlaceholder()
	if conv.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", conv.Len())
	}

	turns := conv.Turns()
	last := turns[len(turns)-1]
	if last.Role != models.RoleModel {
		t.Errorf("Role = %s, want %s", last.Role, models.RoleModel)
	}
	if last.Text != "" {
		t.Errorf("placeholder Text = %q, want empty", last.Text)
	}
	if !last.Streaming {
		t.Error("placeholder should be streaming")
	}

	// A second placeholder while one is open is silently ignored
	conv.AppendModelPlaceholder()
	if conv.Len() != 2 {
		t.Errorf("Len() after duplicate placeholder = %d, want 2", conv.Len())
	}

	// At most one turn may be streaming at any time
	streaming := 0
	for _, turn := range conv.Turns() {
		if turn.Streaming {
			streaming++
		}
	}
	if streaming != 1 {
		t.Errorf("streaming turns = %d, want 1", streaming)
	}
}

func TestApplyChunk(t *testing.T) {
	conv := NewConversation()

	// No open placeholder yet
	if err := conv.ApplyChunk("text"); !errors.Is(err, apierrors.ErrNoOpenTurn) {
		t.Errorf("ApplyChunk() error = %v, want %v", err, apierrors.ErrNoOpenTurn)
	}

	if err := conv.AppendUser("Explain quantum computing"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}

	// A settled user turn is not a target either
	if err := conv.ApplyChunk("text"); !errors.Is(err, apierrors.ErrNoOpenTurn) {
		t.Errorf("ApplyChunk() on user turn error = %v, want %v", err, apierrors.ErrNoOpenTurn)
	}

	conv.AppendModelPlaceholder()

	// Each call replaces the whole text with the running total
	totals := []string{"Quantum ", "Quantum computing uses ", "Quantum computing uses qubits."}
	for _, total := range totals {
		if err := conv.ApplyChunk(total); err != nil {
			t.Fatalf("ApplyChunk(%q) error = %v", total, err)
		}
		if got := conv.LastText(); got != total {
			t.Errorf("LastText() = %q, want %q", got, total)
		}
	}

	// Re-delivery of the same cumulative value is idempotent
	if err := conv.ApplyChunk(totals[len(totals)-1]); err != nil {
		t.Fatalf("ApplyChunk() re-delivery error = %v", err)
	}
	if got := conv.LastText(); got != "Quantum computing uses qubits." {
		t.Errorf("LastText() = %q, want %q", got, "Quantum computing uses qubits.")
	}

	// Once settled the turn is immutable
	conv.Settle()
	if err := conv.ApplyChunk("late chunk"); !errors.Is(err, apierrors.ErrNoOpenTurn) {
		t.Errorf("ApplyChunk() after Settle error = %v, want %v", err, apierrors.ErrNoOpenTurn)
	}
	if got := conv.LastText(); got != "Quantum computing uses qubits." {
		t.Errorf("LastText() after late chunk = %q, want unchanged", got)
	}
}

func TestSettle(t *testing.T) {
	conv := NewConversation()

	// Settle with nothing open is a no-op
	conv.Settle()

	if err := conv.AppendUser("Hi"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}
	conv.AppendModelPlaceholder()
	if err := conv.ApplyChunk("Hello!"); err != nil {
		t.Fatalf("ApplyChunk() error = %v", err)
	}

	conv.Settle()
	turns := conv.Turns()
	last := turns[len(turns)-1]
	if last.Streaming {
		t.Error("Streaming = true after Settle, want false")
	}

	// The flag stays false until the next placeholder is opened
	conv.Settle()
	if conv.Turns()[1].Streaming {
		t.Error("Streaming flipped back to true")
	}
	conv.AppendModelPlaceholder()
	if conv.Len() != 3 {
		t.Errorf("Len() = %d, want 3", conv.Len())
	}
	if !conv.Turns()[2].Streaming {
		t.Error("new placeholder should be streaming")
	}
}

func TestFail(t *testing.T) {
	t.Run("replaces open placeholder", func(t *testing.T) {
		conv := NewConversation()
		if err := conv.AppendUser("Hi"); err != nil {
			t.Fatalf("AppendUser() error = %v", err)
		}
		conv.AppendModelPlaceholder()
		if err := conv.ApplyChunk("partial that will be disc"); err != nil {
			t.Fatalf("ApplyChunk() error = %v", err)
		}
		placeholderID := conv.Turns()[1].ID

		conv.Fail(models.ApologyText)

		if conv.Len() != 2 {
			t.Fatalf("Len() = %d, want 2 (user + apology)", conv.Len())
		}
		last := conv.Turns()[1]
		if last.Text != models.ApologyText {
			t.Errorf("Text = %q, want apology", last.Text)
		}
		if last.Streaming {
			t.Error("apology turn should be settled")
		}
		if last.Role != models.RoleModel {
			t.Errorf("Role = %s, want %s", last.Role, models.RoleModel)
		}
		if last.ID == placeholderID {
			t.Error("apology should be a brand-new turn, not the mutated placeholder")
		}
	})

	t.Run("appends when no placeholder is open", func(t *testing.T) {
		conv := NewConversation()
		if err := conv.AppendUser("Hi"); err != nil {
			t.Fatalf("AppendUser() error = %v", err)
		}

		conv.Fail(models.ApologyText)

		if conv.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", conv.Len())
		}
		if got := conv.LastText(); got != models.ApologyText {
			t.Errorf("LastText() = %q, want apology", got)
		}
	})
}

func TestReset(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < 5; i++ {
		if err := conv.AppendUser("prompt"); err != nil {
			t.Fatalf("AppendUser() error = %v", err)
		}
		conv.AppendModelPlaceholder()
		if err := conv.ApplyChunk("reply"); err != nil {
			t.Fatalf("ApplyChunk() error = %v", err)
		}
		conv.Settle()
	}
	if conv.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", conv.Len())
	}

	conv.Reset()

	if conv.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", conv.Len())
	}
	if got := conv.History(); len(got) != 0 {
		t.Errorf("History() after Reset has %d entries, want 0", len(got))
	}
	if got := conv.LastText(); got != "" {
		t.Errorf("LastText() after Reset = %q, want empty", got)
	}
}

func TestHistory(t *testing.T) {
	conv := NewConversation()
	if err := conv.AppendUser("What is Go?"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}
	conv.AppendModelPlaceholder()
	if err := conv.ApplyChunk("A programming language."); err != nil {
		t.Fatalf("ApplyChunk() error = %v", err)
	}
	conv.Settle()
	if err := conv.AppendUser("Who made it?"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}
	// Empty placeholder for the reply in progress: skipped from history
	conv.AppendModelPlaceholder()

	want := []models.Message{
		{Role: models.RoleUser, Text: "What is Go?"},
		{Role: models.RoleModel, Text: "A programming language."},
		{Role: models.RoleUser, Text: "Who made it?"},
	}
	if diff := cmp.Diff(want, conv.History()); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}
}

func TestTurnsReturnsSnapshot(t *testing.T) {
	conv := NewConversation()
	if err := conv.AppendUser("Hi"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}

	turns := conv.Turns()
	turns[0].Text = "mutated copy"

	if got := conv.LastText(); got != "Hi" {
		t.Errorf("snapshot mutation leaked into conversation: LastText() = %q", got)
	}
}

func TestLastModelText(t *testing.T) {
	conv := NewConversation()
	if got := conv.LastModelText(); got != "" {
		t.Errorf("LastModelText() on empty conversation = %q, want empty", got)
	}

	if err := conv.AppendUser("Hi"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}
	if got := conv.LastModelText(); got != "" {
		t.Errorf("LastModelText() with no model turn = %q, want empty", got)
	}

	conv.AppendModelPlaceholder()
	if err := conv.ApplyChunk("Hello!"); err != nil {
		t.Fatalf("ApplyChunk() error = %v", err)
	}
	conv.Settle()
	if err := conv.AppendUser("More"); err != nil {
		t.Fatalf("AppendUser() error = %v", err)
	}

	if got := conv.LastModelText(); got != "Hello!" {
		t.Errorf("LastModelText() = %q, want Hello!", got)
	}
}
