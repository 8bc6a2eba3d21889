package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/gemchat/internal/chat"
	"github.com/diogo/gemchat/internal/config"
	apierrors "github.com/diogo/gemchat/internal/errors"
	"github.com/diogo/gemchat/internal/models"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorError    = lipgloss.Color("#f7768e")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
)

// Styles matching the chat TUI
var assistantLabelStyle = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true).
	MarginBottom(0)

// spinner handles the animated loading indicator
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner
func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(os.Stderr, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	// Spinner characters
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	// Build spinner character with color
	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	// Build animated bar
	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	// Build animated dots
	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	// Message clipped so the redraw never wraps onto a second line
	message := s.message
	if max := getTerminalWidth() - barWidth - 10; max > 0 && len(message) > max {
		message = message[:max]
	}
	msg := lipgloss.NewStyle().Foreground(colorText).Render(message)

	// Print animation (clear line first)
	fmt.Fprintf(os.Stderr, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// halt stops the animation and clears the line without printing a status
func (s *spinner) halt() {
	s.stopOnce()
	<-s.done
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.halt()

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(os.Stderr, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.halt()
}

// runQuery executes a single query and streams the response to stdout.
// If rawOutput is true, only the raw response text is printed without
// decoration.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg, _ := config.LoadConfig()

	// The hook fires after every conversation mutation on the exchange
	// goroutine. Reply updates carry the full accumulated text, so only
	// the unseen suffix is written.
	var (
		spin    *spinner
		session *chat.Session
		printed string
		started bool
	)
	hook := func() {
		if outputFlag != "" {
			return // response goes to the file, keep the spinner going
		}
		turns := session.Conversation().Turns()
		if len(turns) == 0 {
			return
		}
		// Only live streaming updates are echoed. The failure rewrite is
		// settled text and is reported through the error path instead.
		last := turns[len(turns)-1]
		if last.Role != models.RoleModel || !last.Streaming {
			return
		}
		text := last.Text
		if !strings.HasPrefix(text, printed) {
			return
		}
		if !started && text != "" {
			started = true
			if !rawOutput {
				spin.halt()
				fmt.Println(assistantLabelStyle.Render("✦ Gemini"))
			}
		}
		fmt.Print(text[len(printed):])
		printed = text
	}

	var err error
	session, _, err = createChatSession(cfg, chat.WithHook(hook))
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Failed to start"))
		return err
	}

	if !rawOutput {
		spin = newSpinner("Waiting for Gemini")
		spin.start()
	}

	// Ctrl+C cancels the request instead of killing the process so the
	// terminal state is restored.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := session.Send(ctx, prompt); err != nil {
		if !rawOutput {
			if started {
				fmt.Println()
			} else {
				spin.stopWithError()
			}
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Request failed"))
		}
		return err
	}

	text := session.Conversation().LastModelText()

	// Raw output mode: the text already streamed to stdout undecorated
	if rawOutput {
		if outputFlag != "" {
			if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
		}
		return nil
	}

	// A reply can settle without ever producing text
	if !started {
		spin.stopWithSuccess("Done")
	} else {
		fmt.Println()
	}

	// Output to file if specified
	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", outputFlag),
		)
		fmt.Fprintln(os.Stderr, successMsg)
		return nil
	}

	// Copy to clipboard if enabled in config or requested by flag
	if cfg.CopyToClipboard || copyFlag {
		if err := clipboard.WriteAll(text); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(os.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(os.Stderr, clipMsg)
		}
	}

	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, action string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", action, err)))

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", apiErr.StatusCode)))
		// Show response body if available (contains detailed error info)
		if apiErr.Body != "" {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(apiErr.Body, "\n", "\n  "))))
		}
	}

	// Provide helpful hints based on error type
	var (
		blocked *apierrors.BlockedError
		usage   *apierrors.UsageLimitError
	)
	switch {
	case errors.Is(err, apierrors.ErrMissingAPIKey):
		sb.WriteString(dimStyle.Render("\n  Hint: Set GEMINI_API_KEY or run 'gemchat config set api_key <key>'"))
	case errors.As(err, &usage):
		sb.WriteString(dimStyle.Render("\n  Hint: You've hit the usage limit. Try again later or use a different model"))
	case errors.As(err, &blocked):
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Hint: The reply was blocked (%s). Rephrase the prompt and try again", blocked.Reason)))
	case errors.Is(err, context.DeadlineExceeded):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Raise --timeout or check your connection"))
	case errors.Is(err, context.Canceled):
		sb.WriteString(dimStyle.Render("\n  Hint: Request canceled"))
	}

	return sb.String()
}
