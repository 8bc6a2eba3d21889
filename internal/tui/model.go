package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/gemchat/internal/chat"
	apierrors "github.com/diogo/gemchat/internal/errors"
	"github.com/diogo/gemchat/internal/models"
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// conversationUpdatedMsg is sent whenever the session mutates the
	// conversation, including per-fragment reply growth mid-exchange.
	conversationUpdatedMsg struct{}
	// exchangeDoneMsg is sent when the exchange goroutine returns.
	exchangeDoneMsg struct {
		err error
	}
)

// Model represents the chat TUI state. The conversation itself lives in
// the session; the model only holds presentation state and re-reads the
// turn sequence whenever the session signals a change.
type Model struct {
	session   *chat.Session
	modelName string

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading        bool
	ready          bool
	err            error
	animationFrame int // Frame counter for loading animation

	// updates carries one pending-redraw token from the render hook,
	// which runs on the exchange goroutine. Capacity 1 plus a
	// non-blocking send coalesce fragment bursts into a single redraw.
	updates chan struct{}
	// cancel aborts the in-flight exchange; nil while idle.
	cancel context.CancelFunc

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model bound to the session.
func NewChatModel(session *chat.Session, modelName string) Model {
	// Create textarea for input
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	// Style the textarea
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	// Create spinner
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	updates := make(chan struct{}, 1)
	session.SetHook(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	return Model{
		session:   session,
		modelName: modelName,
		textarea:  ta,
		spinner:   s,
		updates:   updates,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// waitForUpdate blocks until the session signals a conversation change.
// Update re-arms it after each delivery for as long as an exchange is in
// flight.
func waitForUpdate(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return conversationUpdatedMsg{}
	}
}

// sendExchange runs one exchange against the session off the UI goroutine.
func sendExchange(ctx context.Context, session *chat.Session, prompt string) tea.Cmd {
	return func() tea.Msg {
		return exchangeDoneMsg{err: session.Send(ctx, prompt)}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Calculate component heights
		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 1 // Status bar
		padding := 2      // Extra spacing

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		// Initialize viewport on first size message
		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit

		case "esc":
			if m.loading {
				// Abort the in-flight exchange but stay in the chat.
				// The session substitutes its fixed failure reply and
				// reports through exchangeDoneMsg as usual.
				if m.cancel != nil {
					m.cancel()
				}
			} else {
				return m, tea.Quit
			}

		case "ctrl+n":
			// Refused by the session while an exchange is open.
			if m.session.NewConversation() {
				m.err = nil
				m.updateViewport()
			}

		case "ctrl+y":
			if text := m.session.Conversation().LastModelText(); text != "" {
				if err := clipboard.WriteAll(text); err != nil {
					m.err = fmt.Errorf("copy to clipboard failed: %w", err)
				}
			}

		case "enter":
			if !m.loading && strings.TrimSpace(m.textarea.Value()) != "" {
				// Check for exit commands
				input := strings.TrimSpace(m.textarea.Value())
				if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
					return m, tea.Quit
				}

				m.textarea.Reset()
				m.loading = true
				m.err = nil
				m.animationFrame = 0

				ctx, cancel := context.WithCancel(context.Background())
				m.cancel = cancel

				return m, tea.Batch(
					sendExchange(ctx, m.session, input),
					waitForUpdate(m.updates),
					m.spinner.Tick,
					animationTick(),
				)
			}
		}

	case conversationUpdatedMsg:
		m.updateViewport()
		m.viewport.GotoBottom()
		if m.loading {
			cmds = append(cmds, waitForUpdate(m.updates))
		}

	case exchangeDoneMsg:
		m.loading = false
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		if msg.err != nil {
			m.err = msg.err
		}
		// Drop a redraw token the final notify may have left behind so
		// the next exchange does not start with a stale one.
		select {
		case <-m.updates:
		default:
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Update child components - only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{
		titleStyle.Render("✦ Gemini Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.modelName),
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	header := headerStyle.Width(contentWidth).Render(headerContent)
	sections = append(sections, header)

	// Messages area
	var messagesContent string
	if m.session.Conversation().Len() == 0 {
		// Welcome message when empty
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}

	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	// Input area
	var inputContent string
	if m.loading {
		// Use colorful animated loading indicator
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}

	inputPanel := inputPanelStyle.Width(contentWidth).Render(inputContent)
	sections = append(sections, inputPanel)

	// Status bar
	statusBar := m.renderStatusBar(contentWidth)
	sections = append(sections, statusBar)

	// Error display
	if m.err != nil {
		errorDisplay := m.formatError(m.err)
		sections = append(sections, errorDisplay)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("✦")
	title := welcomeTitleStyle.Width(width).Render("Welcome to Gemini Chat")
	subtitle := welcomeStyle.Width(width).Render("Start a conversation by typing a message below")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	// Center vertically
	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	// Animation characters
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	// Get current animation frame
	frame := m.animationFrame

	// Render spinning character with color
	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	// Render animated bar with gradient
	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		// Calculate which color to use based on position and frame
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)

		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	// Animated dots
	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}

	// Combine elements
	text := lipgloss.NewStyle().Foreground(colorText).Render(" Gemini is thinking ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+N", "New chat"},
		{"Ctrl+Y", "Copy reply"},
		{"↑↓", "Scroll"},
		{"Esc", "Quit"},
	}
	if m.loading {
		shortcuts[len(shortcuts)-1] = struct {
			key  string
			desc string
		}{"Esc", "Cancel"}
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content from the session's
// current turn snapshot.
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	turns := m.session.Conversation().Turns()
	for i, turn := range turns {
		if i > 0 {
			content.WriteString("\n")
		}

		if turn.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ " + turn.Role.DisplayName())
			bubble := userBubbleStyle.Width(bubbleWidth).Render(turn.Text)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ " + turn.Role.DisplayName())
			text := turn.Text
			if turn.Streaming {
				// Block cursor marks the reply that is still arriving.
				text += streamCursorStyle.Render("▌")
			}
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(text)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// formatError formats an error with structured details for display
func (m Model) formatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	// Main error message
	sb.WriteString(errorStyle.Render(fmt.Sprintf("⚠ Error: %v", err)))

	// Add structured error details
	detailStyle := lipgloss.NewStyle().Foreground(colorTextDim).PaddingLeft(2)

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("HTTP Status: %d", apiErr.StatusCode)))
	}

	// Add helpful hints
	tipStyle := lipgloss.NewStyle().Foreground(colorPrimary).PaddingLeft(2)
	var usageErr *apierrors.UsageLimitError
	var blockedErr *apierrors.BlockedError
	switch {
	case errors.Is(err, apierrors.ErrMissingAPIKey):
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("💡 Set GEMINI_API_KEY or run 'gemchat config set api_key <key>'"))
	case errors.As(err, &usageErr):
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("💡 Usage limit reached. Try again later or use a different model"))
	case errors.As(err, &blockedErr):
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("💡 The reply was blocked. Rephrase the prompt and try again"))
	case errors.Is(err, context.Canceled):
		sb.WriteString("\n")
		sb.WriteString(tipStyle.Render("💡 Request canceled"))
	}

	return sb.String()
}

// RunChat starts the chat TUI on the given session.
func RunChat(session *chat.Session, modelName string) error {
	m := NewChatModel(session, modelName)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
