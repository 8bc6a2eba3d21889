package tui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/gemchat/internal/config"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewModelSelect
	viewPersonaSelect
	viewThemeSelect
)

// Menu item indices for main view
const (
	menuModel = iota
	menuPersona
	menuTemperature
	menuCopyToClipboard
	menuTheme
	menuExit
	menuItemCount
)

// temperatureStep is how far one left/right keypress moves the sampling
// temperature.
const temperatureStep = 0.1

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel represents the config TUI state
type ConfigModel struct {
	config        config.Config
	configDir     string
	personasPath  string
	personasExist bool
	personas      []config.Persona

	// Navigation
	view          configView
	cursor        int
	modelCursor   int
	personaCursor int
	themeCursor   int

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates a new config TUI model
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	configDir, _ := config.GetConfigDir()
	personasPath, _ := config.GetPersonasPath()

	personasExist := false
	if _, err := os.Stat(personasPath); err == nil {
		personasExist = true
	}

	// The catalog always includes the built-in personas, so a missing or
	// unreadable file still leaves something to choose from.
	personas := config.DefaultPersonas()
	if pc, err := config.LoadPersonas(); err == nil {
		personas = pc.Personas
	}

	// Find current model index
	modelCursor := 0
	for i, name := range config.AvailableModels() {
		if name == cfg.Model {
			modelCursor = i
			break
		}
	}

	// Find current persona index
	personaCursor := 0
	for i, p := range personas {
		if p.Name == cfg.Persona {
			personaCursor = i
			break
		}
	}

	// Find current theme index
	themeCursor := 0
	for i, name := range ThemeNames() {
		if name == cfg.Theme {
			themeCursor = i
			break
		}
	}

	// Apply the configured theme at startup
	if SetTheme(cfg.Theme) {
		UpdateTheme()
	}

	return ConfigModel{
		config:          cfg,
		configDir:       configDir,
		personasPath:    personasPath,
		personasExist:   personasExist,
		personas:        personas,
		view:            viewMain,
		cursor:          0,
		modelCursor:     modelCursor,
		personaCursor:   personaCursor,
		themeCursor:     themeCursor,
		feedbackTimeout: 2 * time.Second,
	}
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			switch m.view {
			case viewMain:
				m.cursor--
				if m.cursor < 0 {
					m.cursor = menuItemCount - 1
				}
			case viewModelSelect:
				m.modelCursor--
				if m.modelCursor < 0 {
					m.modelCursor = len(config.AvailableModels()) - 1
				}
			case viewPersonaSelect:
				m.personaCursor--
				if m.personaCursor < 0 {
					m.personaCursor = len(m.personas) - 1
				}
			case viewThemeSelect:
				m.themeCursor--
				if m.themeCursor < 0 {
					m.themeCursor = len(ThemeNames()) - 1
				}
			}

		case "down", "j":
			switch m.view {
			case viewMain:
				m.cursor++
				if m.cursor >= menuItemCount {
					m.cursor = 0
				}
			case viewModelSelect:
				m.modelCursor++
				if m.modelCursor >= len(config.AvailableModels()) {
					m.modelCursor = 0
				}
			case viewPersonaSelect:
				m.personaCursor++
				if m.personaCursor >= len(m.personas) {
					m.personaCursor = 0
				}
			case viewThemeSelect:
				m.themeCursor++
				if m.themeCursor >= len(ThemeNames()) {
					m.themeCursor = 0
				}
			}

		case "left", "h":
			if m.view == viewMain && m.cursor == menuTemperature {
				return m.adjustTemperature(-temperatureStep)
			}

		case "right", "l":
			if m.view == viewMain && m.cursor == menuTemperature {
				return m.adjustTemperature(temperatureStep)
			}

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// adjustTemperature moves the sampling temperature by delta, clamped to
// the accepted range, and persists the result.
func (m ConfigModel) adjustTemperature(delta float64) (tea.Model, tea.Cmd) {
	t := math.Round((m.config.Temperature+delta)*10) / 10
	if t < 0 {
		t = 0
	}
	if t > 2 {
		t = 2
	}
	m.config.Temperature = t
	return m.saveWithFeedback(fmt.Sprintf("Temperature set to %.1f", t))
}

// saveWithFeedback persists the config and reports the outcome through
// the transient feedback line.
func (m ConfigModel) saveWithFeedback(okMsg string) (tea.Model, tea.Cmd) {
	if err := config.SaveConfig(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = okMsg
	}
	return m, clearFeedback(m.feedbackTimeout)
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuModel:
			m.view = viewModelSelect
			return m, nil

		case menuPersona:
			m.view = viewPersonaSelect
			return m, nil

		case menuTemperature:
			m.feedback = "Use ← → to adjust the temperature"
			return m, clearFeedback(m.feedbackTimeout)

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			state := "disabled"
			if m.config.CopyToClipboard {
				state = "enabled"
			}
			return m.saveWithFeedback(fmt.Sprintf("Copy to clipboard %s", state))

		case menuTheme:
			m.view = viewThemeSelect
			return m, nil

		case menuExit:
			return m, tea.Quit
		}

	case viewModelSelect:
		names := config.AvailableModels()
		m.config.Model = names[m.modelCursor]
		m.view = viewMain
		return m.saveWithFeedback(fmt.Sprintf("Model set to %s", m.config.Model))

	case viewPersonaSelect:
		m.config.Persona = m.personas[m.personaCursor].Name
		m.view = viewMain
		return m.saveWithFeedback(fmt.Sprintf("Persona set to %s", m.config.Persona))

	case viewThemeSelect:
		names := ThemeNames()
		selected := names[m.themeCursor]
		m.config.Theme = selected

		// Apply the new theme immediately
		SetTheme(selected)
		UpdateTheme()

		m.view = viewMain
		return m.saveWithFeedback(fmt.Sprintf("Theme set to %s", selected))
	}

	return m, nil
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	// Header
	headerContent := configTitleStyle.Render("✦ Configuration")
	header := configHeaderStyle.Width(contentWidth).Render(headerContent)
	sections = append(sections, header)

	// Paths panel
	pathsTitle := configSectionTitleStyle.Render("📁 Paths")

	configPath := configPathStyle.Render(m.configDir + "/config.json")
	personasPath := configPathStyle.Render(m.personasPath)

	var personasStatus string
	if m.personasExist {
		personasStatus = configStatusOkStyle.Render("✓ exists")
	} else {
		personasStatus = configStatusErrorStyle.Render("✗ built-ins only")
	}

	pathsContent := lipgloss.JoinVertical(lipgloss.Left,
		pathsTitle,
		fmt.Sprintf("   Config:   %s", configPath),
		fmt.Sprintf("   Personas: %s  %s", personasPath, personasStatus),
		fmt.Sprintf("   API key:  %s", m.renderKeyStatus()),
	)
	pathsPanel := configPanelStyle.Width(contentWidth).Render(pathsContent)
	sections = append(sections, pathsPanel)

	// Settings/menu panel
	var settingsContent string
	switch m.view {
	case viewMain:
		settingsContent = m.renderMainMenu(contentWidth)
	case viewModelSelect:
		settingsContent = m.renderModelSelect(contentWidth)
	case viewPersonaSelect:
		settingsContent = m.renderPersonaSelect(contentWidth)
	case viewThemeSelect:
		settingsContent = m.renderThemeSelect(contentWidth)
	}

	settingsPanel := configPanelStyle.Width(contentWidth).Render(settingsContent)
	sections = append(sections, settingsPanel)

	// Feedback message
	if m.feedback != "" {
		feedbackMsg := configFeedbackStyle.Render("✓ " + m.feedback)
		sections = append(sections, feedbackMsg)
	}

	// Status bar
	statusBar := m.renderStatusBar(contentWidth)
	sections = append(sections, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderKeyStatus reports where the API key comes from without showing it.
func (m ConfigModel) renderKeyStatus() string {
	switch {
	case os.Getenv(config.EnvAPIKey) != "":
		return configStatusOkStyle.Render("✓ set via " + config.EnvAPIKey)
	case m.config.APIKey != "":
		return configStatusOkStyle.Render("✓ stored in config")
	default:
		return configStatusErrorStyle.Render("✗ not set (run 'gemchat config set api_key <key>')")
	}
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu(width int) string {
	title := configSectionTitleStyle.Render("⚙ Settings")

	var items []string

	// Model
	cursor := "  "
	style := configMenuItemStyle
	if m.cursor == menuModel {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	modelValue := configValueStyle.Render(m.config.Model)
	items = append(items, fmt.Sprintf("%s%s%s%s",
		cursor,
		style.Render("Model"),
		strings.Repeat(" ", 15),
		modelValue,
	))

	// Persona
	cursor = "  "
	style = configMenuItemStyle
	if m.cursor == menuPersona {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	personaValue := configValueStyle.Render(m.config.Persona)
	items = append(items, fmt.Sprintf("%s%s%s%s",
		cursor,
		style.Render("Persona"),
		strings.Repeat(" ", 13),
		personaValue,
	))

	// Temperature
	cursor = "  "
	style = configMenuItemStyle
	if m.cursor == menuTemperature {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	temperatureValue := configValueStyle.Render(fmt.Sprintf("%.1f", m.config.Temperature))
	items = append(items, fmt.Sprintf("%s%s%s%s",
		cursor,
		style.Render("Temperature"),
		strings.Repeat(" ", 9),
		temperatureValue,
	))

	// Copy to Clipboard
	cursor = "  "
	style = configMenuItemStyle
	if m.cursor == menuCopyToClipboard {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	clipboardValue := m.renderBoolValue(m.config.CopyToClipboard)
	items = append(items, fmt.Sprintf("%s%s%s%s",
		cursor,
		style.Render("Copy to Clipboard"),
		strings.Repeat(" ", 3),
		clipboardValue,
	))

	// Theme
	cursor = "  "
	style = configMenuItemStyle
	if m.cursor == menuTheme {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	themeValue := configValueStyle.Render(m.config.Theme)
	items = append(items, fmt.Sprintf("%s%s%s%s",
		cursor,
		style.Render("Theme"),
		strings.Repeat(" ", 15),
		themeValue,
	))

	// Separator
	items = append(items, "")

	// Exit
	cursor = "  "
	style = configMenuItemStyle
	if m.cursor == menuExit {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	items = append(items, cursor+style.Render("Exit"))

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderModelSelect renders the model selection sub-menu
func (m ConfigModel) renderModelSelect(width int) string {
	title := configSectionTitleStyle.Render("🤖 Select Model")

	names := config.AvailableModels()
	var items []string

	for i, name := range names {
		cursor := "  "
		style := configMenuItemStyle
		if m.modelCursor == i {
			cursor = configCursorStyle.Render("▸ ")
			style = configMenuSelectedStyle
		}

		current := ""
		if name == m.config.Model {
			current = configStatusOkStyle.Render(" (current)")
		}

		items = append(items, cursor+style.Render(name)+current)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderPersonaSelect renders the persona selection sub-menu
func (m ConfigModel) renderPersonaSelect(width int) string {
	title := configSectionTitleStyle.Render("🎭 Select Persona")

	var items []string

	for i, p := range m.personas {
		cursor := "  "
		style := configMenuItemStyle
		if m.personaCursor == i {
			cursor = configCursorStyle.Render("▸ ")
			style = configMenuSelectedStyle
		}

		current := ""
		if p.Name == m.config.Persona {
			current = configStatusOkStyle.Render(" (current)")
		}

		// Format: "persona-name - description"
		text := p.Name
		if p.Description != "" {
			text = fmt.Sprintf("%s - %s", p.Name, p.Description)
		}
		items = append(items, cursor+style.Render(text)+current)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderThemeSelect renders the color theme selection sub-menu
func (m ConfigModel) renderThemeSelect(width int) string {
	title := configSectionTitleStyle.Render("🎨 Select Theme")

	themes := AvailableThemes()
	var items []string

	for i, theme := range themes {
		cursor := "  "
		style := configMenuItemStyle
		if m.themeCursor == i {
			cursor = configCursorStyle.Render("▸ ")
			style = configMenuSelectedStyle
		}

		current := ""
		if theme.Name == m.config.Theme {
			current = configStatusOkStyle.Render(" (current)")
		}

		// Format: "theme-name - description"
		themeText := fmt.Sprintf("%s - %s", theme.Name, theme.Description)
		items = append(items, cursor+style.Render(themeText)+current)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, items...)...,
	)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	var shortcuts []struct {
		key  string
		desc string
	}

	if m.view == viewMain {
		shortcuts = []struct {
			key  string
			desc string
		}{
			{"↑↓", "Navigate"},
			{"←→", "Adjust"},
			{"Enter", "Select"},
			{"Esc", "Exit"},
		}
	} else {
		shortcuts = []struct {
			key  string
			desc string
		}{
			{"↑↓", "Navigate"},
			{"Enter", "Select"},
			{"Esc", "Back"},
		}
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
	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// RunConfig starts the config TUI
func RunConfig() error {
	m := NewConfigModel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
