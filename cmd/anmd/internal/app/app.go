// Package app is the bubbletea model of the interactive shell. It collects
// session fields, starts one batch at a time on a tea.Cmd goroutine, and
// shows the batch log that arrives through the bridge.
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/anmd/cmd/anmd/internal/bridge"
	"github.com/germanamz/anmd/cmd/anmd/internal/format"
	"github.com/germanamz/anmd/cmd/anmd/internal/msgs"
	"github.com/germanamz/anmd/cmd/anmd/internal/styles"
	"github.com/germanamz/anmd/pkg/batch"
	"github.com/germanamz/anmd/pkg/engine"
	"github.com/germanamz/anmd/pkg/settings"
)

// Field indexes, in focus order.
const (
	FieldPrompt = iota
	FieldInputs
	FieldOutput
	FieldProvider
	FieldModel
	FieldMaxTokens
	FieldTemperature
	FieldAPIKey
	FieldSessionPath
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Prompt file",
	"Text files",
	"Output dir",
	"Provider",
	"Model",
	"Max tokens",
	"Temperature",
	"API key",
	"Session file",
}

// fixed rows around the log: title, blank, fields, blank, status, help, log border.
const chromeHeight = 1 + 1 + fieldCount + 1 + 1 + 1 + 2

// Config seeds a Model.
type Config struct {
	Ctx          context.Context // nil uses context.Background()
	Engine       *engine.Engine
	Session      settings.Session
	SettingsPath string // where ctrl+s saves the API config
	SessionPath  string // initial value of the session file field
}

// Model is the root bubbletea model.
type Model struct {
	ctx          context.Context
	eng          *engine.Engine
	settingsPath string

	inputs  []textinput.Model
	focus   int
	baseURL string // no field; carried from the loaded session

	log    viewport.Model
	events []batch.Event

	running bool
	sender  bridge.Sender

	status    string
	statusErr bool

	width  int
	height int
}

// New creates the model with cfg.Session in its fields.
func New(cfg Config) Model {
	if cfg.Ctx == nil {
		cfg.Ctx = context.Background()
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		inputs[i] = ti
	}
	inputs[FieldInputs].Placeholder = "a.txt;b.txt"
	inputs[FieldProvider].Placeholder = strings.Join(engine.ProviderKinds(), " | ")
	inputs[FieldAPIKey].EchoMode = textinput.EchoPassword
	inputs[FieldSessionPath].Placeholder = "session.ini"
	inputs[FieldSessionPath].SetValue(cfg.SessionPath)

	m := Model{
		ctx:          cfg.Ctx,
		eng:          cfg.Engine,
		settingsPath: cfg.SettingsPath,
		inputs:       inputs,
		log:          viewport.New(80, 10),
	}
	m.SetSession(cfg.Session)
	m.inputs[m.focus].Focus()

	return m
}

// Running reports whether a batch is in flight.
func (m Model) Running() bool { return m.running }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// Lines returns the plain log lines received so far.
func (m Model) Lines() []string {
	lines := make([]string, len(m.events))
	for i, e := range m.events {
		lines[i] = e.Line()
	}

	return lines
}

// Value returns the text of field i.
func (m Model) Value(i int) string { return m.inputs[i].Value() }

// SetSession replaces every field with the values of s.
func (m *Model) SetSession(s settings.Session) {
	m.inputs[FieldPrompt].SetValue(s.PromptFile)
	m.inputs[FieldInputs].SetValue(strings.Join(s.TextFiles, settings.TextFileSeparator))
	m.inputs[FieldOutput].SetValue(s.OutputDir)
	m.inputs[FieldProvider].SetValue(s.Provider)
	m.inputs[FieldModel].SetValue(s.Model)
	m.inputs[FieldMaxTokens].SetValue(strconv.Itoa(s.MaxTokens))
	m.inputs[FieldTemperature].SetValue(strconv.FormatFloat(s.Temperature, 'f', -1, 64))
	m.inputs[FieldAPIKey].SetValue(s.APIKey)
	m.baseURL = s.BaseURL
}

// Session reads the fields back into a session. Numeric fields that do not
// parse yield a *settings.ValidationError.
func (m Model) Session() (settings.Session, error) {
	s := settings.Session{
		PromptFile: strings.TrimSpace(m.Value(FieldPrompt)),
		TextFiles:  settings.SplitTextFiles(m.Value(FieldInputs)),
		OutputDir:  strings.TrimSpace(m.Value(FieldOutput)),
		Provider:   strings.TrimSpace(m.Value(FieldProvider)),
		Model:      strings.TrimSpace(m.Value(FieldModel)),
		APIKey:     strings.TrimSpace(m.Value(FieldAPIKey)),
		BaseURL:    m.baseURL,
	}

	maxTokens, err := strconv.Atoi(strings.TrimSpace(m.Value(FieldMaxTokens)))
	if err != nil {
		return s, &settings.ValidationError{Field: "max_tokens", Reason: "must be an integer"}
	}
	s.MaxTokens = maxTokens

	temp, err := m.temperature()
	if err != nil {
		return s, err
	}
	s.Temperature = temp

	return s, nil
}

func (m Model) temperature() (float64, error) {
	temp, err := strconv.ParseFloat(strings.TrimSpace(m.Value(FieldTemperature)), 64)
	if err != nil {
		return 0, &settings.ValidationError{Field: "temperature", Reason: "must be a number"}
	}

	return temp, nil
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case msgs.ProgramReadyMsg:
		if msg.Program != nil {
			m.sender = msg.Program
		}
		return m, nil

	case msgs.LogLineMsg:
		m.events = append(m.events, msg.Event)
		m.refreshLog()
		return m, nil

	case msgs.BatchDoneMsg:
		return m.handleBatchDone(msg), nil

	case msgs.SessionLoadedMsg:
		return m.handleSessionLoaded(msg), nil

	case msgs.SessionSavedMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			m.setStatus("Session exported to " + msg.Path)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)
	case "ctrl+r":
		return m.startBatch()
	case "ctrl+s":
		return m.saveSettings(), nil
	case "ctrl+o":
		return m.importSession()
	case "ctrl+e":
		return m.exportSession()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	return m, cmd
}

func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount

	return m, m.inputs[m.focus].Focus()
}

// startBatch validates the fields and, when they are valid and no batch is
// running, returns the command that runs one. While running it is a no-op.
// It is refused until ProgramReadyMsg has provided the log sender.
func (m Model) startBatch() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}
	if m.sender == nil {
		m.setStatus("Not ready yet, press ctrl+r again")
		return m, nil
	}

	s, err := m.Session()
	if err == nil {
		err = s.Validate()
	}
	if err != nil {
		m.setError(err)
		return m, nil
	}

	s.APIKey = engine.ResolveAPIKey(s.Provider, s.APIKey)

	m.running = true
	m.setStatus("Running...")

	eng, ctx, rep := m.eng, m.ctx, bridge.Reporter(m.sender)

	return m, func() tea.Msg {
		res, err := eng.Run(ctx, s, rep)
		return msgs.BatchDoneMsg{Result: res, Err: err}
	}
}

func (m Model) handleBatchDone(msg msgs.BatchDoneMsg) Model {
	m.running = false

	if msg.Err != nil {
		m.setError(msg.Err)
		return m
	}

	status := fmt.Sprintf("Done: %d written, %d empty", len(msg.Result.Written), len(msg.Result.Empty))
	if total := msg.Result.Usage.Total(); total > 0 {
		status += fmt.Sprintf(" · tokens ↑%s ↓%s",
			format.Tokens(msg.Result.Usage.InputTokens), format.Tokens(msg.Result.Usage.OutputTokens))
	}
	if rl := msg.Result.RateLimit.String(); rl != "" {
		status += " · " + rl
	}
	if msg.Result.Elapsed > 0 {
		status += " · " + format.Duration(msg.Result.Elapsed)
	}
	m.setStatus(status)

	return m
}

// saveSettings persists the API key and temperature. Other fields may be
// incomplete.
func (m Model) saveSettings() Model {
	temp, err := m.temperature()
	if err != nil {
		m.setError(err)
		return m
	}

	cfg := settings.APIConfig{APIKey: strings.TrimSpace(m.Value(FieldAPIKey)), Temperature: temp}
	if err := settings.SaveAPIConfig(m.settingsPath, cfg); err != nil {
		m.setError(err)
		return m
	}

	m.setStatus("Settings saved to " + m.settingsPath)

	return m
}

func (m Model) importSession() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.Value(FieldSessionPath))
	if path == "" {
		m.setError(&settings.ValidationError{Field: "session file", Reason: "is required"})
		return m, nil
	}

	return m, func() tea.Msg {
		s, err := settings.ImportSession(path)
		return msgs.SessionLoadedMsg{Path: path, Session: s, Err: err}
	}
}

func (m Model) handleSessionLoaded(msg msgs.SessionLoadedMsg) Model {
	if msg.Err != nil {
		m.setError(msg.Err)
		return m
	}

	current := settings.Session{APIKey: strings.TrimSpace(m.Value(FieldAPIKey))}
	current.ApplyImport(msg.Session)
	m.SetSession(current)
	m.setStatus("Session loaded from " + msg.Path)

	return m
}

func (m Model) exportSession() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.Value(FieldSessionPath))
	if path == "" {
		m.setError(&settings.ValidationError{Field: "session file", Reason: "is required"})
		return m, nil
	}

	s, err := m.Session()
	if err != nil {
		m.setError(err)
		return m, nil
	}

	return m, func() tea.Msg {
		return msgs.SessionSavedMsg{Path: path, Err: settings.ExportSession(path, s)}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) refreshLog() {
	width := max(m.log.Width, 1)

	lines := make([]string, len(m.events))
	for i, e := range m.events {
		lines[i] = format.EventLine(e, width)
	}

	m.log.SetContent(strings.Join(lines, "\n"))
	m.log.GotoBottom()
}

func (m *Model) recalcLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	inputWidth := max(m.width-lipgloss.Width(styles.LabelStyle.Render(""))-2, 10)
	for i := range m.inputs {
		m.inputs[i].Width = inputWidth
	}

	m.log.Width = max(m.width-2, 1)
	m.log.Height = max(m.height-chromeHeight, 1)
	m.refreshLog()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("anmd"))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		b.WriteString(styles.LabelStyle.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	border := styles.DisabledBorder
	if m.running {
		border = styles.FocusedBorder
	}
	b.WriteString(border.Render(m.log.View()))
	b.WriteString("\n")

	switch {
	case m.statusErr:
		b.WriteString(styles.ErrorBlockStyle.Render(m.status))
	case m.status != "":
		b.WriteString(styles.StatusStyle.Render(m.status))
	}
	b.WriteString("\n")

	help := "tab: next field · ctrl+r: process · ctrl+s: save settings · ctrl+o: import session · ctrl+e: export session · ctrl+c: quit"
	if m.running {
		help = "processing… · ctrl+c: quit"
	}
	b.WriteString(styles.DimStyle.Render(format.Truncate(help, m.width)))

	return b.String()
}
