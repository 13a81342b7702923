package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
	"github.com/Srijith-23/Wake-Sleep-model/internal/usecase"
)

// Model is the root bubbletea model for the wakesleep TUI.
type Model struct {
	controller *usecase.TranscriptionController
	sink       *Sink

	state   domain.ControllerState
	entries []domain.TranscriptEntry
	interim string

	statusText string
	errText    string

	width  int
	height int
}

// New creates a Model bound to a controller whose events arrive via sink.
func New(controller *usecase.TranscriptionController, sink *Sink) Model {
	m := Model{
		controller: controller,
		sink:       sink,
		state:      domain.ControllerStateIdle,
		statusText: "Press space to start listening",
	}
	if controller != nil {
		m.state = controller.State()
		m.entries = controller.Transcripts()
	}
	return m
}

// Init starts waiting for controller events.
func (m Model) Init() tea.Cmd {
	return m.sink.Wait()
}

// statusMsg carries the controller status after a command runs.
type statusMsg struct {
	status domain.Status
}

// clearErrorMsg clears a transient error after a timeout.
type clearErrorMsg struct{}

func startCmd(c *usecase.TranscriptionController) tea.Cmd {
	return func() tea.Msg {
		_ = c.Start()
		return statusMsg{status: c.Status()}
	}
}

func stopCmd(c *usecase.TranscriptionController) tea.Cmd {
	return func() tea.Msg {
		c.Stop()
		return statusMsg{status: c.Status()}
	}
}

func clearCmd(c *usecase.TranscriptionController) tea.Cmd {
	return func() tea.Msg {
		c.ClearTranscripts()
		return statusMsg{status: c.Status()}
	}
}

func clearErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case EventMsg:
		cmd := m.handleEvent(msg.Event)
		return m, tea.Batch(cmd, m.sink.Wait())

	case statusMsg:
		m.state = msg.status.State
		if msg.status.Error != "" {
			m.errText = msg.status.Error
		}
		return m, nil

	case clearErrorMsg:
		m.errText = ""
		return m, nil
	}

	return m, nil
}

// handleEvent processes a controller event and returns any resulting command.
func (m *Model) handleEvent(ev Event) tea.Cmd {
	switch ev.Kind {
	case EventState:
		m.state = ev.State
		if text := reasonText(ev.Reason); text != "" {
			m.statusText = text
		}
		if ev.State != domain.ControllerStateTranscribing {
			m.interim = ""
		}

	case EventInterim:
		m.interim = ev.Text

	case EventFinal:
		m.entries = append(m.entries, ev.Entry)
		m.interim = ""

	case EventCleared:
		m.entries = nil

	case EventError:
		m.errText = errorText(ev.Code, ev.Detail)
		if ev.Code == domain.ErrorCodeRecognition || ev.Code == domain.ErrorCodeRules {
			return clearErrorCmd()
		}
	}

	return nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if m.controller != nil {
			m.controller.Stop()
		}
		return m, tea.Quit

	case " ":
		if m.controller == nil {
			return m, nil
		}
		if m.state == domain.ControllerStateIdle {
			return m, startCmd(m.controller)
		}
		return m, stopCmd(m.controller)

	case "s", "S":
		if m.controller == nil {
			return m, nil
		}
		return m, startCmd(m.controller)

	case "x", "X":
		if m.controller == nil {
			return m, nil
		}
		return m, stopCmd(m.controller)

	case "c", "C":
		if m.controller == nil {
			return m, nil
		}
		return m, clearCmd(m.controller)
	}

	return m, nil
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, dividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderTranscript())
	sections = append(sections, dividerStyle.Render(strings.Repeat("─", m.width)))
	if m.errText != "" {
		sections = append(sections, errorStyle.Render("  "+m.errText))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("WAKE SLEEP")

	var badge string
	switch m.state {
	case domain.ControllerStateTranscribing:
		badge = liveDotStyle.Render("●") + liveBadgeStyle.Render(" LIVE")
	case domain.ControllerStateListeningForWake:
		badge = wakeDotStyle.Render("◌ WAKE")
	default:
		badge = idleDotStyle.Render("○ IDLE")
	}

	return title + "  " + badge + "  " + statusStyle.Render(m.statusText)
}

func (m Model) renderTranscript() string {
	visible := m.transcriptVisibleLines()

	var lines []string
	if len(m.entries) == 0 && m.interim == "" {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("  Press space to start listening"))
	} else {
		for _, e := range m.entries {
			ts := timestampStyle.Render(e.CreatedAt.Format("[15:04:05]"))
			lines = append(lines, fmt.Sprintf("  %s %s", ts, e.Text))
		}
		if m.interim != "" {
			lines = append(lines, "  "+interimStyle.Render(m.interim))
		}
	}

	// Tail the log so the newest lines stay on screen.
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	for len(lines) < visible {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func (m Model) transcriptVisibleLines() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + dividers(2) + error(1) + footer(1)
	reserved := 6
	if m.errText == "" {
		reserved = 5
	}
	if v := m.height - reserved; v > 5 {
		return v
	}
	return 5
}

func (m Model) renderFooter() string {
	keys := []struct{ key, desc string }{
		{"space", "start/stop"},
		{"s", "start"},
		{"x", "stop"},
		{"c", "clear"},
		{"q", "quit"},
	}
	var parts []string
	for _, k := range keys {
		parts = append(parts, footerKeyStyle.Render(k.key)+footerDescStyle.Render(" "+k.desc))
	}
	return "  " + strings.Join(parts, "   ")
}

func reasonText(reason domain.StateReason) string {
	switch reason {
	case domain.ReasonControllerReady:
		return "Ready"
	case domain.ReasonListeningStarted:
		return "Listening for the wake word"
	case domain.ReasonWakeWordDetected:
		return "Wake word heard. Transcribing..."
	case domain.ReasonSleepWordDetected:
		return "Sleep word heard. Listening for the wake word"
	case domain.ReasonStopped:
		return "Stopped"
	case domain.ReasonInactivityTimeout:
		return "No speech for a while. Stopped listening"
	case domain.ReasonRestartExhausted:
		return "Recognition kept failing and was stopped"
	default:
		return ""
	}
}

func errorText(code domain.ErrorCode, detail string) string {
	if detail == "" {
		return string(code)
	}
	return detail
}
