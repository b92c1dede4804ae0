package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SergeyKa2021/rtl-433/internal/device"
)

// maxHistory bounds how many records the monitor keeps on screen.
const maxHistory = 50

// Message types for async feed events
type connectedMsg struct{}

type recordMsg struct {
	rec *device.Record
}

type feedErrorMsg struct {
	err error
}

// monitorKeyMap defines key bindings for the monitor screen
type monitorKeyMap struct {
	Clear key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k monitorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Clear, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k monitorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Clear, k.Quit}}
}

// MonitorModel is the Bubble Tea model for the live record view.
type MonitorModel struct {
	URL  string
	Feed *Feed

	// UI state
	Width     int
	Height    int
	Connected bool
	FeedErr   error

	// Newest record first
	Records []*device.Record

	Spinner spinner.Model
	Help    help.Model
	Keys    monitorKeyMap
}

// NewMonitorModel creates a monitor for the given stream URL.
func NewMonitorModel(url string) MonitorModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	keys := monitorKeyMap{
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	return MonitorModel{
		URL:     url,
		Feed:    NewFeed(url),
		Width:   GetTerminalWidth(),
		Spinner: s,
		Help:    help.New(),
		Keys:    keys,
	}
}

// Init connects to the stream and starts the spinner.
func (m MonitorModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, connectCmd(m.Feed))
}

// connectCmd dials the feed off the UI goroutine.
func connectCmd(feed *Feed) tea.Cmd {
	return func() tea.Msg {
		if err := feed.Connect(); err != nil {
			return feedErrorMsg{err: err}
		}
		return connectedMsg{}
	}
}

// waitForRecord blocks on the feed until the next record arrives.
func waitForRecord(feed *Feed) tea.Cmd {
	return func() tea.Msg {
		rec, err := feed.Next()
		if err != nil {
			return feedErrorMsg{err: err}
		}
		return recordMsg{rec: rec}
	}
}

// Update handles messages and updates the model
func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			_ = m.Feed.Close()
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Clear):
			m.Records = nil
		}

	case connectedMsg:
		m.Connected = true
		m.FeedErr = nil
		return m, waitForRecord(m.Feed)

	case recordMsg:
		m.Records = append([]*device.Record{msg.rec}, m.Records...)
		if len(m.Records) > maxHistory {
			m.Records = m.Records[:maxHistory]
		}
		return m, waitForRecord(m.Feed)

	case feedErrorMsg:
		m.Connected = false
		m.FeedErr = msg.err

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the monitor screen.
func (m MonitorModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("rtl433 monitor"))
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(m.URL))
	b.WriteString("\n\n")

	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.Help.View(m.Keys))

	return b.String()
}

func (m MonitorModel) statusLine() string {
	switch {
	case m.Connected:
		return ConnectedStyle.Render("● connected")
	case m.FeedErr != nil:
		return DisconnectedStyle.Render("✗ " + m.FeedErr.Error())
	default:
		return m.Spinner.View() + " connecting"
	}
}

const rowFormat = "%-10s %-20s %4s %3s %8s %5s %-9s"

func (m MonitorModel) renderTable() string {
	header := TableHeaderStyle.Render(fmt.Sprintf(rowFormat,
		"TIME", "MODEL", "ID", "CH", "TEMP", "BATT", "MIC"))

	if len(m.Records) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			SubtitleStyle.Render("waiting for records..."),
		)
	}

	lines := []string{header}
	for i, rec := range m.Records {
		style := RowStyle
		if i == 0 {
			style = LatestRowStyle
		}
		lines = append(lines, style.Render(formatRecord(rec)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatRecord(rec *device.Record) string {
	batt := "ok"
	if rec.BatteryOK == 0 {
		batt = "LOW"
	}
	return fmt.Sprintf(rowFormat,
		rec.Time.Format("15:04:05"),
		rec.Model,
		fmt.Sprintf("%d", rec.ID),
		fmt.Sprintf("%d", rec.Channel),
		fmt.Sprintf("%.1f°C", rec.TemperatureC),
		batt,
		rec.MIC,
	)
}

// RunMonitor runs the monitor program until the user quits.
func RunMonitor(url string) error {
	p := tea.NewProgram(NewMonitorModel(url), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor failed: %w", err)
	}
	return nil
}
