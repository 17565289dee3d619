// Package tui is a terminal client for the websocket chat protocol.
package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"medichat/internal/chat"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
)

var (
	titleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1).
			Bold(true)

	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	thoughtStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type frameMsg chat.Frame

type connClosedMsg struct{ err error }

// Model is the bubbletea model for the chat client.
type Model struct {
	conn     *websocket.Conn
	frames   chan tea.Msg
	viewport viewport.Model
	input    textinput.Model
	lines    []string
	waiting  bool
	ready    bool
	err      error
}

// Run connects to the backend and drives the TUI until quit.
func Run(addr string) error {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws/chat"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", u.String(), err)
	}
	defer conn.Close()

	m := newModel(conn)
	go m.readFrames()

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newModel(conn *websocket.Conn) *Model {
	input := textinput.New()
	input.Placeholder = "Ask about your health data or documents..."
	input.Focus()

	return &Model{
		conn:   conn,
		frames: make(chan tea.Msg, 16),
		input:  input,
	}
}

// readFrames pumps inbound frames into the update loop.
func (m *Model) readFrames() {
	for {
		var f chat.Frame
		if err := m.conn.ReadJSON(&f); err != nil {
			m.frames <- connClosedMsg{err: err}
			return
		}
		m.frames <- frameMsg(f)
	}
}

func (m *Model) waitForFrame() tea.Cmd {
	return func() tea.Msg { return <-m.frames }
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForFrame())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.appendLine(userStyle.Render("you") + " " + text)
			m.waiting = true
			if err := m.send(text); err != nil {
				m.appendLine(errorStyle.Render("send failed: " + err.Error()))
				m.waiting = false
			}
			return m, nil
		}

	case frameMsg:
		m.handleFrame(chat.Frame(msg))
		return m, m.waitForFrame()

	case connClosedMsg:
		m.err = msg.err
		m.appendLine(errorStyle.Render("connection closed"))
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) send(text string) error {
	payload, err := json.Marshal(map[string]string{"role": "user", "content": text})
	if err != nil {
		return err
	}
	return m.conn.WriteMessage(websocket.TextMessage, payload)
}

func (m *Model) handleFrame(f chat.Frame) {
	switch f.Type {
	case chat.FrameThought:
		m.appendLine(thoughtStyle.Render("· " + f.Content))
	case chat.FrameAssistant:
		m.appendLine(sourceStyle.Render(f.Source) + " " + f.Content)
	case chat.FrameError:
		m.appendLine(errorStyle.Render("error: " + f.Content))
		m.waiting = false
	case chat.FrameTaskCompleted:
		m.waiting = false
	}
}

func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) View() string {
	if !m.ready {
		return "connecting..."
	}
	status := ""
	if m.waiting {
		status = thoughtStyle.Render(" thinking...")
	}
	return titleStyle.Render("medichat") + status + "\n" +
		m.viewport.View() + "\n" +
		m.input.View() + "\n" +
		helpStyle.Render("enter to send · esc to quit")
}
