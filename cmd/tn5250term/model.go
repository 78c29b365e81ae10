package main

import (
	"net"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stlalpha/tn5250r/internal/display"
	"github.com/stlalpha/tn5250r/internal/field"
	"github.com/stlalpha/tn5250r/internal/session"
)

// model is the bubbletea.Model driving one session end to end: it owns
// the TCP connection and the session façade, and renders the display
// buffer through lipgloss on every dirty feed. Grounded on the teacher's
// internal/configtool/tui.Application, reduced from a multi-window menu
// shell to a single fixed-grid terminal view.
type model struct {
	conn net.Conn
	sess *session.Session
	keys keyMap

	size  display.Size
	cells []display.Cell
	flds  []field.Field

	status string
	err    error
}

func newModel(conn net.Conn, sess *session.Session) model {
	return model{
		conn:   conn,
		sess:   sess,
		keys:   defaultKeyMap(),
		size:   sess.ScreenSize(),
		status: "connecting...",
	}
}

// wireMsg carries one inbound read from the connection (or its error)
// into Update, the same read-then-message pattern the teacher's bubbletea
// components use for any blocking I/O.
type wireMsg struct {
	data []byte
	err  error
}

func readConn(conn net.Conn) tea.Cmd {
	return func() tea.Msg {
		buf := make([]byte, 4096)
		n, err := conn.Read(buf)
		if err != nil {
			return wireMsg{err: err}
		}
		return wireMsg{data: append([]byte(nil), buf[:n]...)}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, readConn(m.conn))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case wireMsg:
		return m.handleWire(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleWire(msg wireMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		m.status = "connection closed: " + msg.err.Error()
		return m, tea.Quit
	}
	feed, err := m.sess.Feed(msg.data)
	if err != nil {
		m.status = "protocol error: " + err.Error()
		return m, readConn(m.conn)
	}
	if len(feed.Response) > 0 {
		if _, werr := m.conn.Write(feed.Response); werr != nil {
			m.err = werr
			return m, tea.Quit
		}
	}
	if feed.DisplayDirty {
		m.refresh()
	}
	if m.sess.NegotiationComplete() {
		m.status = "connected"
	}
	return m, readConn(m.conn)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sess.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Enter):
		return m.sendAID(m.sess.Enter())
	case key.Matches(msg, m.keys.Clear):
		return m.sendAID(m.sess.Clear())
	case key.Matches(msg, m.keys.Tab):
		_ = m.sess.Tab()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Backtab):
		_ = m.sess.Backtab()
		m.refresh()
		return m, nil
	}
	for i, pf := range m.keys.PF {
		if key.Matches(msg, pf) {
			resp, err := m.sess.FunctionKey(i + 1)
			return m.sendAID(resp, err)
		}
	}
	if len(msg.Runes) == 1 {
		_ = m.sess.Key(msg.Runes[0])
		m.refresh()
	}
	return m, nil
}

func (m model) sendAID(resp []byte, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.status = "AID error: " + err.Error()
		return m, nil
	}
	m.refresh()
	if len(resp) > 0 {
		if _, werr := m.conn.Write(resp); werr != nil {
			m.err = werr
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *model) refresh() {
	m.cells = m.sess.SnapshotDisplay()
	m.flds = m.sess.SnapshotFields()
}

// fieldAt returns the field covering addr, if any. Fields are sorted by
// StartAddr (field.Manager's invariant), so a forward scan stops at the
// first candidate whose range contains addr.
func fieldAt(flds []field.Field, addr int) (*field.Field, bool) {
	for i := range flds {
		f := &flds[i]
		if addr > f.StartAddr && addr <= f.StartAddr+f.Length {
			return f, true
		}
	}
	return nil, false
}

func styleFor(f *field.Field) lipgloss.Style {
	if f == nil {
		return styleNormal
	}
	switch {
	case f.Class == field.DisplayNonDisplay:
		return styleProtected
	case f.Class == field.DisplayIntensified:
		return styleIntensified
	case f.Protected():
		return styleProtected
	default:
		return styleNormal
	}
}

func (m model) View() string {
	if len(m.cells) == 0 {
		return "tn5250term: " + m.status + "\n"
	}

	var b strings.Builder
	for row := 0; row < m.size.Rows; row++ {
		for col := 0; col < m.size.Cols; col++ {
			addr := row*m.size.Cols + col
			c := m.cells[addr]
			ch := string(c.Char)
			if c.Char == 0 {
				ch = " "
			}
			f, _ := fieldAt(m.flds, addr)
			if f != nil && f.Class == field.DisplayNonDisplay {
				ch = " "
			}
			b.WriteString(styleFor(f).Render(ch))
		}
		b.WriteString("\n")
	}

	bar := styleStatusBar
	if m.err != nil {
		bar = styleStatusAlert
	}
	b.WriteString(bar.Width(m.size.Cols).Render(" " + m.status + " "))
	return b.String()
}
