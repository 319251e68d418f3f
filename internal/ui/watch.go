package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ewcportal/internal/page"
	"github.com/muurk/ewcportal/internal/poll"
	"github.com/muurk/ewcportal/internal/portal"
)

// DefaultRefreshInterval is how often the watch view re-reads the session.
const DefaultRefreshInterval = 250 * time.Millisecond

// Snapshot is a copy of a session's observable state.
type Snapshot struct {
	SessionID       string
	Path            string
	Elements        []page.Element
	ScanState       poll.ScanState
	ScanAttempts    int
	ConnectState    poll.ConnectState
	ConnectAttempts int
	Pending         int
	InFlight        string
	Dispatched      int
	Failed          int
	LastNavigation  string
}

// Busy reports whether the session is still working.
func (s Snapshot) Busy() bool {
	return s.InFlight != "" || s.Pending > 0 || s.ScanState == poll.ScanScanning || s.ConnectState == poll.Connecting
}

// SnapshotOf copies the state of s. It must run on the session's runner.
func SnapshotOf(s *portal.Session) Snapshot {
	sched := s.Scheduler()
	stats := sched.Stats()
	inFlight, _ := sched.InFlight()
	return Snapshot{
		SessionID:       s.ID(),
		Path:            s.Page().Path(),
		Elements:        s.Page().Elements(),
		ScanState:       s.Scan().State(),
		ScanAttempts:    s.Scan().Attempts(),
		ConnectState:    s.Connect().State(),
		ConnectAttempts: s.Connect().Attempts(),
		Pending:         len(sched.Pending()),
		InFlight:        inFlight,
		Dispatched:      stats.Dispatched,
		Failed:          stats.FetchFailed + stats.RendererFailed,
	}
}

// WatchActions are the session actions the watch view can trigger.
// Nil actions are ignored.
type WatchActions struct {
	Rescan     func()
	State      func()
	Disconnect func()
}

type snapshotMsg struct {
	snap Snapshot
	err  error
}

type tickMsg time.Time

// WatchModel is a live view of a portal session.
type WatchModel struct {
	source   func() (Snapshot, error)
	actions  WatchActions
	interval time.Duration

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int

	snap     Snapshot
	err      error
	received bool
	quitting bool
}

// NewWatchModel creates a watch view reading session state through source.
func NewWatchModel(source func() (Snapshot, error), actions WatchActions) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StatusStyle.PaddingLeft(0)

	return WatchModel{
		source:   source,
		actions:  actions,
		interval: DefaultRefreshInterval,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		width:    GetTerminalWidth(),
	}
}

// WithInterval sets the refresh interval.
func (m WatchModel) WithInterval(d time.Duration) WatchModel {
	if d > 0 {
		m.interval = d
	}
	return m
}

// Snapshot returns the last snapshot received.
func (m WatchModel) Snapshot() Snapshot {
	return m.snap
}

// Err returns the last error reported by the snapshot source.
func (m WatchModel) Err() error {
	return m.err
}

// Init implements tea.Model
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m WatchModel) fetch() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		snap, err := source()
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m WatchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = ClampWidth(msg.Width, nil)
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.received = true
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
		}
		return m, m.tick()

	case tickMsg:
		return m, m.fetch()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Rescan):
		run(m.actions.Rescan)
		return m, m.fetch()
	case key.Matches(msg, m.keys.State):
		run(m.actions.State)
		return m, m.fetch()
	case key.Matches(msg, m.keys.Disconnect):
		run(m.actions.Disconnect)
		return m, m.fetch()
	}
	return m, nil
}

func run(fn func()) {
	if fn != nil {
		fn()
	}
}

// View implements tea.Model
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.received {
		return "\n  " + m.spinner.View() + " Loading portal...\n"
	}

	var b strings.Builder
	b.WriteString(RenderPage(m.snap.Path, m.snap.Elements, m.width))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(ErrorMessageStyle.Render("  " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("  " + m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m WatchModel) statusLine() string {
	s := m.snap
	indicator := SuccessTitleStyle.Render(SuccessMarker)
	if s.Busy() {
		indicator = m.spinner.View()
	}
	parts := []string{
		fmt.Sprintf("scan %s/%d", s.ScanState, s.ScanAttempts),
		fmt.Sprintf("connect %s/%d", s.ConnectState, s.ConnectAttempts),
		fmt.Sprintf("queue %d", s.Pending),
	}
	if s.InFlight != "" {
		parts = append(parts, "fetching "+s.InFlight)
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("failed %d", s.Failed))
	}
	if s.LastNavigation != "" {
		parts = append(parts, "→ "+s.LastNavigation)
	}
	return "  " + indicator + " " + MutedStyle.Render(strings.Join(parts, "  "))
}
