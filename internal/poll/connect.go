package poll

import (
	"encoding/json"
	"fmt"

	"github.com/muurk/ewcportal/internal/device"
	"github.com/muurk/ewcportal/internal/logging"
	"github.com/muurk/ewcportal/internal/loop"
	"github.com/muurk/ewcportal/internal/page"
	"github.com/muurk/ewcportal/internal/urls"
)

// ConnectState is the state of a station connection attempt.
type ConnectState int

const (
	ConnectIdle ConnectState = iota
	Connecting
	Connected
	ConnectFailed
	Disconnected
)

func (s ConnectState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case ConnectFailed:
		return "failed"
	case Disconnected:
		return "disconnected"
	default:
		return "idle"
	}
}

// Terminal reports whether no further polling happens from s.
func (s ConnectState) Terminal() bool {
	return s == Connected || s == ConnectFailed || s == Disconnected
}

// ConnectPoller follows a connection attempt until it settles.
//
// Outside the scan page, terminal states arm a fallback navigation: to the
// info page on success, back to the setup page on failure.
type ConnectPoller struct {
	page     *page.Page
	queue    Enqueuer
	poll     *TimerSlot
	fallback *TimerSlot
	opts     Options

	state    ConnectState
	attempts int
	last     device.WiFiState
}

// NewConnectPoller creates a connect controller rendering into p.
func NewConnectPoller(p *page.Page, queue Enqueuer, runner loop.Runner, opts Options) *ConnectPoller {
	return &ConnectPoller{
		page:     p,
		queue:    queue,
		poll:     NewTimerSlot(runner, "poll"),
		fallback: NewTimerSlot(runner, "fallback"),
		opts:     opts.withDefaults(),
	}
}

// Render is the renderer for /wifi/state.json.
func (c *ConnectPoller) Render(payload json.RawMessage, uri string) error {
	var st device.WiFiState
	if err := json.Unmarshal(payload, &st); err != nil {
		return fmt.Errorf("decode wifi state from %s: %w", uri, err)
	}
	c.Handle(st)
	return nil
}

// Handle advances the state machine with one status response.
func (c *ConnectPoller) Handle(st device.WiFiState) {
	if c.state != Connecting {
		c.attempts = 0
	}
	c.last = st

	switch {
	case st.SSID == "":
		c.poll.Stop()
		c.fallback.Stop()
		c.page.Remove(page.IDDisconnect)
		c.page.SetContent(page.IDSSIDCurrent, "not connected")
		c.transition(Disconnected)

	case st.Connected:
		c.poll.Stop()
		status := st.SSID + ": connected"
		if st.LocalIP != "" {
			status += " " + st.LocalIP
		}
		c.page.SetContent(page.IDSSIDCurrent, status)
		c.page.UpsertAfter(page.IDSSIDCurrent, page.Element{
			ID:    page.IDDisconnect,
			Kind:  page.KindInput,
			Type:  "button",
			Value: "disconnect",
			Href:  urls.WiFiDisconnect,
		})
		c.page.Remove(page.IDBusy)
		c.armFallback(urls.InfoPage, "connected")
		c.transition(Connected)

	case st.Failed:
		c.poll.Stop()
		c.page.Remove(page.IDDisconnect)
		c.page.SetContent(page.IDSSIDCurrent, st.SSID+": "+st.Reason)
		c.page.Remove(page.IDBusy)
		c.armFallback(urls.SetupPage, "connect failed")
		c.transition(ConnectFailed)

	default:
		c.attempts++
		c.page.SetContent(page.IDSSIDCurrent, fmt.Sprintf("%s: connecting...%d", st.SSID, c.attempts))
		c.fallback.Stop()
		c.transition(Connecting)
		c.poll.Arm(c.opts.PollDelay, func() {
			c.queue.Enqueue(urls.WiFiState, ConnectRenderer)
		})
	}
}

// armFallback schedules a navigation to target unless the scan page is
// showing, where the user stays to pick another network.
func (c *ConnectPoller) armFallback(target, reason string) {
	if c.page.Has(page.IDSSIDList) {
		c.fallback.Stop()
		return
	}
	c.fallback.Arm(c.opts.FallbackDelay, func() {
		logging.LogNavigation(target, reason)
		c.page.Navigate(target)
	})
}

func (c *ConnectPoller) transition(to ConnectState) {
	from := c.state
	c.state = to
	if from != to {
		logging.LogTransition("connect", from.String(), to.String(), c.attempts)
	}
	if to.Terminal() && c.opts.OnDone != nil {
		c.opts.OnDone()
	}
}

// State returns the current state.
func (c *ConnectPoller) State() ConnectState {
	return c.state
}

// Attempts returns the number of still-connecting responses seen in the
// current or most recent attempt.
func (c *ConnectPoller) Attempts() int {
	return c.attempts
}

// Last returns the most recent status response.
func (c *ConnectPoller) Last() device.WiFiState {
	return c.last
}

// PollTimer exposes the poll slot for inspection.
func (c *ConnectPoller) PollTimer() *TimerSlot {
	return c.poll
}

// FallbackTimer exposes the fallback slot for inspection.
func (c *ConnectPoller) FallbackTimer() *TimerSlot {
	return c.fallback
}
