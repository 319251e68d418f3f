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

// ScanState is the state of a network scan.
type ScanState int

const (
	ScanIdle ScanState = iota
	ScanScanning
	ScanSuccess
	ScanFailed
)

func (s ScanState) String() string {
	switch s {
	case ScanScanning:
		return "scanning"
	case ScanSuccess:
		return "success"
	case ScanFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Terminal reports whether no further polling happens from s.
func (s ScanState) Terminal() bool {
	return s == ScanSuccess || s == ScanFailed
}

// ScanEntry is a scan result with its computed signal quality.
type ScanEntry struct {
	device.Network
	Quality int
}

// ScanResult is the outcome of a finished scan.
type ScanResult struct {
	Networks []ScanEntry
	Total    int
	Hidden   int
}

// ScanPoller drives a network scan to completion.
type ScanPoller struct {
	page  *page.Page
	queue Enqueuer
	poll  *TimerSlot
	opts  Options

	state    ScanState
	attempts int
	reason   string
	result   ScanResult
}

// NewScanPoller creates a scan controller rendering into p.
func NewScanPoller(p *page.Page, queue Enqueuer, runner loop.Runner, opts Options) *ScanPoller {
	return &ScanPoller{
		page:  p,
		queue: queue,
		poll:  NewTimerSlot(runner, "poll"),
		opts:  opts.withDefaults(),
	}
}

// Render is the renderer for /wifi/stations.json.
func (s *ScanPoller) Render(payload json.RawMessage, uri string) error {
	var status device.ScanStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return fmt.Errorf("decode scan status from %s: %w", uri, err)
	}
	s.Handle(status)
	return nil
}

// Handle advances the state machine with one status response.
func (s *ScanPoller) Handle(status device.ScanStatus) {
	if s.state != ScanScanning {
		s.attempts = 0
	}

	switch {
	case status.Failed:
		s.poll.Stop()
		s.reason = status.Reason
		msg := "scan for WiFi stations failed!"
		if status.Reason != "" {
			msg += " " + status.Reason
		}
		s.page.RemovePrefix(page.SSIDItemPrefix)
		s.page.SetContent(page.IDSSIDList, msg)
		s.page.SetContent(page.IDSSIDListInfo, "")
		s.transition(ScanFailed)

	case !status.Finished:
		s.attempts++
		s.page.SetContent(page.IDSSIDList, fmt.Sprintf("scan in progress...%d", s.attempts))
		s.page.SetContent(page.IDSSIDListInfo, "")
		s.transition(ScanScanning)
		s.poll.Arm(s.opts.PollDelay, func() {
			s.queue.Enqueue(urls.WiFiStations, ScanRenderer)
		})

	default:
		s.poll.Stop()
		s.reason = ""
		s.result = buildResult(status.Networks)
		s.renderResult()
		s.transition(ScanSuccess)
	}
}

func buildResult(networks []device.Network) ScanResult {
	res := ScanResult{Networks: make([]ScanEntry, 0, len(networks)), Total: len(networks)}
	for _, n := range networks {
		if n.Hidden {
			res.Hidden++
		}
		res.Networks = append(res.Networks, ScanEntry{Network: n, Quality: QualityFromRSSI(n.RSSI)})
	}
	return res
}

func (s *ScanPoller) renderResult() {
	s.page.RemovePrefix(page.SSIDItemPrefix)
	s.page.SetContent(page.IDSSIDList, "")

	anchor := page.IDSSIDList
	for i, n := range s.result.Networks {
		classes := []string{"slist"}
		if n.Encrypted {
			classes = append(classes, "encrypted")
		}
		if n.Hidden {
			classes = append(classes, "hidden")
		}
		id := fmt.Sprintf("%s%d", page.SSIDItemPrefix, i)
		s.page.UpsertAfter(anchor, page.Element{
			ID:      id,
			Kind:    page.KindInput,
			Type:    "button",
			Value:   n.SSID,
			Content: fmt.Sprintf("%d%% Ch.%d", n.Quality, n.Channel),
			Classes: classes,
		})
		anchor = id
	}
	s.page.SetContent(page.IDSSIDListInfo, fmt.Sprintf("Total: %d Hidden: %d", s.result.Total, s.result.Hidden))
}

func (s *ScanPoller) transition(to ScanState) {
	from := s.state
	s.state = to
	if from != to {
		logging.LogTransition("scan", from.String(), to.String(), s.attempts)
	}
	if to.Terminal() && s.opts.OnDone != nil {
		s.opts.OnDone()
	}
}

// State returns the current state.
func (s *ScanPoller) State() ScanState {
	return s.state
}

// Attempts returns the number of in-progress responses seen in the current
// or most recent scan.
func (s *ScanPoller) Attempts() int {
	return s.attempts
}

// Reason returns the failure reason reported by the device, if any.
func (s *ScanPoller) Reason() string {
	return s.reason
}

// Result returns the last successful scan.
func (s *ScanPoller) Result() ScanResult {
	return s.result
}

// PollTimer exposes the poll slot for inspection.
func (s *ScanPoller) PollTimer() *TimerSlot {
	return s.poll
}
