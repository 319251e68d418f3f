package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/muurk/ewcportal/internal/device"
	"github.com/muurk/ewcportal/internal/logging"
	"github.com/muurk/ewcportal/internal/loop"
)

// DefaultFetchTimeout bounds a single fetch when Options.FetchTimeout is zero.
const DefaultFetchTimeout = 10 * time.Second

// Order selects which pending request is serviced next.
type Order int

const (
	// OrderFIFO services requests in the order they were enqueued.
	OrderFIFO Order = iota
	// OrderLIFO services the most recently enqueued request first.
	OrderLIFO
)

func (o Order) String() string {
	if o == OrderLIFO {
		return "lifo"
	}
	return "fifo"
}

// ParseOrder converts "fifo" or "lifo" to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "fifo":
		return OrderFIFO, nil
	case "lifo":
		return OrderLIFO, nil
	default:
		return OrderFIFO, fmt.Errorf("unknown queue order %q", s)
	}
}

// Fetcher retrieves a JSON document from the device.
type Fetcher interface {
	FetchJSON(ctx context.Context, uri string) (json.RawMessage, error)
}

// Dispatcher hands a payload to the renderer registered under name.
type Dispatcher interface {
	Invoke(name string, payload json.RawMessage, uri string) error
}

// PendingRequest is a queued fetch.
type PendingRequest struct {
	URI      string
	Renderer string
}

// Stats counts request outcomes.
type Stats struct {
	Enqueued       int
	Dispatched     int
	FetchFailed    int
	RendererFailed int
}

// Options configures a Scheduler.
type Options struct {
	Order        Order
	FetchTimeout time.Duration

	// SessionID tags log entries.
	SessionID string

	// OnIdle, if set, runs on the loop whenever the queue empties with no
	// request in flight.
	OnIdle func()
}

// Scheduler serializes device fetches through one queue with at most one
// request in flight.
//
// All methods must be called from the runner's loop.
type Scheduler struct {
	ctx      context.Context
	runner   loop.Runner
	fetcher  Fetcher
	dispatch Dispatcher
	opts     Options

	queue    []PendingRequest
	inFlight *PendingRequest
	stats    Stats
}

// New creates a Scheduler. ctx bounds every fetch it issues.
func New(ctx context.Context, runner loop.Runner, fetcher Fetcher, dispatch Dispatcher, opts Options) *Scheduler {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Scheduler{
		ctx:      ctx,
		runner:   runner,
		fetcher:  fetcher,
		dispatch: dispatch,
		opts:     opts,
	}
}

// Enqueue queues a fetch of uri for renderer and tries to drain. Duplicate
// URIs are allowed.
func (s *Scheduler) Enqueue(uri, renderer string) {
	s.queue = append(s.queue, PendingRequest{URI: uri, Renderer: renderer})
	s.stats.Enqueued++
	s.Drain()
}

// Drain starts the next request unless one is already in flight.
func (s *Scheduler) Drain() {
	if s.inFlight != nil {
		return
	}
	req, ok := s.pop()
	if !ok {
		if s.opts.OnIdle != nil {
			s.opts.OnIdle()
		}
		return
	}
	s.inFlight = &req

	s.runner.Spawn(func() func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.opts.FetchTimeout)
		defer cancel()

		start := time.Now()
		payload, err := s.fetcher.FetchJSON(ctx, req.URI)
		elapsed := time.Since(start)

		return func() { s.complete(req, payload, err, elapsed) }
	})
}

func (s *Scheduler) complete(req PendingRequest, payload json.RawMessage, fetchErr error, elapsed time.Duration) {
	defer func() {
		s.inFlight = nil
		s.Drain()
	}()

	logging.LogFetch(s.opts.SessionID, req.URI, statusOf(fetchErr), elapsed)
	if fetchErr != nil {
		s.stats.FetchFailed++
		logging.LogDispatch(s.opts.SessionID, req.URI, req.Renderer, fetchErr)
		return
	}

	err := s.dispatch.Invoke(req.Renderer, payload, req.URI)
	if err != nil {
		s.stats.RendererFailed++
	} else {
		s.stats.Dispatched++
	}
	logging.LogDispatch(s.opts.SessionID, req.URI, req.Renderer, err)
}

func (s *Scheduler) pop() (PendingRequest, bool) {
	if len(s.queue) == 0 {
		return PendingRequest{}, false
	}
	var req PendingRequest
	if s.opts.Order == OrderLIFO {
		req = s.queue[len(s.queue)-1]
		s.queue = s.queue[:len(s.queue)-1]
	} else {
		req = s.queue[0]
		s.queue = s.queue[1:]
	}
	return req, true
}

// Pending returns a copy of the queued requests in queue order.
func (s *Scheduler) Pending() []PendingRequest {
	return append([]PendingRequest(nil), s.queue...)
}

// InFlight returns the URI currently being fetched.
func (s *Scheduler) InFlight() (string, bool) {
	if s.inFlight == nil {
		return "", false
	}
	return s.inFlight.URI, true
}

// Idle reports whether the queue is empty and nothing is in flight.
func (s *Scheduler) Idle() bool {
	return s.inFlight == nil && len(s.queue) == 0
}

// Stats returns the outcome counters.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	var devErr *device.DeviceError
	if errors.As(err, &devErr) {
		return devErr.StatusCode
	}
	return 0
}
