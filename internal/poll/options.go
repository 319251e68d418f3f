package poll

import "time"

const (
	// DefaultPollDelay is the pause between two status checks.
	DefaultPollDelay = 1000 * time.Millisecond

	// DefaultFallbackDelay is how long a terminal connection state stays on
	// screen before the fallback navigation.
	DefaultFallbackDelay = 3000 * time.Millisecond
)

// Renderer names the controllers register under.
const (
	ScanRenderer    = "wifistations"
	ConnectRenderer = "wifistate"
)

// Enqueuer queues a status fetch. *scheduler.Scheduler implements it.
type Enqueuer interface {
	Enqueue(uri, renderer string)
}

// Options configures a poll controller.
type Options struct {
	PollDelay     time.Duration
	FallbackDelay time.Duration

	// OnDone, if set, runs after every transition into a terminal state.
	OnDone func()
}

func (o Options) withDefaults() Options {
	if o.PollDelay <= 0 {
		o.PollDelay = DefaultPollDelay
	}
	if o.FallbackDelay <= 0 {
		o.FallbackDelay = DefaultFallbackDelay
	}
	return o
}
