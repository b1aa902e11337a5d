package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrCircuitOpen means the guarded call was skipped because the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrProbeInFlight means a half-open probe is already running.
	ErrProbeInFlight = errors.New("circuit breaker probe in flight")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// Threshold is the number of consecutive failures that opens the breaker
	Threshold int
	// Cooldown is how long the breaker stays open before a probe is allowed
	Cooldown time.Duration
	// OnStateChange is called whenever the state changes, outside the lock
	OnStateChange func(name string, from, to State)
	// Now overrides the clock in tests
	Now func() time.Time
}

// Counts holds the statistics for the circuit breaker
type Counts struct {
	Successes           uint64
	Failures            uint64
	Rejected            uint64
	ConsecutiveFailures int
}

// Breaker stops calling a failing dependency for a cooldown period, then lets
// a single probe through to decide whether to close again.
type Breaker struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State
	counts   Counts
	openedAt time.Time
	probing  bool
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.Threshold <= 0 {
		settings.Threshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &Breaker{name: name, settings: settings}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	state, promoted := b.current()
	b.mu.Unlock()
	if promoted {
		b.notify(StateOpen, StateHalfOpen)
	}
	return state
}

// Counts returns a copy of the internal counts
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Do runs fn if the breaker accepts the call. A panic in fn counts as a
// failure and is re-raised.
func (b *Breaker) Do(fn func() error) (err error) {
	if err := b.before(); err != nil {
		return err
	}

	completed := false
	defer func() {
		if !completed {
			b.after(false)
		}
	}()

	err = fn()
	completed = true
	b.after(err == nil)
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	state, promoted := b.current()
	var err error
	switch state {
	case StateOpen:
		b.counts.Rejected++
		err = ErrCircuitOpen
	case StateHalfOpen:
		if b.probing {
			b.counts.Rejected++
			err = ErrProbeInFlight
		} else {
			b.probing = true
		}
	}
	b.mu.Unlock()

	if promoted {
		b.notify(StateOpen, StateHalfOpen)
	}
	return err
}

func (b *Breaker) after(success bool) {
	b.mu.Lock()
	from := b.state
	b.probing = false

	if success {
		b.counts.Successes++
		b.counts.ConsecutiveFailures = 0
		b.state = StateClosed
	} else {
		b.counts.Failures++
		b.counts.ConsecutiveFailures++
		if from == StateHalfOpen || b.counts.ConsecutiveFailures >= b.settings.Threshold {
			b.state = StateOpen
			b.openedAt = b.settings.Now()
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// current promotes an expired open breaker to half-open. Callers hold mu.
func (b *Breaker) current() (State, bool) {
	if b.state == StateOpen && b.settings.Now().Sub(b.openedAt) >= b.settings.Cooldown {
		b.state = StateHalfOpen
		return b.state, true
	}
	return b.state, false
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
