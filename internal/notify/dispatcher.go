package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/shared/id"
)

var (
	// ErrQueueFull means the request was rejected because the queue is at capacity.
	ErrQueueFull = errors.New("notification queue full")
	// ErrClosed means the dispatcher no longer accepts requests.
	ErrClosed = errors.New("notification dispatcher closed")
)

// Shower renders one notification. host.OS satisfies it.
type Shower interface {
	ShowNotification(ctx context.Context, n host.Notification) error
}

// Config tunes a Dispatcher.
type Config struct {
	QueueSize   int
	Backoff     time.Duration
	HistorySize int
	AppID       string

	// BreakerThreshold consecutive failures stop deliveries for BreakerCooldown.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// DefaultConfig matches the service defaults
func DefaultConfig() Config {
	return Config{
		QueueSize:        64,
		Backoff:          time.Second,
		HistorySize:      200,
		AppID:            "提醒助手",
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

type queued struct {
	id  string
	req Request
	at  time.Time
}

// Dispatcher drains a bounded FIFO queue with a single worker.
type Dispatcher struct {
	sink    Shower
	cfg     Config
	breaker *resilience.Breaker
	history *History
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu     sync.RWMutex
	queue  chan queued
	closed bool

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	startOnce sync.Once
	started   bool
}

// NewDispatcher creates a dispatcher delivering through sink. Call Start to
// begin draining.
func NewDispatcher(sink Shower, cfg Config, logger *logging.Logger, metrics *monitoring.Metrics) *Dispatcher {
	def := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = def.HistorySize
	}
	if cfg.AppID == "" {
		cfg.AppID = def.AppID
	}

	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = def.BreakerThreshold
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = def.BreakerCooldown
	}

	log := logging.OrNop(logger).Component("notify")
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sink: sink,
		cfg:  cfg,
		breaker: resilience.New("toast", resilience.Settings{
			Threshold: cfg.BreakerThreshold,
			Cooldown:  cfg.BreakerCooldown,
			OnStateChange: func(name string, from, to resilience.State) {
				log.Warn("notification breaker changed state",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
		history: NewHistory(cfg.HistorySize),
		logger:  log,
		metrics: metrics,
		queue:   make(chan queued, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Start launches the worker. Extra calls are no-ops.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		d.mu.Lock()
		d.started = true
		d.mu.Unlock()
		go d.run()
	})
}

// Enqueue appends req to the queue without blocking.
func (d *Dispatcher) Enqueue(req Request) error {
	_, err := d.Submit(req)
	return err
}

// Submit is Enqueue that also returns the delivery ID.
func (d *Dispatcher) Submit(req Request) (string, error) {
	if req.Duration == "" {
		req.Duration = DurationShort
	}
	item := queued{id: id.Default().GenerateWithPrefix("ntf"), req: req, at: time.Now()}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return "", ErrClosed
	}

	select {
	case d.queue <- item:
		d.metrics.SetQueueDepth(len(d.queue))
		return item.id, nil
	default:
		d.metrics.RecordNotification("rejected")
		d.logger.Warn("notification rejected, queue full",
			zap.String("title", req.Title),
			zap.Int("capacity", cap(d.queue)))
		return "", fmt.Errorf("%w (capacity %d)", ErrQueueFull, cap(d.queue))
	}
}

// History returns recent deliveries, newest first
func (d *Dispatcher) History(limit int, outcome Outcome) []Delivery {
	return d.history.Recent(limit, outcome)
}

// BreakerState reports whether deliveries are currently short-circuited
func (d *Dispatcher) BreakerState() resilience.State {
	return d.breaker.State()
}

// Pending returns the number of queued requests
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Close stops accepting requests and waits for the queue to drain. When ctx
// ends first the in-flight delivery is aborted and the rest are dropped.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		d.cancel()
		return nil
	}

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-d.done
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for item := range d.queue {
		d.metrics.SetQueueDepth(len(d.queue))
		if d.ctx.Err() != nil {
			d.record(item, fmt.Errorf("dropped on shutdown: %w", d.ctx.Err()))
			continue
		}
		err := d.deliver(item)
		if err != nil && !errors.Is(err, resilience.ErrCircuitOpen) && d.cfg.Backoff > 0 {
			select {
			case <-time.After(d.cfg.Backoff):
			case <-d.ctx.Done():
			}
		}
	}
}

func (d *Dispatcher) deliver(item queued) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notification panic: %v", r)
		}
		d.record(item, err)
	}()

	return d.breaker.Do(func() error {
		return d.sink.ShowNotification(d.ctx, host.Notification{
			AppID:    d.cfg.AppID,
			Title:    item.req.Title,
			Message:  item.req.Message,
			Duration: item.req.Duration,
		})
	})
}

func (d *Dispatcher) record(item queued, err error) {
	now := time.Now()
	entry := Delivery{
		ID:          item.id,
		Title:       item.req.Title,
		Message:     item.req.Message,
		Source:      item.req.Source,
		Outcome:     OutcomeDelivered,
		EnqueuedAt:  item.at,
		DeliveredAt: now,
		Latency:     now.Sub(item.at),
	}
	if err != nil {
		entry.Outcome = OutcomeFailed
		entry.Error = err.Error()
		d.logger.Error("notification failed",
			zap.String("id", item.id),
			zap.String("title", item.req.Title),
			zap.Error(err))
	} else {
		d.logger.Info("notification shown",
			zap.String("id", item.id),
			zap.String("title", item.req.Title),
			zap.Duration("latency", entry.Latency))
	}
	d.history.Add(entry)
	d.metrics.RecordNotification(string(entry.Outcome))
}
