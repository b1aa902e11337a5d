package reminder

import (
	"container/heap"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/notify"
)

var (
	// ErrNotFound means no reminder has the requested ID.
	ErrNotFound = errors.New("reminder not found")
	// ErrClosed is returned by Set after Close.
	ErrClosed = errors.New("scheduler closed")
)

// DefaultTitle is used when a reminder is set without a title.
const DefaultTitle = "提醒"

// Enqueuer accepts notifications for delivery.
type Enqueuer interface {
	Enqueue(req notify.Request) error
}

// Request describes a reminder to schedule.
type Request struct {
	Expression string
	Message    string
	Title      string
	Repeat     bool
	// RepeatInterval defaults to the parsed delay.
	RepeatInterval time.Duration
}

// Scheduler fires reminders from one goroutine ordered by due time.
type Scheduler struct {
	store        *Store
	out          Enqueuer
	now          func() time.Time
	retention    time.Duration
	defaultTitle string
	logger       *logging.Logger
	metrics      *monitoring.Metrics

	mu      sync.Mutex
	queue   timerQueue
	pending map[int64]*timer
	closed  bool

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	started   bool
	closeOnce sync.Once
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Scheduler) { s.logger = logging.OrNop(l).Component("reminder") }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithRetention keeps completed reminders listed for d before purging them.
// Zero removes them as soon as they fire.
func WithRetention(d time.Duration) Option {
	return func(s *Scheduler) { s.retention = d }
}

// WithDefaultTitle overrides DefaultTitle
func WithDefaultTitle(title string) Option {
	return func(s *Scheduler) {
		if title != "" {
			s.defaultTitle = title
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a scheduler that owns store and delivers through out.
// Call Start to begin firing.
func NewScheduler(store *Store, out Enqueuer, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:        store,
		out:          out,
		now:          time.Now,
		retention:    10 * time.Minute,
		defaultTitle: DefaultTitle,
		logger:       logging.NewNop(),
		pending:      make(map[int64]*timer),
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the scheduling goroutine. Extra calls are no-ops.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.mu.Lock()
		s.started = true
		s.mu.Unlock()
		go s.loop()
	})
}

// Set parses req.Expression and schedules a new active reminder.
func (s *Scheduler) Set(req Request) (Reminder, error) {
	seconds, desc, err := ParseTimeExpression(req.Expression)
	if err != nil {
		return Reminder{}, err
	}
	delay := time.Duration(seconds) * time.Second

	title := req.Title
	if title == "" {
		title = s.defaultTitle
	}
	interval := req.RepeatInterval
	if req.Repeat && interval <= 0 {
		interval = delay
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Reminder{}, ErrClosed
	}
	now := s.now()
	r := Reminder{
		ID:             s.store.NextID(),
		Message:        req.Message,
		Title:          title,
		Description:    desc,
		CreatedAt:      now,
		DueAt:          now.Add(delay),
		Status:         StatusActive,
		Repeat:         req.Repeat,
		RepeatInterval: interval,
	}
	s.store.Put(r)
	s.arm(r.ID, r.DueAt, false)
	s.mu.Unlock()

	s.signal()
	s.metrics.RecordReminderEvent("set")
	s.metrics.SetRemindersActive(s.store.Count(StatusActive))
	s.logger.Info("reminder set",
		zap.Int64("reminder_id", r.ID),
		zap.String("after", desc),
		zap.Time("due_at", r.DueAt),
		zap.Bool("repeat", r.Repeat))
	return r, nil
}

// Cancel removes a reminder. A cancelled reminder never fires, even if its
// due time has already passed but it has not been delivered yet.
func (s *Scheduler) Cancel(id int64) (Reminder, error) {
	s.mu.Lock()
	if t, ok := s.pending[id]; ok {
		t.cancelled = true
		delete(s.pending, id)
	}
	r, ok := s.store.Remove(id)
	s.mu.Unlock()

	if !ok {
		return Reminder{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if r.Status == StatusActive {
		r.Status = StatusCancelled
	}

	s.metrics.RecordReminderEvent("cancelled")
	s.metrics.SetRemindersActive(s.store.Count(StatusActive))
	s.logger.Info("reminder cancelled", zap.Int64("reminder_id", id))
	return r, nil
}

// List returns every stored reminder as seen now, ordered by ID.
func (s *Scheduler) List() []View {
	now := s.now()
	items := s.store.List()
	out := make([]View, 0, len(items))
	for _, r := range items {
		out = append(out, r.ViewAt(now))
	}
	return out
}

// Get returns one reminder as seen now
func (s *Scheduler) Get(id int64) (View, error) {
	r, ok := s.store.Get(id)
	if !ok {
		return View{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r.ViewAt(s.now()), nil
}

// Stats counts stored reminders by status
func (s *Scheduler) Stats() map[Status]int {
	return map[Status]int{
		StatusActive:    s.store.Count(StatusActive),
		StatusCompleted: s.store.Count(StatusCompleted),
	}
}

// Close cancels every outstanding reminder and waits for the scheduling
// goroutine to exit.
func (s *Scheduler) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		for id, t := range s.pending {
			t.cancelled = true
			if !t.purge {
				s.store.Update(id, func(r *Reminder) { r.Status = StatusCancelled })
			}
		}
		s.pending = make(map[int64]*timer)
		started := s.started
		s.mu.Unlock()

		close(s.stop)
		if started {
			<-s.done
		}
		s.metrics.SetRemindersActive(0)
	})
	return nil
}

// arm queues a firing for id. Callers hold s.mu.
func (s *Scheduler) arm(id int64, due time.Time, purge bool) {
	t := &timer{id: id, due: due, purge: purge}
	heap.Push(&s.queue, t)
	if !purge {
		s.pending[id] = t
	}
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop() {
	defer close(s.done)

	var clock *time.Timer
	defer func() {
		if clock != nil {
			clock.Stop()
		}
	}()

	for {
		fired, next, ok := s.collect()
		for _, f := range fired {
			s.deliver(f)
		}

		var alarm <-chan time.Time
		if ok {
			if clock == nil {
				clock = time.NewTimer(next)
			} else {
				clock.Reset(next)
			}
			alarm = clock.C
		}

		select {
		case <-s.stop:
			return
		case <-s.wake:
		case <-alarm:
		}
		if clock != nil && !clock.Stop() {
			select {
			case <-clock.C:
			default:
			}
		}
	}
}

// collect pops every due timer and applies its state transition. The
// cancellation flag is checked here, under s.mu, right before firing.
func (s *Scheduler) collect() ([]Reminder, time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, 0, false
	}

	now := s.now()
	var fired []Reminder
	for s.queue.Len() > 0 && !s.queue[0].due.After(now) {
		t := heap.Pop(&s.queue).(*timer)
		if t.cancelled {
			continue
		}

		if t.purge {
			if r, ok := s.store.Get(t.id); ok && r.Status == StatusCompleted {
				s.store.Remove(t.id)
				s.logger.Debug("completed reminder purged", zap.Int64("reminder_id", t.id))
			}
			continue
		}

		delete(s.pending, t.id)
		r, ok := s.store.Update(t.id, func(r *Reminder) {
			r.Fired++
			if r.Repeat {
				r.DueAt = r.DueAt.Add(r.RepeatInterval)
				if r.DueAt.Before(now) {
					r.DueAt = now.Add(r.RepeatInterval)
				}
				return
			}
			r.Status = StatusCompleted
		})
		if !ok {
			continue
		}

		switch {
		case r.Repeat:
			s.arm(r.ID, r.DueAt, false)
		case s.retention > 0:
			s.arm(r.ID, now.Add(s.retention), true)
		default:
			s.store.Remove(r.ID)
		}
		fired = append(fired, r)
	}

	if s.queue.Len() == 0 {
		return fired, 0, false
	}
	return fired, s.queue[0].due.Sub(now), true
}

func (s *Scheduler) deliver(r Reminder) {
	req := notify.Request{
		Title:    "⏰ " + r.Title,
		Message:  r.Message,
		Duration: notify.DurationLong,
		Source:   "reminder",
	}
	if err := s.out.Enqueue(req); err != nil {
		s.logger.Error("reminder notification dropped", zap.Int64("reminder_id", r.ID), zap.Error(err))
		s.metrics.RecordReminderEvent("dropped")
	} else {
		s.metrics.IncRemindersFired()
	}
	s.metrics.SetRemindersActive(s.store.Count(StatusActive))
	s.logger.Info("reminder fired",
		zap.Int64("reminder_id", r.ID),
		zap.String("message", r.Message),
		zap.Int("fired", r.Fired))
}

type timer struct {
	id        int64
	due       time.Time
	purge     bool
	cancelled bool
}

// timerQueue is a min-heap of timers by due time, then ID.
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].id < q[j].id
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*timer)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
