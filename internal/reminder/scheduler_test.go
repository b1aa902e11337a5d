package reminder

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/notify"
	"github.com/GriffinCanCode/AgentOS/assistant/tests/helpers/testutil"
)

type recordingQueue struct {
	mu   sync.Mutex
	reqs []notify.Request
	err  error
}

func (q *recordingQueue) Enqueue(req notify.Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.reqs = append(q.reqs, req)
	return nil
}

func (q *recordingQueue) requests() []notify.Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]notify.Request(nil), q.reqs...)
}

func newTestScheduler(t *testing.T, opts ...Option) (*Scheduler, *recordingQueue) {
	t.Helper()
	q := &recordingQueue{}
	s := NewScheduler(NewStore(), q, opts...)
	s.Start()
	t.Cleanup(func() { _ = s.Close() })
	return s, q
}

func TestSetFiresOnceAndCompletes(t *testing.T) {
	s, q := newTestScheduler(t)

	r, err := s.Set(Request{Expression: "2秒", Message: "msg"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.ID)
	assert.Equal(t, DefaultTitle, r.Title)
	assert.Equal(t, "2秒", r.Description)
	assert.Equal(t, StatusActive, r.Status)

	time.Sleep(3 * time.Second)

	reqs := q.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "msg", reqs[0].Message)

	v, err := s.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, v.Status)
	assert.Equal(t, "已完成", v.Remaining)
	assert.Equal(t, 1, v.Fired)
}

func TestCancelBeforeDueNeverFires(t *testing.T) {
	s, q := newTestScheduler(t)

	r, err := s.Set(Request{Expression: "1秒", Message: "never"})
	require.NoError(t, err)

	cancelled, err := s.Cancel(r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	for _, v := range s.List() {
		assert.NotEqual(t, r.ID, v.ID)
	}

	time.Sleep(1500 * time.Millisecond)
	assert.Empty(t, q.requests())
}

func TestCancelUnknown(t *testing.T) {
	s, _ := newTestScheduler(t)
	_, err := s.Cancel(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetRejectsBadExpression(t *testing.T) {
	s, _ := newTestScheduler(t)
	_, err := s.Set(Request{Expression: "abc", Message: "x"})
	assert.ErrorIs(t, err, ErrParse)
	assert.Empty(t, s.List())
}

func TestSetRejectsDelayBeyondDuration(t *testing.T) {
	s, q := newTestScheduler(t)
	_, err := s.Set(Request{Expression: "3000000小时", Message: "x"})
	assert.ErrorIs(t, err, ErrParse)
	assert.Empty(t, s.List())

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, q.requests())
}

func TestRemindersFireInDueOrder(t *testing.T) {
	s, q := newTestScheduler(t)

	_, err := s.Set(Request{Expression: "2秒", Message: "second"})
	require.NoError(t, err)
	_, err = s.Set(Request{Expression: "1秒", Message: "first"})
	require.NoError(t, err)

	require.True(t, testutil.WaitFor(t, 4*time.Second, func() bool { return len(q.requests()) == 2 }))
	reqs := q.requests()
	assert.Equal(t, "first", reqs[0].Message)
	assert.Equal(t, "second", reqs[1].Message)
}

func TestRepeatingReminderRearms(t *testing.T) {
	s, q := newTestScheduler(t)

	r, err := s.Set(Request{Expression: "1秒", Message: "tick", Repeat: true})
	require.NoError(t, err)
	require.True(t, testutil.WaitFor(t, 4*time.Second, func() bool { return len(q.requests()) >= 2 }))

	v, err := s.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, v.Status)

	_, err = s.Cancel(r.ID)
	require.NoError(t, err)
	fired := len(q.requests())
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, fired, len(q.requests()))
}

func TestCompletedRemindersArePurged(t *testing.T) {
	s, q := newTestScheduler(t, WithRetention(200*time.Millisecond))

	_, err := s.Set(Request{Expression: "1秒", Message: "x"})
	require.NoError(t, err)

	require.True(t, testutil.WaitFor(t, 3*time.Second, func() bool { return len(q.requests()) == 1 }))
	require.True(t, testutil.WaitFor(t, 2*time.Second, func() bool { return len(s.List()) == 0 }))
}

func TestDeliveryFailureDoesNotStopScheduler(t *testing.T) {
	s, q := newTestScheduler(t)
	q.mu.Lock()
	q.err = errors.New("queue full")
	q.mu.Unlock()

	_, err := s.Set(Request{Expression: "1秒", Message: "lost"})
	require.NoError(t, err)
	time.Sleep(1200 * time.Millisecond)

	q.mu.Lock()
	q.err = nil
	q.mu.Unlock()

	_, err = s.Set(Request{Expression: "1秒", Message: "kept"})
	require.NoError(t, err)
	require.True(t, testutil.WaitFor(t, 3*time.Second, func() bool { return len(q.requests()) == 1 }))
	assert.Equal(t, "kept", q.requests()[0].Message)
}

func TestCloseCancelsOutstanding(t *testing.T) {
	q := &recordingQueue{}
	s := NewScheduler(NewStore(), q, WithDefaultTitle("闹钟"))
	s.Start()

	r, err := s.Set(Request{Expression: "1秒", Message: "x"})
	require.NoError(t, err)
	assert.Equal(t, "闹钟", r.Title)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Set(Request{Expression: "1秒", Message: "y"})
	assert.ErrorIs(t, err, ErrClosed)

	v, err := s.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, v.Status)

	time.Sleep(1200 * time.Millisecond)
	assert.Empty(t, q.requests())
}

func TestCloseWithoutStart(t *testing.T) {
	s := NewScheduler(NewStore(), &recordingQueue{})
	assert.NoError(t, s.Close())
}
