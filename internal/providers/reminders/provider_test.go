package reminders

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/notify"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/reminder"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/types"
	"github.com/GriffinCanCode/AgentOS/assistant/tests/helpers/testutil"
)

type queue struct {
	mu   sync.Mutex
	reqs []notify.Request
	err  error
}

func (q *queue) Enqueue(req notify.Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.reqs = append(q.reqs, req)
	return nil
}

func (q *queue) requests() []notify.Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]notify.Request(nil), q.reqs...)
}

func newProvider(t *testing.T) (*Provider, *queue) {
	t.Helper()
	s := reminder.NewScheduler(reminder.NewStore(), &queue{})
	s.Start()
	t.Cleanup(func() { _ = s.Close() })

	confirm := &queue{}
	return NewProvider(s, confirm, testutil.NewTestLogger(t)), confirm
}

func run(t *testing.T, p *Provider, method string, params types.Params) *types.Response {
	t.Helper()
	resp, err := p.Execute(context.Background(), method, params)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func TestSetReminder(t *testing.T) {
	p, confirm := newProvider(t)

	resp := run(t, p, "SetReminder", types.Params{"time_str": "5分钟后", "message": "喝水"})
	require.True(t, resp.OK(), resp.Message)
	assert.Equal(t, "已设置5分钟后提醒: 喝水", resp.Message)
	assert.Equal(t, int64(1), resp.Data["reminder_id"])
	assert.Equal(t, reminder.DefaultTitle, resp.Data["title"])

	reqs := confirm.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, ConfirmationTitle, reqs[0].Title)
	assert.Equal(t, "5分钟后提醒: 喝水", reqs[0].Message)
}

func TestSetReminderOptionalFields(t *testing.T) {
	p, _ := newProvider(t)

	resp := run(t, p, "SetReminder", types.Params{
		"time_str":        "1小时",
		"message":         "站起来活动",
		"title":           "健康",
		"repeat":          true,
		"repeat_interval": float64(1800),
	})
	require.True(t, resp.OK(), resp.Message)
	assert.Equal(t, "健康", resp.Data["title"])
	assert.Equal(t, true, resp.Data["repeat"])
}

func TestSetReminderParseError(t *testing.T) {
	p, confirm := newProvider(t)

	resp := run(t, p, "SetReminder", types.Params{"time_str": "明天", "message": "开会"})
	assert.False(t, resp.OK())
	assert.Equal(t, types.KindParseError, resp.ErrorKind)
	assert.Contains(t, resp.Message, "明天")
	assert.Empty(t, confirm.requests())
}

func TestConfirmationFailureDoesNotFailSet(t *testing.T) {
	p, confirm := newProvider(t)
	confirm.err = notify.ErrQueueFull

	resp := run(t, p, "SetReminder", types.Params{"time_str": "10s", "message": "test"})
	assert.True(t, resp.OK())
}

func TestSetCountdown(t *testing.T) {
	p, _ := newProvider(t)

	resp := run(t, p, "SetCountdown", types.Params{"seconds": float64(90)})
	require.True(t, resp.OK(), resp.Message)
	assert.Equal(t, reminder.CountdownTitle, resp.Data["title"])
	assert.Equal(t, "已设置90秒后提醒: 倒计时结束", resp.Message)

	for _, seconds := range []float64{0, -5} {
		resp = run(t, p, "SetCountdown", types.Params{"seconds": seconds})
		assert.False(t, resp.OK())
		assert.Equal(t, types.KindInvalidParameter, resp.ErrorKind)
	}

	resp = run(t, p, "ListReminders", nil)
	assert.Equal(t, 1, resp.Data["count"])
}

func TestCancelReminder(t *testing.T) {
	p, _ := newProvider(t)
	require.True(t, run(t, p, "SetReminder", types.Params{"time_str": "5分钟", "message": "a"}).OK())

	resp := run(t, p, "CancelReminder", types.Params{"reminder_id": float64(1)})
	require.True(t, resp.OK(), resp.Message)
	assert.Equal(t, "已取消提醒 (ID: 1)", resp.Message)
	assert.Equal(t, reminder.StatusCancelled, resp.Data["status"])

	resp = run(t, p, "CancelReminder", types.Params{"reminder_id": "1"})
	assert.False(t, resp.OK())
	assert.Equal(t, "未找到提醒 (ID: 1)", resp.Message)
	assert.Equal(t, types.KindNotFound, resp.ErrorKind)

	resp = run(t, p, "CancelReminder", types.Params{"reminder_id": "abc"})
	assert.Equal(t, types.KindInvalidParameter, resp.ErrorKind)
}

func TestListReminders(t *testing.T) {
	p, _ := newProvider(t)
	run(t, p, "SetReminder", types.Params{"time_str": "5分钟", "message": "a"})
	run(t, p, "SetReminder", types.Params{"time_str": "10分钟", "message": "b"})

	resp := run(t, p, "ListReminders", nil)
	require.True(t, resp.OK())
	assert.Equal(t, "找到 2 个提醒", resp.Message)

	views, ok := resp.Data["reminders"].([]reminder.View)
	require.True(t, ok)
	require.Len(t, views, 2)
	assert.Equal(t, "a", views[0].Message)
	assert.Contains(t, views[0].Remaining, "分钟")

	resp = run(t, p, "ListReminders", types.Params{"status": "completed"})
	assert.Equal(t, "找到 0 个提醒", resp.Message)

	resp = run(t, p, "ListReminders", types.Params{"status": "sleeping"})
	assert.Equal(t, types.KindInvalidParameter, resp.ErrorKind)
}

func TestQuery(t *testing.T) {
	p, _ := newProvider(t)

	resp := run(t, p, "Query", types.Params{"query": "3分钟后提醒我起床"})
	require.True(t, resp.OK(), resp.Message)
	assert.Equal(t, "已设置3分钟后提醒: 起床", resp.Message)

	resp = run(t, p, "Query", types.Params{"query": "倒计时60秒"})
	require.True(t, resp.OK(), resp.Message)
	assert.Equal(t, reminder.CountdownTitle, resp.Data["title"])

	resp = run(t, p, "Query", types.Params{"query": "查看所有提醒"})
	require.True(t, resp.OK())
	assert.Equal(t, 2, resp.Data["count"])

	resp = run(t, p, "Query", types.Params{"query": "取消提醒 1"})
	require.True(t, resp.OK(), resp.Message)
	assert.Equal(t, "已取消提醒 (ID: 1)", resp.Message)

	resp = run(t, p, "Query", types.Params{"query": "今天天气怎么样"})
	assert.False(t, resp.OK())
	assert.Equal(t, "未识别的提醒查询: 今天天气怎么样", resp.Message)
	assert.Equal(t, types.KindParseError, resp.ErrorKind)
}

func TestGetStatus(t *testing.T) {
	p, _ := newProvider(t)
	run(t, p, "SetReminder", types.Params{"time_str": "5分钟", "message": "a"})

	resp := run(t, p, "GetStatus", nil)
	require.True(t, resp.OK())
	assert.Equal(t, 1, resp.Data["active_reminders"])
	assert.Equal(t, "当前有 1 个活跃提醒", resp.Message)
}

func TestSetAfterClose(t *testing.T) {
	s := reminder.NewScheduler(reminder.NewStore(), &queue{})
	s.Start()
	require.NoError(t, s.Close())

	p := NewProvider(s, nil, nil)
	resp := run(t, p, "SetReminder", types.Params{"time_str": "5秒", "message": "late"})
	assert.False(t, resp.OK())
	assert.Equal(t, types.KindUnavailable, resp.ErrorKind)
}
