package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/notify"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/reminder"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/types"
)

// ServiceName is the command name routed to this provider
const ServiceName = "ReminderManager"

// ConfirmationTitle heads the toast shown when a reminder is accepted
const ConfirmationTitle = "✅ 提醒已设置"

// Provider sets, cancels and lists reminders
type Provider struct {
	scheduler *reminder.Scheduler
	confirm   reminder.Enqueuer
	logger    *logging.Logger
}

// NewProvider creates a reminder provider. confirm may be nil, in which case
// no confirmation toast is shown.
func NewProvider(scheduler *reminder.Scheduler, confirm reminder.Enqueuer, logger *logging.Logger) *Provider {
	return &Provider{
		scheduler: scheduler,
		confirm:   confirm,
		logger:    logging.OrNop(logger).Component("reminders"),
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		Name:        ServiceName,
		Description: "提醒管理组件，支持设置提醒、倒计时等功能",
		Category:    types.CategoryReminder,
		Capabilities: []string{
			"schedule",
			"countdown",
			"natural-language",
		},
		Methods: []types.Method{
			{
				Name:        "SetReminder",
				Description: "设置一个提醒",
				Parameters: []types.Parameter{
					{Name: "time_str", Type: "string", Description: "时间字符串，如'10s后'、'5分钟后'等", Required: true},
					{Name: "message", Type: "string", Description: "提醒内容", Required: true},
					{Name: "title", Type: "string", Description: "通知标题", Required: false},
					{Name: "repeat", Type: "boolean", Description: "是否重复提醒", Required: false},
					{Name: "repeat_interval", Type: "number", Description: "重复间隔（秒），默认与首次间隔相同", Required: false},
				},
				Returns: "object",
			},
			{
				Name:        "SetCountdown",
				Description: "设置一个倒计时",
				Parameters: []types.Parameter{
					{Name: "seconds", Type: "number", Description: "倒计时秒数", Required: true},
					{Name: "message", Type: "string", Description: "结束时的提醒内容", Required: false},
				},
				Returns: "object",
			},
			{
				Name:        "CancelReminder",
				Description: "取消一个提醒",
				Parameters: []types.Parameter{
					{Name: "reminder_id", Type: "number", Description: "提醒ID", Required: true},
				},
				Returns: "object",
			},
			{
				Name:        "ListReminders",
				Description: "列出提醒",
				Parameters: []types.Parameter{
					{Name: "status", Type: "string", Description: "按状态过滤 (active/completed)", Required: false},
				},
				Returns: "array",
			},
			{
				Name:        "Query",
				Description: "处理提醒相关查询",
				Parameters: []types.Parameter{
					{Name: "query", Type: "string", Description: "查询内容", Required: true},
				},
				Returns: "object",
			},
			{
				Name:        "GetStatus",
				Description: "当前活跃的提醒数量",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs a reminder operation
func (p *Provider) Execute(ctx context.Context, method string, params types.Params) (*types.Response, error) {
	switch method {
	case "SetReminder":
		return p.setReminder(params)
	case "SetCountdown":
		return p.setCountdown(params)
	case "CancelReminder":
		return p.cancelReminder(params)
	case "ListReminders":
		return p.listReminders(params)
	case "Query":
		return p.query(params)
	case "GetStatus":
		return p.status()
	default:
		return failure(fmt.Errorf("%w: %s.%s", types.ErrUnknownCommand, ServiceName, method))
	}
}

func (p *Provider) setReminder(params types.Params) (*types.Response, error) {
	expr, err := params.String("time_str")
	if err != nil {
		return failure(err)
	}
	message, err := params.String("message")
	if err != nil {
		return failure(err)
	}
	title, err := params.OptionalString("title", "")
	if err != nil {
		return failure(err)
	}
	repeat, err := params.Bool("repeat", false)
	if err != nil {
		return failure(err)
	}
	interval, err := params.Duration("repeat_interval", 0)
	if err != nil {
		return failure(err)
	}

	return p.set(reminder.Request{
		Expression:     expr,
		Message:        message,
		Title:          title,
		Repeat:         repeat,
		RepeatInterval: interval,
	}), nil
}

func (p *Provider) setCountdown(params types.Params) (*types.Response, error) {
	seconds, err := params.Int("seconds")
	if err != nil {
		return failure(err)
	}
	if seconds <= 0 {
		return failure(fmt.Errorf("%w: seconds must be positive, got %d", types.ErrInvalidParameter, seconds))
	}
	message, err := params.OptionalString("message", reminder.DefaultCountdownMessage)
	if err != nil {
		return failure(err)
	}

	return p.set(reminder.Request{
		Expression: fmt.Sprintf("%d秒", seconds),
		Message:    message,
		Title:      reminder.CountdownTitle,
	}), nil
}

func (p *Provider) set(req reminder.Request) *types.Response {
	p.logger.Info("setting reminder", zap.String("time", req.Expression), zap.String("message", req.Message))

	r, err := p.scheduler.Set(req)
	if err != nil {
		return types.Failuref(err, "设置提醒失败 (%s): %v", req.Expression, err)
	}

	summary := fmt.Sprintf("%s后提醒: %s", r.Description, r.Message)
	p.sendConfirmation(r.ID, summary)

	return types.Success("已设置"+summary, map[string]any{
		"reminder_id": r.ID,
		"title":       r.Title,
		"time":        r.DueAt.Format(reminder.TimeLayout),
		"due_at":      r.DueAt,
		"description": r.Description,
		"repeat":      r.Repeat,
	})
}

// sendConfirmation is best effort; a full queue never fails the set.
func (p *Provider) sendConfirmation(id int64, summary string) {
	if p.confirm == nil {
		return
	}
	err := p.confirm.Enqueue(notify.Request{
		Title:    ConfirmationTitle,
		Message:  summary,
		Duration: notify.DurationShort,
		Source:   "reminder_confirmation",
	})
	if err != nil {
		p.logger.Warn("confirmation not queued", zap.Int64("reminder_id", id), zap.Error(err))
	}
}

func (p *Provider) cancelReminder(params types.Params) (*types.Response, error) {
	id, err := params.Int("reminder_id")
	if err != nil {
		return failure(err)
	}
	return p.cancel(id), nil
}

func (p *Provider) cancel(id int64) *types.Response {
	r, err := p.scheduler.Cancel(id)
	if err != nil {
		if errors.Is(err, reminder.ErrNotFound) {
			return types.Failuref(err, "未找到提醒 (ID: %d)", id)
		}
		return types.Failuref(err, "取消提醒时出错 (ID: %d): %v", id, err)
	}
	return types.Success(fmt.Sprintf("已取消提醒 (ID: %d)", id), map[string]any{
		"reminder_id": r.ID,
		"message":     r.Message,
		"status":      r.Status,
	})
}

func (p *Provider) listReminders(params types.Params) (*types.Response, error) {
	status, err := params.OptionalString("status", "")
	if err != nil {
		return failure(err)
	}
	status = strings.ToLower(strings.TrimSpace(status))
	switch reminder.Status(status) {
	case "", reminder.StatusActive, reminder.StatusCompleted:
	default:
		return failure(fmt.Errorf("%w: status must be active or completed, got %q", types.ErrInvalidParameter, status))
	}
	return p.list(reminder.Status(status)), nil
}

func (p *Provider) list(status reminder.Status) *types.Response {
	views := p.scheduler.List()
	if status != "" {
		filtered := views[:0]
		for _, v := range views {
			if v.Status == status {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}
	return types.Success(fmt.Sprintf("找到 %d 个提醒", len(views)), map[string]any{
		"reminders": views,
		"count":     len(views),
	})
}

func (p *Provider) query(params types.Params) (*types.Response, error) {
	text, err := params.String("query")
	if err != nil {
		return failure(err)
	}

	parsed, err := reminder.ParseQuery(text)
	if err != nil {
		if reminder.Classify(text) == reminder.IntentUnknown {
			return types.Failuref(err, "未识别的提醒查询: %s", text), nil
		}
		return types.Failuref(err, "无法处理提醒查询: %v", err), nil
	}

	p.logger.Debug("reminder query", zap.String("query", text), zap.String("intent", parsed.Intent.String()))

	switch parsed.Intent {
	case reminder.IntentList:
		return p.list(""), nil
	case reminder.IntentCancel:
		return p.cancel(parsed.ID), nil
	case reminder.IntentCountdown:
		return p.set(reminder.Request{
			Expression: parsed.Expression,
			Message:    parsed.Message,
			Title:      reminder.CountdownTitle,
		}), nil
	default:
		return p.set(reminder.Request{Expression: parsed.Expression, Message: parsed.Message}), nil
	}
}

func (p *Provider) status() (*types.Response, error) {
	stats := p.scheduler.Stats()
	active := stats[reminder.StatusActive]
	return types.Success(fmt.Sprintf("当前有 %d 个活跃提醒", active), map[string]any{
		"active_reminders":    active,
		"completed_reminders": stats[reminder.StatusCompleted],
	}), nil
}

func failure(err error) (*types.Response, error) {
	return types.Failure(err), nil
}
