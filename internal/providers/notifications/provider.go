package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/notify"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/types"
)

// ServiceName is the command name routed to this provider
const ServiceName = "NotificationCenter"

const defaultHistoryLimit = 20

// Provider shows desktop notifications through the dispatcher queue
type Provider struct {
	dispatcher *notify.Dispatcher
}

// NewProvider creates a notification provider
func NewProvider(dispatcher *notify.Dispatcher) *Provider {
	return &Provider{dispatcher: dispatcher}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		Name:        ServiceName,
		Description: "桌面通知组件",
		Category:    types.CategoryNotification,
		Capabilities: []string{
			"toast",
			"history",
		},
		Methods: []types.Method{
			{
				Name:        "Notify",
				Description: "显示一条桌面通知",
				Parameters: []types.Parameter{
					{Name: "title", Type: "string", Description: "通知标题", Required: true},
					{Name: "message", Type: "string", Description: "通知内容", Required: true},
					{Name: "duration", Type: "string", Description: "显示时长 (short/long)", Required: false},
				},
				Returns: "object",
			},
			{
				Name:        "GetHistory",
				Description: "查看最近的通知投递记录",
				Parameters: []types.Parameter{
					{Name: "limit", Type: "number", Description: "返回条数", Required: false},
					{Name: "outcome", Type: "string", Description: "按结果过滤 (delivered/failed)", Required: false},
				},
				Returns: "array",
			},
			{
				Name:        "GetStatus",
				Description: "通知队列状态",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs a notification operation
func (p *Provider) Execute(ctx context.Context, method string, params types.Params) (*types.Response, error) {
	switch method {
	case "Notify":
		return p.notify(params)
	case "GetHistory":
		return p.history(params)
	case "GetStatus":
		return p.status()
	default:
		return failure(fmt.Errorf("%w: %s.%s", types.ErrUnknownCommand, ServiceName, method))
	}
}

func (p *Provider) notify(params types.Params) (*types.Response, error) {
	title, err := params.String("title")
	if err != nil {
		return failure(err)
	}
	message, err := params.String("message")
	if err != nil {
		return failure(err)
	}
	duration, err := params.OptionalString("duration", notify.DurationShort)
	if err != nil {
		return failure(err)
	}
	duration = strings.ToLower(strings.TrimSpace(duration))
	if duration != notify.DurationShort && duration != notify.DurationLong {
		return failure(fmt.Errorf("%w: duration must be short or long, got %q", types.ErrInvalidParameter, duration))
	}

	id, err := p.dispatcher.Submit(notify.Request{
		Title:    title,
		Message:  message,
		Duration: duration,
		Source:   "command",
	})
	if err != nil {
		return types.Failuref(err, "无法发送通知 %s: %v", title, err), nil
	}
	return types.Success("已加入通知队列: "+title, map[string]any{
		"notification_id": id,
		"pending":         p.dispatcher.Pending(),
	}), nil
}

func (p *Provider) history(params types.Params) (*types.Response, error) {
	limit, err := params.OptionalInt("limit", defaultHistoryLimit)
	if err != nil {
		return failure(err)
	}
	if limit <= 0 {
		return failure(fmt.Errorf("%w: limit must be positive", types.ErrInvalidParameter))
	}
	outcome, err := params.OptionalString("outcome", "")
	if err != nil {
		return failure(err)
	}
	switch notify.Outcome(outcome) {
	case "", notify.OutcomeDelivered, notify.OutcomeFailed:
	default:
		return failure(fmt.Errorf("%w: outcome must be delivered or failed, got %q", types.ErrInvalidParameter, outcome))
	}

	entries := p.dispatcher.History(int(limit), notify.Outcome(outcome))
	return types.Success(fmt.Sprintf("找到 %d 条通知记录", len(entries)), map[string]any{
		"history": entries,
		"count":   len(entries),
	}), nil
}

func (p *Provider) status() (*types.Response, error) {
	return types.Success("ok", map[string]any{
		"pending": p.dispatcher.Pending(),
		"breaker": p.dispatcher.BreakerState().String(),
	}), nil
}

func failure(err error) (*types.Response, error) {
	return types.Failure(err), nil
}
