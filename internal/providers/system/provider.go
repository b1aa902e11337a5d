package system

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/apps"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/types"
)

// ServiceName is the command name routed to this provider
const ServiceName = "SystemManager"

// maxCandidates caps the candidate list returned by ResolveApplication
const maxCandidates = 5

// Provider opens and closes desktop applications by spoken name
type Provider struct {
	launcher *apps.Launcher
	logger   *logging.Logger
}

// NewProvider creates a system provider
func NewProvider(launcher *apps.Launcher, logger *logging.Logger) *Provider {
	return &Provider{
		launcher: launcher,
		logger:   logging.OrNop(logger).Component("system"),
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	appName := types.Parameter{Name: "app_name", Type: "string", Description: "应用程序名称", Required: true}
	return types.Service{
		Name:        ServiceName,
		Description: "系统管理组件，支持应用程序控制",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"launch",
			"terminate",
			"resolve",
		},
		Methods: []types.Method{
			{
				Name:        "OpenApplication",
				Description: "打开指定应用程序",
				Parameters:  []types.Parameter{appName},
				Returns:     "object",
			},
			{
				Name:        "CloseApplication",
				Description: "关闭指定应用程序",
				Parameters:  []types.Parameter{appName},
				Returns:     "object",
			},
			{
				Name:        "ResolveApplication",
				Description: "解析应用程序名称但不启动",
				Parameters:  []types.Parameter{appName},
				Returns:     "object",
			},
			{
				Name:        "Query",
				Description: "处理“打开/关闭某应用”的自然语言请求",
				Parameters: []types.Parameter{
					{Name: "query", Type: "string", Description: "查询内容，如“打开记事本和计算器”", Required: true},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a system operation
func (p *Provider) Execute(ctx context.Context, method string, params types.Params) (*types.Response, error) {
	switch method {
	case "OpenApplication":
		return p.withName(ctx, params, p.open)
	case "CloseApplication":
		return p.withName(ctx, params, p.close)
	case "ResolveApplication":
		return p.withName(ctx, params, p.resolve)
	case "Query":
		return p.query(ctx, params)
	default:
		return failure(fmt.Errorf("%w: %s.%s", types.ErrUnknownCommand, ServiceName, method))
	}
}

func (p *Provider) withName(ctx context.Context, params types.Params, fn func(context.Context, string) *types.Response) (*types.Response, error) {
	name, err := params.String("app_name")
	if err != nil {
		return failure(err)
	}
	return fn(ctx, strings.TrimSpace(name)), nil
}

func (p *Provider) open(ctx context.Context, name string) *types.Response {
	p.logger.Info("opening application", zap.String("app", name))

	res, err := p.launcher.Launch(ctx, name)
	if err != nil {
		return withData(types.Failuref(err, "无法打开 %s", name), map[string]any{
			"action":   "open",
			"app_name": name,
			"error":    err.Error(),
		})
	}
	return types.Success(fmt.Sprintf("已成功打开 %s", name), map[string]any{
		"action":   "open",
		"app_name": name,
		"path":     res.Path,
		"kind":     res.Kind.String(),
		"source":   res.Source,
		"score":    res.Score,
	})
}

func (p *Provider) close(ctx context.Context, name string) *types.Response {
	p.logger.Info("closing application", zap.String("app", name))

	res, err := p.launcher.Terminate(ctx, name)
	if err != nil {
		return withData(types.Failuref(err, "无法关闭 %s", name), map[string]any{
			"action":   "close",
			"app_name": name,
			"error":    err.Error(),
		})
	}
	return types.Success(fmt.Sprintf("已成功关闭 %s", name), map[string]any{
		"action":          "close",
		"app_name":        name,
		"image":           res.Image,
		"already_stopped": res.AlreadyStopped,
	})
}

func (p *Provider) resolve(ctx context.Context, name string) *types.Response {
	resolver := p.launcher.Resolver()

	candidates, err := resolver.Candidates(ctx, name)
	if err != nil {
		return types.Failuref(err, "无法解析 %s", name)
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	data := map[string]any{
		"app_name":   name,
		"normalized": resolver.Query(name).Normalized,
		"candidates": candidates,
	}

	app, err := resolver.Resolve(ctx, name)
	if err != nil {
		return withData(types.Failuref(err, "未找到应用 %s", name), data)
	}
	data["resolved"] = app
	return types.Success(fmt.Sprintf("%s 解析为 %s", name, app.Path), data)
}

func (p *Provider) query(ctx context.Context, params types.Params) (*types.Response, error) {
	text, err := params.String("query")
	if err != nil {
		return failure(err)
	}

	cmd, ok := ParseCommand(text)
	if !ok {
		return failure(fmt.Errorf("%w: 未识别的系统指令: %s", types.ErrInvalidParameter, text))
	}

	run := p.open
	if cmd.Action == ActionClose {
		run = p.close
	}

	if len(cmd.Names) == 1 || p.resolves(ctx, cmd.Whole) {
		return run(ctx, cmd.Whole), nil
	}

	results := make([]*types.Response, 0, len(cmd.Names))
	messages := make([]string, 0, len(cmd.Names))
	var failed error
	for _, name := range cmd.Names {
		resp := run(ctx, name)
		results = append(results, resp)
		messages = append(messages, resp.Message)
		if !resp.OK() && failed == nil {
			failed = errors.New(resp.Message)
			if resp.ErrorKind == types.KindResolutionNotFound {
				failed = fmt.Errorf("%w: %s", apps.ErrNotResolved, resp.Message)
			}
		}
	}

	data := map[string]any{"action": string(cmd.Action), "results": results}
	message := strings.Join(messages, "；")
	if failed != nil {
		return withData(types.Failuref(failed, "%s", message), data), nil
	}
	return types.Success(message, data), nil
}

// resolves reports whether name names one application as written.
func (p *Provider) resolves(ctx context.Context, name string) bool {
	_, err := p.launcher.Resolver().Resolve(ctx, name)
	return err == nil
}

func failure(err error) (*types.Response, error) {
	return types.Failure(err), nil
}

func withData(resp *types.Response, data map[string]any) *types.Response {
	resp.Data = data
	return resp
}
