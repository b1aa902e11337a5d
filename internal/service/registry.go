package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/shared/utils"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/types"
)

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, method string, params types.Params) (*types.Response, error)
}

// Registry routes commands to providers by service name
type Registry struct {
	services sync.Map
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewRegistry creates a new service registry
func NewRegistry(logger *logging.Logger, metrics *monitoring.Metrics) *Registry {
	return &Registry{
		logger:  logging.OrNop(logger).Component("registry"),
		metrics: metrics,
	}
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if err := utils.ValidateIdentifier(def.Name, "service name"); err != nil {
		return err
	}
	if _, loaded := r.services.LoadOrStore(def.Name, provider); loaded {
		return fmt.Errorf("service %s already registered", def.Name)
	}
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(name string) {
	r.services.Delete(name)
}

// Get retrieves a service by name. The lookup falls back to a
// case-insensitive match.
func (r *Registry) Get(name string) (Provider, bool) {
	if val, ok := r.services.Load(name); ok {
		return val.(Provider), true
	}

	var found Provider
	r.services.Range(func(key, value any) bool {
		if strings.EqualFold(key.(string), name) {
			found = value.(Provider)
			return false
		}
		return true
	})
	return found, found != nil
}

// List returns all registered services ordered by name
func (r *Registry) List(category *types.Category) []types.Service {
	var services []types.Service
	r.services.Range(func(_, value any) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services
}

// Execute runs one command. Every failure, including a provider panic, comes
// back as an error response; Execute itself never fails.
func (r *Registry) Execute(ctx context.Context, cmd types.Command) *types.Response {
	return r.execute(ctx, cmd, requestID(ctx))
}

// ExecuteBatch runs commands in order and returns one response per command.
// A failing command does not stop the ones after it.
func (r *Registry) ExecuteBatch(ctx context.Context, cmds []types.Command) []*types.Response {
	batchID := string(tracing.GetTraceID(ctx))
	if batchID == "" {
		batchID = string(id.NewBatchID())
	}
	r.logger.Debug("batch started", zap.String("batch_id", batchID), zap.Int("commands", len(cmds)))

	out := make([]*types.Response, len(cmds))
	for i, cmd := range cmds {
		out[i] = r.execute(ctx, cmd, fmt.Sprintf("%s/%d", batchID, i))
	}
	return out
}

func (r *Registry) execute(ctx context.Context, cmd types.Command, requestID string) (resp *types.Response) {
	timer := monitoring.NewTimer(r.metrics, cmd.Name, cmd.Method)
	log := r.logger.With(
		zap.String("request_id", requestID),
		zap.String("service", cmd.Name),
		zap.String("method", cmd.Method),
	)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("provider panic", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
			resp = types.Failuref(fmt.Errorf("panic: %v", rec), "%s failed: internal error", cmd)
		}
		timer.Stop(string(resp.Status))
		if resp.OK() {
			log.Info("command succeeded", zap.String("message", resp.Message))
		} else {
			log.Warn("command failed", zap.String("message", resp.Message), zap.String("error_kind", string(resp.ErrorKind)))
		}
	}()

	provider, method, err := r.route(cmd)
	if err != nil {
		return types.Failure(err)
	}
	if err := checkParameters(method, cmd.Parameters); err != nil {
		return types.Failure(err)
	}
	if err := ctx.Err(); err != nil {
		return types.Failure(err)
	}

	resp, err = provider.Execute(ctx, cmd.Method, types.Params(cmd.Parameters))
	if err != nil {
		return types.Failure(err)
	}
	if resp == nil {
		return types.Success("ok", nil)
	}
	return resp
}

// requestID reuses the caller's trace ID so provider logs join the request's.
func requestID(ctx context.Context) string {
	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		return string(traceID)
	}
	return string(id.NewRequestID())
}

func (r *Registry) route(cmd types.Command) (Provider, types.Method, error) {
	if err := utils.ValidateIdentifier(cmd.Name, "name"); err != nil {
		return nil, types.Method{}, fmt.Errorf("%w: %v", types.ErrUnknownCommand, err)
	}
	if err := utils.ValidateIdentifier(cmd.Method, "method"); err != nil {
		return nil, types.Method{}, fmt.Errorf("%w: %v", types.ErrUnknownCommand, err)
	}

	provider, ok := r.Get(cmd.Name)
	if !ok {
		return nil, types.Method{}, fmt.Errorf("%w: service %s not found", types.ErrUnknownCommand, cmd.Name)
	}
	method, ok := provider.Definition().Method(cmd.Method)
	if !ok {
		return nil, types.Method{}, fmt.Errorf("%w: %s has no method %s", types.ErrUnknownCommand, cmd.Name, cmd.Method)
	}
	return provider, method, nil
}

func checkParameters(method types.Method, params map[string]any) error {
	if err := utils.ValidateParameters(params); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidParameter, err)
	}
	for _, p := range method.Parameters {
		if !p.Required {
			continue
		}
		v, ok := params[p.Name]
		if !ok || v == nil {
			return fmt.Errorf("%w: %s", types.ErrMissingParameter, p.Name)
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: %s", types.ErrMissingParameter, p.Name)
		}
	}
	return nil
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]any {
	var total, methods int
	categories := make(map[string]int)

	r.services.Range(func(_, value any) bool {
		def := value.(Provider).Definition()
		total++
		methods += len(def.Methods)
		categories[string(def.Category)]++
		return true
	})

	return map[string]any{
		"total_services": total,
		"total_methods":  methods,
		"categories":     categories,
	}
}
