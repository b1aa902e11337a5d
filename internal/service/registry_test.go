package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/apps"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/types"
)

type mockProvider struct {
	name string
}

func (m *mockProvider) Definition() types.Service {
	return types.Service{
		Name:        m.name,
		Description: "A mock service for testing",
		Category:    types.CategorySystem,
		Methods: []types.Method{
			{
				Name:       "Open",
				Parameters: []types.Parameter{{Name: "app_name", Type: "string", Required: true}},
			},
			{Name: "Panic"},
			{Name: "Nil"},
		},
	}
}

func (m *mockProvider) Execute(ctx context.Context, method string, params types.Params) (*types.Response, error) {
	switch method {
	case "Open":
		name, _ := params.String("app_name")
		if name == "微信" {
			return nil, errors.Join(errors.New("open 微信"), apps.ErrNotResolved)
		}
		return types.Success("已打开 "+name, map[string]any{"app": name}), nil
	case "Panic":
		panic("provider bug")
	default:
		return nil, nil
	}
}

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(nil, monitoring.NewMetrics())
	require.NoError(t, r.Register(&mockProvider{name: "SystemManager"}))
	return r
}

func TestRegister(t *testing.T) {
	r := newRegistry(t)

	_, ok := r.Get("SystemManager")
	assert.True(t, ok)
	_, ok = r.Get("systemmanager")
	assert.True(t, ok, "lookup falls back to case-insensitive")

	assert.Error(t, r.Register(&mockProvider{name: "SystemManager"}), "duplicate")
	assert.Error(t, r.Register(&mockProvider{name: "bad name"}))

	r.Unregister("SystemManager")
	_, ok = r.Get("SystemManager")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	r := newRegistry(t)
	require.NoError(t, r.Register(&mockProvider{name: "AManager"}))

	services := r.List(nil)
	require.Len(t, services, 2)
	assert.Equal(t, "AManager", services[0].Name)

	other := types.CategoryReminder
	assert.Empty(t, r.List(&other))

	stats := r.Stats()
	assert.Equal(t, 2, stats["total_services"])
	assert.Equal(t, 6, stats["total_methods"])
}

func TestExecute(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  types.Command
		kind types.Kind
	}{
		{"unknown service", types.Command{Name: "Nope", Method: "Open"}, types.KindUnknownCommand},
		{"unknown method", types.Command{Name: "SystemManager", Method: "Fly"}, types.KindUnknownCommand},
		{"invalid name", types.Command{Name: "", Method: "Open"}, types.KindUnknownCommand},
		{"missing parameter", types.Command{Name: "SystemManager", Method: "Open"}, types.KindMissingParameter},
		{"blank parameter", types.Command{Name: "SystemManager", Method: "Open", Parameters: map[string]any{"app_name": " "}}, types.KindMissingParameter},
		{"provider error", types.Command{Name: "SystemManager", Method: "Open", Parameters: map[string]any{"app_name": "微信"}}, types.KindResolutionNotFound},
		{"provider panic", types.Command{Name: "SystemManager", Method: "Panic"}, types.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := r.Execute(ctx, tt.cmd)
			require.NotNil(t, resp)
			assert.Equal(t, types.StatusError, resp.Status)
			assert.Equal(t, tt.kind, resp.ErrorKind)
			assert.NotEmpty(t, resp.Message)
		})
	}

	resp := r.Execute(ctx, types.Command{Name: "SystemManager", Method: "Open", Parameters: map[string]any{"app_name": "记事本"}})
	assert.True(t, resp.OK())
	assert.Equal(t, "记事本", resp.Data["app"])

	resp = r.Execute(ctx, types.Command{Name: "SystemManager", Method: "Nil"})
	assert.True(t, resp.OK())
}

func TestExecuteBatchIsolatesFailures(t *testing.T) {
	r := newRegistry(t)

	out := r.ExecuteBatch(context.Background(), []types.Command{
		{Name: "SystemManager", Method: "Open", Parameters: map[string]any{"app_name": "微信"}},
		{Name: "SystemManager", Method: "Open", Parameters: map[string]any{"app_name": "记事本"}},
		{Name: "SystemManager", Method: "Panic"},
		{Name: "SystemManager", Method: "Open", Parameters: map[string]any{"app_name": "画图"}},
	})

	require.Len(t, out, 4)
	assert.Equal(t, types.StatusError, out[0].Status)
	assert.Equal(t, types.StatusSuccess, out[1].Status)
	assert.Equal(t, types.StatusError, out[2].Status)
	assert.Equal(t, types.StatusSuccess, out[3].Status)
	assert.Equal(t, "画图", out[3].Data["app"])
}

func TestExecuteCancelledContext(t *testing.T) {
	r := newRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := r.Execute(ctx, types.Command{Name: "SystemManager", Method: "Open", Parameters: map[string]any{"app_name": "记事本"}})
	assert.Equal(t, types.KindTimeout, resp.ErrorKind)
}
