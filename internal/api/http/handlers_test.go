package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/apps"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/notify"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/reminder"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/service"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/shared/utils"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/types"
	"github.com/GriffinCanCode/AgentOS/assistant/tests/helpers/testutil"
)

type echoProvider struct{}

func (echoProvider) Definition() types.Service {
	return types.Service{
		Name:     "Echo",
		Category: types.CategorySystem,
		Methods: []types.Method{{
			Name:       "Say",
			Parameters: []types.Parameter{{Name: "text", Type: "string", Required: true}},
		}},
	}
}

func (echoProvider) Execute(_ context.Context, _ string, params types.Params) (*types.Response, error) {
	text, err := params.String("text")
	if err != nil {
		return types.Failure(err), nil
	}
	return types.Success(text, map[string]any{"length": len(text)}), nil
}

type testEnv struct {
	router     *gin.Engine
	scheduler  *reminder.Scheduler
	dispatcher *notify.Dispatcher
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := testutil.NewTestLogger(t)

	registry := service.NewRegistry(logger, nil)
	require.NoError(t, registry.Register(echoProvider{}))

	dispatcher := notify.NewDispatcher(&testutil.NotificationRecorder{}, notify.DefaultConfig(), logger, nil)
	dispatcher.Start()
	t.Cleanup(func() { _ = dispatcher.Close(context.Background()) })

	scheduler := reminder.NewScheduler(reminder.NewStore(), dispatcher, reminder.WithLogger(logger))
	scheduler.Start()
	t.Cleanup(func() { _ = scheduler.Close() })

	h := NewHandlers(registry, scheduler, dispatcher, apps.NewCatalogHolder(apps.DefaultCatalog()), logger)
	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/services", h.ListServices)
	router.POST("/commands", h.ExecuteCommands)
	router.GET("/reminders", h.ListReminders)
	router.GET("/notifications", h.NotificationHistory)

	return &testEnv{router: router, scheduler: scheduler, dispatcher: dispatcher}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestRoot(t *testing.T) {
	w := setup(t).do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, Version, body["version"])
}

func TestHealth(t *testing.T) {
	env := setup(t)
	_, err := env.scheduler.Set(reminder.Request{Expression: "5分钟", Message: "喝水"})
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status    string `json:"status"`
		Reminders struct {
			Active int `json:"active"`
		} `json:"reminders"`
		Notifications struct {
			Breaker string `json:"breaker"`
		} `json:"notifications"`
		Catalog struct {
			Apps int `json:"apps"`
		} `json:"catalog"`
		Registry map[string]any `json:"service_registry"`
	}
	decode(t, w, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 1, body.Reminders.Active)
	assert.Equal(t, "closed", body.Notifications.Breaker)
	assert.Positive(t, body.Catalog.Apps)
	assert.EqualValues(t, 1, body.Registry["total_services"])
}

func TestListServices(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodGet, "/services", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Services []types.Service `json:"services"`
	}
	decode(t, w, &body)
	require.Len(t, body.Services, 1)
	assert.Equal(t, "Echo", body.Services[0].Name)

	w = env.do(http.MethodGet, "/services?category=reminder", "")
	require.Equal(t, http.StatusOK, w.Code)
	body.Services = nil
	decode(t, w, &body)
	assert.Empty(t, body.Services)

	w = env.do(http.MethodGet, "/services?category=weather", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExecuteSingleCommand(t *testing.T) {
	w := setup(t).do(http.MethodPost, "/commands", `{"name":"Echo","method":"Say","parameters":{"text":"你好"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.Response
	decode(t, w, &resp)
	assert.True(t, resp.OK())
	assert.Equal(t, "你好", resp.Message)
	assert.EqualValues(t, len("你好"), resp.Data["length"])
}

func TestExecuteBatchKeepsOrder(t *testing.T) {
	body := `[
		{"name":"Echo","method":"Say","parameters":{"text":"one"}},
		{"name":"Weather","method":"Today"},
		{"name":"Echo","method":"Say"}
	]`
	w := setup(t).do(http.MethodPost, "/commands", body)
	require.Equal(t, http.StatusOK, w.Code)

	var results []types.Response
	decode(t, w, &results)
	require.Len(t, results, 3)
	assert.Equal(t, "one", results[0].Message)
	assert.Equal(t, types.KindUnknownCommand, results[1].ErrorKind)
	assert.Equal(t, types.KindMissingParameter, results[2].ErrorKind)
}

func TestExecuteRejectsMalformedBodies(t *testing.T) {
	env := setup(t)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/commands", `{"name":`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/commands", `[]`).Code)

	huge := `{"name":"Echo","method":"Say","parameters":{"text":"` + strings.Repeat("x", utils.MaxPayloadSize) + `"}}`
	assert.Equal(t, http.StatusRequestEntityTooLarge, env.do(http.MethodPost, "/commands", huge).Code)
}

func TestListReminders(t *testing.T) {
	env := setup(t)
	_, err := env.scheduler.Set(reminder.Request{Expression: "5分钟", Message: "a"})
	require.NoError(t, err)
	_, err = env.scheduler.Set(reminder.Request{Expression: "10分钟", Message: "b"})
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/reminders?status=active", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Reminders []reminder.View `json:"reminders"`
		Count     int             `json:"count"`
	}
	decode(t, w, &body)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "a", body.Reminders[0].Message)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/reminders?status=asleep", "").Code)
}

func TestNotificationHistory(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.dispatcher.Enqueue(notify.Request{Title: "t", Message: "m"}))
	require.True(t, testutil.WaitFor(t, 2 * time.Second, func() bool {
		return len(env.dispatcher.History(10, "")) == 1
	}))

	w := env.do(http.MethodGet, "/notifications?limit=5&outcome=delivered", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		History []notify.Delivery `json:"history"`
		Count   int               `json:"count"`
	}
	decode(t, w, &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, notify.OutcomeDelivered, body.History[0].Outcome)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/notifications?limit=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/notifications?outcome=lost", "").Code)
}
