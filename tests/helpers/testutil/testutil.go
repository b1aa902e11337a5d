// Package testutil provides testing utilities and helpers for backend tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
)

// MockOS is a mock implementation of host.OS for testing.
type MockOS struct {
	mock.Mock
}

var _ host.OS = (*MockOS)(nil)

// EnumerateShortcuts mocks the EnumerateShortcuts method.
func (m *MockOS) EnumerateShortcuts(ctx context.Context, roots []string) ([]host.Shortcut, error) {
	args := m.Called(ctx, roots)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]host.Shortcut), args.Error(1)
}

// ResolveShortcut mocks the ResolveShortcut method.
func (m *MockOS) ResolveShortcut(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

// EnumerateUninstallEntries mocks the EnumerateUninstallEntries method.
func (m *MockOS) EnumerateUninstallEntries(ctx context.Context, hive host.Hive) ([]host.UninstallEntry, error) {
	args := m.Called(ctx, hive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]host.UninstallEntry), args.Error(1)
}

// LookupExecutable mocks the LookupExecutable method.
func (m *MockOS) LookupExecutable(ctx context.Context, name string) (string, bool) {
	args := m.Called(ctx, name)
	return args.String(0), args.Bool(1)
}

// PathExists mocks the PathExists method.
func (m *MockOS) PathExists(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

// SpawnProcess mocks the SpawnProcess method.
func (m *MockOS) SpawnProcess(ctx context.Context, path string, kind host.TargetKind) error {
	args := m.Called(ctx, path, kind)
	return args.Error(0)
}

// ForceKillByImageName mocks the ForceKillByImageName method.
func (m *MockOS) ForceKillByImageName(ctx context.Context, image string) (host.KillResult, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(host.KillResult), args.Error(1)
}

// ShowNotification mocks the ShowNotification method.
func (m *MockOS) ShowNotification(ctx context.Context, n host.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// NewMockOS creates a mock host whose expectations are asserted at cleanup.
func NewMockOS(t *testing.T) *MockOS {
	t.Helper()
	m := new(MockOS)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// EmptySearch makes every search query on m return nothing: no shortcuts,
// no uninstall entries and no executables on the path.
func EmptySearch(m *MockOS) *MockOS {
	m.On("EnumerateShortcuts", mock.Anything, mock.Anything).Return([]host.Shortcut{}, nil).Maybe()
	m.On("EnumerateUninstallEntries", mock.Anything, mock.Anything).Return([]host.UninstallEntry{}, nil).Maybe()
	m.On("LookupExecutable", mock.Anything, mock.Anything).Return("", false).Maybe()
	return m
}

// NewTestLogger returns a logger writing through t.Log.
func NewTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	return &logging.Logger{Logger: zaptest.NewLogger(t)}
}

// NotificationRecorder is a host.OS notification sink that records toasts.
// Embed it in a MockOS-free fake when only notifications matter.
type NotificationRecorder struct {
	mu    sync.Mutex
	shown []host.Notification
	fail  error
}

// ShowNotification records n, failing when FailWith was set.
func (r *NotificationRecorder) ShowNotification(_ context.Context, n host.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.shown = append(r.shown, n)
	return nil
}

// FailWith makes subsequent notifications fail with err (nil restores success).
func (r *NotificationRecorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

// Shown returns a copy of the recorded notifications.
func (r *NotificationRecorder) Shown() []host.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]host.Notification(nil), r.shown...)
}

// WaitFor polls until cond holds or timeout elapses.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}
