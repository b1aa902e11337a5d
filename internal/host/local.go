package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
)

// Local talks to the operating system the process runs on.
type Local struct {
	logger *logging.Logger
}

// NewLocal creates the host implementation for the running platform
func NewLocal(logger *logging.Logger) *Local {
	return &Local{logger: logging.OrNop(logger)}
}

// DefaultShortcutRoots returns the program trees searched when none are configured.
func DefaultShortcutRoots() []string {
	return defaultShortcutRoots()
}

// EnumerateShortcuts walks every root recursively and returns the program entries found.
func (l *Local) EnumerateShortcuts(ctx context.Context, roots []string) ([]Shortcut, error) {
	return walkShortcuts(ctx, roots)
}

// ResolveShortcut returns the program or URI a shortcut points at.
func (l *Local) ResolveShortcut(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".desktop":
		return desktopExec(path)
	case ".url":
		return readIniValue(path, "URL")
	case ".lnk":
		return resolveLink(ctx, path)
	default:
		return path, nil
	}
}

// EnumerateUninstallEntries lists installed products from one uninstall tree.
func (l *Local) EnumerateUninstallEntries(ctx context.Context, hive Hive) ([]UninstallEntry, error) {
	return uninstallEntries(ctx, hive)
}

// LookupExecutable finds an executable on PATH, then in the App Paths registry.
func (l *Local) LookupExecutable(ctx context.Context, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if filepath.IsAbs(name) {
		return name, l.PathExists(name)
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, true
	}
	if path, ok := appPath(name); ok {
		return path, true
	}
	return "", false
}

// PathExists reports whether a file or directory exists at path.
func (l *Local) PathExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// SpawnProcess starts the target detached from the caller. The child is reaped
// in the background.
func (l *Local) SpawnProcess(ctx context.Context, path string, kind TargetKind) error {
	cmd, err := spawnCommand(path, kind)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", path, err)
	}

	l.logger.Debug("Process started",
		zap.String("path", path),
		zap.String("kind", kind.String()),
		zap.Int("pid", cmd.Process.Pid),
	)

	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// ForceKillByImageName kills every process running the given image.
func (l *Local) ForceKillByImageName(ctx context.Context, image string) (KillResult, error) {
	cmd := killCommand(ctx, image)
	output, err := cmd.CombinedOutput()
	if err == nil {
		return Killed, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && isNotRunning(exitErr.ExitCode(), string(output)) {
		return NotRunning, nil
	}
	return Killed, fmt.Errorf("kill %s: %w: %s", image, err, strings.TrimSpace(string(output)))
}

// ShowNotification renders a desktop toast and waits for the helper to exit.
func (l *Local) ShowNotification(ctx context.Context, n Notification) error {
	cmd, err := notifyCommand(ctx, n)
	if err != nil {
		return err
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("show notification: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
