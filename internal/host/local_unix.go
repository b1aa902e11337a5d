//go:build !windows

package host

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

func defaultShortcutRoots() []string {
	roots := []string{
		"/usr/share/applications",
		"/usr/local/share/applications",
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".local", "share", "applications"))
	}
	return roots
}

func uninstallEntries(ctx context.Context, hive Hive) ([]UninstallEntry, error) {
	return nil, ErrUnsupported
}

func appPath(name string) (string, bool) {
	return "", false
}

func resolveLink(ctx context.Context, path string) (string, error) {
	return "", fmt.Errorf("resolve shortcut %s: %w", path, ErrUnsupported)
}

func openCommand() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

func spawnCommand(path string, kind TargetKind) (*exec.Cmd, error) {
	switch kind {
	case KindURIScheme:
		return exec.Command(openCommand(), path), nil
	case KindManagementConsole, KindControlPanelApplet:
		return nil, fmt.Errorf("%s target %s: %w", kind, path, ErrUnsupported)
	default:
		if runtime.GOOS == "darwin" && strings.HasSuffix(path, ".app") {
			return exec.Command("open", path), nil
		}
		return exec.Command(path), nil
	}
}

func killCommand(ctx context.Context, image string) *exec.Cmd {
	image = strings.TrimSuffix(image, ".exe")
	return exec.CommandContext(ctx, "pkill", "-x", image)
}

// pkill exits with 1 when no process matched
func isNotRunning(code int, output string) bool {
	return code == 1
}

func notifyCommand(ctx context.Context, n Notification) (*exec.Cmd, error) {
	if runtime.GOOS == "darwin" {
		return exec.CommandContext(ctx, "osascript",
			"-e", "on run argv",
			"-e", "display notification (item 2 of argv) with title (item 1 of argv)",
			"-e", "end run",
			n.Title, n.Message,
		), nil
	}

	timeout := "5000"
	if n.Duration == "long" {
		timeout = "25000"
	}
	return exec.CommandContext(ctx, "notify-send", "-a", n.AppID, "-t", timeout, n.Title, n.Message), nil
}
