//go:build windows

package host

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const (
	uninstallPath   = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`
	uninstallPath32 = `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`
	appPathsPath    = `SOFTWARE\Microsoft\Windows\CurrentVersion\App Paths\`
)

const toastScript = `
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] > $null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$template.DocumentElement.SetAttribute('duration', $env:TOAST_DURATION)
$texts = $template.GetElementsByTagName('text')
$texts.Item(0).AppendChild($template.CreateTextNode($env:TOAST_TITLE)) > $null
$texts.Item(1).AppendChild($template.CreateTextNode($env:TOAST_MESSAGE)) > $null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier($env:TOAST_APP_ID).Show($toast)
`

func defaultShortcutRoots() []string {
	return []string{
		filepath.Join(os.Getenv("ProgramData"), "Microsoft", "Windows", "Start Menu", "Programs"),
		filepath.Join(os.Getenv("APPDATA"), "Microsoft", "Windows", "Start Menu", "Programs"),
	}
}

func uninstallEntries(ctx context.Context, hive Hive) ([]UninstallEntry, error) {
	var entries []UninstallEntry
	if hive == Hive32 {
		found, err := readUninstallTree(registry.LOCAL_MACHINE, uninstallPath32)
		if err != nil {
			return nil, err
		}
		return found, nil
	}

	found, err := readUninstallTree(registry.LOCAL_MACHINE, uninstallPath)
	if err != nil {
		return nil, err
	}
	entries = append(entries, found...)

	// Per-user installs are optional
	if user, err := readUninstallTree(registry.CURRENT_USER, uninstallPath); err == nil {
		entries = append(entries, user...)
	}
	return entries, nil
}

func readUninstallTree(root registry.Key, path string) ([]UninstallEntry, error) {
	key, err := registry.OpenKey(root, path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer key.Close()

	names, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", path, err)
	}

	entries := make([]UninstallEntry, 0, len(names))
	for _, name := range names {
		sub, err := registry.OpenKey(key, name, registry.QUERY_VALUE)
		if err != nil {
			continue
		}

		displayName, _, err := sub.GetStringValue("DisplayName")
		if err != nil || displayName == "" {
			sub.Close()
			continue
		}
		entry := UninstallEntry{Key: name, DisplayName: displayName}
		entry.InstallLocation = readExpanded(sub, "InstallLocation")
		entry.DisplayIcon = readExpanded(sub, "DisplayIcon")
		sub.Close()

		entries = append(entries, entry)
	}
	return entries, nil
}

func readExpanded(key registry.Key, name string) string {
	value, kind, err := key.GetStringValue(name)
	if err != nil {
		return ""
	}
	if kind == registry.EXPAND_SZ {
		if expanded, err := registry.ExpandString(value); err == nil {
			return expanded
		}
	}
	return value
}

func appPath(name string) (string, bool) {
	if filepath.Ext(name) == "" {
		name += ".exe"
	}
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, appPathsPath+name, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer key.Close()

	path := strings.Trim(readExpanded(key, ""), `"`)
	if path == "" {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func resolveLink(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command",
		"(New-Object -ComObject WScript.Shell).CreateShortcut($env:LNK_PATH).TargetPath")
	cmd.Env = append(os.Environ(), "LNK_PATH="+path)

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("resolve shortcut %s: %w", path, err)
	}
	target := strings.TrimSpace(string(output))
	if target == "" {
		return "", fmt.Errorf("resolve shortcut %s: no target", path)
	}
	return target, nil
}

func spawnCommand(path string, kind TargetKind) (*exec.Cmd, error) {
	switch kind {
	case KindManagementConsole:
		return exec.Command("mmc", path), nil
	case KindControlPanelApplet:
		return exec.Command("control", path), nil
	case KindURIScheme:
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path), nil
	default:
		return exec.Command("cmd", "/c", "start", "", path), nil
	}
}

func killCommand(ctx context.Context, image string) *exec.Cmd {
	if filepath.Ext(image) == "" {
		image += ".exe"
	}
	return exec.CommandContext(ctx, "taskkill", "/F", "/IM", image)
}

// taskkill exits with 128 when no process matches the image
func isNotRunning(code int, output string) bool {
	return code == 128 || strings.Contains(strings.ToLower(output), "not found")
}

func notifyCommand(ctx context.Context, n Notification) (*exec.Cmd, error) {
	duration := "short"
	if n.Duration == "long" {
		duration = "long"
	}
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", toastScript)
	cmd.Env = append(os.Environ(),
		"TOAST_APP_ID="+n.AppID,
		"TOAST_TITLE="+n.Title,
		"TOAST_MESSAGE="+n.Message,
		"TOAST_DURATION="+duration,
	)
	return cmd, nil
}
