package host

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by Local for queries the platform cannot answer.
var ErrUnsupported = errors.New("operation not supported on this platform")

// TargetKind tells the host how a launch target must be started.
type TargetKind int

const (
	KindExecutable TargetKind = iota
	KindManagementConsole
	KindControlPanelApplet
	KindURIScheme
)

// String returns the string representation of the kind
func (k TargetKind) String() string {
	switch k {
	case KindExecutable:
		return "executable"
	case KindManagementConsole:
		return "management_console"
	case KindControlPanelApplet:
		return "control_panel_applet"
	case KindURIScheme:
		return "uri_scheme"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name
func (k TargetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Hive selects one of the uninstall registry trees.
type Hive int

const (
	Hive64 Hive = iota
	Hive32
)

// String returns the string representation of the hive
func (h Hive) String() string {
	if h == Hive32 {
		return "wow6432"
	}
	return "native"
}

// KillResult describes what a force kill did.
type KillResult int

const (
	Killed KillResult = iota
	NotRunning
)

// Shortcut is a program entry found under a Start Menu tree.
type Shortcut struct {
	Path        string `json:"path"`
	DisplayName string `json:"display_name"`
	// TargetPath is only filled when the platform gets it for free; otherwise
	// callers use ResolveShortcut on the entries they actually need.
	TargetPath string `json:"target_path,omitempty"`
}

// UninstallEntry is one installed product from an uninstall tree.
type UninstallEntry struct {
	Key             string `json:"key"`
	DisplayName     string `json:"display_name"`
	InstallLocation string `json:"install_location,omitempty"`
	DisplayIcon     string `json:"display_icon,omitempty"`
}

// Notification is a single toast request.
type Notification struct {
	AppID    string
	Title    string
	Message  string
	Duration string // "short" or "long"
}

// OS is everything the core needs from the host operating system.
type OS interface {
	EnumerateShortcuts(ctx context.Context, roots []string) ([]Shortcut, error)
	ResolveShortcut(ctx context.Context, path string) (string, error)
	EnumerateUninstallEntries(ctx context.Context, hive Hive) ([]UninstallEntry, error)
	LookupExecutable(ctx context.Context, name string) (string, bool)
	PathExists(path string) bool
	SpawnProcess(ctx context.Context, path string, kind TargetKind) error
	ForceKillByImageName(ctx context.Context, image string) (KillResult, error)
	ShowNotification(ctx context.Context, n Notification) error
}
