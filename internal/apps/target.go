package apps

import (
	"regexp"
	"strings"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
)

// Target is a launchable path together with how to launch it.
type Target struct {
	Path string          `json:"path"`
	Kind host.TargetKind `json:"kind"`
}

// Two or more scheme characters, so drive letters such as C: are not URIs.
var uriScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]+:`)

// Classify decides how a resolved path is launched.
func Classify(path string) Target {
	path = strings.TrimSpace(path)
	lower := strings.ToLower(path)

	kind := host.KindExecutable
	switch {
	case strings.HasSuffix(lower, ".msc"):
		kind = host.KindManagementConsole
	case strings.HasSuffix(lower, ".cpl"):
		kind = host.KindControlPanelApplet
	case uriScheme.MatchString(path):
		kind = host.KindURIScheme
	}
	return Target{Path: path, Kind: kind}
}

// baseName returns the last element of a Windows or slash separated path.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
