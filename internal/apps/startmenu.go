package apps

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
)

// StartMenuSource scores every shortcut under the Start Menu trees.
type StartMenuSource struct {
	os       host.OS
	roots    []string
	catalogs *CatalogHolder
}

// NewStartMenuSource creates a source over the given shortcut roots
func NewStartMenuSource(os host.OS, roots []string, catalogs *CatalogHolder) *StartMenuSource {
	return &StartMenuSource{os: os, roots: roots, catalogs: catalogs}
}

// Kind returns SourceStartMenu
func (s *StartMenuSource) Kind() SourceKind { return SourceStartMenu }

// FindCandidates returns shortcuts scoring at least the Start Menu threshold.
func (s *StartMenuSource) FindCandidates(ctx context.Context, q Query) ([]Candidate, error) {
	shortcuts, err := s.os.EnumerateShortcuts(ctx, s.roots)
	if err != nil {
		return nil, fmt.Errorf("enumerate shortcuts: %w", err)
	}

	norm := s.catalogs.Load().Normalizer()
	var out []Candidate
	for _, sc := range shortcuts {
		score := Score(q.Normalized, norm.Normalize(sc.DisplayName))
		if score < SourceStartMenu.Threshold() {
			continue
		}
		out = append(out, Candidate{
			DisplayName:  sc.DisplayName,
			Source:       SourceStartMenu,
			ResolvedPath: sc.TargetPath,
			Score:        score,
			Origin:       sc.Path,
		})
	}
	sortCandidates(out)
	return out, nil
}

// Finish resolves the shortcut target of the winning candidate. When the
// target cannot be read the shortcut itself is launched.
func (s *StartMenuSource) Finish(ctx context.Context, c Candidate) (Candidate, error) {
	if c.ResolvedPath != "" {
		return c, nil
	}
	target, err := s.os.ResolveShortcut(ctx, c.Origin)
	if err != nil || target == "" {
		c.ResolvedPath = c.Origin
		return c, err
	}
	c.ResolvedPath = target
	return c, nil
}
