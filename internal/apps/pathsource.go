package apps

import (
	"context"
	"strings"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
)

// PathSource looks the spoken name up as an executable on the search path
// and in App Paths. Only exact lookups count.
type PathSource struct {
	os host.OS
}

// NewPathSource creates a search path source
func NewPathSource(os host.OS) *PathSource {
	return &PathSource{os: os}
}

// Kind returns SourcePath
func (s *PathSource) Kind() SourceKind { return SourcePath }

// FindCandidates returns at most one candidate with score 100.
func (s *PathSource) FindCandidates(ctx context.Context, q Query) ([]Candidate, error) {
	names := []string{q.Cleaned}
	if lower := strings.ToLower(q.Cleaned); lower != q.Cleaned {
		names = append(names, lower)
	}

	for _, name := range names {
		if name == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, ok := s.os.LookupExecutable(ctx, name)
		if !ok {
			continue
		}
		return []Candidate{{
			DisplayName:  q.Cleaned,
			Source:       SourcePath,
			ResolvedPath: path,
			Score:        100,
			Origin:       name,
			Image:        baseName(path),
		}}, nil
	}
	return nil, nil
}
