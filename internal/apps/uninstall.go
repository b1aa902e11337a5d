package apps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
)

// RegistrySource scores products listed in the uninstall trees.
type RegistrySource struct {
	os       host.OS
	hives    []host.Hive
	catalogs *CatalogHolder
}

// NewRegistrySource creates a source reading both the native and 32-bit trees
func NewRegistrySource(os host.OS, catalogs *CatalogHolder) *RegistrySource {
	return &RegistrySource{
		os:       os,
		hives:    []host.Hive{host.Hive64, host.Hive32},
		catalogs: catalogs,
	}
}

// Kind returns SourceRegistry
func (s *RegistrySource) Kind() SourceKind { return SourceRegistry }

// FindCandidates returns display-named entries scoring at least the registry
// threshold. The location is captured when the entry records one; a
// candidate without it resolves but cannot be launched. A tree that fails to read is skipped; the error is
// only returned when no tree could be read.
func (s *RegistrySource) FindCandidates(ctx context.Context, q Query) ([]Candidate, error) {
	norm := s.catalogs.Load().Normalizer()

	var (
		out  []Candidate
		errs []error
		read int
	)
	for _, hive := range s.hives {
		entries, err := s.os.EnumerateUninstallEntries(ctx, hive)
		if errors.Is(err, host.ErrUnsupported) {
			return nil, nil
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s hive: %w", hive, err))
			continue
		}
		read++

		for _, e := range entries {
			if e.DisplayName == "" {
				continue
			}
			score := Score(q.Normalized, norm.Normalize(e.DisplayName))
			if score < SourceRegistry.Threshold() {
				continue
			}
			path := entryPath(e)
			c := Candidate{
				DisplayName:  e.DisplayName,
				Source:       SourceRegistry,
				ResolvedPath: path,
				Score:        score,
				Origin:       e.Key,
			}
			if strings.HasSuffix(strings.ToLower(path), ".exe") {
				c.Image = baseName(path)
			}
			out = append(out, c)
		}
	}

	if read == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	sortCandidates(out)
	return out, nil
}

// entryPath prefers an executable DisplayIcon over the install directory.
func entryPath(e host.UninstallEntry) string {
	if icon := iconExecutable(e.DisplayIcon); icon != "" {
		return icon
	}
	return strings.Trim(strings.TrimSpace(e.InstallLocation), `"`)
}

// iconExecutable strips quoting and a trailing ",index" from a DisplayIcon.
func iconExecutable(icon string) string {
	icon = strings.TrimSpace(icon)
	if i := strings.LastIndex(icon, ","); i > 0 {
		icon = icon[:i]
	}
	icon = strings.Trim(strings.TrimSpace(icon), `"`)
	if !strings.HasSuffix(strings.ToLower(icon), ".exe") {
		return ""
	}
	return icon
}
