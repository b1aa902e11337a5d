package apps

import (
	"context"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
)

// KnownSource answers from the catalog alias table. Fuzzy entries produce
// no candidate so the search-based sources decide.
type KnownSource struct {
	os       host.OS
	catalogs *CatalogHolder
}

// NewKnownSource creates a catalog-backed source
func NewKnownSource(os host.OS, catalogs *CatalogHolder) *KnownSource {
	return &KnownSource{os: os, catalogs: catalogs}
}

// Kind returns SourceKnownTable
func (s *KnownSource) Kind() SourceKind { return SourceKnownTable }

// FindCandidates matches the cleaned name, then the normalized name.
func (s *KnownSource) FindCandidates(ctx context.Context, q Query) ([]Candidate, error) {
	catalog := s.catalogs.Load()

	entry, ok := catalog.Lookup(q.Cleaned)
	if !ok {
		entry, ok = catalog.Lookup(q.Normalized)
	}
	if !ok || entry.Kind == EntryFuzzy {
		return nil, nil
	}

	path := expandTarget(entry.Target)
	if entry.Kind == EntryUtility {
		// Snap-ins, applets and URIs are handed to their host program as is.
		if t := Classify(path); t.Kind == host.KindExecutable {
			if full, found := s.os.LookupExecutable(ctx, path); found {
				path = full
			}
		}
	}

	return []Candidate{{
		DisplayName:  entry.Names[0],
		Source:       SourceKnownTable,
		ResolvedPath: path,
		Score:        100,
		Origin:       entry.Names[0],
		Image:        entry.Image,
	}}, nil
}
