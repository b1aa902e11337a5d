package apps

import (
	"context"
	"sort"
)

// SourceKind identifies where a candidate was found. The declaration order is
// the tie-break priority: lower values win when scores are equal.
type SourceKind int

const (
	SourceStartMenu SourceKind = iota
	SourceRegistry
	SourceKnownTable
	SourcePath
)

// String returns the string representation of the source
func (s SourceKind) String() string {
	switch s {
	case SourceStartMenu:
		return "start_menu"
	case SourceRegistry:
		return "registry"
	case SourceKnownTable:
		return "known_table"
	case SourcePath:
		return "path"
	default:
		return "unknown"
	}
}

// MarshalText encodes the source by name
func (s SourceKind) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Threshold is the minimum score a candidate from this source needs to win.
func (s SourceKind) Threshold() int {
	switch s {
	case SourceStartMenu:
		return 60
	case SourceRegistry:
		return 70
	default:
		return 100
	}
}

// Candidate is one possible resolution of a spoken name.
type Candidate struct {
	DisplayName  string     `json:"display_name"`
	Source       SourceKind `json:"source"`
	ResolvedPath string     `json:"resolved_path,omitempty"`
	Score        int        `json:"score"`
	// Origin is the shortcut file, registry key or catalog name behind the candidate.
	Origin string `json:"origin,omitempty"`
	Image  string `json:"image,omitempty"`
}

// ResolvedApp is the winning candidate with its launch target.
type ResolvedApp struct {
	Name   string     `json:"name"`
	Path   string     `json:"path"`
	Source SourceKind `json:"source"`
	Score  int        `json:"score"`
	Target Target     `json:"target"`
	Image  string     `json:"image,omitempty"`
}

// Query carries the spoken name in the forms sources need.
type Query struct {
	Raw        string
	Cleaned    string
	Normalized string
}

// Source produces candidates for a query. Sources never fail the whole
// resolution; an error only drops that source's candidates.
type Source interface {
	Kind() SourceKind
	FindCandidates(ctx context.Context, q Query) ([]Candidate, error)
}

// finisher is implemented by sources whose candidates need a second, more
// expensive step before launch (shortcut target resolution).
type finisher interface {
	Finish(ctx context.Context, c Candidate) (Candidate, error)
}

// sortCandidates orders by score descending then source priority, keeping
// discovery order for full ties.
func sortCandidates(c []Candidate) {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Score != c[j].Score {
			return c[i].Score > c[j].Score
		}
		return c[i].Source < c[j].Source
	})
}
