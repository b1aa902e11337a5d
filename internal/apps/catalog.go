package apps

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// EntryKind says how a catalog target is interpreted.
type EntryKind string

const (
	EntryPath    EntryKind = "path"
	EntryUtility EntryKind = "utility"
	EntryFuzzy   EntryKind = "fuzzy"
)

// CatalogEntry maps a set of spoken names to one application.
type CatalogEntry struct {
	Names  []string  `yaml:"names" toml:"names" json:"names"`
	Target string    `yaml:"target,omitempty" toml:"target,omitempty" json:"target,omitempty"`
	Kind   EntryKind `yaml:"kind,omitempty" toml:"kind,omitempty" json:"kind,omitempty"`
	Image  string    `yaml:"image,omitempty" toml:"image,omitempty" json:"image,omitempty"`
}

// NormalizerSpec is the vocabulary used to canonicalize names.
type NormalizerSpec struct {
	Punctuation string            `yaml:"punctuation" toml:"punctuation" json:"punctuation"`
	Suffixes    []string          `yaml:"suffixes" toml:"suffixes" json:"suffixes"`
	Prefixes    []string          `yaml:"prefixes" toml:"prefixes" json:"prefixes"`
	Synonyms    map[string]string `yaml:"synonyms" toml:"synonyms" json:"synonyms"`
}

// Catalog is the externalized alias table plus normalizer vocabulary.
// A Catalog is immutable once built.
type Catalog struct {
	NormalizerSpec NormalizerSpec `yaml:"normalizer" toml:"normalizer" json:"normalizer"`
	Apps           []CatalogEntry `yaml:"apps" toml:"apps" json:"apps"`

	index      map[string]int
	normalizer *Normalizer
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog, "yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog file. The format follows the extension:
// .toml for TOML, anything else is read as YAML.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	c, err := ParseCatalog(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte, format string) (*Catalog, error) {
	var c Catalog
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse toml catalog: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	if err := c.build(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) build() error {
	c.normalizer = NewNormalizer(c.NormalizerSpec)
	c.index = make(map[string]int)

	for i := range c.Apps {
		entry := &c.Apps[i]
		if len(entry.Names) == 0 {
			return fmt.Errorf("catalog entry %d: no names", i)
		}
		if entry.Kind == "" {
			entry.Kind = inferKind(entry.Target)
		}
		switch entry.Kind {
		case EntryPath, EntryUtility:
			if entry.Target == "" {
				return fmt.Errorf("catalog entry %q: %s entry needs a target", entry.Names[0], entry.Kind)
			}
		case EntryFuzzy:
		default:
			return fmt.Errorf("catalog entry %q: unknown kind %q", entry.Names[0], entry.Kind)
		}

		for _, name := range entry.Names {
			key := c.key(name)
			if key == "" {
				continue
			}
			if prev, dup := c.index[key]; dup && prev != i {
				return fmt.Errorf("catalog name %q is listed twice", name)
			}
			c.index[key] = i
		}
	}
	return nil
}

func inferKind(target string) EntryKind {
	switch {
	case target == "":
		return EntryFuzzy
	case strings.ContainsAny(target, `/\`):
		return EntryPath
	default:
		return EntryUtility
	}
}

func (c *Catalog) key(name string) string {
	return strings.ToLower(c.normalizer.Clean(name))
}

// Normalizer returns the normalizer built from this catalog's vocabulary.
func (c *Catalog) Normalizer() *Normalizer {
	return c.normalizer
}

// Lookup finds the entry for a name, exactly and case-insensitively.
func (c *Catalog) Lookup(name string) (CatalogEntry, bool) {
	i, ok := c.index[c.key(name)]
	if !ok {
		return CatalogEntry{}, false
	}
	return c.Apps[i], true
}

// ImageFor returns the process image registered for a name.
func (c *Catalog) ImageFor(name string) (string, bool) {
	entry, ok := c.Lookup(name)
	if !ok || entry.Image == "" {
		return "", false
	}
	return entry.Image, true
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.Apps)
}

var windowsEnvPattern = regexp.MustCompile(`%([A-Za-z0-9_()]+)%`)

// expandTarget expands both %VAR% and $VAR references.
func expandTarget(target string) string {
	target = windowsEnvPattern.ReplaceAllStringFunc(target, func(m string) string {
		if v, ok := os.LookupEnv(strings.Trim(m, "%")); ok {
			return v
		}
		return m
	})
	return os.ExpandEnv(target)
}

// CatalogHolder publishes the current catalog to concurrent readers and lets
// a reload swap it atomically.
type CatalogHolder struct {
	current atomic.Pointer[Catalog]
	version atomic.Uint64

	mu        sync.Mutex
	listeners []func(*Catalog)
}

// NewCatalogHolder creates a holder serving c
func NewCatalogHolder(c *Catalog) *CatalogHolder {
	h := &CatalogHolder{}
	h.current.Store(c)
	return h
}

// Load returns the current catalog
func (h *CatalogHolder) Load() *Catalog {
	return h.current.Load()
}

// Version increases every time the catalog is replaced
func (h *CatalogHolder) Version() uint64 {
	return h.version.Load()
}

// Store replaces the catalog and notifies listeners
func (h *CatalogHolder) Store(c *Catalog) {
	h.current.Store(c)
	h.version.Add(1)

	h.mu.Lock()
	listeners := append([]func(*Catalog){}, h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
}

// OnChange registers fn to run after every Store
func (h *CatalogHolder) OnChange(fn func(*Catalog)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}
