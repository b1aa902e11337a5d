package apps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/monitoring"
)

// ErrNotFound means no candidate reached its source threshold.
var ErrNotFound = errors.New("application not found")

// Resolver turns a spoken name into one launchable application by querying
// every source and picking the best scored candidate.
type Resolver struct {
	catalogs *CatalogHolder
	sources  []Source
	cache    *expirable.LRU[string, ResolvedApp]
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithCache keeps successful resolutions for ttl. A zero ttl or size disables caching.
func WithCache(size int, ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if size <= 0 || ttl <= 0 {
			r.cache = nil
			return
		}
		r.cache = expirable.NewLRU[string, ResolvedApp](size, nil, ttl)
	}
}

// WithResolverLogger sets the logger
func WithResolverLogger(l *logging.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = logging.OrNop(l).Component("resolver") }
}

// WithResolverMetrics sets the metrics sink
func WithResolverMetrics(m *monitoring.Metrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates a resolver over sources
func NewResolver(catalogs *CatalogHolder, sources []Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		catalogs: catalogs,
		sources:  sources,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache != nil {
		catalogs.OnChange(func(*Catalog) { r.cache.Purge() })
	}
	return r
}

// Query builds the cleaned and normalized forms of raw.
func (r *Resolver) Query(raw string) Query {
	norm := r.catalogs.Load().Normalizer()
	return Query{
		Raw:        raw,
		Cleaned:    norm.Clean(raw),
		Normalized: norm.Normalize(raw),
	}
}

// Candidates returns every candidate above its source threshold, best first.
func (r *Resolver) Candidates(ctx context.Context, raw string) ([]Candidate, error) {
	q := r.Query(raw)
	if q.Normalized == "" {
		return nil, nil
	}
	return r.gather(ctx, q)
}

func (r *Resolver) gather(ctx context.Context, q Query) ([]Candidate, error) {
	results := make([][]Candidate, len(r.sources))

	var g errgroup.Group
	for i, src := range r.sources {
		g.Go(func() error {
			found, err := src.FindCandidates(ctx, q)
			if err != nil {
				// One broken source must not hide the others.
				r.logger.Warn("source failed",
					zap.String("source", src.Kind().String()),
					zap.String("app", q.Raw),
					zap.Error(err))
				r.metrics.RecordResolution(src.Kind().String(), "error")
				return nil
			}
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []Candidate
	for _, found := range results {
		all = append(all, found...)
	}
	sortCandidates(all)
	return all, nil
}

// Resolve returns the best candidate for raw or ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*ResolvedApp, error) {
	q := r.Query(raw)
	if q.Normalized == "" {
		return nil, fmt.Errorf("%w: empty name", ErrNotFound)
	}

	key := strconv.FormatUint(r.catalogs.Version(), 10) + "\x00" + q.Normalized
	if r.cache != nil {
		if app, ok := r.cache.Get(key); ok {
			r.metrics.RecordResolution(app.Source.String(), "cache_hit")
			return &app, nil
		}
	}

	candidates, err := r.gather(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 || candidates[0].Score < candidates[0].Source.Threshold() {
		r.metrics.RecordResolution("none", "not_found")
		r.logger.Debug("no candidate", zap.String("app", raw), zap.String("normalized", q.Normalized))
		return nil, fmt.Errorf("%w: %q", ErrNotFound, raw)
	}

	best := r.finish(ctx, candidates[0])
	app := ResolvedApp{
		Name:   best.DisplayName,
		Path:   best.ResolvedPath,
		Source: best.Source,
		Score:  best.Score,
		Target: Classify(best.ResolvedPath),
		Image:  best.Image,
	}

	r.metrics.RecordResolution(app.Source.String(), "resolved")
	r.logger.Info("resolved application",
		zap.String("app", raw),
		zap.String("name", app.Name),
		zap.String("source", app.Source.String()),
		zap.Int("score", app.Score),
		zap.String("path", app.Path))

	if r.cache != nil {
		r.cache.Add(key, app)
	}
	return &app, nil
}

func (r *Resolver) finish(ctx context.Context, c Candidate) Candidate {
	for _, src := range r.sources {
		if src.Kind() != c.Source {
			continue
		}
		f, ok := src.(finisher)
		if !ok {
			return c
		}
		done, err := f.Finish(ctx, c)
		if err != nil {
			r.logger.Warn("could not finish candidate",
				zap.String("name", c.DisplayName),
				zap.String("origin", c.Origin),
				zap.Error(err))
		}
		return done
	}
	return c
}
