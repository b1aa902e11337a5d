package apps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/monitoring"
)

var (
	// ErrNotResolved means the name could not be turned into a launch target.
	ErrNotResolved = errors.New("application could not be resolved")
	// ErrSpawnFailed means the host refused to start the target.
	ErrSpawnFailed = errors.New("failed to start application")
	// ErrTerminateFailed means the force kill itself failed.
	ErrTerminateFailed = errors.New("failed to close application")
)

// LaunchResult describes a started application.
type LaunchResult struct {
	Name    string          `json:"name"`
	Path    string          `json:"path"`
	Kind    host.TargetKind `json:"kind"`
	Source  string          `json:"source"`
	Score   int             `json:"score"`
	Literal bool            `json:"literal,omitempty"`
}

// TerminateResult describes a close request.
type TerminateResult struct {
	Name           string `json:"name"`
	Image          string `json:"image"`
	AlreadyStopped bool   `json:"already_stopped"`
}

// Launcher starts and closes applications by spoken name.
type Launcher struct {
	os       host.OS
	resolver *Resolver
	catalogs *CatalogHolder
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewLauncher creates a launcher
func NewLauncher(os host.OS, resolver *Resolver, catalogs *CatalogHolder, logger *logging.Logger, metrics *monitoring.Metrics) *Launcher {
	return &Launcher{
		os:       os,
		resolver: resolver,
		catalogs: catalogs,
		logger:   logging.OrNop(logger).Component("launcher"),
		metrics:  metrics,
	}
}

// Resolver returns the resolver used for launches
func (l *Launcher) Resolver() *Resolver {
	return l.resolver
}

// Launch starts the application named by name. An existing literal path is
// launched directly; anything else goes through the resolver.
func (l *Launcher) Launch(ctx context.Context, name string) (*LaunchResult, error) {
	cleaned := l.catalogs.Load().Normalizer().Clean(name)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty name", ErrNotResolved)
	}

	if strings.ContainsAny(cleaned, `/\`) && l.os.PathExists(cleaned) {
		app := &ResolvedApp{
			Name:   baseName(cleaned),
			Path:   cleaned,
			Source: SourcePath,
			Score:  100,
			Target: Classify(cleaned),
		}
		res, err := l.LaunchResolved(ctx, app)
		if res != nil {
			res.Literal = true
		}
		return res, err
	}

	app, err := l.resolver.Resolve(ctx, cleaned)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.metrics.RecordLaunch("none", "not_resolved")
			return nil, fmt.Errorf("%w: %s", ErrNotResolved, name)
		}
		return nil, err
	}
	return l.LaunchResolved(ctx, app)
}

// LaunchResolved spawns an already resolved application.
func (l *Launcher) LaunchResolved(ctx context.Context, app *ResolvedApp) (*LaunchResult, error) {
	target := app.Target
	if target.Path == "" {
		target = Classify(app.Path)
	}
	if target.Path == "" {
		return nil, fmt.Errorf("%w: %s has no path", ErrNotResolved, app.Name)
	}

	if err := l.os.SpawnProcess(ctx, target.Path, target.Kind); err != nil {
		l.metrics.RecordLaunch(target.Kind.String(), "failed")
		l.logger.Error("spawn failed",
			zap.String("app", app.Name),
			zap.String("path", target.Path),
			zap.String("kind", target.Kind.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawnFailed, app.Name, err)
	}

	l.metrics.RecordLaunch(target.Kind.String(), "started")
	l.logger.Info("application started",
		zap.String("app", app.Name),
		zap.String("path", target.Path),
		zap.String("kind", target.Kind.String()))

	return &LaunchResult{
		Name:   app.Name,
		Path:   target.Path,
		Kind:   target.Kind,
		Source: app.Source.String(),
		Score:  app.Score,
	}, nil
}

// ImageFor maps a spoken name to the process image to kill: the catalog
// image when there is one, otherwise the name itself.
func (l *Launcher) ImageFor(name string) string {
	catalog := l.catalogs.Load()
	cleaned := catalog.Normalizer().Clean(name)
	if image, ok := catalog.ImageFor(cleaned); ok {
		return image
	}
	if image, ok := catalog.ImageFor(catalog.Normalizer().Normalize(cleaned)); ok {
		return image
	}
	return cleaned
}

// Terminate force-closes every process of the application. An application
// that is not running counts as closed.
func (l *Launcher) Terminate(ctx context.Context, name string) (*TerminateResult, error) {
	image := l.ImageFor(name)
	if image == "" {
		return nil, fmt.Errorf("%w: empty name", ErrTerminateFailed)
	}

	result, err := l.os.ForceKillByImageName(ctx, image)
	if err != nil {
		l.metrics.RecordTermination("failed")
		l.logger.Error("terminate failed", zap.String("app", name), zap.String("image", image), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrTerminateFailed, name, err)
	}

	stopped := result == host.NotRunning
	outcome := "killed"
	if stopped {
		outcome = "not_running"
	}
	l.metrics.RecordTermination(outcome)
	l.logger.Info("application closed", zap.String("app", name), zap.String("image", image), zap.String("outcome", outcome))

	return &TerminateResult{Name: name, Image: image, AlreadyStopped: stopped}, nil
}
