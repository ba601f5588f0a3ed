package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/keyframe"
	"github.com/aretw0/keyframe/internal/logging"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
)

// ErrNotWatchable is returned by Watch when the loader cannot report changes.
var ErrNotWatchable = errors.New("loader does not support watching")

// Registry caches the definitions served by a loader and instantiates
// animators from them. Safe for concurrent use.
type Registry struct {
	loader   ports.DefinitionLoader
	logger   *slog.Logger
	onChange func(name string)

	mu   sync.RWMutex
	defs map[string]*domain.AnimatorData
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger sets the logger used for reload diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithOnChange registers a callback fired after a definition is reloaded
// or removed by Refresh.
func WithOnChange(fn func(name string)) Option {
	return func(r *Registry) {
		r.onChange = fn
	}
}

// New creates an empty registry over loader. Call Reload to populate it.
func New(loader ports.DefinitionLoader, opts ...Option) *Registry {
	r := &Registry{
		loader: loader,
		logger: logging.NewNop(),
		defs:   make(map[string]*domain.AnimatorData),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reload replaces the catalog with everything the loader lists.
// On error the previous catalog is kept.
func (r *Registry) Reload(ctx context.Context) error {
	names, err := r.loader.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list definitions: %w", err)
	}

	defs := make(map[string]*domain.AnimatorData, len(names))
	for _, name := range names {
		def, err := r.loader.Load(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
		defs[name] = def
	}

	r.mu.Lock()
	r.defs = defs
	r.mu.Unlock()

	r.logger.Debug("registry reloaded", "count", len(defs))
	return nil
}

// Refresh reloads a single definition, dropping it when the loader no
// longer has it.
func (r *Registry) Refresh(ctx context.Context, name string) error {
	def, err := r.loader.Load(ctx, name)
	switch {
	case errors.Is(err, domain.ErrAnimatorNotFound):
		r.mu.Lock()
		delete(r.defs, name)
		r.mu.Unlock()
		r.logger.Info("definition removed", "name", name)
	case err != nil:
		return fmt.Errorf("failed to refresh %s: %w", name, err)
	default:
		r.mu.Lock()
		r.defs[name] = def
		r.mu.Unlock()
		r.logger.Info("definition reloaded", "name", name)
	}

	if r.onChange != nil {
		r.onChange(name)
	}
	return nil
}

// Watch refreshes definitions as the loader reports changes until ctx is
// done. It returns once the watcher is running.
func (r *Registry) Watch(ctx context.Context) error {
	w, ok := r.loader.(ports.Watchable)
	if !ok {
		return ErrNotWatchable
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		for name := range changes {
			if err := r.Refresh(ctx, name); err != nil {
				// Broken edits are common while authoring; keep the last good version.
				r.logger.Warn("refresh failed", "name", name, "err", err)
			}
		}
	}()
	return nil
}

// Get returns the cached definition. Callers must not modify it.
func (r *Registry) Get(name string) (*domain.AnimatorData, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the cached definition names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate builds a new Animator from the named definition.
func (r *Registry) Instantiate(name string, opts ...keyframe.Option) (*keyframe.Animator, error) {
	def, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnimatorNotFound, name)
	}
	return keyframe.New(*def, opts...)
}
