package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/keyframe/internal/dto"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam document repository to ports.DefinitionLoader.
// Each document (Markdown frontmatter, YAML or JSON) holds one animator and
// is addressed by its path without extension.
type Loader struct {
	Repo *loam.TypedRepository[dto.AnimatorMetadata]
}

var (
	_ ports.DefinitionLoader = (*Loader)(nil)
	_ ports.Watchable        = (*Loader)(nil)
)

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[dto.AnimatorMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at path and wraps it.
// ReadOnly avoids Loam's sandbox behavior in dev mode; the loader never
// writes definitions.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath, loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[dto.AnimatorMetadata](repo)), nil
}

// Load retrieves and converts the named definition.
func (l *Loader) Load(ctx context.Context, name string) (*domain.AnimatorData, error) {
	ids, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	docID, ok := ids[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnimatorNotFound, name)
	}

	doc, err := l.Repo.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}
	def, err := doc.Data.ToDomain(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", docID, err)
	}
	return def, nil
}

// List lists all definitions in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	ids, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ids))
	for name := range ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// index maps definition names to document IDs.
func (l *Loader) index(ctx context.Context) (map[string]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	ids := make(map[string]string, len(docs))
	for _, doc := range docs {
		name := trimExtension(doc.ID)

		// Collision Detection
		if existing, ok := ids[name]; ok {
			return nil, fmt.Errorf("collision detected: animator '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		ids[name] = doc.ID
	}
	return ids, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	// Recursive doublestar pattern supported by Loam.
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				// Loam debounces; pass the changed name up the chain.
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
