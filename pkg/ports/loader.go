package ports

import (
	"context"

	"github.com/aretw0/keyframe/pkg/domain"
)

// DefinitionLoader defines how animator definitions are retrieved.
// This allows the storage layer (files, Loam, Redis, memory) to be decoupled.
type DefinitionLoader interface {
	// Load returns the definition registered under name.
	// Returns an error wrapping domain.ErrAnimatorNotFound if it does not exist.
	Load(ctx context.Context, name string) (*domain.AnimatorData, error)

	// List returns the names of every available definition, sorted.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload in the inspection server.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed definition.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}

// DefinitionStore is a DefinitionLoader that also accepts writes.
// It backs the push/pull commands that move definitions between backends.
type DefinitionStore interface {
	DefinitionLoader

	// Save stores def under def.Name, replacing any previous version.
	Save(ctx context.Context, def *domain.AnimatorData) error
}
