package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
)

// Loader implements ports.DefinitionLoader using an in-memory map.
// Definitions are stored serialized so callers never share mutable slices.
// Safe for concurrent use.
type Loader struct {
	mu   sync.RWMutex
	defs map[string][]byte
}

var _ ports.DefinitionLoader = (*Loader)(nil)

// NewLoader creates a Loader holding defs.
func NewLoader(defs ...domain.AnimatorData) (*Loader, error) {
	l := &Loader{defs: make(map[string][]byte, len(defs))}
	for _, d := range defs {
		if err := l.Add(d); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add stores def under its name, replacing any previous definition.
func (l *Loader) Add(def domain.AnimatorData) error {
	if def.Name == "" {
		return fmt.Errorf("animator definition missing name")
	}
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal animator %s: %w", def.Name, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs[def.Name] = raw
	return nil
}

// Remove deletes the named definition if present.
func (l *Loader) Remove(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.defs, name)
}

// Load returns a fresh copy of the named definition.
func (l *Loader) Load(ctx context.Context, name string) (*domain.AnimatorData, error) {
	l.mu.RLock()
	raw, ok := l.defs[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnimatorNotFound, name)
	}

	var def domain.AnimatorData
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal animator %s: %w", name, err)
	}
	return &def, nil
}

// List returns all definition names.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.defs))
	for k := range l.defs {
		names = append(names, k)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
