package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/keyframe/internal/dto"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Extensions lists the definition file extensions, in lookup priority.
var Extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.DefinitionLoader over a directory holding one
// animator per file. The file name without extension is the animator name.
type Loader struct {
	BasePath string
}

var (
	_ ports.DefinitionLoader = (*Loader)(nil)
	_ ports.Watchable        = (*Loader)(nil)
)

// New creates a Loader reading from basePath.
func New(basePath string) *Loader {
	return &Loader{BasePath: basePath}
}

// Load reads and decodes the named definition.
func (l *Loader) Load(ctx context.Context, name string) (*domain.AnimatorData, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: invalid name %q", domain.ErrAnimatorNotFound, name)
	}
	for _, ext := range Extensions {
		path := filepath.Join(l.BasePath, name+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrAnimatorNotFound, name)
}

// List returns the names of every definition file in the directory.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := definitionName(entry.Name())
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// definitionName strips a known extension from a file name. Temporary
// files left by Save are ignored.
func definitionName(file string) (string, bool) {
	if strings.HasPrefix(file, "tmp-") {
		return "", false
	}
	ext := strings.ToLower(filepath.Ext(file))
	for _, known := range Extensions {
		if ext == known {
			return strings.TrimSuffix(file, filepath.Ext(file)), true
		}
	}
	return "", false
}

// LoadFile decodes a single YAML or JSON definition file.
func LoadFile(path string) (*domain.AnimatorData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	name, _ := definitionName(filepath.Base(path))
	def, err := Decode(data, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Decode parses YAML (or JSON, which YAML accepts) into a definition.
func Decode(data []byte, fallbackName string) (*domain.AnimatorData, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	meta, err := dto.Decode(raw)
	if err != nil {
		return nil, err
	}
	return meta.ToDomain(fallbackName)
}

// Save writes def as <name>.yaml atomically.
// It writes to a temporary file first, syncs it, and then renames it to the destination.
func (l *Loader) Save(ctx context.Context, def *domain.AnimatorData) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("animator definition missing name")
	}
	if strings.ContainsAny(def.Name, `/\`) {
		return fmt.Errorf("invalid animator name %q", def.Name)
	}
	if err := os.MkdirAll(l.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure definition directory: %w", err)
	}

	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal animator: %w", err)
	}

	destPath := filepath.Join(l.BasePath, def.Name+".yaml")
	tmpFile, err := os.CreateTemp(l.BasePath, "tmp-"+def.Name+"-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing definition for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
