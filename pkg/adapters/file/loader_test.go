package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/keyframe/pkg/adapters/file"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heroYAML = `parameters:
  - name: run
    type: bool
states:
  - name: Idle
    length: 1
    loop: true
    transitions:
      - to: Run
        when: run
        duration: 0.2
  - name: Run
    length: 0.5
    loop: true
`

const doorJSON = `{
  "name": "door",
  "layers": [{"default_state": "Closed", "states": [{"name": "Closed"}, {"name": "Open", "length": 1}]}]
}`

func seed(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoader_Contract(t *testing.T) {
	dir := seed(t, map[string]string{
		"hero.yaml":  heroYAML,
		"door.json":  doorJSON,
		"notes.txt":  "ignored",
		"tmp-x.yaml": "ignored",
	})

	seeded := map[string]domain.AnimatorData{
		"hero": {
			Name:       "hero",
			Parameters: []domain.ParameterData{{Name: "run", Type: domain.ParameterBool}},
			Layers:     []domain.LayerData{{DefaultState: "Idle", States: make([]domain.StateData, 2)}},
		},
		"door": {
			Name:   "door",
			Layers: []domain.LayerData{{DefaultState: "Closed", States: make([]domain.StateData, 2)}},
		},
	}
	ports.RunLoaderContract(t, file.New(dir), seeded)
}

func TestLoader_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	loader := file.New(filepath.Join(dir, "defs"))
	ctx := context.Background()

	def, err := file.Decode([]byte(heroYAML), "hero")
	require.NoError(t, err)
	def.Layers[0].States[1].Speed = 0
	def.Layers[0].States[0].Transitions[0].HasExitTime = true

	require.NoError(t, loader.Save(ctx, def))
	require.NoError(t, loader.Save(ctx, def), "overwrite")

	got, err := loader.Load(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, def, got)

	names, err := loader.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero"}, names)

	assert.Error(t, loader.Save(ctx, &domain.AnimatorData{}))
	assert.Error(t, loader.Save(ctx, &domain.AnimatorData{Name: "../escape"}))
}

func TestLoader_Errors(t *testing.T) {
	dir := seed(t, map[string]string{"broken.yaml": "states: [unclosed"})
	loader := file.New(dir)

	_, err := loader.Load(context.Background(), "broken")
	assert.ErrorContains(t, err, "broken.yaml")

	_, err = loader.Load(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrAnimatorNotFound)

	names, err := file.New(filepath.Join(dir, "missing")).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLoader_Watch(t *testing.T) {
	dir := t.TempDir()
	loader := file.New(dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := loader.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hero.yaml"), []byte(heroYAML), 0644))

	select {
	case name := <-changes:
		assert.Equal(t, "hero", name)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 10*time.Millisecond, "channel closes after cancel")
}

func TestLoader_StoreContract(t *testing.T) {
	ports.RunStoreContract(t, file.New(filepath.Join(t.TempDir(), "defs")))
}
