package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/keyframe/pkg/adapters/memory"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func definition(name string) domain.AnimatorData {
	return domain.AnimatorData{
		Name:       name,
		Parameters: []domain.ParameterData{{Name: "run", Type: domain.ParameterBool}},
		Layers: []domain.LayerData{{
			DefaultState: "Idle",
			States:       []domain.StateData{{Name: "Idle", Length: 1, Loop: true, Speed: 1}},
		}},
	}
}

func TestLoader_Contract(t *testing.T) {
	seeded := map[string]domain.AnimatorData{
		"hero":  definition("hero"),
		"enemy": definition("enemy"),
	}
	loader, err := memory.NewLoader(seeded["hero"], seeded["enemy"])
	require.NoError(t, err)

	ports.RunLoaderContract(t, loader, seeded)
}

func TestLoader_Isolation(t *testing.T) {
	loader, err := memory.NewLoader(definition("hero"))
	require.NoError(t, err)

	first, err := loader.Load(context.Background(), "hero")
	require.NoError(t, err)
	first.Layers[0].States[0].Name = "Mutated"

	second, err := loader.Load(context.Background(), "hero")
	require.NoError(t, err)
	assert.Equal(t, "Idle", second.Layers[0].States[0].Name)
}

func TestLoader_AddRemove(t *testing.T) {
	loader, err := memory.NewLoader()
	require.NoError(t, err)

	assert.Error(t, loader.Add(domain.AnimatorData{}))
	require.NoError(t, loader.Add(definition("hero")))

	loader.Remove("hero")
	_, err = loader.Load(context.Background(), "hero")
	assert.ErrorIs(t, err, domain.ErrAnimatorNotFound)
}
