package ports

import (
	"context"
	"testing"

	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLoaderContract runs a suite of tests to verify that a DefinitionLoader
// implementation adheres to the defined interface contract. The loader must
// already contain exactly the definitions in seeded.
func RunLoaderContract(t *testing.T, loader DefinitionLoader, seeded map[string]domain.AnimatorData) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		for name, want := range seeded {
			got, err := loader.Load(ctx, name)
			require.NoError(t, err, "Load(%q)", name)
			require.NotNil(t, got)
			assert.Equal(t, want.Name, got.Name)
			assert.Len(t, got.Parameters, len(want.Parameters))
			require.Len(t, got.Layers, len(want.Layers))
			for i := range want.Layers {
				assert.Equal(t, want.Layers[i].DefaultState, got.Layers[i].DefaultState)
				assert.Len(t, got.Layers[i].States, len(want.Layers[i].States))
			}
		}
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-animator")
		assert.ErrorIs(t, err, domain.ErrAnimatorNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		require.NoError(t, err)
		assert.Len(t, names, len(seeded))
		for name := range seeded {
			assert.Contains(t, names, name)
		}
		assert.IsNonDecreasing(t, names, "List must be sorted")
	})
}

// RunStoreContract verifies the write path of a DefinitionStore. The store
// must start empty.
func RunStoreContract(t *testing.T, store DefinitionStore) {
	t.Helper()
	ctx := context.Background()

	def := &domain.AnimatorData{
		Name:       "contract-door",
		Parameters: []domain.ParameterData{{Name: "open", Type: domain.ParameterBool}},
		Layers: []domain.LayerData{{
			DefaultState: "Closed",
			States: []domain.StateData{
				{Name: "Closed", Length: 1, Speed: 1, Transitions: []domain.TransitionData{{
					ToState:    "Open",
					Conditions: []domain.ConditionData{{Parameter: "open", Mode: domain.ConditionIf}},
					Duration:   0.25,
				}}},
				{Name: "Open", Length: 1, Speed: 1},
			},
		}},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, def))

		got, err := store.Load(ctx, def.Name)
		require.NoError(t, err)
		assert.Equal(t, def.Name, got.Name)
		require.Len(t, got.Layers, 1)
		assert.Equal(t, "Closed", got.Layers[0].DefaultState)
		require.Len(t, got.Layers[0].States, 2)
		require.Len(t, got.Layers[0].States[0].Transitions, 1)
		assert.Equal(t, def.Layers[0].States[0].Transitions[0], got.Layers[0].States[0].Transitions[0])
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		updated := *def
		updated.Parameters = append([]domain.ParameterData{}, def.Parameters...)
		updated.Parameters = append(updated.Parameters, domain.ParameterData{Name: "locked", Type: domain.ParameterBool})
		require.NoError(t, store.Save(ctx, &updated))

		got, err := store.Load(ctx, def.Name)
		require.NoError(t, err)
		assert.Len(t, got.Parameters, 2)

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{def.Name}, names)
	})
}
