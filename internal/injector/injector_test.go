package injector

import (
	"testing"

	"github.com/etomica/etomica/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeSimulation(t *testing.T) {
	cfg := &config.Config{
		AtomTypes: []config.AtomTypeConfig{{Name: "Ar", Mass: 39.948}},
		Species: []config.SpeciesConfig{
			{Name: "argon", Atoms: []config.SiteConfig{{Type: "Ar"}}},
		},
		Boxes: []config.BoxConfig{{
			Size:      []float64{8, 8, 8},
			Molecules: []config.MoleculeConfig{{Species: "argon", Count: 12}},
		}},
	}

	sim, err := InitializeSimulation(cfg)
	require.NoError(t, err)
	require.Equal(t, 1, sim.NumBoxes())
	b, err := sim.Box(0)
	require.NoError(t, err)
	assert.Equal(t, 12, b.LeafList().Len())
	assert.NotNil(t, sim.Logger())

	cfg.Boxes[0].Size = nil
	_, err = InitializeSimulation(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
