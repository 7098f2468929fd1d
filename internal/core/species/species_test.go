package species

import (
	"testing"

	"github.com/etomica/etomica/internal/core/box"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMakeMoleculeCopiesSites(t *testing.T) {
	o := &box.AtomType{Name: "O", Mass: 15.999}
	h := &box.AtomType{Name: "H", Mass: 1.008}
	water, err := New("water",
		Site{Type: o},
		Site{Type: h, Position: r3.Vec{X: 0.9572}},
		Site{Type: h, Position: r3.Vec{X: -0.24, Y: 0.927}},
	)
	require.NoError(t, err)
	water.SetIndex(2)

	m := water.MakeMolecule()
	require.Equal(t, 3, m.NumAtoms())
	assert.Equal(t, water, m.Species())
	assert.Equal(t, -1, m.Index())
	assert.Equal(t, h, m.Atom(1).Type())
	assert.Equal(t, r3.Vec{X: 0.9572}, m.Atom(1).Position)
	assert.Equal(t, 2, m.Atom(2).Index())
	assert.Equal(t, -1, m.Atom(2).LeafIndex())
	assert.Same(t, m, m.Atom(0).Parent())

	other := water.MakeMolecule()
	other.Atom(0).Position = r3.Vec{X: 5}
	assert.Equal(t, r3.Vec{}, m.Atom(0).Position)
}

func TestNewRejectsEmptySpecies(t *testing.T) {
	_, err := New("nothing")
	assert.ErrorIs(t, err, box.ErrInvalidArgument)

	_, err = New("untyped", Site{})
	assert.ErrorIs(t, err, box.ErrInvalidArgument)
}

func TestMonatomic(t *testing.T) {
	ar, err := Monatomic("argon", &box.AtomType{Name: "Ar"})
	require.NoError(t, err)
	assert.Equal(t, 1, ar.AtomsPerMolecule())
	assert.Equal(t, -1, ar.Index())
	assert.Equal(t, "argon", ar.Name())
}
