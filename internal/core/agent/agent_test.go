package agent

import (
	"testing"

	"github.com/etomica/etomica/internal/core/box"
	"github.com/etomica/etomica/internal/core/simulation"
	"github.com/etomica/etomica/internal/core/species"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	sim    *simulation.Simulation
	box    *box.Box
	dimer  *species.Template
	single *species.Template
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ar := &box.AtomType{Name: "Ar", Mass: 39.948}
	dimer, err := species.New("dimer", species.Site{Type: ar}, species.Site{Type: ar})
	require.NoError(t, err)
	single, err := species.Monatomic("argon", ar)
	require.NoError(t, err)

	sim := simulation.New()
	require.NoError(t, sim.AddSpecies(dimer))
	require.NoError(t, sim.AddSpecies(single))
	b := newBox(t)
	require.NoError(t, sim.AddBox(b))
	return &fixture{sim: sim, box: b, dimer: dimer, single: single}
}

func newBox(t *testing.T) *box.Box {
	t.Helper()
	boundary, err := box.NewCubic(10)
	require.NoError(t, err)
	return box.New(boundary, box.WithDebug(true))
}

type boxAgent struct{ box *box.Box }

func TestBoxAgentManagerFollowsLifecycle(t *testing.T) {
	f := newFixture(t)
	second := newBox(t)
	require.NoError(t, f.sim.AddBox(second))

	var released []*boxAgent
	m, err := NewBoxAgentManager(f.sim,
		func(b *box.Box) *boxAgent { return &boxAgent{box: b} },
		func(a *boxAgent) { released = append(released, a) })
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	third := newBox(t)
	require.NoError(t, f.sim.AddBox(third))
	a, ok := m.Agent(third)
	require.True(t, ok)
	assert.Same(t, third, a.box)

	require.NoError(t, f.sim.RemoveBox(f.box))
	require.Len(t, released, 1)
	assert.Same(t, f.box, released[0].box)
	_, ok = m.Agent(f.box)
	assert.False(t, ok)

	for _, b := range []*box.Box{second, third} {
		a, ok := m.Agent(b)
		require.True(t, ok, "agent of %v", b)
		assert.Same(t, b, a.box)
	}

	m.Dispose()
	assert.Len(t, released, 3)
	assert.Equal(t, 0, m.Len())

	require.NoError(t, f.sim.AddBox(newBox(t)))
	assert.Equal(t, 0, m.Len())
}

func TestBoxAgentManagerSetAgent(t *testing.T) {
	f := newFixture(t)
	m, err := NewBoxAgentManager(f.sim, func(*box.Box) int { return 1 }, nil)
	require.NoError(t, err)

	require.NoError(t, m.SetAgent(f.box, 7))
	v, ok := m.Agent(f.box)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	assert.ErrorIs(t, m.SetAgent(newBox(t), 3), box.ErrInvalidArgument)
	_, ok = m.Agent(nil)
	assert.False(t, ok)
}

func TestNewManagersRejectMissingArguments(t *testing.T) {
	_, err := NewBoxAgentManager[int](nil, func(*box.Box) int { return 0 }, nil)
	assert.ErrorIs(t, err, box.ErrInvalidArgument)
	_, err = NewMoleculeAgentManager[int](newBox(t), nil, nil)
	assert.ErrorIs(t, err, box.ErrInvalidArgument)
	_, err = NewAtomLeafAgentManager[int](nil, func(*box.Atom) int { return 0 }, nil)
	assert.ErrorIs(t, err, box.ErrInvalidArgument)
}

type moleculeAgent struct{ molecule *box.Molecule }

func assertMoleculeAgents(t *testing.T, b *box.Box, m *MoleculeAgentManager[*moleculeAgent]) {
	t.Helper()
	for _, mol := range b.Molecules().All() {
		a, ok := m.Agent(mol)
		require.True(t, ok, "agent of %v", mol)
		assert.Same(t, mol, a.molecule, "agent of %v", mol)
	}
}

func TestMoleculeAgentManagerTracksSwaps(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.box.SetNMolecules(f.dimer, 2))

	released := map[*box.Molecule]int{}
	m, err := NewMoleculeAgentManager(f.box,
		func(mol *box.Molecule) *moleculeAgent { return &moleculeAgent{molecule: mol} },
		func(a *moleculeAgent) { released[a.molecule]++ })
	require.NoError(t, err)
	assertMoleculeAgents(t, f.box, m)

	require.NoError(t, f.box.SetNMolecules(f.dimer, 5))
	require.NoError(t, f.box.SetNMolecules(f.single, 3))
	assertMoleculeAgents(t, f.box, m)

	dimers, err := f.box.MoleculeList(f.dimer)
	require.NoError(t, err)
	victim := dimers.At(1)
	require.NoError(t, f.box.RemoveMolecule(victim))
	assert.Equal(t, map[*box.Molecule]int{victim: 1}, released)
	_, ok := m.Agent(victim)
	assert.False(t, ok)
	assertMoleculeAgents(t, f.box, m)

	require.NoError(t, f.box.RemoveMolecule(dimers.At(dimers.Len()-1)))
	assert.Len(t, released, 2)
	assertMoleculeAgents(t, f.box, m)

	require.NoError(t, f.box.SetNMolecules(f.dimer, 0))
	assert.Len(t, released, 5)
	assertMoleculeAgents(t, f.box, m)

	m.Dispose()
	assert.Len(t, released, 8)
	for mol, n := range released {
		assert.Equal(t, 1, n, "released %v", mol)
	}
	assert.Equal(t, 0, f.box.EventManager().Len())
}

func TestMoleculeAgentManagerSetAgent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.box.SetNMolecules(f.single, 1))
	m, err := NewMoleculeAgentManager(f.box, func(*box.Molecule) string { return "made" }, nil)
	require.NoError(t, err)

	list, err := f.box.MoleculeList(f.single)
	require.NoError(t, err)
	require.NoError(t, m.SetAgent(list.At(0), "set"))
	v, ok := m.Agent(list.At(0))
	assert.True(t, ok)
	assert.Equal(t, "set", v)

	assert.ErrorIs(t, m.SetAgent(f.single.MakeMolecule(), "x"), box.ErrInvalidArgument)
}

type atomAgent struct{ atom *box.Atom }

func assertAtomAgents(t *testing.T, b *box.Box, m *AtomLeafAgentManager[*atomAgent]) {
	t.Helper()
	for i, atom := range b.LeafList().All() {
		a, ok := m.Agent(atom)
		require.True(t, ok, "agent of leaf %d", i)
		assert.Same(t, atom, a.atom, "agent of leaf %d", i)
	}
}

func TestAtomLeafAgentManagerTracksSwaps(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.box.SetNMolecules(f.dimer, 3))

	released := map[*box.Atom]int{}
	m, err := NewAtomLeafAgentManager(f.box,
		func(a *box.Atom) *atomAgent { return &atomAgent{atom: a} },
		func(a *atomAgent) { released[a.atom]++ })
	require.NoError(t, err)
	assertAtomAgents(t, f.box, m)

	require.NoError(t, f.box.SetNMolecules(f.single, 4))
	assertAtomAgents(t, f.box, m)

	dimers, err := f.box.MoleculeList(f.dimer)
	require.NoError(t, err)
	victim := dimers.At(0)
	atoms := victim.Atoms()
	require.NoError(t, f.box.RemoveMolecule(victim))
	assert.Len(t, released, 2)
	for _, a := range atoms {
		assert.Equal(t, 1, released[a])
		_, ok := m.Agent(a)
		assert.False(t, ok)
	}
	assertAtomAgents(t, f.box, m)

	singles, err := f.box.MoleculeList(f.single)
	require.NoError(t, err)
	require.NoError(t, f.box.RemoveMolecule(singles.At(singles.Len()-1)))
	require.NoError(t, f.box.RemoveMolecule(singles.At(0)))
	assert.Len(t, released, 4)
	assertAtomAgents(t, f.box, m)

	require.NoError(t, f.box.SetNMolecules(f.single, 6))
	assertAtomAgents(t, f.box, m)

	leaves := f.box.LeafList().Len()
	m.Dispose()
	assert.Len(t, released, 4+leaves)
	assert.Equal(t, 0, f.box.EventManager().Len())
}
