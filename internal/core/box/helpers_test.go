package box

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	carbon   = &AtomType{Name: "C", Mass: 12.011}
	hydrogen = &AtomType{Name: "H", Mass: 1.008}
)

// testSpecies makes molecules with one atom per type.
type testSpecies struct {
	index int
	types []*AtomType
	made  int
}

func (s *testSpecies) Index() int { return s.index }

func (s *testSpecies) MakeMolecule() *Molecule {
	s.made++
	return NewMolecule(s, s.types...)
}

// newTestBox returns a debug box of edge 10 with one species per entry of
// atomCounts, species i having atomCounts[i] atoms per molecule.
func newTestBox(t testing.TB, atomCounts ...int) (*Box, []*testSpecies) {
	t.Helper()
	boundary, err := NewCubic(10)
	require.NoError(t, err)
	b := New(boundary, WithDebug(true))
	all := make([]*testSpecies, len(atomCounts))
	for i, n := range atomCounts {
		types := make([]*AtomType, n)
		for j := range types {
			types[j] = carbon
			if j > 0 {
				types[j] = hydrogen
			}
		}
		all[i] = &testSpecies{index: i, types: types}
		require.NoError(t, b.AddSpeciesNotify(all[i]))
	}
	return b, all
}

func addMolecules(t testing.TB, b *Box, s *testSpecies, n int) []*Molecule {
	t.Helper()
	out := make([]*Molecule, n)
	for i := range out {
		out[i] = s.MakeMolecule()
		require.NoError(t, b.AddMolecule(out[i]))
	}
	return out
}

// recorder logs every notification as a short string.
type recorder struct {
	events []string
}

func (r *recorder) MoleculeAdded(e MoleculeEvent) error {
	r.events = append(r.events, fmt.Sprintf("added s%d m%d", e.Molecule.Species().Index(), e.Molecule.Index()))
	return nil
}

func (r *recorder) MoleculeRemoved(e MoleculeEvent) error {
	r.events = append(r.events, fmt.Sprintf("removed s%d m%d", e.Molecule.Species().Index(), e.Molecule.Index()))
	return nil
}

func (r *recorder) MoleculeIndexChanged(e MoleculeIndexEvent) error {
	r.events = append(r.events, fmt.Sprintf("index s%d %d->%d", e.Molecule.Species().Index(), e.OldIndex, e.Molecule.Index()))
	return nil
}

func (r *recorder) AtomLeafIndexChanged(e AtomIndexEvent) error {
	r.events = append(r.events, fmt.Sprintf("leaf %d->%d", e.OldIndex, e.Atom.LeafIndex()))
	return nil
}

func (r *recorder) GlobalAtomLeafIndexChanged(e LeafCountEvent) error {
	r.events = append(r.events, fmt.Sprintf("leafcount %d", e.MaxIndex))
	return nil
}

func (r *recorder) NumberMoleculesChanged(e MoleculeCountEvent) error {
	r.events = append(r.events, fmt.Sprintf("count s%d %d", e.Species.Index(), e.Count))
	return nil
}

func (r *recorder) reset() { r.events = nil }

func record(t testing.TB, b *Box) *recorder {
	t.Helper()
	r := &recorder{}
	require.NoError(t, b.EventManager().AddListener(r))
	return r
}
