package box

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// AtomType describes the kind of a leaf atom.
type AtomType struct {
	Name string
	Mass float64
}

// Atom is a leaf particle owned by exactly one Molecule.
//
// The leaf index is assigned and maintained by the Box holding the parent
// molecule; it is -1 while the atom is not in a box.
type Atom struct {
	leafIndex int
	index     int
	parent    *Molecule
	atomType  *AtomType

	Position r3.Vec
	Velocity r3.Vec
}

// LeafIndex is the atom's position in its box's leaf list, or -1.
func (a *Atom) LeafIndex() int { return a.leafIndex }

// Index is the atom's position within its parent molecule.
func (a *Atom) Index() int { return a.index }

func (a *Atom) Parent() *Molecule { return a.parent }

func (a *Atom) Type() *AtomType { return a.atomType }

func (a *Atom) String() string {
	name := "?"
	if a.atomType != nil {
		name = a.atomType.Name
	}
	return fmt.Sprintf("Atom(%s leaf=%d)", name, a.leafIndex)
}

// Molecule is a group of atoms belonging to one Species.
//
// The molecule index is the molecule's position in its species' list within
// the box; it is -1 while the molecule is not in a box.
type Molecule struct {
	index   int
	species Species
	atoms   []*Atom
}

// NewMolecule creates a detached molecule of species with one child atom per
// entry in types. Species implementations call it from MakeMolecule.
func NewMolecule(species Species, types ...*AtomType) *Molecule {
	m := &Molecule{
		index:   -1,
		species: species,
		atoms:   make([]*Atom, 0, len(types)),
	}
	for _, t := range types {
		m.AddAtom(t)
	}
	return m
}

// AddAtom appends a child atom of type t. It must not be called while the
// molecule is in a box.
func (m *Molecule) AddAtom(t *AtomType) *Atom {
	a := &Atom{
		leafIndex: -1,
		index:     len(m.atoms),
		parent:    m,
		atomType:  t,
	}
	m.atoms = append(m.atoms, a)
	return a
}

// Index is the molecule's position within its species list, or -1.
func (m *Molecule) Index() int { return m.index }

func (m *Molecule) Species() Species { return m.species }

// Atoms returns the child atoms. The slice is owned by the molecule.
func (m *Molecule) Atoms() []*Atom { return m.atoms }

func (m *Molecule) Atom(i int) *Atom { return m.atoms[i] }

func (m *Molecule) NumAtoms() int { return len(m.atoms) }

func (m *Molecule) String() string {
	s := -1
	if m.species != nil {
		s = m.species.Index()
	}
	return fmt.Sprintf("Molecule(species=%d index=%d)", s, m.index)
}

// clone makes a detached copy with the same species, atom types and
// coordinates.
func (m *Molecule) clone() *Molecule {
	c := &Molecule{
		index:   -1,
		species: m.species,
		atoms:   make([]*Atom, 0, len(m.atoms)),
	}
	for _, a := range m.atoms {
		ca := c.AddAtom(a.atomType)
		ca.Position = a.Position
		ca.Velocity = a.Velocity
	}
	return c
}

// Species is a factory for molecules sharing one topology. The index is
// assigned by the owning simulation and selects the box's molecule list.
type Species interface {
	Index() int
	MakeMolecule() *Molecule
}
