package species

import (
	"fmt"

	"github.com/etomica/etomica/internal/core/box"
	"gonum.org/v1/gonum/spatial/r3"
)

// Site is one atom of a species template.
type Site struct {
	Type     *box.AtomType
	Position r3.Vec
}

// Template is a species whose molecules are copies of a fixed list of
// sites. Its index is assigned by the simulation it is registered with.
type Template struct {
	name  string
	index int
	sites []Site
}

var _ box.Species = (*Template)(nil)

// New creates an unregistered species from sites.
func New(name string, sites ...Site) (*Template, error) {
	if len(sites) == 0 {
		return nil, fmt.Errorf("%w: species %q has no atoms", box.ErrInvalidArgument, name)
	}
	for i, s := range sites {
		if s.Type == nil {
			return nil, fmt.Errorf("%w: species %q site %d has no atom type", box.ErrInvalidArgument, name, i)
		}
	}
	return &Template{
		name:  name,
		index: -1,
		sites: append([]Site(nil), sites...),
	}, nil
}

// Monatomic creates a species of single-atom molecules.
func Monatomic(name string, t *box.AtomType) (*Template, error) {
	return New(name, Site{Type: t})
}

func (t *Template) Name() string { return t.name }

// Index is the simulation-assigned species index, or -1.
func (t *Template) Index() int { return t.index }

// SetIndex is called by the simulation that owns the species.
func (t *Template) SetIndex(i int) { t.index = i }

func (t *Template) AtomsPerMolecule() int { return len(t.sites) }

func (t *Template) Sites() []Site { return t.sites }

// MakeMolecule builds a detached molecule with atoms at the template
// positions.
func (t *Template) MakeMolecule() *box.Molecule {
	m := box.NewMolecule(t)
	for _, s := range t.sites {
		a := m.AddAtom(s.Type)
		a.Position = s.Position
	}
	return m
}

func (t *Template) String() string {
	return fmt.Sprintf("Species(%s #%d)", t.name, t.index)
}
