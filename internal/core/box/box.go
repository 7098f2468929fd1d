package box

import (
	"fmt"
	"math"

	"github.com/etomica/etomica/internal/core/observability/log"
	"github.com/etomica/etomica/pkg/generic"
)

// Debug turns on the O(n) consistency checks after every mutation of every
// box. Individual boxes can also enable them with WithDebug.
var Debug = false

// Box holds the molecules of one simulated system.
//
// Molecules are kept per species in dense lists where a molecule's index
// always equals its position. Every child atom also appears in a flattened
// leaf list where an atom's leaf index always equals its position. Removal
// fills the vacated slot with the last element; the relocation is announced
// through the EventManager so dependent caches can follow.
//
// A Box is not safe for concurrent use. All mutation and event delivery
// happen on the calling goroutine and callers must synchronize externally.
type Box struct {
	index         int
	boundary      Boundary
	moleculeLists []*generic.DenseList[*Molecule]
	leafList      *generic.DenseList[*Atom]
	allMolecules  *AllMolecules
	events        *EventManager
	inflater      Inflater
	logger        log.Log
	debug         bool
}

type Option func(*Box)

func WithLogger(logger log.Log) Option {
	return func(b *Box) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDebug enables consistency verification after every mutation.
func WithDebug(debug bool) Option {
	return func(b *Box) { b.debug = debug }
}

// WithInflater replaces the action SetDensity uses to rescale coordinates.
func WithInflater(inflater Inflater) Option {
	return func(b *Box) {
		if inflater != nil {
			b.inflater = inflater
		}
	}
}

// New creates an empty box with no species registered. The box index stays
// -1 until a simulation registers the box.
func New(boundary Boundary, opts ...Option) *Box {
	b := &Box{
		index:        -1,
		leafList:     generic.NewDenseList[*Atom](0),
		allMolecules: newAllMolecules(),
		inflater:     MoleculeInflater{},
		logger:       log.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.events = newEventManager(b, b.logger)
	b.SetBoundary(boundary)
	return b
}

// Index is the box index assigned by the owning simulation, or -1.
func (b *Box) Index() int { return b.index }

// SetIndex is called by the owning simulation when it registers the box or
// renumbers it after another box is removed.
func (b *Box) SetIndex(i int) { b.index = i }

func (b *Box) Boundary() Boundary { return b.boundary }

func (b *Box) SetBoundary(boundary Boundary) {
	b.boundary = boundary
	if boundary != nil {
		boundary.SetBox(b)
	}
}

func (b *Box) EventManager() *EventManager { return b.events }

func (b *Box) Logger() log.Log { return b.logger }

// NumSpecies reports how many species lists the box holds.
func (b *Box) NumSpecies() int { return len(b.moleculeLists) }

// NMolecules returns the number of molecules of species s.
func (b *Box) NMolecules(s Species) int {
	l, err := b.speciesList(s)
	if err != nil {
		return 0
	}
	return l.Len()
}

// MoleculeList returns the dense list for species s. The list is owned by
// the box and must not be mutated by callers.
func (b *Box) MoleculeList(s Species) (*generic.DenseList[*Molecule], error) {
	return b.speciesList(s)
}

// Molecules returns the view over all molecules of all species.
func (b *Box) Molecules() *AllMolecules { return b.allMolecules }

// LeafList returns the flattened list of leaf atoms. The list is owned by
// the box and must not be mutated by callers.
func (b *Box) LeafList() *generic.DenseList[*Atom] { return b.leafList }

func (b *Box) String() string { return fmt.Sprintf("Box[%d]", b.index) }

// AddMolecule appends m to its species list and its atoms to the leaf list,
// then fires MoleculeAdded.
func (b *Box) AddMolecule(m *Molecule) error {
	if m == nil {
		return fmt.Errorf("%w: nil molecule", ErrInvalidArgument)
	}
	list, err := b.speciesList(m.species)
	if err != nil {
		return err
	}
	if b.debugging() && list.Contains(m) {
		return fmt.Errorf("%w: %v already in %v", ErrDuplicateRegistration, m, b)
	}

	m.index = list.Len()
	list.Add(m)
	b.allMolecules.setMoleculeLists(b.moleculeLists)

	for _, a := range m.atoms {
		a.leafIndex = b.leafList.Len()
		b.leafList.Add(a)
	}

	if err = b.events.fireMoleculeAdded(m); err != nil {
		return err
	}
	return b.verifyIfDebugging()
}

// RemoveMolecule removes m from the box. If m was not last in its species
// list, the last molecule takes its slot and MoleculeIndexChanged fires for
// it. MoleculeRemoved fires next, and then each child atom leaves the leaf
// list the same way, firing AtomLeafIndexChanged for every atom moved into a
// vacated slot.
//
// The removed molecule keeps its old index while the events are delivered;
// afterwards it and its atoms report -1.
func (b *Box) RemoveMolecule(m *Molecule) error {
	if m == nil {
		return fmt.Errorf("%w: nil molecule", ErrInvalidArgument)
	}
	list, err := b.speciesList(m.species)
	if err != nil {
		return err
	}
	index := m.index
	if found, getErr := list.Get(index); getErr != nil || found != m {
		return fmt.Errorf("%w: can't find %v in %v", ErrInvalidArgument, m, b)
	}

	if index < list.Len()-1 {
		_, moved, _ := list.RemoveAndReplace(index)
		oldIndex := moved.index
		moved.index = index
		if err = b.events.fireMoleculeIndexChanged(moved, oldIndex); err != nil {
			return err
		}
	} else if _, err = list.Remove(index); err != nil {
		return err
	}
	b.allMolecules.setMoleculeLists(b.moleculeLists)

	if err = b.events.fireMoleculeRemoved(m); err != nil {
		return err
	}

	for _, a := range m.atoms {
		leafIndex := a.leafIndex
		_, moved, removeErr := b.leafList.RemoveAndReplace(leafIndex)
		if removeErr != nil {
			return fmt.Errorf("%w: atom %v of %v: %w", ErrIllegalState, a, m, removeErr)
		}
		a.leafIndex = -1
		if moved == nil {
			continue
		}
		oldIndex := moved.leafIndex
		moved.leafIndex = leafIndex
		if err = b.events.fireAtomLeafIndexChanged(moved, oldIndex); err != nil {
			return err
		}
	}
	b.leafList.MaybeTrimToSize()
	m.index = -1

	return b.verifyIfDebugging()
}

// SetNMolecules adds or removes molecules of species s until the box holds
// exactly n of them. The advisory NumberMoleculesChanged and, when growing,
// GlobalAtomLeafIndexChanged events fire before anything changes. Removal
// proceeds from the tail so no swap is needed.
func (b *Box) SetNMolecules(s Species, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: number of molecules cannot be negative (%d)", ErrInvalidArgument, n)
	}
	list, err := b.speciesList(s)
	if err != nil {
		return err
	}
	current := list.Len()
	if n == current {
		return nil
	}

	var template *Molecule
	atomsPerMolecule := 0
	if current > 0 {
		atomsPerMolecule = list.At(0).NumAtoms()
	} else {
		template = s.MakeMolecule()
		if template == nil {
			return fmt.Errorf("%w: species %d made a nil molecule", ErrIllegalState, s.Index())
		}
		atomsPerMolecule = template.NumAtoms()
	}

	if err = b.events.fireNumberMoleculesChanged(s, n); err != nil {
		return err
	}
	if n > current {
		leafCount := b.leafList.Len() + (n-current)*atomsPerMolecule
		if err = b.events.fireGlobalAtomLeafIndexChanged(leafCount); err != nil {
			return err
		}
		list.EnsureCapacity(n)
		b.leafList.EnsureCapacity(leafCount)
	}

	for i := current; i < n; i++ {
		m := template
		template = nil
		if m == nil {
			m = s.MakeMolecule()
		}
		if err = b.AddMolecule(m); err != nil {
			return err
		}
	}
	for i := current - 1; i >= n; i-- {
		if err = b.RemoveMolecule(list.At(i)); err != nil {
			return err
		}
	}

	b.logger.Debug("molecule count set", log.Int("box", b.index),
		log.Int("species", s.Index()), log.Int("from", current), log.Int("to", n))
	return nil
}

// SetDensity rescales the box so that it holds rho molecules per unit
// volume. The linear scale factor is (N/rho/V)^(1/D); moving the
// coordinates is delegated to the box's Inflater.
func (b *Box) SetDensity(rho float64) error {
	if rho <= 0 || math.IsNaN(rho) || math.IsInf(rho, 0) {
		return fmt.Errorf("%w: density must be positive and finite (%g)", ErrInvalidArgument, rho)
	}
	if b.boundary == nil {
		return fmt.Errorf("%w: %v has no boundary", ErrIllegalState, b)
	}
	n := b.allMolecules.Len()
	if n == 0 {
		return fmt.Errorf("%w: cannot set density of empty %v", ErrInvalidArgument, b)
	}
	volume := b.boundary.Volume()
	if volume <= 0 {
		return fmt.Errorf("%w: %v has non-positive volume %g", ErrIllegalState, b, volume)
	}
	scale := math.Pow(float64(n)/rho/volume, 1/float64(b.boundary.Dimension()))
	b.logger.Debug("setting density", log.Int("box", b.index),
		log.Float64("density", rho), log.Float64("scale", scale))
	return b.inflater.Inflate(b, scale)
}

// AddSpeciesNotify adds an empty molecule list for s. Species must be
// announced in index order.
func (b *Box) AddSpeciesNotify(s Species) error {
	if s == nil {
		return fmt.Errorf("%w: nil species", ErrInvalidArgument)
	}
	if s.Index() != len(b.moleculeLists) {
		return fmt.Errorf("%w: species index %d, expected %d", ErrInvalidArgument, s.Index(), len(b.moleculeLists))
	}
	b.moleculeLists = append(b.moleculeLists, generic.NewDenseList[*Molecule](0))
	b.allMolecules.setMoleculeLists(b.moleculeLists)
	return nil
}

// RemoveSpeciesNotify drops the molecule list of s; later lists shift down
// by one. Callers must remove the species' molecules first.
func (b *Box) RemoveSpeciesNotify(s Species) error {
	if s == nil {
		return fmt.Errorf("%w: nil species", ErrInvalidArgument)
	}
	i := s.Index()
	if i < 0 || i >= len(b.moleculeLists) {
		return fmt.Errorf("%w: species %d, registered %d", ErrIndexOutOfRange, i, len(b.moleculeLists))
	}
	if n := b.moleculeLists[i].Len(); n > 0 {
		b.logger.Warn("removing species that still has molecules",
			log.Int("box", b.index), log.Int("species", i), log.Int("molecules", n))
	}
	lists := make([]*generic.DenseList[*Molecule], 0, len(b.moleculeLists)-1)
	lists = append(lists, b.moleculeLists[:i]...)
	b.moleculeLists = append(lists, b.moleculeLists[i+1:]...)
	b.allMolecules.setMoleculeLists(b.moleculeLists)
	return nil
}

func (b *Box) speciesList(s Species) (*generic.DenseList[*Molecule], error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil species", ErrInvalidArgument)
	}
	i := s.Index()
	if i < 0 || i >= len(b.moleculeLists) {
		return nil, fmt.Errorf("%w: species %d in %v", ErrSpeciesNotRegistered, i, b)
	}
	return b.moleculeLists[i], nil
}

func (b *Box) debugging() bool { return b.debug || Debug }

func (b *Box) verifyIfDebugging() error {
	if !b.debugging() {
		return nil
	}
	return Verify(b)
}
