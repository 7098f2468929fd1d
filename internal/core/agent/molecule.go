package agent

import (
	"fmt"
	"slices"

	"github.com/etomica/etomica/internal/core/box"
	"github.com/etomica/etomica/internal/core/observability/log"
)

// MoleculeAgentManager keeps one agent per molecule of a box, stored per
// species in slots that follow the molecule indices.
type MoleculeAgentManager[A any] struct {
	box.NopListener

	box     *box.Box
	factory func(*box.Molecule) A
	release func(A)
	agents  map[box.Species][]A
	logger  log.Log
}

// NewMoleculeAgentManager creates agents for the molecules already in b and
// registers with b's event manager. release may be nil.
func NewMoleculeAgentManager[A any](b *box.Box, factory func(*box.Molecule) A, release func(A), opts ...Option) (*MoleculeAgentManager[A], error) {
	if b == nil || factory == nil {
		return nil, fmt.Errorf("%w: molecule agent manager needs a box and a factory", box.ErrInvalidArgument)
	}
	if release == nil {
		release = func(A) {}
	}
	o := buildOptions(opts)
	m := &MoleculeAgentManager[A]{
		box:     b,
		factory: factory,
		release: release,
		agents:  make(map[box.Species][]A),
		logger:  o.logger,
	}
	for _, mol := range b.Molecules().All() {
		m.put(mol, factory(mol))
	}
	if err := b.EventManager().AddListener(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Agent returns the agent of mol. The second result is false if mol is not
// in the managed box.
func (m *MoleculeAgentManager[A]) Agent(mol *box.Molecule) (A, bool) {
	var zero A
	if !m.holds(mol) {
		return zero, false
	}
	slots := m.agents[mol.Species()]
	if mol.Index() >= len(slots) {
		return zero, false
	}
	return slots[mol.Index()], true
}

// SetAgent replaces the agent of mol without releasing the previous one.
func (m *MoleculeAgentManager[A]) SetAgent(mol *box.Molecule, a A) error {
	if !m.holds(mol) {
		return fmt.Errorf("%w: %v is not in %v", box.ErrInvalidArgument, mol, m.box)
	}
	m.put(mol, a)
	return nil
}

func (m *MoleculeAgentManager[A]) NumberMoleculesChanged(e box.MoleculeCountEvent) error {
	if slots := m.agents[e.Species]; e.Count > len(slots) {
		m.agents[e.Species] = slices.Grow(slots, e.Count-len(slots))
	}
	return nil
}

func (m *MoleculeAgentManager[A]) MoleculeAdded(e box.MoleculeEvent) error {
	m.put(e.Molecule, m.factory(e.Molecule))
	return nil
}

// MoleculeIndexChanged follows the swap that filled the removed molecule's
// slot: the removed agent ends up in the last slot.
func (m *MoleculeAgentManager[A]) MoleculeIndexChanged(e box.MoleculeIndexEvent) error {
	slots := m.agents[e.Molecule.Species()]
	to := e.Molecule.Index()
	if e.OldIndex >= len(slots) || to >= len(slots) {
		return fmt.Errorf("%w: no agent slot for %v (old index %d)", box.ErrIllegalState, e.Molecule, e.OldIndex)
	}
	slots[to], slots[e.OldIndex] = slots[e.OldIndex], slots[to]
	return nil
}

// MoleculeRemoved releases the agent in the slot one past the species'
// remaining molecules, where the removed molecule's agent always sits by
// now.
func (m *MoleculeAgentManager[A]) MoleculeRemoved(e box.MoleculeEvent) error {
	sp := e.Molecule.Species()
	slots := m.agents[sp]
	n := e.Box.NMolecules(sp)
	if n >= len(slots) {
		return nil
	}
	m.release(slots[n])
	clear(slots[n:])
	m.agents[sp] = slots[:n]
	return nil
}

// Dispose unregisters from the box and releases every agent.
func (m *MoleculeAgentManager[A]) Dispose() {
	m.box.EventManager().RemoveListener(m)
	for _, slots := range m.agents {
		for _, a := range slots {
			m.release(a)
		}
	}
	clear(m.agents)
	m.logger.Debug("molecule agents disposed", log.Int("box", m.box.Index()))
}

func (m *MoleculeAgentManager[A]) put(mol *box.Molecule, a A) {
	sp := mol.Species()
	slots := m.agents[sp]
	if i := mol.Index(); i >= len(slots) {
		slots = append(slots, make([]A, i+1-len(slots))...)
	}
	slots[mol.Index()] = a
	m.agents[sp] = slots
}

func (m *MoleculeAgentManager[A]) holds(mol *box.Molecule) bool {
	if mol == nil || mol.Index() < 0 {
		return false
	}
	list, err := m.box.MoleculeList(mol.Species())
	if err != nil || mol.Index() >= list.Len() {
		return false
	}
	return list.At(mol.Index()) == mol
}
