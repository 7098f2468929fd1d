package agent

import (
	"fmt"
	"slices"

	"github.com/etomica/etomica/internal/core/box"
	"github.com/etomica/etomica/internal/core/observability/log"
)

// AtomLeafAgentManager keeps one agent per leaf atom of a box in slots that
// follow the leaf indices.
type AtomLeafAgentManager[A any] struct {
	box.NopListener

	box     *box.Box
	factory func(*box.Atom) A
	release func(A)
	agents  []A
	logger  log.Log
}

// NewAtomLeafAgentManager creates agents for the atoms already in b and
// registers with b's event manager. release may be nil.
func NewAtomLeafAgentManager[A any](b *box.Box, factory func(*box.Atom) A, release func(A), opts ...Option) (*AtomLeafAgentManager[A], error) {
	if b == nil || factory == nil {
		return nil, fmt.Errorf("%w: atom agent manager needs a box and a factory", box.ErrInvalidArgument)
	}
	if release == nil {
		release = func(A) {}
	}
	o := buildOptions(opts)
	m := &AtomLeafAgentManager[A]{
		box:     b,
		factory: factory,
		release: release,
		agents:  make([]A, b.LeafList().Len()),
		logger:  o.logger,
	}
	for i, a := range b.LeafList().All() {
		if a != nil {
			m.agents[i] = factory(a)
		}
	}
	if err := b.EventManager().AddListener(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Agent returns the agent of a. The second result is false if a is not in
// the managed box.
func (m *AtomLeafAgentManager[A]) Agent(a *box.Atom) (A, bool) {
	var zero A
	if !m.holds(a) || a.LeafIndex() >= len(m.agents) {
		return zero, false
	}
	return m.agents[a.LeafIndex()], true
}

// SetAgent replaces the agent of a without releasing the previous one.
func (m *AtomLeafAgentManager[A]) SetAgent(a *box.Atom, agent A) error {
	if !m.holds(a) {
		return fmt.Errorf("%w: %v is not in %v", box.ErrInvalidArgument, a, m.box)
	}
	m.put(a.LeafIndex(), agent)
	return nil
}

func (m *AtomLeafAgentManager[A]) GlobalAtomLeafIndexChanged(e box.LeafCountEvent) error {
	if e.MaxIndex > len(m.agents) {
		m.agents = slices.Grow(m.agents, e.MaxIndex-len(m.agents))
	}
	return nil
}

func (m *AtomLeafAgentManager[A]) MoleculeAdded(e box.MoleculeEvent) error {
	for _, a := range e.Molecule.Atoms() {
		m.put(a.LeafIndex(), m.factory(a))
	}
	return nil
}

// MoleculeRemoved is delivered while the molecule's atoms still hold their
// leaf slots. Their agents are released here; the slots are then refilled by
// the AtomLeafIndexChanged events that follow.
func (m *AtomLeafAgentManager[A]) MoleculeRemoved(e box.MoleculeEvent) error {
	var zero A
	for _, a := range e.Molecule.Atoms() {
		if i := a.LeafIndex(); i >= 0 && i < len(m.agents) {
			m.release(m.agents[i])
			m.agents[i] = zero
		}
	}
	return nil
}

func (m *AtomLeafAgentManager[A]) AtomLeafIndexChanged(e box.AtomIndexEvent) error {
	var zero A
	to := e.Atom.LeafIndex()
	if need := max(to, e.OldIndex) + 1; need > len(m.agents) {
		m.agents = append(m.agents, make([]A, need-len(m.agents))...)
	}
	m.agents[to] = m.agents[e.OldIndex]
	m.agents[e.OldIndex] = zero
	if n := e.Box.LeafList().Len(); n < len(m.agents) {
		m.agents = m.agents[:n]
	}
	return nil
}

// Dispose unregisters from the box and releases every agent.
func (m *AtomLeafAgentManager[A]) Dispose() {
	m.box.EventManager().RemoveListener(m)
	n := min(len(m.agents), m.box.LeafList().Len())
	for _, a := range m.agents[:n] {
		m.release(a)
	}
	m.agents = nil
	m.logger.Debug("atom agents disposed", log.Int("box", m.box.Index()))
}

func (m *AtomLeafAgentManager[A]) put(i int, a A) {
	if i >= len(m.agents) {
		m.agents = append(m.agents, make([]A, i+1-len(m.agents))...)
	}
	m.agents[i] = a
}

func (m *AtomLeafAgentManager[A]) holds(a *box.Atom) bool {
	if a == nil || a.LeafIndex() < 0 || a.LeafIndex() >= m.box.LeafList().Len() {
		return false
	}
	return m.box.LeafList().At(a.LeafIndex()) == a
}
