package box

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddListenerRejectsNilAndDuplicates(t *testing.T) {
	b, _ := newTestBox(t, 1)
	em := b.EventManager()

	assert.ErrorIs(t, em.AddListener(nil), ErrInvalidArgument)
	r := &recorder{}
	require.NoError(t, em.AddListener(r))
	assert.ErrorIs(t, em.AddListener(r), ErrDuplicateRegistration)
	assert.Equal(t, 1, em.Len())

	em.RemoveListener(&recorder{})
	assert.Equal(t, 1, em.Len())
	em.RemoveListener(r)
	assert.Equal(t, 0, em.Len())
}

func TestListenersNotifiedInRegistrationOrder(t *testing.T) {
	b, sp := newTestBox(t, 1)
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, b.EventManager().AddListener(&ListenerFuncs{
			OnMoleculeAdded: func(MoleculeEvent) error {
				order = append(order, name)
				return nil
			},
		}))
	}
	addMolecules(t, b, sp[0], 1)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestListenerRemovesItselfDuringDelivery(t *testing.T) {
	b, sp := newTestBox(t, 1)
	em := b.EventManager()

	calls := 0
	self := &ListenerFuncs{}
	self.OnMoleculeAdded = func(MoleculeEvent) error {
		calls++
		em.RemoveListener(self)
		return nil
	}
	require.NoError(t, em.AddListener(self))
	after := record(t, b)

	addMolecules(t, b, sp[0], 2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"added s0 m0", "added s0 m1"}, after.events)
	assert.Equal(t, 1, em.Len())
}

func TestListenerAddsAnotherDuringDelivery(t *testing.T) {
	b, sp := newTestBox(t, 1)
	em := b.EventManager()

	late := &recorder{}
	adder := &ListenerFuncs{}
	adder.OnMoleculeAdded = func(MoleculeEvent) error {
		if em.Len() == 1 {
			return em.AddListener(late)
		}
		return nil
	}
	require.NoError(t, em.AddListener(adder))

	addMolecules(t, b, sp[0], 2)
	assert.Equal(t, []string{"added s0 m1"}, late.events)
}

func TestRemovedMoleculeKeepsIndexDuringDelivery(t *testing.T) {
	b, sp := newTestBox(t, 2)
	m := addMolecules(t, b, sp[0], 3)

	var leaves []int
	require.NoError(t, b.EventManager().AddListener(&ListenerFuncs{
		OnMoleculeRemoved: func(e MoleculeEvent) error {
			assert.Equal(t, 1, e.Molecule.Index())
			for _, a := range e.Molecule.Atoms() {
				leaves = append(leaves, a.LeafIndex())
			}
			return nil
		},
	}))
	require.NoError(t, b.RemoveMolecule(m[1]))
	assert.Equal(t, []int{2, 3}, leaves)
}

func TestNopListener(t *testing.T) {
	type partial struct {
		NopListener
		id int
	}
	b, sp := newTestBox(t, 1)
	require.NoError(t, b.EventManager().AddListener(&partial{id: 1}))
	require.NoError(t, b.SetNMolecules(sp[0], 3))
	require.NoError(t, b.SetNMolecules(sp[0], 0))
}
