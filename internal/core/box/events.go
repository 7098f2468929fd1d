package box

import (
	"fmt"

	"github.com/etomica/etomica/internal/core/observability/log"
)

// MoleculeEvent reports a molecule added to or removed from a box.
type MoleculeEvent struct {
	Box      *Box
	Molecule *Molecule
}

// MoleculeIndexEvent reports that a molecule was moved to fill the slot of a
// removed molecule. The new index is Molecule.Index().
type MoleculeIndexEvent struct {
	Box      *Box
	Molecule *Molecule
	OldIndex int
}

// AtomIndexEvent reports that a leaf atom was moved to fill the slot of a
// removed atom. The new index is Atom.LeafIndex().
type AtomIndexEvent struct {
	Box      *Box
	Atom     *Atom
	OldIndex int
}

// LeafCountEvent is advisory. It is fired before a bulk insertion with the
// number of leaf atoms the box is about to hold, so listeners can pre-size
// per-atom storage. The leaf list has not grown yet when it is delivered.
type LeafCountEvent struct {
	Box      *Box
	MaxIndex int
}

// MoleculeCountEvent is advisory. It is fired before a bulk resize of one
// species, announcing the target count.
type MoleculeCountEvent struct {
	Box     *Box
	Species Species
	Count   int
}

// Listener receives box notifications. Delivery is synchronous, on the
// goroutine mutating the box. A returned error aborts the mutation in
// progress and is handed back to its caller.
//
// Listeners are compared with == for registration, so implementations must
// be comparable; pointer receivers are the usual choice.
type Listener interface {
	MoleculeAdded(MoleculeEvent) error
	MoleculeRemoved(MoleculeEvent) error
	MoleculeIndexChanged(MoleculeIndexEvent) error
	AtomLeafIndexChanged(AtomIndexEvent) error
	GlobalAtomLeafIndexChanged(LeafCountEvent) error
	NumberMoleculesChanged(MoleculeCountEvent) error
}

// NopListener ignores every notification. Embed it to implement only the
// callbacks you need.
type NopListener struct{}

func (NopListener) MoleculeAdded(MoleculeEvent) error               { return nil }
func (NopListener) MoleculeRemoved(MoleculeEvent) error             { return nil }
func (NopListener) MoleculeIndexChanged(MoleculeIndexEvent) error   { return nil }
func (NopListener) AtomLeafIndexChanged(AtomIndexEvent) error       { return nil }
func (NopListener) GlobalAtomLeafIndexChanged(LeafCountEvent) error { return nil }
func (NopListener) NumberMoleculesChanged(MoleculeCountEvent) error { return nil }

// ListenerFuncs adapts optional callbacks to Listener. Register a pointer.
type ListenerFuncs struct {
	OnMoleculeAdded              func(MoleculeEvent) error
	OnMoleculeRemoved            func(MoleculeEvent) error
	OnMoleculeIndexChanged       func(MoleculeIndexEvent) error
	OnAtomLeafIndexChanged       func(AtomIndexEvent) error
	OnGlobalAtomLeafIndexChanged func(LeafCountEvent) error
	OnNumberMoleculesChanged     func(MoleculeCountEvent) error
}

var _ Listener = (*ListenerFuncs)(nil)

func (f *ListenerFuncs) MoleculeAdded(e MoleculeEvent) error {
	if f.OnMoleculeAdded == nil {
		return nil
	}
	return f.OnMoleculeAdded(e)
}

func (f *ListenerFuncs) MoleculeRemoved(e MoleculeEvent) error {
	if f.OnMoleculeRemoved == nil {
		return nil
	}
	return f.OnMoleculeRemoved(e)
}

func (f *ListenerFuncs) MoleculeIndexChanged(e MoleculeIndexEvent) error {
	if f.OnMoleculeIndexChanged == nil {
		return nil
	}
	return f.OnMoleculeIndexChanged(e)
}

func (f *ListenerFuncs) AtomLeafIndexChanged(e AtomIndexEvent) error {
	if f.OnAtomLeafIndexChanged == nil {
		return nil
	}
	return f.OnAtomLeafIndexChanged(e)
}

func (f *ListenerFuncs) GlobalAtomLeafIndexChanged(e LeafCountEvent) error {
	if f.OnGlobalAtomLeafIndexChanged == nil {
		return nil
	}
	return f.OnGlobalAtomLeafIndexChanged(e)
}

func (f *ListenerFuncs) NumberMoleculesChanged(e MoleculeCountEvent) error {
	if f.OnNumberMoleculesChanged == nil {
		return nil
	}
	return f.OnNumberMoleculesChanged(e)
}

// EventManager delivers notifications for one Box.
//
// The listener slice is never modified in place: AddListener and
// RemoveListener install a fresh slice, and each fire iterates the slice it
// loaded when it started. A listener may therefore add or remove listeners
// while being notified; the change takes effect from the next event.
type EventManager struct {
	box       *Box
	listeners []Listener
	logger    log.Log
}

func newEventManager(b *Box, logger log.Log) *EventManager {
	return &EventManager{box: b, logger: logger}
}

// AddListener registers l. It fails for nil and for a listener that is
// already registered.
func (m *EventManager) AddListener(l Listener) error {
	if l == nil {
		return fmt.Errorf("%w: nil listener", ErrInvalidArgument)
	}
	for _, existing := range m.listeners {
		if existing == l {
			return fmt.Errorf("%w: listener %T already registered", ErrDuplicateRegistration, l)
		}
	}
	next := make([]Listener, len(m.listeners), len(m.listeners)+1)
	copy(next, m.listeners)
	m.listeners = append(next, l)
	return nil
}

// RemoveListener unregisters l. Removing an unknown listener does nothing.
func (m *EventManager) RemoveListener(l Listener) {
	for i, existing := range m.listeners {
		if existing != l {
			continue
		}
		next := make([]Listener, 0, len(m.listeners)-1)
		next = append(next, m.listeners[:i]...)
		m.listeners = append(next, m.listeners[i+1:]...)
		return
	}
}

// Len reports the number of registered listeners.
func (m *EventManager) Len() int { return len(m.listeners) }

func (m *EventManager) fireMoleculeAdded(mol *Molecule) error {
	e := MoleculeEvent{Box: m.box, Molecule: mol}
	m.trace("molecule added", log.Int("species", mol.species.Index()), log.Int("index", mol.index))
	for _, l := range m.listeners {
		if err := l.MoleculeAdded(e); err != nil {
			return fmt.Errorf("molecule added listener: %w", err)
		}
	}
	return nil
}

func (m *EventManager) fireMoleculeRemoved(mol *Molecule) error {
	e := MoleculeEvent{Box: m.box, Molecule: mol}
	m.trace("molecule removed", log.Int("species", mol.species.Index()), log.Int("index", mol.index))
	for _, l := range m.listeners {
		if err := l.MoleculeRemoved(e); err != nil {
			return fmt.Errorf("molecule removed listener: %w", err)
		}
	}
	return nil
}

func (m *EventManager) fireMoleculeIndexChanged(mol *Molecule, oldIndex int) error {
	e := MoleculeIndexEvent{Box: m.box, Molecule: mol, OldIndex: oldIndex}
	m.trace("molecule index changed", log.Int("species", mol.species.Index()),
		log.Int("old", oldIndex), log.Int("new", mol.index))
	for _, l := range m.listeners {
		if err := l.MoleculeIndexChanged(e); err != nil {
			return fmt.Errorf("molecule index changed listener: %w", err)
		}
	}
	return nil
}

func (m *EventManager) fireAtomLeafIndexChanged(a *Atom, oldIndex int) error {
	e := AtomIndexEvent{Box: m.box, Atom: a, OldIndex: oldIndex}
	m.trace("atom leaf index changed", log.Int("old", oldIndex), log.Int("new", a.leafIndex))
	for _, l := range m.listeners {
		if err := l.AtomLeafIndexChanged(e); err != nil {
			return fmt.Errorf("atom leaf index changed listener: %w", err)
		}
	}
	return nil
}

func (m *EventManager) fireGlobalAtomLeafIndexChanged(maxIndex int) error {
	e := LeafCountEvent{Box: m.box, MaxIndex: maxIndex}
	m.trace("leaf count hint", log.Int("max_index", maxIndex))
	for _, l := range m.listeners {
		if err := l.GlobalAtomLeafIndexChanged(e); err != nil {
			return fmt.Errorf("global atom leaf index listener: %w", err)
		}
	}
	return nil
}

func (m *EventManager) fireNumberMoleculesChanged(s Species, count int) error {
	e := MoleculeCountEvent{Box: m.box, Species: s, Count: count}
	m.trace("molecule count hint", log.Int("species", s.Index()), log.Int("count", count))
	for _, l := range m.listeners {
		if err := l.NumberMoleculesChanged(e); err != nil {
			return fmt.Errorf("number molecules changed listener: %w", err)
		}
	}
	return nil
}

func (m *EventManager) trace(msg string, fields ...log.Field) {
	if !m.logger.Enabled(log.LevelDebug) {
		return
	}
	m.logger.Debug(msg, append(fields, log.Int("box", m.box.index))...)
}
