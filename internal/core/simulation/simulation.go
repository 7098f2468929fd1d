package simulation

import (
	"context"
	"fmt"

	"github.com/etomica/etomica/internal/core/box"
	"github.com/etomica/etomica/internal/core/observability/log"
	"github.com/etomica/etomica/pkg/concurrent"
	"github.com/etomica/etomica/pkg/sequence"
	"github.com/google/uuid"
)

// Species is a box species whose index the simulation assigns.
type Species interface {
	box.Species
	SetIndex(i int)
}

// BoxListener is notified when boxes join or leave a simulation. BoxRemoved
// is delivered while the removed box still reports its old index.
//
// Listeners are compared with == for registration.
type BoxListener interface {
	BoxAdded(b *box.Box) error
	BoxRemoved(b *box.Box) error
}

// Simulation is the registry of species and boxes. Box and species indices
// are sequential from 0; removing one shifts the later indices down.
//
// A Simulation is not safe for concurrent mutation.
type Simulation struct {
	id        string
	species   []Species
	boxes     []*box.Box
	listeners []BoxListener
	logger    log.Log
}

type Option func(*Simulation)

func WithLogger(logger log.Log) Option {
	return func(s *Simulation) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithID overrides the generated run id.
func WithID(id string) Option {
	return func(s *Simulation) { s.id = id }
}

func New(opts ...Option) *Simulation {
	s := &Simulation{
		id:     uuid.NewString(),
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(log.String("simulation", s.id))
	return s
}

// ID identifies this run in logs and snapshot names.
func (s *Simulation) ID() string { return s.id }

func (s *Simulation) Logger() log.Log { return s.logger }

// AddSpecies assigns sp the next species index and announces it to every
// box.
func (s *Simulation) AddSpecies(sp Species) error {
	if sp == nil {
		return fmt.Errorf("%w: nil species", box.ErrInvalidArgument)
	}
	for _, existing := range s.species {
		if existing == sp {
			return fmt.Errorf("%w: species %v", box.ErrDuplicateRegistration, sp)
		}
	}
	sp.SetIndex(len(s.species))
	s.species = append(s.species, sp)
	for _, b := range s.boxes {
		if err := b.AddSpeciesNotify(sp); err != nil {
			return err
		}
	}
	s.logger.Info("species added", log.Int("species", sp.Index()))
	return nil
}

// RemoveSpecies unregisters sp. Every box must already be empty of sp.
func (s *Simulation) RemoveSpecies(sp Species) error {
	i := s.speciesPosition(sp)
	if i < 0 {
		return fmt.Errorf("%w: species %v is not registered", box.ErrInvalidArgument, sp)
	}
	for _, b := range s.boxes {
		if n := b.NMolecules(sp); n > 0 {
			return fmt.Errorf("%w: %v still holds %d molecules of species %d", box.ErrInvalidArgument, b, n, i)
		}
	}
	for _, b := range s.boxes {
		if err := b.RemoveSpeciesNotify(sp); err != nil {
			return err
		}
	}
	s.species = append(s.species[:i:i], s.species[i+1:]...)
	for j := i; j < len(s.species); j++ {
		s.species[j].SetIndex(j)
	}
	sp.SetIndex(-1)
	s.logger.Info("species removed", log.Int("species", i))
	return nil
}

// Species returns the registered species in index order.
func (s *Simulation) Species() []Species {
	return append([]Species(nil), s.species...)
}

func (s *Simulation) NumSpecies() int { return len(s.species) }

// AddBox registers b, assigns it the next box index, announces every
// species to it and notifies box listeners.
func (s *Simulation) AddBox(b *box.Box) error {
	if b == nil {
		return fmt.Errorf("%w: nil box", box.ErrInvalidArgument)
	}
	if s.boxPosition(b) >= 0 {
		return fmt.Errorf("%w: %v", box.ErrDuplicateRegistration, b)
	}
	b.SetIndex(len(s.boxes))
	s.boxes = append(s.boxes, b)
	for _, sp := range s.species {
		if err := b.AddSpeciesNotify(sp); err != nil {
			return err
		}
	}
	for _, l := range s.listeners {
		if err := l.BoxAdded(b); err != nil {
			return fmt.Errorf("box added listener: %w", err)
		}
	}
	s.logger.Info("box added", log.Int("box", b.Index()))
	return nil
}

// RemoveBox unregisters b and renumbers the boxes after it.
func (s *Simulation) RemoveBox(b *box.Box) error {
	i := s.boxPosition(b)
	if i < 0 {
		return fmt.Errorf("%w: %v is not registered", box.ErrInvalidArgument, b)
	}
	s.boxes = append(s.boxes[:i:i], s.boxes[i+1:]...)
	for j := i; j < len(s.boxes); j++ {
		s.boxes[j].SetIndex(j)
	}
	for _, l := range s.listeners {
		if err := l.BoxRemoved(b); err != nil {
			return fmt.Errorf("box removed listener: %w", err)
		}
	}
	b.SetIndex(-1)
	s.logger.Info("box removed", log.Int("box", i))
	return nil
}

// Box returns the box with index i.
func (s *Simulation) Box(i int) (*box.Box, error) {
	if i < 0 || i >= len(s.boxes) {
		return nil, fmt.Errorf("%w: box %d, count %d", box.ErrIndexOutOfRange, i, len(s.boxes))
	}
	return s.boxes[i], nil
}

func (s *Simulation) NumBoxes() int { return len(s.boxes) }

// Boxes iterates a snapshot of the registered boxes in index order.
func (s *Simulation) Boxes() *sequence.Iterator[*box.Box] {
	return sequence.From(append([]*box.Box(nil), s.boxes...))
}

// AddBoxListener registers l for box lifecycle notifications.
func (s *Simulation) AddBoxListener(l BoxListener) error {
	if l == nil {
		return fmt.Errorf("%w: nil box listener", box.ErrInvalidArgument)
	}
	for _, existing := range s.listeners {
		if existing == l {
			return fmt.Errorf("%w: box listener %T", box.ErrDuplicateRegistration, l)
		}
	}
	next := make([]BoxListener, len(s.listeners), len(s.listeners)+1)
	copy(next, s.listeners)
	s.listeners = append(next, l)
	return nil
}

// RemoveBoxListener unregisters l; unknown listeners are ignored.
func (s *Simulation) RemoveBoxListener(l BoxListener) {
	for i, existing := range s.listeners {
		if existing == l {
			next := make([]BoxListener, 0, len(s.listeners)-1)
			next = append(next, s.listeners[:i]...)
			s.listeners = append(next, s.listeners[i+1:]...)
			return
		}
	}
}

// ForEachBox runs fn on every registered box, each box on its own goroutine
// and at most limit at once (limit <= 0 is unbounded). Boxes share no
// state, so fn may mutate the box it is given but must not touch the others
// or the simulation. The first error is returned.
func (s *Simulation) ForEachBox(ctx context.Context, limit int, fn func(context.Context, *box.Box) error) error {
	return concurrent.ForEach(ctx, s.Boxes(), limit, fn)
}

func (s *Simulation) speciesPosition(sp Species) int {
	for i, existing := range s.species {
		if existing == sp {
			return i
		}
	}
	return -1
}

func (s *Simulation) boxPosition(b *box.Box) int {
	for i, existing := range s.boxes {
		if existing == b {
			return i
		}
	}
	return -1
}
