package agent

import (
	"fmt"
	"maps"
	"slices"

	"github.com/etomica/etomica/internal/core/box"
	"github.com/etomica/etomica/internal/core/observability/log"
	"github.com/etomica/etomica/internal/core/simulation"
	"github.com/etomica/etomica/pkg/sequence"
)

// BoxSource is the registry a BoxAgentManager follows. *simulation.Simulation
// implements it.
type BoxSource interface {
	Boxes() *sequence.Iterator[*box.Box]
	AddBoxListener(l simulation.BoxListener) error
	RemoveBoxListener(l simulation.BoxListener)
}

type Option func(*options)

type options struct {
	logger log.Log
}

func WithLogger(logger log.Log) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: log.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BoxAgentManager keeps one agent per box of a BoxSource. Agents are made
// for the boxes already registered when the manager is created and for every
// box added later; the agent of a removed box is released.
//
// The source must be fully constructed before the manager is created.
type BoxAgentManager[A any] struct {
	source  BoxSource
	factory func(*box.Box) A
	release func(A)
	agents  map[int]A
	logger  log.Log
}

var _ simulation.BoxListener = (*BoxAgentManager[int])(nil)

// NewBoxAgentManager creates agents for the current boxes of source and
// subscribes to its box lifecycle. release may be nil.
func NewBoxAgentManager[A any](source BoxSource, factory func(*box.Box) A, release func(A), opts ...Option) (*BoxAgentManager[A], error) {
	if source == nil || factory == nil {
		return nil, fmt.Errorf("%w: box agent manager needs a source and a factory", box.ErrInvalidArgument)
	}
	if release == nil {
		release = func(A) {}
	}
	o := buildOptions(opts)
	m := &BoxAgentManager[A]{
		source:  source,
		factory: factory,
		release: release,
		agents:  make(map[int]A),
		logger:  o.logger,
	}
	for b := range source.Boxes().Seq() {
		m.agents[b.Index()] = factory(b)
	}
	if err := source.AddBoxListener(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Agent returns the agent of b. The second result is false if b has none.
func (m *BoxAgentManager[A]) Agent(b *box.Box) (A, bool) {
	if b == nil {
		var zero A
		return zero, false
	}
	a, ok := m.agents[b.Index()]
	return a, ok
}

// SetAgent replaces the agent of b without releasing the previous one.
func (m *BoxAgentManager[A]) SetAgent(b *box.Box, a A) error {
	if b == nil || b.Index() < 0 {
		return fmt.Errorf("%w: box is not registered", box.ErrInvalidArgument)
	}
	m.agents[b.Index()] = a
	return nil
}

// Len reports how many agents are held.
func (m *BoxAgentManager[A]) Len() int { return len(m.agents) }

func (m *BoxAgentManager[A]) BoxAdded(b *box.Box) error {
	m.agents[b.Index()] = m.factory(b)
	m.logger.Debug("box agent created", log.Int("box", b.Index()))
	return nil
}

// BoxRemoved releases the agent of b, which still reports its old index,
// and moves the agents of the later boxes down one slot to follow their
// renumbering.
func (m *BoxAgentManager[A]) BoxRemoved(b *box.Box) error {
	idx := b.Index()
	if a, ok := m.agents[idx]; ok {
		m.release(a)
		delete(m.agents, idx)
	}
	for _, k := range slices.Sorted(maps.Keys(m.agents)) {
		if k > idx {
			m.agents[k-1] = m.agents[k]
			delete(m.agents, k)
		}
	}
	m.logger.Debug("box agent released", log.Int("box", idx))
	return nil
}

// Dispose unsubscribes from the source and releases every agent.
func (m *BoxAgentManager[A]) Dispose() {
	m.source.RemoveBoxListener(m)
	for _, a := range m.agents {
		m.release(a)
	}
	clear(m.agents)
}
