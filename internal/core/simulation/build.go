package simulation

import (
	"fmt"

	"github.com/etomica/etomica/internal/config"
	"github.com/etomica/etomica/internal/core/box"
	"github.com/etomica/etomica/internal/core/observability/log"
	"github.com/etomica/etomica/internal/core/species"
	"gonum.org/v1/gonum/spatial/r3"
)

// Build creates a simulation from cfg: species are registered in the order
// listed, then each box is created, registered, filled with the configured
// molecule counts, laid out on a simple cubic lattice and, if a density is
// given, rescaled to it.
func Build(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", box.ErrInvalidArgument)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := New(opts...)

	types := make(map[string]*box.AtomType, len(cfg.AtomTypes))
	for _, t := range cfg.AtomTypes {
		types[t.Name] = &box.AtomType{Name: t.Name, Mass: t.Mass}
	}

	byName := make(map[string]*species.Template, len(cfg.Species))
	for _, sc := range cfg.Species {
		sites := make([]species.Site, len(sc.Atoms))
		for i, a := range sc.Atoms {
			sites[i] = species.Site{Type: types[a.Type], Position: vec(a.Position)}
		}
		sp, err := species.New(sc.Name, sites...)
		if err != nil {
			return nil, err
		}
		if err = s.AddSpecies(sp); err != nil {
			return nil, err
		}
		byName[sc.Name] = sp
	}

	for i, bc := range cfg.Boxes {
		b, err := buildBox(s, bc, byName, cfg.Debug)
		if err != nil {
			return nil, fmt.Errorf("box %d (%s): %w", i, bc.Name, err)
		}
		s.logger.Info("box built", log.Int("box", b.Index()), log.String("name", bc.Name),
			log.Int("molecules", b.Molecules().Len()), log.Int("atoms", b.LeafList().Len()))
	}
	return s, nil
}

func buildBox(s *Simulation, bc config.BoxConfig, byName map[string]*species.Template, debug bool) (*box.Box, error) {
	boundary, err := box.NewRectangularPeriodic(vec(bc.Size))
	if err != nil {
		return nil, err
	}
	logger := s.logger
	if bc.Name != "" {
		logger = logger.With(log.String("box_name", bc.Name))
	}
	b := box.New(boundary, box.WithLogger(logger), box.WithDebug(debug))
	if err = s.AddBox(b); err != nil {
		return nil, err
	}
	for _, mc := range bc.Molecules {
		if err = b.SetNMolecules(byName[mc.Species], mc.Count); err != nil {
			return nil, err
		}
	}
	if err = PlaceOnLattice(b); err != nil {
		return nil, err
	}
	if bc.Density > 0 {
		if err = b.SetDensity(bc.Density); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func vec(v []float64) r3.Vec {
	if len(v) < 3 {
		return r3.Vec{}
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
