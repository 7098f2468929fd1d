package config

import (
	"errors"
	"fmt"
)

// Config describes a simulation to build: atom types, species made from
// them, and boxes populated with molecules of those species.
type Config struct {
	Log       LogConfig        `json:"log" yaml:"log" toml:"log"`
	Debug     bool             `json:"debug,omitempty" yaml:"debug,omitempty" toml:"debug"`
	AtomTypes []AtomTypeConfig `json:"atom_types" yaml:"atom_types" toml:"atom_types"`
	Species   []SpeciesConfig  `json:"species" yaml:"species" toml:"species"`
	Boxes     []BoxConfig      `json:"boxes" yaml:"boxes" toml:"boxes"`
}

type LogConfig struct {
	Level       string `json:"level,omitempty" yaml:"level,omitempty" toml:"level"`
	Development bool   `json:"development,omitempty" yaml:"development,omitempty" toml:"development"`
}

type AtomTypeConfig struct {
	Name string  `json:"name" yaml:"name" toml:"name"`
	Mass float64 `json:"mass,omitempty" yaml:"mass,omitempty" toml:"mass"`
}

type SpeciesConfig struct {
	Name  string       `json:"name" yaml:"name" toml:"name"`
	Atoms []SiteConfig `json:"atoms" yaml:"atoms" toml:"atoms"`
}

// SiteConfig places one atom of a species template. Position may be empty,
// meaning the origin.
type SiteConfig struct {
	Type     string    `json:"type" yaml:"type" toml:"type"`
	Position []float64 `json:"position,omitempty" yaml:"position,omitempty" toml:"position"`
}

type BoxConfig struct {
	Name      string           `json:"name,omitempty" yaml:"name,omitempty" toml:"name"`
	Size      []float64        `json:"size" yaml:"size" toml:"size"`
	Density   float64          `json:"density,omitempty" yaml:"density,omitempty" toml:"density"`
	Molecules []MoleculeConfig `json:"molecules,omitempty" yaml:"molecules,omitempty" toml:"molecules"`
}

type MoleculeConfig struct {
	Species string `json:"species" yaml:"species" toml:"species"`
	Count   int    `json:"count" yaml:"count" toml:"count"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks names, references between sections and numeric ranges.
func (c *Config) Validate() error {
	types := make(map[string]struct{}, len(c.AtomTypes))
	for i, t := range c.AtomTypes {
		if t.Name == "" {
			return fmt.Errorf("%w: atom type %d has no name", ErrInvalidConfig, i)
		}
		if _, dup := types[t.Name]; dup {
			return fmt.Errorf("%w: atom type %q defined twice", ErrInvalidConfig, t.Name)
		}
		if t.Mass < 0 {
			return fmt.Errorf("%w: atom type %q has negative mass", ErrInvalidConfig, t.Name)
		}
		types[t.Name] = struct{}{}
	}

	species := make(map[string]struct{}, len(c.Species))
	for i, s := range c.Species {
		if err := s.validate(types); err != nil {
			return fmt.Errorf("species %d: %w", i, err)
		}
		if _, dup := species[s.Name]; dup {
			return fmt.Errorf("%w: species %q defined twice", ErrInvalidConfig, s.Name)
		}
		species[s.Name] = struct{}{}
	}

	for i, b := range c.Boxes {
		if err := b.validate(species); err != nil {
			return fmt.Errorf("box %d: %w", i, err)
		}
	}
	return nil
}

func (s *SpeciesConfig) validate(types map[string]struct{}) error {
	if s.Name == "" {
		return fmt.Errorf("%w: species name is required", ErrInvalidConfig)
	}
	if len(s.Atoms) == 0 {
		return fmt.Errorf("%w: species %q has no atoms", ErrInvalidConfig, s.Name)
	}
	for j, a := range s.Atoms {
		if _, ok := types[a.Type]; !ok {
			return fmt.Errorf("%w: species %q atom %d has unknown type %q", ErrInvalidConfig, s.Name, j, a.Type)
		}
		if len(a.Position) != 0 && len(a.Position) != 3 {
			return fmt.Errorf("%w: species %q atom %d position needs 3 components", ErrInvalidConfig, s.Name, j)
		}
	}
	return nil
}

func (b *BoxConfig) validate(species map[string]struct{}) error {
	if len(b.Size) != 3 {
		return fmt.Errorf("%w: box size needs 3 components", ErrInvalidConfig)
	}
	for _, edge := range b.Size {
		if edge <= 0 {
			return fmt.Errorf("%w: box edges must be positive", ErrInvalidConfig)
		}
	}
	if b.Density < 0 {
		return fmt.Errorf("%w: density cannot be negative", ErrInvalidConfig)
	}
	for _, m := range b.Molecules {
		if _, ok := species[m.Species]; !ok {
			return fmt.Errorf("%w: unknown species %q", ErrInvalidConfig, m.Species)
		}
		if m.Count < 0 {
			return fmt.Errorf("%w: species %q count cannot be negative", ErrInvalidConfig, m.Species)
		}
	}
	return nil
}
