package box

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Inflater rescales the coordinates of a box by a linear factor.
type Inflater interface {
	Inflate(b *Box, scale float64) error
}

// MoleculeInflater scales every molecule's centre about the origin, keeping
// the molecule's internal geometry, and scales the boundary edges by the
// same factor. The boundary must implement ResizableBoundary.
type MoleculeInflater struct{}

var _ Inflater = MoleculeInflater{}

func (MoleculeInflater) Inflate(b *Box, scale float64) error {
	if !(scale > 0) {
		return fmt.Errorf("%w: inflation scale must be positive, got %g", ErrInvalidArgument, scale)
	}
	boundary, ok := b.Boundary().(ResizableBoundary)
	if !ok {
		return fmt.Errorf("%w: boundary %T cannot be resized", ErrInvalidArgument, b.Boundary())
	}
	if err := boundary.SetBoxSize(r3.Scale(scale, boundary.BoxSize())); err != nil {
		return err
	}
	for _, m := range b.Molecules().All() {
		center := Center(m)
		shift := r3.Scale(scale-1, center)
		for _, a := range m.atoms {
			a.Position = r3.Add(a.Position, shift)
		}
	}
	return nil
}

// Center returns the unweighted mean position of m's atoms.
func Center(m *Molecule) r3.Vec {
	if len(m.atoms) == 0 {
		return r3.Vec{}
	}
	var sum r3.Vec
	for _, a := range m.atoms {
		sum = r3.Add(sum, a.Position)
	}
	return r3.Scale(1/float64(len(m.atoms)), sum)
}
