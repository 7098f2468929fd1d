package simulation

import (
	"fmt"
	"math"

	"github.com/etomica/etomica/internal/core/box"
	"gonum.org/v1/gonum/spatial/r3"
)

// PlaceOnLattice moves every molecule of b, keeping its shape, so that its
// centre sits on a site of a simple cubic lattice filling the boundary. The
// box is centred on the origin. Molecules fill sites in global index order.
func PlaceOnLattice(b *box.Box) error {
	n := b.Molecules().Len()
	if n == 0 {
		return nil
	}
	if b.Boundary() == nil {
		return fmt.Errorf("%w: %v has no boundary", box.ErrIllegalState, b)
	}
	size := b.Boundary().BoxSize()
	k := int(math.Ceil(math.Cbrt(float64(n))))
	for k*k*k < n {
		k++
	}
	spacing := r3.Scale(1/float64(k), size)
	origin := r3.Scale(-0.5, size)

	for i, m := range b.Molecules().All() {
		cell := r3.Vec{
			X: float64(i%k) + 0.5,
			Y: float64((i/k)%k) + 0.5,
			Z: float64(i/(k*k)) + 0.5,
		}
		site := r3.Add(origin, r3.Vec{X: cell.X * spacing.X, Y: cell.Y * spacing.Y, Z: cell.Z * spacing.Z})
		shift := r3.Sub(site, box.Center(m))
		for _, a := range m.Atoms() {
			a.Position = r3.Add(a.Position, shift)
		}
	}
	return nil
}
