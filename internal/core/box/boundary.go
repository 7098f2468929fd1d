package box

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Boundary defines the volume and periodicity of a box.
type Boundary interface {
	Volume() float64
	BoxSize() r3.Vec
	Dimension() int
	// SetBox is called by the box that owns the boundary.
	SetBox(b *Box)
}

// ResizableBoundary is a boundary whose edge lengths can be changed, which
// is what the default inflater needs.
type ResizableBoundary interface {
	Boundary
	SetBoxSize(size r3.Vec) error
}

// RectangularPeriodic is an orthorhombic boundary, periodic in all three
// directions.
type RectangularPeriodic struct {
	size r3.Vec
	box  *Box
}

var _ ResizableBoundary = (*RectangularPeriodic)(nil)

func NewRectangularPeriodic(size r3.Vec) (*RectangularPeriodic, error) {
	p := &RectangularPeriodic{}
	if err := p.SetBoxSize(size); err != nil {
		return nil, err
	}
	return p, nil
}

// NewCubic creates a periodic cube with edge length edge.
func NewCubic(edge float64) (*RectangularPeriodic, error) {
	return NewRectangularPeriodic(r3.Vec{X: edge, Y: edge, Z: edge})
}

func (p *RectangularPeriodic) Volume() float64 {
	return p.size.X * p.size.Y * p.size.Z
}

func (p *RectangularPeriodic) BoxSize() r3.Vec { return p.size }

func (p *RectangularPeriodic) Dimension() int { return 3 }

func (p *RectangularPeriodic) SetBox(b *Box) { p.box = b }

func (p *RectangularPeriodic) Box() *Box { return p.box }

func (p *RectangularPeriodic) SetBoxSize(size r3.Vec) error {
	for _, edge := range [...]float64{size.X, size.Y, size.Z} {
		if !(edge > 0) || math.IsInf(edge, 0) {
			return fmt.Errorf("%w: box edge must be positive and finite, got %v", ErrInvalidArgument, size)
		}
	}
	p.size = size
	return nil
}

// NearestImage returns the minimum-image separation for dr.
func (p *RectangularPeriodic) NearestImage(dr r3.Vec) r3.Vec {
	return r3.Vec{
		X: dr.X - p.size.X*math.Round(dr.X/p.size.X),
		Y: dr.Y - p.size.Y*math.Round(dr.Y/p.size.Y),
		Z: dr.Z - p.size.Z*math.Round(dr.Z/p.size.Z),
	}
}
