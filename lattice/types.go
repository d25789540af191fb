package lattice

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/hpfold/residue"
)

// Sentinel errors for lattice operations.
var (
	// ErrConfiguration indicates invalid lattice options.
	ErrConfiguration = errors.New("lattice: invalid configuration")

	// ErrPlacement indicates an attempt to occupy a taken or forbidden point.
	ErrPlacement = errors.New("lattice: illegal placement")
)

// Point is an integer lattice coordinate. Z is always 0 in 2D.
type Point struct {
	X, Y, Z int
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

// Manhattan returns the L1 distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y) + abs(p.Z-q.Z)
}

// String implements fmt.Stringer.
func (p Point) String() string { return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z) }

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

// Unit direction vectors.
var (
	PlusX  = Point{X: 1}
	MinusX = Point{X: -1}
	PlusY  = Point{Y: 1}
	MinusY = Point{Y: -1}
	PlusZ  = Point{Z: 1}
	MinusZ = Point{Z: -1}
)

var (
	offsets2D = []Point{PlusX, PlusY, MinusX, MinusY}
	offsets3D = []Point{PlusX, PlusY, PlusZ, MinusX, MinusY, MinusZ}
)

// Directions returns the 2·dim unit vectors for dim ∈ {2, 3}, or nil.
// The returned slice is shared and must not be modified.
func Directions(dim int) []Point {
	switch dim {
	case 2:
		return offsets2D
	case 3:
		return offsets3D
	}

	return nil
}

// Options configures a Lattice.
type Options struct {
	// Dimension is 2 (square lattice) or 3 (cubic lattice).
	Dimension int
	// HasSurface enables the fixed surface below the vertical axis origin.
	HasSurface bool
	// Surface is the residue type the surface is made of.
	Surface residue.Type
}

// Option is a functional option for New.
type Option func(*Options)

// WithDimension selects a 2D or 3D lattice.
func WithDimension(dim int) Option {
	return func(o *Options) { o.Dimension = dim }
}

// WithSurface enables a fixed surface made of residue type t.
func WithSurface(t residue.Type) Option {
	return func(o *Options) {
		o.HasSurface = true
		o.Surface = t
	}
}

// DefaultOptions returns a 2D lattice without surface.
func DefaultOptions() Options { return Options{Dimension: 2} }

// Validate reports ErrConfiguration for unsupported settings.
func (o Options) Validate() error {
	if o.Dimension != 2 && o.Dimension != 3 {
		return fmt.Errorf("%w: dimension %d (want 2 or 3)", ErrConfiguration, o.Dimension)
	}
	if o.HasSurface && (o.Surface == residue.Solvent || !o.Surface.Valid()) {
		return fmt.Errorf("%w: surface residue %s", ErrConfiguration, o.Surface)
	}

	return nil
}

// Vertical returns the coordinate of p along the surface normal.
func (o Options) Vertical(p Point) int {
	if o.Dimension == 3 {
		return p.Z
	}

	return p.Y
}

// Up returns the unit vector pointing away from the surface.
func (o Options) Up() Point {
	if o.Dimension == 3 {
		return PlusZ
	}

	return PlusY
}

// InSurface reports whether p is part of the surface half-space.
func (o Options) InSurface(p Point) bool { return o.HasSurface && o.Vertical(p) <= 0 }
