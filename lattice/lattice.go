package lattice

import (
	"fmt"
	"math"

	"github.com/katalvlaran/hpfold/polypeptide"
	"github.com/katalvlaran/hpfold/residue"
)

// Lattice is a partial injective map Point → Peptide with running statistics.
type Lattice struct {
	opts    Options
	table   *residue.Table
	offsets []Point

	cells map[Point]polypeptide.Peptide
	order []Point // placement order

	energy  float64 // exact running energy, solvent terms included
	contact float64 // pair and surface terms only; final once placed
	exposed int     // occupied→empty faces
	open    [residue.Count]int

	lo, hi Point
}

// New returns an empty lattice scored with table.
//
// Errors: ErrConfiguration for a nil table or invalid options (see Options.Validate).
func New(table *residue.Table, opts ...Option) (*Lattice, error) {
	cfg := DefaultOptions()
	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}

	return NewWithOptions(table, cfg)
}

// NewWithOptions is New with an explicit Options value.
func NewWithOptions(table *residue.Table, cfg Options) (*Lattice, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil interaction table", ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Lattice{
		opts:    cfg,
		table:   table,
		offsets: Directions(cfg.Dimension),
		cells:   make(map[Point]polypeptide.Peptide),
	}, nil
}

// Options returns the lattice configuration.
func (l *Lattice) Options() Options { return l.opts }

// Dimension returns 2 or 3.
func (l *Lattice) Dimension() int { return l.opts.Dimension }

// Len returns the number of occupied points.
func (l *Lattice) Len() int { return len(l.cells) }

// IsOccupied reports whether p holds a residue.
func (l *Lattice) IsOccupied(p Point) bool {
	_, ok := l.cells[p]

	return ok
}

// ResidueAt returns the peptide at p, if any.
func (l *Lattice) ResidueAt(p Point) (polypeptide.Peptide, bool) {
	pep, ok := l.cells[p]

	return pep, ok
}

// CanPlace reports whether Place(p, ·) would succeed.
func (l *Lattice) CanPlace(p Point) bool {
	return !l.opts.InSurface(p) && !l.IsOccupied(p)
}

// Place occupies p with pep and updates energy, geometry and face tallies.
//
// For each of the 2·d neighbours q of p:
//   - q in the surface: add I(pep, Surface).
//   - q occupied by o: retract o's solvent term for the shared face; if o is
//     not a sequence neighbour add I(pep, o).
//   - q empty: add I(pep, Solvent).
//
// Errors: ErrPlacement if p is occupied or lies on/below the surface.
//
// Complexity: O(d).
func (l *Lattice) Place(p Point, pep polypeptide.Peptide) error {
	if o, ok := l.cells[p]; ok {
		return fmt.Errorf("%w: %v already holds residue %d", ErrPlacement, p, o.Index)
	}
	if l.opts.InSurface(p) {
		return fmt.Errorf("%w: %v is on or below the surface", ErrPlacement, p)
	}

	var (
		q  Point
		d  Point
		o  polypeptide.Peptide
		ok bool
		e  float64
	)
	for _, d = range l.offsets {
		q = p.Add(d)
		if l.opts.InSurface(q) {
			e = l.table.Interaction(pep.Type, l.opts.Surface)
			l.energy += e
			l.contact += e
			continue
		}
		if o, ok = l.cells[q]; ok {
			l.energy -= l.table.Interaction(o.Type, residue.Solvent)
			l.exposed--
			l.open[o.Type]--
			if !pep.Adjacent(o) {
				e = l.table.Interaction(pep.Type, o.Type)
				l.energy += e
				l.contact += e
			}
			continue
		}
		l.energy += l.table.Interaction(pep.Type, residue.Solvent)
		l.exposed++
		l.open[pep.Type]++
	}

	if len(l.cells) == 0 {
		l.lo, l.hi = p, p
	} else {
		l.lo = Point{min(l.lo.X, p.X), min(l.lo.Y, p.Y), min(l.lo.Z, p.Z)}
		l.hi = Point{max(l.hi.X, p.X), max(l.hi.Y, p.Y), max(l.hi.Z, p.Z)}
	}
	l.cells[p] = pep
	l.order = append(l.order, p)

	return nil
}

// Energy returns the running energy rounded to two decimals.
func (l *Lattice) Energy() float64 { return Round(l.energy) }

// RawEnergy returns the unrounded running energy.
func (l *Lattice) RawEnergy() float64 { return l.energy }

// ContactEnergy returns the pair and surface terms only. These are final:
// later placements never change them.
func (l *Lattice) ContactEnergy() float64 { return l.contact }

// ExposedSurface returns the number of occupied→empty faces.
func (l *Lattice) ExposedSurface() int { return l.exposed }

// OpenFaces returns how many empty faces residues of type t currently expose.
func (l *Lattice) OpenFaces(t residue.Type) int { return l.open[t] }

// Bounds returns the per-axis minimum and maximum occupied coordinates.
// Both are the zero Point on an empty lattice.
func (l *Lattice) Bounds() (lo, hi Point) { return l.lo, l.hi }

// extent returns the side lengths of the bounding box in cells.
func (l *Lattice) extent() (w, h, d int) {
	if len(l.cells) == 0 {
		return 0, 0, 0
	}

	return l.hi.X - l.lo.X + 1, l.hi.Y - l.lo.Y + 1, l.hi.Z - l.lo.Z + 1
}

// BoundingPerimeter returns the perimeter of the smallest enclosing rectangle
// in the XY plane, in cell edges.
func (l *Lattice) BoundingPerimeter() int {
	w, h, _ := l.extent()

	return 2 * (w + h)
}

// BoundingSurfaceArea returns the surface area of the smallest enclosing box,
// in cell faces.
func (l *Lattice) BoundingSurfaceArea() int {
	w, h, d := l.extent()

	return 2 * (w*h + h*d + w*d)
}

// Compactness returns BoundingPerimeter in 2D and BoundingSurfaceArea in 3D.
func (l *Lattice) Compactness() int {
	if l.opts.Dimension == 3 {
		return l.BoundingSurfaceArea()
	}

	return l.BoundingPerimeter()
}

// CompactnessWith returns the Compactness the lattice would have after
// placing a residue at p, without placing it.
func (l *Lattice) CompactnessWith(p Point) int {
	if len(l.cells) == 0 {
		return compactness(l.opts.Dimension, 1, 1, 1)
	}
	lo := Point{min(l.lo.X, p.X), min(l.lo.Y, p.Y), min(l.lo.Z, p.Z)}
	hi := Point{max(l.hi.X, p.X), max(l.hi.Y, p.Y), max(l.hi.Z, p.Z)}

	return compactness(l.opts.Dimension, hi.X-lo.X+1, hi.Y-lo.Y+1, hi.Z-lo.Z+1)
}

func compactness(dim, w, h, d int) int {
	if dim == 3 {
		return 2 * (w*h + h*d + w*d)
	}

	return 2 * (w + h)
}

// Clone returns a deep, independent copy.
//
// Complexity: O(N).
func (l *Lattice) Clone() *Lattice {
	c := *l
	c.cells = make(map[Point]polypeptide.Peptide, len(l.cells)+1)
	for p, pep := range l.cells {
		c.cells[p] = pep
	}
	c.order = make([]Point, len(l.order), len(l.order)+1)
	copy(c.order, l.order)

	return &c
}

// Points returns the occupied points in placement order.
func (l *Lattice) Points() []Point {
	out := make([]Point, len(l.order))
	copy(out, l.order)

	return out
}

// Each calls fn for every occupied point in placement order.
func (l *Lattice) Each(fn func(Point, polypeptide.Peptide)) {
	for _, p := range l.order {
		fn(p, l.cells[p])
	}
}

// Derive recomputes the energy from scratch, independent of placement order.
// Each unordered contact pair is counted once.
//
// Complexity: O(N·d).
func (l *Lattice) Derive() float64 {
	var (
		e   float64
		q   Point
		o   polypeptide.Peptide
		ok  bool
		p   Point
		pep polypeptide.Peptide
	)
	for p, pep = range l.cells {
		for _, d := range l.offsets {
			q = p.Add(d)
			switch {
			case l.opts.InSurface(q):
				e += l.table.Interaction(pep.Type, l.opts.Surface)
			default:
				if o, ok = l.cells[q]; !ok {
					e += l.table.Interaction(pep.Type, residue.Solvent)
				} else if o.Index > pep.Index && !pep.Adjacent(o) {
					e += l.table.Interaction(pep.Type, o.Type)
				}
			}
		}
	}

	return e
}

// MinimalCompactness returns the smallest bounding perimeter (2D) or surface
// area (3D) of any box holding n cells. It is the a-priori geometric floor the
// search relaxes by a slack when pruning non-compact branches.
//
// Complexity: O(n) in 2D, O(n²) in 3D.
func MinimalCompactness(n, dim int) int {
	best, _ := boxes(n, dim)

	return best
}

// LayeredCompactness returns the largest Compactness of a box made by adding
// one layer across the shortest side of a minimal box for n cells. In 2D this
// is MinimalCompactness + 2; in 3D the layer costs twice the sum of the two
// longer sides.
//
// Complexity: as MinimalCompactness.
func LayeredCompactness(n, dim int) int {
	_, layered := boxes(n, dim)

	return layered
}

// boxes scans every box shape able to hold n cells and returns the minimal
// compactness together with the largest one-layer extension of a minimal box.
func boxes(n, dim int) (best, layered int) {
	if n <= 0 || (dim != 2 && dim != 3) {
		return 0, 0
	}
	best = math.MaxInt
	visit := func(a, b, c int) {
		v := compactness(dim, a, b, c)
		if v > best {
			return
		}
		g := grown(dim, a, b, c)
		if v < best {
			best, layered = v, g
			return
		}
		layered = max(layered, g)
	}
	var a, b int
	for a = 1; a <= n; a++ {
		if dim == 2 {
			visit(a, ceilDiv(n, a), 1)
			continue
		}
		for b = a; b <= n; b++ {
			visit(a, b, ceilDiv(n, a*b))
		}
	}

	return best, layered
}

// grown is the compactness of the a×b(×c) box thickened by one cell along
// its shortest side.
func grown(dim, a, b, c int) int {
	if dim == 2 {
		return compactness(2, min(a, b)+1, max(a, b), 1)
	}
	s := min(a, b, c)
	switch s {
	case a:
		a++
	case b:
		b++
	default:
		c++
	}

	return compactness(3, a, b, c)
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// Round rounds x to two decimals, the energy comparison convention.
func Round(x float64) float64 {
	r := math.Round(x*100) / 100
	if r == 0 {
		return 0 // normalize −0
	}

	return r
}
