package fold

import (
	"math"

	"github.com/katalvlaran/hpfold/lattice"
)

// symmetry records which mirror/rotation constraints still restrict a
// folding's growth. A flag is cleared once the folding leaves the invariant
// subspace and never set again.
type symmetry uint8

const (
	// symStraight: free space, every residue on the +X axis.
	symStraight symmetry = 1 << iota
	// symPlanar: 3D free space, every residue in Z = 0.
	symPlanar
	// symColumn: surface, every residue on the vertical line through residue 0.
	symColumn
	// symSheet: 3D surface, every residue in Y = 0.
	symSheet
)

// Folding is an immutable search state: residues 0..Index placed on a
// lattice owned exclusively by the state.
type Folding struct {
	lattice  *lattice.Lattice
	last     lattice.Point
	index    int
	bound    float64
	complete bool
	sym      symmetry
	seq      uint64
}

// Lattice returns the state's lattice. Callers must not mutate it.
func (f *Folding) Lattice() *lattice.Lattice { return f.lattice }

// Last returns the position of the most recently placed residue.
func (f *Folding) Last() lattice.Point { return f.last }

// Index returns the sequence index of the most recently placed residue.
func (f *Folding) Index() int { return f.index }

// LowerBound returns the admissible bound; exact once Complete.
func (f *Folding) LowerBound() float64 { return f.bound }

// Complete reports whether every residue is placed.
func (f *Folding) Complete() bool { return f.complete }

// Energy returns the lattice energy rounded to two decimals.
func (f *Folding) Energy() float64 { return f.lattice.Energy() }

// Less orders foldings: lower bound, then less exposed surface, then deeper
// index, then creation order. It is a strict weak ordering.
func Less(a, b *Folding) bool {
	if a.bound != b.bound {
		return a.bound < b.bound
	}
	if ea, eb := a.lattice.ExposedSurface(), b.lattice.ExposedSurface(); ea != eb {
		return ea < eb
	}
	if a.index != b.index {
		return a.index > b.index
	}

	return a.seq < b.seq
}

// quantize snaps x to a 1e-9 grid so that equal bounds compare equal.
func quantize(x float64) float64 {
	r := math.Round(x*1e9) / 1e9
	if r == 0 {
		return 0
	}

	return r
}
