package polypeptide

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/hpfold/residue"
)

// ErrConfiguration indicates an unusable chain definition.
var ErrConfiguration = errors.New("polypeptide: invalid configuration")

// Peptide is a residue tagged with its chain position.
type Peptide struct {
	Index int
	Type  residue.Type
}

// Adjacent reports whether p and q are sequence neighbours. Their bond is
// structural and never contributes an interaction.
func (p Peptide) Adjacent(q Peptide) bool {
	d := p.Index - q.Index

	return d == 1 || d == -1
}

// Polypeptide is an immutable residue chain bound to an interaction table.
type Polypeptide struct {
	chain []Peptide
	table *residue.Table

	// suffix sums over residues j..N−1; length N+1.
	sumMin      []float64 // Σ MinInteraction(type_i)
	sumBackbone []float64 // Σ b(i)·MinInteraction(type_i)

	// floors[j*residue.Count+t] = OpenFaceFloor(t, j); j ∈ [0, N].
	floors []float64
}

// New builds a chain from types scored by table.
//
// Errors: ErrConfiguration for an empty chain, a nil table, or a Solvent/unknown residue.
//
// Complexity: O(N·T²) time, O(N·T) memory with T the alphabet size.
func New(types []residue.Type, table *residue.Table) (*Polypeptide, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: empty chain", ErrConfiguration)
	}
	if table == nil {
		return nil, fmt.Errorf("%w: nil interaction table", ErrConfiguration)
	}
	n := len(types)
	p := &Polypeptide{
		chain:       make([]Peptide, n),
		table:       table,
		sumMin:      make([]float64, n+1),
		sumBackbone: make([]float64, n+1),
		floors:      make([]float64, (n+1)*residue.Count),
	}
	for i, t := range types {
		if t == residue.Solvent || !t.Valid() {
			return nil, fmt.Errorf("%w: residue %d has type %s", ErrConfiguration, i, t)
		}
		p.chain[i] = Peptide{Index: i, Type: t}
	}

	var i int
	for i = n - 1; i >= 0; i-- {
		m := table.MinInteraction(types[i])
		p.sumMin[i] = p.sumMin[i+1] + m
		p.sumBackbone[i] = p.sumBackbone[i+1] + float64(backbone(i, n))*m
	}

	p.buildFloors()

	return p, nil
}

// MustNew is New that panics on error; for tests and examples.
func MustNew(types []residue.Type, table *residue.Table) *Polypeptide {
	p, err := New(types, table)
	if err != nil {
		panic(err)
	}

	return p
}

// buildFloors fills OpenFaceFloor for every suffix start j, walking j downward
// so that the set of remaining types only grows.
func (p *Polypeptide) buildFloors() {
	var (
		n       = len(p.chain)
		present [residue.Count]bool
		j       int
		t, u    int
	)
	for j = n; j >= 0; j-- {
		if j < n {
			present[p.chain[j].Type] = true
		}
		row := p.floors[j*residue.Count : (j+1)*residue.Count]
		for t = 0; t < residue.Count; t++ {
			a := residue.Type(t)
			floor := p.table.Interaction(a, residue.Solvent)
			for u = 0; u < residue.Count; u++ {
				if !present[u] {
					continue
				}
				b := residue.Type(u)
				if v := p.table.Interaction(a, b) - p.table.MinInteraction(b); v < floor {
					floor = v
				}
			}
			row[t] = floor
		}
	}
}

// backbone returns the number of sequence neighbours of residue i in a chain of n.
func backbone(i, n int) int {
	b := 0
	if i > 0 {
		b++
	}
	if i < n-1 {
		b++
	}

	return b
}

// Size returns the chain length N.
func (p *Polypeptide) Size() int { return len(p.chain) }

// Get returns the peptide at index i. It panics if i is out of range.
func (p *Polypeptide) Get(i int) Peptide { return p.chain[i] }

// Types returns a copy of the residue types in chain order.
func (p *Polypeptide) Types() []residue.Type {
	out := make([]residue.Type, len(p.chain))
	for i, pep := range p.chain {
		out[i] = pep.Type
	}

	return out
}

// Table returns the interaction table the chain is scored with.
func (p *Polypeptide) Table() *residue.Table { return p.table }

// Baseline returns the lower bound for an empty lattice of the given dimension:
// Σ_i (2·dim − b(i)) · MinInteraction(type_i).
func (p *Polypeptide) Baseline(dim int) float64 { return p.FaceMin(dim, 0) }

// FaceMin is Baseline restricted to residues j..N−1. FaceMin(dim, N) == 0.
func (p *Polypeptide) FaceMin(dim, j int) float64 {
	if j >= len(p.chain) {
		return 0
	}

	return float64(2*dim)*p.sumMin[j] - p.sumBackbone[j]
}

// Faces returns how many faces residue i owns that are not claimed by a
// sequence neighbour: 2·dim − b(i).
func (p *Polypeptide) Faces(dim, i int) int { return 2*dim - backbone(i, len(p.chain)) }

// OpenFaceFloor returns the least contribution a free face of a placed residue
// of type t can make while residues j..N−1 remain unplaced. It never exceeds
// Interaction(t, Solvent) and equals it once j == N.
func (p *Polypeptide) OpenFaceFloor(t residue.Type, j int) float64 {
	if j > len(p.chain) {
		j = len(p.chain)
	}

	return p.floors[j*residue.Count+int(t)]
}

// String renders the chain with one-letter codes, e.g. "HPPH".
func (p *Polypeptide) String() string {
	var sb strings.Builder
	sb.Grow(len(p.chain))
	for _, pep := range p.chain {
		sb.WriteRune(pep.Type.Letter())
	}

	return sb.String()
}

// round2 rounds to two decimals, the reporting convention for energies.
func round2(x float64) float64 { return math.Round(x*100) / 100 }

// RoundedBaseline is Baseline rounded to two decimals for display.
func (p *Polypeptide) RoundedBaseline(dim int) float64 { return round2(p.Baseline(dim)) }
