package residue

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadEnergy indicates a NaN or infinite interaction energy.
var ErrBadEnergy = errors.New("residue: interaction energy must be finite")

// Entry is one symmetric table entry: Interaction(A, B) == Interaction(B, A) == Energy.
type Entry struct {
	A, B   Type
	Energy float64
}

// Pair is shorthand for Entry{A: a, B: b, Energy: e}.
func Pair(a, b Type, e float64) Entry { return Entry{A: a, B: b, Energy: e} }

// Table is an immutable symmetric interaction lookup. It is safe for
// concurrent use by any number of goroutines.
type Table struct {
	e   [numTypes * numTypes]float64
	min [numTypes]float64
}

// NewTable builds a Table from entries. Later entries overwrite earlier ones
// for the same unordered pair.
//
// Errors: ErrUnknownType for labels outside the alphabet, ErrBadEnergy for
// NaN/±Inf energies.
//
// Complexity: O(len(entries) + T²) with T the alphabet size.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{}
	for _, en := range entries {
		if !en.A.Valid() || !en.B.Valid() {
			return nil, fmt.Errorf("%w: pair (%d,%d)", ErrUnknownType, en.A, en.B)
		}
		if math.IsNaN(en.Energy) || math.IsInf(en.Energy, 0) {
			return nil, fmt.Errorf("%w: %s-%s=%v", ErrBadEnergy, en.A, en.B, en.Energy)
		}
		t.e[int(en.A)*int(numTypes)+int(en.B)] = en.Energy
		t.e[int(en.B)*int(numTypes)+int(en.A)] = en.Energy
	}
	// min is clamped at 0 so that a pair term min(a)+min(b) never exceeds
	// Interaction(a, b); bound code relies on it.
	var a, b Type
	for a = 0; a < numTypes; a++ {
		m := 0.0
		for b = 0; b < numTypes; b++ {
			if v := t.e[int(a)*int(numTypes)+int(b)]; v < m {
				m = v
			}
		}
		t.min[a] = m
	}

	return t, nil
}

// MustTable is NewTable that panics on error. Intended for package-level presets.
func MustTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}

	return t
}

// Interaction returns the energy between a and b (0 if no entry was set).
func (t *Table) Interaction(a, b Type) float64 {
	return t.e[int(a)*int(numTypes)+int(b)]
}

// MinInteraction returns the most favourable energy a can realize on a single
// face: min(0, Interaction(a, x)) over every type x, Solvent and Surface included.
func (t *Table) MinInteraction(a Type) float64 { return t.min[a] }

// Entries returns every non-zero entry with A ≤ B, ordered by (A, B).
func (t *Table) Entries() []Entry {
	var (
		out  []Entry
		a, b Type
	)
	for a = 0; a < numTypes; a++ {
		for b = a; b < numTypes; b++ {
			if v := t.Interaction(a, b); v != 0 {
				out = append(out, Entry{A: a, B: b, Energy: v})
			}
		}
	}

	return out
}

// HP returns the classic hydrophobic-polar table: H–H = −1.
func HP() *Table {
	return MustTable(Pair(Hydrophobic, Hydrophobic, -1))
}

// Charged returns HP extended with charge-charge terms: like charges repel
// (+1), opposite charges attract (−1).
func Charged() *Table {
	return MustTable(
		Pair(Hydrophobic, Hydrophobic, -1),
		Pair(Positive, Positive, 1),
		Pair(Negative, Negative, 1),
		Pair(Positive, Negative, -1),
	)
}

// SurfaceHP returns HP plus an H–Surface adsorption energy.
func SurfaceHP(adsorption float64) *Table {
	return MustTable(
		Pair(Hydrophobic, Hydrophobic, -1),
		Pair(Hydrophobic, Surface, adsorption),
	)
}
