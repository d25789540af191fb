package fold

import (
	"github.com/katalvlaran/hpfold/lattice"
	"github.com/katalvlaran/hpfold/polypeptide"
	"github.com/katalvlaran/hpfold/residue"
)

// Both policies split the final energy into terms already fixed (pair and
// surface contacts of placed residues) and terms still open:
//
//	LB = ContactEnergy
//	   + Σ_t OpenFaces(t)·floor(t)          every empty face of a placed residue
//	   − floor(type(last))                  one of last's faces takes residue last+1
//	   + FaceMin(d, last+1)                 every free face of an unplaced residue
//
// An empty face either stays solvent (I(t, Solvent)) or gets a non-adjacent
// residue t′ whose own share of the contact is already charged at
// MinInteraction(t′) by FaceMin. floor(t) must not exceed either outcome.
// A completed folding has no open residues and the bound is its exact energy.

// MinimalBound charges every open face of a placed residue with
// MinInteraction, the weakest admissible floor. It needs no per-chain tables
// beyond FaceMin and is the reference the resolved bound is checked against.
func MinimalBound(chain *polypeptide.Polypeptide, l *lattice.Lattice, last int) float64 {
	tab := chain.Table()

	return openBound(chain, l, last, func(t residue.Type, _ int) float64 {
		return tab.MinInteraction(t)
	})
}

// ResolvedBound charges every open face with OpenFaceFloor, which only
// considers residue types still to be placed and never charges an
// unfavourable solvent term as favourable. It dominates MinimalBound.
func ResolvedBound(chain *polypeptide.Polypeptide, l *lattice.Lattice, last int) float64 {
	return openBound(chain, l, last, chain.OpenFaceFloor)
}

func openBound(
	chain *polypeptide.Polypeptide,
	l *lattice.Lattice,
	last int,
	floor func(t residue.Type, from int) float64,
) float64 {
	n := chain.Size()
	next := last + 1
	if next >= n {
		return l.RawEnergy()
	}

	b := l.ContactEnergy() + chain.FaceMin(l.Dimension(), next)
	var c int
	for _, t := range residue.Types() {
		if c = l.OpenFaces(t); c > 0 {
			b += float64(c) * floor(t, next)
		}
	}
	if last >= 0 {
		b -= floor(chain.Get(last).Type, next)
	}

	return b
}
