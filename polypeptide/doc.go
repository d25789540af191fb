// Package polypeptide models the chain being folded: an immutable, ordered
// sequence of residues with the per-suffix energy floors the search needs for
// its admissible lower bound.
//
// A Polypeptide is built once with New and never mutated; every accessor is
// safe for concurrent use.
//
// Baseline:
//
//	Each residue i owns 2·d − b(i) faces that are not claimed by its sequence
//	neighbours (b(i) = number of chain neighbours: 1 at the ends, 2 inside).
//	No face can realize less than MinInteraction(type), so
//
//	    Baseline(d) = Σ_i (2·d − b(i)) · MinInteraction(type_i)
//
//	is a lower bound on the energy of any folding of the chain.
//
// Open-face floors:
//
//	OpenFaceFloor(t, j) is the least a free face of an already placed residue
//	of type t can contribute once residues j..N−1 are still unplaced: either it
//	stays solvent-exposed, or a later residue u covers it, in which case u's own
//	face already accounts for MinInteraction(u). Unfavourable solvent terms are
//	never charged beyond Interaction(t, Solvent).
package polypeptide
