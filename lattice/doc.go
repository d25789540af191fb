// Package lattice implements the square (2D) and cubic (3D) occupancy lattice
// on which a chain is folded, with incrementally maintained energy, bounding
// box, exposed-surface count and per-type open-face tallies.
//
// What:
//
//   - One parameterized Lattice carries a dimension (2 or 3) and an optional
//     fixed surface: the half-space whose vertical coordinate (Y in 2D, Z in 3D)
//     is ≤ 0. Residues must stay strictly above it.
//   - Place is append-only and O(d): it scores the new residue against its 2·d
//     neighbours and retracts the solvent terms of faces it covers.
//   - Clone is a deep copy, so concurrent search branches never share state.
//
// Energy:
//
//	E = Σ_{adjacent, non-consecutive pairs} I(a, b)
//	  + Σ_{occupied p, empty neighbour}     I(type(p), Solvent)
//	  + Σ_{occupied p, surface neighbour}   I(type(p), Surface)
//
// Energy() rounds to two decimals, the comparison and reporting convention
// shared with every consumer. Derive() recomputes E from scratch.
//
// Errors:
//
//   - ErrConfiguration: unsupported dimension, nil table, or Solvent as surface.
//   - ErrPlacement: the point is occupied or lies on/below the surface.
//
// Concurrency: a Lattice is not safe for concurrent mutation. It is owned by
// exactly one search state at a time.
package lattice
