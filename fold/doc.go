// Package fold searches for minimum-energy conformations of a polypeptide on
// a square (2D) or cubic (3D) lattice, optionally above an adsorbing surface.
//
// The search is best-first branch-and-bound. A state (Folding) is a lattice
// holding residues 0..k of the chain; its children place residue k+1 on each
// free neighbour of residue k. States are ordered by an admissible lower
// bound on the energy of any completion, so the first completed state popped
// from a queue is optimal for the part of the tree that queue still holds.
//
// Two drivers share the same expansion rules:
//
//   - Engine — one bounded queue, sequential. Engine.Run seeds the queue and
//     steps until a completed folding surfaces.
//   - Pool   — P workers, each with a private bounded queue, fed from a shared
//     seed frontier and racing against one shared incumbent (Register).
//     Solve is the convenience entry point.
//
// Symmetry breaking:
//
//	Free space:   residues 0 and 1 lie on +X. The straight seed only grows
//	              along +X; the bent seed k turns to +Y at residue k. In 3D,
//	              −Z is refused while the folding is still planar (Z = 0).
//	Surface:      residue 0 starts at every height 1..N+1. While the chain is
//	              a vertical column only +X, up and down are tried; in 3D −Y
//	              is refused while every residue lies in Y = 0.
//
// Pruning:
//
//   - Incumbent: a state is dropped once LowerBound ≥ best − 1e-9.
//   - Compactness: a child whose bounding perimeter (2D) or surface area (3D)
//     exceeds MinimalCompactness(N, d) + Slack is not generated. Slack < 0
//     disables the rule. The default, DefaultSlack, admits every box one
//     layer thicker than a minimal one (2 in 2D, 8 or more in 3D) and is
//     disabled above a surface. The rule is a heuristic: a chain whose
//     optimum needs a wider box is missed unless Slack is raised or disabled.
//   - Capacity: each bounded queue evicts a leaf when full. Eviction trades
//     optimality for memory; raise Capacity if results look off.
//
// Errors:
//
//   - ErrConfiguration — invalid chain or options.
//   - ErrExhausted     — every branch was pruned or evicted before completion.
//   - lattice.ErrPlacement (wrapped) — an internal placement failed; aborts the run.
//   - context errors (wrapped) — cancellation or deadline.
//
// Exhaustive enumerates every self-avoiding walk and is the reference used to
// verify Solve on short chains.
package fold
