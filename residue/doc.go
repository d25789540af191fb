// Package residue defines the monomer alphabet of the HP lattice model and the
// immutable, symmetric pairwise interaction table used to score foldings.
//
// What:
//
//   - Type enumerates residue labels: Hydrophobic (H), Polar (P), Positive (+),
//     Negative (-), Neutral (N), Surface (S), plus the Solvent pseudo-type that
//     stands for every empty lattice cell.
//   - Table maps an unordered pair of types to an interaction energy. Pairs
//     without an entry interact with energy 0.
//
// Why:
//
//   - Energies are looked up on every lattice placement, so a Table is a flat,
//     read-only array indexed by type pair. It is built once and shared by all
//     search workers without locking.
//
// Presets:
//
//   - HP():        H–H = −1, everything else 0 (the classic Dill model).
//   - Charged():   HP plus +/+ and −/− repulsion (+1) and +/− attraction (−1).
//   - SurfaceHP(): HP plus an H–Surface interaction for surface adsorption runs.
//
// Errors:
//
//   - ErrUnknownType: a rune or Type value outside the alphabet.
package residue
