// Package hpfold finds minimum-energy foldings of lattice proteins.
//
// A chain of typed residues (hydrophobic, polar, charged, ...) is laid out as
// a self-avoiding walk on the square (2D) or cubic (3D) lattice, optionally
// above an adsorbing surface. Energy is the sum of pair interactions between
// non-bonded lattice neighbours; the engine searches for the walk with the
// lowest total.
//
// Packages:
//
//	residue/     — residue types and the symmetric interaction table
//	polypeptide/ — an immutable chain plus per-type face counts and baselines
//	lattice/     — occupancy, incremental energy, compactness
//	pqueue/      — bounded priority queue with leaf eviction, concurrent wrapper
//	fold/        — branch-and-bound engine, worker pool, exhaustive reference
//	config/      — viper-backed configuration (YAML/JSON, HPFOLD_* env)
//	logger/      — logrus setup with optional rotating file output
//	cmd/hpfold/  — the command-line front end
//
// Quick ASCII example (HPPH on the square lattice, energy -1):
//
//	H-P
//	  |
//	H-P
//
//	go install github.com/katalvlaran/hpfold/cmd/hpfold@latest
//	hpfold fold HPPH --verify
package hpfold
