// Package pqueue provides the two priority structures of the folding search.
//
// Bounded is a binary min-heap over a fixed backing array. Once full, a push
// overwrites one leaf slot, chosen round-robin over the leaf positions, and
// sifts the newcomer up. The frontier of one search worker therefore never
// exceeds its capacity: memory stays flat while the branch-and-bound frontier
// grows combinatorially, and a displaced mid-quality state is lost for good.
// Capacities of the form 2ⁿ−1 give a complete tree whose leaves are exactly
// the bottom level.
//
// Concurrent is an unbounded, mutex-guarded min-heap for many producers and
// consumers. The search uses it for the shared seed frontier, which holds
// O(N) entries (O(N²) with a surface).
//
// Complexity:
//
//   - Push / Pop:  O(log C)
//   - Peek / Len:  O(1)
//   - Sorted:      O(C log C), diagnostics only.
//
// Errors:
//
//   - ErrBadCapacity: capacity ≤ 0 or nil ordering function.
package pqueue
