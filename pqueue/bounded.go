package pqueue

import (
	"errors"
	"fmt"
	"sort"
)

// ErrBadCapacity indicates a non-positive capacity or a missing ordering.
var ErrBadCapacity = errors.New("pqueue: capacity must be positive")

// Less reports whether a must be popped before b.
type Less[T any] func(a, b T) bool

// Bounded is a fixed-capacity min-heap with round-robin leaf eviction.
// It is not safe for concurrent use.
type Bounded[T any] struct {
	items     []T
	capacity  int
	less      Less[T]
	cursor    int // next leaf to overwrite, relative to the first leaf
	evictions uint64
}

// NewBounded returns an empty queue holding at most capacity elements.
//
// Errors: ErrBadCapacity if capacity ≤ 0 or less is nil.
func NewBounded[T any](capacity int, less Less[T]) (*Bounded[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadCapacity, capacity)
	}
	if less == nil {
		return nil, fmt.Errorf("%w: nil ordering", ErrBadCapacity)
	}

	return &Bounded[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
		less:     less,
	}, nil
}

// Push inserts x. When the queue is full, x overwrites the next leaf in
// round-robin order and the overwritten element is dropped; Push then reports
// true.
//
// Complexity: O(log C).
func (q *Bounded[T]) Push(x T) (evicted bool) {
	if len(q.items) < q.capacity {
		q.items = append(q.items, x)
		q.up(len(q.items) - 1)

		return false
	}

	first := q.capacity / 2
	leaves := q.capacity - first
	slot := first + q.cursor
	q.cursor = (q.cursor + 1) % leaves
	q.items[slot] = x
	q.evictions++
	// A leaf has no children: restoring order only ever means sifting up.
	q.up(slot)

	return true
}

// Peek returns the minimum without removing it.
func (q *Bounded[T]) Peek() (T, bool) {
	if len(q.items) == 0 {
		var zero T

		return zero, false
	}

	return q.items[0], true
}

// Pop removes and returns the minimum. An empty queue yields (zero, false).
//
// Complexity: O(log C).
func (q *Bounded[T]) Pop() (T, bool) {
	var zero T
	n := len(q.items)
	if n == 0 {
		return zero, false
	}
	top := q.items[0]
	q.items[0] = q.items[n-1]
	q.items[n-1] = zero // release for GC
	q.items = q.items[:n-1]
	if n > 1 {
		q.down(0)
	}

	return top, true
}

// Len returns the number of retained elements.
func (q *Bounded[T]) Len() int { return len(q.items) }

// Cap returns the fixed capacity.
func (q *Bounded[T]) Cap() int { return q.capacity }

// IsEmpty reports whether Len() == 0.
func (q *Bounded[T]) IsEmpty() bool { return len(q.items) == 0 }

// Evictions returns how many elements were dropped by capacity since creation.
func (q *Bounded[T]) Evictions() uint64 { return q.evictions }

// Clear drops every element. Capacity and eviction count are kept.
func (q *Bounded[T]) Clear() {
	var zero T
	for i := range q.items {
		q.items[i] = zero
	}
	q.items = q.items[:0]
	q.cursor = 0
}

// Sorted returns a sorted copy of the retained elements. The queue is left
// untouched. Meant for diagnostics and tests, not the search hot path.
func (q *Bounded[T]) Sorted() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	sort.SliceStable(out, func(i, j int) bool { return q.less(out[i], out[j]) })

	return out
}

func (q *Bounded[T]) up(i int) {
	var parent int
	for i > 0 {
		parent = (i - 1) / 2
		if !q.less(q.items[i], q.items[parent]) {
			return
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

func (q *Bounded[T]) down(i int) {
	var (
		n        = len(q.items)
		l, r, sm int
	)
	for {
		l = 2*i + 1
		if l >= n {
			return
		}
		sm = l
		if r = l + 1; r < n && q.less(q.items[r], q.items[l]) {
			sm = r
		}
		if !q.less(q.items[sm], q.items[i]) {
			return
		}
		q.items[i], q.items[sm] = q.items[sm], q.items[i]
		i = sm
	}
}
