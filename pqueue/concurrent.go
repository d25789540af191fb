package pqueue

import (
	"container/heap"
	"fmt"
	"sync"
)

// Concurrent is an unbounded min-heap safe for concurrent Push/Pop.
type Concurrent[T any] struct {
	mu sync.Mutex
	h  heapSlice[T]
}

// NewConcurrent returns an empty queue ordered by less.
//
// Errors: ErrBadCapacity if less is nil.
func NewConcurrent[T any](less Less[T]) (*Concurrent[T], error) {
	if less == nil {
		return nil, fmt.Errorf("%w: nil ordering", ErrBadCapacity)
	}

	return &Concurrent[T]{h: heapSlice[T]{less: less}}, nil
}

// Push inserts x.
func (q *Concurrent[T]) Push(x T) {
	q.mu.Lock()
	heap.Push(&q.h, x)
	q.mu.Unlock()
}

// Pop removes and returns the minimum; (zero, false) when empty.
func (q *Concurrent[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.h.items) == 0 {
		var zero T

		return zero, false
	}

	return heap.Pop(&q.h).(T), true
}

// Peek returns the minimum without removing it.
func (q *Concurrent[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.h.items) == 0 {
		var zero T

		return zero, false
	}

	return q.h.items[0], true
}

// Len returns the number of queued elements.
func (q *Concurrent[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.h.items)
}

// heapSlice adapts a slice and an ordering to container/heap.
type heapSlice[T any] struct {
	items []T
	less  Less[T]
}

func (h heapSlice[T]) Len() int           { return len(h.items) }
func (h heapSlice[T]) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }
func (h heapSlice[T]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *heapSlice[T]) Push(x any) { h.items = append(h.items, x.(T)) }

func (h *heapSlice[T]) Pop() any {
	var zero T
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = zero
	h.items = old[:n-1]

	return item
}
