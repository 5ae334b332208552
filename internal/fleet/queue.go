package fleet

// Queue is an unbounded FIFO of values.
//
// It is not safe for concurrent use; the owning engine serialises access.
type Queue[T any] struct {
	items []T
}

// Push appends v to the back of the queue.
func (q *Queue[T]) Push(v T) {
	q.items = append(q.items, v)
}

// Pop removes and returns the front value.
// Returns (zero, false) if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	v := q.items[0]

	// Clear the slot so the backing array does not pin the value.
	q.items[0] = zero

	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return v, true
}

// Peek returns the front value without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Empty reports whether the queue holds no values.
func (q *Queue[T]) Empty() bool {
	return len(q.items) == 0
}

// Each calls fn for every value from front to back.
func (q *Queue[T]) Each(fn func(T)) {
	for _, v := range q.items {
		fn(v)
	}
}

// Clear drops every queued value and returns how many there were.
func (q *Queue[T]) Clear() int {
	n := len(q.items)
	clear(q.items)
	q.items = q.items[:0]
	return n
}
