package models

// RingBuffer is a fixed-capacity, append-only sequence. Once full, every
// push drops the oldest entry.
type RingBuffer[T any] struct {
	items []T
	start int
	size  int
}

// Push appends item and reports whether the oldest entry was dropped to make room.
func (r *RingBuffer[T]) Push(item T) bool {
	capacity := len(r.items)
	if r.size < capacity {
		r.items[(r.start+r.size)%capacity] = item
		r.size++
		return false
	}

	r.items[r.start] = item
	r.start = (r.start + 1) % capacity
	return true
}

// Items returns a copy of the contents, oldest first.
func (r *RingBuffer[T]) Items() []T {
	result := make([]T, 0, r.size)
	for i := 0; i < r.size; i++ {
		result = append(result, r.items[(r.start+i)%len(r.items)])
	}

	return result
}

func (r *RingBuffer[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	return r.items[(r.start+r.size-1)%len(r.items)], true
}

func (r *RingBuffer[T]) Len() int {
	return r.size
}

func (r *RingBuffer[T]) Cap() int {
	return len(r.items)
}

func (r *RingBuffer[T]) Clear() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}

	r.start = 0
	r.size = 0
}

func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &RingBuffer[T]{
		items: make([]T, capacity),
	}
}
