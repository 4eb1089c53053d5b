package logger

// Ring keeps the most recent items up to a fixed capacity.
type Ring[T any] struct {
	items []T
	next  int // next write position
	size  int
}

// NewRing creates a ring holding at most capacity items.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{items: make([]T, max(capacity, 1))}
}

// Push appends an item, overwriting the oldest one when full.
func (r *Ring[T]) Push(item T) {
	r.items[r.next] = item
	r.next = (r.next + 1) % len(r.items)
	r.size = min(r.size+1, len(r.items))
}

// Items returns the held items, oldest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, 0, r.size)
	start := (r.next - r.size + len(r.items)) % len(r.items)
	for i := range r.size {
		out = append(out, r.items[(start+i)%len(r.items)])
	}
	return out
}

// Len returns the number of held items.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int {
	return len(r.items)
}
