package work

import "sync"

// RingBuffer keeps the most recent finished items.
type RingBuffer struct {
	mu    sync.Mutex
	items []*Item
	next  int
	full  bool
}

// NewRingBuffer creates a buffer holding at most size items.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = 1
	}
	return &RingBuffer{items: make([]*Item, size)}
}

// Push adds an item, evicting the oldest when full.
func (r *RingBuffer) Push(item *Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[r.next] = item
	r.next = (r.next + 1) % len(r.items)
	if r.next == 0 {
		r.full = true
	}
}

// Len returns the number of buffered items.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lenLocked()
}

func (r *RingBuffer) lenLocked() int {
	if r.full {
		return len(r.items)
	}
	return r.next
}

// Recent returns up to n items, newest first.
func (r *RingBuffer) Recent(n int) []*Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.lenLocked()
	if n > count {
		n = count
	}
	out := make([]*Item, 0, n)
	for i := 1; i <= n; i++ {
		idx := (r.next - i + len(r.items)) % len(r.items)
		out = append(out, r.items[idx])
	}
	return out
}

// All returns every buffered item, newest first.
func (r *RingBuffer) All() []*Item {
	return r.Recent(len(r.items))
}
