// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package gate

// Deque is a growable ring buffer supporting O(1) push and pop at both ends.
// It is not safe for concurrent use; Gate guards it with its own mutex.
type Deque[T any] struct {
	buf  []T
	head int // index of the front element
	n    int
}

// Len returns the number of queued elements.
func (d *Deque[T]) Len() int {
	return d.n
}

// PushBack appends v behind every queued element.
func (d *Deque[T]) PushBack(v T) {
	d.grow()
	d.buf[(d.head+d.n)%len(d.buf)] = v
	d.n++
}

// PushFront places v ahead of every queued element.
func (d *Deque[T]) PushFront(v T) {
	d.grow()
	d.head = (d.head - 1 + len(d.buf)) % len(d.buf)
	d.buf[d.head] = v
	d.n++
}

// PopFront removes and returns the front element.
func (d *Deque[T]) PopFront() (T, bool) {
	var zero T
	if d.n == 0 {
		return zero, false
	}
	v := d.buf[d.head]
	d.buf[d.head] = zero
	d.head = (d.head + 1) % len(d.buf)
	d.n--
	return v, true
}

// Drain removes and returns every element in front-to-back order.
func (d *Deque[T]) Drain() []T {
	out := make([]T, 0, d.n)
	for d.n > 0 {
		v, _ := d.PopFront()
		out = append(out, v)
	}
	return out
}

func (d *Deque[T]) grow() {
	if d.n < len(d.buf) {
		return
	}
	size := len(d.buf) * 2
	if size == 0 {
		size = 16
	}
	buf := make([]T, size)
	for i := 0; i < d.n; i++ {
		buf[i] = d.buf[(d.head+i)%len(d.buf)]
	}
	d.buf = buf
	d.head = 0
}
