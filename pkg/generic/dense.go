package generic

import (
	"errors"
	"fmt"
	"iter"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidArgument = errors.New("invalid argument")
)

// DefaultTrimThreshold is the minimum fraction of used capacity below which
// MaybeTrimToSize reallocates the backing array.
const DefaultTrimThreshold = 0.8

// DenseList is an index-addressable, order-preserving list with O(1) append
// and O(1) swap-with-last removal.
//
// RemoveAndReplace relocates the last element into the vacated slot, so
// positions are not stable across removals. Callers that cache positions
// must re-synchronize the moved element.
//
// DenseList is not safe for concurrent use.
type DenseList[T comparable] struct {
	data          []T
	trimThreshold float64
}

// NewDenseList creates an empty list with the given initial capacity.
func NewDenseList[T comparable](capacity int) *DenseList[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &DenseList[T]{
		data:          make([]T, 0, capacity),
		trimThreshold: DefaultTrimThreshold,
	}
}

// DenseListOf wraps items, taking ownership of the slice.
func DenseListOf[T comparable](items []T) *DenseList[T] {
	return &DenseList[T]{
		data:          items,
		trimThreshold: DefaultTrimThreshold,
	}
}

func (l *DenseList[T]) Len() int { return len(l.data) }

func (l *DenseList[T]) Cap() int { return cap(l.data) }

func (l *DenseList[T]) IsEmpty() bool { return len(l.data) == 0 }

// Add appends item at the end of the list.
func (l *DenseList[T]) Add(item T) {
	if len(l.data) == cap(l.data) {
		l.grow(len(l.data) + 1)
	}
	l.data = append(l.data, item)
}

// Get returns the item at i.
func (l *DenseList[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(l.data) {
		var zero T
		return zero, fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, len(l.data))
	}
	return l.data[i], nil
}

// At returns the item at i without a bounds check beyond the one the
// runtime performs. Use it where i is known to be valid.
func (l *DenseList[T]) At(i int) T {
	return l.data[i]
}

// Set overwrites the item at i.
func (l *DenseList[T]) Set(i int, item T) error {
	if i < 0 || i >= len(l.data) {
		return fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, len(l.data))
	}
	l.data[i] = item
	return nil
}

// RemoveAndReplace removes the item at i and moves the last item into slot i.
// It returns the removed item and the moved item. If i is the last slot the
// list is simply truncated and moved is the zero value.
func (l *DenseList[T]) RemoveAndReplace(i int) (removed, moved T, err error) {
	n := len(l.data)
	if i < 0 || i >= n {
		return removed, moved, fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, n)
	}
	removed = l.data[i]
	last := n - 1
	if i != last {
		moved = l.data[last]
		l.data[i] = moved
	}
	var zero T
	l.data[last] = zero
	l.data = l.data[:last]
	return removed, moved, nil
}

// Remove removes the item at i. Only the tail may be removed this way;
// interior removal must go through RemoveAndReplace.
func (l *DenseList[T]) Remove(i int) (T, error) {
	n := len(l.data)
	if i < 0 || i >= n {
		var zero T
		return zero, fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, n)
	}
	if i != n-1 {
		var zero T
		return zero, fmt.Errorf("%w: remove of interior index %d, size %d", ErrInvalidArgument, i, n)
	}
	removed, _, err := l.RemoveAndReplace(i)
	return removed, err
}

// IndexOf returns the first position of item, or -1.
func (l *DenseList[T]) IndexOf(item T) int {
	for i, v := range l.data {
		if v == item {
			return i
		}
	}
	return -1
}

func (l *DenseList[T]) Contains(item T) bool {
	return l.IndexOf(item) >= 0
}

// Clear removes every item, keeping the backing array.
func (l *DenseList[T]) Clear() {
	clear(l.data)
	l.data = l.data[:0]
}

// Resize sets the length to n, filling new slots with the zero value.
func (l *DenseList[T]) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative size %d", ErrInvalidArgument, n)
	}
	if n <= len(l.data) {
		clear(l.data[n:])
		l.data = l.data[:n]
		return nil
	}
	l.EnsureCapacity(n)
	l.data = l.data[:n]
	return nil
}

// EnsureCapacity reserves room for at least n items.
func (l *DenseList[T]) EnsureCapacity(n int) {
	if n > cap(l.data) {
		l.grow(n)
	}
}

func (l *DenseList[T]) TrimThreshold() float64 { return l.trimThreshold }

func (l *DenseList[T]) SetTrimThreshold(threshold float64) {
	l.trimThreshold = threshold
}

// TrimToSize shrinks the backing array to the current length.
func (l *DenseList[T]) TrimToSize() {
	if len(l.data) < cap(l.data) {
		data := make([]T, len(l.data))
		copy(data, l.data)
		l.data = data
	}
}

// MaybeTrimToSize trims when the used fraction of capacity drops below the
// trim threshold.
func (l *DenseList[T]) MaybeTrimToSize() {
	if float64(len(l.data)) < float64(cap(l.data))*l.trimThreshold {
		l.TrimToSize()
	}
}

// All iterates the items in position order.
func (l *DenseList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.data {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Slice returns a copy of the items.
func (l *DenseList[T]) Slice() []T {
	out := make([]T, len(l.data))
	copy(out, l.data)
	return out
}

func (l *DenseList[T]) grow(minCapacity int) {
	capacity := (cap(l.data)*3)/2 + 1
	if capacity < minCapacity {
		capacity = minCapacity
	}
	data := make([]T, len(l.data), capacity)
	copy(data, l.data)
	l.data = data
}
