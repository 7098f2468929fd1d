package sequence

import "iter"

// Iterator is a chainable, lazily evaluated sequence of T.
type Iterator[T any] struct {
	seq iter.Seq[T]
}

// From creates an Iterator over a slice.
func From[T any](data []T) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for _, v := range data {
				if !yield(v) {
					return
				}
			}
		},
	}
}

// FromSeq wraps an iter.Seq.
func FromSeq[T any](seq iter.Seq[T]) *Iterator[T] {
	return &Iterator[T]{seq: seq}
}

// Indexed creates an Iterator over positions [0, n) of an index-addressable
// collection. n is read once, when iteration starts.
func Indexed[T any](n func() int, at func(int) T) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			count := n()
			for i := 0; i < count; i++ {
				if !yield(at(i)) {
					return
				}
			}
		},
	}
}

// Seq returns the underlying sequence.
func (i *Iterator[T]) Seq() iter.Seq[T] {
	return i.seq
}

// Pull converts the iterator into a pull-style next/stop pair.
func (i *Iterator[T]) Pull() (next func() (T, bool), stop func()) {
	return iter.Pull(i.seq)
}

// Collect exhausts the iterator and returns all elements.
func (i *Iterator[T]) Collect() []T {
	var out []T
	i.seq(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Filter keeps the elements matching pred.
func (i *Iterator[T]) Filter(pred func(T) bool) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			i.seq(func(v T) bool {
				if pred(v) {
					return yield(v)
				}
				return true
			})
		},
	}
}

// Each calls action for every element.
func (i *Iterator[T]) Each(action func(T)) {
	i.seq(func(v T) bool {
		action(v)
		return true
	})
}

// Find returns the first element matching pred.
func (i *Iterator[T]) Find(pred func(T) bool) (T, bool) {
	var (
		found T
		ok    bool
	)
	i.seq(func(v T) bool {
		if pred(v) {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

// Count exhausts the iterator and returns the number of elements.
func (i *Iterator[T]) Count() int {
	n := 0
	i.seq(func(T) bool {
		n++
		return true
	})
	return n
}

// Map transforms every element of it with fn.
func Map[T, R any](it *Iterator[T], fn func(T) R) *Iterator[R] {
	return &Iterator[R]{
		seq: func(yield func(R) bool) {
			it.seq(func(v T) bool {
				return yield(fn(v))
			})
		},
	}
}

// Sum adds up the values fn extracts from each element.
func Sum[T any](it *Iterator[T], fn func(T) int) int {
	total := 0
	it.Each(func(v T) { total += fn(v) })
	return total
}
