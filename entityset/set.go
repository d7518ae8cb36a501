// Package entityset provides an ordered entity collection that can be read
// while it is being modified.
//
// Writers are serialized by a mutex and publish a fresh copy of the backing
// slice. Readers work on whichever copy was current when they started: a
// traversal never blocks a writer and is never blocked by one. Entities removed
// during a traversal may still be yielded; entities added during a traversal
// are not.
package entityset

import (
	"iter"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the minimum size for a parallel traversal.
// Below this, a single goroutine is faster.
const parallelThreshold = 64

// Set is an ordered collection of distinct entities.
// The zero value is an empty set ready for use.
type Set[T comparable] struct {
	mu   sync.Mutex
	snap atomic.Pointer[[]T]
}

// New returns a set holding items in order.
func New[T comparable](items ...T) *Set[T] {
	s := &Set[T]{}
	s.AddAll(items...)
	return s
}

// Snapshot returns the current contents. The slice must not be modified.
func (s *Set[T]) Snapshot() []T {
	if p := s.snap.Load(); p != nil {
		return *p
	}
	return nil
}

// Len returns the number of entities in the current snapshot.
func (s *Set[T]) Len() int {
	return len(s.Snapshot())
}

// At returns the i-th entity of the current snapshot.
func (s *Set[T]) At(i int) T {
	return s.Snapshot()[i]
}

// Add appends e.
func (s *Set[T]) Add(e T) {
	s.AddAll(e)
}

// AddAll appends every item in a single publication.
func (s *Set[T]) AddAll(items ...T) {
	if len(items) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.Snapshot()
	next := make([]T, len(old), len(old)+len(items))
	copy(next, old)
	next = append(next, items...)
	s.snap.Store(&next)
}

// Remove deletes e and reports whether it was present.
func (s *Set[T]) Remove(e T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.Snapshot()
	i := slices.Index(old, e)
	if i < 0 {
		return false
	}
	next := make([]T, 0, len(old)-1)
	next = append(next, old[:i]...)
	next = append(next, old[i+1:]...)
	s.snap.Store(&next)
	return true
}

// RemoveAll deletes every item and returns how many were present.
func (s *Set[T]) RemoveAll(items ...T) int {
	if len(items) == 0 {
		return 0
	}
	drop := make(map[T]struct{}, len(items))
	for _, e := range items {
		drop[e] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.Snapshot()
	next := make([]T, 0, len(old))
	for _, e := range old {
		if _, ok := drop[e]; !ok {
			next = append(next, e)
		}
	}
	s.snap.Store(&next)
	return len(old) - len(next)
}

// Contains reports whether e is in the current snapshot.
func (s *Set[T]) Contains(e T) bool {
	return slices.Contains(s.Snapshot(), e)
}

// All yields the entities of the snapshot current when iteration starts.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, e := range s.Snapshot() {
			if !yield(e) {
				return
			}
		}
	}
}

// ForEach calls fn for every entity of the current snapshot. With parallel set,
// fn runs concurrently on chunks of the snapshot and must be safe for that.
func (s *Set[T]) ForEach(fn func(T), parallel bool) {
	items := s.Snapshot()
	if !parallel || len(items) < parallelThreshold {
		for _, e := range items {
			fn(e)
		}
		return
	}
	chunked(items, func(lo, hi int) {
		for _, e := range items[lo:hi] {
			fn(e)
		}
	})
}

// Filter returns the entities of the current snapshot matching pred, in set
// order. With parallel set, pred runs concurrently.
func (s *Set[T]) Filter(pred func(T) bool, parallel bool) []T {
	items := s.Snapshot()
	if !parallel || len(items) < parallelThreshold {
		var out []T
		for _, e := range items {
			if pred(e) {
				out = append(out, e)
			}
		}
		return out
	}

	keep := make([]bool, len(items))
	chunked(items, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			keep[i] = pred(items[i])
		}
	})
	var out []T
	for i, e := range items {
		if keep[i] {
			out = append(out, e)
		}
	}
	return out
}

// chunked splits [0, len(items)) across GOMAXPROCS workers and waits for all.
// work cannot fail, so the group is only used to fan out and join.
func chunked[T any](items []T, work func(lo, hi int)) {
	workers := runtime.GOMAXPROCS(0)
	size := (len(items) + workers - 1) / workers

	var g errgroup.Group
	for lo := 0; lo < len(items); lo += size {
		hi := min(lo+size, len(items))
		g.Go(func() error {
			work(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
