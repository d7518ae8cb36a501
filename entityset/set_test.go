package entityset

import (
	"slices"
	"sync"
	"sync/atomic"
	"testing"
)

type item struct{ id int }

func TestAddRemove(t *testing.T) {
	a, b, c := &item{1}, &item{2}, &item{3}
	s := New(a, b)
	s.Add(c)

	if s.Len() != 3 {
		t.Fatalf("len: got %d, want 3", s.Len())
	}
	if !s.Remove(b) {
		t.Error("Remove(b) should report true")
	}
	if s.Remove(b) {
		t.Error("second Remove(b) should report false")
	}
	if got := s.Snapshot(); !slices.Equal(got, []*item{a, c}) {
		t.Errorf("got %v, want [a c]", got)
	}
	if s.At(1) != c {
		t.Error("At(1) should be c")
	}
}

func TestZeroValue(t *testing.T) {
	var s Set[int]
	if s.Len() != 0 {
		t.Errorf("len: got %d, want 0", s.Len())
	}
	for range s.All() {
		t.Fatal("empty set should yield nothing")
	}
	if s.Remove(1) {
		t.Error("Remove on empty set should report false")
	}
}

func TestRemoveAll(t *testing.T) {
	s := New(1, 2, 3, 4, 5)
	if n := s.RemoveAll(2, 4, 9); n != 2 {
		t.Errorf("removed: got %d, want 2", n)
	}
	if got := s.Snapshot(); !slices.Equal(got, []int{1, 3, 5}) {
		t.Errorf("got %v, want [1 3 5]", got)
	}
}

func TestMutationDuringIteration(t *testing.T) {
	s := New(1, 2, 3)

	var seen []int
	for v := range s.All() {
		seen = append(seen, v)
		if v == 1 {
			s.Remove(3) // removed but still yielded
			s.Add(4)    // added but not yielded
		}
	}

	if !slices.Equal(seen, []int{1, 2, 3}) {
		t.Errorf("traversal: got %v, want [1 2 3]", seen)
	}
	if got := s.Snapshot(); !slices.Equal(got, []int{1, 2, 4}) {
		t.Errorf("after: got %v, want [1 2 4]", got)
	}
}

func TestIterationStopsEarly(t *testing.T) {
	s := New(1, 2, 3)
	n := 0
	for range s.All() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("got %d iterations, want 1", n)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	items := make([]int, 1000)
	for i := range items {
		items[i] = i
	}
	s := New(items...)

	even := func(v int) bool { return v%2 == 0 }
	seq := s.Filter(even, false)
	par := s.Filter(even, true)

	if len(seq) != 500 {
		t.Fatalf("len: got %d, want 500", len(seq))
	}
	if !slices.Equal(seq, par) {
		t.Error("parallel filter differs from sequential")
	}
}

func TestForEachParallelVisitsAll(t *testing.T) {
	items := make([]int, 500)
	for i := range items {
		items[i] = i + 1
	}
	s := New(items...)

	var sum atomic.Int64
	s.ForEach(func(v int) { sum.Add(int64(v)) }, true)
	if sum.Load() != 500*501/2 {
		t.Errorf("got %d, want %d", sum.Load(), 500*501/2)
	}
}

func TestConcurrentWriters(t *testing.T) {
	var s Set[int]
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Add(base*1000 + i)
				for range s.All() {
				}
			}
		}(w)
	}
	wg.Wait()

	if s.Len() != 800 {
		t.Errorf("len: got %d, want 800", s.Len())
	}
}
