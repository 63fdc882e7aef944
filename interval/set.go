package interval

import (
	"slices"
	"sort"
	"strings"
)

// Set keeps a normalized sequence of intervals: sorted, disjoint and
// separated by at least one value.
type Set[T Discrete[T]] struct {
	intervals []Interval[T]
}

func NewSet[T Discrete[T]](xs ...Interval[T]) *Set[T] {
	intervals := slices.Clone(xs)
	return &Set[T]{intervals: intervals[:Normalize(intervals)]}
}

func (s *Set[T]) Len() int { return len(s.intervals) }

// Intervals returns a copy of the normalized sequence.
func (s *Set[T]) Intervals() []Interval[T] { return slices.Clone(s.intervals) }

// Insert merges x with every interval it overlaps or touches.
func (s *Set[T]) Insert(x Interval[T]) {
	i := sort.Search(len(s.intervals), func(k int) bool {
		return !s.intervals[k].endsBefore(x.First)
	})
	j := i + sort.Search(len(s.intervals)-i, func(k int) bool {
		return s.intervals[i+k].startsAfter(x.Last)
	})
	if i < j {
		if first := s.intervals[i].First; first.Compare(x.First) < 0 {
			x.First = first
		}
		if last := s.intervals[j-1].Last; last.Compare(x.Last) > 0 {
			x.Last = last
		}
	}
	s.intervals = slices.Replace(s.intervals, i, j, x)
}

// Remove takes the values of x out of the set, splitting an interval that
// strictly contains it.
func (s *Set[T]) Remove(x Interval[T]) {
	i := sort.Search(len(s.intervals), func(k int) bool {
		return s.intervals[k].Last.Compare(x.First) >= 0
	})
	j := i + sort.Search(len(s.intervals)-i, func(k int) bool {
		return s.intervals[i+k].First.Compare(x.Last) > 0
	})
	if i == j {
		return
	}
	var keep []Interval[T]
	if left := s.intervals[i]; left.First.Compare(x.First) < 0 {
		left.Last, _ = x.First.Predecessor()
		keep = append(keep, left)
	}
	if right := s.intervals[j-1]; right.Last.Compare(x.Last) > 0 {
		right.First, _ = x.Last.Successor()
		keep = append(keep, right)
	}
	s.intervals = slices.Replace(s.intervals, i, j, keep...)
}

func (s *Set[T]) Contains(v T) bool {
	i := sort.Search(len(s.intervals), func(k int) bool {
		return s.intervals[k].Last.Compare(v) >= 0
	})
	return i < len(s.intervals) && s.intervals[i].First.Compare(v) <= 0
}

func (s *Set[T]) Union(other *Set[T]) {
	if other == s {
		return
	}
	for _, x := range other.intervals {
		s.Insert(x)
	}
}

func (s *Set[T]) Except(other *Set[T]) {
	if other == s {
		s.intervals = s.intervals[:0]
		return
	}
	for _, x := range other.intervals {
		s.Remove(x)
	}
}

func (s *Set[T]) String() string {
	parts := make([]string, len(s.intervals))
	for i, x := range s.intervals {
		parts[i] = x.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
