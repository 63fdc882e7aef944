package rangeset

import (
	"sort"

	"github.com/iamainow/routes/net/address"
)

// Set is a growable normalized set of ranges, mutated in place.
// A Set is not safe for concurrent mutation.
type Set struct {
	ranges []address.Range
}

// NewSet builds a set from ranges in any order.
func NewSet(rs ...address.Range) *Set {
	ranges := append([]address.Range(nil), rs...)
	return &Set{ranges: ranges[:Normalize(ranges)]}
}

func (s *Set) Normalized() []address.Range { return s.ranges }
func (s *Set) Len() int                    { return len(s.ranges) }
func (s *Set) Count() address.Count        { return Count(s.ranges) }
func (s *Set) String() string              { return format(s.ranges) }
func (s *Set) Subnets() []address.Subnet   { return Subnets(s.ranges) }
func (s *Set) IsEmpty() bool               { return len(s.ranges) == 0 }

func (s *Set) Contains(addr address.Address) bool { return Contains(s.ranges, addr) }
func (s *Set) Equal(v View) bool                  { return Equal(s.ranges, v.Normalized()) }

// Ranges returns a copy of the normalized sequence.
func (s *Set) Ranges() []address.Range {
	return append([]address.Range(nil), s.ranges...)
}

func (s *Set) Clone() *Set {
	return &Set{ranges: s.Ranges()}
}

// Insert adds r to the set. Only the ranges touching r are merged; the
// rest of the set is shifted at most once.
func (s *Set) Insert(r address.Range) {
	// i: first range that ends no earlier than one before r.First
	i := sort.Search(len(s.ranges), func(i int) bool {
		return uint64(s.ranges[i].Last)+1 >= uint64(r.First)
	})
	// j: first range that starts after one past r.Last
	j := i + sort.Search(len(s.ranges)-i, func(k int) bool {
		return uint64(s.ranges[i+k].First) > uint64(r.Last)+1
	})
	if i < j {
		r.First = address.Min(r.First, s.ranges[i].First)
		r.Last = address.Max(r.Last, s.ranges[j-1].Last)
		s.ranges[i] = r
		s.ranges = append(s.ranges[:i+1], s.ranges[j:]...)
		return
	}
	s.ranges = append(s.ranges, address.Range{})
	copy(s.ranges[i+1:], s.ranges[i:])
	s.ranges[i] = r
}

// Remove takes the addresses of r out of the set.
func (s *Set) Remove(r address.Range) {
	b := [1]address.Range{r}
	s.apply(b[:], ExceptSize(len(s.ranges), 1), except)
}

func (s *Set) Union(v View) {
	if v == View(s) {
		return
	}
	b := v.Normalized()
	s.apply(b, UnionSize(len(s.ranges), len(b)), union)
}

// UnionRanges adds ranges in any order.
func (s *Set) UnionRanges(rs ...address.Range) {
	b := append([]address.Range(nil), rs...)
	b = b[:Normalize(b)]
	s.apply(b, UnionSize(len(s.ranges), len(b)), union)
}

func (s *Set) Except(v View) {
	if v == View(s) {
		s.ranges = s.ranges[:0]
		return
	}
	b := v.Normalized()
	s.apply(b, ExceptSize(len(s.ranges), len(b)), except)
}

// ExceptRanges removes ranges in any order.
func (s *Set) ExceptRanges(rs ...address.Range) {
	b := append([]address.Range(nil), rs...)
	Sort(b)
	s.apply(b, ExceptSize(len(s.ranges), len(b)), except)
}

func (s *Set) Intersect(v View) {
	if v == View(s) {
		return
	}
	b := v.Normalized()
	s.apply(b, IntersectSize(len(s.ranges), len(b)), intersect)
}

// Complement replaces the set with the addresses it does not hold.
func (s *Set) Complement() {
	s.apply(nil, ComplementSize(len(s.ranges)), func(dst, a, _ []address.Range) int {
		return complement(dst, a)
	})
}

// Simplify applies Simplify to the set.
func (s *Set) Simplify(delta address.Count) {
	s.ranges = s.ranges[:Simplify(s.ranges, delta)]
}

func (s *Set) MinimizeSubnets(delta address.Count) []address.Subnet {
	return MinimizeSubnets(s.ranges, delta)
}

// apply runs op in the set's own storage, growing it to the size formula
// first when needed.
func (s *Set) apply(b []address.Range, need int, op sweepFunc) {
	n := len(s.ranges)
	if need < n {
		need = n
	}
	buf := s.ranges[:cap(s.ranges)]
	if len(buf) < need {
		buf = make([]address.Range, need)
		copy(buf, s.ranges)
	}
	s.ranges = buf[:inPlace(buf[:need], n, b, op)]
}
