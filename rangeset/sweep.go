package rangeset

import (
	"github.com/iamainow/routes/net/address"
)

// Buffer sizes. Each is the largest number of ranges the operation can
// produce from inputs of n1 and n2 ranges.

func UnionSize(n1, n2 int) int  { return n1 + n2 }
func ExceptSize(n1, n2 int) int { return n1 + n2 }

// IntersectSize: every output range ends where one of the inputs ends, and
// the last such end is shared by both inputs, so at most n1+n2-1 ranges.
func IntersectSize(n1, n2 int) int {
	if n1 == 0 || n2 == 0 {
		return 0
	}
	return n1 + n2 - 1
}

func ComplementSize(n int) int { return n + 1 }

// The sweeps below write into dst and return the number of ranges written.
// dst may share memory with a only when a is the tail of dst, that is
// a == dst[len(dst)-len(a):], and len(dst) is at least the size formula:
// the write position then never overtakes the next unread range of a.

// Union writes the union of a and b to dst. Both inputs must be sorted;
// they need not be coalesced.
func Union(dst, a, b []address.Range) (int, error) {
	if err := checkCapacity("union", UnionSize(len(a), len(b)), len(dst)); err != nil {
		return 0, err
	}
	return union(dst, a, b), nil
}

// Except writes the addresses of a that are not in b to dst. a must be
// normalized, b only sorted.
func Except(dst, a, b []address.Range) (int, error) {
	if err := checkCapacity("except", ExceptSize(len(a), len(b)), len(dst)); err != nil {
		return 0, err
	}
	return except(dst, a, b), nil
}

// Intersect writes the addresses in both a and b to dst. Both inputs must
// be normalized.
func Intersect(dst, a, b []address.Range) (int, error) {
	if err := checkCapacity("intersect", IntersectSize(len(a), len(b)), len(dst)); err != nil {
		return 0, err
	}
	return intersect(dst, a, b), nil
}

// Complement writes the addresses not in the normalized a to dst.
func Complement(dst, a []address.Range) (int, error) {
	if err := checkCapacity("complement", ComplementSize(len(a)), len(dst)); err != nil {
		return 0, err
	}
	return complement(dst, a), nil
}

type sweepFunc func(dst, a, b []address.Range) int

func union(dst, a, b []address.Range) int {
	var (
		n, i, j int
		acc     address.Range
		have    bool
	)
	for i < len(a) || j < len(b) {
		var next address.Range
		if j >= len(b) || (i < len(a) && a[i].First <= b[j].First) {
			next = a[i]
			i++
		} else {
			next = b[j]
			j++
		}
		switch {
		case !have:
			acc, have = next, true
		case touches(acc, next):
			if next.Last > acc.Last {
				acc.Last = next.Last
			}
		default:
			dst[n] = acc
			n++
			acc = next
		}
	}
	if have {
		dst[n] = acc
		n++
	}
	return n
}

func except(dst, a, b []address.Range) int {
	n, j := 0, 0
	for _, r := range a {
		for j < len(b) && b[j].Last < r.First {
			j++
		}
		cur, last := uint64(r.First), uint64(r.Last)
		for k := j; k < len(b) && uint64(b[k].First) <= last && cur <= last; k++ {
			if uint64(b[k].First) > cur {
				dst[n] = address.Range{First: address.Address(cur), Last: b[k].First - 1}
				n++
			}
			if end := uint64(b[k].Last) + 1; end > cur {
				cur = end
			}
		}
		if cur <= last {
			dst[n] = address.Range{First: address.Address(cur), Last: r.Last}
			n++
		}
	}
	return n
}

func intersect(dst, a, b []address.Range) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n, i, j := 0, 0, 0
	x, y := a[0], b[0]
	for {
		if r, ok := x.Intersect(y); ok {
			dst[n] = r
			n++
		}
		if x.Last < y.Last {
			if i++; i == len(a) {
				return n
			}
			x = a[i]
		} else {
			if j++; j == len(b) {
				return n
			}
			y = b[j]
		}
	}
}

func complement(dst, a []address.Range) int {
	n := 0
	next := uint64(address.MinAddress)
	for _, r := range a {
		if uint64(r.First) > next {
			dst[n] = address.Range{First: address.Address(next), Last: r.First - 1}
			n++
		}
		next = uint64(r.Last) + 1
	}
	if next <= uint64(address.MaxAddress) {
		dst[n] = address.Range{First: address.Address(next), Last: address.MaxAddress}
		n++
	}
	return n
}

// inPlace moves the first n ranges of buf to its tail and sweeps them
// against b back into the front of buf. len(buf) must be the size formula
// of op for n and len(b).
func inPlace(buf []address.Range, n int, b []address.Range, op sweepFunc) int {
	off := len(buf) - n
	copy(buf[off:], buf[:n])
	return op(buf, buf[off:], b)
}

// Strategy selects how operations on unsorted input prepare their operands.
type Strategy int

const (
	// NormalizeFirst fully normalizes both operands before the sweep.
	NormalizeFirst Strategy = iota
	// SortFirst only sorts the operands and lets the sweep coalesce them.
	SortFirst
)

func (s Strategy) String() string {
	switch s {
	case NormalizeFirst:
		return "normalize-first"
	case SortFirst:
		return "sort-first"
	}
	return "unknown"
}

// UnionUnsorted is Union for operands in any order. a and b are reordered
// in place. The buffer contract is UnionSize(len(a), len(b)) whatever
// the strategy.
func UnionUnsorted(dst, a, b []address.Range, s Strategy) (int, error) {
	if err := checkCapacity("union", UnionSize(len(a), len(b)), len(dst)); err != nil {
		return 0, err
	}
	switch s {
	case SortFirst:
		Sort(a)
		Sort(b)
		return union(dst, a, b), nil
	default:
		n1, n2 := Normalize(a), Normalize(b)
		return union(dst, a[:n1], b[:n2]), nil
	}
}

// ExceptUnsorted is Except for operands in any order. a and b are
// reordered in place.
func ExceptUnsorted(dst, a, b []address.Range, s Strategy) (int, error) {
	if err := checkCapacity("except", ExceptSize(len(a), len(b)), len(dst)); err != nil {
		return 0, err
	}
	switch s {
	case SortFirst:
		Sort(a)
		Sort(b)
		n1 := NormalizeSorted(a)
		return except(dst, a[:n1], b), nil
	default:
		n1, n2 := Normalize(a), Normalize(b)
		return except(dst, a[:n1], b[:n2]), nil
	}
}
