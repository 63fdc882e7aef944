package rangeset

import (
	"sort"

	"github.com/iamainow/routes/net/address"
)

type byFirst []address.Range

func (a byFirst) Len() int      { return len(a) }
func (a byFirst) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byFirst) Less(i, j int) bool {
	if a[i].First != a[j].First {
		return a[i].First < a[j].First
	}
	return a[i].Last < a[j].Last
}

// Sort orders rs by First, ties by Last.
func Sort(rs []address.Range) { sort.Sort(byFirst(rs)) }

func IsSorted(rs []address.Range) bool { return sort.IsSorted(byFirst(rs)) }

// IsNormalized reports whether rs is sorted, disjoint and non-adjacent.
func IsNormalized(rs []address.Range) bool {
	for i := range rs {
		if !rs[i].Valid() {
			return false
		}
		if i > 0 && (rs[i-1].First > rs[i].First || touches(rs[i-1], rs[i])) {
			return false
		}
	}
	return true
}

// touches reports whether next starts no later than one past acc.Last.
// acc.First <= next.First is assumed.
func touches(acc, next address.Range) bool {
	return uint64(acc.Last)+1 >= uint64(next.First)
}

// Normalize sorts rs and merges overlapping or adjacent ranges in place.
// The normalized sequence is rs[:n].
func Normalize(rs []address.Range) int {
	Sort(rs)
	return NormalizeSorted(rs)
}

// NormalizeSorted is Normalize for input already sorted by First.
func NormalizeSorted(rs []address.Range) int {
	if len(rs) == 0 {
		return 0
	}
	n := 0
	for i := 1; i < len(rs); i++ {
		if touches(rs[n], rs[i]) {
			if rs[i].Last > rs[n].Last {
				rs[n].Last = rs[i].Last
			}
		} else {
			n++
			rs[n] = rs[i]
		}
	}
	return n + 1
}
