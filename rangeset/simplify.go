package rangeset

import (
	"github.com/iamainow/routes/net/address"
)

// Simplify trades exactness for fewer ranges. It works in place on the
// normalized rs and returns the new length.
//
// At each step the smallest range and the smallest gap (a range of the
// complement, including the ones before the first and after the last
// range) are compared. The smaller one, if no larger than delta, is
// dropped: a range is removed, a gap is filled. Ties go to the range, then
// to the lowest address. The loop stops when neither is within delta.
func Simplify(rs []address.Range, delta address.Count) int {
	n := len(rs)
	for n > 0 {
		ri, rsize := smallestRange(rs[:n])
		gi, gsize := smallestGap(rs[:n])
		switch {
		case rsize <= gsize && rsize <= delta:
			copy(rs[ri:], rs[ri+1:n])
			n--
		case gsize < rsize && gsize <= delta:
			switch gi {
			case 0:
				rs[0].First = address.MinAddress
			case n:
				rs[n-1].Last = address.MaxAddress
			default:
				rs[gi-1].Last = rs[gi].Last
				copy(rs[gi:], rs[gi+1:n])
				n--
			}
		default:
			return n
		}
	}
	return 0
}

func smallestRange(rs []address.Range) (int, address.Count) {
	idx, size := 0, rs[0].Count()
	for i := 1; i < len(rs); i++ {
		if c := rs[i].Count(); c < size {
			idx, size = i, c
		}
	}
	return idx, size
}

// smallestGap returns the gap before rs[i] (i == len(rs) for the trailing
// one) with the fewest addresses. Without any gap the size is larger than
// any range.
func smallestGap(rs []address.Range) (int, address.Count) {
	idx, size := -1, address.Total+1
	consider := func(i int, c address.Count) {
		if c < size {
			idx, size = i, c
		}
	}
	if rs[0].First > address.MinAddress {
		consider(0, address.Count(rs[0].First))
	}
	for i := 1; i < len(rs); i++ {
		consider(i, address.Count(rs[i].First)-address.Count(rs[i-1].Last)-1)
	}
	if last := rs[len(rs)-1].Last; last < address.MaxAddress {
		consider(len(rs), address.Count(address.MaxAddress-last))
	}
	return idx, size
}

// MinimizeSubnets decomposes the normalized rs and drops every subnet of
// delta addresses or fewer.
func MinimizeSubnets(rs []address.Range, delta address.Count) []address.Subnet {
	subnets := Subnets(rs)
	n := 0
	for _, s := range subnets {
		if s.Size() > delta {
			subnets[n] = s
			n++
		}
	}
	return subnets[:n]
}
