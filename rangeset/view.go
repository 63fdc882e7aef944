package rangeset

import (
	"sort"
	"strings"

	"github.com/iamainow/routes/net/address"
)

// View is implemented by every container. Normalized returns the
// normalized sequence held by the container; callers must not modify it,
// and it is only valid until the container is next mutated.
type View interface {
	Normalized() []address.Range
}

// Ranges adapts a slice that is already normalized to a View.
type Ranges []address.Range

func (r Ranges) Normalized() []address.Range { return r }

// Count returns the number of addresses in the normalized rs.
func Count(rs []address.Range) address.Count {
	var total address.Count
	for _, r := range rs {
		total += r.Count()
	}
	return total
}

// Contains reports whether addr is in the normalized rs.
func Contains(rs []address.Range, addr address.Address) bool {
	i := sort.Search(len(rs), func(i int) bool { return rs[i].Last >= addr })
	return i < len(rs) && rs[i].First <= addr
}

// Equal compares two normalized sequences.
func Equal(a, b []address.Range) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Subnets concatenates the CIDR decompositions of the normalized rs.
func Subnets(rs []address.Range) []address.Subnet {
	n := 0
	for _, r := range rs {
		n += r.NumSubnets()
	}
	subnets := make([]address.Subnet, 0, n)
	for _, r := range rs {
		subnets = r.AppendSubnets(subnets)
	}
	return subnets
}

func format(rs []address.Range) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range rs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.String())
	}
	b.WriteByte(']')
	return b.String()
}
