package rangeset

import (
	"github.com/iamainow/routes/net/address"
)

// Array is an immutable normalized snapshot. Every operation returns a
// new Array and leaves its receiver and operands untouched, so Arrays can
// be shared freely.
type Array struct {
	ranges []address.Range
}

// NewArray builds a snapshot from ranges in any order.
func NewArray(rs ...address.Range) Array {
	ranges := append([]address.Range(nil), rs...)
	n := Normalize(ranges)
	return Array{ranges: ranges[:n:n]}
}

func (a Array) Normalized() []address.Range { return a.ranges }
func (a Array) Len() int                    { return len(a.ranges) }
func (a Array) Count() address.Count        { return Count(a.ranges) }
func (a Array) String() string              { return format(a.ranges) }
func (a Array) Subnets() []address.Subnet   { return Subnets(a.ranges) }
func (a Array) IsEmpty() bool               { return len(a.ranges) == 0 }

func (a Array) Contains(addr address.Address) bool { return Contains(a.ranges, addr) }
func (a Array) Equal(v View) bool                  { return Equal(a.ranges, v.Normalized()) }

func (a Array) Union(v View) Array {
	b := v.Normalized()
	return a.build(UnionSize(len(a.ranges), len(b)), func(dst []address.Range) int {
		return union(dst, a.ranges, b)
	})
}

func (a Array) Except(v View) Array {
	b := v.Normalized()
	return a.build(ExceptSize(len(a.ranges), len(b)), func(dst []address.Range) int {
		return except(dst, a.ranges, b)
	})
}

func (a Array) Intersect(v View) Array {
	b := v.Normalized()
	return a.build(IntersectSize(len(a.ranges), len(b)), func(dst []address.Range) int {
		return intersect(dst, a.ranges, b)
	})
}

func (a Array) Complement() Array {
	return a.build(ComplementSize(len(a.ranges)), func(dst []address.Range) int {
		return complement(dst, a.ranges)
	})
}

func (a Array) Simplify(delta address.Count) Array {
	dst := append([]address.Range(nil), a.ranges...)
	n := Simplify(dst, delta)
	return Array{ranges: dst[:n:n]}
}

func (a Array) MinimizeSubnets(delta address.Count) []address.Subnet {
	return MinimizeSubnets(a.ranges, delta)
}

func (a Array) build(size int, sweep func(dst []address.Range) int) Array {
	dst := make([]address.Range, size)
	n := sweep(dst)
	if n < len(dst)/2 {
		dst = append([]address.Range(nil), dst[:n]...)
	}
	return Array{ranges: dst[:n:n]}
}
