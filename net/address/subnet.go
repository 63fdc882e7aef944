package address

import (
	"fmt"
	"math/bits"
	"net"

	"github.com/pkg/errors"
)

// Mask is a prefix length, 0..32.
type Mask uint8

func NewMask(prefixLen int) (Mask, error) {
	if prefixLen < 0 || prefixLen > 32 {
		return 0, errors.Wrapf(ErrInvalidMask, "/%d", prefixLen)
	}
	return Mask(prefixLen), nil
}

// Ordinal returns the mask as a 32-bit value with the top PrefixLen bits set.
func (m Mask) Ordinal() uint32 { return ^uint32(0) << (32 - uint(m)) }
func (m Mask) Size() Count      { return 1 << (32 - uint(m)) }
func (m Mask) PrefixLen() int   { return int(m) }
func (m Mask) String() string   { return Address(m.Ordinal()).String() }

// Subnet is a CIDR block: a range whose base is aligned to the block size.
type Subnet struct {
	Base Address
	Mask Mask
}

func NewSubnet(base Address, mask Mask) (Subnet, error) {
	if mask > 32 {
		return Subnet{}, errors.Wrapf(ErrInvalidMask, "/%d", mask)
	}
	if uint32(base)&^mask.Ordinal() != 0 {
		return Subnet{}, errors.Wrapf(ErrUnaligned, "%s/%d", base, mask)
	}
	return Subnet{Base: base, Mask: mask}, nil
}

func (s Subnet) Size() Count    { return s.Mask.Size() }
func (s Subnet) First() Address { return s.Base }
func (s Subnet) Last() Address  { return s.Base | Address(^s.Mask.Ordinal()) }
func (s Subnet) Range() Range   { return Range{First: s.First(), Last: s.Last()} }
func (s Subnet) String() string { return fmt.Sprintf("%s/%d", s.Base, s.Mask) }

func (s Subnet) Contains(addr Address) bool {
	return uint32(addr)&s.Mask.Ordinal() == uint32(s.Base)
}

func (s Subnet) IPNet() *net.IPNet {
	return &net.IPNet{IP: s.Base.IP4(), Mask: net.CIDRMask(int(s.Mask), 32)}
}

// FromIPNet converts an IPv4 network; host bits must be zero.
func FromIPNet(n *net.IPNet) (Subnet, error) {
	if n == nil || n.IP.To4() == nil {
		return Subnet{}, &net.ParseError{Type: "Non-IPv4 address not supported", Text: fmt.Sprint(n)}
	}
	ones, size := n.Mask.Size()
	if size != 32 {
		return Subnet{}, &net.ParseError{Type: "Non-IPv4 mask not supported", Text: n.String()}
	}
	return NewSubnet(FromIP4(n.IP), Mask(ones))
}

// ParseCIDR returns the address written in s together with the block
// enclosing it, like net.ParseCIDR.
func ParseCIDR(s string) (Address, Subnet, error) {
	if ip, ipnet, err := net.ParseCIDR(s); err != nil {
		return 0, Subnet{}, err
	} else if ipnet.IP.To4() == nil {
		return 0, Subnet{}, &net.ParseError{Type: "Non-IPv4 address not supported", Text: s}
	} else {
		prefixLen, _ := ipnet.Mask.Size()
		return FromIP4(ip), Subnet{Base: FromIP4(ipnet.IP), Mask: Mask(prefixLen)}, nil
	}
}

// Subnets returns the minimal ordered list of aligned blocks covering
// exactly r.
func (r Range) Subnets() []Subnet {
	return r.AppendSubnets(nil)
}

// AppendSubnets appends the decomposition of r to dst.
// At each step the block is the largest one that is both aligned at the
// current address and does not run past r.Last.
func (r Range) AppendSubnets(dst []Subnet) []Subnet {
	cur, last := uint64(r.First), uint64(r.Last)
	for cur <= last {
		k := 32
		if cur != 0 {
			k = bits.TrailingZeros64(cur)
		}
		if fit := bits.Len64(last-cur+1) - 1; fit < k {
			k = fit
		}
		dst = append(dst, Subnet{Base: Address(cur), Mask: Mask(32 - k)})
		cur += 1 << uint(k)
	}
	return dst
}

// NumSubnets returns len(r.Subnets()) without allocating.
func (r Range) NumSubnets() int {
	n := 0
	cur, last := uint64(r.First), uint64(r.Last)
	for cur <= last {
		k := 32
		if cur != 0 {
			k = bits.TrailingZeros64(cur)
		}
		if fit := bits.Len64(last-cur+1) - 1; fit < k {
			k = fit
		}
		n++
		cur += 1 << uint(k)
	}
	return n
}
