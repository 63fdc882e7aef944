package address

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// Using 32-bit integer to represent IPv4 address
type Address uint32

// Count is a number of addresses. It is wider than Address so that the
// full domain (2^32 addresses) can be represented.
type Count uint64

const (
	MinAddress Address = 0
	MaxAddress Address = 0xffffffff

	// Total is the number of addresses in the IPv4 space.
	Total Count = 1 << 32
)

var (
	ErrInvalidRange = errors.New("invalid range: first address is greater than last")
	ErrInvalidMask  = errors.New("invalid mask: prefix length must be between 0 and 32")
	ErrUnaligned    = errors.New("subnet base is not aligned to its mask")
)

func ParseIP(s string) (Address, error) {
	if ip := net.ParseIP(s); ip != nil && ip.To4() != nil {
		return FromIP4(ip), nil
	}
	return 0, &net.ParseError{Type: "IP Address", Text: s}
}

// FromIP4 converts an ipv4 address to our integer address type
func FromIP4(ip4 net.IP) (r Address) {
	for _, b := range ip4.To4() {
		r <<= 8
		r |= Address(b)
	}
	return
}

// IP4 converts our integer address type to an ipv4 address
func (addr Address) IP4() (r net.IP) {
	r = make([]byte, net.IPv4len)
	for i := 3; i >= 0; i-- {
		r[i] = byte(addr)
		addr >>= 8
	}
	return
}

func (addr Address) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr))
}

func (addr Address) Compare(other Address) int {
	switch {
	case addr < other:
		return -1
	case addr > other:
		return 1
	}
	return 0
}

// Successor returns the next address. It reports false at MaxAddress
// instead of wrapping around.
func (addr Address) Successor() (Address, bool) {
	if addr == MaxAddress {
		return addr, false
	}
	return addr + 1, true
}

// Predecessor returns the previous address. It reports false at
// MinAddress instead of wrapping around.
func (addr Address) Predecessor() (Address, bool) {
	if addr == MinAddress {
		return addr, false
	}
	return addr - 1, true
}

func Min(a, b Address) Address {
	if a > b {
		return b
	}
	return a
}

func Max(a, b Address) Address {
	if a < b {
		return b
	}
	return a
}
