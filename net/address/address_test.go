package address

import (
	"net"
	"testing"
	"testing/quick"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func ip(s string) Address {
	addr, err := ParseIP(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func cidr(s string) Subnet {
	_, subnet, err := ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return subnet
}

func isPower2(x Count) bool {
	return x != 0 && x&(x-1) == 0
}

func TestParseIP(t *testing.T) {
	addr, err := ParseIP("10.1.2.3")
	require.NoError(t, err)
	require.Equal(t, Address(0x0a010203), addr)
	require.Equal(t, "10.1.2.3", addr.String())
	require.True(t, net.ParseIP("10.1.2.3").Equal(addr.IP4()))

	_, err = ParseIP("10.1.2")
	require.Error(t, err)
	_, err = ParseIP("::1")
	require.Error(t, err, "IPv6 is not supported")
}

func TestSuccessorPredecessor(t *testing.T) {
	next, ok := ip("10.0.0.255").Successor()
	require.True(t, ok)
	require.Equal(t, ip("10.0.1.0"), next)

	_, ok = MaxAddress.Successor()
	require.False(t, ok)

	prev, ok := ip("10.0.1.0").Predecessor()
	require.True(t, ok)
	require.Equal(t, ip("10.0.0.255"), prev)

	_, ok = MinAddress.Predecessor()
	require.False(t, ok)
}

func TestRange(t *testing.T) {
	r, err := NewRange(ip("10.0.0.0"), ip("10.0.0.9"))
	require.NoError(t, err)
	require.Equal(t, Count(10), r.Count())
	require.Equal(t, "10.0.0.0-10.0.0.9", r.String())
	require.True(t, r.Contains(ip("10.0.0.9")))
	require.False(t, r.Contains(ip("10.0.0.10")))

	_, err = NewRange(ip("10.0.0.9"), ip("10.0.0.0"))
	require.True(t, errors.Is(err, ErrInvalidRange))

	require.Equal(t, Total, All.Count())
	require.Equal(t, Count(1), Single(MaxAddress).Count())
}

func TestRangeRelations(t *testing.T) {
	a := Range{ip("1.0.0.0"), ip("1.0.0.5")}
	b := Range{ip("1.0.0.6"), ip("1.0.0.9")}
	c := Range{ip("1.0.0.3"), ip("1.0.0.9")}

	require.False(t, a.Overlaps(b))
	require.True(t, a.Touches(b))
	require.True(t, b.Touches(a))
	require.True(t, a.Overlaps(c))

	got, ok := a.Intersect(c)
	require.True(t, ok)
	require.Equal(t, Range{ip("1.0.0.3"), ip("1.0.0.5")}, got)

	_, ok = a.Intersect(b)
	require.False(t, ok)

	require.True(t, Single(MaxAddress).Touches(Single(MaxAddress-1)))
	require.False(t, Single(MinAddress).Touches(Single(MaxAddress)))
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("10.0.0.1 - 10.0.0.20")
	require.NoError(t, err)
	require.Equal(t, Range{ip("10.0.0.1"), ip("10.0.0.20")}, r)

	_, err = ParseRange("10.0.0.20-10.0.0.1")
	require.True(t, errors.Is(err, ErrInvalidRange))
	_, err = ParseRange("10.0.0.20")
	require.Error(t, err)
	_, err = ParseRange("10.0.0.1-10.0.0.256")
	require.Error(t, err)
}

func TestMask(t *testing.T) {
	for _, tc := range []struct {
		prefix int
		dotted string
		size   Count
	}{
		{0, "0.0.0.0", Total},
		{8, "255.0.0.0", 1 << 24},
		{30, "255.255.255.252", 4},
		{32, "255.255.255.255", 1},
	} {
		m, err := NewMask(tc.prefix)
		require.NoError(t, err)
		require.Equal(t, tc.dotted, m.String())
		require.Equal(t, tc.size, m.Size())
	}
	_, err := NewMask(33)
	require.True(t, errors.Is(err, ErrInvalidMask))
	_, err = NewMask(-1)
	require.Error(t, err)
}

func TestSubnet(t *testing.T) {
	s, err := NewSubnet(ip("192.168.0.0"), 30)
	require.NoError(t, err)
	require.Equal(t, Range{ip("192.168.0.0"), ip("192.168.0.3")}, s.Range())
	require.Equal(t, "192.168.0.0/30", s.String())
	require.True(t, s.Contains(ip("192.168.0.3")))
	require.False(t, s.Contains(ip("192.168.0.4")))

	_, err = NewSubnet(ip("192.168.0.1"), 30)
	require.True(t, errors.Is(err, ErrUnaligned))

	all, err := NewSubnet(0, 0)
	require.NoError(t, err)
	require.Equal(t, All, all.Range())

	addr, block, err := ParseCIDR("10.1.2.3/8")
	require.NoError(t, err)
	require.Equal(t, ip("10.1.2.3"), addr)
	require.Equal(t, cidr("10.0.0.0/8"), block)

	_, _, err = ParseCIDR("fe80::/10")
	require.Error(t, err)

	back, err := FromIPNet(block.IPNet())
	require.NoError(t, err)
	require.Equal(t, block, back)
}

func TestSubnetsScenarios(t *testing.T) {
	require.Equal(t, []Subnet{cidr("192.168.0.0/30")},
		Range{ip("192.168.0.0"), ip("192.168.0.3")}.Subnets())
	require.Equal(t, []Subnet{cidr("192.168.0.1/32"), cidr("192.168.0.2/31")},
		Range{ip("192.168.0.1"), ip("192.168.0.3")}.Subnets())
	require.Equal(t, []Subnet{cidr("0.0.0.0/0")}, All.Subnets())
	require.Equal(t, []Subnet{cidr("255.255.255.255/32")}, Single(MaxAddress).Subnets())
	require.Equal(t, []Subnet{cidr("0.0.0.0/1"), cidr("128.0.0.0/2"), cidr("192.0.0.0/32")},
		Range{ip("0.0.0.0"), ip("192.0.0.0")}.Subnets())
}

// minimalCover counts the blocks of the binary-trie cover of r, which is the
// smallest aligned cover of an interval.
func minimalCover(r Range, base uint64, size uint64) int {
	last := base + size - 1
	if last < uint64(r.First) || base > uint64(r.Last) {
		return 0
	}
	if base >= uint64(r.First) && last <= uint64(r.Last) {
		return 1
	}
	return minimalCover(r, base, size/2) + minimalCover(r, base+size/2, size/2)
}

func TestSubnetsRoundTrip(t *testing.T) {
	prop := func(a, b Address) bool {
		r := Range{Min(a, b), Max(a, b)}
		subnets := r.Subnets()
		if len(subnets) != r.NumSubnets() {
			return false
		}
		next := uint64(r.First)
		for _, s := range subnets {
			if uint64(s.Base) != next || !isPower2(s.Size()) || Count(s.Base)%s.Size() != 0 {
				return false
			}
			next = uint64(s.Last()) + 1
		}
		return next == uint64(r.Last)+1 && len(subnets) == minimalCover(r, 0, 1<<32)
	}
	require.NoError(t, quick.Check(prop, &quick.Config{MaxCount: 20000}))
}
