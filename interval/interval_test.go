package interval

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamainow/routes/net/address"
	"github.com/iamainow/routes/rangeset"
)

// small is a domain of 0..limit, with both boundaries reachable in tests.
type small int

const limit small = 64

func (a small) Compare(b small) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (a small) Successor() (small, bool) {
	if a == limit {
		return a, false
	}
	return a + 1, true
}

func (a small) Predecessor() (small, bool) {
	if a == 0 {
		return a, false
	}
	return a - 1, true
}

func iv(first, last small) Interval[small] {
	return Interval[small]{First: first, Last: last}
}

func TestNew(t *testing.T) {
	_, err := New[small](5, 4)
	require.ErrorIs(t, err, ErrInvalid)

	x, err := New[small](4, 4)
	require.NoError(t, err)
	require.True(t, x.Contains(4))
	require.False(t, x.Contains(5))
}

func TestNormalize(t *testing.T) {
	xs := []Interval[small]{iv(10, 12), iv(0, 3), iv(4, 6), iv(11, 20), iv(limit, limit), iv(22, 22)}
	n := Normalize(xs)
	require.Equal(t, []Interval[small]{iv(0, 6), iv(10, 20), iv(22, 22), iv(limit, limit)}, xs[:n])
}

func TestSetInsertRemove(t *testing.T) {
	s := NewSet(iv(10, 20))
	s.Insert(iv(30, 40))
	s.Insert(iv(21, 29))
	require.Equal(t, []Interval[small]{iv(10, 40)}, s.Intervals())

	s.Insert(iv(0, 0))
	s.Insert(iv(limit, limit))
	require.Equal(t, "[0-0 10-40 64-64]", s.String())

	s.Remove(iv(15, 16))
	require.Equal(t, []Interval[small]{iv(0, 0), iv(10, 14), iv(17, 40), iv(limit, limit)}, s.Intervals())
	require.False(t, s.Contains(15))
	require.True(t, s.Contains(17))

	s.Remove(iv(0, limit))
	require.Zero(t, s.Len())

	s.Insert(iv(0, limit))
	s.Remove(iv(0, 0))
	s.Remove(iv(limit, limit))
	require.Equal(t, []Interval[small]{iv(1, limit-1)}, s.Intervals())

	s.Except(s)
	require.Zero(t, s.Len())
}

func TestSetMatchesBitmap(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		var want [limit + 1]bool
		s := NewSet[small]()
		for k := 0; k < 8; k++ {
			a, b := small(rnd.Intn(int(limit)+1)), small(rnd.Intn(int(limit)+1))
			if a > b {
				a, b = b, a
			}
			insert := rnd.Intn(3) > 0
			for v := a; v <= b; v++ {
				want[v] = insert
			}
			if insert {
				s.Insert(iv(a, b))
			} else {
				s.Remove(iv(a, b))
			}
		}
		for v := small(0); v <= limit; v++ {
			require.Equal(t, want[v], s.Contains(v), "%v in %v", v, s)
		}
		xs := s.Intervals()
		for k := 1; k < len(xs); k++ {
			require.True(t, xs[k-1].endsBefore(xs[k].First), "not normalized: %v", s)
		}
	}
}

func TestAddressDomain(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		s := NewSet[address.Address]()
		other := rangeset.NewSet()
		for k := 0; k < 10; k++ {
			a, b := address.Address(rnd.Uint32()), address.Address(rnd.Uint32())
			if k%3 == 0 {
				b = a + address.Address(rnd.Intn(3))
			}
			if a > b {
				a, b = b, a
			}
			s.Insert(Interval[address.Address]{First: a, Last: b})
			other.Insert(address.Range{First: a, Last: b})
		}
		s.Insert(Interval[address.Address]{First: address.MaxAddress, Last: address.MaxAddress})
		other.Insert(address.Single(address.MaxAddress))

		xs := s.Intervals()
		require.Equal(t, other.Len(), len(xs))
		for k, r := range other.Normalized() {
			require.Equal(t, r.First, xs[k].First)
			require.Equal(t, r.Last, xs[k].Last)
		}
	}
}
