package rangeset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamainow/routes/net/address"
)

func TestSimplify(t *testing.T) {
	for _, tc := range []struct {
		name  string
		in    []address.Range
		delta address.Count
		want  []address.Range
	}{
		{
			name:  "zero delta keeps everything",
			in:    normalized("10.0.0.0", "10.0.0.2"),
			delta: 0,
			want:  normalized("10.0.0.0", "10.0.0.2"),
		},
		{
			name:  "small gap is filled",
			in:    normalized("10.0.0.0-10.0.0.9", "10.0.0.11-10.0.0.20"),
			delta: 1,
			want:  normalized("10.0.0.0-10.0.0.20"),
		},
		{
			name:  "small range is dropped",
			in:    normalized("10.0.0.0/24", "10.0.2.7"),
			delta: 1,
			want:  normalized("10.0.0.0/24"),
		},
		{
			name:  "range wins a tie",
			in:    normalized("10.0.0.0-10.0.0.3", "10.0.0.8-10.0.0.9", "10.0.0.12-10.0.0.15"),
			delta: 2,
			want:  normalized("10.0.0.0-10.0.0.3", "10.0.0.12-10.0.0.15"),
		},
		{
			name:  "edge gaps count",
			in:    normalized("0.0.0.2-255.255.255.250"),
			delta: 5,
			want:  []address.Range{address.All},
		},
		{
			name:  "everything below delta",
			in:    normalized("10.0.0.0/24", "10.0.2.0/24"),
			delta: 1 << 10,
			want:  nil,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			in := append([]address.Range(nil), tc.in...)
			n := Simplify(in, tc.delta)
			if tc.want == nil {
				require.Zero(t, n)
				return
			}
			require.Equal(t, tc.want, in[:n])
		})
	}
}

func TestSimplifyProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(8))
	for i := 0; i < 2000; i++ {
		rs := randomRanges(rnd)
		rs = rs[:Normalize(rs)]
		before := len(rs)
		delta := address.Count(rnd.Intn(64))

		n := Simplify(rs, delta)
		require.LessOrEqual(t, n, before)
		require.True(t, IsNormalized(rs[:n]))

		// a second pass finds nothing within delta
		again := append([]address.Range(nil), rs[:n]...)
		require.Equal(t, n, Simplify(again, delta))
		for _, r := range rs[:n] {
			require.Greater(t, r.Count(), delta)
		}
	}
}

func TestMinimizeSubnets(t *testing.T) {
	rs := normalized("10.0.0.0-10.0.1.2")
	require.Equal(t, []address.Subnet{subnet("10.0.0.0/24"), subnet("10.0.1.0/31"), subnet("10.0.1.2/32")}, Subnets(rs))
	require.Equal(t, []address.Subnet{subnet("10.0.0.0/24"), subnet("10.0.1.0/31")}, MinimizeSubnets(rs, 1))
	require.Equal(t, []address.Subnet{subnet("10.0.0.0/24")}, MinimizeSubnets(rs, 2))
	require.Empty(t, MinimizeSubnets(rs, 256))

	s := NewSet(rs...)
	require.Equal(t, MinimizeSubnets(rs, 1), s.MinimizeSubnets(1))
}
