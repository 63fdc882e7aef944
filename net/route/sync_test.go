package route

import (
	"syscall"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/iamainow/routes/net/address"
	"github.com/iamainow/routes/rangeset"
)

// fakeTable is an in-memory Table. fail maps a destination to the errno
// its changes are rejected with.
type fakeTable struct {
	routes []Route
	fail   map[address.Subnet]syscall.Errno
	calls  []string
}

func (t *fakeTable) List() ([]Route, error) {
	return append([]Route(nil), t.routes...), nil
}

func (t *fakeTable) Add(r Route) error {
	t.calls = append(t.calls, "add "+r.String())
	if errno, found := t.fail[r.Dst]; found {
		return newStatusError("add", r, errno)
	}
	t.routes = append(t.routes, r)
	return nil
}

func (t *fakeTable) Delete(r Route) error {
	t.calls = append(t.calls, "delete "+r.String())
	if errno, found := t.fail[r.Dst]; found {
		return newStatusError("delete", r, errno)
	}
	for i, existing := range t.routes {
		if existing == r {
			t.routes = append(t.routes[:i], t.routes[i+1:]...)
			return nil
		}
	}
	return newStatusError("delete", r, syscall.ESRCH)
}

func subnet(s string) address.Subnet {
	_, sn, err := address.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return sn
}

func ip(s string) address.Address {
	addr, err := address.ParseIP(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func desired(cidrs ...string) rangeset.Array {
	var ranges []address.Range
	for _, c := range cidrs {
		ranges = append(ranges, subnet(c).Range())
	}
	return rangeset.NewArray(ranges...)
}

func TestSync(t *testing.T) {
	opts := Options{Gateway: ip("192.168.1.1"), LinkIndex: 2}
	managed := func(c string) Route { return opts.route(subnet(c)) }
	other := Route{Dst: subnet("10.1.0.0/16"), Gateway: ip("192.168.1.254"), LinkIndex: 2}
	table := &fakeTable{routes: []Route{managed("10.0.0.0/24"), managed("10.9.0.0/16"), other}}

	report, err := Sync(table, desired("10.0.0.0/24", "10.0.1.0/24", "10.1.0.0/16"), opts)
	require.NoError(t, err)
	// 10.0.0.0/24 and 10.0.1.0/24 merge into one block, which replaces the
	// existing /24
	require.Equal(t, []Route{managed("10.0.0.0/24"), managed("10.9.0.0/16")}, report.Deleted)
	require.Equal(t, []Route{managed("10.0.0.0/23"), managed("10.1.0.0/16")}, report.Added)
	require.Zero(t, report.Unchanged)
	require.Contains(t, table.routes, other, "unmanaged route is kept")

	// second run is a no-op
	table.calls = nil
	report, err = Sync(table, desired("10.0.0.0/23", "10.1.0.0/16"), opts)
	require.NoError(t, err)
	require.Empty(t, table.calls)
	require.Equal(t, 2, report.Unchanged)
}

func TestSyncDryRun(t *testing.T) {
	opts := Options{Gateway: ip("192.168.1.1"), DryRun: true}
	table := &fakeTable{routes: []Route{opts.route(subnet("10.9.0.0/16"))}}

	report, err := Sync(table, desired("172.16.0.0/12"), opts)
	require.NoError(t, err)
	require.Len(t, report.Added, 1)
	require.Len(t, report.Deleted, 1)
	require.Empty(t, table.calls)
	require.Len(t, table.routes, 1)
}

func TestSyncFailures(t *testing.T) {
	opts := Options{LinkIndex: 3, Metric: 100}
	table := &fakeTable{fail: map[address.Subnet]syscall.Errno{
		subnet("10.0.0.0/8"): syscall.EEXIST,
	}}
	before := testutil.ToFloat64(routeFailures.WithLabelValues("add", "17"))

	report, err := Sync(table, desired("10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"), opts)
	require.Error(t, err)
	require.Len(t, report.Failed, 1)
	require.Equal(t, syscall.EEXIST, report.Failed[0].Code)
	require.Equal(t, "add", report.Failed[0].Op)
	require.True(t, errors.Is(report.Failed[0], syscall.EEXIST))
	// the failure does not stop the remaining changes
	require.Len(t, report.Added, 2)
	require.Equal(t, before+1, testutil.ToFloat64(routeFailures.WithLabelValues("add", "17")))

	opts.StopOnError = true
	table = &fakeTable{fail: table.fail}
	report, err = Sync(table, desired("10.0.0.0/8", "172.16.0.0/12"), opts)
	require.Error(t, err)
	require.Empty(t, report.Added)
	require.Len(t, table.calls, 1)
}

func TestStatusError(t *testing.T) {
	r := Route{Dst: subnet("10.0.0.0/8"), Gateway: ip("10.255.255.1"), LinkIndex: 4, Metric: 7}
	require.Equal(t, "10.0.0.0/8 via 10.255.255.1 dev #4 metric 7", r.String())

	err := newStatusError("add", r, errors.Wrap(syscall.ENETUNREACH, "netlink"))
	require.Equal(t, syscall.ENETUNREACH, err.Code)
	require.Contains(t, err.Error(), "add route 10.0.0.0/8")

	require.Zero(t, newStatusError("list", Route{}, errors.New("boom")).Code)
}
