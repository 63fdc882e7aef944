package route

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iamainow/routes/common"
	"github.com/iamainow/routes/net/address"
	"github.com/iamainow/routes/rangeset"
)

// Options select the managed routes, those Sync may add and delete: every
// route through Gateway on LinkIndex with Metric. Other routes are never
// touched.
type Options struct {
	Gateway   address.Address
	LinkIndex int
	Metric    int
	// DryRun computes the report without changing the table.
	DryRun bool
	// StopOnError aborts at the first failed change instead of logging
	// it and going on with the rest.
	StopOnError bool
}

func (opts Options) route(dst address.Subnet) Route {
	return Route{Dst: dst, Gateway: opts.Gateway, LinkIndex: opts.LinkIndex, Metric: opts.Metric}
}

func (opts Options) manages(r Route) bool {
	return r.Gateway == opts.Gateway && r.LinkIndex == opts.LinkIndex && r.Metric == opts.Metric
}

type Report struct {
	Added     []Route
	Deleted   []Route
	Failed    []*StatusError
	Unchanged int
}

var (
	Metrics = prometheus.NewRegistry()

	routeChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iprange_route_changes_total",
			Help: "Routes added or deleted by route sync.",
		},
		[]string{"op"},
	)
	routeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iprange_route_failures_total",
			Help: "Route changes rejected by the kernel, by errno.",
		},
		[]string{"op", "errno"},
	)
	managedRoutes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "iprange_managed_routes",
			Help: "Managed routes present after the last sync.",
		},
	)
)

func init() {
	Metrics.MustRegister(routeChanges, routeFailures, managedRoutes)
}

// Sync makes the managed routes of table cover exactly the CIDR
// decomposition of desired. Stale routes are deleted before missing ones
// are added. Failed changes are logged and collected in the report; the
// returned error joins them.
func Sync(table Table, desired rangeset.View, opts Options) (Report, error) {
	var report Report

	current, err := table.List()
	if err != nil {
		return report, err
	}
	var have []address.Subnet
	for _, r := range current {
		if opts.manages(r) {
			have = append(have, r.Dst)
		}
	}
	want := rangeset.Subnets(desired.Normalized())
	address.SortSubnets(have)
	address.SortSubnets(want)
	toAdd, toDelete := address.RemoveCommon(want, have)
	report.Unchanged = len(have) - len(toDelete)

	var failures []error
	apply := func(op string, dsts []address.Subnet, change func(Route) error, done *[]Route) bool {
		for _, dst := range dsts {
			r := opts.route(dst)
			if opts.DryRun {
				common.Log.Infof("[route] would %s %s", op, r)
				*done = append(*done, r)
				continue
			}
			if err := change(r); err != nil {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) {
					statusErr = newStatusError(op, r, err)
				}
				common.Log.Errorf("[route] %s", statusErr)
				routeFailures.WithLabelValues(op, strconv.Itoa(int(statusErr.Code))).Inc()
				report.Failed = append(report.Failed, statusErr)
				failures = append(failures, statusErr)
				if opts.StopOnError {
					return false
				}
				continue
			}
			common.Log.Debugf("[route] %s %s", op, r)
			routeChanges.WithLabelValues(op).Inc()
			*done = append(*done, r)
		}
		return true
	}

	if apply("delete", toDelete, table.Delete, &report.Deleted) {
		apply("add", toAdd, table.Add, &report.Added)
	}
	if !opts.DryRun {
		managedRoutes.Set(float64(report.Unchanged + len(report.Added) + len(toDelete) - len(report.Deleted)))
	}
	common.Log.Infof("[route] sync: %d added, %d deleted, %d failed, %d unchanged",
		len(report.Added), len(report.Deleted), len(report.Failed), report.Unchanged)

	if len(failures) > 0 {
		return report, errors.New(common.ErrorMessages(failures))
	}
	return report, nil
}
