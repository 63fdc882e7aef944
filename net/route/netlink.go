package route

import (
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/iamainow/routes/common"
	"github.com/iamainow/routes/net/address"
)

// NetlinkTable is the main IPv4 routing table, reached through netlink,
// optionally inside the network namespace bind-mounted at NetNS.
type NetlinkTable struct {
	NetNS string
}

func (t NetlinkTable) List() ([]Route, error) {
	var routes []Route
	err := common.WithNetNSPath(t.NetNS, func() error {
		list, err := netlink.RouteList(nil, netlink.FAMILY_V4)
		if err != nil {
			return err
		}
		for _, nr := range list {
			r, ok := fromNetlink(nr)
			if !ok {
				common.Log.Debugf("[route] skipping %s", nr)
				continue
			}
			routes = append(routes, r)
		}
		return nil
	})
	if err != nil {
		return nil, newStatusError("list", Route{}, err)
	}
	return routes, nil
}

func (t NetlinkTable) Add(r Route) error {
	err := common.WithNetNSPath(t.NetNS, func() error {
		return netlink.RouteAdd(toNetlink(r))
	})
	if err != nil {
		return newStatusError("add", r, err)
	}
	return nil
}

func (t NetlinkTable) Delete(r Route) error {
	err := common.WithNetNSPath(t.NetNS, func() error {
		return netlink.RouteDel(toNetlink(r))
	})
	if err != nil {
		return newStatusError("delete", r, err)
	}
	return nil
}

func toNetlink(r Route) *netlink.Route {
	nr := &netlink.Route{
		Dst:       r.Dst.IPNet(),
		LinkIndex: r.LinkIndex,
		Priority:  r.Metric,
	}
	if r.Gateway != 0 {
		nr.Gw = r.Gateway.IP4()
	}
	return nr
}

// fromNetlink converts unicast routes; a nil Dst is the default route.
func fromNetlink(nr netlink.Route) (Route, bool) {
	r := Route{LinkIndex: nr.LinkIndex, Metric: nr.Priority}
	if nr.Dst != nil {
		dst, err := address.FromIPNet(nr.Dst)
		if err != nil {
			return Route{}, false
		}
		r.Dst = dst
	}
	if nr.Gw != nil {
		if nr.Gw.To4() == nil {
			return Route{}, false
		}
		r.Gateway = address.FromIP4(nr.Gw)
	}
	return r, nr.Type == 0 || nr.Type == unix.RTN_UNICAST
}
