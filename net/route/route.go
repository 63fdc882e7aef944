// Package route reads and programs IPv4 routes of the kernel routing
// table, and keeps a set of them in line with an address set.
package route

import (
	"fmt"
	"syscall"

	"github.com/pkg/errors"

	"github.com/iamainow/routes/net/address"
)

// Route is a unicast IPv4 route. A zero Gateway means a directly
// connected route; a zero LinkIndex lets the kernel pick the link.
type Route struct {
	Dst       address.Subnet
	Gateway   address.Address
	LinkIndex int
	Metric    int
}

func (r Route) String() string {
	s := r.Dst.String()
	if r.Gateway != 0 {
		s += " via " + r.Gateway.String()
	}
	if r.LinkIndex != 0 {
		s += fmt.Sprintf(" dev #%d", r.LinkIndex)
	}
	if r.Metric != 0 {
		s += fmt.Sprintf(" metric %d", r.Metric)
	}
	return s
}

// Table is the part of a routing table the tools need.
type Table interface {
	List() ([]Route, error)
	Add(Route) error
	Delete(Route) error
}

// StatusError is a failed route operation, with the status code the
// platform returned (an errno on Linux, 0 when there was none).
type StatusError struct {
	Op    string
	Route Route
	Code  syscall.Errno
	Err   error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s route %s: %v (status %d)", e.Op, e.Route, e.Err, int(e.Code))
}

func (e *StatusError) Unwrap() error { return e.Err }

func newStatusError(op string, r Route, err error) *StatusError {
	var errno syscall.Errno
	errors.As(err, &errno)
	return &StatusError{Op: op, Route: r, Code: errno, Err: err}
}
