// Package resolve turns DNS names into IPv4 ranges: plain A lookups and
// SPF record flattening.
package resolve

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"

	"github.com/iamainow/routes/net/address"
)

const (
	DefaultResolvConf = "/etc/resolv.conf"
	DefaultMaxLookups = 10
	DefaultTimeout    = 5 * time.Second
)

var (
	ErrTooManyLookups = errors.New("SPF lookup limit exceeded")
	ErrNoSPF          = errors.New("no SPF record")
	ErrLoop           = errors.New("SPF include loop")
)

// RcodeError is returned when the server answers with anything but
// NOERROR.
type RcodeError struct {
	Name  string
	Type  uint16
	Rcode int
}

func (e *RcodeError) Error() string {
	return "lookup " + e.Name + " " + dns.TypeToString[e.Type] + ": " + dns.RcodeToString[e.Rcode]
}

type Resolver struct {
	server     string
	client     *dns.Client
	maxLookups int
}

// New returns a resolver querying server (host:port). An empty server
// means the first nameserver of /etc/resolv.conf.
func New(server string, timeout time.Duration, maxLookups int) (*Resolver, error) {
	if server == "" {
		conf, err := dns.ClientConfigFromFile(DefaultResolvConf)
		if err != nil {
			return nil, errors.Wrap(err, "loading resolver configuration")
		}
		if len(conf.Servers) == 0 {
			return nil, errors.Errorf("no nameserver in %s", DefaultResolvConf)
		}
		server = net.JoinHostPort(conf.Servers[0], conf.Port)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxLookups <= 0 {
		maxLookups = DefaultMaxLookups
	}
	return &Resolver{
		server:     server,
		client:     &dns.Client{Net: "udp", Timeout: timeout},
		maxLookups: maxLookups,
	}, nil
}

func (r *Resolver) query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = true
	resp, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err == nil && resp.Truncated {
		tcp := &dns.Client{Net: "tcp", Timeout: r.client.Timeout}
		resp, _, err = tcp.ExchangeContext(ctx, m, r.server)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "lookup %s %s", name, dns.TypeToString[qtype])
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, &RcodeError{Name: name, Type: qtype, Rcode: resp.Rcode}
	}
	return resp.Answer, nil
}

// Lookup returns one single-address range per A record of name.
func (r *Resolver) Lookup(ctx context.Context, name string) ([]address.Range, error) {
	answer, err := r.query(ctx, name, dns.TypeA)
	if err != nil {
		return nil, err
	}
	var ranges []address.Range
	for _, rr := range answer {
		if a, ok := rr.(*dns.A); ok {
			ranges = append(ranges, address.Single(address.FromIP4(a.A)))
		}
	}
	return ranges, nil
}
