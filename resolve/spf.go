package resolve

import (
	"context"
	"strconv"
	"strings"

	"github.com/miekg/dns"
	"github.com/pkg/errors"

	"github.com/iamainow/routes/common"
	"github.com/iamainow/routes/net/address"
)

// spfWalk holds the state of one SPF flattening.
type spfWalk struct {
	r       *Resolver
	lookups int
	active  map[string]bool
	ranges  []address.Range
}

// SPF returns the IPv4 ranges authorised by the SPF policy of domain,
// following include: and redirect= at most MaxLookups times in total.
// Mechanisms that only fail or soft-fail senders are ignored, as are
// ip6:, exists: and ptr.
func (r *Resolver) SPF(ctx context.Context, domain string) ([]address.Range, error) {
	w := &spfWalk{r: r, active: make(map[string]bool)}
	if err := w.domain(ctx, domain); err != nil {
		return nil, err
	}
	return w.ranges, nil
}

func (w *spfWalk) countLookup(term string) error {
	w.lookups++
	if w.lookups > w.r.maxLookups {
		return errors.Wrapf(ErrTooManyLookups, "%s: more than %d lookups", term, w.r.maxLookups)
	}
	return nil
}

func (w *spfWalk) record(ctx context.Context, domain string) (string, error) {
	answer, err := w.r.query(ctx, domain, dns.TypeTXT)
	if err != nil {
		return "", err
	}
	for _, rr := range answer {
		txt, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}
		record := strings.Join(txt.Txt, "")
		if fields := strings.Fields(record); len(fields) > 0 && strings.EqualFold(fields[0], "v=spf1") {
			return record, nil
		}
	}
	return "", errors.Wrap(ErrNoSPF, domain)
}

func (w *spfWalk) domain(ctx context.Context, domain string) error {
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	if w.active[domain] {
		return errors.Wrap(ErrLoop, domain)
	}
	w.active[domain] = true
	defer delete(w.active, domain)

	record, err := w.record(ctx, domain)
	if err != nil {
		return err
	}
	common.Log.Debugf("[spf] %s: %s", domain, record)

	var redirect string
	hasAll := false
	for _, term := range strings.Fields(record)[1:] {
		if name, found := cutPrefixFold(term, "redirect="); found {
			redirect = name
			continue
		}
		if strings.Contains(term, "=") {
			continue // other modifiers
		}
		qualifier := byte('+')
		switch term[0] {
		case '+', '-', '~', '?':
			qualifier, term = term[0], term[1:]
		}
		mechanism, arg, _ := strings.Cut(term, ":")
		mechanism = strings.ToLower(mechanism)
		var prefix string
		if i := strings.IndexByte(mechanism, '/'); i >= 0 {
			mechanism, prefix = mechanism[:i], mechanism[i+1:]
		} else if i := strings.IndexByte(arg, '/'); i >= 0 && mechanism != "ip4" {
			arg, prefix = arg[:i], arg[i+1:]
		}
		if mechanism == "all" {
			hasAll = true
			continue
		}
		if qualifier != '+' {
			common.Log.Debugf("[spf] %s: ignoring non-pass term %c%s", domain, qualifier, term)
			continue
		}
		if err := w.mechanism(ctx, domain, mechanism, arg, prefix); err != nil {
			return err
		}
	}
	if redirect != "" && !hasAll {
		if err := w.countLookup("redirect=" + redirect); err != nil {
			return err
		}
		return w.domain(ctx, redirect)
	}
	return nil
}

func (w *spfWalk) mechanism(ctx context.Context, domain, mechanism, arg, prefix string) error {
	target := domain
	if arg != "" {
		target = arg
	}
	switch mechanism {
	case "ip4":
		rs := parseIP4(arg)
		if rs == nil {
			common.Log.Warnf("[spf] %s: skipping malformed ip4:%s", domain, arg)
			return nil
		}
		w.ranges = append(w.ranges, *rs)
	case "include":
		if err := w.countLookup("include:" + arg); err != nil {
			return err
		}
		return w.domain(ctx, arg)
	case "a":
		if err := w.countLookup("a:" + target); err != nil {
			return err
		}
		return w.hosts(ctx, target, prefix)
	case "mx":
		if err := w.countLookup("mx:" + target); err != nil {
			return err
		}
		answer, err := w.r.query(ctx, target, dns.TypeMX)
		if err != nil {
			return err
		}
		for _, rr := range answer {
			if mx, ok := rr.(*dns.MX); ok {
				if err := w.hosts(ctx, mx.Mx, prefix); err != nil {
					return err
				}
			}
		}
	default:
		common.Log.Debugf("[spf] %s: ignoring %s", domain, mechanism)
	}
	return nil
}

// hosts adds the A records of name, widened to their enclosing /prefix
// block when prefix is set.
func (w *spfWalk) hosts(ctx context.Context, name, prefix string) error {
	ranges, err := w.r.Lookup(ctx, name)
	if err != nil {
		return err
	}
	if prefix != "" {
		bits, err := strconv.Atoi(prefix)
		if err != nil {
			return errors.Wrapf(err, "prefix of %s", name)
		}
		mask, err := address.NewMask(bits)
		if err != nil {
			return err
		}
		for i, r := range ranges {
			base := r.First & address.Address(mask.Ordinal())
			ranges[i] = address.Subnet{Base: base, Mask: mask}.Range()
		}
	}
	w.ranges = append(w.ranges, ranges...)
	return nil
}

func parseIP4(arg string) *address.Range {
	if strings.Contains(arg, "/") {
		_, subnet, err := address.ParseCIDR(arg)
		if err != nil {
			return nil
		}
		r := subnet.Range()
		return &r
	}
	addr, err := address.ParseIP(arg)
	if err != nil {
		return nil
	}
	r := address.Single(addr)
	return &r
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return "", false
}
