package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iamainow/routes/common"
	"github.com/iamainow/routes/net/address"
	"github.com/iamainow/routes/parse"
	"github.com/iamainow/routes/resolve"
	"github.com/iamainow/routes/wellknown"
)

var sourceRanges = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "iprange_source_ranges_total",
		Help: "Ranges read from chain sources, by source kind.",
	},
	[]string{"kind"},
)

// loader reads chain sources. The resolver is created on first use so
// that chains without DNS sources never read resolv.conf.
type loader struct {
	registry    *wellknown.Registry
	stdin       io.Reader
	newResolver func() (*resolve.Resolver, error)
	resolver    *resolve.Resolver
}

func (l *loader) dns() (*resolve.Resolver, error) {
	if l.resolver == nil {
		r, err := l.newResolver()
		if err != nil {
			return nil, err
		}
		l.resolver = r
	}
	return l.resolver, nil
}

func (l *loader) load(ctx context.Context, src source) ([]address.Range, error) {
	ranges, err := l.read(ctx, src)
	if err != nil {
		return nil, errors.Wrapf(err, "source %s", src)
	}
	common.Log.Debugf("[chain] %s: %d ranges", src, len(ranges))
	sourceRanges.WithLabelValues(string(src.kind)).Add(float64(len(ranges)))
	return ranges, nil
}

func (l *loader) read(ctx context.Context, src source) ([]address.Range, error) {
	switch src.kind {
	case sourceRaw:
		return parse.Parse(src.arg), nil
	case sourceFile:
		f, err := os.Open(src.arg)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parse.ParseReader(f)
	case sourceStdin:
		return parse.ParseReader(l.stdin)
	case sourceDNS:
		r, err := l.dns()
		if err != nil {
			return nil, err
		}
		return r.Lookup(ctx, src.arg)
	case sourceSPF:
		r, err := l.dns()
		if err != nil {
			return nil, err
		}
		return r.SPF(ctx, src.arg)
	case sourceWellKnown:
		set, err := l.registry.Lookup(src.arg)
		if err != nil {
			return nil, err
		}
		// the builder sorts its operands in place
		return append([]address.Range(nil), set.Normalized()...), nil
	}
	return nil, errors.Errorf("unknown source kind %q", src.kind)
}
