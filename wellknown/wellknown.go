// Package wellknown holds named IPv4 address lists from the IANA special
// purpose registry, and lets callers add their own.
package wellknown

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/iamainow/routes/net/address"
	"github.com/iamainow/routes/rangeset"
)

var builtin = map[string][]string{
	"loopback":  {"127.0.0.0/8"},
	"private":   {"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
	"linklocal": {"169.254.0.0/16"},
	"multicast": {"224.0.0.0/4"},
	"cgnat":     {"100.64.0.0/10"},
	"reserved": {
		"0.0.0.0/8",          // this network
		"192.0.0.0/24",       // IETF protocol assignments
		"192.0.2.0/24",       // TEST-NET-1
		"198.18.0.0/15",      // benchmarking
		"198.51.100.0/24",    // TEST-NET-2
		"203.0.113.0/24",     // TEST-NET-3
		"240.0.0.0/4",        // future use
		"255.255.255.255/32", // limited broadcast
	},
	"all": {"0.0.0.0/0"},
}

// bogonParts are merged into "bogon".
var bogonParts = []string{"loopback", "private", "linklocal", "multicast", "cgnat", "reserved"}

var ErrUnknown = errors.New("unknown address list")

// Registry maps names to address sets. It starts with the built-in lists.
type Registry struct {
	sets map[string]rangeset.Array
}

func NewRegistry() *Registry {
	reg := &Registry{sets: make(map[string]rangeset.Array)}
	for name, cidrs := range builtin {
		reg.sets[name] = mustParse(cidrs)
	}
	b := rangeset.NewBuilder(nil)
	for _, name := range bogonParts {
		b.UnionSorted(reg.sets[name].Normalized())
	}
	reg.sets["bogon"] = b.Build()
	return reg
}

func mustParse(cidrs []string) rangeset.Array {
	ranges := make([]address.Range, len(cidrs))
	for i, c := range cidrs {
		_, subnet, err := address.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		ranges[i] = subnet.Range()
	}
	return rangeset.NewArray(ranges...)
}

// Define adds or replaces a named set.
func (reg *Registry) Define(name string, ranges []address.Range) {
	reg.sets[name] = rangeset.NewArray(ranges...)
}

func (reg *Registry) Lookup(name string) (rangeset.Array, error) {
	set, found := reg.sets[name]
	if !found {
		return rangeset.Array{}, errors.Wrapf(ErrUnknown, "%q", name)
	}
	return set, nil
}

func (reg *Registry) Has(name string) bool {
	_, found := reg.sets[name]
	return found
}

// Names returns the defined names in alphabetical order.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.sets))
	for name := range reg.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Lookup finds a built-in list.
func Lookup(name string) (rangeset.Array, error) { return defaultRegistry.Lookup(name) }

// Names lists the built-in lists.
func Names() []string { return defaultRegistry.Names() }
