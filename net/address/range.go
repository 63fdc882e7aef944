package address

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Range is a closed interval of addresses.
type Range struct {
	First, Last Address // [First, Last]; First <= Last
}

// All covers the whole IPv4 space.
var All = Range{First: MinAddress, Last: MaxAddress}

func NewRange(first, last Address) (Range, error) {
	if first > last {
		return Range{}, errors.Wrapf(ErrInvalidRange, "%s-%s", first, last)
	}
	return Range{First: first, Last: last}, nil
}

// Single returns the range holding exactly one address.
func Single(addr Address) Range { return Range{First: addr, Last: addr} }

func (r Range) Count() Count               { return Count(r.Last) - Count(r.First) + 1 }
func (r Range) String() string             { return fmt.Sprintf("%s-%s", r.First, r.Last) }
func (r Range) Contains(addr Address) bool { return addr >= r.First && addr <= r.Last }
func (r Range) Overlaps(or Range) bool     { return r.First <= or.Last && or.First <= r.Last }

// Touches reports whether the two ranges overlap or have no gap between them,
// i.e. whether their union is a single range.
func (r Range) Touches(or Range) bool {
	if r.First > or.First {
		r, or = or, r
	}
	return Count(r.Last)+1 >= Count(or.First)
}

// Intersect returns the common part of both ranges; false if they are disjoint.
func (r Range) Intersect(or Range) (Range, bool) {
	if !r.Overlaps(or) {
		return Range{}, false
	}
	return Range{First: Max(r.First, or.First), Last: Min(r.Last, or.Last)}, true
}

// Valid reports whether the range respects First <= Last.
func (r Range) Valid() bool { return r.First <= r.Last }

// ParseRange parses "a.b.c.d-a.b.c.d"; surrounding blanks around the dash are allowed.
func ParseRange(s string) (Range, error) {
	i := strings.IndexByte(s, '-')
	if i < 0 {
		return Range{}, errors.Errorf("invalid range %q: missing '-'", s)
	}
	first, err := ParseIP(strings.TrimSpace(s[:i]))
	if err != nil {
		return Range{}, err
	}
	last, err := ParseIP(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return Range{}, err
	}
	return NewRange(first, last)
}
