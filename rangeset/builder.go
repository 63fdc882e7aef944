package rangeset

import (
	"github.com/iamainow/routes/common"
	"github.com/iamainow/routes/net/address"
)

type opKind int

const (
	opUnion opKind = iota
	opExcept
)

func (k opKind) String() string {
	if k == opExcept {
		return "except"
	}
	return "union"
}

type operation struct {
	kind   opKind
	ranges []address.Range
	sorted bool
}

// Builder records a chain of unions and exceptions against a base and runs
// them all at once in a single buffer, without intermediate sets.
//
// Unsorted operands are sorted in place when the chain is executed; the
// builder owns them until Execute returns.
type Builder struct {
	base []address.Range
	ops  []operation
}

// NewBuilder starts a chain from base, in any order. base is copied at
// Execute and never modified.
func NewBuilder(base []address.Range) *Builder {
	return &Builder{base: base}
}

func (b *Builder) Union(rs []address.Range) *Builder       { return b.add(opUnion, rs, false) }
func (b *Builder) UnionSorted(rs []address.Range) *Builder { return b.add(opUnion, rs, true) }
func (b *Builder) Except(rs []address.Range) *Builder      { return b.add(opExcept, rs, false) }

// ExceptSorted records an exception by ranges sorted by First; they do not
// need to be coalesced.
func (b *Builder) ExceptSorted(rs []address.Range) *Builder { return b.add(opExcept, rs, true) }

func (b *Builder) add(kind opKind, rs []address.Range, sorted bool) *Builder {
	b.ops = append(b.ops, operation{kind: kind, ranges: rs, sorted: sorted})
	return b
}

// Plan returns the buffer size Execute needs: the size formulas of every
// step added up, which bounds the intermediate result at each step.
func (b *Builder) Plan() int {
	n := len(b.base)
	for _, op := range b.ops {
		n += len(op.ranges)
	}
	return n
}

// Execute replays the chain into buf and returns the normalized result,
// a prefix of buf.
func (b *Builder) Execute(buf []address.Range) ([]address.Range, error) {
	need := b.Plan()
	if err := checkCapacity("execute", need, len(buf)); err != nil {
		return nil, err
	}
	n := Normalize(buf[:copy(buf, b.base)])
	for _, op := range b.ops {
		if !op.sorted {
			Sort(op.ranges)
		}
		total := n + len(op.ranges)
		common.Assert(total <= need)
		switch op.kind {
		case opUnion:
			n = inPlace(buf[:total], n, op.ranges, union)
		case opExcept:
			n = inPlace(buf[:total], n, op.ranges, except)
		}
	}
	return buf[:n], nil
}

// Build executes the chain into a buffer of exactly Plan() ranges.
func (b *Builder) Build() Array {
	rs, err := b.Execute(make([]address.Range, b.Plan()))
	common.Assert(err == nil)
	n := len(rs)
	if n < cap(rs)/2 {
		rs = append([]address.Range(nil), rs...)
	}
	return Array{ranges: rs[:n:n]}
}
