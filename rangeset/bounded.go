package rangeset

import (
	"github.com/iamainow/routes/net/address"
)

// Buffer provides the storage of Bounded sets and tracks who may use it.
// Every Borrow and Reset starts a new generation; a Bounded set from an
// earlier generation fails with ErrStaleBuffer instead of reading or
// writing memory that now belongs to someone else.
type Buffer struct {
	ranges []address.Range
	gen    uint64
}

func NewBuffer(capacity int) *Buffer {
	return &Buffer{ranges: make([]address.Range, capacity)}
}

func (b *Buffer) Cap() int { return len(b.ranges) }

// Borrow hands the whole buffer to a new, empty Bounded set and revokes
// the previous borrower.
func (b *Buffer) Borrow() *Bounded {
	b.gen++
	return &Bounded{buf: b.ranges, owner: b, gen: b.gen}
}

// Reset revokes the current borrower.
func (b *Buffer) Reset() { b.gen++ }

// Bounded is a normalized set living in a caller-supplied buffer. It never
// grows: an operation whose size formula exceeds the buffer fails with a
// *CapacityError and leaves the set unchanged.
//
// The set borrows its buffer. Nothing else may modify the buffer while the
// set is in use. Sets created from a Buffer check this at runtime; sets
// created with NewBounded rely on the caller.
type Bounded struct {
	buf   []address.Range
	n     int
	owner *Buffer
	gen   uint64
}

// NewBounded returns an empty set using all of buf as its capacity.
func NewBounded(buf []address.Range) *Bounded {
	return &Bounded{buf: buf}
}

// NewBoundedFrom normalizes the first n ranges of buf (any order) and uses
// them as the initial content.
func NewBoundedFrom(buf []address.Range, n int) *Bounded {
	return &Bounded{buf: buf, n: Normalize(buf[:n])}
}

func (s *Bounded) check() error {
	if s.owner != nil && s.owner.gen != s.gen {
		return ErrStaleBuffer
	}
	return nil
}

func (s *Bounded) mustCheck() {
	if err := s.check(); err != nil {
		panic(err)
	}
}

// Normalized returns a view into the borrowed buffer. It panics with
// ErrStaleBuffer when the buffer was reset.
func (s *Bounded) Normalized() []address.Range {
	s.mustCheck()
	return s.buf[:s.n]
}

// Len panics with ErrStaleBuffer when the buffer was reset.
func (s *Bounded) Len() int {
	s.mustCheck()
	return s.n
}

func (s *Bounded) Cap() int                  { return len(s.buf) }
func (s *Bounded) Count() address.Count      { return Count(s.Normalized()) }
func (s *Bounded) String() string            { return format(s.Normalized()) }
func (s *Bounded) Subnets() []address.Subnet { return Subnets(s.Normalized()) }
func (s *Bounded) Equal(v View) bool         { return Equal(s.Normalized(), v.Normalized()) }

func (s *Bounded) Contains(addr address.Address) bool { return Contains(s.Normalized(), addr) }

func (s *Bounded) Clear() error {
	if err := s.check(); err != nil {
		return err
	}
	s.n = 0
	return nil
}

func (s *Bounded) Insert(r address.Range) error {
	b := [1]address.Range{r}
	return s.apply("insert", b[:], UnionSize(s.n, 1), union)
}

func (s *Bounded) Union(v View) error {
	if v == View(s) {
		return s.check()
	}
	b := v.Normalized()
	return s.apply("union", b, UnionSize(s.n, len(b)), union)
}

func (s *Bounded) Except(v View) error {
	if v == View(s) {
		return s.Clear()
	}
	b := v.Normalized()
	return s.apply("except", b, ExceptSize(s.n, len(b)), except)
}

// Intersect keeps the addresses also in v. It needs IntersectSize(n1, n2)
// slots, that is n1+n2-1, so a buffer sized at min(n1, n2) is rejected
// with a *CapacityError.
func (s *Bounded) Intersect(v View) error {
	if v == View(s) {
		return s.check()
	}
	b := v.Normalized()
	return s.apply("intersect", b, IntersectSize(s.n, len(b)), intersect)
}

func (s *Bounded) Simplify(delta address.Count) error {
	if err := s.check(); err != nil {
		return err
	}
	s.n = Simplify(s.buf[:s.n], delta)
	return nil
}

func (s *Bounded) apply(op string, b []address.Range, need int, sweep sweepFunc) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := checkCapacity(op, need, len(s.buf)); err != nil {
		return err
	}
	if need < s.n {
		need = s.n
	}
	s.n = inPlace(s.buf[:need], s.n, b, sweep)
	return nil
}
