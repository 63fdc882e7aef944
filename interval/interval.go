// Package interval implements range algebra over any discrete, totally
// ordered domain. address.Address is one such domain; the rangeset
// package is the specialised, buffer-oriented version for it.
package interval

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
)

// Discrete is the capability a value type needs to take part in interval
// algebra. Successor and Predecessor report false at the domain boundaries.
type Discrete[T any] interface {
	Compare(T) int
	Successor() (T, bool)
	Predecessor() (T, bool)
}

var ErrInvalid = errors.New("interval first is after last")

// Interval is the closed interval [First, Last].
type Interval[T Discrete[T]] struct {
	First, Last T
}

func New[T Discrete[T]](first, last T) (Interval[T], error) {
	if first.Compare(last) > 0 {
		return Interval[T]{}, errors.Wrapf(ErrInvalid, "%v-%v", first, last)
	}
	return Interval[T]{First: first, Last: last}, nil
}

func (i Interval[T]) Contains(v T) bool {
	return i.First.Compare(v) <= 0 && v.Compare(i.Last) <= 0
}

func (i Interval[T]) String() string { return fmt.Sprintf("%v-%v", i.First, i.Last) }

// endsBefore reports whether a gap of at least one value separates the end
// of i from v.
func (i Interval[T]) endsBefore(v T) bool {
	next, ok := i.Last.Successor()
	return ok && next.Compare(v) < 0
}

// startsAfter reports whether a gap of at least one value separates v from
// the start of i.
func (i Interval[T]) startsAfter(v T) bool {
	prev, ok := i.First.Predecessor()
	return ok && prev.Compare(v) > 0
}

func compareFirst[T Discrete[T]](a, b Interval[T]) int {
	if c := a.First.Compare(b.First); c != 0 {
		return c
	}
	return a.Last.Compare(b.Last)
}

// Normalize sorts xs and merges overlapping or adjacent intervals in place.
// The result is xs[:n].
func Normalize[T Discrete[T]](xs []Interval[T]) int {
	if len(xs) == 0 {
		return 0
	}
	slices.SortFunc(xs, compareFirst[T])
	n := 0
	for _, x := range xs[1:] {
		if xs[n].endsBefore(x.First) {
			n++
			xs[n] = x
		} else if x.Last.Compare(xs[n].Last) > 0 {
			xs[n].Last = x.Last
		}
	}
	return n + 1
}
