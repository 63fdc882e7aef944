package rangeset

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrCapacity is matched (errors.Is) by every *CapacityError.
	ErrCapacity = errors.New("insufficient buffer capacity")
	// ErrStaleBuffer is returned by a Bounded set whose Buffer has since
	// been reset or lent to another borrower.
	ErrStaleBuffer = errors.New("buffer was reset by its provider")
)

// CapacityError reports an output buffer shorter than the size formula
// of the operation. Nothing has been written when it is returned.
type CapacityError struct {
	Op   string
	Need int
	Have int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: buffer holds %d ranges, %d required", e.Op, e.Have, e.Need)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacity }

func checkCapacity(op string, need, have int) error {
	if have < need {
		return &CapacityError{Op: op, Need: need, Have: have}
	}
	return nil
}
