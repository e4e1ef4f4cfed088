package availability

import (
	"strings"

	"booking-engine/internal/pkg/errs"
)

// UnavailableError reports a stay that overlaps unavailable dates.
// Ranges holds the current unavailable set around the stay so the client can adjust.
type UnavailableError struct {
	Stay      DateRange
	Conflicts []DateRange
	Ranges    []DateRange
}

func (e *UnavailableError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return "dates unavailable for " + e.Stay.String() + ": " + strings.Join(parts, ", ")
}

// CheckStay returns a DateUnavailable error when stay overlaps any of unavailable.
func CheckStay(unavailable []DateRange, stay DateRange) error {
	conflicts := Conflicts(unavailable, stay)
	if len(conflicts) == 0 {
		return nil
	}
	return errs.Mark(&UnavailableError{Stay: stay, Conflicts: conflicts, Ranges: unavailable}, errs.ErrDateUnavailable)
}
