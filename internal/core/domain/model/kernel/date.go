package kernel

import (
	"fmt"
	"time"

	"pedidos/internal/pkg/errs"
)

const dateOnlyLayout = "2006-01-02"

// DateOnly is a calendar date in "YYYY-MM-DD" form, the format used for
// delivery-staff unavailability lists. It carries no time zone beyond the
// one it was derived from.
type DateOnly struct {
	value string
}

// DateOnlyOf truncates a time.Time to its calendar date.
func DateOnlyOf(t time.Time) DateOnly {
	return DateOnly{value: t.Format(dateOnlyLayout)}
}

// Today returns the current calendar date in local time.
func Today() DateOnly {
	return DateOnlyOf(time.Now())
}

// ParseDateOnly validates and wraps a "YYYY-MM-DD" string.
func ParseDateOnly(s string) (DateOnly, error) {
	if _, err := time.Parse(dateOnlyLayout, s); err != nil {
		return DateOnly{}, errs.NewValueIsInvalidErrorWithCause("date",
			fmt.Errorf("%q is not a YYYY-MM-DD date", s))
	}
	return DateOnly{value: s}, nil
}

// String returns the "YYYY-MM-DD" representation.
func (d DateOnly) String() string {
	return d.value
}

// IsEqual compares two dates by value.
func (d DateOnly) IsEqual(other DateOnly) bool {
	return d.value == other.value
}

// Validate returns an error for the zero value.
func (d DateOnly) Validate() error {
	if d.value == "" {
		return errs.NewValueIsRequiredError("date")
	}
	return nil
}
