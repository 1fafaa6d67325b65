package kernel

import (
	"fmt"
	"regexp"
	"strconv"

	"pedidos/internal/pkg/errs"
)

// ErrOrderIDIsNotConstructed indicates an OrderID that was not created through
// NewOrderID or ParseOrderID.
var ErrOrderIDIsNotConstructed = errs.NewValueIsRequiredError(
	"OrderID must be created via NewOrderID or ParseOrderID")

var orderIDPattern = regexp.MustCompile(`^ORD-(\d{3,})$`)

// OrderID is the sequential human-readable order identifier, formatted as
// "ORD-###" with the numeric suffix zero-padded to at least three digits.
//
// The numeric suffix is assigned by the backing store's sequence, never by
// scanning existing rows, so concurrent creators cannot collide.
//
// The zero value is invalid and must be constructed via NewOrderID or
// ParseOrderID.
type OrderID struct {
	value  string
	number int
}

// NewOrderID builds an OrderID from its sequence number.
// The number must be positive.
func NewOrderID(number int) (OrderID, error) {
	if number <= 0 {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause("order number",
			fmt.Errorf("%d is not greater than 0", number))
	}
	return OrderID{
		value:  fmt.Sprintf("ORD-%03d", number),
		number: number,
	}, nil
}

// ParseOrderID parses the "ORD-###" textual form, as stored in the database
// and exchanged over the API.
func ParseOrderID(s string) (OrderID, error) {
	m := orderIDPattern.FindStringSubmatch(s)
	if m == nil {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause("order id",
			fmt.Errorf("%q does not match ORD-###", s))
	}

	number, err := strconv.Atoi(m[1])
	if err != nil || number <= 0 {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause("order id",
			fmt.Errorf("%q has an invalid numeric suffix", s))
	}

	return OrderID{value: s, number: number}, nil
}

// String returns the "ORD-###" representation.
func (id OrderID) String() string {
	return id.value
}

// Number returns the numeric suffix of the identifier.
func (id OrderID) Number() int {
	return id.number
}

// IsEqual compares two order identifiers by value.
func (id OrderID) IsEqual(other OrderID) bool {
	return id.value == other.value
}

// Validate returns ErrOrderIDIsNotConstructed for a zero-value OrderID.
func (id OrderID) Validate() error {
	if id.value == "" {
		return ErrOrderIDIsNotConstructed
	}
	return nil
}
