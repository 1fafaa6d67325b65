package services

import (
	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/user"
	"pedidos/internal/pkg/errs"
)

// AssignmentGuard validates the association between an order and a delivery
// person before it is recorded. Like the transition policy it is pure; the
// caller supplies the assignment date so the guard stays clock-free.
type AssignmentGuard struct{}

// NewAssignmentGuard creates an AssignmentGuard.
func NewAssignmentGuard() AssignmentGuard {
	return AssignmentGuard{}
}

// Check refuses the candidate if they are not an active delivery person, or
// if their unavailable-dates list contains the assignment date. A refused
// assignment produces DriverUnavailableError carrying the candidate's name
// and the date, for the caller to present; reassignment of an already
// assigned order passes through the same check and overwrites the prior
// driver.
func (g AssignmentGuard) Check(candidate *user.User, day kernel.DateOnly) error {
	if err := candidate.Validate(); err != nil {
		return err
	}
	if err := day.Validate(); err != nil {
		return err
	}

	if candidate.Role() != user.Delivery || !candidate.IsActive() {
		return errs.NewValueIsInvalidError("el usuario seleccionado no es un repartidor activo")
	}

	if candidate.IsUnavailableOn(day) {
		return errs.NewDriverUnavailableError(candidate.Name(), day.String())
	}

	return nil
}
