// Package user contains the actor model: a user with a role, a city scope
// restricting visibility and authority, an active flag, and (for delivery
// staff) a list of calendar dates on which they are unavailable.
package user

import (
	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/pkg/errs"
)

// ErrUserIsNotConstructed is returned when a User instance was not created
// through the NewUser factory.
var ErrUserIsNotConstructed = errs.NewValueIsRequiredError("User must be created via NewUser")

// User is an actor in the order workflow.
type User struct {
	id               kernel.UUID
	name             string
	username         string
	role             Role
	assignedCityIDs  []string
	unavailableDates []kernel.DateOnly
	active           bool

	isConstructed bool
}

// NewUser creates a validated User.
func NewUser(
	id kernel.UUID,
	name, username string,
	role Role,
	assignedCityIDs []string,
	unavailableDates []kernel.DateOnly,
	active bool,
) (*User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}

	return &User{
		id:               id,
		name:             name,
		username:         username,
		role:             role,
		assignedCityIDs:  assignedCityIDs,
		unavailableDates: unavailableDates,
		active:           active,
		isConstructed:    true,
	}, nil
}

// Validate ensures the User was created via NewUser.
func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

// ID returns the user's identity.
func (u *User) ID() kernel.UUID { return u.id }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// Username returns the login name.
func (u *User) Username() string { return u.username }

// Role returns the actor role.
func (u *User) Role() Role { return u.role }

// AssignedCityIDs returns the city identities scoping this user's visibility
// and authority.
func (u *User) AssignedCityIDs() []string { return u.assignedCityIDs }

// IsActive reports whether the account is active.
func (u *User) IsActive() bool { return u.active }

// IsAssignedToCity reports whether the given city is in the user's scope.
func (u *User) IsAssignedToCity(cityID string) bool {
	for _, id := range u.assignedCityIDs {
		if id == cityID {
			return true
		}
	}
	return false
}

// IsUnavailableOn reports whether the user is marked unavailable on the given
// calendar date (vacation, sick leave).
func (u *User) IsUnavailableOn(day kernel.DateOnly) bool {
	for _, d := range u.unavailableDates {
		if d.IsEqual(day) {
			return true
		}
	}
	return false
}
