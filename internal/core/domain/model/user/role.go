package user

import (
	"fmt"

	"pedidos/internal/pkg/errs"
)

// Role is the actor role driving visibility and transition authority.
// Display strings are the Spanish labels used throughout the application.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// Seller (Vendedor) creates orders; never progresses them directly.
	Seller

	// Warehouse (Bodega) reviews and dispatches; authority depends on
	// whether the staff member is scoped to a principal city.
	Warehouse

	// Production (Producción) runs the production stage.
	Production

	// Admin (Administrador) holds the full transition set.
	Admin

	// Delivery (Repartidor) closes dispatched orders out via the dedicated
	// delivery confirmation.
	Delivery
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown: "Desconocido",
		Seller:      "Vendedor",
		Warehouse:   "Bodega",
		Production:  "Producción",
		Admin:       "Administrador",
		Delivery:    "Repartidor",
	}
}

// Validate checks that the role is one of the defined actor roles.
func (r Role) Validate() error {
	if r < Seller || r > Delivery {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the Spanish display label. Implements fmt.Stringer.
func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "Desconocido"
}
