package order

import (
	"fmt"

	"pedidos/internal/pkg/errs"
)

// Status represents the lifecycle state of an order in the fulfillment
// pipeline. Display strings are the Spanish labels shown to operators.
//
// The pipeline is not a strict DAG: Borrador, Enviado, En Revisión and
// En Producción remain mutually reachable for full-access roles before
// dispatch, while En Despacho, Entregado, Cancelado and Rechazado are
// increasingly restrictive exits. Which edges are actually legal for a given
// actor is decided by the transition policy in the services package; this
// type only knows structural facts about individual statuses.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Draft (Borrador): the order is being prepared and fully editable.
	Draft

	// Sent (Enviado): submitted by the seller. This is the initial status of
	// the observed creation flow; orders are rarely created as Draft.
	Sent

	// Review (En Revisión): under warehouse review, still fully editable.
	Review

	// Production (En Producción): accepted into production.
	Production

	// Dispatch (En Despacho): handed to a delivery person, en route. With a
	// driver assigned, only Delivered and Cancelled remain reachable.
	Dispatch

	// Delivered (Entregado): terminal success state.
	Delivered

	// Cancelled (Cancelado): terminal side-exit, requires a reason.
	Cancelled

	// Rejected (Rechazado): terminal side-exit set by warehouse staff,
	// requires a reason.
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Desconocido",
		Draft:      "Borrador",
		Sent:       "Enviado",
		Review:     "En Revisión",
		Production: "En Producción",
		Dispatch:   "En Despacho",
		Delivered:  "Entregado",
		Cancelled:  "Cancelado",
		Rejected:   "Rechazado",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Draft:      "Borrador",
		Sent:       "Enviado",
		Review:     "En Revisión",
		Production: "En Producción",
		Dispatch:   "En Despacho",
		Delivered:  "Entregado",
		Cancelled:  "Cancelado",
		Rejected:   "Rechazado",
	}
}

// Validate checks if the Status value is one of the defined pipeline states.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the Spanish display label of the status, or "Desconocido"
// for invalid values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Desconocido"
}

// IsTerminal reports whether the status is a lifecycle end state: no later
// pipeline stage follows it. Whether an actor may still move an order out
// of such a state is decided by the transition policy, which lets
// full-access roles reopen these orders.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Rejected
}

// AllowsEditing reports whether the order may be opened for full field and
// item editing. Only Borrador and En Revisión qualify; the policy refuses
// edits in every other status even if a caller asks.
func (s Status) AllowsEditing() bool {
	return s == Draft || s == Review
}

// RequiresReason reports whether a transition into this status must carry a
// free-text reason (terminal side-exits).
func (s Status) RequiresReason() bool {
	return s == Cancelled || s == Rejected
}
