package services

import (
	"fmt"
	"strings"

	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/domain/model/user"
	"pedidos/internal/pkg/errs"
)

// AccessLevel is the transition authority derived from an actor's role and
// city scope. The policy's rule table is keyed by access level, never by raw
// role, so the role-to-authority mapping stays in one place.
type AccessLevel int

const (
	// AccessNone: the actor may not request general transitions at all
	// (sellers, delivery staff — the latter use the dedicated delivery
	// confirmation instead).
	AccessNone AccessLevel = iota

	// AccessOperator: restricted pipeline operator, limited to advancing
	// En Revisión to En Producción and En Producción to En Despacho.
	AccessOperator

	// AccessStandard: warehouse staff outside the principal city.
	AccessStandard

	// AccessFull: Administrador, Producción, or Bodega staff whose city
	// scope includes a principal city.
	AccessFull
)

// AccessFor derives the actor's access level. principalCityIDs are the
// identifiers of cities flagged as principal.
func AccessFor(actor *user.User, principalCityIDs []string) AccessLevel {
	switch actor.Role() {
	case user.Admin, user.Production:
		return AccessFull
	case user.Warehouse:
		for _, id := range principalCityIDs {
			if actor.IsAssignedToCity(id) {
				return AccessFull
			}
		}
		return AccessStandard
	default:
		return AccessNone
	}
}

// transitionRule describes the transition authority of one access level:
// either a flat set of reachable targets, or explicit current-to-target
// edges for restricted operators.
type transitionRule struct {
	targets map[order.Status]bool
	edges   map[order.Status]order.Status
}

func (r transitionRule) allows(current, target order.Status) bool {
	if r.edges != nil {
		return r.edges[current] == target
	}
	return r.targets[target]
}

// transitionTable is the role-scoped transition authority, evaluated after
// the structural guards (missing driver, in-flight lock). Keeping it as data
// lets the table be tested independently of any call site.
var transitionTable = map[AccessLevel]transitionRule{
	AccessFull: {
		targets: map[order.Status]bool{
			order.Draft:      true,
			order.Sent:       true,
			order.Review:     true,
			order.Production: true,
			order.Dispatch:   true,
			order.Delivered:  true,
			order.Cancelled:  true,
			order.Rejected:   true,
		},
	},
	AccessStandard: {
		targets: map[order.Status]bool{
			order.Draft:     true,
			order.Review:    true,
			order.Dispatch:  true,
			order.Cancelled: true,
		},
	},
	AccessOperator: {
		edges: map[order.Status]order.Status{
			order.Review:     order.Production,
			order.Production: order.Dispatch,
		},
	},
}

// Decision is the outcome of an approved transition request: the target to
// persist and the history entry to append. NoOp marks the idempotent case
// (target equals current status), which persists nothing and logs nothing.
type Decision struct {
	Target     order.Status
	LogMessage string
	NoOp       bool
}

// TransitionPolicy decides whether a requested status change is permitted
// and which side effects it carries. It is pure: no I/O, no clock, no
// persistence. Every refusal is a typed error naming the specific blocking
// condition, because each refusal kind demands a different corrective action
// from the operator.
type TransitionPolicy struct{}

// NewTransitionPolicy creates a TransitionPolicy.
func NewTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{}
}

// Decide evaluates a transition request. Rules are applied in this order:
//
//  1. Idempotence: requesting the current status is a no-op with no log.
//  2. No driver, no dispatch: a move into En Despacho without an assigned
//     delivery person is refused before any role rule.
//  3. In-flight lock: an order in En Despacho with a driver assigned only
//     accepts Entregado or Cancelado.
//  4. Reason requirement: Cancelado and Rechazado demand a non-blank reason.
//  5. Role table: the access level's transition set must include the move.
//
// On approval the Decision carries the log message to append: the generic
// status-change message, or the reason-bearing message for terminations.
func (p TransitionPolicy) Decide(
	o *order.Order,
	level AccessLevel,
	target order.Status,
	reason string,
) (Decision, error) {
	if err := o.Validate(); err != nil {
		return Decision{}, err
	}
	if err := target.Validate(); err != nil {
		return Decision{}, err
	}

	if o.Status() == target {
		return Decision{Target: target, NoOp: true}, nil
	}

	if target == order.Dispatch && !o.HasDelivery() {
		return Decision{}, errs.NewTransitionDeniedError(
			errs.TransitionDeniedMissingDriver, o.ID().String(),
			`debe asignar un repartidor antes de pasar a "En Despacho"`)
	}

	if o.Status() == order.Dispatch && o.HasDelivery() &&
		target != order.Delivered && target != order.Cancelled {
		return Decision{}, errs.NewTransitionDeniedError(
			errs.TransitionDeniedInFlightLock, o.ID().String(),
			"el pedido ya está en manos del repartidor, no se puede revertir el estado")
	}

	reason = strings.TrimSpace(reason)
	if target.RequiresReason() && reason == "" {
		action := "cancelar el pedido"
		if target == order.Rejected {
			action = "rechazar el pedido"
		}
		return Decision{}, errs.NewReasonRequiredError(action)
	}

	rule, ok := transitionTable[level]
	if !ok || !rule.allows(o.Status(), target) {
		return Decision{}, errs.NewTransitionDeniedError(
			errs.TransitionDeniedRoleInsufficient, o.ID().String(),
			fmt.Sprintf("el rol no permite cambiar el pedido a %q", target.String()))
	}

	return Decision{Target: target, LogMessage: logMessageFor(target, reason)}, nil
}

// ConfirmDelivery evaluates the delivery person's dedicated confirmation
// action: the one transition the in-flight lock is designed to allow. The
// actor must be the assigned driver and the order must be En Despacho.
func (p TransitionPolicy) ConfirmDelivery(o *order.Order, actor *user.User) (Decision, error) {
	if err := o.Validate(); err != nil {
		return Decision{}, err
	}
	if err := actor.Validate(); err != nil {
		return Decision{}, err
	}

	if o.Status() == order.Delivered {
		return Decision{Target: order.Delivered, NoOp: true}, nil
	}

	if o.Status() != order.Dispatch || !o.HasDelivery() {
		return Decision{}, errs.NewTransitionDeniedError(
			errs.TransitionDeniedRoleInsufficient, o.ID().String(),
			"solo un pedido en despacho con repartidor asignado puede confirmarse como entregado")
	}

	if actor.Role() != user.Delivery || !o.DeliveryID().IsEqual(actor.ID()) {
		return Decision{}, errs.NewTransitionDeniedError(
			errs.TransitionDeniedRoleInsufficient, o.ID().String(),
			"solo el repartidor asignado puede confirmar la entrega")
	}

	return Decision{
		Target:     order.Delivered,
		LogMessage: logMessageFor(order.Delivered, ""),
	}, nil
}

// ValidateEdit enforces the editing gate: full field/item editing is only
// permitted in Borrador or En Revisión.
func (p TransitionPolicy) ValidateEdit(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !o.Status().AllowsEditing() {
		return errs.NewTransitionDeniedError(
			errs.TransitionDeniedEditLocked, o.ID().String(),
			`el pedido solo puede editarse en "Borrador" o "En Revisión"`)
	}
	return nil
}

// logMessageFor builds the history message of an approved transition:
// the generic status-change text, or the reason-bearing termination text.
func logMessageFor(target order.Status, reason string) string {
	switch {
	case target == order.Rejected:
		return fmt.Sprintf("Rechazado: %s", reason)
	case target == order.Cancelled:
		return fmt.Sprintf("Cancelado: %s", reason)
	default:
		return fmt.Sprintf("Estado cambiado a %s", target.String())
	}
}
