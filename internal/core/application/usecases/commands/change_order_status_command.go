package commands

import (
	"errors"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents a request to move an order to a new
// workflow status. The reason accompanies Cancelado and Rechazado targets;
// for other targets it is ignored.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	actorID kernel.UUID
	target  order.Status
	reason  string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a command to change an order's status.
// The target must be a recognized status; whether the actor may reach it is
// decided by the transition policy at handling time.
func NewChangeOrderStatusCommand(
	orderID kernel.OrderID,
	actorID kernel.UUID,
	target order.Status,
	reason string,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard:  guard.NewConstructorGuard(),
		reason: reason,
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
		cmd.setTarget(target),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to move.
func (c ChangeOrderStatusCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// ActorID returns the identifier of the requesting user.
func (c ChangeOrderStatusCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Target returns the requested status.
func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

// Reason returns the free-text reason supplied with the request.
func (c ChangeOrderStatusCommand) Reason() string {
	return c.reason
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *ChangeOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
