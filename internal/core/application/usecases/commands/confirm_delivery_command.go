package commands

import (
	"errors"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand represents a delivery person confirming that a
// dispatched order reached the client. This is the only path into the
// Entregado status for drivers.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a command to confirm a delivery.
func NewConfirmDeliveryCommand(orderID kernel.OrderID, actorID kernel.UUID) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
	); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to confirm.
func (c ConfirmDeliveryCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// ActorID returns the identifier of the confirming delivery person.
func (c ConfirmDeliveryCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *ConfirmDeliveryCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ConfirmDeliveryCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}
