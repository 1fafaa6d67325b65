package commands

import (
	"errors"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/pkg/guard"
)

var ErrAssignDeliveryCommandIsNotConstructed = errors.New(
	"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
)

// AssignDeliveryCommand represents a request to assign a delivery person to
// an order. Assigning to an already assigned order overwrites the previous
// driver.
type AssignDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.OrderID
	actorID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignDeliveryCommand creates a command to assign a driver to an order.
func NewAssignDeliveryCommand(orderID kernel.OrderID, actorID, driverID kernel.UUID) (AssignDeliveryCommand, error) {
	cmd := AssignDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
		cmd.setDriverID(driverID),
	); err != nil {
		return AssignDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to assign.
func (c AssignDeliveryCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// ActorID returns the identifier of the user performing the assignment.
func (c AssignDeliveryCommand) ActorID() kernel.UUID {
	return c.actorID
}

// DriverID returns the identifier of the delivery person to assign.
func (c AssignDeliveryCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *AssignDeliveryCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignDeliveryCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *AssignDeliveryCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
