package commands

import (
	"errors"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// UpdateOrderCommand represents a request to replace an order's header and
// items wholesale. Only orders in Borrador or En Revisión accept edits; the
// handler enforces that gate.
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	actorID kernel.UUID
	header  order.Header
	items   []order.Item

	guard guard.ConstructorGuard
}

// NewUpdateOrderCommand creates a command to edit an existing order.
func NewUpdateOrderCommand(
	orderID kernel.OrderID,
	actorID kernel.UUID,
	header order.Header,
	items []order.Item,
) (UpdateOrderCommand, error) {
	cmd := UpdateOrderCommand{
		guard:  guard.NewConstructorGuard(),
		header: header,
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
		cmd.setItems(items),
	); err != nil {
		return UpdateOrderCommand{}, err
	}
	if header.ClientName == "" {
		return UpdateOrderCommand{}, ErrClientNameIsRequired
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to edit.
func (c UpdateOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// ActorID returns the identifier of the user performing the edit.
func (c UpdateOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Header returns the replacement header.
func (c UpdateOrderCommand) Header() order.Header {
	return c.header
}

// Items returns the replacement product lines.
func (c UpdateOrderCommand) Items() []order.Item {
	return c.items
}

func (c *UpdateOrderCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *UpdateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	c.items = items
	return nil
}
