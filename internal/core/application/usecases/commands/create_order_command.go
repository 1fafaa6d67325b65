package commands

import (
	"errors"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrClientNameIsRequired = errors.New("client name is required")
	ErrItemsAreRequired     = errors.New("at least one order item is required")
)

// CreateOrderCommand represents a request to register a new order. The
// header carries the denormalized client and routing names captured by the
// order form; items are the requested product lines.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(sellerID, header, items, false)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, feed)
//	orderID, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	sellerID kernel.UUID
	header   order.Header
	items    []order.Item
	asDraft  bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order. The
// seller must be identified, the header must name a client, and at least
// one item must be present. asDraft keeps the order in Borrador instead of
// submitting it as Enviado.
func NewCreateOrderCommand(
	sellerID kernel.UUID,
	header order.Header,
	items []order.Item,
	asDraft bool,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard:  guard.NewConstructorGuard(),
		header: header,
	}

	if err := errors.Join(
		cmd.setSellerID(sellerID),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	if header.ClientName == "" {
		return CreateOrderCommand{}, ErrClientNameIsRequired
	}

	cmd.asDraft = asDraft
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// SellerID returns the identifier of the user creating the order.
func (c CreateOrderCommand) SellerID() kernel.UUID {
	return c.sellerID
}

// Header returns the denormalized order header.
func (c CreateOrderCommand) Header() order.Header {
	return c.header
}

// Items returns the requested product lines.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

// AsDraft reports whether the order should stay in Borrador.
func (c CreateOrderCommand) AsDraft() bool {
	return c.asDraft
}

func (c *CreateOrderCommand) setSellerID(sellerID kernel.UUID) error {
	if err := sellerID.Validate(); err != nil {
		return err
	}

	c.sellerID = sellerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	c.items = items
	return nil
}
