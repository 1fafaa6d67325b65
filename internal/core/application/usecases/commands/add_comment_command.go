package commands

import (
	"errors"
	"strings"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/pkg/guard"
)

var (
	ErrAddCommentCommandIsNotConstructed = errors.New(
		"AddCommentCommand must be created via NewAddCommentCommand constructor",
	)
	ErrCommentContentIsRequired = errors.New("comment content is required")
)

// AddCommentCommand represents a request to attach a free-text comment to
// an order.
type AddCommentCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.OrderID
	authorID kernel.UUID
	content  string

	guard guard.ConstructorGuard
}

// NewAddCommentCommand creates a command to comment on an order. Blank
// content is rejected.
func NewAddCommentCommand(orderID kernel.OrderID, authorID kernel.UUID, content string) (AddCommentCommand, error) {
	cmd := AddCommentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAuthorID(authorID),
		cmd.setContent(content),
	); err != nil {
		return AddCommentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddCommentCommand) Validate() error {
	return c.guard.Validate(ErrAddCommentCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to comment on.
func (c AddCommentCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// AuthorID returns the identifier of the commenting user.
func (c AddCommentCommand) AuthorID() kernel.UUID {
	return c.authorID
}

// Content returns the comment text.
func (c AddCommentCommand) Content() string {
	return c.content
}

func (c *AddCommentCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AddCommentCommand) setAuthorID(authorID kernel.UUID) error {
	if err := authorID.Validate(); err != nil {
		return err
	}

	c.authorID = authorID
	return nil
}

func (c *AddCommentCommand) setContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrCommentContentIsRequired
	}

	c.content = content
	return nil
}
