package order

import (
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/pkg/errs"
)

// Comment is a free-text note attached to an order by any actor with
// visibility. Comments never affect workflow state and are kept newest-first
// for display.
type Comment struct {
	ID        kernel.UUID
	OrderID   kernel.OrderID
	UserID    kernel.UUID
	UserName  string
	Content   string
	CreatedAt time.Time
}

// NewComment creates a validated comment stamped with the current time.
func NewComment(orderID kernel.OrderID, userID kernel.UUID, userName, content string) (Comment, error) {
	if err := orderID.Validate(); err != nil {
		return Comment{}, err
	}
	if err := userID.Validate(); err != nil {
		return Comment{}, err
	}
	if content == "" {
		return Comment{}, errs.NewValueIsRequiredError("comment content")
	}

	return Comment{
		ID:        kernel.NewUUID(),
		OrderID:   orderID,
		UserID:    userID,
		UserName:  userName,
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}
