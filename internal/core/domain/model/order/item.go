package order

import (
	"fmt"

	"pedidos/internal/pkg/errs"
)

// Item is a single order line: a product in a given presentation with a
// strictly positive quantity. Product and presentation names are denormalized
// onto the line so historical orders survive catalog renames.
type Item struct {
	ProductID        string
	ProductName      string
	PresentationID   string
	PresentationName string
	Quantity         int
}

// NewItem creates a validated order line.
func NewItem(productID, productName, presentationID, presentationName string, quantity int) (Item, error) {
	if productID == "" {
		return Item{}, errs.NewValueIsRequiredError("productId")
	}
	if presentationID == "" {
		return Item{}, errs.NewValueIsRequiredError("presentationId")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{
		ProductID:        productID,
		ProductName:      productName,
		PresentationID:   presentationID,
		PresentationName: presentationName,
		Quantity:         quantity,
	}, nil
}

// normalizeItems drops lines whose quantity fell to zero or below. An item
// edited down to quantity 0 is removed rather than stored at zero.
func normalizeItems(items []Item) []Item {
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	return kept
}
