package order

import (
	"errors"
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder. This ensures all orders are properly
// validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Header groups the mutable descriptive fields of an order: who it is for and
// where it is fulfilled from. The seller identity and origin city are fixed at
// creation and are not part of the header.
type Header struct {
	ClientName       string
	ClientTaxID      string
	ClientPhone      string
	OrderTypeName    string
	DestinationName  string
	CityID           string
	CityName         string
	WarehouseID      string
	WarehouseName    string
}

func (h Header) validate() error {
	if h.ClientName == "" {
		return errs.NewValueIsRequiredError("clientName")
	}
	if h.OrderTypeName == "" {
		return errs.NewValueIsRequiredError("orderType")
	}
	if h.DestinationName == "" {
		return errs.NewValueIsRequiredError("destinationName")
	}
	if h.CityID == "" {
		return errs.NewValueIsRequiredError("cityId")
	}
	if h.WarehouseID == "" {
		return errs.NewValueIsRequiredError("warehouseId")
	}
	return nil
}

// Order is the central aggregate of the system: an order created by a seller,
// progressed through the fulfillment pipeline by warehouse/production/admin
// staff, and closed out by delivery personnel.
//
// Invariants:
//   - Must have a valid sequential identifier and a non-empty seller identity
//   - Items carry strictly positive quantities (zero-quantity lines are dropped)
//   - The log is append-only; one entry per meaningful mutation
//   - Comments are kept newest-first
//   - Status is only changed through ChangeStatus after the transition policy
//     approved the move; the aggregate itself enforces no role rules
//
// An order with no items is semantically invalid for submission; that guard
// belongs to the creating caller, since already-persisted orders may be edited
// down to different item sets.
type Order struct {
	id kernel.OrderID

	// seller identity, fixed at creation
	sellerID       kernel.UUID
	sellerName     string
	originCityName string

	header Header

	status     Status
	deliveryID *kernel.UUID

	items    []Item
	logs     []LogEntry
	comments []Comment

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a new Order in the given initial status. The observed
// creation flow submits orders directly as Enviado; Borrador is accepted for
// completeness. Items are normalized (quantity <= 0 dropped).
func NewOrder(
	id kernel.OrderID,
	sellerID kernel.UUID,
	sellerName string,
	originCityName string,
	header Header,
	items []Item,
	initial Status,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := sellerID.Validate(); err != nil {
		return nil, err
	}
	if sellerName == "" {
		return nil, errs.NewValueIsRequiredError("sellerName")
	}
	if err := header.validate(); err != nil {
		return nil, err
	}
	if err := initial.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Order{
		id:             id,
		sellerID:       sellerID,
		sellerName:     sellerName,
		originCityName: originCityName,
		header:         header,
		status:         initial,
		items:          normalizeItems(items),
		logs:           []LogEntry{},
		comments:       []Comment{},
		createdAt:      now,
		updatedAt:      now,
		isConstructed:  true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence without re-running the
// creation-time defaults. Status and identifiers are still validated.
func RestoreOrder(
	id kernel.OrderID,
	sellerID kernel.UUID,
	sellerName string,
	originCityName string,
	header Header,
	status Status,
	deliveryID *kernel.UUID,
	items []Item,
	logs []LogEntry,
	comments []Comment,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Order{
		id:             id,
		sellerID:       sellerID,
		sellerName:     sellerName,
		originCityName: originCityName,
		header:         header,
		status:         status,
		deliveryID:     deliveryID,
		items:          items,
		logs:           logs,
		comments:       sortCommentsNewestFirst(comments),
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Order was created via NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's sequential identifier.
func (o *Order) ID() kernel.OrderID { return o.id }

// SellerID returns the creating seller's identity.
func (o *Order) SellerID() kernel.UUID { return o.sellerID }

// SellerName returns the creating seller's display name.
func (o *Order) SellerName() string { return o.sellerName }

// OriginCityName returns the seller's base city name.
func (o *Order) OriginCityName() string { return o.originCityName }

// Header returns the mutable descriptive fields.
func (o *Order) Header() Header { return o.header }

// Status returns the current pipeline status.
func (o *Order) Status() Status { return o.status }

// DeliveryID returns the assigned delivery person's id, or nil if unassigned.
func (o *Order) DeliveryID() *kernel.UUID { return o.deliveryID }

// HasDelivery reports whether a delivery person is assigned.
func (o *Order) HasDelivery() bool { return o.deliveryID != nil }

// Items returns the order lines.
func (o *Order) Items() []Item { return o.items }

// Logs returns the append-only history, oldest first.
func (o *Order) Logs() []LogEntry { return o.logs }

// Comments returns the comments, newest first.
func (o *Order) Comments() []Comment { return o.comments }

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last-mutation timestamp.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// ChangeStatus records an already-approved status transition. Callers must
// run the transition policy first; this method only rejects structurally
// invalid statuses.
func (o *Order) ChangeStatus(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	o.status = target
	o.touch()
	return nil
}

// AssignDelivery records an already-approved delivery assignment.
// Reassignment overwrites the previous driver.
func (o *Order) AssignDelivery(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	o.deliveryID = &deliveryID
	o.touch()
	return nil
}

// ApplyEdit overwrites the header and replaces the item set wholesale.
// The previous lines are discarded entirely, not diffed. The caller is
// responsible for checking the editing gate (Status.AllowsEditing) first.
func (o *Order) ApplyEdit(header Header, items []Item) error {
	if err := header.validate(); err != nil {
		return err
	}
	o.header = header
	o.items = normalizeItems(items)
	o.touch()
	return nil
}

// AppendLog appends a history entry.
func (o *Order) AppendLog(entry LogEntry) {
	o.logs = append(o.logs, entry)
	o.touch()
}

// AddComment prepends a comment, keeping newest-first order.
func (o *Order) AddComment(comment Comment) {
	o.comments = append([]Comment{comment}, o.comments...)
	o.touch()
}

func (o *Order) touch() {
	o.updatedAt = time.Now()
}

func sortCommentsNewestFirst(comments []Comment) []Comment {
	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].CreatedAt.After(sorted[j-1].CreatedAt); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}
