// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. The order aggregate spans four tables: the header row
// plus its items, log entries and comments, written together so readers
// never observe a header without its lines.
package orderrepo

import (
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order headers.
// Child rows hang off the textual order id; the numeric suffix is kept in
// its own column for stable ordering and the id sequence.
type OrderDTO struct {
	ID              string     `gorm:"primaryKey;size:32"`
	Number          int        `gorm:"uniqueIndex"`
	SellerID        uuid.UUID  `gorm:"type:uuid;index"`
	SellerName      string
	OriginCityName  string
	ClientName      string
	ClientTaxID     string
	ClientPhone     string
	OrderTypeName   string
	DestinationName string
	CityID          string `gorm:"index"`
	CityName        string
	WarehouseID     string
	WarehouseName   string
	Status          int        `gorm:"index"`
	DeliveryID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time  `gorm:"index"`
	UpdatedAt       time.Time

	Items    []OrderItemDTO    `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	Logs     []OrderLogDTO     `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	Comments []OrderCommentDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one product line of an order.
type OrderItemDTO struct {
	ID               uint   `gorm:"primaryKey"`
	OrderID          string `gorm:"size:32;index"`
	ProductID        string
	ProductName      string
	PresentationID   string
	PresentationName string
	Quantity         int
}

// TableName maps item rows to "order_items".
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// OrderLogDTO is one append-only history entry of an order.
type OrderLogDTO struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   string `gorm:"size:32;index"`
	Timestamp time.Time
	Message   string
	UserName  string
}

// TableName maps log rows to "order_logs".
func (OrderLogDTO) TableName() string {
	return "order_logs"
}

// OrderCommentDTO is one free-text comment on an order.
type OrderCommentDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   string    `gorm:"size:32;index"`
	UserID    uuid.UUID `gorm:"type:uuid"`
	UserName  string
	Content   string
	CreatedAt time.Time
}

// TableName maps comment rows to "order_comments".
func (OrderCommentDTO) TableName() string {
	return "order_comments"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var deliveryID *uuid.UUID
	if id := aggregate.DeliveryID(); id != nil {
		raw := id.Bytes()
		deliveryID = &raw
	}

	header := aggregate.Header()
	dto := OrderDTO{
		ID:              aggregate.ID().String(),
		Number:          aggregate.ID().Number(),
		SellerID:        aggregate.SellerID().Bytes(),
		SellerName:      aggregate.SellerName(),
		OriginCityName:  aggregate.OriginCityName(),
		ClientName:      header.ClientName,
		ClientTaxID:     header.ClientTaxID,
		ClientPhone:     header.ClientPhone,
		OrderTypeName:   header.OrderTypeName,
		DestinationName: header.DestinationName,
		CityID:          header.CityID,
		CityName:        header.CityName,
		WarehouseID:     header.WarehouseID,
		WarehouseName:   header.WarehouseName,
		Status:          int(aggregate.Status()),
		DeliveryID:      deliveryID,
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
	}

	for _, item := range aggregate.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:          dto.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			PresentationID:   item.PresentationID,
			PresentationName: item.PresentationName,
			Quantity:         item.Quantity,
		})
	}
	for _, entry := range aggregate.Logs() {
		dto.Logs = append(dto.Logs, OrderLogDTO{
			OrderID:   dto.ID,
			Timestamp: entry.Timestamp,
			Message:   entry.Message,
			UserName:  entry.UserName,
		})
	}
	for _, comment := range aggregate.Comments() {
		dto.Comments = append(dto.Comments, OrderCommentDTO{
			ID:        comment.ID.Bytes(),
			OrderID:   dto.ID,
			UserID:    comment.UserID.Bytes(),
			UserName:  comment.UserName,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		})
	}

	return dto
}

// toDomain converts a database DTO back to an order aggregate using
// RestoreOrder, preserving timestamps and child rows.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.ParseOrderID(dto.ID)
	if err != nil {
		return nil, err
	}

	sellerID, err := kernel.UUIDFromString(dto.SellerID.String())
	if err != nil {
		return nil, err
	}

	var deliveryID *kernel.UUID
	if dto.DeliveryID != nil {
		dID, dErr := kernel.UUIDFromString(dto.DeliveryID.String())
		if dErr != nil {
			return nil, dErr
		}
		deliveryID = &dID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, row := range dto.Items {
		items = append(items, order.Item{
			ProductID:        row.ProductID,
			ProductName:      row.ProductName,
			PresentationID:   row.PresentationID,
			PresentationName: row.PresentationName,
			Quantity:         row.Quantity,
		})
	}

	logs := make([]order.LogEntry, 0, len(dto.Logs))
	for _, row := range dto.Logs {
		logs = append(logs, order.LogEntry{
			Timestamp: row.Timestamp,
			Message:   row.Message,
			UserName:  row.UserName,
		})
	}

	comments := make([]order.Comment, 0, len(dto.Comments))
	for _, row := range dto.Comments {
		commentID, cErr := kernel.UUIDFromString(row.ID.String())
		if cErr != nil {
			return nil, cErr
		}
		userID, cErr := kernel.UUIDFromString(row.UserID.String())
		if cErr != nil {
			return nil, cErr
		}
		comments = append(comments, order.Comment{
			ID:        commentID,
			OrderID:   id,
			UserID:    userID,
			UserName:  row.UserName,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		})
	}

	header := order.Header{
		ClientName:      dto.ClientName,
		ClientTaxID:     dto.ClientTaxID,
		ClientPhone:     dto.ClientPhone,
		OrderTypeName:   dto.OrderTypeName,
		DestinationName: dto.DestinationName,
		CityID:          dto.CityID,
		CityName:        dto.CityName,
		WarehouseID:     dto.WarehouseID,
		WarehouseName:   dto.WarehouseName,
	}

	return order.RestoreOrder(
		id, sellerID, dto.SellerName, dto.OriginCityName,
		header, order.Status(dto.Status), deliveryID,
		items, logs, comments,
		dto.CreatedAt, dto.UpdatedAt,
	)
}
