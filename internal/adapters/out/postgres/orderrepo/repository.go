package orderrepo

import (
	"context"
	"errors"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/pkg/errs"

	"gorm.io/gorm"
)

// orderNumberSequence is the store-side sequence backing NextID. It is
// created at startup, never by scanning existing rows.
const orderNumberSequence = "order_number_seq"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id string, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items, logs and comments.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID().String(), aggregate)
	return nil
}

// Update saves an existing order. Child rows are replaced wholesale so the
// stored state mirrors the aggregate exactly.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select(
			"client_name", "client_tax_id", "client_phone",
			"order_type_name", "destination_name",
			"city_id", "city_name", "warehouse_id", "warehouse_name",
			"status", "delivery_id", "updated_at",
		).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", dto.ID)
	}

	for _, child := range []any{&OrderItemDTO{}, &OrderLogDTO{}, &OrderCommentDTO{}} {
		if err := db.Where("order_id = ?", dto.ID).Delete(child).Error; err != nil {
			return err
		}
	}
	if len(dto.Items) > 0 {
		if err := db.Create(&dto.Items).Error; err != nil {
			return err
		}
	}
	if len(dto.Logs) > 0 {
		if err := db.Create(&dto.Logs).Error; err != nil {
			return err
		}
	}
	if len(dto.Comments) > 0 {
		if err := db.Create(&dto.Comments).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID().String(), aggregate)
	return nil
}

// Get retrieves an order by its display identifier, with all child rows.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetPage retrieves a page of orders, newest first.
func (r *GormOrderRepository) GetPage(ctx context.Context, page, pageSize int) ([]*order.Order, error) {
	if page < 0 || pageSize <= 0 {
		return nil, errs.NewValueIsInvalidError("page")
	}

	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Order("created_at DESC, number DESC").
		Limit(pageSize).
		Offset(page * pageSize).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// NextID allocates the next order identifier from the database sequence.
func (r *GormOrderRepository) NextID(ctx context.Context) (kernel.OrderID, error) {
	var number int
	err := r.db.WithContext(ctx).
		Raw("SELECT nextval(?)", orderNumberSequence).
		Scan(&number).Error
	if err != nil {
		return kernel.OrderID{}, err
	}

	return kernel.NewOrderID(number)
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, id ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})
}
