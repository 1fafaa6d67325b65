package userrepo

import (
	"context"
	"errors"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/user"
	"pedidos/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserRepository implements ports.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Get retrieves a user by identifier with city assignments and
// unavailable dates.
func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	err := r.db.WithContext(ctx).
		Preload("Cities").
		Preload("UnavailableDates").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActiveDelivery retrieves every active user with the Repartidor role.
func (r *GormUserRepository) GetAllActiveDelivery(ctx context.Context) ([]*user.User, error) {
	var dtos []UserDTO
	err := r.db.WithContext(ctx).
		Preload("Cities").
		Preload("UnavailableDates").
		Where("role = ? AND active", int(user.Delivery)).
		Order("name ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(dtos))
	for _, dto := range dtos {
		u, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}
