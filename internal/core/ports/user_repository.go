package ports

import (
	"context"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for user entities.
// Users are administered outside this service; the repository is
// read-only here.
type UserRepository interface {
	// Get retrieves a user by identifier, with role, city assignments
	// and unavailable dates.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetAllActiveDelivery retrieves every active user with the
	// Repartidor role, for driver selection.
	GetAllActiveDelivery(ctx context.Context) ([]*user.User, error)
}
