package ports

import (
	"context"

	"pedidos/internal/core/domain/model/catalog"
	"pedidos/internal/core/domain/model/city"
)

// CatalogRepository defines the persistence contract for catalog entries:
// products, presentations, warehouses, categories, destinations and order
// types.
type CatalogRepository interface {
	// Exists reports whether a catalog entry of the given kind exists.
	Exists(ctx context.Context, kind catalog.Kind, id string) (bool, error)

	// HasOrderReferences reports whether any stored order references the
	// entry. Referenced entries must not be removed.
	HasOrderReferences(ctx context.Context, kind catalog.Kind, id string) (bool, error)

	// Remove deletes the entry. Callers check HasOrderReferences first;
	// the adapter may additionally rely on store constraints.
	Remove(ctx context.Context, kind catalog.Kind, id string) error
}

// CityRepository defines read access to the city roster, including each
// city's warehouses and its principal flag.
type CityRepository interface {
	// GetAll retrieves every city.
	GetAll(ctx context.Context) ([]city.City, error)
}
