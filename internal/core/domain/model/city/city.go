// Package city contains the fulfillment geography: cities with their
// warehouses. A city may be flagged as principal, which grants its warehouse
// staff full transition authority over all orders regardless of destination.
// The flag replaces an identifier comparison against a hard-coded city that
// the policy used to carry.
package city

import "pedidos/internal/pkg/errs"

// WarehouseKind distinguishes local warehouses from the principal one.
type WarehouseKind int

const (
	// WarehouseLocal is a regular city warehouse.
	WarehouseLocal WarehouseKind = iota + 1

	// WarehousePrincipal is the central fulfillment warehouse.
	WarehousePrincipal
)

// Warehouse is a stock location within a city.
type Warehouse struct {
	ID   string
	Name string
	Kind WarehouseKind
}

// City is a fulfillment location owning one or more warehouses.
type City struct {
	ID          string
	Name        string
	IsPrincipal bool
	Warehouses  []Warehouse
}

// NewCity creates a validated City.
func NewCity(id, name string, isPrincipal bool, warehouses []Warehouse) (City, error) {
	if id == "" {
		return City{}, errs.NewValueIsRequiredError("city id")
	}
	if name == "" {
		return City{}, errs.NewValueIsRequiredError("city name")
	}

	return City{
		ID:          id,
		Name:        name,
		IsPrincipal: isPrincipal,
		Warehouses:  warehouses,
	}, nil
}

// PrincipalIDs extracts the identifiers of principal cities from a set.
func PrincipalIDs(cities []City) []string {
	ids := make([]string, 0, 1)
	for _, c := range cities {
		if c.IsPrincipal {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
