// Package catalogrepo persists the configuration catalog: products,
// presentations, warehouses, categories, destinations and order types, plus
// the city roster. All entry kinds share one table; kind-specific columns
// are nullable.
package catalogrepo

import (
	"pedidos/internal/core/domain/model/city"
)

// CatalogEntryDTO represents one catalog entry row.
type CatalogEntryDTO struct {
	ID   string `gorm:"primaryKey;size:64"`
	Kind int    `gorm:"index"`
	Name string

	// CategoryID groups products; set only for product rows.
	CategoryID *string `gorm:"size:64;index"`

	// CityID locates warehouses; set only for warehouse rows.
	CityID *string `gorm:"size:64;index"`

	// WarehouseKind distinguishes the principal warehouse; set only for
	// warehouse rows.
	WarehouseKind *int
}

// TableName overrides GORM's default naming convention to use "catalog_entries".
func (CatalogEntryDTO) TableName() string {
	return "catalog_entries"
}

// CityDTO represents one city row.
type CityDTO struct {
	ID          string `gorm:"primaryKey;size:64"`
	Name        string
	IsPrincipal bool
}

// TableName overrides GORM's default naming convention to use "cities".
func (CityDTO) TableName() string {
	return "cities"
}

// cityToDomain builds the city model from its row and warehouse entries.
func cityToDomain(dto CityDTO, warehouses []CatalogEntryDTO) (city.City, error) {
	mapped := make([]city.Warehouse, 0, len(warehouses))
	for _, w := range warehouses {
		kind := city.WarehouseLocal
		if w.WarehouseKind != nil && *w.WarehouseKind == int(city.WarehousePrincipal) {
			kind = city.WarehousePrincipal
		}
		mapped = append(mapped, city.Warehouse{
			ID:   w.ID,
			Name: w.Name,
			Kind: kind,
		})
	}

	return city.NewCity(dto.ID, dto.Name, dto.IsPrincipal, mapped)
}
