package catalogrepo

import (
	"context"

	"pedidos/internal/core/domain/model/catalog"
	"pedidos/internal/core/domain/model/city"
	"pedidos/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCatalogRepository implements ports.CatalogRepository and
// ports.CityRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// Exists reports whether a catalog entry of the given kind exists.
func (r *GormCatalogRepository) Exists(ctx context.Context, kind catalog.Kind, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&CatalogEntryDTO{}).
		Where("kind = ? AND id = ?", int(kind), id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasOrderReferences reports whether any stored order references the entry.
// Products and presentations are referenced by order lines through their
// identifiers; warehouses through the order header; destinations and order
// types through their denormalized names; categories transitively through
// the products they group.
func (r *GormCatalogRepository) HasOrderReferences(ctx context.Context, kind catalog.Kind, id string) (bool, error) {
	db := r.db.WithContext(ctx)

	var count int64
	var err error

	switch kind {
	case catalog.KindProduct:
		err = db.Table("order_items").Where("product_id = ?", id).Count(&count).Error
	case catalog.KindPresentation:
		err = db.Table("order_items").Where("presentation_id = ?", id).Count(&count).Error
	case catalog.KindWarehouse:
		err = db.Table("orders").Where("warehouse_id = ?", id).Count(&count).Error
	case catalog.KindCategory:
		err = db.Table("order_items").
			Where("product_id IN (?)",
				db.Session(&gorm.Session{NewDB: true}).
					Table("catalog_entries").
					Select("id").
					Where("kind = ? AND category_id = ?", int(catalog.KindProduct), id),
			).
			Count(&count).Error
	case catalog.KindDestination, catalog.KindOrderType:
		name, nameErr := r.entryName(ctx, kind, id)
		if nameErr != nil {
			return false, nameErr
		}
		column := "destination_name"
		if kind == catalog.KindOrderType {
			column = "order_type_name"
		}
		err = db.Table("orders").Where(column+" = ?", name).Count(&count).Error
	default:
		return false, errs.NewValueIsInvalidError("catalog kind")
	}

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Remove deletes the entry.
func (r *GormCatalogRepository) Remove(ctx context.Context, kind catalog.Kind, id string) error {
	result := r.db.WithContext(ctx).
		Where("kind = ? AND id = ?", int(kind), id).
		Delete(&CatalogEntryDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError(kind.String(), id)
	}
	return nil
}

// GetAll retrieves every city with its warehouses.
func (r *GormCatalogRepository) GetAll(ctx context.Context) ([]city.City, error) {
	db := r.db.WithContext(ctx)

	var cityRows []CityDTO
	if err := db.Order("name ASC").Find(&cityRows).Error; err != nil {
		return nil, err
	}

	var warehouseRows []CatalogEntryDTO
	err := db.Where("kind = ?", int(catalog.KindWarehouse)).Find(&warehouseRows).Error
	if err != nil {
		return nil, err
	}

	byCity := make(map[string][]CatalogEntryDTO, len(cityRows))
	for _, w := range warehouseRows {
		if w.CityID == nil {
			continue
		}
		byCity[*w.CityID] = append(byCity[*w.CityID], w)
	}

	cities := make([]city.City, 0, len(cityRows))
	for _, row := range cityRows {
		c, cErr := cityToDomain(row, byCity[row.ID])
		if cErr != nil {
			return nil, cErr
		}
		cities = append(cities, c)
	}

	return cities, nil
}

func (r *GormCatalogRepository) entryName(ctx context.Context, kind catalog.Kind, id string) (string, error) {
	var dto CatalogEntryDTO
	err := r.db.WithContext(ctx).
		Where("kind = ? AND id = ?", int(kind), id).
		First(&dto).Error
	if err != nil {
		return "", err
	}
	return dto.Name, nil
}
