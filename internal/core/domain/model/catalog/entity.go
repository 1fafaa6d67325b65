// Package catalog enumerates the configuration entities that existing orders
// may reference. Deleting one of them requires a referential existence check
// first; a referenced entity is refused with a specific conflict error rather
// than a generic failure.
package catalog

import (
	"fmt"

	"pedidos/internal/pkg/errs"
)

// Kind identifies a configuration entity type subject to referential
// protection.
type Kind int

const (
	// KindUnknown represents an invalid entity kind.
	KindUnknown Kind = iota

	// KindProduct is referenced by order lines.
	KindProduct

	// KindPresentation is referenced by order lines.
	KindPresentation

	// KindWarehouse is referenced by order headers.
	KindWarehouse

	// KindCategory groups products; referenced transitively through them.
	KindCategory

	// KindDestination is referenced by order headers.
	KindDestination

	// KindOrderType is referenced by order headers.
	KindOrderType
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindProduct:      "producto",
		KindPresentation: "presentación",
		KindWarehouse:    "bodega",
		KindCategory:     "categoría",
		KindDestination:  "destino",
		KindOrderType:    "tipo de pedido",
	}
}

// Validate checks that the kind is one of the protected entity types.
func (k Kind) Validate() error {
	if _, ok := getKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("entity kind",
			fmt.Errorf("%d is not a valid catalog entity kind", k))
	}
	return nil
}

// String returns the Spanish display label. Implements fmt.Stringer.
func (k Kind) String() string {
	if s, ok := getKindStrings()[k]; ok {
		return s
	}
	return "desconocido"
}
