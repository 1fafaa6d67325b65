package services_test

import (
	"testing"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/user"
	"pedidos/internal/core/domain/services"
	"pedidos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentGuard_Check(t *testing.T) {
	guard := services.NewAssignmentGuard()

	day, err := kernel.ParseDateOnly("2025-03-10")
	require.NoError(t, err)

	t.Run("available driver passes", func(t *testing.T) {
		maria := deliveryUser(t, "Maria", "2025-03-12")

		require.NoError(t, guard.Check(maria, day))
	})

	t.Run("driver unavailable on the requested date is refused", func(t *testing.T) {
		maria := deliveryUser(t, "Maria", "2025-03-10", "2025-03-12")

		err := guard.Check(maria, day)

		var unavailable *errs.DriverUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.ErrorIs(t, err, errs.ErrDriverUnavailable)
		assert.Contains(t, err.Error(), "Maria")
		assert.Contains(t, err.Error(), "2025-03-10")
	})

	t.Run("non-delivery users cannot be assigned", func(t *testing.T) {
		clerk, err := user.NewUser(kernel.NewUUID(), "Ana", "ana", user.Warehouse, []string{"c1"}, nil, true)
		require.NoError(t, err)

		require.ErrorIs(t, guard.Check(clerk, day), errs.ErrValueIsInvalid)
	})

	t.Run("inactive drivers cannot be assigned", func(t *testing.T) {
		retired, err := user.NewUser(kernel.NewUUID(), "Luis", "luis", user.Delivery, nil, nil, false)
		require.NoError(t, err)

		require.ErrorIs(t, guard.Check(retired, day), errs.ErrValueIsInvalid)
	})
}
