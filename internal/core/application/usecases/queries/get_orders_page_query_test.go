package queries_test

import (
	"testing"

	"pedidos/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrdersPageQuery_ValidInput(t *testing.T) {
	query, err := queries.NewGetOrdersPageQuery(2)
	require.NoError(t, err)
	assert.Equal(t, 2, query.Page())
	assert.Equal(t, queries.DefaultPageSize, query.PageSize())
	require.NoError(t, query.Validate())
}

func TestNewGetOrdersPageQuery_NegativePage(t *testing.T) {
	_, err := queries.NewGetOrdersPageQuery(-1)
	require.ErrorIs(t, err, queries.ErrPageIsInvalid)
}

func TestGetOrdersPageQuery_Validate_NotConstructed(t *testing.T) {
	query := queries.GetOrdersPageQuery{}
	require.ErrorIs(t, query.Validate(), queries.ErrGetOrdersPageQueryIsNotConstructed)
}

func TestGetConsolidatedItemsQuery_Validate(t *testing.T) {
	require.NoError(t, queries.NewGetConsolidatedItemsQuery().Validate())

	query := queries.GetConsolidatedItemsQuery{}
	require.ErrorIs(t, query.Validate(), queries.ErrGetConsolidatedItemsQueryIsNotConstructed)
}
