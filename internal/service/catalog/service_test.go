package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository/memory"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func boolPtr(b bool) *bool { return &b }

func TestCreateValidates(t *testing.T) {
	svc := NewService(memory.NewProductStore(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		body models.ProductBody
	}{
		{name: "blank name", body: models.ProductBody{Name: "  ", Price: decimalPtr("1")}},
		{name: "missing price", body: models.ProductBody{Name: "Eggs"}},
		{name: "negative price", body: models.ProductBody{Name: "Eggs", Price: decimalPtr("-1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.body)
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(memory.NewProductStore(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.ProductBody{Name: " Eggs tray ", Description: "30 eggs", Price: decimalPtr("1500")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Eggs tray", created.Name)
	assert.True(t, created.Active)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListDefaultsAndValidation(t *testing.T) {
	svc := NewService(memory.NewProductStore(), nil)
	ctx := context.Background()
	for _, name := range []string{"c", "a", "b"} {
		_, err := svc.Create(ctx, models.ProductBody{Name: name, Price: decimalPtr("1")})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, models.ProductListQuery{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, page.Size)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 3)

	page, err = svc.List(ctx, models.ProductListQuery{Size: 2, SortBy: "name", SortDirection: "DESC"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c", page.Items[0].Name)

	page, err = svc.List(ctx, models.ProductListQuery{Page: 3, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	for _, bad := range []models.ProductListQuery{
		{Page: -1},
		{Size: 101},
		{Size: -3},
		{SortBy: "description"},
		{SortDirection: "sideways"},
	} {
		_, err := svc.List(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidQuery, "%+v", bad)
	}
}

func TestUpdate(t *testing.T) {
	svc := NewService(memory.NewProductStore(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.ProductBody{Name: "Feed", Description: "25kg", Price: decimalPtr("200")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, models.ProductBody{Price: decimalPtr("250"), Active: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Feed", updated.Name)
	assert.Equal(t, "25kg", updated.Description)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(250)))
	assert.False(t, updated.Active)

	_, err = svc.Update(ctx, created.ID, models.ProductBody{Price: decimalPtr("-1")})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.Update(ctx, 42, models.ProductBody{Name: "x"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDelete(t *testing.T) {
	svc := NewService(memory.NewProductStore(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.ProductBody{Name: "Feed", Price: decimalPtr("200")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrProductNotFound)
}
