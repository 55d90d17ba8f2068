package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(t *testing.T, name string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductFields{
		Name:     name,
		Category: "shirts",
		Price:    19.99,
		Size:     "M",
	}, "https://cdn.example.com/products/"+name+".png")
	require.NoError(t, err)
	return p
}

func TestGormProductRepository_CRUD(t *testing.T) {
	repo := NewGormProductRepository(newSQLiteStore(t))
	ctx := context.Background()

	older := newProduct(t, "older")
	older.CreatedAt = time.Now().Add(-time.Hour).UTC()
	newer := newProduct(t, "newer")
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	t.Run("find all newest first", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.ID, all[0].ID)
		assert.Equal(t, older.ID, all[1].ID)
	})

	t.Run("update replaces fields", func(t *testing.T) {
		require.NoError(t, newer.Update(catalog.ProductFields{
			Name: "renamed", Category: "tops", Price: 5, Size: "L",
		}, nil))
		require.NoError(t, repo.Update(ctx, newer))

		found, err := repo.FindByID(ctx, newer.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", found.Name)
		assert.Equal(t, "tops", found.Category)
		assert.Equal(t, 5.0, found.Price)
		assert.Equal(t, "", found.Description)
		assert.Equal(t, "https://cdn.example.com/products/newer.png", found.Image)
	})

	t.Run("update unknown id is not found", func(t *testing.T) {
		ghost := newProduct(t, "ghost")
		err := repo.Update(ctx, ghost)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete unknown id leaves table unchanged", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("delete removes product", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, older.ID))

		_, err := repo.FindByID(ctx, older.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_StoreFailure(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(store)

	cause := errors.New("connection reset by peer")
	mock.ExpectQuery(`SELECT \* FROM "products"`).WillReturnError(cause)

	_, err := repo.FindAll(context.Background())
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeStore))
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, mock.ExpectationsWereMet())
}
