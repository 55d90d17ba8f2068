//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/report"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain runs before any tests and handles cleanup
func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func TestAdminRepository_Integration(t *testing.T) {
	testDB := NewTestDB(t)
	repo := persistence.NewGormAdminRepository(testDB.Store)
	ctx := context.Background()

	admin, err := identity.NewAdmin("Jane", "Jane@Example.com", "s3cret", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, admin))

	t.Run("find by normalized email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, found.ID)
		assert.Nil(t, found.Fingerprint)
		assert.True(t, found.VerifyPassword("s3cret"))
	})

	t.Run("unique index rejects duplicate email", func(t *testing.T) {
		dup, err := identity.NewAdmin("Other", "jane@example.com", "other", nil)
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeAlreadyExists))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestProductRepository_Integration(t *testing.T) {
	testDB := NewTestDB(t)
	repo := persistence.NewGormProductRepository(testDB.Store)
	ctx := context.Background()

	product, err := catalog.NewProduct(catalog.ProductFields{
		Name:     "Tee",
		Category: "shirts",
		Price:    19.99,
		Size:     "M",
	}, "https://cdn.example.com/products/tee.png")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, product))

	t.Run("find keeps price and image", func(t *testing.T) {
		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tee", found.Name)
		assert.InDelta(t, 19.99, found.Price, 1e-9)
		assert.Equal(t, product.Image, found.Image)
	})

	t.Run("update replaces fields", func(t *testing.T) {
		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.NoError(t, found.Update(catalog.ProductFields{
			Name:        "Tee v2",
			Category:    "shirts",
			Price:       24,
			Size:        "L",
			Description: "heavier cotton",
		}, nil))
		require.NoError(t, repo.Update(ctx, found))

		updated, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tee v2", updated.Name)
		assert.Equal(t, "L", updated.Size)
		assert.Equal(t, product.Image, updated.Image)
	})

	t.Run("delete then not found", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, product.ID))
		_, err := repo.FindByID(ctx, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, product.ID), shared.ErrNotFound)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	testDB := NewTestDB(t)
	repo := persistence.NewGormOrderRepository(testDB.Store)
	ctx := context.Background()

	older := testDB.SeedOrder(20, time.Now().Add(-time.Hour), models.Details{"customer": "Ada"})
	newer := testDB.SeedOrder(35.5, time.Now(), models.Details{"customer": "Grace", "items": []any{"tee", "cap"}})

	t.Run("find all newest first with jsonb details", func(t *testing.T) {
		orders, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, newer, orders[0].ID)
		assert.Equal(t, "Grace", orders[0].Details["customer"])
		assert.Equal(t, []any{"tee", "cap"}, orders[0].Details["items"])
	})

	t.Run("complete updates status only", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, older, trade.OrderStatusComplete))

		order, err := repo.FindByID(ctx, older)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusComplete, order.Status)
		assert.Equal(t, 20.0, order.TotalAmount)
		assert.Equal(t, "Ada", order.Details["customer"])
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), trade.OrderStatusComplete), shared.ErrNotFound)
	})
}

func TestLogoRepository_Integration(t *testing.T) {
	testDB := NewTestDB(t)
	repo := persistence.NewGormLogoRepository(testDB.Store)
	ctx := context.Background()

	id := testDB.SeedLogo(49.5, models.Details{"text": "ACME"})

	require.NoError(t, repo.SetApproval(ctx, id, true))

	logo, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, logo.Approval)
	assert.Equal(t, 49.5, logo.Price)
	assert.Equal(t, "ACME", logo.Details["text"])

	assert.ErrorIs(t, repo.SetApproval(ctx, uuid.New(), true), shared.ErrNotFound)
}

func TestReportRepository_Integration(t *testing.T) {
	testDB := NewTestDB(t)
	repo := persistence.NewGormReportRepository(testDB.Store)
	ctx := context.Background()

	t.Run("empty collections sum to zero", func(t *testing.T) {
		price, err := repo.SumLogoPrice(ctx)
		require.NoError(t, err)
		assert.Zero(t, price)

		amount, err := repo.SumOrderAmount(ctx, report.DateRange{})
		require.NoError(t, err)
		assert.Zero(t, amount)
	})

	jan := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	testDB.SeedOrder(10, jan, nil)
	testDB.SeedOrder(15.25, mar, nil)
	testDB.SeedOrder(4.75, mar.Add(time.Hour), nil)
	testDB.SeedLogo(12.5, nil)
	testDB.SeedLogo(7.5, nil)

	t.Run("sums", func(t *testing.T) {
		price, err := repo.SumLogoPrice(ctx)
		require.NoError(t, err)
		assert.InDelta(t, 20.0, price, 1e-9)

		total, err := repo.SumOrderAmount(ctx, report.DateRange{})
		require.NoError(t, err)
		assert.InDelta(t, 30.0, total, 1e-9)
	})

	t.Run("range is half open", func(t *testing.T) {
		march := report.DateRange{
			From: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		}
		amount, err := repo.SumOrderAmount(ctx, march)
		require.NoError(t, err)
		assert.InDelta(t, 20.0, amount, 1e-9)

		amounts, err := repo.OrderAmounts(ctx, report.DateRange{From: jan, To: mar})
		require.NoError(t, err)
		require.Len(t, amounts, 1)
		assert.Equal(t, 10.0, amounts[0].Amount)
	})
}
