package ledger_test

import (
	"context"
	"errors"
	"testing"

	"despensa-backend/internal/ledger"
	"despensa-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreUpdateDebtGuard(t *testing.T) {
	store := ledger.NewMemStore()
	customer := store.AddCustomer(models.Customer{UserID: tenant, Name: "Ana", Debt: dec("30.00")})

	// Stale expected value is rejected.
	err := store.UpdateDebt(context.Background(), tenant, customer.ID, dec("25.00"), dec("5.00"))
	require.ErrorIs(t, err, ledger.ErrConflictingUpdate)

	got, _ := store.CustomerForUpdate(context.Background(), tenant, customer.ID)
	assert.True(t, got.Debt.Equal(dec("30.00")))

	// Matching expected value applies.
	err = store.UpdateDebt(context.Background(), tenant, customer.ID, dec("30.00"), dec("5.00"))
	require.NoError(t, err)

	got, _ = store.CustomerForUpdate(context.Background(), tenant, customer.ID)
	assert.True(t, got.Debt.Equal(dec("5.00")))
}

func TestMemStoreUpdateDebtUnknownCustomer(t *testing.T) {
	store := ledger.NewMemStore()

	err := store.UpdateDebt(context.Background(), tenant, 7, dec("1.00"), dec("0"))
	require.ErrorIs(t, err, ledger.ErrCustomerNotFound)
}

func TestMemStoreDeductStock(t *testing.T) {
	store := ledger.NewMemStore()
	product := store.AddProduct(models.Product{UserID: tenant, Name: "Soap", SalePrice: dec("1.00"), Stock: 3})

	require.NoError(t, store.DeductStock(context.Background(), tenant, product.ID, 2))

	err := store.DeductStock(context.Background(), tenant, product.ID, 2)
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	got, _ := store.ProductForUpdate(context.Background(), tenant, product.ID)
	assert.Equal(t, 1, got.Stock)
}

func TestMemStoreTransactRollsBackOnError(t *testing.T) {
	store := ledger.NewMemStore()
	customer := store.AddCustomer(models.Customer{UserID: tenant, Name: "Ana", Debt: dec("20.00")})
	product := store.AddProduct(models.Product{UserID: tenant, Name: "Soap", SalePrice: dec("1.00"), Stock: 8})

	boom := errors.New("boom")
	err := store.Transact(context.Background(), func(tx ledger.Store) error {
		if err := tx.UpdateDebt(context.Background(), tenant, customer.ID, dec("20.00"), dec("0")); err != nil {
			return err
		}
		if err := tx.DeductStock(context.Background(), tenant, product.ID, 5); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	gotCustomer, _ := store.CustomerForUpdate(context.Background(), tenant, customer.ID)
	gotProduct, _ := store.ProductForUpdate(context.Background(), tenant, product.ID)
	assert.True(t, gotCustomer.Debt.Equal(dec("20.00")), "debt restored, got %s", gotCustomer.Debt)
	assert.Equal(t, 8, gotProduct.Stock, "stock restored")
}

func TestMemStoreTransactCommits(t *testing.T) {
	store := ledger.NewMemStore()
	customer := store.AddCustomer(models.Customer{UserID: tenant, Name: "Ana", Debt: dec("20.00")})

	err := store.Transact(context.Background(), func(tx ledger.Store) error {
		return tx.UpdateDebt(context.Background(), tenant, customer.ID, dec("20.00"), dec("12.50"))
	})
	require.NoError(t, err)

	got, _ := store.CustomerForUpdate(context.Background(), tenant, customer.ID)
	assert.True(t, got.Debt.Equal(dec("12.50")))
}
