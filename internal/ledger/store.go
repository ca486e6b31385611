package ledger

import (
	"context"
	"time"

	"despensa-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Store is the persistence boundary of the ledger. GormStore is the
// production implementation; MemStore is the in-memory test double.
//
// customer.debt and product.stock are only ever written through a Store,
// inside Transact.
type Store interface {
	// Transact runs fn as one atomic unit. If fn returns an error, every
	// write made through the Store handed to fn is rolled back.
	Transact(ctx context.Context, fn func(tx Store) error) error

	// CustomerForUpdate loads a customer and holds it against concurrent
	// ledger writes until the surrounding transaction ends.
	CustomerForUpdate(ctx context.Context, userID, customerID uint) (*models.Customer, error)
	ProductForUpdate(ctx context.Context, userID, productID uint) (*models.Product, error)

	// UpdateDebt moves a customer's debt from one known value to another.
	// Returns ErrConflictingUpdate when the stored value no longer matches
	// from, which means another writer got in between.
	UpdateDebt(ctx context.Context, userID, customerID uint, from, to decimal.Decimal) error

	// DeductStock decrements stock only while enough remains, returning
	// ErrInsufficientStock otherwise.
	DeductStock(ctx context.Context, userID, productID uint, quantity int) error

	CreateOrder(ctx context.Context, order *models.Order) error
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// Stats aggregates payment income and outstanding debt. Read-only.
	Stats(ctx context.Context, userID uint, dayStart, monthStart time.Time) (*Stats, error)
}

type Stats struct {
	IncomeToday   decimal.Decimal `json:"income_today"`
	IncomeMonth   decimal.Decimal `json:"income_month"`
	PaymentsMonth int64           `json:"payments_month"`
	TotalDebt     decimal.Decimal `json:"total_debt"`
}
