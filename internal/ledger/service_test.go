package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"despensa-backend/internal/ledger"
	"despensa-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenant = uint(1)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newFixture() (*ledger.Service, *ledger.MemStore) {
	store := ledger.NewMemStore()
	return ledger.NewService(store), store
}

func seedCustomer(store *ledger.MemStore, debt string) models.Customer {
	return store.AddCustomer(models.Customer{
		UserID: tenant,
		Name:   "Juan Perez",
		Debt:   dec(debt),
	})
}

func seedProduct(store *ledger.MemStore, price string, stock int) models.Product {
	return store.AddProduct(models.Product{
		UserID:    tenant,
		Name:      "Rice 5kg",
		SalePrice: dec(price),
		Stock:     stock,
	})
}

func TestRegisterPayment(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "45.50")

	payment, err := svc.RegisterPayment(context.Background(), tenant, customer.ID, dec("20.00"), "CASH")
	require.NoError(t, err)

	assert.True(t, payment.DebtBefore.Equal(dec("45.50")), "debt_before = %s", payment.DebtBefore)
	assert.True(t, payment.DebtAfter.Equal(dec("25.50")), "debt_after = %s", payment.DebtAfter)
	assert.True(t, payment.Amount.Equal(dec("20.00")))

	got, err := store.CustomerForUpdate(context.Background(), tenant, customer.ID)
	require.NoError(t, err)
	assert.True(t, got.Debt.Equal(dec("25.50")), "debt = %s", got.Debt)
}

func TestRegisterPaymentOverpayRejected(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "50.00")

	_, err := svc.RegisterPayment(context.Background(), tenant, customer.ID, dec("100.00"), "")
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)
	assert.Contains(t, err.Error(), "exceeds current debt of 50")

	got, _ := store.CustomerForUpdate(context.Background(), tenant, customer.ID)
	assert.True(t, got.Debt.Equal(dec("50.00")), "debt must be unchanged, got %s", got.Debt)
	assert.Empty(t, store.Payments())
}

func TestRegisterPaymentNonPositiveAmount(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "10.00")

	for _, amount := range []string{"0", "-5.00"} {
		_, err := svc.RegisterPayment(context.Background(), tenant, customer.ID, dec(amount), "")
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount, "amount %s", amount)
	}
}

func TestRegisterPaymentUnknownCustomer(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.RegisterPayment(context.Background(), tenant, 99, dec("5.00"), "")
	require.ErrorIs(t, err, ledger.ErrCustomerNotFound)
}

func TestRegisterPaymentTenantScope(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "30.00")

	_, err := svc.RegisterPayment(context.Background(), tenant+1, customer.ID, dec("5.00"), "")
	require.ErrorIs(t, err, ledger.ErrCustomerNotFound)
}

func TestPlaceOrderCredit(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "0")
	product := seedProduct(store, "10.00", 20)

	order, err := svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{
		CustomerID:    customer.ID,
		Items:         []ledger.OrderLine{{ProductID: product.ID, Quantity: 10}},
		PaymentMethod: models.PaymentMethodCredit,
		Advance:       dec("30.00"),
		Origin:        models.OriginPOS,
	})
	require.NoError(t, err)

	assert.True(t, order.Total.Equal(dec("100.00")), "total = %s", order.Total)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.OrderDelivered, order.Status)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Subtotal.Equal(dec("100.00")))

	got, _ := store.CustomerForUpdate(context.Background(), tenant, customer.ID)
	assert.True(t, got.Debt.Equal(dec("70.00")), "debt = %s", got.Debt)

	prod, _ := store.ProductForUpdate(context.Background(), tenant, product.ID)
	assert.Equal(t, 10, prod.Stock)
}

func TestPlaceOrderCash(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "12.00")
	product := seedProduct(store, "25.00", 5)

	order, err := svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{
		CustomerID:    customer.ID,
		Items:         []ledger.OrderLine{{ProductID: product.ID, Quantity: 2}},
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.True(t, order.Total.Equal(dec("50.00")))
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderDelivered, order.Status)
	require.NotNil(t, order.DeliveredAt)

	got, _ := store.CustomerForUpdate(context.Background(), tenant, customer.ID)
	assert.True(t, got.Debt.Equal(dec("12.00")), "cash order must not touch debt")
}

func TestPlaceOrderPhoneOriginStartsPending(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "0")
	product := seedProduct(store, "4.00", 10)

	order, err := svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{
		CustomerID: customer.ID,
		Items:      []ledger.OrderLine{{ProductID: product.ID, Quantity: 1}},
		Origin:     models.OriginPhone,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Nil(t, order.DeliveredAt)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "0")
	product := seedProduct(store, "3.00", 5)

	_, err := svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{
		CustomerID: customer.ID,
		Items:      []ledger.OrderLine{{ProductID: product.ID, Quantity: 10}},
	})
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	prod, _ := store.ProductForUpdate(context.Background(), tenant, product.ID)
	assert.Equal(t, 5, prod.Stock, "stock must be unchanged")
	assert.Empty(t, store.Orders(), "no order row may remain")
}

func TestPlaceOrderEmptyItems(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "0")

	_, err := svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{CustomerID: customer.ID})
	require.ErrorIs(t, err, ledger.ErrEmptyOrder)
}

func TestPlaceOrderAdvanceExceedsTotal(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "0")
	product := seedProduct(store, "10.00", 10)

	_, err := svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{
		CustomerID:    customer.ID,
		Items:         []ledger.OrderLine{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: models.PaymentMethodCredit,
		Advance:       dec("20.00"),
	})
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)

	prod, _ := store.ProductForUpdate(context.Background(), tenant, product.ID)
	assert.Equal(t, 10, prod.Stock, "rejected order must roll back the stock decrement")
}

func TestPlaceOrderDeclaredTotalMismatch(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "0")
	product := seedProduct(store, "10.00", 10)

	_, err := svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{
		CustomerID:    customer.ID,
		Items:         []ledger.OrderLine{{ProductID: product.ID, Quantity: 2}},
		DeclaredTotal: dec("25.00"),
	})
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)

	// Matching declared total is accepted.
	_, err = svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{
		CustomerID:    customer.ID,
		Items:         []ledger.OrderLine{{ProductID: product.ID, Quantity: 2}},
		DeclaredTotal: dec("20.00"),
	})
	require.NoError(t, err)
}

func TestPlaceOrderAtomicRollbackOnLaterItem(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "0")
	first := seedProduct(store, "2.00", 100)
	second := store.AddProduct(models.Product{
		UserID:    tenant,
		Name:      "Milk 1L",
		SalePrice: dec("1.50"),
		Stock:     1,
	})

	_, err := svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{
		CustomerID:    customer.ID,
		PaymentMethod: models.PaymentMethodCredit,
		Items: []ledger.OrderLine{
			{ProductID: first.ID, Quantity: 10},
			{ProductID: second.ID, Quantity: 5}, // fails here
		},
	})
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	prodA, _ := store.ProductForUpdate(context.Background(), tenant, first.ID)
	prodB, _ := store.ProductForUpdate(context.Background(), tenant, second.ID)
	got, _ := store.CustomerForUpdate(context.Background(), tenant, customer.ID)

	assert.Equal(t, 100, prodA.Stock, "first item's decrement must be rolled back")
	assert.Equal(t, 1, prodB.Stock)
	assert.True(t, got.Debt.IsZero(), "no debt change may remain")
	assert.Empty(t, store.Orders())
}

// flakyStore injects storage failures at chosen steps to exercise rollback.
type flakyStore struct {
	ledger.Store
	failCreateOrder   bool
	failCreatePayment bool
}

func (f *flakyStore) Transact(ctx context.Context, fn func(tx ledger.Store) error) error {
	return f.Store.Transact(ctx, func(tx ledger.Store) error {
		return fn(&flakyStore{Store: tx, failCreateOrder: f.failCreateOrder, failCreatePayment: f.failCreatePayment})
	})
}

func (f *flakyStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if f.failCreateOrder {
		return errors.New("storage failure")
	}
	return f.Store.CreateOrder(ctx, order)
}

func (f *flakyStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if f.failCreatePayment {
		return errors.New("storage failure")
	}
	return f.Store.CreatePayment(ctx, payment)
}

func TestPlaceOrderRollbackOnOrderInsertFailure(t *testing.T) {
	store := ledger.NewMemStore()
	svc := ledger.NewService(&flakyStore{Store: store, failCreateOrder: true})
	customer := seedCustomer(store, "0")
	product := seedProduct(store, "5.00", 10)

	_, err := svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{
		CustomerID: customer.ID,
		Items:      []ledger.OrderLine{{ProductID: product.ID, Quantity: 3}},
	})
	require.Error(t, err)

	prod, _ := store.ProductForUpdate(context.Background(), tenant, product.ID)
	assert.Equal(t, 10, prod.Stock, "stock decrement must be rolled back")
	assert.Empty(t, store.Orders())
}

func TestRegisterPaymentRollbackOnInsertFailure(t *testing.T) {
	store := ledger.NewMemStore()
	svc := ledger.NewService(&flakyStore{Store: store, failCreatePayment: true})
	customer := seedCustomer(store, "40.00")

	_, err := svc.RegisterPayment(context.Background(), tenant, customer.ID, dec("10.00"), "")
	require.Error(t, err)

	got, _ := store.CustomerForUpdate(context.Background(), tenant, customer.ID)
	assert.True(t, got.Debt.Equal(dec("40.00")), "debt write must be rolled back, got %s", got.Debt)
	assert.Empty(t, store.Payments())
}

func TestConcurrentPaymentsCannotBothDrainDebt(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "15.00")

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RegisterPayment(context.Background(), tenant, customer.ID, dec("10.00"), "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ledger.ErrInvalidAmount)
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	got, _ := store.CustomerForUpdate(context.Background(), tenant, customer.ID)
	assert.True(t, got.Debt.Equal(dec("5.00")), "final debt = %s", got.Debt)
	assert.Len(t, store.Payments(), 1)
}

func TestDebtNeverNegativeAcrossSequence(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "0")
	product := seedProduct(store, "10.00", 1000)

	steps := []struct {
		credit  bool
		amount  string
		advance string
		qty     int
	}{
		{credit: true, qty: 5, advance: "0"},       // +50
		{credit: false, amount: "20.00"},           // -20
		{credit: true, qty: 3, advance: "10.00"},   // +20
		{credit: false, amount: "50.00"},           // -50
		{credit: false, amount: "0.01"},            // rejected, debt is 0
	}

	for i, step := range steps {
		if step.credit {
			_, err := svc.PlaceOrder(context.Background(), tenant, ledger.PlaceOrderInput{
				CustomerID:    customer.ID,
				Items:         []ledger.OrderLine{{ProductID: product.ID, Quantity: step.qty}},
				PaymentMethod: models.PaymentMethodCredit,
				Advance:       dec(step.advance),
			})
			require.NoError(t, err, "step %d", i)
		} else {
			_, err := svc.RegisterPayment(context.Background(), tenant, customer.ID, dec(step.amount), "")
			if err != nil {
				require.ErrorIs(t, err, ledger.ErrInvalidAmount, "step %d", i)
			}
		}
		got, _ := store.CustomerForUpdate(context.Background(), tenant, customer.ID)
		assert.False(t, got.Debt.IsNegative(), "step %d left debt %s", i, got.Debt)
	}

	// Every payment record explains its own debt movement.
	for _, p := range store.Payments() {
		assert.True(t, p.DebtAfter.Equal(p.DebtBefore.Sub(p.Amount)),
			"payment %d: %s != %s - %s", p.ID, p.DebtAfter, p.DebtBefore, p.Amount)
		assert.False(t, p.DebtAfter.IsNegative())
	}
}

func TestStatsIdempotent(t *testing.T) {
	svc, store := newFixture()
	customer := seedCustomer(store, "100.00")

	_, err := svc.RegisterPayment(context.Background(), tenant, customer.ID, dec("25.00"), "")
	require.NoError(t, err)
	_, err = svc.RegisterPayment(context.Background(), tenant, customer.ID, dec("10.00"), "TRANSFER")
	require.NoError(t, err)

	now := time.Now()
	first, err := svc.Stats(context.Background(), tenant, now)
	require.NoError(t, err)
	second, err := svc.Stats(context.Background(), tenant, now)
	require.NoError(t, err)

	assert.True(t, first.IncomeToday.Equal(second.IncomeToday))
	assert.True(t, first.IncomeMonth.Equal(second.IncomeMonth))
	assert.Equal(t, first.PaymentsMonth, second.PaymentsMonth)
	assert.True(t, first.TotalDebt.Equal(second.TotalDebt))

	assert.True(t, first.IncomeMonth.Equal(dec("35.00")), "income month = %s", first.IncomeMonth)
	assert.Equal(t, int64(2), first.PaymentsMonth)
	assert.True(t, first.TotalDebt.Equal(dec("65.00")), "total debt = %s", first.TotalDebt)
}
