package ledger

import (
	"context"
	"fmt"
	"time"

	"despensa-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Service implements the two debt-ledger operations: order placement and
// payment registration. Both run as a single transaction against the Store,
// so a failure partway through leaves no partial state.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type OrderLine struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // zero means use the product's sale price
}

type PlaceOrderInput struct {
	CustomerID    uint            `json:"customer_id"`
	Items         []OrderLine     `json:"items"`
	PaymentMethod string          `json:"payment_method"`
	Advance       decimal.Decimal `json:"advance"`
	Origin        string          `json:"origin"`
	Notes         string          `json:"notes"`
	// DeclaredTotal is what the caller believes the order totals. The total
	// is always recomputed server-side; a non-zero declared value that
	// disagrees is rejected.
	DeclaredTotal decimal.Decimal `json:"total"`
}

// PlaceOrder creates the order with its line items, decrements stock per
// line, and for credit orders raises the customer's debt by total - advance.
func (s *Service) PlaceOrder(ctx context.Context, userID uint, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %d", ErrInvalidAmount, line.ProductID)
		}
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: negative unit price for product %d", ErrInvalidAmount, line.ProductID)
		}
	}
	if in.Advance.IsNegative() {
		return nil, fmt.Errorf("%w: advance cannot be negative", ErrInvalidAmount)
	}

	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}
	if method != models.PaymentMethodCash && method != models.PaymentMethodCredit {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidAmount, in.PaymentMethod)
	}
	origin := in.Origin
	if origin == "" {
		origin = models.OriginPOS
	}
	if origin != models.OriginPOS && origin != models.OriginPhone {
		return nil, fmt.Errorf("%w: unknown origin %q", ErrInvalidAmount, in.Origin)
	}

	var order *models.Order
	err := s.store.Transact(ctx, func(tx Store) error {
		customer, err := tx.CustomerForUpdate(ctx, userID, in.CustomerID)
		if err != nil {
			return err
		}

		now := time.Now()
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			product, err := tx.ProductForUpdate(ctx, userID, line.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < line.Quantity {
				return fmt.Errorf("%w: %s has %d in stock, %d requested",
					ErrInsufficientStock, product.Name, product.Stock, line.Quantity)
			}
			if err := tx.DeductStock(ctx, userID, line.ProductID, line.Quantity); err != nil {
				return err
			}

			price := line.UnitPrice
			if price.IsZero() {
				price = product.SalePrice
			}
			subtotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: price,
				Subtotal:  subtotal,
			})
		}

		if !in.DeclaredTotal.IsZero() && !in.DeclaredTotal.Equal(total) {
			return fmt.Errorf("%w: declared total %s does not match computed total %s",
				ErrInvalidAmount, in.DeclaredTotal, total)
		}
		if in.Advance.GreaterThan(total) {
			return fmt.Errorf("%w: advance %s exceeds order total %s",
				ErrInvalidAmount, in.Advance, total)
		}

		status := models.OrderPending
		var deliveredAt *time.Time
		if origin == models.OriginPOS {
			status = models.OrderDelivered
			deliveredAt = &now
		}
		paymentStatus := models.PaymentStatusPaid
		if method == models.PaymentMethodCredit {
			paymentStatus = models.PaymentStatusPending
		}

		order = &models.Order{
			UserID:        userID,
			CustomerID:    in.CustomerID,
			Total:         total,
			Status:        status,
			PaymentStatus: paymentStatus,
			PaymentMethod: method,
			Origin:        origin,
			Advance:       in.Advance,
			Notes:         in.Notes,
			CreatedAt:     now,
			DeliveredAt:   deliveredAt,
			Items:         items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		if method == models.PaymentMethodCredit {
			owed := total.Sub(in.Advance)
			if owed.IsPositive() {
				if err := tx.UpdateDebt(ctx, userID, in.CustomerID, customer.Debt, customer.Debt.Add(owed)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// RegisterPayment records a payment against a customer's debt. Overpayment is
// rejected rather than clamped so that debt_after is always exactly
// debt_before - amount.
func (s *Service) RegisterPayment(ctx context.Context, userID, customerID uint, amount decimal.Decimal, reference string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidAmount)
	}
	if reference == "" {
		reference = "CASH"
	}

	var payment *models.Payment
	err := s.store.Transact(ctx, func(tx Store) error {
		customer, err := tx.CustomerForUpdate(ctx, userID, customerID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(customer.Debt) {
			return fmt.Errorf("%w: amount %s exceeds current debt of %s",
				ErrInvalidAmount, amount, customer.Debt)
		}

		before := customer.Debt
		after := before.Sub(amount)
		if err := tx.UpdateDebt(ctx, userID, customerID, before, after); err != nil {
			return err
		}

		payment = &models.Payment{
			UserID:     userID,
			CustomerID: customerID,
			Amount:     amount,
			Reference:  reference,
			DebtBefore: before,
			DebtAfter:  after,
			CreatedAt:  time.Now(),
		}
		return tx.CreatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Stats returns payment income and outstanding-debt aggregates for the
// windows anchored at now.
func (s *Service) Stats(ctx context.Context, userID uint, now time.Time) (*Stats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return s.store.Stats(ctx, userID, dayStart, monthStart)
}
