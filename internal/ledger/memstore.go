package ledger

import (
	"context"
	"sync"
	"time"

	"despensa-backend/internal/models"

	"github.com/shopspring/decimal"
)

// MemStore is the in-memory Store used by tests. A single mutex serializes
// every transaction; rollback restores a snapshot taken at Transact entry.
type MemStore struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	customers map[uint]models.Customer
	products  map[uint]models.Product
	orders    map[uint]models.Order
	payments  map[uint]models.Payment
	lastID    uint
}

func NewMemStore() *MemStore {
	return &MemStore{state: memState{
		customers: map[uint]models.Customer{},
		products:  map[uint]models.Product{},
		orders:    map[uint]models.Order{},
		payments:  map[uint]models.Payment{},
	}}
}

func (s *memState) clone() memState {
	c := memState{
		customers: make(map[uint]models.Customer, len(s.customers)),
		products:  make(map[uint]models.Product, len(s.products)),
		orders:    make(map[uint]models.Order, len(s.orders)),
		payments:  make(map[uint]models.Payment, len(s.payments)),
		lastID:    s.lastID,
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		v.Items = append([]models.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

// AddCustomer seeds a customer and returns it with its assigned ID.
func (s *MemStore) AddCustomer(c models.Customer) models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.lastID++
	c.ID = s.state.lastID
	if c.Status == "" {
		c.Status = models.CustomerActive
	}
	s.state.customers[c.ID] = c
	return c
}

// AddProduct seeds a product and returns it with its assigned ID.
func (s *MemStore) AddProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.lastID++
	p.ID = s.state.lastID
	p.IsActive = true
	s.state.products[p.ID] = p
	return p
}

// Orders returns a copy of every stored order.
func (s *MemStore) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.state.orders))
	for _, o := range s.state.orders {
		out = append(out, o)
	}
	return out
}

// Payments returns a copy of every stored payment.
func (s *MemStore) Payments() []models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Payment, 0, len(s.state.payments))
	for _, p := range s.state.payments {
		out = append(out, p)
	}
	return out
}

func (s *MemStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state.clone()
	if err := fn(&memTx{state: &s.state}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *MemStore) CustomerForUpdate(ctx context.Context, userID, customerID uint) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{state: &s.state}).CustomerForUpdate(ctx, userID, customerID)
}

func (s *MemStore) ProductForUpdate(ctx context.Context, userID, productID uint) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{state: &s.state}).ProductForUpdate(ctx, userID, productID)
}

func (s *MemStore) UpdateDebt(ctx context.Context, userID, customerID uint, from, to decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{state: &s.state}).UpdateDebt(ctx, userID, customerID, from, to)
}

func (s *MemStore) DeductStock(ctx context.Context, userID, productID uint, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{state: &s.state}).DeductStock(ctx, userID, productID, quantity)
}

func (s *MemStore) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{state: &s.state}).CreateOrder(ctx, order)
}

func (s *MemStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{state: &s.state}).CreatePayment(ctx, payment)
}

func (s *MemStore) Stats(ctx context.Context, userID uint, dayStart, monthStart time.Time) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memTx{state: &s.state}).Stats(ctx, userID, dayStart, monthStart)
}

// memTx operates on state already guarded by the MemStore mutex.
type memTx struct {
	state *memState
}

func (t *memTx) Transact(ctx context.Context, fn func(tx Store) error) error {
	// Already inside a transaction; join it.
	return fn(t)
}

func (t *memTx) CustomerForUpdate(ctx context.Context, userID, customerID uint) (*models.Customer, error) {
	c, ok := t.state.customers[customerID]
	if !ok || c.UserID != userID {
		return nil, ErrCustomerNotFound
	}
	return &c, nil
}

func (t *memTx) ProductForUpdate(ctx context.Context, userID, productID uint) (*models.Product, error) {
	p, ok := t.state.products[productID]
	if !ok || p.UserID != userID || !p.IsActive {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (t *memTx) UpdateDebt(ctx context.Context, userID, customerID uint, from, to decimal.Decimal) error {
	c, ok := t.state.customers[customerID]
	if !ok || c.UserID != userID {
		return ErrCustomerNotFound
	}
	if !c.Debt.Equal(from) {
		return ErrConflictingUpdate
	}
	c.Debt = to
	t.state.customers[customerID] = c
	return nil
}

func (t *memTx) DeductStock(ctx context.Context, userID, productID uint, quantity int) error {
	p, ok := t.state.products[productID]
	if !ok || p.UserID != userID {
		return ErrProductNotFound
	}
	if p.Stock < quantity {
		return ErrInsufficientStock
	}
	p.Stock -= quantity
	t.state.products[productID] = p
	return nil
}

func (t *memTx) CreateOrder(ctx context.Context, order *models.Order) error {
	t.state.lastID++
	order.ID = t.state.lastID
	for i := range order.Items {
		t.state.lastID++
		order.Items[i].ID = t.state.lastID
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	t.state.orders[order.ID] = stored
	return nil
}

func (t *memTx) CreatePayment(ctx context.Context, payment *models.Payment) error {
	t.state.lastID++
	payment.ID = t.state.lastID
	t.state.payments[payment.ID] = *payment
	return nil
}

func (t *memTx) Stats(ctx context.Context, userID uint, dayStart, monthStart time.Time) (*Stats, error) {
	stats := &Stats{
		IncomeToday: decimal.Zero,
		IncomeMonth: decimal.Zero,
		TotalDebt:   decimal.Zero,
	}
	for _, p := range t.state.payments {
		if p.UserID != userID {
			continue
		}
		if !p.CreatedAt.Before(dayStart) {
			stats.IncomeToday = stats.IncomeToday.Add(p.Amount)
		}
		if !p.CreatedAt.Before(monthStart) {
			stats.IncomeMonth = stats.IncomeMonth.Add(p.Amount)
			stats.PaymentsMonth++
		}
	}
	for _, c := range t.state.customers {
		if c.UserID == userID && c.Debt.IsPositive() {
			stats.TotalDebt = stats.TotalDebt.Add(c.Debt)
		}
	}
	return stats, nil
}
