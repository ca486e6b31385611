package ledger

import (
	"context"
	"errors"
	"time"

	"despensa-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the production Store. Row locks (SELECT ... FOR UPDATE) plus
// expected-value guards on the debt column keep concurrent ledger writes from
// losing updates.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CustomerForUpdate(ctx context.Context, userID, customerID uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", customerID, userID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *GormStore) ProductForUpdate(ctx context.Context, userID, productID uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ? AND is_active = ?", productID, userID, true).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *GormStore) UpdateDebt(ctx context.Context, userID, customerID uint, from, to decimal.Decimal) error {
	res := s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND user_id = ? AND debt = ?", customerID, userID, from).
		Update("debt", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		s.db.WithContext(ctx).Model(&models.Customer{}).
			Where("id = ? AND user_id = ?", customerID, userID).Count(&count)
		if count == 0 {
			return ErrCustomerNotFound
		}
		return ErrConflictingUpdate
	}
	return nil
}

func (s *GormStore) DeductStock(ctx context.Context, userID, productID uint, quantity int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND user_id = ? AND stock >= ?", productID, userID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		s.db.WithContext(ctx).Model(&models.Product{}).
			Where("id = ? AND user_id = ?", productID, userID).Count(&count)
		if count == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Omit("Customer", "Items.Product").Create(order).Error
}

func (s *GormStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return s.db.WithContext(ctx).Omit("Customer").Create(payment).Error
}

func (s *GormStore) Stats(ctx context.Context, userID uint, dayStart, monthStart time.Time) (*Stats, error) {
	stats := &Stats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Payment{}).
		Where("user_id = ? AND created_at >= ?", userID, dayStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.IncomeToday).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Payment{}).
		Where("user_id = ? AND created_at >= ?", userID, monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.IncomeMonth).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Payment{}).
		Where("user_id = ? AND created_at >= ?", userID, monthStart).
		Count(&stats.PaymentsMonth).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Customer{}).
		Where("user_id = ? AND debt > 0", userID).
		Select("COALESCE(SUM(debt), 0)").Scan(&stats.TotalDebt).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
