package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle: PENDING -> IN_TRANSIT -> DELIVERED, or CANCELLED.
// POS orders are delivered on the spot; phone orders start PENDING.
const (
	OrderPending   = "PENDING"
	OrderInTransit = "IN_TRANSIT"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

const (
	PaymentStatusPaid    = "PAID"
	PaymentStatusPending = "PENDING"
	PaymentStatusDebt    = "DEBT"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodCredit = "credit"
)

const (
	OriginPOS   = "POS"
	OriginPhone = "PHONE"
)

type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	CustomerID    uint            `gorm:"index;not null" json:"customer_id"`
	Customer      Customer        `gorm:"foreignKey:CustomerID" json:"customer"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status        string          `gorm:"type:enum('PENDING','IN_TRANSIT','DELIVERED','CANCELLED');default:'PENDING'" json:"status"`
	PaymentStatus string          `gorm:"type:enum('PAID','PENDING','DEBT');default:'PENDING'" json:"payment_status"`
	PaymentMethod string          `gorm:"type:enum('cash','credit');default:'cash'" json:"payment_method"`
	Origin        string          `gorm:"type:enum('POS','PHONE');default:'POS'" json:"origin"`
	Advance       decimal.Decimal `gorm:"type:decimal(12,2);default:0.00" json:"advance"`
	Courier       string          `gorm:"size:100" json:"courier"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	DispatchedAt  *time.Time      `json:"dispatched_at"`
	DeliveredAt   *time.Time      `json:"delivered_at"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index" json:"order_id"`
	ProductID uint            `json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}
