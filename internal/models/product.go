package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	Products  []Product `json:"-"`
}

type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"index;not null" json:"user_id"`
	CategoryID   *uint           `json:"category_id"`
	Category     *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Code         string          `gorm:"size:50;index" json:"code"`
	Name         string          `gorm:"size:150;not null" json:"name"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sale_price"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);default:0.00" json:"cost_price"`
	Stock        int             `gorm:"default:0" json:"stock"`
	StockMinimum int             `gorm:"default:5" json:"stock_minimum"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
