package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CustomerActive   = "Active"
	CustomerInactive = "Inactive"
)

type Customer struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"index;not null" json:"user_id"`
	Name       string          `gorm:"size:100;not null" json:"name"`
	NationalID string          `gorm:"size:20;index" json:"national_id"`
	Phone      string          `gorm:"size:15" json:"phone"`
	Email      string          `gorm:"size:100" json:"email"`
	Address    string          `gorm:"type:text" json:"address"`
	Debt       decimal.Decimal `gorm:"type:decimal(12,2);default:0.00" json:"debt"`
	Status     string          `gorm:"type:enum('Active','Inactive');default:'Active'" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}
