package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an append-only ledger entry. DebtBefore and DebtAfter are
// snapshots taken inside the same transaction that moves the customer's debt.
type Payment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"index;not null" json:"user_id"`
	CustomerID uint            `gorm:"index;not null" json:"customer_id"`
	Customer   Customer        `gorm:"foreignKey:CustomerID" json:"customer"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Reference  string          `gorm:"size:100" json:"reference"`
	DebtBefore decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"debt_before"`
	DebtAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"debt_after"`
	CreatedAt  time.Time       `json:"created_at"`
}
