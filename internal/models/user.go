package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;unique;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	PinHash      string    `gorm:"size:255" json:"-"`
	BusinessName string    `gorm:"size:100" json:"business_name"`
	Email        string    `gorm:"size:100" json:"email"`
	Phone        string    `gorm:"size:15" json:"phone"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
