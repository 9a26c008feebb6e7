package bank

import (
	"context"
	"time"
)

type Type string

const (
	TypeCommercial Type = "commercial"
	TypeCentral    Type = "central"
	TypeGovernment Type = "government"
)

// Bank is immutable reference data; rows are created once and never updated.
type Bank struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	BankID        string    `gorm:"size:32;uniqueIndex:ux_banks_bank_id" json:"bank_id"`
	Code          string    `gorm:"size:16;uniqueIndex:ux_banks_code" json:"code"`
	Name          string    `gorm:"size:128" json:"name"`
	Type          Type      `gorm:"size:16;default:'commercial'" json:"type"`
	RoutingNumber string    `gorm:"size:16;index" json:"routing_number"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Bank) TableName() string { return "banks" }

type Repository interface {
	Create(ctx context.Context, b *Bank) error
	GetByBankID(ctx context.Context, bankID string) (*Bank, error)
	GetByCode(ctx context.Context, code string) (*Bank, error)
}
