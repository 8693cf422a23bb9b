package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType represents the direction of money movement.
type OperationType string

const (
	OperationTypeIncome  OperationType = "income"
	OperationTypeExpense OperationType = "expense"
)

// Valid reports whether t is one of the known operation types.
func (t OperationType) Valid() bool {
	return t == OperationTypeIncome || t == OperationTypeExpense
}

// Operation is a single income or expense record.
//
// CategoryID is always nil for income. CategoryName is filled from a join
// with categories and is never written.
type Operation struct {
	Base
	Type          OperationType   `gorm:"type:varchar(10);not null;index" json:"type"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description   string          `gorm:"type:text;not null;default:''" json:"description"`
	CategoryID    *string         `gorm:"type:uuid;index" json:"category_id"`
	Category      *Category       `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CategoryName  *string         `gorm:"->;-:migration" json:"category_name"`
	OperationDate Date            `gorm:"not null;index" json:"operation_date"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
