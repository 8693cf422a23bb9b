package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bizledger/internal/uuid"
)

func init() {
	// Amounts travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base contains the identifier and creation timestamp shared by all tables.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// All returns every persisted model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Operation{},
		&Analysis{},
		&Forecast{},
		&ChatTurn{},
	}
}
