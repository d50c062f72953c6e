package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is an immutable purchase record.
type Order struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(20,2);not null"`
	PurchasedOn time.Time       `json:"purchased_on" gorm:"autoCreateTime;index"`

	// Relations
	Products []OrderLine `json:"products" gorm:"foreignKey:OrderID"`
}

// OrderLine snapshots the price a product was bought at.
type OrderLine struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	OrderID   uuid.UUID       `json:"-" gorm:"type:char(36);not null;index"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:char(36);not null;index"`
	SubTotal  decimal.Decimal `json:"sub_total" gorm:"type:decimal(20,2);not null"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
