package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is the single mutable basket of a user. TotalPrice always equals the
// sum of the line subtotals.
type Cart struct {
	ID         uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;uniqueIndex"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(20,2);not null"`
	Version    int64           `json:"-" gorm:"not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relations
	Products []CartLine `json:"products" gorm:"foreignKey:CartID"`
}

// CartLine is one product in a cart. SubTotal accumulates the product price on
// every add; there is no quantity field.
type CartLine struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	CartID    uuid.UUID       `json:"-" gorm:"type:char(36);not null;uniqueIndex:idx_cart_lines_cart_product"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:char(36);not null;uniqueIndex:idx_cart_lines_cart_product;index"`
	SubTotal  decimal.Decimal `json:"sub_total" gorm:"type:decimal(20,2);not null"`
}

// BeforeCreate sets UUID and the initial version before creating the record.
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (l *CartLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Line returns the line for productID, or nil.
func (c *Cart) Line(productID uuid.UUID) *CartLine {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			return &c.Products[i]
		}
	}
	return nil
}

// Recalculate sets TotalPrice to the sum of the line subtotals.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, line := range c.Products {
		total = total.Add(line.SubTotal)
	}
	c.TotalPrice = total
}
