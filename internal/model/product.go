package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ImageData holds the product artwork as data URIs.
type ImageData struct {
	ResizedImage  string `json:"resized_image" gorm:"type:longtext"`
	OriginalImage string `json:"original_image" gorm:"type:longtext"`
}

// Product is a catalog item owned by a single creator.
//
// Creator name and picture are copied from the user at creation time and are
// not kept in sync afterwards. Orders, carts and comments reference a product
// through their own rows (order_lines, cart_lines, comments).
type Product struct {
	ID                    uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	CreatorID             uuid.UUID       `json:"creator_id" gorm:"type:char(36);not null;index"`
	CreatorProfilePicture string          `json:"creator_profile_picture" gorm:"type:text"`
	CreatorName           string          `json:"creator_name" gorm:"size:255;not null"`
	Name                  string          `json:"name" gorm:"size:255;not null;index"`
	ImageData             ImageData       `json:"image_data" gorm:"embedded"`
	Description           string          `json:"description" gorm:"type:text;not null"`
	Price                 decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	IsActive              bool            `json:"is_active" gorm:"not null;index"`
	Ratings               float64         `json:"ratings" gorm:"not null"`
	Version               int64           `json:"-" gorm:"not null"`
	CreatedOn             time.Time       `json:"created_on" gorm:"autoCreateTime;index"`
	UpdatedAt             time.Time       `json:"updated_at"`

	// Relations
	Reactors []Reactor `json:"reactors,omitempty" gorm:"foreignKey:ProductID"`

	// OrdersCount is only populated by the best-selling search.
	OrdersCount int64 `json:"orders_count,omitempty" gorm:"->;-:migration"`
}

// BeforeCreate sets UUID and the initial version before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}

// Reactor is a single user's reaction on a product. A user has at most one per product.
type Reactor struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:char(36);not null;uniqueIndex:idx_reactors_product_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_reactors_product_user"`
	Reaction  int       `json:"reaction" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Reactor) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
