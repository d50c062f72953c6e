package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is free text left by a user on a product. UserName and UserProfile
// are copied from the author when the comment is created.
type Comment struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:char(36);not null;index"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	UserProfile string    `json:"user_profile" gorm:"type:text"`
	UserName    string    `json:"user_name" gorm:"size:255;not null"`
	Comment     string    `json:"comment" gorm:"type:text;not null"`
	CommentedOn time.Time `json:"commented_on" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
