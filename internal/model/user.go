package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account. IsAdmin and IsDesigner are independent flags.
type User struct {
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProfilePicture string    `json:"profile_picture" gorm:"type:text"`
	FirstName      string    `json:"first_name" gorm:"size:100;not null"`
	LastName       string    `json:"last_name" gorm:"size:100;not null"`
	Suffix         string    `json:"suffix" gorm:"size:20"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Address        string    `json:"address" gorm:"size:255"`
	MobileNo       string    `json:"mobile_no" gorm:"size:30"`
	PasswordHash   string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Followers      int64     `json:"followers" gorm:"not null"`
	IsAdmin        bool      `json:"is_admin" gorm:"not null;index"`
	IsDesigner     bool      `json:"is_designer" gorm:"not null;index"`
	MemberDate     time.Time `json:"member_date" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName is the display name snapshotted onto products and comments.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName + " " + u.Suffix)
}
