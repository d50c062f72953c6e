package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follower is a directed edge: FollowerID follows FollowingID.
type Follower struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FollowerID  uuid.UUID `json:"follower_id" gorm:"type:char(36);not null;uniqueIndex:idx_followers_edge"`
	FollowingID uuid.UUID `json:"following_id" gorm:"type:char(36);not null;uniqueIndex:idx_followers_edge;index"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (f *Follower) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
