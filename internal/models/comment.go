package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a user comment on a collab. Comments are append-only; no edit or
// delete operation is exposed.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  string    `gorm:"size:64;not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CollabID  string    `gorm:"size:64;not null;index" json:"collab_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID when none was set.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
