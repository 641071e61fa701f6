// Package models contains data structures for the application's domain models.
package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"gorm.io/gorm"
)

// User represents a registered CollabHub account.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Collabs   []Collab  `gorm:"foreignKey:AuthorID" json:"collabs,omitempty"`
}

// BeforeCreate assigns an opaque stable ID when none was set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewUserID()
	}
	return nil
}

// NewUserID returns an opaque user identifier of the form "usr_<16 hex>".
func NewUserID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process has bigger problems;
		// surface it loudly rather than handing out a guessable ID.
		panic(err)
	}
	return "usr_" + hex.EncodeToString(buf)
}

// PublicProfile is the author shape embedded in collab and comment payloads.
type PublicProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Image    string `json:"image,omitempty"`
}

// Public returns the user reduced to the fields safe to embed in content
// payloads.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		Image:    u.Image,
	}
}
