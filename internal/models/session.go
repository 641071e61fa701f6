package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// SessionTokenBytes is the entropy of a session token before hex encoding.
const SessionTokenBytes = 48

// SessionTTL is the fixed lifetime of a session.
const SessionTTL = 7 * 24 * time.Hour

// Session is an opaque server-side login session. A session is valid iff the
// row exists and ExpiresAt is in the future; expired rows are removed lazily
// on first access.
type Session struct {
	Token     string    `gorm:"primaryKey;size:96" json:"-"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// NewSessionToken returns a cryptographically random opaque token.
func NewSessionToken() string {
	buf := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
