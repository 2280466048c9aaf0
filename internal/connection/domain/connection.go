package domain

import "time"

// Connection is a stored, authorized binding between a user and one external
// mailbox. Exactly one row exists per (user, email address); reconnecting the
// same mailbox updates the row in place.
type Connection struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex:idx_user_mailbox;not null"`
	EmailAddress string    `json:"email_address" gorm:"uniqueIndex:idx_user_mailbox;not null"`
	AccessToken  string    `json:"-" gorm:"not null"`
	RefreshToken string    `json:"-" gorm:"not null"`
	TokenExpiry  time.Time `json:"token_expiry"`
	Scope        string    `json:"scope"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
