package domain

import "time"

// Interaction is one (contact, provider message) pair. The message id in the
// dedup key makes re-syncing an overlapping window idempotent.
type Interaction struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	ContactID  string    `json:"contact_id" gorm:"index;not null"`
	MessageID  string    `json:"message_id" gorm:"not null"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InteractionTypeEmail is the only type the sync engine creates; manual CRUD
// in the surrounding product may use others.
const InteractionTypeEmail = "email"
