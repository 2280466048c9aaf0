package domain

import "time"

// Contact dedup key: (user, normalized email).
type Contact struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	CompanyID string    `json:"company_id,omitempty" gorm:"index"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"not null"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
