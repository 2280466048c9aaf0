package repository

import authdomain "github.com/thamiresml/thracker-sub002/internal/auth/domain"

// UserRepository defines data access for users
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error
}
