package repository

import (
	"time"

	conndomain "github.com/thamiresml/thracker-sub002/internal/connection/domain"
)

// ConnectionRepository defines data access for mailbox connections
type ConnectionRepository interface {
	Create(conn *conndomain.Connection) error
	FindByID(id string) (*conndomain.Connection, error)
	FindByUserAndAddress(userID, address string) (*conndomain.Connection, error)
	FindAllByUser(userID string) ([]*conndomain.Connection, error)
	Update(conn *conndomain.Connection) error
	UpdateTokens(id, accessToken string, expiry time.Time) error
	Deactivate(id string) error
	Delete(id string) error
}
