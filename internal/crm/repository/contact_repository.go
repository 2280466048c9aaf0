package repository

import (
	"errors"
	"strings"
	"time"

	crmdomain "github.com/thamiresml/thracker-sub002/internal/crm/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// contactRepository implements ContactRepository interface
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new instance of contactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{
		db: db,
	}
}

func (r *contactRepository) FindByEmail(userID, email string) (*crmdomain.Contact, error) {
	var contact crmdomain.Contact
	err := r.db.Where("user_id = ? AND email = ?", userID, strings.ToLower(email)).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) Create(contact *crmdomain.Contact) error {
	contact.ID = uuid.New().String()
	contact.Email = strings.ToLower(contact.Email)
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = time.Now()
	return r.db.Create(contact).Error
}
