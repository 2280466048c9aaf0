package repository

import (
	"errors"
	"time"

	crmdomain "github.com/thamiresml/thracker-sub002/internal/crm/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// interactionRepository implements InteractionRepository interface
type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new instance of interactionRepository
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{
		db: db,
	}
}

func (r *interactionRepository) Exists(contactID, messageID string) (bool, error) {
	var interaction crmdomain.Interaction
	err := r.db.Where("contact_id = ? AND message_id = ?", contactID, messageID).First(&interaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *interactionRepository) Create(interaction *crmdomain.Interaction) error {
	interaction.ID = uuid.New().String()
	interaction.CreatedAt = time.Now()
	interaction.UpdatedAt = time.Now()
	err := r.db.Create(interaction).Error
	// A duplicate key here means a concurrent writer won the race for the
	// same (contact, message) pair; the interaction exists either way.
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}
