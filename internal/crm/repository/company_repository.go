package repository

import (
	"errors"
	"strings"
	"time"

	crmdomain "github.com/thamiresml/thracker-sub002/internal/crm/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// companyRepository implements CompanyRepository interface
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new instance of companyRepository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{
		db: db,
	}
}

func (r *companyRepository) FindByDomain(userID, domain string) (*crmdomain.Company, error) {
	var company crmdomain.Company
	err := r.db.Where("user_id = ? AND domain = ?", userID, strings.ToLower(domain)).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) FindByName(userID, name string) (*crmdomain.Company, error) {
	var company crmdomain.Company
	err := r.db.Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name)).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Create(company *crmdomain.Company) error {
	company.ID = uuid.New().String()
	company.Domain = strings.ToLower(company.Domain)
	company.CreatedAt = time.Now()
	company.UpdatedAt = time.Now()
	return r.db.Create(company).Error
}
