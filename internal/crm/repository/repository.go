package repository

import crmdomain "github.com/thamiresml/thracker-sub002/internal/crm/domain"

// CompanyRepository defines data access for companies
type CompanyRepository interface {
	FindByDomain(userID, domain string) (*crmdomain.Company, error)
	FindByName(userID, name string) (*crmdomain.Company, error)
	Create(company *crmdomain.Company) error
}

// ContactRepository defines data access for contacts
type ContactRepository interface {
	FindByEmail(userID, email string) (*crmdomain.Contact, error)
	Create(contact *crmdomain.Contact) error
}

// InteractionRepository defines data access for interactions
type InteractionRepository interface {
	Exists(contactID, messageID string) (bool, error)
	Create(interaction *crmdomain.Interaction) error
}
