package usecase

import (
	crmdomain "github.com/thamiresml/thracker-sub002/internal/crm/domain"
	syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"
)

// Outcome reports what a single message added to the CRM.
type Outcome struct {
	CompanyCreated     bool
	ContactCreated     bool
	InteractionCreated bool
	Company            *crmdomain.Company
	Contact            *crmdomain.Contact
}

// EntityResolver maps one parsed message to Company/Contact/Interaction rows,
// deduplicating against the store. All rows are scoped to userID.
type EntityResolver interface {
	Resolve(userID string, msg *syncdomain.Message) (*Outcome, error)
}
