package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	crmdomain "github.com/thamiresml/thracker-sub002/internal/crm/domain"
	"github.com/thamiresml/thracker-sub002/internal/crm/repository"
	syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"
)

// Domains that never map to a company.
var publicWebmailDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"yahoo.com":      {},
	"ymail.com":      {},
	"outlook.com":    {},
	"hotmail.com":    {},
	"live.com":       {},
	"msn.com":        {},
	"icloud.com":     {},
	"me.com":         {},
	"aol.com":        {},
	"proton.me":      {},
	"protonmail.com": {},
	"gmx.com":        {},
	"zoho.com":       {},
}

// Local-part prefixes of automated senders that should not become contacts.
var automatedSenderPrefixes = []string{
	"noreply",
	"no-reply",
	"no_reply",
	"donotreply",
	"do-not-reply",
	"mailer-daemon",
	"postmaster",
	"notification",
	"notifications",
	"alert",
	"alerts",
	"bounce",
	"newsletter",
	"marketing",
	"support",
}

// entityResolver implements EntityResolver interface
type entityResolver struct {
	companyRepo     repository.CompanyRepository
	contactRepo     repository.ContactRepository
	interactionRepo repository.InteractionRepository
}

// NewEntityResolver creates a new instance of entityResolver
func NewEntityResolver(companyRepo repository.CompanyRepository, contactRepo repository.ContactRepository, interactionRepo repository.InteractionRepository) EntityResolver {
	return &entityResolver{
		companyRepo:     companyRepo,
		contactRepo:     contactRepo,
		interactionRepo: interactionRepo,
	}
}

func (r *entityResolver) Resolve(userID string, msg *syncdomain.Message) (*Outcome, error) {
	email, name, err := parseSender(msg.From)
	if err != nil {
		return nil, err
	}

	if isAutomatedSender(email) {
		return nil, fmt.Errorf("%w: %s", crmdomain.ErrSkippedNoContact, email)
	}

	outcome := &Outcome{}

	// Lookup-or-create in company -> contact -> interaction order, so a
	// contact never points at a not-yet-existing company.
	company, created, err := r.resolveCompany(userID, email)
	if err != nil {
		return nil, err
	}
	outcome.Company = company
	outcome.CompanyCreated = created

	contact, created, err := r.resolveContact(userID, email, name, company)
	if err != nil {
		return nil, err
	}
	outcome.Contact = contact
	outcome.ContactCreated = created

	created, err = r.resolveInteraction(userID, contact, msg)
	if err != nil {
		return nil, err
	}
	outcome.InteractionCreated = created

	return outcome, nil
}

func (r *entityResolver) resolveCompany(userID, email string) (*crmdomain.Company, bool, error) {
	domain := domainOf(email)
	if domain == "" {
		return nil, false, nil
	}
	if _, ok := publicWebmailDomains[domain]; ok {
		return nil, false, nil
	}

	company, err := r.companyRepo.FindByDomain(userID, domain)
	if err != nil {
		return nil, false, err
	}
	if company != nil {
		return company, false, nil
	}

	company = &crmdomain.Company{
		UserID: userID,
		Name:   companyNameFromDomain(domain),
		Domain: domain,
	}
	if err := r.companyRepo.Create(company); err != nil {
		return nil, false, err
	}
	return company, true, nil
}

func (r *entityResolver) resolveContact(userID, email, name string, company *crmdomain.Company) (*crmdomain.Contact, bool, error) {
	contact, err := r.contactRepo.FindByEmail(userID, email)
	if err != nil {
		return nil, false, err
	}
	if contact != nil {
		return contact, false, nil
	}

	contact = &crmdomain.Contact{
		UserID: userID,
		Name:   name,
		Email:  email,
	}
	if company != nil {
		contact.CompanyID = company.ID
	}
	if err := r.contactRepo.Create(contact); err != nil {
		return nil, false, err
	}
	return contact, true, nil
}

func (r *entityResolver) resolveInteraction(userID string, contact *crmdomain.Contact, msg *syncdomain.Message) (bool, error) {
	exists, err := r.interactionRepo.Exists(contact.ID, msg.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	interaction := &crmdomain.Interaction{
		UserID:     userID,
		ContactID:  contact.ID,
		MessageID:  msg.ID,
		Type:       crmdomain.InteractionTypeEmail,
		OccurredAt: msg.Date,
		Notes:      msg.Subject,
	}
	if err := r.interactionRepo.Create(interaction); err != nil {
		return false, err
	}
	return true, nil
}

// parseSender extracts the address and display name from a raw From header.
func parseSender(from string) (email, name string, err error) {
	if strings.TrimSpace(from) == "" {
		return "", "", fmt.Errorf("%w: empty From header", crmdomain.ErrUnparseableSender)
	}

	addr, perr := mail.ParseAddress(from)
	if perr != nil {
		return "", "", fmt.Errorf("%w: %q", crmdomain.ErrUnparseableSender, from)
	}

	email = strings.ToLower(addr.Address)
	if !strings.Contains(email, "@") {
		return "", "", fmt.Errorf("%w: %q", crmdomain.ErrUnparseableSender, from)
	}

	name = strings.TrimSpace(addr.Name)
	if name == "" {
		name = nameFromLocalPart(email)
	}
	return email, name, nil
}

func isAutomatedSender(email string) bool {
	local := email
	if idx := strings.Index(email, "@"); idx > 0 {
		local = email[:idx]
	}
	for _, prefix := range automatedSenderPrefixes {
		if strings.HasPrefix(local, prefix) {
			return true
		}
	}
	return false
}

func domainOf(email string) string {
	idx := strings.LastIndex(email, "@")
	if idx < 0 || idx == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[idx+1:])
}

// companyNameFromDomain turns "acme.com" into "Acme".
func companyNameFromDomain(domain string) string {
	label := domain
	if idx := strings.Index(domain, "."); idx > 0 {
		label = domain[:idx]
	}
	if label == "" {
		return domain
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// nameFromLocalPart turns "jane.doe" into "Jane Doe".
func nameFromLocalPart(email string) string {
	local := email
	if idx := strings.Index(email, "@"); idx > 0 {
		local = email[:idx]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	if len(parts) == 0 {
		return local
	}
	return strings.Join(parts, " ")
}
